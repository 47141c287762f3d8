// Package sqlite opens the relay store on a local SQLite file.
//
// SQLite suits local development and tests; the schema and queries are the
// same as the server backends.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/oceanbase/jarvis-go/pkg/core"
	"github.com/oceanbase/jarvis-go/pkg/storage/sqldb"
)

// Config contains configuration for a SQLite store.
type Config struct {
	// DBPath is the path to the SQLite database file.
	DBPath string

	MemoryTable string
	ChatTable   string
}

// NewClient opens (or creates) the SQLite file and the relay tables.
func NewClient(ctx context.Context, cfg *Config) (*sqldb.Client, error) {
	dbDir := filepath.Dir(cfg.DBPath)
	if dbDir != "" && dbDir != "." {
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			return nil, core.NewError("NewSQLiteClient", fmt.Errorf("failed to create directory: %w", err))
		}
	}

	db, err := sql.Open("sqlite3", cfg.DBPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, core.Wrap("NewSQLiteClient", core.ErrConnectionFailed, err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, core.Wrap("NewSQLiteClient", core.ErrConnectionFailed, err)
	}

	return sqldb.New(ctx, db, sqldb.SQLite, &sqldb.Config{
		MemoryTable: cfg.MemoryTable,
		ChatTable:   cfg.ChatTable,
	})
}
