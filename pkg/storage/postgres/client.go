// Package postgres opens the relay store on PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"strconv"

	_ "github.com/lib/pq"

	"github.com/oceanbase/jarvis-go/pkg/core"
	"github.com/oceanbase/jarvis-go/pkg/storage/sqldb"
)

// Config contains PostgreSQL configuration.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string

	MemoryTable string
	ChatTable   string
}

// DSN builds a postgres:// connection URL for cfg.
func DSN(cfg *Config) string {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Path:     "/" + cfg.DBName,
		RawQuery: url.Values{"sslmode": {sslMode}}.Encode(),
	}
	return u.String()
}

// NewClient connects to PostgreSQL and creates the relay tables.
func NewClient(ctx context.Context, cfg *Config) (*sqldb.Client, error) {
	db, err := sql.Open("postgres", DSN(cfg))
	if err != nil {
		return nil, core.Wrap("NewPostgresClient", core.ErrConnectionFailed, err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, core.Wrap("NewPostgresClient", core.ErrConnectionFailed, fmt.Errorf("ping %s: %w", cfg.Host, err))
	}

	return sqldb.New(ctx, db, sqldb.Postgres, &sqldb.Config{
		MemoryTable: cfg.MemoryTable,
		ChatTable:   cfg.ChatTable,
	})
}
