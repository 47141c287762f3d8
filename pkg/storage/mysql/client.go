// Package mysql opens the relay store on a MySQL-compatible server.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/oceanbase/jarvis-go/pkg/core"
	"github.com/oceanbase/jarvis-go/pkg/storage/sqldb"
)

// Config contains MySQL configuration.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string

	// TLS is the driver tls parameter: "true", "false", "skip-verify" or "preferred".
	TLS string

	MemoryTable string
	ChatTable   string
}

// DSN builds the driver data source name for cfg.
func DSN(cfg *Config) string {
	dc := mysql.NewConfig()
	dc.User = cfg.User
	dc.Passwd = cfg.Password
	dc.Net = "tcp"
	dc.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	dc.DBName = cfg.DBName
	dc.ParseTime = true
	dc.Loc = time.UTC
	dc.TLSConfig = cfg.TLS
	return dc.FormatDSN()
}

// NewClient connects to MySQL and creates the relay tables.
func NewClient(ctx context.Context, cfg *Config) (*sqldb.Client, error) {
	db, err := sql.Open("mysql", DSN(cfg))
	if err != nil {
		return nil, core.Wrap("NewMySQLClient", core.ErrConnectionFailed, err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, core.Wrap("NewMySQLClient", core.ErrConnectionFailed, fmt.Errorf("ping %s: %w", cfg.Host, err))
	}

	return sqldb.New(ctx, db, sqldb.MySQL, &sqldb.Config{
		MemoryTable: cfg.MemoryTable,
		ChatTable:   cfg.ChatTable,
	})
}
