// Package sqldb implements storage.Store on top of database/sql.
//
// Backends (mysql, postgres, sqlite) open the *sql.DB with their driver and
// hand it to New together with their Dialect.
package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/oceanbase/jarvis-go/pkg/core"
	"github.com/oceanbase/jarvis-go/pkg/storage"
)

var _ storage.Store = (*Client)(nil)

// Client is a storage.Store backed by a relational database.
type Client struct {
	db      *sql.DB
	dialect Dialect
	queries queries
}

// Config contains the table names used by the client.
type Config struct {
	// MemoryTable is the table holding memory facts (default "jarvis_memory").
	MemoryTable string

	// ChatTable is the table holding the chat transcript (default "jarvis_chat_history").
	ChatTable string
}

type queries struct {
	insertMemory   string
	deleteMemory   string
	findMemory     string
	listMemories   string
	insertChatTurn string
	loadHistory    string
}

// New wraps an open database, creates the tables if needed and returns a Client.
//
// The database is closed if table creation fails.
func New(ctx context.Context, db *sql.DB, dialect Dialect, cfg *Config) (*Client, error) {
	memoryTable, chatTable := "jarvis_memory", "jarvis_chat_history"
	if cfg != nil && cfg.MemoryTable != "" {
		memoryTable = cfg.MemoryTable
	}
	if cfg != nil && cfg.ChatTable != "" {
		chatTable = cfg.ChatTable
	}
	if !validTableName(memoryTable) || !validTableName(chatTable) {
		_ = db.Close()
		return nil, core.NewError("New", fmt.Errorf("%w: invalid table name", core.ErrInvalidConfig))
	}

	c := &Client{
		db:      db,
		dialect: dialect,
		queries: buildQueries(dialect, memoryTable, chatTable),
	}

	if err := c.initTables(ctx, memoryTable, chatTable); err != nil {
		_ = db.Close()
		return nil, err
	}

	return c, nil
}

func buildQueries(d Dialect, memoryTable, chatTable string) queries {
	p := d.Placeholder
	return queries{
		insertMemory: fmt.Sprintf(
			"INSERT INTO %s (memory_key, memory_value) VALUES (%s, %s)",
			memoryTable, p(1), p(2)),
		deleteMemory: fmt.Sprintf(
			"DELETE FROM %s WHERE %s",
			memoryTable, d.Contains("memory_key", p(1))),
		findMemory: fmt.Sprintf(`
			SELECT memory_value
			FROM %s
			WHERE memory_key <> '' AND %s
			ORDER BY created_at DESC, id DESC
			LIMIT 1`,
			memoryTable, d.Contains(p(1), "memory_key")),
		listMemories: fmt.Sprintf(`
			SELECT id, memory_key, memory_value, created_at
			FROM %s
			ORDER BY created_at DESC, id DESC`,
			memoryTable),
		insertChatTurn: fmt.Sprintf(
			"INSERT INTO %s (user_message, assistant_reply) VALUES (%s, %s)",
			chatTable, p(1), p(2)),
		loadHistory: fmt.Sprintf(`
			SELECT id, user_message, assistant_reply, created_at
			FROM %s
			ORDER BY created_at DESC, id DESC
			LIMIT %s`,
			chatTable, p(1)),
	}
}

// initTables creates the memory and chat tables.
func (c *Client) initTables(ctx context.Context, memoryTable, chatTable string) error {
	return c.withConn(ctx, "initTables", func(conn *sql.Conn) error {
		if _, err := conn.ExecContext(ctx, fmt.Sprintf(c.dialect.MemoryTableDDL, memoryTable)); err != nil {
			return fmt.Errorf("create %s: %w", memoryTable, err)
		}
		if _, err := conn.ExecContext(ctx, fmt.Sprintf(c.dialect.ChatTableDDL, chatTable)); err != nil {
			return fmt.Errorf("create %s: %w", chatTable, err)
		}
		return nil
	})
}

// withConn runs fn on a connection dedicated to this operation.
// The connection goes back to the pool on every exit path.
func (c *Client) withConn(ctx context.Context, op string, fn func(conn *sql.Conn) error) error {
	conn, err := c.db.Conn(ctx)
	if err != nil {
		return core.Wrap(op, core.ErrConnectionFailed, err)
	}
	defer func() { _ = conn.Close() }()

	if err := fn(conn); err != nil {
		return core.Wrap(op, core.ErrStorageOperation, err)
	}
	return nil
}

// SaveMemory inserts one fact with a lower-cased key.
func (c *Client) SaveMemory(ctx context.Context, key, value string) error {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return core.NewError("SaveMemory", fmt.Errorf("%w: empty memory key", core.ErrInvalidInput))
	}

	return c.withConn(ctx, "SaveMemory", func(conn *sql.Conn) error {
		_, err := conn.ExecContext(ctx, c.queries.insertMemory, key, value)
		return err
	})
}

// DeleteMemoryByKeyword deletes all facts whose key contains keyword.
//
// An empty keyword is rejected rather than deleting every row.
func (c *Client) DeleteMemoryByKeyword(ctx context.Context, keyword string) (int64, error) {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	if keyword == "" {
		return 0, core.NewError("DeleteMemoryByKeyword", fmt.Errorf("%w: empty keyword", core.ErrInvalidInput))
	}

	var deleted int64
	err := c.withConn(ctx, "DeleteMemoryByKeyword", func(conn *sql.Conn) error {
		result, err := conn.ExecContext(ctx, c.queries.deleteMemory, keyword)
		if err != nil {
			return err
		}
		deleted, err = result.RowsAffected()
		return err
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

// FindMemory returns the newest fact whose key occurs in query.
//
// The match direction is stored key inside query: a stored key "name"
// matches "what is my name".
func (c *Client) FindMemory(ctx context.Context, query string) (string, bool, error) {
	var value string
	var found bool

	err := c.withConn(ctx, "FindMemory", func(conn *sql.Conn) error {
		err := conn.QueryRowContext(ctx, c.queries.findMemory, strings.ToLower(query)).Scan(&value)
		if err == sql.ErrNoRows {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return nil
	})
	if err != nil {
		return "", false, err
	}
	return value, found, nil
}

// ListMemories returns all facts ordered newest first.
func (c *Client) ListMemories(ctx context.Context) ([]*core.Fact, error) {
	facts := []*core.Fact{}

	err := c.withConn(ctx, "ListMemories", func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, c.queries.listMemories)
		if err != nil {
			return err
		}
		defer func() { _ = rows.Close() }()

		for rows.Next() {
			var fact core.Fact
			var createdAt sql.NullTime
			if err := rows.Scan(&fact.ID, &fact.Key, &fact.Value, &createdAt); err != nil {
				return err
			}
			fact.CreatedAt = timeOrZero(createdAt)
			facts = append(facts, &fact)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return facts, nil
}

// SaveChatTurn appends one transcript row.
func (c *Client) SaveChatTurn(ctx context.Context, userMessage, assistantReply string) error {
	return c.withConn(ctx, "SaveChatTurn", func(conn *sql.Conn) error {
		_, err := conn.ExecContext(ctx, c.queries.insertChatTurn, userMessage, assistantReply)
		return err
	})
}

// LoadHistory returns up to limit transcript rows, newest first.
func (c *Client) LoadHistory(ctx context.Context, limit int) ([]*core.ChatTurn, error) {
	turns := []*core.ChatTurn{}
	if limit <= 0 {
		return turns, nil
	}

	err := c.withConn(ctx, "LoadHistory", func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, c.queries.loadHistory, limit)
		if err != nil {
			return err
		}
		defer func() { _ = rows.Close() }()

		for rows.Next() {
			var turn core.ChatTurn
			var createdAt sql.NullTime
			if err := rows.Scan(&turn.ID, &turn.UserMessage, &turn.AssistantReply, &createdAt); err != nil {
				return err
			}
			turn.CreatedAt = timeOrZero(createdAt)
			turns = append(turns, &turn)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return turns, nil
}

// Close closes the underlying database.
func (c *Client) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

func timeOrZero(t sql.NullTime) time.Time {
	if t.Valid {
		return t.Time.UTC()
	}
	return time.Time{}
}
