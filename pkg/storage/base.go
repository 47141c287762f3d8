// Package storage provides the interface for the relay's relational store.
//
// The store holds two independent tables: memory facts and the chat
// transcript. There is no cache in front of it; every lookup re-queries.
package storage

import (
	"context"

	"github.com/oceanbase/jarvis-go/pkg/core"
)

// Store defines the interface for storage backends.
//
// All implementations (MySQL, PostgreSQL, SQLite) must implement this interface.
// Each operation acquires its own connection and releases it before returning.
type Store interface {
	// SaveMemory inserts one fact. The key is trimmed and lower-cased.
	SaveMemory(ctx context.Context, key, value string) error

	// DeleteMemoryByKeyword deletes every fact whose key contains keyword
	// (case-insensitive) and returns the number of rows removed.
	DeleteMemoryByKeyword(ctx context.Context, keyword string) (int64, error)

	// FindMemory returns the value of the newest fact whose key is a
	// substring of query (case-insensitive). found is false when nothing matches.
	FindMemory(ctx context.Context, query string) (value string, found bool, err error)

	// ListMemories returns all facts, newest first.
	ListMemories(ctx context.Context) ([]*core.Fact, error)

	// SaveChatTurn appends one transcript row.
	SaveChatTurn(ctx context.Context, userMessage, assistantReply string) error

	// LoadHistory returns up to limit transcript rows, newest first.
	LoadHistory(ctx context.Context, limit int) ([]*core.ChatTurn, error)

	// Close closes the store and releases resources.
	Close() error
}
