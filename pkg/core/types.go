package core

import "time"

// Fact is a remembered key/value pair, such as a user preference.
//
// Keys are stored lower-cased and are not unique.
type Fact struct {
	// ID is the auto-incremented row identifier.
	ID int64 `json:"-"`

	// Key is the lower-cased fact key (e.g. "favorite color").
	Key string `json:"memory_key"`

	// Value is the fact value, returned verbatim when the key matches a query.
	Value string `json:"memory_value"`

	// CreatedAt is assigned by the store.
	CreatedAt time.Time `json:"created_at"`
}

// ChatTurn is one user message paired with the assistant's reply.
type ChatTurn struct {
	// ID is the auto-incremented row identifier.
	ID int64 `json:"-"`

	// UserMessage is the inbound message as received (trimmed).
	UserMessage string `json:"user_message"`

	// AssistantReply is the reply that was sent back.
	AssistantReply string `json:"assistant_reply"`

	// CreatedAt is assigned by the store.
	CreatedAt time.Time `json:"created_at"`
}
