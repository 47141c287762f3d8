package conversation

import (
	"sync"

	"github.com/bwmarrin/snowflake"
)

// Session is the per-conversation state: the last user message that went
// through the engine. The gateway creates one per realtime connection.
//
// A Session serializes Handle calls made with it.
type Session struct {
	// ID identifies the session in logs.
	ID snowflake.ID

	mu              sync.Mutex
	lastUserMessage string
}

// LastUserMessage returns the previous message handled in this session, or "".
func (s *Session) LastUserMessage() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUserMessage
}

// SessionFactory issues sessions with unique snowflake IDs.
type SessionFactory struct {
	node *snowflake.Node
}

// NewSessionFactory creates a factory for the given snowflake node (0-1023).
func NewSessionFactory(nodeID int64) (*SessionFactory, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, err
	}
	return &SessionFactory{node: node}, nil
}

// New returns an empty session.
func (f *SessionFactory) New() *Session {
	return &Session{ID: f.node.Generate()}
}
