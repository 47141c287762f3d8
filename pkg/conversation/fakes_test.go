package conversation_test

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/oceanbase/jarvis-go/pkg/core"
	"github.com/oceanbase/jarvis-go/pkg/llm"
)

var errInjected = errors.New("injected failure")

// memoryStore is an in-process storage.Store with the same matching rules as
// the SQL backends.
type memoryStore struct {
	mu        sync.Mutex
	facts     []*core.Fact
	turns     []*core.ChatTurn
	finds     int
	failWrite bool
	failRead  bool
}

func (m *memoryStore) SaveMemory(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrite {
		return errInjected
	}
	m.facts = append(m.facts, &core.Fact{ID: int64(len(m.facts) + 1), Key: strings.ToLower(strings.TrimSpace(key)), Value: value})
	return nil
}

func (m *memoryStore) DeleteMemoryByKeyword(_ context.Context, keyword string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrite {
		return 0, errInjected
	}
	keyword = strings.ToLower(keyword)
	var kept []*core.Fact
	var deleted int64
	for _, f := range m.facts {
		if strings.Contains(f.Key, keyword) {
			deleted++
			continue
		}
		kept = append(kept, f)
	}
	m.facts = kept
	return deleted, nil
}

func (m *memoryStore) FindMemory(_ context.Context, query string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.finds++
	if m.failRead {
		return "", false, errInjected
	}
	query = strings.ToLower(query)
	for i := len(m.facts) - 1; i >= 0; i-- {
		if m.facts[i].Key != "" && strings.Contains(query, m.facts[i].Key) {
			return m.facts[i].Value, true, nil
		}
	}
	return "", false, nil
}

func (m *memoryStore) ListMemories(context.Context) ([]*core.Fact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*core.Fact, 0, len(m.facts))
	for i := len(m.facts) - 1; i >= 0; i-- {
		out = append(out, m.facts[i])
	}
	return out, nil
}

func (m *memoryStore) SaveChatTurn(_ context.Context, user, assistant string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrite {
		return errInjected
	}
	m.turns = append(m.turns, &core.ChatTurn{ID: int64(len(m.turns) + 1), UserMessage: user, AssistantReply: assistant})
	return nil
}

func (m *memoryStore) LoadHistory(_ context.Context, limit int) ([]*core.ChatTurn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*core.ChatTurn{}
	for i := len(m.turns) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.turns[i])
	}
	return out, nil
}

func (m *memoryStore) Close() error { return nil }

// scriptedLLM answers extraction prompts and persona prompts separately.
type scriptedLLM struct {
	mu          sync.Mutex
	extraction  string
	reply       string
	err         error
	calls       []llm.Message
	systems     []string
	temperature []float64
}

func (s *scriptedLLM) Generate(ctx context.Context, prompt string, opts ...llm.GenerateOption) (string, error) {
	return s.GenerateWithMessages(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, opts...)
}

func (s *scriptedLLM) GenerateWithMessages(_ context.Context, messages []llm.Message, opts ...llm.GenerateOption) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, messages[len(messages)-1])
	if messages[0].Role == llm.RoleSystem {
		s.systems = append(s.systems, messages[0].Content)
	}
	s.temperature = append(s.temperature, llm.ApplyGenerateOptions(opts).Temperature)
	if s.err != nil {
		return "", s.err
	}
	if strings.Contains(messages[0].Content, "Extract long-term user memory") {
		return s.extraction, nil
	}
	return s.reply, nil
}

func (s *scriptedLLM) Close() error { return nil }

func (s *scriptedLLM) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

type recordingSpeech struct {
	mu    sync.Mutex
	texts []string
	langs []string
	err   error
}

func (r *recordingSpeech) Synthesize(_ context.Context, text, lang string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	r.texts = append(r.texts, text)
	r.langs = append(r.langs, lang)
	return []byte("mp3:" + text), nil
}
