// Package conversation implements the message handling procedure of the relay:
// classify the message, run the forget, save or converse branch, persist the
// turn and render the reply as speech.
package conversation

import (
	"context"
	"fmt"
	"strings"

	"github.com/oceanbase/jarvis-go/pkg/core"
	"github.com/oceanbase/jarvis-go/pkg/intelligence"
	"github.com/oceanbase/jarvis-go/pkg/llm"
	"github.com/oceanbase/jarvis-go/pkg/storage"
	"github.com/oceanbase/jarvis-go/pkg/tts"
	"github.com/oceanbase/jarvis-go/pkg/utils/logging"
)

// DefaultPersona is the system instruction for conversational replies.
const DefaultPersona = `You are JARVIS.
Short. Direct. Precise.
No emojis. No filler.`

// Canned replies.
const (
	ReplyEmpty         = "Say something."
	ReplyForgetUnknown = "specify what to forget"
	ReplySaved         = "updated memory"
	ReplyNothingToSave = "nothing to save"
)

// conversationTemperature is used for persona replies; extraction runs at 0.
const conversationTemperature = 0.3

// ForgetReply is the confirmation sent after deleting facts matching key.
func ForgetReply(key string) string {
	return fmt.Sprintf("memory '%s' forgotten", key)
}

// Reply is the outcome of handling one message.
type Reply struct {
	// Text is the reply sent to the user.
	Text string

	// Locale is detected from the inbound message, not from Text.
	Locale intelligence.Locale

	// Intent is the branch that produced Text.
	Intent intelligence.Intent

	// Empty is set when the message was blank. Nothing was persisted and
	// no audio should be produced.
	Empty bool

	// FromMemory is set when Text is a stored fact value returned verbatim.
	FromMemory bool
}

// Engine runs the message handling procedure.
//
// The engine is safe for concurrent use; conversational state lives in the
// Session passed to each call.
type Engine struct {
	store     storage.Store
	llm       llm.Provider
	extractor *intelligence.FactExtractor
	speech    tts.Synthesizer
	persona   string
}

// Option configures an Engine.
type Option func(*Engine)

// WithPersona replaces DefaultPersona.
func WithPersona(persona string) Option {
	return func(e *Engine) {
		e.persona = persona
	}
}

// NewEngine creates an engine over a store, a language model and a synthesizer.
func NewEngine(store storage.Store, provider llm.Provider, speech tts.Synthesizer, opts ...Option) *Engine {
	e := &Engine{
		store:     store,
		llm:       provider,
		extractor: intelligence.NewFactExtractor(provider),
		speech:    speech,
		persona:   DefaultPersona,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Respond computes the reply text for message and records the turn.
//
// The procedure:
//  1. A blank message gets ReplyEmpty; nothing is stored and the session is untouched.
//  2. The message is classified (forget, save, converse).
//  3. Forget deletes facts whose key contains the target.
//  4. Save extracts a fact from the session's previous message and stores it.
//  5. Converse answers from memory when a stored key occurs in the message,
//     otherwise from the model.
//  6. The turn is appended to the transcript and the session remembers message.
//
// Store and model failures are returned as errors; the turn is not recorded.
func (e *Engine) Respond(ctx context.Context, s *Session, message string) (*Reply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return &Reply{Text: ReplyEmpty, Locale: intelligence.LocaleEnglish, Empty: true}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	reply := &Reply{Locale: intelligence.DetectLocale(message)}
	cmd := intelligence.Classify(message)
	reply.Intent = cmd.Intent

	logging.From(ctx).Debug("handling message",
		"session", s.ID.String(),
		"intent", cmd.Intent.String(),
		"locale", string(reply.Locale),
	)

	var err error
	switch cmd.Intent {
	case intelligence.IntentForget:
		reply.Text, err = e.forget(ctx, cmd.Key)
	case intelligence.IntentSave:
		reply.Text, err = e.save(ctx, s.lastUserMessage)
	default:
		reply.Text, reply.FromMemory, err = e.converse(ctx, message)
	}
	if err != nil {
		return nil, err
	}

	if err := e.store.SaveChatTurn(ctx, message, reply.Text); err != nil {
		return nil, err
	}
	s.lastUserMessage = message

	return reply, nil
}

func (e *Engine) forget(ctx context.Context, key string) (string, error) {
	if key == "" {
		return ReplyForgetUnknown, nil
	}

	deleted, err := e.store.DeleteMemoryByKeyword(ctx, key)
	if err != nil {
		return "", err
	}
	logging.From(ctx).Info("memory forgotten", "keyword", key, "deleted", deleted)

	return ForgetReply(key), nil
}

// save extracts from the previous message, never the current one.
func (e *Engine) save(ctx context.Context, previous string) (string, error) {
	if previous == "" {
		return ReplyNothingToSave, nil
	}

	ext, err := e.extractor.Extract(ctx, previous)
	if err != nil {
		return "", core.Wrap("Save", core.ErrLLMOperation, err)
	}
	if !ext.Found {
		return ReplyNothingToSave, nil
	}

	if err := e.store.SaveMemory(ctx, ext.Key, ext.Value); err != nil {
		return "", err
	}
	logging.From(ctx).Info("memory saved", "key", ext.Key)

	return ReplySaved, nil
}

func (e *Engine) converse(ctx context.Context, message string) (string, bool, error) {
	value, found, err := e.store.FindMemory(ctx, message)
	if err != nil {
		return "", false, err
	}
	if found {
		return value, true, nil
	}

	text, err := llm.Complete(ctx, e.llm, e.persona, message, conversationTemperature)
	if err != nil {
		return "", false, core.Wrap("Converse", core.ErrLLMOperation, err)
	}
	return strings.TrimSpace(text), false, nil
}

// Speak renders the reply as audio in the reply's locale.
func (e *Engine) Speak(ctx context.Context, reply *Reply) ([]byte, error) {
	audio, err := e.speech.Synthesize(ctx, reply.Text, string(reply.Locale))
	if err != nil {
		return nil, core.Wrap("Speak", core.ErrTTSOperation, err)
	}
	return audio, nil
}

// Handle runs Respond and, for non-blank messages, Speak.
// The returned audio is nil when the reply is Empty.
func (e *Engine) Handle(ctx context.Context, s *Session, message string) (*Reply, []byte, error) {
	reply, err := e.Respond(ctx, s, message)
	if err != nil {
		return nil, nil, err
	}
	if reply.Empty {
		return reply, nil, nil
	}

	audio, err := e.Speak(ctx, reply)
	if err != nil {
		return reply, nil, err
	}
	return reply, audio, nil
}

// History returns up to limit transcript rows, newest first.
func (e *Engine) History(ctx context.Context, limit int) ([]*core.ChatTurn, error) {
	return e.store.LoadHistory(ctx, limit)
}

// Memories returns all stored facts, newest first.
func (e *Engine) Memories(ctx context.Context) ([]*core.Fact, error) {
	return e.store.ListMemories(ctx)
}
