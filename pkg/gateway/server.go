// Package gateway exposes the conversation engine over HTTP and WebSocket.
//
// GET / serves the browser page. GET /ws upgrades to a WebSocket carrying
// JSON envelopes {"event": name, "data": payload}.
package gateway

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/oceanbase/jarvis-go/pkg/conversation"
	"github.com/oceanbase/jarvis-go/pkg/core"
	"github.com/oceanbase/jarvis-go/pkg/tts"
	"github.com/oceanbase/jarvis-go/pkg/utils/logging"
)

//go:embed static/jarvis.html
var static embed.FS

// Engine is the part of conversation.Engine the gateway drives.
type Engine interface {
	Respond(ctx context.Context, s *conversation.Session, message string) (*conversation.Reply, error)
	Speak(ctx context.Context, reply *conversation.Reply) ([]byte, error)
	History(ctx context.Context, limit int) ([]*core.ChatTurn, error)
	Memories(ctx context.Context) ([]*core.Fact, error)
}

// Config is the gateway configuration.
type Config struct {
	// Addr is the listen address.
	Addr string

	// HistoryLimit is the number of rows sent on load_history.
	HistoryLimit int

	// ShutdownTimeout bounds graceful shutdown (default 10s).
	ShutdownTimeout time.Duration
}

// Server serves the page and the event channel.
type Server struct {
	engine   Engine
	sessions *conversation.SessionFactory
	cfg      Config
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewServer creates a gateway server.
func NewServer(engine Engine, sessions *conversation.SessionFactory, cfg *Config, logger *slog.Logger) *Server {
	c := Config{}
	if cfg != nil {
		c = *cfg
	}
	if c.HistoryLimit <= 0 {
		c.HistoryLimit = core.DefaultHistoryLimit
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = 10 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &Server{
		engine:   engine,
		sessions: sessions,
		cfg:      c,
		upgrader: websocket.Upgrader{
			// Any origin is accepted; there is no authentication.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger: logger,
	}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /ws", s.handleWebSocket)
	return mux
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("gateway listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	case <-ctx.Done():
	}

	s.logger.Info("gateway shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	page, err := static.ReadFile("static/jarvis.html")
	if err != nil {
		http.Error(w, "page not found", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	session := s.sessions.New()
	logger := s.logger.With("session", session.ID.String(), "remote", r.RemoteAddr)
	c := &conn{ws: ws}
	defer func() { _ = ws.Close() }()

	logger.Info("connection opened")
	defer logger.Info("connection closed")

	ctx := logging.With(r.Context(), logger)
	for {
		_, frame, err := ws.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
				logger.Debug("read failed", "error", err)
			}
			return
		}

		var env Envelope
		if err := json.Unmarshal(frame, &env); err != nil {
			logger.Warn("malformed frame ignored", "error", err)
			continue
		}

		if err := s.dispatch(ctx, c, session, env); err != nil {
			logger.Error("event failed", "event", env.Event, "error", err)
			if errors.Is(err, errWrite) {
				return
			}
		}
	}
}

var errWrite = errors.New("write failed")

// dispatch handles one inbound event. On error nothing further is emitted
// for that event.
func (s *Server) dispatch(ctx context.Context, c *conn, session *conversation.Session, env Envelope) error {
	logger := logging.From(ctx)
	logger.Debug("event received", "event", env.Event)

	switch env.Event {
	case EventStartStream:
		var in StartStream
		if len(env.Data) > 0 {
			if err := json.Unmarshal(env.Data, &in); err != nil {
				return fmt.Errorf("%w: start_stream payload: %v", core.ErrInvalidInput, err)
			}
		}
		return s.startStream(ctx, c, session, in.Message)

	case EventLoadHistory:
		turns, err := s.engine.History(ctx, s.cfg.HistoryLimit)
		if err != nil {
			return err
		}
		return c.emit(EventHistory, turns)

	case EventListMemory:
		facts, err := s.engine.Memories(ctx)
		if err != nil {
			return err
		}
		return c.emit(EventMemoryList, facts)

	default:
		logger.Warn("unknown event ignored", "event", env.Event)
		return nil
	}
}

func (s *Server) startStream(ctx context.Context, c *conn, session *conversation.Session, message string) error {
	reply, err := s.engine.Respond(ctx, session, message)
	if err != nil {
		return err
	}
	if err := c.emit(EventLLMToken, Token{Token: reply.Text}); err != nil {
		return err
	}

	if !reply.Empty {
		audio, err := s.engine.Speak(ctx, reply)
		if err != nil {
			return err
		}
		if err := c.emit(EventAudioChunk, AudioChunk{AudioB64: tts.EncodeBase64(audio)}); err != nil {
			return err
		}
	}

	return c.emit(EventStreamDone, nil)
}

// conn serializes writes; gorilla/websocket allows one concurrent writer.
type conn struct {
	mu sync.Mutex
	ws *websocket.Conn
}

func (c *conn) emit(event string, payload any) error {
	env := Envelope{Event: event}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode %s: %w", event, err)
		}
		env.Data = data
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.ws.WriteJSON(env); err != nil {
		return fmt.Errorf("%w: %s: %v", errWrite, event, err)
	}
	return nil
}
