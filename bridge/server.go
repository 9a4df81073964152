// Package bridge serves gesture recognition over WebSocket. A browser page
// forwards DOM touch, mouse and pointer events; the server runs one
// gesture.Manager per connection and sends recognized gestures back.
package bridge

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/url"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"

	"github.com/phanxgames/gesture"
	"github.com/phanxgames/gesture/trace"
)

//go:embed static
var staticFiles embed.FS

var (
	errHelloRequired = errors.New("bridge: hello required before input")
	errHelloRepeated = errors.New("bridge: session already open")
	errUnknownKind   = errors.New("bridge: unknown message kind")
	errMissingEvent  = errors.New("bridge: input without event")
	errMissingTime   = errors.New("bridge: tick without at")
)

// Config configures a Server.
type Config struct {
	// Base is overlaid by the options a client sends in its hello.
	Base gesture.Options
	// AllowAnyOrigin accepts cross-origin WebSocket upgrades. By default only
	// same-origin pages may connect.
	AllowAnyOrigin bool
	// TickInterval is how often each session runs deferred gestures on its
	// estimate of the client clock. Zero means 16ms; negative disables the
	// ticker so only tick messages advance time.
	TickInterval time.Duration
	// RecordDir, when set, receives one trace file per closed session.
	RecordDir string
	// KeepTraces is how many closed sessions stay downloadable from
	// /traces/{session}. Zero means 32; negative disables the endpoint.
	KeepTraces int
	Logger     zerolog.Logger
}

// Server is an http.Handler serving the bridge page at /, the WebSocket
// endpoint at /ws and traces of recently closed sessions at /traces/{session}.
type Server struct {
	cfg      Config
	upgrader websocket.Upgrader
	mux      *http.ServeMux
	recent   *lru.Cache[string, *trace.File]

	mu       sync.Mutex
	sessions map[string]*session
	wg       sync.WaitGroup
}

// NewServer creates a Server.
func NewServer(cfg Config) *Server {
	if cfg.TickInterval == 0 {
		cfg.TickInterval = 16 * time.Millisecond
	}
	if cfg.KeepTraces == 0 {
		cfg.KeepTraces = 32
	}
	s := &Server{
		cfg: cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		sessions: make(map[string]*session),
	}
	if cfg.AllowAnyOrigin {
		s.upgrader.CheckOrigin = func(r *http.Request) bool { return true }
	} else {
		s.upgrader.CheckOrigin = isSameOrigin
	}

	if cfg.KeepTraces > 0 {
		s.recent, _ = lru.New[string, *trace.File](cfg.KeepTraces)
	}

	static, _ := fs.Sub(staticFiles, "static")
	s.mux = http.NewServeMux()
	s.mux.HandleFunc("/ws", s.handleWebSocket)
	s.mux.HandleFunc("GET /traces/{session}", s.handleTrace)
	s.mux.Handle("/", http.FileServer(http.FS(static)))
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Sessions returns the number of open sessions.
func (s *Server) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Wait blocks until every connection handler has returned.
func (s *Server) Wait() { s.wg.Wait() }

// ListenAndServe serves on addr until ctx is done, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s, ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.cfg.Logger.Info().Str("addr", addr).Msg("bridge: listening")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("bridge: shutdown: %w", err)
	}
	return nil
}

func isSameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	originURL, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return originURL.Host == r.Host
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.cfg.Logger.Warn().Err(err).Msg("bridge: upgrade failed")
		return
	}
	s.wg.Add(1)
	defer s.wg.Done()
	defer conn.Close()

	c := &connection{conn: conn}
	var sess *session
	defer func() {
		if sess != nil {
			s.closeSession(sess)
		}
	}()

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			s.cfg.Logger.Debug().Err(err).Msg("bridge: connection closed")
			return
		}
		if messageType != websocket.TextMessage {
			c.send(errorMessage(errors.New("bridge: only text messages are accepted")))
			continue
		}
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			c.send(errorMessage(fmt.Errorf("bridge: parse message: %w", err)))
			continue
		}

		switch msg.Kind {
		case KindHello:
			if sess != nil {
				c.send(errorMessage(errHelloRepeated))
				continue
			}
			sess, err = s.openSession(c, msg)
			if err != nil {
				c.send(errorMessage(err))
			}
		case KindInput:
			if sess == nil {
				c.send(errorMessage(errHelloRequired))
				continue
			}
			if msg.Event == nil {
				c.send(errorMessage(errMissingEvent))
				continue
			}
			sess.input(*msg.Event)
		case KindTick:
			if sess == nil {
				c.send(errorMessage(errHelloRequired))
				continue
			}
			if msg.At == nil {
				c.send(errorMessage(errMissingTime))
				continue
			}
			sess.tick(*msg.At)
		default:
			c.send(errorMessage(fmt.Errorf("%w %q", errUnknownKind, msg.Kind)))
		}
	}
}

func (s *Server) openSession(c *connection, hello Message) (*session, error) {
	opts := s.cfg.Base
	if hello.Options != nil {
		if err := hello.Options.Validate(); err != nil {
			return nil, err
		}
		opts = hello.Options.Apply(opts)
	}
	caps := gesture.AllCapabilities
	if hello.Capabilities != nil {
		caps = *hello.Capabilities
	}

	id := uuid.NewString()
	log := s.cfg.Logger.With().Str("session", id).Logger()
	sess, err := newSession(id, c, caps, opts, log)
	if err != nil {
		return nil, err
	}
	if s.cfg.RecordDir != "" || s.recent != nil {
		sess.recorder = trace.NewRecorder(id, caps, sess.manager.Options())
		sess.surface.Attach(gesture.ScopeDocument, sess.recorder.Record)
	}

	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()

	if s.cfg.TickInterval > 0 {
		sess.startTicker(s.cfg.TickInterval)
	}
	c.send(welcomeMessage(id, sess.manager.Options()))
	log.Info().Msg("bridge: session opened")
	return sess, nil
}

func (s *Server) closeSession(sess *session) {
	s.mu.Lock()
	delete(s.sessions, sess.id)
	s.mu.Unlock()

	sess.close()
	if sess.recorder != nil && sess.recorder.Len() > 0 {
		f := sess.recorder.File()
		if s.recent != nil {
			s.recent.Add(sess.id, f)
		}
		if s.cfg.RecordDir != "" {
			path := filepath.Join(s.cfg.RecordDir, sess.id+".yaml")
			if err := trace.Save(path, f); err != nil {
				sess.log.Error().Err(err).Msg("bridge: save trace")
			} else {
				sess.log.Info().Str("path", path).Msg("bridge: trace saved")
			}
		}
	}
	sess.log.Info().Msg("bridge: session closed")
}

func (s *Server) handleTrace(w http.ResponseWriter, r *http.Request) {
	if s.recent == nil {
		http.NotFound(w, r)
		return
	}
	f, ok := s.recent.Get(r.PathValue("session"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/yaml")
	if err := trace.Write(w, f); err != nil {
		s.cfg.Logger.Warn().Err(err).Msg("bridge: write trace")
	}
}

type connection struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (c *connection) send(msg Message) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(msg)
}
