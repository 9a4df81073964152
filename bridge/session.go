package bridge

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/phanxgames/gesture"
	"github.com/phanxgames/gesture/trace"
)

// session is one client's gesture pipeline.
type session struct {
	id       string
	conn     *connection
	log      zerolog.Logger
	surface  *gesture.Surface
	manager  *gesture.Manager
	clock    clientClock
	recorder *trace.Recorder

	cancel context.CancelFunc
	done   chan struct{}
}

func newSession(id string, conn *connection, caps gesture.Capabilities, opts gesture.Options, log zerolog.Logger) (*session, error) {
	surface := gesture.NewSurface(caps)
	m, err := gesture.New(surface, opts)
	if err != nil {
		return nil, err
	}
	m.SetLogger(log)
	s := &session{id: id, conn: conn, log: log, surface: surface, manager: m}
	for _, typ := range gesture.Types() {
		m.On(typ, s.forward)
	}
	return s, nil
}

func (s *session) forward(e gesture.Event) {
	at := toMillis(s.clock.Now())
	if err := s.conn.send(gestureMessage(e, at)); err != nil {
		s.log.Warn().Err(err).Stringer("gesture", e.Type()).Msg("bridge: send gesture")
	}
}

func (s *session) input(e trace.Event) {
	raw := e.Raw()
	s.clock.observe(raw.Time)
	s.surface.Dispatch(raw)
}

func (s *session) tick(ms float64) {
	at := time.Duration(ms * float64(time.Millisecond))
	s.clock.observe(at)
	s.manager.Tick(at)
}

func (s *session) startTicker(interval time.Duration) {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	go func() {
		defer close(s.done)
		err := s.manager.Run(ctx, interval, s.clock.Now)
		s.log.Debug().Err(err).Msg("bridge: ticker stopped")
	}()
}

func (s *session) close() {
	if s.cancel != nil {
		s.cancel()
		<-s.done
	}
	s.manager.Destroy()
}

// clientClock estimates the client's clock from the timestamps it sends. The
// estimate is the last observed client time plus the server time elapsed
// since it was observed.
type clientClock struct {
	mu       sync.Mutex
	seen     bool
	client   time.Duration
	observed time.Time
}

func (c *clientClock) observe(client time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.seen && client < c.client {
		return
	}
	c.seen = true
	c.client = client
	c.observed = time.Now()
}

// Now returns the estimated client time, or zero before any observation.
func (c *clientClock) Now() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.seen {
		return 0
	}
	return c.client + time.Since(c.observed)
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
