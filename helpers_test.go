package gesture

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func ms(v float64) time.Duration {
	return time.Duration(v * float64(time.Millisecond))
}

// recorder collects emitted gestures.
type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) handle(e Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

func (r *recorder) all() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

func (r *recorder) taps() []Tap {
	var out []Tap
	for _, e := range r.all() {
		if tap, ok := e.(Tap); ok {
			out = append(out, tap)
		}
	}
	return out
}

func (r *recorder) reset() {
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
}

func newTestManager(t *testing.T, mutate func(*Options)) (*Manager, *Surface, *recorder) {
	t.Helper()
	surface := NewSurface(AllCapabilities)
	opts := DefaultOptions()
	if mutate != nil {
		mutate(&opts)
	}
	m, err := New(surface, opts)
	require.NoError(t, err)
	rec := &recorder{}
	for _, typ := range Types() {
		m.On(typ, rec.handle)
	}
	t.Cleanup(m.Destroy)
	return m, surface, rec
}

func touchEvent(typ RawType, at float64, touches ...Touch) RawEvent {
	return RawEvent{Type: typ, Time: ms(at), Touches: touches}
}

func mouseEvent(typ RawType, at, x, y float64) RawEvent {
	return RawEvent{Type: typ, Time: ms(at), X: x, Y: y}
}

// tapAt dispatches a touch press and release at (x, y).
func tapAt(s *Surface, id int, start, end, x, y float64) {
	s.Dispatch(touchEvent(RawTouchStart, start, Touch{ID: id, X: x, Y: y}))
	s.Dispatch(touchEvent(RawTouchEnd, end, Touch{ID: id, X: x, Y: y}))
}
