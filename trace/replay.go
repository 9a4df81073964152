package trace

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/phanxgames/gesture"
)

// Recorded is one gesture produced during replay.
type Recorded struct {
	// At is the time of the step that produced the gesture.
	At      time.Duration `json:"-" yaml:"-"`
	AtMs    float64       `json:"at" yaml:"at"`
	Type    gesture.Type  `json:"type" yaml:"type"`
	Gesture gesture.Event `json:"gesture" yaml:"gesture"`
}

// Result holds the gestures a replay produced, in emission order.
type Result struct {
	Events []Recorded `json:"events" yaml:"events"`
}

// Types returns the gesture type of each recorded event.
func (r *Result) Types() []gesture.Type {
	out := make([]gesture.Type, len(r.Events))
	for i, e := range r.Events {
		out[i] = e.Type
	}
	return out
}

// Check compares the recorded types with expect. An empty expectation always
// matches.
func (r *Result) Check(expect []gesture.Type) error {
	if len(expect) == 0 {
		return nil
	}
	got := r.Types()
	if len(got) == len(expect) {
		same := true
		for i := range got {
			if got[i] != expect[i] {
				same = false
				break
			}
		}
		if same {
			return nil
		}
	}
	return fmt.Errorf("%w: got [%s], want [%s]", ErrMismatch, joinTypes(got), joinTypes(expect))
}

func joinTypes(ts []gesture.Type) string {
	names := make([]string, len(ts))
	for i, t := range ts {
		names[i] = t.String()
	}
	return strings.Join(names, " ")
}

// Replay runs f through a fresh Manager bound to an in-memory surface. The
// file's options are overlaid on base; capabilities default to
// gesture.AllCapabilities. Input steps are dispatched in order and tick steps
// advance the Manager's clock.
func Replay(f *File, base gesture.Options, log zerolog.Logger) (*Result, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	caps := gesture.AllCapabilities
	if f.Capabilities != nil {
		caps = *f.Capabilities
	}
	surface := gesture.NewSurface(caps)
	m, err := gesture.New(surface, f.Options.Apply(base))
	if err != nil {
		return nil, fmt.Errorf("replay: %w", err)
	}
	defer m.Destroy()
	m.SetLogger(log)

	res := &Result{}
	var now time.Duration
	for _, typ := range gesture.Types() {
		m.On(typ, func(e gesture.Event) {
			res.Events = append(res.Events, Recorded{
				At:      now,
				AtMs:    toMillis(now),
				Type:    e.Type(),
				Gesture: e,
			})
		})
	}

	for i, s := range f.Steps {
		if s.IsTick() {
			now = millis(*s.Tick)
			log.Debug().Int("step", i).Float64("tick", *s.Tick).Msg("replay: tick")
			m.Tick(now)
			continue
		}
		raw := s.Raw()
		now = raw.Time
		log.Debug().Int("step", i).Str("type", string(raw.Type)).Float64("at", s.At).Msg("replay: input")
		surface.Dispatch(raw)
	}
	return res, nil
}
