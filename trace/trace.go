// Package trace reads and writes recorded input sessions and replays them
// through a gesture Manager. A trace is a YAML document:
//
//	options:
//	  longPressDelay: 400
//	steps:
//	  - {type: touchstart, at: 0, touches: [{id: 1, x: 10, y: 10}]}
//	  - {type: touchend, at: 80, touches: [{id: 1, x: 10, y: 10}]}
//	  - tick: 500
//	expect: [tap]
//
// Times are milliseconds on the host clock.
package trace

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/phanxgames/gesture"
)

var (
	// ErrNoSteps is returned for a trace without steps.
	ErrNoSteps = errors.New("trace: no steps")
	// ErrBadStep is wrapped by errors describing an unusable step.
	ErrBadStep = errors.New("trace: bad step")
	// ErrMismatch is wrapped when replayed gestures differ from the
	// expectation.
	ErrMismatch = errors.New("trace: gestures do not match expectation")
)

// Touch is one contact point of a touch event.
type Touch struct {
	ID int     `json:"id" yaml:"id"`
	X  float64 `json:"x" yaml:"x"`
	Y  float64 `json:"y" yaml:"y"`
}

// Event is the file form of gesture.RawEvent.
type Event struct {
	Type        gesture.RawType `json:"type,omitempty" yaml:"type,omitempty"`
	At          float64         `json:"at" yaml:"at"`
	Touches     []Touch         `json:"touches,omitempty" yaml:"touches,omitempty,flow"`
	X           float64         `json:"x,omitempty" yaml:"x,omitempty"`
	Y           float64         `json:"y,omitempty" yaml:"y,omitempty"`
	PointerID   int             `json:"pointerId,omitempty" yaml:"pointerId,omitempty"`
	PointerType string          `json:"pointerType,omitempty" yaml:"pointerType,omitempty"`
	Button      int             `json:"button,omitempty" yaml:"button,omitempty"`
	Outside     bool            `json:"outside,omitempty" yaml:"outside,omitempty"`
}

// Raw converts e to a gesture.RawEvent.
func (e Event) Raw() gesture.RawEvent {
	raw := gesture.RawEvent{
		Type:        e.Type,
		Time:        millis(e.At),
		X:           e.X,
		Y:           e.Y,
		PointerID:   e.PointerID,
		PointerType: e.PointerType,
		Button:      e.Button,
		Outside:     e.Outside,
	}
	if len(e.Touches) > 0 {
		raw.Touches = make([]gesture.Touch, len(e.Touches))
		for i, t := range e.Touches {
			raw.Touches[i] = gesture.Touch{ID: t.ID, X: t.X, Y: t.Y}
		}
	}
	return raw
}

// FromRaw converts a gesture.RawEvent to its file form. Target is dropped.
func FromRaw(raw gesture.RawEvent) Event {
	e := Event{
		Type:        raw.Type,
		At:          toMillis(raw.Time),
		X:           raw.X,
		Y:           raw.Y,
		PointerID:   raw.PointerID,
		PointerType: raw.PointerType,
		Button:      raw.Button,
		Outside:     raw.Outside,
	}
	for _, t := range raw.Touches {
		e.Touches = append(e.Touches, Touch{ID: t.ID, X: t.X, Y: t.Y})
	}
	return e
}

// Step is either a raw event or, when Tick is set, a clock advance that runs
// deferred gestures due at that time.
type Step struct {
	Event `yaml:",inline"`
	Tick  *float64 `json:"tick,omitempty" yaml:"tick,omitempty"`
}

// IsTick reports whether the step advances the clock instead of delivering
// input.
func (s Step) IsTick() bool { return s.Tick != nil }

// TickAt returns a tick step at ms.
func TickAt(ms float64) Step { return Step{Tick: &ms} }

// File is a complete trace.
type File struct {
	Name         string                `json:"name,omitempty" yaml:"name,omitempty"`
	Capabilities *gesture.Capabilities `json:"capabilities,omitempty" yaml:"capabilities,omitempty"`
	Options      gesture.FileOptions   `json:"options" yaml:"options,omitempty"`
	Steps        []Step                `json:"steps" yaml:"steps"`
	Expect       []gesture.Type        `json:"expect,omitempty" yaml:"expect,omitempty,flow"`
}

// Validate checks that every step is usable.
func (f *File) Validate() error {
	if len(f.Steps) == 0 {
		return ErrNoSteps
	}
	if err := f.Options.Validate(); err != nil {
		return err
	}
	for i, s := range f.Steps {
		if s.IsTick() {
			if s.Type != "" {
				return fmt.Errorf("%w %d: both tick and type %q", ErrBadStep, i, s.Type)
			}
			if *s.Tick < 0 {
				return fmt.Errorf("%w %d: negative tick", ErrBadStep, i)
			}
			continue
		}
		if _, ok := s.Type.Kind(); !ok {
			return fmt.Errorf("%w %d: unknown event type %q", ErrBadStep, i, s.Type)
		}
		if s.At < 0 {
			return fmt.Errorf("%w %d: negative time", ErrBadStep, i)
		}
	}
	return nil
}

// Parse decodes and validates a YAML trace. JSON traces parse too, since
// JSON is valid YAML.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse trace: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("parse trace: %w", err)
	}
	return &f, nil
}

// Load reads and parses the trace at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read trace: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Write encodes f as YAML.
func Write(w io.Writer, f *File) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("write trace: %w", err)
	}
	return enc.Close()
}

// Save writes f to path as YAML.
func Save(path string, f *File) (err error) {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write trace: %w", err)
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()
	return Write(out, f)
}

func millis(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
