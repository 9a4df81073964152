package gesture

import "time"

// RawType names a host input event. Values match DOM event type strings so
// browser hosts can forward event.type unchanged.
type RawType string

const (
	RawTouchStart    RawType = "touchstart"
	RawTouchMove     RawType = "touchmove"
	RawTouchEnd      RawType = "touchend"
	RawTouchCancel   RawType = "touchcancel"
	RawMouseDown     RawType = "mousedown"
	RawMouseMove     RawType = "mousemove"
	RawMouseUp       RawType = "mouseup"
	RawPointerDown   RawType = "pointerdown"
	RawPointerMove   RawType = "pointermove"
	RawPointerUp     RawType = "pointerup"
	RawPointerCancel RawType = "pointercancel"
)

// Kind returns the normalized kind for t and false for unknown types.
func (t RawType) Kind() (Kind, bool) {
	switch t {
	case RawTouchStart, RawMouseDown, RawPointerDown:
		return KindStart, true
	case RawTouchMove, RawMouseMove, RawPointerMove:
		return KindMove, true
	case RawTouchEnd, RawMouseUp, RawPointerUp:
		return KindEnd, true
	case RawTouchCancel, RawPointerCancel:
		return KindCancel, true
	}
	return 0, false
}

// Touch is one contact point of a touch event.
type Touch struct {
	ID   int
	X, Y float64
}

// RawEvent is a host input event before normalization.
//
// Touch events carry the changed touches in Touches. Mouse and pointer events
// carry their position in X/Y; pointer events also set PointerID and
// PointerType ("mouse", "touch" or "pen"). Time is the host timestamp measured
// from any fixed origin. Outside marks events whose target lies outside the
// bound element; they reach only document-scope listeners.
type RawEvent struct {
	Type        RawType
	Time        time.Duration
	Touches     []Touch
	X, Y        float64
	PointerID   int
	PointerType string
	Button      int
	Target      any
	Outside     bool
}

// Kind classifies a normalized input.
type Kind uint8

const (
	KindStart  Kind = iota // a pointer made contact
	KindMove               // one or more pointers moved while in contact
	KindEnd                // a pointer was released
	KindCancel             // the host aborted the interaction
)

var kindNames = [...]string{"start", "move", "end", "cancel"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// PointerSource is the device class that produced an input.
type PointerSource uint8

const (
	SourceMouse PointerSource = iota
	SourceTouch
	SourcePen
)

var sourceNames = [...]string{"mouse", "touch", "pen"}

func (s PointerSource) String() string {
	if int(s) < len(sourceNames) {
		return sourceNames[s]
	}
	return "unknown"
}

// MousePointerID is the pointer ID given to mouse input.
const MousePointerID = -1

// Pointer is one logical pointer in a normalized input.
type Pointer struct {
	ID   int
	X, Y float64
}

// Point returns the pointer position.
func (p Pointer) Point() Point { return Point{X: p.X, Y: p.Y} }

// Input is the normalized form every raw event is converted to before the
// Manager looks at it. Pointers holds only the pointers the input is about.
type Input struct {
	Kind     Kind
	Source   PointerSource
	Pointers []Pointer
	Time     time.Duration
	Target   any
}

// emulatedMouseWindow is how long after touch activity mouse events are
// treated as browser compatibility emulation and dropped.
const emulatedMouseWindow = 800 * time.Millisecond

// Normalizer converts RawEvents into Inputs. It keeps the little state needed
// to do so: whether the primary mouse button is held and when touch input was
// last seen. The zero value is ready to use.
type Normalizer struct {
	mouseDown bool
	touchSeen bool
	lastTouch time.Duration
}

// Normalize converts raw into an Input. It returns false for events that carry
// no gesture information: unknown types, secondary mouse buttons, mouse moves
// with no button held, touch events without touches, and mouse events
// emulated by the host after touch input.
func (n *Normalizer) Normalize(raw RawEvent) (Input, bool) {
	kind, ok := raw.Type.Kind()
	if !ok {
		return Input{}, false
	}
	in := Input{Kind: kind, Time: raw.Time, Target: raw.Target}

	switch raw.Type {
	case RawTouchStart, RawTouchMove, RawTouchEnd, RawTouchCancel:
		n.noteTouch(raw.Time)
		in.Source = SourceTouch
		if len(raw.Touches) == 0 && kind != KindCancel {
			return Input{}, false
		}
		in.Pointers = make([]Pointer, len(raw.Touches))
		for i, t := range raw.Touches {
			in.Pointers[i] = Pointer{ID: t.ID, X: t.X, Y: t.Y}
		}
		return in, true

	case RawMouseDown, RawMouseMove, RawMouseUp:
		if n.touchSeen && raw.Time >= n.lastTouch && raw.Time-n.lastTouch < emulatedMouseWindow {
			return Input{}, false
		}
		if raw.Button != 0 {
			return Input{}, false
		}
		switch kind {
		case KindStart:
			n.mouseDown = true
		case KindMove:
			if !n.mouseDown {
				return Input{}, false
			}
		case KindEnd:
			if !n.mouseDown {
				return Input{}, false
			}
			n.mouseDown = false
		}
		in.Source = SourceMouse
		in.Pointers = []Pointer{{ID: MousePointerID, X: raw.X, Y: raw.Y}}
		return in, true
	}

	// Pointer events.
	switch raw.PointerType {
	case "touch":
		n.noteTouch(raw.Time)
		in.Source = SourceTouch
	case "pen":
		in.Source = SourcePen
	default:
		in.Source = SourceMouse
		if raw.Button != 0 && kind == KindStart {
			return Input{}, false
		}
	}
	id := raw.PointerID
	if in.Source == SourceMouse {
		id = MousePointerID
	}
	in.Pointers = []Pointer{{ID: id, X: raw.X, Y: raw.Y}}
	return in, true
}

// Reset forgets the held-button state.
func (n *Normalizer) Reset() {
	n.mouseDown = false
}

func (n *Normalizer) noteTouch(t time.Duration) {
	n.touchSeen = true
	n.lastTouch = t
}
