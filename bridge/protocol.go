package bridge

import (
	"math"

	"github.com/phanxgames/gesture"
	"github.com/phanxgames/gesture/trace"
)

// Message kinds.
const (
	KindHello   = "hello"   // client: open a session
	KindInput   = "input"   // client: one raw DOM event
	KindTick    = "tick"    // client: advance the session clock
	KindWelcome = "welcome" // server: session accepted
	KindGesture = "gesture" // server: a recognized gesture
	KindError   = "error"   // server: the last message was rejected
)

// Message is the single JSON envelope exchanged in both directions. Only the
// fields relevant to Kind are set.
type Message struct {
	Kind string `json:"kind"`

	// hello
	Capabilities *gesture.Capabilities `json:"capabilities,omitempty"`
	Options      *gesture.FileOptions  `json:"options,omitempty"`

	// input
	Event *trace.Event `json:"event,omitempty"`

	// tick, gesture
	At *float64 `json:"at,omitempty"`

	// welcome
	Session string `json:"session,omitempty"`

	// gesture
	Type    string        `json:"type,omitempty"`
	Gesture gesture.Event `json:"gesture,omitempty"`

	// error
	Error string `json:"error,omitempty"`
}

func welcomeMessage(session string, opts gesture.Options) Message {
	fo := gesture.FileOptionsFrom(opts)
	return Message{Kind: KindWelcome, Session: session, Options: &fo}
}

func gestureMessage(e gesture.Event, at float64) Message {
	return Message{Kind: KindGesture, Type: e.Type().String(), At: &at, Gesture: jsonSafe(e)}
}

func errorMessage(err error) Message {
	return Message{Kind: KindError, Error: err.Error()}
}

// jsonSafe replaces values encoding/json cannot represent. A pinch that
// started with both touches on the same spot has an infinite scale.
func jsonSafe(e gesture.Event) gesture.Event {
	p, ok := e.(gesture.Pinch)
	if !ok {
		return e
	}
	switch {
	case math.IsInf(p.Scale, 1):
		p.Scale = math.MaxFloat64
	case math.IsInf(p.Scale, -1):
		p.Scale = -math.MaxFloat64
	case math.IsNaN(p.Scale):
		p.Scale = 0
	}
	return p
}
