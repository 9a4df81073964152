package gesture

import "fmt"

// Type identifies a kind of gesture.
type Type uint8

const (
	TypeTap       Type = iota // one or more quick presses without movement
	TypeSwipe                 // a fast directional movement
	TypePinch                 // two touches moving apart or together
	TypeLongPress             // a press held still past the long-press delay

	typeCount
)

var typeNames = [typeCount]string{"tap", "swipe", "pinch", "longpress"}

func (t Type) String() string {
	if t < typeCount {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", uint8(t))
}

// MarshalText encodes the type by name.
func (t Type) MarshalText() ([]byte, error) {
	if t >= typeCount {
		return nil, fmt.Errorf("gesture: unknown type %d", uint8(t))
	}
	return []byte(typeNames[t]), nil
}

// UnmarshalText decodes a type name produced by MarshalText.
func (t *Type) UnmarshalText(b []byte) error {
	for i, name := range typeNames {
		if name == string(b) {
			*t = Type(i)
			return nil
		}
	}
	return fmt.Errorf("gesture: unknown type %q", b)
}

// Types lists every gesture type in declaration order.
func Types() []Type {
	return []Type{TypeTap, TypeSwipe, TypePinch, TypeLongPress}
}

// Direction is the dominant axis and sign of a swipe.
type Direction uint8

const (
	DirectionUp Direction = iota
	DirectionDown
	DirectionLeft
	DirectionRight
)

var directionNames = [...]string{"up", "down", "left", "right"}

func (d Direction) String() string {
	if int(d) < len(directionNames) {
		return directionNames[d]
	}
	return fmt.Sprintf("Direction(%d)", uint8(d))
}

// MarshalText encodes the direction by name.
func (d Direction) MarshalText() ([]byte, error) {
	if int(d) >= len(directionNames) {
		return nil, fmt.Errorf("gesture: unknown direction %d", uint8(d))
	}
	return []byte(directionNames[d]), nil
}

// UnmarshalText decodes a direction name produced by MarshalText.
func (d *Direction) UnmarshalText(b []byte) error {
	for i, name := range directionNames {
		if name == string(b) {
			*d = Direction(i)
			return nil
		}
	}
	return fmt.Errorf("gesture: unknown direction %q", b)
}

// Event is a recognized gesture. The concrete value is one of Tap, Swipe,
// Pinch or LongPress; subscribers switch on the concrete type.
type Event interface {
	Type() Type
}

// Tap is emitted when a press is released without significant movement.
// Count is the number of consecutive taps within the repeat window.
type Tap struct {
	X     float64 `json:"x" yaml:"x"`
	Y     float64 `json:"y" yaml:"y"`
	Count int     `json:"count" yaml:"count"`
}

// Swipe is emitted when a press travels at least the swipe threshold within
// the swipe time threshold. Velocity is in pixels per millisecond.
type Swipe struct {
	Direction Direction `json:"direction" yaml:"direction"`
	DeltaX    float64   `json:"deltaX" yaml:"deltaX"`
	DeltaY    float64   `json:"deltaY" yaml:"deltaY"`
	Distance  float64   `json:"distance" yaml:"distance"`
	Velocity  float64   `json:"velocity" yaml:"velocity"`
	StartX    float64   `json:"startX" yaml:"startX"`
	StartY    float64   `json:"startY" yaml:"startY"`
	EndX      float64   `json:"endX" yaml:"endX"`
	EndY      float64   `json:"endY" yaml:"endY"`
}

// Pinch is emitted on every two-finger move whose spread differs from the
// initial spread by at least the pinch threshold. Scale > 1 means the fingers
// separated; Scale < 1 means they closed. Rotation is the change in the angle
// between the two touches since the session started, in degrees.
//
// ScaleDelta and RotDelta are relative to the previous Pinch of the session
// (or its start): ScaleDelta is spread/previousSpread - 1.
type Pinch struct {
	CenterX    float64 `json:"centerX" yaml:"centerX"`
	CenterY    float64 `json:"centerY" yaml:"centerY"`
	Scale      float64 `json:"scale" yaml:"scale"`
	ScaleDelta float64 `json:"scaleDelta" yaml:"scaleDelta"`
	Rotation   float64 `json:"rotation" yaml:"rotation"`
	RotDelta   float64 `json:"rotDelta" yaml:"rotDelta"`
}

// LongPress is emitted once when a press is held still for the long-press
// delay.
type LongPress struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

func (Tap) Type() Type       { return TypeTap }
func (Swipe) Type() Type     { return TypeSwipe }
func (Pinch) Type() Type     { return TypePinch }
func (LongPress) Type() Type { return TypeLongPress }

// PinchOut reports whether the fingers moved apart.
func (p Pinch) PinchOut() bool { return p.Scale > 1 }

// PinchIn reports whether the fingers moved together.
func (p Pinch) PinchIn() bool { return p.Scale < 1 }
