// Package ebitensource feeds ebiten mouse and touch state into a gesture
// Manager. Call Source.Update once per frame from the game's Update method.
package ebitensource

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/gesture"
)

// maxTouches is the number of simultaneous touches tracked. Further touches
// are ignored until a slot frees up.
const maxTouches = 10

// Mouse button codes, matching DOM MouseEvent.button.
const (
	buttonLeft   = 0
	buttonMiddle = 1
	buttonRight  = 2
)

// HitArea decides which screen positions belong to the bound element.
type HitArea interface {
	Contains(x, y float64) bool
}

// Rect is an axis-aligned hit area in screen coordinates.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether (x, y) lies inside the rectangle.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Circle is a circular hit area in screen coordinates.
type Circle struct {
	CenterX, CenterY, Radius float64
}

// Contains reports whether (x, y) lies inside or on the circle.
func (c Circle) Contains(x, y float64) bool {
	dx := x - c.CenterX
	dy := y - c.CenterY
	return dx*dx+dy*dy <= c.Radius*c.Radius
}

// Polygon is a convex hit area in screen coordinates. Points may be in either
// winding order.
type Polygon struct {
	Points []gesture.Point
}

// Contains reports whether (x, y) lies inside or on the polygon: the point
// must be on the same side of every edge. Fewer than 3 points contain nothing.
func (p Polygon) Contains(x, y float64) bool {
	n := len(p.Points)
	if n < 3 {
		return false
	}
	var positive, negative bool
	for i := 0; i < n; i++ {
		a, b := p.Points[i], p.Points[(i+1)%n]
		cross := (b.X-a.X)*(y-a.Y) - (b.Y-a.Y)*(x-a.X)
		switch {
		case cross > 0:
			positive = true
		case cross < 0:
			negative = true
		}
		if positive && negative {
			return false
		}
	}
	return true
}

// Screen is a HitArea covering every position.
type Screen struct{}

// Contains always reports true.
func (Screen) Contains(x, y float64) bool { return true }

// TouchSample is the position of one touch in a Frame.
type TouchSample struct {
	ID   int
	X, Y float64
}

// Frame is a snapshot of pointer state for one game frame.
type Frame struct {
	CursorX, CursorY float64
	// Button is the held mouse button (DOM numbering) or -1 when none is held.
	Button  int
	Touches []TouchSample
}

type mouseState struct {
	down   bool
	button int
	x, y   float64
}

type touchSlot struct {
	used bool
	id   int
	x, y float64
}

// Source is a gesture.Source backed by ebiten input polling. It embeds a
// gesture.Surface, so a Manager attaches to it like any other source.
type Source struct {
	*gesture.Surface

	area  HitArea
	clock func() time.Duration

	mouse    mouseState
	slots    [maxTouches]touchSlot
	touchIDs []ebiten.TouchID
}

// Option configures a Source.
type Option func(*Source)

// WithClock replaces the timestamp source. The default measures time since
// New was called.
func WithClock(clock func() time.Duration) Option {
	return func(s *Source) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithCapabilities overrides the reported capabilities.
func WithCapabilities(caps gesture.Capabilities) Option {
	return func(s *Source) { s.SetCapabilities(caps) }
}

// New creates a Source whose element is area. A nil area covers the whole
// screen.
func New(area HitArea, opts ...Option) *Source {
	if area == nil {
		area = Screen{}
	}
	origin := time.Now()
	s := &Source{
		Surface: gesture.NewSurface(gesture.AllCapabilities),
		area:    area,
		clock:   func() time.Duration { return time.Since(origin) },
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// SetArea replaces the element hit area. It takes effect on the next frame.
func (s *Source) SetArea(area HitArea) {
	if area == nil {
		area = Screen{}
	}
	s.area = area
}

// Now returns the current timestamp on the Source's clock. Pass it to
// Manager.Tick so deferred gestures share the input timeline.
func (s *Source) Now() time.Duration { return s.clock() }

// Update polls ebiten for the current mouse and touch state and dispatches
// the differences since the previous frame.
func (s *Source) Update() {
	s.Apply(s.poll(), s.clock())
}

func (s *Source) poll() Frame {
	mx, my := ebiten.CursorPosition()
	f := Frame{CursorX: float64(mx), CursorY: float64(my), Button: -1}
	switch {
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft):
		f.Button = buttonLeft
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight):
		f.Button = buttonRight
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle):
		f.Button = buttonMiddle
	}

	s.touchIDs = ebiten.AppendTouchIDs(s.touchIDs[:0])
	for _, tid := range s.touchIDs {
		tx, ty := ebiten.TouchPosition(tid)
		f.Touches = append(f.Touches, TouchSample{ID: int(tid), X: float64(tx), Y: float64(ty)})
	}
	return f
}

// Apply dispatches the raw events that turn the previous frame into f. It is
// what Update calls after polling ebiten, and lets hosts with their own input
// layer drive the Source directly.
func (s *Source) Apply(f Frame, now time.Duration) {
	s.applyMouse(f, now)
	s.applyTouches(f, now)
}

func (s *Source) applyMouse(f Frame, now time.Duration) {
	x, y := f.CursorX, f.CursorY
	pressed := f.Button >= 0
	m := &s.mouse

	switch {
	case pressed && !m.down:
		m.down = true
		m.button = f.Button
		s.dispatchMouse(gesture.RawMouseDown, now, x, y, m.button)
	case pressed && m.down:
		if x != m.x || y != m.y {
			s.dispatchMouse(gesture.RawMouseMove, now, x, y, m.button)
		}
	case !pressed && m.down:
		m.down = false
		s.dispatchMouse(gesture.RawMouseUp, now, x, y, m.button)
	}
	m.x, m.y = x, y
}

func (s *Source) dispatchMouse(typ gesture.RawType, now time.Duration, x, y float64, button int) {
	s.Dispatch(gesture.RawEvent{
		Type:    typ,
		Time:    now,
		X:       x,
		Y:       y,
		Button:  button,
		Outside: !s.area.Contains(x, y),
	})
}

func (s *Source) applyTouches(f Frame, now time.Duration) {
	var active [maxTouches]bool
	var started, moved []gesture.Touch

	for _, t := range f.Touches {
		slot, fresh := s.touchSlot(t.ID)
		if slot < 0 {
			continue
		}
		active[slot] = true
		sl := &s.slots[slot]
		touch := gesture.Touch{ID: slot, X: t.X, Y: t.Y}
		switch {
		case fresh:
			started = append(started, touch)
		case t.X != sl.x || t.Y != sl.y:
			moved = append(moved, touch)
		}
		sl.x, sl.y = t.X, t.Y
	}

	var ended []gesture.Touch
	for i := range s.slots {
		if s.slots[i].used && !active[i] {
			ended = append(ended, gesture.Touch{ID: i, X: s.slots[i].x, Y: s.slots[i].y})
			s.slots[i] = touchSlot{}
		}
	}

	if len(started) > 0 {
		s.dispatchTouches(gesture.RawTouchStart, now, started)
	}
	if len(moved) > 0 {
		s.dispatchTouches(gesture.RawTouchMove, now, moved)
	}
	if len(ended) > 0 {
		s.dispatchTouches(gesture.RawTouchEnd, now, ended)
	}
}

// dispatchTouches sends one touch event. A touch event counts as outside the
// element only when every touch it carries is outside.
func (s *Source) dispatchTouches(typ gesture.RawType, now time.Duration, touches []gesture.Touch) {
	outside := true
	for _, t := range touches {
		if s.area.Contains(t.X, t.Y) {
			outside = false
			break
		}
	}
	s.Dispatch(gesture.RawEvent{Type: typ, Time: now, Touches: touches, Outside: outside})
}

// touchSlot maps a host touch ID to a slot index. It returns the existing slot,
// or allocates one and reports it as fresh. It returns -1 when all slots are
// in use.
func (s *Source) touchSlot(id int) (int, bool) {
	for i := range s.slots {
		if s.slots[i].used && s.slots[i].id == id {
			return i, false
		}
	}
	for i := range s.slots {
		if !s.slots[i].used {
			s.slots[i] = touchSlot{used: true, id: id}
			return i, true
		}
	}
	return -1, false
}
