package gesture

import "time"

// TouchPoint is the last known position of one active pointer.
type TouchPoint struct {
	ID   int
	X, Y float64
}

// Point returns the touch position.
func (t TouchPoint) Point() Point { return Point{X: t.X, Y: t.Y} }

// GestureState is the session state of one interaction, from the first
// pointer contact to the terminal event. The Manager owns it exclusively and
// discards it when the interaction ends.
type GestureState struct {
	StartX, StartY     float64
	CurrentX, CurrentY float64
	StartTime          time.Duration
	// StartDistance is the spread between the first two touches when the
	// second one arrived. Zero for single-pointer interactions.
	StartDistance float64
	// StartAngle is the angle between the first two touches when the second
	// one arrived, in degrees.
	StartAngle float64
	// PrevDistance and PrevAngle are the spread and angle of the first two
	// touches at the last emitted pinch, or at the start of the pinch
	// session before the first one.
	PrevDistance float64
	PrevAngle    float64
	Target       any
	// ActiveTouches is ordered by arrival; IDs are unique.
	ActiveTouches []TouchPoint
}

func newGestureState(p Pointer, at time.Duration, target any) *GestureState {
	return &GestureState{
		StartX:        p.X,
		StartY:        p.Y,
		CurrentX:      p.X,
		CurrentY:      p.Y,
		StartTime:     at,
		Target:        target,
		ActiveTouches: []TouchPoint{{ID: p.ID, X: p.X, Y: p.Y}},
	}
}

// Start returns the interaction start position.
func (s *GestureState) Start() Point { return Point{X: s.StartX, Y: s.StartY} }

// Current returns the most recent position of the primary pointer.
func (s *GestureState) Current() Point { return Point{X: s.CurrentX, Y: s.CurrentY} }

// Moved returns the straight-line distance between start and current.
func (s *GestureState) Moved() float64 {
	return Distance(s.Start(), s.Current())
}

// touchIndex returns the position of id in ActiveTouches.
func (s *GestureState) touchIndex(id int) (int, bool) {
	for i := range s.ActiveTouches {
		if s.ActiveTouches[i].ID == id {
			return i, true
		}
	}
	return -1, false
}

// addTouch appends p if its ID is not already active and reports whether it
// was added.
func (s *GestureState) addTouch(p Pointer) bool {
	if _, ok := s.touchIndex(p.ID); ok {
		return false
	}
	s.ActiveTouches = append(s.ActiveTouches, TouchPoint{ID: p.ID, X: p.X, Y: p.Y})
	return true
}

// updateTouch records a new position for an active pointer. The primary
// pointer (first to arrive) also moves the current position. It returns the
// index of the pointer or -1 if it is not active.
func (s *GestureState) updateTouch(p Pointer) int {
	i, ok := s.touchIndex(p.ID)
	if !ok {
		return -1
	}
	s.ActiveTouches[i].X = p.X
	s.ActiveTouches[i].Y = p.Y
	if i == 0 {
		s.CurrentX = p.X
		s.CurrentY = p.Y
	}
	return i
}

// removeTouch drops an active pointer and returns the index it had, or -1.
func (s *GestureState) removeTouch(id int) int {
	i, ok := s.touchIndex(id)
	if !ok {
		return -1
	}
	copy(s.ActiveTouches[i:], s.ActiveTouches[i+1:])
	s.ActiveTouches[len(s.ActiveTouches)-1] = TouchPoint{}
	s.ActiveTouches = s.ActiveTouches[:len(s.ActiveTouches)-1]
	return i
}
