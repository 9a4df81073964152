package gesture

import "time"

// Context is the snapshot a detector works from. Detectors never modify it
// and never panic: a nil State or degenerate geometry simply yields no
// gesture.
type Context struct {
	State   *GestureState
	Options Options
	// Now is the timestamp of the event being classified, on the same clock
	// as State.StartTime.
	Now time.Duration
}

// elapsed returns Now - StartTime, clamped at zero.
func (c Context) elapsed() time.Duration {
	d := c.Now - c.State.StartTime
	if d < 0 {
		return 0
	}
	return d
}
