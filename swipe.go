package gesture

import (
	"math"
	"time"
)

// minVelocityElapsed floors the swipe duration so velocity stays finite when
// start and end share a timestamp.
const minVelocityElapsed = time.Millisecond

// DetectSwipe reports a swipe when the primary pointer travelled at least
// SwipeThreshold within SwipeTimeThreshold.
func DetectSwipe(ctx Context) (Swipe, bool) {
	st := ctx.State
	if st == nil {
		return Swipe{}, false
	}
	dx := st.CurrentX - st.StartX
	dy := st.CurrentY - st.StartY
	dist := math.Hypot(dx, dy)
	elapsed := ctx.elapsed()

	if dist < ctx.Options.SwipeThreshold || elapsed > ctx.Options.SwipeTimeThreshold {
		return Swipe{}, false
	}
	if dist == 0 {
		return Swipe{}, false
	}

	ms := max(elapsed, minVelocityElapsed)
	return Swipe{
		Direction: SwipeDirection(dx, dy),
		DeltaX:    dx,
		DeltaY:    dy,
		Distance:  dist,
		Velocity:  dist / (float64(ms) / float64(time.Millisecond)),
		StartX:    st.StartX,
		StartY:    st.StartY,
		EndX:      st.CurrentX,
		EndY:      st.CurrentY,
	}, true
}

// SwipeDirection resolves the dominant axis of a movement. When both axes have
// the same magnitude the vertical axis wins.
func SwipeDirection(dx, dy float64) Direction {
	if math.Abs(dy) >= math.Abs(dx) {
		if dy > 0 {
			return DirectionDown
		}
		return DirectionUp
	}
	if dx > 0 {
		return DirectionRight
	}
	return DirectionLeft
}
