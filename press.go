package gesture

import "time"

// TapRecord remembers the previous tap for multi-tap counting. A zero Count
// means there is no previous tap.
type TapRecord struct {
	X, Y  float64
	Time  time.Duration
	Count int
}

// DetectTap reports a tap when the primary pointer stayed within
// TapMaxDistance and was released before LongPressDelay. The count continues
// from prev when prev ended less than TapMaxInterval ago and within
// TapMaxDistance of this tap; otherwise it restarts at 1.
func DetectTap(ctx Context, prev TapRecord) (Tap, bool) {
	st := ctx.State
	if st == nil {
		return Tap{}, false
	}
	if st.Moved() > ctx.Options.TapMaxDistance {
		return Tap{}, false
	}
	if ctx.Options.LongPressDelay > 0 && ctx.elapsed() >= ctx.Options.LongPressDelay {
		return Tap{}, false
	}

	count := 1
	if prev.Count > 0 {
		gap := ctx.Now - prev.Time
		near := Distance(Point{X: prev.X, Y: prev.Y}, st.Current()) <= ctx.Options.TapMaxDistance
		if gap >= 0 && gap < ctx.Options.TapMaxInterval && near {
			count = prev.Count + 1
		}
	}
	return Tap{X: st.CurrentX, Y: st.CurrentY, Count: count}, true
}

// DetectLongPress reports a long-press when a single pointer has been held
// within TapMaxDistance for at least LongPressDelay.
func DetectLongPress(ctx Context) (LongPress, bool) {
	st := ctx.State
	if st == nil || len(st.ActiveTouches) > 1 {
		return LongPress{}, false
	}
	if st.Moved() > ctx.Options.TapMaxDistance {
		return LongPress{}, false
	}
	if ctx.elapsed() < ctx.Options.LongPressDelay {
		return LongPress{}, false
	}
	return LongPress{X: st.CurrentX, Y: st.CurrentY}, true
}
