package gesture

import "math"

// DetectPinch reports a pinch when the spread between t1 and t2 differs from
// State.StartDistance by at least PinchThreshold. A zero StartDistance gives
// an infinite Scale rather than a failure; a zero PrevDistance gives a zero
// ScaleDelta.
func DetectPinch(ctx Context, t1, t2 Point) (Pinch, bool) {
	st := ctx.State
	if st == nil {
		return Pinch{}, false
	}
	current := Distance(t1, t2)
	if math.Abs(current-st.StartDistance) < ctx.Options.PinchThreshold {
		return Pinch{}, false
	}

	scale := math.Inf(1)
	if st.StartDistance > 0 {
		scale = current / st.StartDistance
	}
	scaleDelta := 0.0
	if st.PrevDistance > 0 {
		scaleDelta = current/st.PrevDistance - 1
	}
	angle := Angle(t1, t2)
	center := Midpoint(t1, t2)
	return Pinch{
		CenterX:    center.X,
		CenterY:    center.Y,
		Scale:      scale,
		ScaleDelta: scaleDelta,
		Rotation:   normalizeDegrees(angle - st.StartAngle),
		RotDelta:   normalizeDegrees(angle - st.PrevAngle),
	}, true
}

// normalizeDegrees maps an angle difference into (-180, 180].
func normalizeDegrees(d float64) float64 {
	for d > 180 {
		d -= 360
	}
	for d <= -180 {
		d += 360
	}
	return d
}
