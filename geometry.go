package gesture

import "math"

// Point is a position in device pixels. The origin is the top-left of the
// host surface with Y increasing downward.
type Point struct {
	X, Y float64
}

// Distance returns the Euclidean distance between p1 and p2.
func Distance(p1, p2 Point) float64 {
	return math.Hypot(p2.X-p1.X, p2.Y-p1.Y)
}

// Angle returns the direction of the vector from p1 to p2 in degrees, in the
// range (-180, 180]. Zero points right and 90 points down (screen space).
// Coincident points yield 0.
func Angle(p1, p2 Point) float64 {
	return math.Atan2(p2.Y-p1.Y, p2.X-p1.X) * 180 / math.Pi
}

// Midpoint returns the point halfway between p1 and p2.
func Midpoint(p1, p2 Point) Point {
	return Point{X: (p1.X + p2.X) / 2, Y: (p1.Y + p2.Y) / 2}
}
