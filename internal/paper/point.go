package paper

import (
	"fmt"
	"math"
)

// Point is an immutable position in surface-logical pixels.
type Point struct {
	X, Y float64
}

// Pt is a convenience function to create a Point.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns the sum of two points.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns the difference of two points.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Mul returns the point scaled by s.
func (p Point) Mul(s float64) Point {
	return Point{X: p.X * s, Y: p.Y * s}
}

// Round returns the point with both coordinates rounded to the nearest
// integer, halves rounding up.
func (p Point) Round() Point {
	return Point{X: roundHalfUp(p.X), Y: roundHalfUp(p.Y)}
}

func (p Point) String() string {
	return fmt.Sprintf("(%g,%g)", p.X, p.Y)
}

func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}
