package geometry

import (
	"fmt"
	"math"
)

// Point is a planar coordinate pair. Points are values; every method returns
// a new Point and leaves the receiver untouched.
type Point struct {
	X float64
	Y float64
}

type Vector2 = Point

// Pt returns the point (x, y).
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

func (p Point) String() string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}

func (a Vector2) Add(b Vector2) Vector2 {
	return Vector2{
		X: a.X + b.X,
		Y: a.Y + b.Y,
	}
}

func (a Vector2) Minus(b Vector2) Vector2 {
	return Vector2{
		X: a.X - b.X,
		Y: a.Y - b.Y,
	}
}

// Offset translates the point by (dx, dy).
func (p Point) Offset(dx, dy float64) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// Rotate rotates the point about center by degs degrees. Positive angles turn
// clockwise: (1, 0) rotated by 90 about the origin lands on (0, -1).
func (p Point) Rotate(center Point, degs float64) Point {
	sin, cos := math.Sincos(degs * math.Pi / 180)
	d := p.Minus(center)
	return Point{
		X: d.X*cos + d.Y*sin,
		Y: d.Y*cos - d.X*sin,
	}.Add(center)
}

// RotateOrigin rotates the point about the origin by degs degrees,
// counter-clockwise for positive angles.
func (p Point) RotateOrigin(degs float64) Point {
	sin, cos := math.Sincos(degs * math.Pi / 180)
	return Point{
		X: p.X*cos - p.Y*sin,
		Y: p.X*sin + p.Y*cos,
	}
}

func (v Vector2) Magnitude() float64 {
	return math.Hypot(v.X, v.Y)
}

func (a Vector2) CrossProductZ(b Vector2) float64 {
	return a.X*b.Y - a.Y*b.X
}

// Distance returns the distance between two points.
func (p Point) Distance(other Point) float64 {
	return math.Hypot(p.X-other.X, p.Y-other.Y)
}

// Scale returns the point scaled by the given factor f.
func (p Point) Scale(f float64) Point {
	return Point{X: p.X * f, Y: p.Y * f}
}
