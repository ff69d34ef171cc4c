package geometry

import (
	"math"
)

type LineSegment struct {
	A Point
	B Point
}

// Polyline is an ordered list of waypoints, closed when its last point
// repeats the first.
type Polyline []Point

// Distance returns the distance between a point and a line segment.
func (s LineSegment) Distance(p Point) float64 {
	AP := p.Minus(s.A)
	AB := s.A.Minus(s.B)
	mAP := AP.Magnitude()
	mBP := p.Minus(s.B).Magnitude()
	mAB := AB.Magnitude()

	if mAB == 0 {
		return mAP
	}

	if mAP > mAB || mBP > mAB {
		// closest point on line is outside segment boundaries, so the closest point
		// is the nearest of the two endpoints.
		return math.Min(mAP, mBP)
	}

	return math.Abs(AP.CrossProductZ(AB)) / mAB
}

// Simplify simplifies the polyline using the Douglas-Peucker algorithm,
// dropping every point closer than epsilon to the chord it sits on.
// The first and last points are always kept.
func (points Polyline) Simplify(epsilon float64) Polyline {
	if len(points) < 2 {
		return append(Polyline(nil), points...)
	}

	// find the point with the max distance from the line segment between the first and last points
	firstPoint, lastPoint := points[0], points[len(points)-1]
	chord := LineSegment{A: firstPoint, B: lastPoint}
	if len(points) == 2 {
		return Polyline{firstPoint, lastPoint}
	}

	dmax := 0.0
	index := 0
	for i := 1; i < len(points)-1; i++ {
		d := chord.Distance(points[i])
		if d > dmax {
			index = i
			dmax = d
		}
	}

	if dmax < epsilon || index == 0 {
		return Polyline{firstPoint, lastPoint}
	}

	// note: need to be careful on the recursive step to not call with < 2 points
	recResults1 := points[:index+1].Simplify(epsilon)
	recResults2 := points[index:].Simplify(epsilon)

	return append(recResults1[:len(recResults1)-1], recResults2...)
}
