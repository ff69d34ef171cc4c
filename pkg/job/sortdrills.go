package job

import (
	"math"

	"millgen/pkg/geometry"
)

// drillPosition returns the position of a drill operation, or ok false for
// other kinds and drills with a missing coordinate.
func drillPosition(op Operation) (geometry.Point, bool) {
	switch op.Kind {
	case KindDrill, KindDrillChipBreak, KindDrillPeck:
	default:
		return geometry.Point{}, false
	}
	x, xOK := op.X.Float()
	y, yOK := op.Y.Float()
	if !xOK || !yOK || math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
		return geometry.Point{}, false
	}
	return geometry.Pt(x, y), true
}

// SortDrills reorders every run of consecutive drill operations so that
// each drill is followed by the nearest one not yet drilled, starting from
// the origin. Other operations keep their place, and the input is left
// untouched.
func SortDrills(ops []Operation) []Operation {
	sorted := make([]Operation, len(ops))
	for i, index := range sortOrder(ops) {
		sorted[i] = ops[index]
	}
	return sorted
}

// sortOrder returns the indices of ops in SortDrills order.
func sortOrder(ops []Operation) []int {
	order := make([]int, 0, len(ops))
	for start := 0; start < len(ops); {
		if _, ok := drillPosition(ops[start]); !ok {
			order = append(order, start)
			start++
			continue
		}
		end := start
		for end < len(ops) {
			if _, ok := drillPosition(ops[end]); !ok {
				break
			}
			end++
		}
		for _, i := range sortRun(ops[start:end]) {
			order = append(order, start+i)
		}
		start = end
	}
	return order
}

// sortRun orders a run of drills by repeated nearest neighbour search and
// returns their indices within the run.
func sortRun(run []Operation) []int {
	positions := make([]geometry.Point, len(run))
	minX, minY, maxX, maxY := 0.0, 0.0, 0.0, 0.0
	for i, op := range run {
		pt, _ := drillPosition(op)
		positions[i] = pt
		minX, maxX = math.Min(minX, pt.X), math.Max(maxX, pt.X)
		minY, maxY = math.Min(minY, pt.Y), math.Max(maxY, pt.Y)
	}

	tree := newDrillTree(minX, minY, maxX, maxY)
	for i, pt := range positions {
		tree.add(pt, i)
	}

	order := make([]int, 0, len(run))
	taken := make([]bool, len(run))
	var at geometry.Point
	for {
		pt, index, ok := tree.nearest(at)
		if !ok {
			break
		}
		tree.remove(pt, index)
		order = append(order, index)
		taken[index] = true
		at = pt
	}

	// The tree rejects points it cannot place; keep those in job order.
	for i := range run {
		if !taken[i] {
			order = append(order, i)
		}
	}
	return order
}
