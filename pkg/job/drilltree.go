package job

import (
	"math"
	"sort"

	"github.com/asim/quadtree"

	"millgen/pkg/geometry"
)

// drillTree indexes drill positions for nearest neighbour lookups. Drills
// sharing a position share one quadtree point whose data is the list of
// their indices.
type drillTree struct {
	quadTree *quadtree.QuadTree
	size     float64
}

func newDrillTree(minX, minY, maxX, maxY float64) *drillTree {
	midX := (maxX + minX) / 2
	midY := (maxY + minY) / 2
	halfWidth := maxX - midX
	halfHeight := maxY - midY

	// Add a small margin to avoid dropping objects at the edges
	halfWidth += 10
	halfHeight += 10

	aabb := quadtree.NewAABB(
		quadtree.NewPoint(midX, midY, nil),
		quadtree.NewPoint(halfWidth, halfHeight, nil))
	return &drillTree{
		quadTree: quadtree.New(aabb, 0, nil),
		size:     2 * math.Max(halfWidth, halfHeight),
	}
}

// lookup returns the tree point at exactly pt, or nil.
func (t *drillTree) lookup(pt geometry.Point) *quadtree.Point {
	aabb := quadtree.NewAABB(
		quadtree.NewPoint(pt.X, pt.Y, nil),
		quadtree.NewPoint(0, 0, nil))
	for _, point := range t.quadTree.Search(aabb) {
		x, y := point.Coordinates()
		if x == pt.X && y == pt.Y {
			return point
		}
	}
	return nil
}

func (t *drillTree) add(pt geometry.Point, index int) {
	if point := t.lookup(pt); point != nil {
		indices := point.Data().(*[]int)
		*indices = append(*indices, index)
		return
	}
	t.quadTree.Insert(quadtree.NewPoint(pt.X, pt.Y, &[]int{index}))
}

// remove takes one index away from the drills at pt.
func (t *drillTree) remove(pt geometry.Point, index int) {
	point := t.lookup(pt)
	if point == nil {
		return
	}
	indices := point.Data().(*[]int)
	for i, other := range *indices {
		if other == index {
			*indices = append((*indices)[:i], (*indices)[i+1:]...)
			break
		}
	}
	if len(*indices) == 0 {
		t.quadTree.Remove(point)
	}
}

// nearest returns the position and lowest index of the drill closest to pt,
// searching boxes of doubling size around it. Equal distances go to the
// lowest index. ok is false once the tree is empty.
func (t *drillTree) nearest(pt geometry.Point) (found geometry.Point, index int, ok bool) {
	// A box wide enough to hold the whole tree seen from pt.
	limit := 2*t.size + math.Max(math.Abs(pt.X), math.Abs(pt.Y))
	for half := 1.0; ; half *= 2 {
		aabb := quadtree.NewAABB(
			quadtree.NewPoint(pt.X, pt.Y, nil),
			quadtree.NewPoint(half, half, nil))
		points := t.quadTree.Search(aabb)

		type candidate struct {
			pt    geometry.Point
			index int
			dist  float64
		}
		var candidates []candidate
		for _, point := range points {
			x, y := point.Coordinates()
			p := geometry.Pt(x, y)
			indices := *point.Data().(*[]int)
			if len(indices) == 0 {
				continue
			}
			lowest := indices[0]
			for _, i := range indices[1:] {
				if i < lowest {
					lowest = i
				}
			}
			candidates = append(candidates, candidate{p, lowest, p.Distance(pt)})
		}

		sort.Slice(candidates, func(i, j int) bool {
			if candidates[i].dist != candidates[j].dist {
				return candidates[i].dist < candidates[j].dist
			}
			return candidates[i].index < candidates[j].index
		})

		// Anything closer than half lies inside the box, so the best
		// candidate is the true nearest once it is within that distance.
		if len(candidates) > 0 && (candidates[0].dist <= half || half > limit) {
			return candidates[0].pt, candidates[0].index, true
		}
		if half > limit {
			return geometry.Point{}, 0, false
		}
	}
}
