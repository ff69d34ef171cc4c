package toolpath

import (
	"golang.org/x/xerrors"

	"millgen/pkg/gcode"
	"millgen/pkg/geometry"
)

// Path is an arbitrary open or closed polyline milled with the tool centered
// on it. The tool diameter is not used.
type Path struct {
	Waypoints geometry.Polyline
	Cut
}

// FollowPath rapids to the first waypoint, then at every depth level feeds
// through all waypoints in order.
func FollowPath(path Path) (gcode.Block, error) {
	if len(path.Waypoints) == 0 {
		return nil, xerrors.Errorf("path has no waypoints: %w", ErrWrongParameter)
	}
	heights, err := path.Heights()
	if err != nil {
		return nil, err
	}

	first := path.Waypoints[0]
	feed := gcode.V(path.FeedRate)

	var p program
	p.add(gcode.G0, gcode.Params{X: gcode.V(0), Y: gcode.V(0), Z: gcode.V(path.SafetyZ)})
	p.add(gcode.G0, gcode.Params{X: gcode.V(first.X), Y: gcode.V(first.Y)})
	for _, h := range heights {
		p.add(gcode.G1, gcode.Params{Z: gcode.V(h), F: gcode.V(path.ZFeedRate)})
		for _, pt := range path.Waypoints {
			p.add(gcode.G1, gcode.Params{X: gcode.V(pt.X), Y: gcode.V(pt.Y), F: feed})
		}
	}
	p.retract(path.Cut)
	return p.done()
}
