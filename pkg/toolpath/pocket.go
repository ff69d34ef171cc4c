package toolpath

import (
	"math"

	"golang.org/x/xerrors"

	"millgen/pkg/gcode"
	"millgen/pkg/geometry"
)

// Thin lowers the stock over a rectangle given by its lower left corner and
// dimensions, typically before cutting a part out of the thinned region.
type Thin struct {
	XDimension float64
	YDimension float64
	XMin       float64
	YMin       float64
	Cut
}

// CenteredThin is a Thin region given by its center.
type CenteredThin struct {
	XDimension float64
	YDimension float64
	XCenter    float64
	YCenter    float64
	Cut
}

// SquarePocket is a centered rectangular pocket whose inside is fully cleared.
type SquarePocket struct {
	XCenter    float64
	YCenter    float64
	XDimension float64
	YDimension float64
	Cut
}

// ringBounds is the clamp box of the expanding rings: the region's edges
// pulled in by the tool radius.
type ringBounds struct {
	center                 geometry.Point
	xMin, xMax, yMin, yMax float64
	halfWidth, halfHeight  float64
}

func newRingBounds(xCenter, yCenter, xDimension, yDimension, toolDiameter float64) ringBounds {
	half := toolDiameter / 2
	return ringBounds{
		center:     geometry.Pt(xCenter, yCenter),
		xMin:       xCenter - xDimension/2 + half,
		xMax:       xCenter + xDimension/2 - half,
		yMin:       yCenter - yDimension/2 + half,
		yMax:       yCenter + yDimension/2 - half,
		halfWidth:  xDimension / 2,
		halfHeight: yDimension / 2,
	}
}

// checkRegion rejects regions the tool does not fit in, which would turn the
// ring clamp box inside out.
func checkRegion(name string, xDimension, yDimension float64, c Cut) error {
	if !(xDimension >= c.ToolDiameter && yDimension >= c.ToolDiameter) || !finite(xDimension, yDimension) {
		return xerrors.Errorf("%sx%s %s is smaller than the %s tool: %w",
			gcode.FormatNumber(xDimension), gcode.FormatNumber(yDimension), name,
			gcode.FormatNumber(c.ToolDiameter), ErrWrongParameter)
	}
	return nil
}

// rings mills rectangles growing by half a tool diameter per turn around the
// center, each clamped to the bounds, until both half dimensions are covered.
// It starts and ends on the center's vertical line.
func (p *program) rings(b ringBounds, c Cut) {
	feed := gcode.V(c.FeedRate)
	for turns := 0.0; turns/2*c.ToolDiameter < b.halfWidth || turns/2*c.ToolDiameter < b.halfHeight; turns++ {
		reach := (turns/2 + 0.5) * c.ToolDiameter
		top := math.Min(b.center.Y+reach, b.yMax)
		right := math.Min(b.center.X+reach, b.xMax)
		bottom := math.Max(b.center.Y-reach, b.yMin)
		left := math.Max(b.center.X-reach, b.xMin)

		p.add(gcode.G1, gcode.Params{Y: gcode.V(top), F: feed})
		p.add(gcode.G1, gcode.Params{X: gcode.V(right), F: feed})
		p.add(gcode.G1, gcode.Params{Y: gcode.V(bottom), F: feed})
		p.add(gcode.G1, gcode.Params{X: gcode.V(left), F: feed})
		p.add(gcode.G1, gcode.Params{Y: gcode.V(top), F: feed})
		p.add(gcode.G1, gcode.Params{X: gcode.V(b.center.X), F: feed})
	}
}

// MillThin spirals out from the center of t in expanding rings at every
// depth level.
func MillThin(t Thin) (gcode.Block, error) {
	if err := t.checkTool(); err != nil {
		return nil, err
	}
	if err := checkRegion("thinned region", t.XDimension, t.YDimension, t.Cut); err != nil {
		return nil, err
	}
	heights, err := t.Heights()
	if err != nil {
		return nil, err
	}

	xCenter := t.XMin + t.XDimension/2
	yCenter := t.YMin + t.YDimension/2
	bounds := newRingBounds(xCenter, yCenter, t.XDimension, t.YDimension, t.ToolDiameter)

	var p program
	p.add(gcode.G0, gcode.Params{X: gcode.V(0), Y: gcode.V(0), Z: gcode.V(t.SafetyZ)})
	p.add(gcode.G0, gcode.Params{X: gcode.V(xCenter), Y: gcode.V(yCenter)})
	for _, h := range heights {
		p.add(gcode.G1, gcode.Params{X: gcode.V(xCenter), Y: gcode.V(yCenter), F: gcode.V(t.FeedRate)})
		p.add(gcode.G1, gcode.Params{Z: gcode.V(h), F: gcode.V(t.ZFeedRate)})
		p.rings(bounds, t.Cut)
	}
	p.retract(t.Cut)
	return p.done()
}

// MillThinFromCenter is MillThin for a region given by its center.
func MillThinFromCenter(t CenteredThin) (gcode.Block, error) {
	return MillThin(Thin{
		XDimension: t.XDimension,
		YDimension: t.YDimension,
		XMin:       t.XCenter - t.XDimension/2,
		YMin:       t.YCenter - t.YDimension/2,
		Cut:        t.Cut,
	})
}

// MillSquarePocket clears the pocket with expanding rings at every depth
// level, then follows a nine point path that pushes the tool into each
// corner the rings leave rounded.
func MillSquarePocket(s SquarePocket) (gcode.Block, error) {
	if err := s.checkTool(); err != nil {
		return nil, err
	}
	if err := checkRegion("pocket", s.XDimension, s.YDimension, s.Cut); err != nil {
		return nil, err
	}
	heights, err := s.Heights()
	if err != nil {
		return nil, err
	}

	bounds := newRingBounds(s.XCenter, s.YCenter, s.XDimension, s.YDimension, s.ToolDiameter)
	xEdgeMin, xEdgeMax := s.XCenter-s.XDimension/2, s.XCenter+s.XDimension/2
	corners := geometry.Polyline{
		{X: s.XCenter, Y: bounds.yMax},
		{X: xEdgeMax, Y: bounds.yMax},
		{X: bounds.xMax, Y: bounds.yMax},
		{X: bounds.xMax, Y: bounds.yMin},
		{X: xEdgeMax, Y: bounds.yMin},
		{X: xEdgeMin, Y: bounds.yMin},
		{X: bounds.xMin, Y: bounds.yMin},
		{X: bounds.xMin, Y: bounds.yMax},
		{X: xEdgeMin, Y: bounds.yMax},
		{X: s.XCenter, Y: bounds.yMax},
	}
	feed := gcode.V(s.FeedRate)

	var p program
	p.add(gcode.G0, gcode.Params{X: gcode.V(0), Y: gcode.V(0), Z: gcode.V(s.SafetyZ)})
	p.add(gcode.G0, gcode.Params{X: gcode.V(s.XCenter), Y: gcode.V(s.YCenter)})
	for _, h := range heights {
		p.add(gcode.G1, gcode.Params{X: gcode.V(s.XCenter), Y: gcode.V(s.YCenter), F: feed})
		p.add(gcode.G1, gcode.Params{Z: gcode.V(h), F: gcode.V(s.ZFeedRate)})
		p.rings(bounds, s.Cut)
		for _, pt := range corners {
			p.add(gcode.G1, gcode.Params{X: gcode.V(pt.X), Y: gcode.V(pt.Y), F: feed})
		}
	}
	p.retract(s.Cut)
	return p.done()
}
