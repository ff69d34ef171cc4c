package toolpath

import (
	"math"

	"golang.org/x/xerrors"

	"millgen/pkg/gcode"
)

// Rectangle is the outline of an axis-aligned rectangle given by its lower
// left corner and dimensions.
type Rectangle struct {
	XDimension float64
	YDimension float64
	XMin       float64
	YMin       float64
	Cut
}

// MillRectangle cuts the outline of r at every depth level. The tool runs
// counter-clockwise from the lower left corner on the outside of the
// rectangle, so the cut edge matches the requested dimensions.
func MillRectangle(r Rectangle) (gcode.Block, error) {
	if err := r.checkTool(); err != nil {
		return nil, err
	}
	if err := checkNonNegative("x dimension", r.XDimension); err != nil {
		return nil, err
	}
	if err := checkNonNegative("y dimension", r.YDimension); err != nil {
		return nil, err
	}
	heights, err := r.Heights()
	if err != nil {
		return nil, err
	}

	half := r.ToolDiameter / 2
	left, right := r.XMin-half, r.XMin+r.XDimension+half
	bottom, top := r.YMin-half, r.YMin+r.YDimension+half
	feed := gcode.V(r.FeedRate)

	var p program
	p.add(gcode.G0, gcode.Params{X: gcode.V(0), Y: gcode.V(0), Z: gcode.V(r.SafetyZ)})
	p.add(gcode.G0, gcode.Params{X: gcode.V(left), Y: gcode.V(bottom)})
	for _, h := range heights {
		p.add(gcode.G1, gcode.Params{Z: gcode.V(h), F: gcode.V(r.ZFeedRate)})
		p.add(gcode.G1, gcode.Params{X: gcode.V(right), F: feed})
		p.add(gcode.G1, gcode.Params{Y: gcode.V(top), F: feed})
		p.add(gcode.G1, gcode.Params{X: gcode.V(left), F: feed})
		p.add(gcode.G1, gcode.Params{Y: gcode.V(bottom), F: feed})
	}
	p.retract(r.Cut)
	return p.done()
}

// RoundedRectangle is the outline of a centered rectangle whose corners are
// quarter circles of CornerRadius.
type RoundedRectangle struct {
	XCenter      float64
	YCenter      float64
	XDimension   float64
	YDimension   float64
	CornerRadius float64
	Cut
}

// MillRoundedRectangle cuts the outline of r counter-clockwise from the
// lower edge, replacing each corner with a G3 quarter arc whose radius is the
// corner radius plus the tool radius.
func MillRoundedRectangle(r RoundedRectangle) (gcode.Block, error) {
	if err := r.checkTool(); err != nil {
		return nil, err
	}
	if err := checkNonNegative("corner radius", r.CornerRadius); err != nil {
		return nil, err
	}
	if 2*r.CornerRadius > math.Min(r.XDimension, r.YDimension) {
		return nil, xerrors.Errorf("corner radius %s does not fit a %sx%s rectangle: %w",
			gcode.FormatNumber(r.CornerRadius), gcode.FormatNumber(r.XDimension), gcode.FormatNumber(r.YDimension), ErrWrongParameter)
	}
	heights, err := r.Heights()
	if err != nil {
		return nil, err
	}

	half := r.ToolDiameter / 2
	radius := r.CornerRadius
	arc := radius + half
	xLow, xHigh := r.XCenter-r.XDimension/2, r.XCenter+r.XDimension/2
	yLow, yHigh := r.YCenter-r.YDimension/2, r.YCenter+r.YDimension/2
	feed := gcode.V(r.FeedRate)

	var p program
	p.add(gcode.G0, gcode.Params{X: gcode.V(0), Y: gcode.V(0), Z: gcode.V(r.SafetyZ)})
	p.add(gcode.G0, gcode.Params{X: gcode.V(xLow + radius), Y: gcode.V(yLow - half)})
	for _, h := range heights {
		z := gcode.V(h)
		p.add(gcode.G1, gcode.Params{Z: z, F: gcode.V(r.ZFeedRate)})

		// lower edge, lower right corner
		p.add(gcode.G1, gcode.Params{X: gcode.V(xHigh - radius), F: feed})
		p.add(gcode.G3, gcode.Params{X: gcode.V(xHigh + half), Y: gcode.V(yLow + radius), Z: z, I: gcode.V(0), J: gcode.V(arc), F: feed})

		// right edge, upper right corner
		p.add(gcode.G1, gcode.Params{Y: gcode.V(yHigh - radius), F: feed})
		p.add(gcode.G3, gcode.Params{X: gcode.V(xHigh - radius), Y: gcode.V(yHigh + half), Z: z, I: gcode.V(-arc), J: gcode.V(0), F: feed})

		// upper edge, upper left corner
		p.add(gcode.G1, gcode.Params{X: gcode.V(xLow + radius), F: feed})
		p.add(gcode.G3, gcode.Params{X: gcode.V(xLow - half), Y: gcode.V(yHigh - radius), Z: z, I: gcode.V(0), J: gcode.V(-arc), F: feed})

		// left edge, lower left corner
		p.add(gcode.G1, gcode.Params{Y: gcode.V(yLow + radius), F: feed})
		p.add(gcode.G3, gcode.Params{X: gcode.V(xLow + radius), Y: gcode.V(yLow - half), Z: z, I: gcode.V(arc), J: gcode.V(0), F: feed})
	}
	p.retract(r.Cut)
	return p.done()
}
