package toolpath

import (
	"golang.org/x/xerrors"

	"millgen/pkg/gcode"
	"millgen/pkg/geometry"
)

// Oval is a stadium: a Width x Height rectangle whose east and west ends are
// semicircles of diameter Height, turned clockwise by Angle degrees about its
// center.
type Oval struct {
	XCenter float64
	YCenter float64
	Width   float64
	Height  float64
	Angle   float64
	Cut
}

// ovalLoop holds the key points of one closed loop at distance d from the
// oval's long axis.
type ovalLoop struct {
	n, ne, eCenter, se, sw, wCenter, nw geometry.Point
}

func (o Oval) loop(d float64) ovalLoop {
	center := geometry.Pt(o.XCenter, o.YCenter)
	straight := (o.Width - o.Height) / 2
	at := func(x, y float64) geometry.Point {
		return center.Offset(x, y).Rotate(center, o.Angle)
	}
	return ovalLoop{
		n:       at(0, d),
		ne:      at(straight, d),
		eCenter: at(straight, 0),
		se:      at(straight, -d),
		sw:      at(-straight, -d),
		wCenter: at(-straight, 0),
		nw:      at(-straight, d),
	}
}

// MillOval clears the inside of o. At every depth level it mills closed loops
// from the long axis outward to the boundary: straight north and south sides
// joined by clockwise half circles around the east and west arc centers.
func MillOval(o Oval) (gcode.Block, error) {
	if err := o.checkTool(); err != nil {
		return nil, err
	}
	if o.Width < o.Height {
		return nil, xerrors.Errorf("oval width %s is smaller than its height %s: %w",
			gcode.FormatNumber(o.Width), gcode.FormatNumber(o.Height), ErrWrongParameter)
	}
	heights, err := o.Heights()
	if err != nil {
		return nil, err
	}
	offsets, err := Offsets(0, o.Height/2, o.ToolDiameter)
	if err != nil {
		return nil, err
	}

	feed := gcode.V(o.FeedRate)
	xy := func(pt geometry.Point) gcode.Params {
		return gcode.Params{X: gcode.V(pt.X), Y: gcode.V(pt.Y), F: feed}
	}
	arc := func(from, center, to geometry.Point, z gcode.Value) gcode.Params {
		offset := center.Minus(from)
		return gcode.Params{X: gcode.V(to.X), Y: gcode.V(to.Y), Z: z, I: gcode.V(offset.X), J: gcode.V(offset.Y), F: feed}
	}

	var p program
	p.add(gcode.G0, gcode.Params{X: gcode.V(o.XCenter), Y: gcode.V(o.YCenter), Z: gcode.V(o.SafetyZ)})
	for _, h := range heights {
		z := gcode.V(h)
		for _, d := range offsets {
			l := o.loop(d)
			p.add(gcode.G1, gcode.Params{Z: z, F: gcode.V(o.ZFeedRate)})
			p.add(gcode.G1, xy(l.n))
			p.add(gcode.G1, xy(l.ne))
			p.add(gcode.G2, arc(l.ne, l.eCenter, l.se, z))
			p.add(gcode.G1, xy(l.sw))
			p.add(gcode.G2, arc(l.sw, l.wCenter, l.nw, z))
			p.add(gcode.G1, xy(l.n))
		}
	}
	p.retract(o.Cut)
	return p.done()
}
