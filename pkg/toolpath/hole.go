package toolpath

import (
	"golang.org/x/xerrors"

	"millgen/pkg/gcode"
)

// Hole is a round hole of the given diameter centered on (XCenter, YCenter).
type Hole struct {
	XCenter  float64
	YCenter  float64
	Diameter float64
	Cut
}

// FullHole is a Hole whose inside is cleared too, except for an optional
// CenterDiameter core left standing.
type FullHole struct {
	XCenter        float64
	YCenter        float64
	Diameter       float64
	CenterDiameter float64
	Cut
}

// ConcentricHoles is a stepped bore: Diameter1 from Passes.From down to
// IntermediateZ, then the smaller Diameter2 from IntermediateZ down to
// Passes.To.
type ConcentricHoles struct {
	XCenter       float64
	YCenter       float64
	Diameter1     float64
	Diameter2     float64
	IntermediateZ gcode.Value
	Cut
}

// Cylinder is a round boss of the given diameter, milled from the outside.
type Cylinder struct {
	XCenter  float64
	YCenter  float64
	Diameter float64
	Cut
}

func checkHole(diameter float64, c Cut) error {
	if err := c.checkTool(); err != nil {
		return err
	}
	if !(diameter >= c.ToolDiameter) || !finite(diameter) {
		return xerrors.Errorf("cannot make a %s hole with a %s tool: %w",
			gcode.FormatNumber(diameter), gcode.FormatNumber(c.ToolDiameter), ErrWrongParameter)
	}
	return nil
}

// MillHole cuts the rim of h with one clockwise helical circle per depth
// level, descending from the safety height. Material in the middle is left
// in place when the hole is wider than twice the tool.
func MillHole(h Hole) (gcode.Block, error) {
	if err := checkHole(h.Diameter, h.Cut); err != nil {
		return nil, err
	}
	heights, err := h.Heights()
	if err != nil {
		return nil, err
	}

	radius := (h.Diameter - h.ToolDiameter) / 2

	var p program
	p.add(gcode.G0, gcode.Params{Z: gcode.V(h.SafetyZ)})
	p.add(gcode.G0, gcode.Params{X: gcode.V(h.XCenter - radius), Y: gcode.V(h.YCenter)})
	for _, z := range heights {
		p.add(gcode.G2, gcode.Params{Z: gcode.V(z), I: gcode.V(radius), J: gcode.V(0), F: gcode.V(h.FeedRate)})
	}
	p.retract(h.Cut)
	return p.done()
}

// MillFullHole clears h: at every depth level it mills full circles from the
// center diameter out to the hole's edge.
func MillFullHole(h FullHole) (gcode.Block, error) {
	if err := checkHole(h.Diameter, h.Cut); err != nil {
		return nil, err
	}
	if err := checkNonNegative("center diameter", h.CenterDiameter); err != nil {
		return nil, err
	}
	if h.CenterDiameter > h.Diameter {
		return nil, xerrors.Errorf("center diameter %s exceeds hole diameter %s: %w",
			gcode.FormatNumber(h.CenterDiameter), gcode.FormatNumber(h.Diameter), ErrWrongParameter)
	}
	heights, err := h.Heights()
	if err != nil {
		return nil, err
	}
	offsets, err := Offsets(h.CenterDiameter/2, h.Diameter/2, h.ToolDiameter)
	if err != nil {
		return nil, err
	}

	feed := gcode.V(h.FeedRate)

	var p program
	p.add(gcode.G0, gcode.Params{Z: gcode.V(h.SafetyZ)})
	p.add(gcode.G0, gcode.Params{X: gcode.V(h.XCenter - h.ToolDiameter/2), Y: gcode.V(h.YCenter)})
	for _, z := range heights {
		p.add(gcode.G1, gcode.Params{Z: gcode.V(z), F: gcode.V(h.ZFeedRate)})
		for _, e := range offsets {
			p.add(gcode.G1, gcode.Params{X: gcode.V(h.XCenter - e), Y: gcode.V(h.YCenter), F: feed})
			p.add(gcode.G2, gcode.Params{Z: gcode.V(z), I: gcode.V(e), J: gcode.V(0), F: feed})
		}
	}
	p.retract(h.Cut)
	return p.done()
}

// MillConcentricHoles clears the wide upper hole, then continues the narrower
// one below it. Both holes are validated before either is emitted.
func MillConcentricHoles(h ConcentricHoles) (gcode.Block, error) {
	if h.Diameter2 > h.Diameter1 {
		return nil, xerrors.Errorf("second hole (%s) must not be wider than the first (%s): %w",
			gcode.FormatNumber(h.Diameter2), gcode.FormatNumber(h.Diameter1), ErrWrongParameter)
	}

	upper := h.Cut
	upper.Passes = Passes{From: h.From, To: h.IntermediateZ, Step: h.Step}
	lower := h.Cut
	lower.Passes = Passes{From: h.IntermediateZ, To: h.To, Step: h.Step}

	first, err := MillFullHole(FullHole{XCenter: h.XCenter, YCenter: h.YCenter, Diameter: h.Diameter1, Cut: upper})
	if err != nil {
		return nil, err
	}
	second, err := MillFullHole(FullHole{XCenter: h.XCenter, YCenter: h.YCenter, Diameter: h.Diameter2, Cut: lower})
	if err != nil {
		return nil, err
	}
	return append(first, second...), nil
}

// MillCylinder runs the tool counter-clockwise around the outside of the
// boss, one helical circle per depth level, at radius
// (Diameter + ToolDiameter) / 2.
func MillCylinder(c Cylinder) (gcode.Block, error) {
	if err := c.checkTool(); err != nil {
		return nil, err
	}
	if err := checkNonNegative("cylinder diameter", c.Diameter); err != nil {
		return nil, err
	}
	heights, err := c.Heights()
	if err != nil {
		return nil, err
	}

	radius := (c.Diameter + c.ToolDiameter) / 2

	var p program
	p.add(gcode.G0, gcode.Params{Z: gcode.V(c.SafetyZ)})
	p.add(gcode.G0, gcode.Params{X: gcode.V(c.XCenter - radius), Y: gcode.V(c.YCenter)})
	for _, z := range heights {
		p.add(gcode.G3, gcode.Params{Z: gcode.V(z), I: gcode.V(radius), J: gcode.V(0), F: gcode.V(c.FeedRate)})
	}
	p.retract(c.Cut)
	return p.done()
}
