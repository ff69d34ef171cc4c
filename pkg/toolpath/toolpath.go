// Package toolpath turns parametric 2.5D shapes into ordered G-code blocks.
//
// Every routine validates its parameters and computes its depth and offset
// schedules before rendering anything, so a routine either returns a complete
// block or an error and no block at all. Routines share no state and may run
// concurrently.
package toolpath

import (
	"math"

	"golang.org/x/xerrors"

	"millgen/pkg/gcode"
)

var (
	// ErrMissingParameter reports a structurally required input that was not
	// supplied.
	ErrMissingParameter = xerrors.New("missing parameter")

	// ErrWrongParameter reports an input that is present but geometrically or
	// physically invalid.
	ErrWrongParameter = xerrors.New("wrong parameter")
)

// Passes is the depth schedule of a multi-pass cut: from From down to To in
// steps of Step (negative).
type Passes struct {
	From gcode.Value
	To   gcode.Value
	Step gcode.Value
}

// Heights returns the schedule's Z levels.
func (p Passes) Heights() ([]float64, error) {
	return Heights(p.From, p.To, p.Step)
}

// Cut holds the machining parameters shared by the milling routines.
// Feeds are in mm/min, heights and diameters in mm.
type Cut struct {
	ToolDiameter float64
	FeedRate     float64
	ZFeedRate    float64 // plunge feed, unused by the helical routines
	SafetyZ      float64
	Passes
}

func (c Cut) checkTool() error {
	if !(c.ToolDiameter > 0) || math.IsInf(c.ToolDiameter, 0) {
		return xerrors.Errorf("tool diameter %s must be positive: %w", gcode.FormatNumber(c.ToolDiameter), ErrWrongParameter)
	}
	return nil
}

func checkNonNegative(name string, n float64) error {
	if !(n >= 0) || math.IsInf(n, 0) {
		return xerrors.Errorf("%s %s must not be negative: %w", name, gcode.FormatNumber(n), ErrWrongParameter)
	}
	return nil
}

// program accumulates lines and keeps the first formatting error.
type program struct {
	block gcode.Block
	err   error
}

func (p *program) add(code gcode.Code, params gcode.Params) {
	if p.err != nil {
		return
	}
	for _, v := range []gcode.Value{params.X, params.Y, params.Z, params.I, params.J, params.R, params.Q, params.F} {
		if f, ok := v.Float(); ok && !finite(f) {
			p.err = xerrors.Errorf("%s with a non-finite field: %w", code, ErrWrongParameter)
			return
		}
	}
	p.err = p.block.Add(code, params)
}

// retract feeds back up to the safety height, the last move of every milling
// routine.
func (p *program) retract(c Cut) {
	p.add(gcode.G1, gcode.Params{Z: gcode.V(c.SafetyZ), F: gcode.V(c.FeedRate)})
}

func (p *program) done() (gcode.Block, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.block, nil
}
