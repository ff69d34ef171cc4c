package toolpath

import (
	"golang.org/x/xerrors"

	"millgen/pkg/gcode"
)

// Drill is a single drilled point. The controller steps the depth itself, so
// drill cycles have no depth schedule. Increment is the peck or chip-break
// depth and is ignored by simple drilling.
type Drill struct {
	X         float64
	Y         float64
	Depth     float64
	Increment float64
	SafetyZ   float64
	FeedRate  float64
}

// DrillSimple drills d with a G81 cycle retracting to the safety height.
func DrillSimple(d Drill) (gcode.Block, error) {
	return drill(gcode.G81, d)
}

// DrillChipBreak drills d with a G73 chip-breaking cycle.
func DrillChipBreak(d Drill) (gcode.Block, error) {
	return drill(gcode.G73, d)
}

// DrillPeck drills d with a G83 peck cycle.
func DrillPeck(d Drill) (gcode.Block, error) {
	return drill(gcode.G83, d)
}

func drill(code gcode.Code, d Drill) (gcode.Block, error) {
	if !finite(d.X, d.Y, d.Depth, d.SafetyZ, d.FeedRate, d.Increment) {
		return nil, xerrors.Errorf("drill parameters must be finite: %w", ErrWrongParameter)
	}
	if d.SafetyZ < d.Depth {
		return nil, xerrors.Errorf("retract height %s is below the depth %s: %w",
			gcode.FormatNumber(d.SafetyZ), gcode.FormatNumber(d.Depth), ErrWrongParameter)
	}
	cycle := gcode.Params{Z: gcode.V(d.Depth), R: gcode.V(d.SafetyZ), F: gcode.V(d.FeedRate)}
	if code != gcode.G81 {
		if !(d.Increment > 0) {
			return nil, xerrors.Errorf("drill increment %s must be positive: %w",
				gcode.FormatNumber(d.Increment), ErrWrongParameter)
		}
		cycle.Q = gcode.V(d.Increment)
	}

	var p program
	p.add(gcode.G0, gcode.Params{Z: gcode.V(d.SafetyZ)})
	p.add(gcode.G0, gcode.Params{X: gcode.V(d.X), Y: gcode.V(d.Y)})
	p.add(code, cycle)
	return p.done()
}
