package toolpath

import (
	"math"

	"golang.org/x/xerrors"

	"millgen/pkg/gcode"
)

// Heights returns the Z levels to mill down from fromZ to toZ: fromZ, then
// every step below it while still above toZ, and finally toZ itself. The last
// level is always exactly toZ, whether or not stepping lands on it.
func Heights(fromZ, toZ, step gcode.Value) ([]float64, error) {
	from, fromOK := fromZ.Float()
	to, toOK := toZ.Float()
	s, stepOK := step.Float()
	if !fromOK || !toOK || !stepOK {
		return nil, xerrors.Errorf("depth schedule needs from, to and step (got %v, %v, %v): %w", fromZ, toZ, step, ErrMissingParameter)
	}
	if !finite(from, to, s) {
		return nil, xerrors.Errorf("depth schedule bounds must be finite: %w", ErrWrongParameter)
	}
	if from < to {
		return nil, xerrors.Errorf("cannot mill up from %s to %s: %w", gcode.FormatNumber(from), gcode.FormatNumber(to), ErrWrongParameter)
	}
	if s >= 0 {
		return nil, xerrors.Errorf("depth step %s must be negative: %w", gcode.FormatNumber(s), ErrWrongParameter)
	}

	var heights []float64
	for z := from; z > to; z += s {
		if z+s == z {
			return nil, xerrors.Errorf("depth step %s vanishes at %s: %w", gcode.FormatNumber(s), gcode.FormatNumber(z), ErrWrongParameter)
		}
		heights = append(heights, z)
	}
	return append(heights, to), nil
}

// Offsets returns the radial offsets to mill outward from start to end with a
// tool of the given diameter, stepping by half the diameter so that
// consecutive passes overlap. The last offset is always end - toolDiameter/2,
// which puts the tool's edge exactly on end.
func Offsets(start, end, toolDiameter float64) ([]float64, error) {
	if !finite(start, end, toolDiameter) {
		return nil, xerrors.Errorf("offset bounds must be finite: %w", ErrWrongParameter)
	}
	if toolDiameter <= 0 {
		return nil, xerrors.Errorf("tool diameter %s must be positive: %w", gcode.FormatNumber(toolDiameter), ErrWrongParameter)
	}
	half := toolDiameter / 2
	if end < half {
		return nil, xerrors.Errorf("end %s cannot fit a %s tool: %w", gcode.FormatNumber(end), gcode.FormatNumber(toolDiameter), ErrWrongParameter)
	}

	var offsets []float64
	for o := start + half; o < end-half; o += half {
		if o+half == o {
			return nil, xerrors.Errorf("offset step %s vanishes at %s: %w", gcode.FormatNumber(half), gcode.FormatNumber(o), ErrWrongParameter)
		}
		offsets = append(offsets, o)
	}
	return append(offsets, end-half), nil
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
