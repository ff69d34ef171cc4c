// Package gcode renders single motion primitives as lines of RS-274 (LinuxCNC
// flavoured) G-code and accumulates them into blocks of program text.
//
// The package is agnostic to geometry: it never computes a coordinate, it only
// checks that a primitive carries enough fields to be meaningful and renders
// the fields that are present.
package gcode

import (
	"strings"

	"golang.org/x/xerrors"
)

// ErrParameter reports a primitive asked to be rendered with an insufficient
// or contradictory set of fields.
var ErrParameter = xerrors.New("gcode parameter error")

// Code is the textual prefix of an instruction.
type Code string

const (
	G0  Code = "G0"      // rapid move
	G1  Code = "G1"      // feed move
	G2  Code = "G2"      // clockwise arc or helix
	G3  Code = "G3"      // counter-clockwise arc or helix
	G73 Code = "G73 G98" // chip-break drill cycle, retract to R
	G81 Code = "G81 G98" // simple drill cycle, retract to R
	G83 Code = "G83 G98" // peck drill cycle, retract to R
)

// Params holds the optional fields of a primitive. Fields are rendered in
// declaration order, which is the canonical X Y Z I J R Q F order.
//
// For arcs X/Y are the end point, Z the altitude reached at the end of the arc
// (helix) and I/J the offsets from the start point to the center. For drill
// cycles Z is the hole bottom, R the retract height and Q the peck increment.
type Params struct {
	X, Y, Z Value
	I, J    Value
	R       Value
	Q       Value
	F       Value
}

func (p Params) fields() []struct {
	letter byte
	value  Value
} {
	return []struct {
		letter byte
		value  Value
	}{
		{'X', p.X}, {'Y', p.Y}, {'Z', p.Z},
		{'I', p.I}, {'J', p.J},
		{'R', p.R}, {'Q', p.Q},
		{'F', p.F},
	}
}

func (c Code) isDrill() bool {
	return c == G73 || c == G81 || c == G83
}

func (c Code) check(p Params) error {
	if c == "" || (c[0] != 'G' && c[0] != 'M') {
		return xerrors.Errorf("unknown instruction %q: %w", string(c), ErrParameter)
	}

	switch {
	case c == G0 || c == G1:
		if !p.X.IsSet() && !p.Y.IsSet() && !p.Z.IsSet() {
			return xerrors.Errorf("%s needs at least one of X, Y or Z: %w", c, ErrParameter)
		}
	case c == G2 || c == G3:
		if !p.I.IsSet() && !p.J.IsSet() {
			return xerrors.Errorf("%s needs a center offset I or J: %w", c, ErrParameter)
		}
	case c.isDrill():
		z, zok := p.Z.Float()
		r, rok := p.R.Float()
		if !zok || !rok {
			return xerrors.Errorf("%s needs both Z and R: %w", c, ErrParameter)
		}
		if r < z {
			return xerrors.Errorf("%s retract height R%s below depth Z%s: %w", c, FormatNumber(r), FormatNumber(z), ErrParameter)
		}
		if q, ok := p.Q.Float(); ok && c != G81 && q <= 0 {
			return xerrors.Errorf("%s increment Q%s must be strictly positive: %w", c, FormatNumber(q), ErrParameter)
		}
	}
	return nil
}

// Line renders one primitive without its line terminator: the code, a space,
// then every present field as <letter><value> followed by a space.
func Line(code Code, p Params) (string, error) {
	if err := code.check(p); err != nil {
		return "", err
	}

	var buf strings.Builder
	buf.WriteString(string(code))
	buf.WriteByte(' ')
	for _, field := range p.fields() {
		if v, ok := field.value.Float(); ok {
			buf.WriteByte(field.letter)
			buf.WriteString(FormatNumber(v))
			buf.WriteByte(' ')
		}
	}
	return buf.String(), nil
}

// Format renders one primitive including its line terminator.
func Format(code Code, p Params) (string, error) {
	line, err := Line(code, p)
	if err != nil {
		return "", err
	}
	return line + "\n", nil
}

// The helpers below render one primitive each as a terminated line, for
// callers emitting single instructions rather than whole blocks.

// Rapid renders a G0 move to the given position.
func Rapid(x, y, z Value) (string, error) {
	return Format(G0, Params{X: x, Y: y, Z: z})
}

// Feed renders a G1 move at feedrate f.
func Feed(x, y, z, f Value) (string, error) {
	return Format(G1, Params{X: x, Y: y, Z: z, F: f})
}

// ArcCW renders a clockwise G2 arc.
func ArcCW(p Params) (string, error) {
	return Format(G2, p)
}

// ArcCCW renders a counter-clockwise G3 arc.
func ArcCCW(p Params) (string, error) {
	return Format(G3, p)
}

// DrillSimple renders a G81 drill cycle. Z and R are required.
func DrillSimple(p Params) (string, error) {
	return Format(G81, p)
}

// DrillChipBreak renders a G73 chip-break cycle. Z and R are required and a
// given Q must be positive.
func DrillChipBreak(p Params) (string, error) {
	return Format(G73, p)
}

// DrillPeck renders a G83 peck cycle, with the same checks as DrillChipBreak.
func DrillPeck(p Params) (string, error) {
	return Format(G83, p)
}
