package svgpath

import (
	"fmt"
	"math"

	"golang.org/x/xerrors"

	"millgen/pkg/geometry"
)

// Matrix is an SVG affine transform:
//
//	⎡ A  C  E ⎤
//	⎢ B  D  F ⎥
//	⎣ 0  0  1 ⎦
type Matrix struct {
	A float64
	B float64
	C float64
	D float64
	E float64
	F float64
}

// Identity leaves points unchanged.
var Identity = Matrix{A: 1, D: 1}

// ParseTransform parses an SVG transform list made of matrix, translate,
// scale and rotate functions, applied right to left as in SVG.
func ParseTransform(transform string) (Matrix, error) {
	m := Identity
	s := &state{data: transform}
	s.whitespace()
	if s.peek() == 0 {
		return m, nil
	}

	functions, err := s.parseFunctions()
	if err != nil {
		return m, xerrors.Errorf("%w: transform at offset %d: %v", ErrSyntax, s.index, err)
	}

	for _, function := range functions {
		next, err := function.matrix()
		if err != nil {
			return Identity, xerrors.Errorf("%w: %v", ErrSyntax, err)
		}
		m = m.Multiply(next)
	}
	return m, nil
}

type function struct {
	name string
	args []float64
}

func (f function) matrix() (Matrix, error) {
	switch f.name {
	case "matrix":
		if len(f.args) != 6 {
			return Matrix{}, fmt.Errorf("6 args required for matrix transform, got %v", f.args)
		}
		return Matrix{
			A: f.args[0], C: f.args[2], E: f.args[4],
			B: f.args[1], D: f.args[3], F: f.args[5],
		}, nil
	case "translate":
		if len(f.args) != 2 && len(f.args) != 1 {
			return Matrix{}, fmt.Errorf("1 or 2 args required for translate transform, got %v", f.args)
		}
		x := f.args[0]
		y := 0.0
		if len(f.args) == 2 {
			y = f.args[1]
		}
		return Matrix{
			A: 1, C: 0, E: x,
			B: 0, D: 1, F: y,
		}, nil
	case "scale":
		if len(f.args) != 2 && len(f.args) != 1 {
			return Matrix{}, fmt.Errorf("1 or 2 args required for scale transform, got %v", f.args)
		}
		x := f.args[0]
		y := x
		if len(f.args) == 2 {
			y = f.args[1]
		}
		return Matrix{
			A: x, C: 0, E: 0,
			B: 0, D: y, F: 0,
		}, nil
	case "rotate":
		//  ⎡ cos(θ)  −sin(θ)  −x⋅cos(θ)+y⋅sin(θ)+x ⎤
		//  ⎢ sin(θ)   cos(θ)  −x⋅sin(θ)−y⋅cos(θ)+y |
		//  ⎣   0        0               1          ⎦
		if len(f.args) != 3 && len(f.args) != 1 {
			return Matrix{}, fmt.Errorf("1 or 3 args required for rotate transform, got %v", f.args)
		}
		sin, cos := math.Sincos(f.args[0] * math.Pi / 180)
		var x, y float64
		if len(f.args) == 3 {
			x, y = f.args[1], f.args[2]
		}
		return Matrix{
			A: cos, C: -sin, E: -x*cos + y*sin + x,
			B: sin, D: cos, F: -x*sin - y*cos + y,
		}, nil
	}
	return Matrix{}, fmt.Errorf("unknown transform function %q %v", f.name, f.args)
}

func (s *state) parseFunctions() ([]function, error) {
	var functions []function
	// (wsp* identifier wsp* "(" wsp* number (comma-wsp number)* wsp* ")" wsp*)*
	for {
		var f function

		// identifier
		s.whitespace()
		c := s.next()
		if !isLetter(c) {
			return functions, fmt.Errorf("identifier must start with a letter, got %q", string(c))
		}
		f.name += string(c)
		for {
			c := s.peek()
			if isLetter(c) || ('0' <= c && c <= '9') || (c == '_') || (c == '-') {
				f.name += string(s.next())
			} else {
				break
			}
		}

		// Open parenthesis
		s.whitespace()
		c = s.next()
		if c != '(' {
			return functions, fmt.Errorf("expected \"(\", got %q", string(c))
		}

		// First argument (optional)
		s.whitespace()
		oldIndex := s.index
		n, err := s.parseNumber()
		if err != nil {
			s.index = oldIndex
		} else {
			f.args = append(f.args, n)
			// Remaining arguments
			for {
				oldIndex = s.index
				s.commaWhitespace()
				n, err = s.parseNumber()
				if err != nil {
					s.index = oldIndex
					break
				}
				f.args = append(f.args, n)
			}
		}

		// Close parenthesis
		s.whitespace()
		c = s.next()
		if c != ')' {
			return functions, fmt.Errorf("expected \")\", got %q", string(c))
		}
		functions = append(functions, f)

		// Functions may be separated by commas too.
		s.commaWhitespace()

		if s.peek() == 0 {
			return functions, nil
		}
	}
}

func isLetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func (m Matrix) Multiply(other Matrix) Matrix {
	return Matrix{
		A: m.A*other.A + m.C*other.B,
		B: m.B*other.A + m.D*other.B,
		C: m.A*other.C + m.C*other.D,
		D: m.B*other.C + m.D*other.D,
		E: m.A*other.E + m.C*other.F + m.E,
		F: m.B*other.E + m.D*other.F + m.F,
	}
}

func (m Matrix) TransformPoint(p geometry.Point) geometry.Point {
	return geometry.Point{
		X: m.A*p.X + m.C*p.Y + m.E,
		Y: m.B*p.X + m.D*p.Y + m.F,
	}
}

// TransformPaths returns transformed copies of the polylines.
func (m Matrix) TransformPaths(polylines []geometry.Polyline) []geometry.Polyline {
	out := make([]geometry.Polyline, len(polylines))
	for i, polyline := range polylines {
		out[i] = make(geometry.Polyline, len(polyline))
		for j, p := range polyline {
			out[i][j] = m.TransformPoint(p)
		}
	}
	return out
}
