// Package svgpath reads SVG path data into polylines that a tool can follow.
//
// Straight segments (M, L, H, V, Z and their relative forms) are kept as-is.
// Cubic curves (C, c) are flattened into CurveSegments straight segments.
package svgpath

import (
	"fmt"
	"math"
	"strconv"

	"golang.org/x/xerrors"

	"millgen/pkg/geometry"
)

// svg-path:
//     wsp* moveto-drawto-command-groups? wsp*
// moveto-drawto-command-group:
//     moveto wsp* drawto-commands?
// drawto-command:
//     closepath | lineto | horizontal-lineto | vertical-lineto | curveto
// moveto:
//     ( "M" | "m" ) wsp* coordinate-pair (comma-wsp? coordinate-pair)*
// closepath:
//     ("Z" | "z")
// lineto:
//     ( "L" | "l" ) wsp* coordinate-pair (comma-wsp? coordinate-pair)*
// horizontal-lineto:
//     ( "H" | "h" ) wsp* coordinate (comma-wsp? coordinate)*
// vertical-lineto:
//     ( "V" | "v" ) wsp* coordinate (comma-wsp? coordinate)*
// curveto:
//     ( "C" | "c" ) wsp* curveto-argument (comma-wsp? curveto-argument)*
// curveto-argument:
//     coordinate-pair comma-wsp? coordinate-pair comma-wsp? coordinate-pair
// coordinate-pair:
//     coordinate comma-wsp? coordinate
// number:
//     sign? (digit-sequence | fractional-constant) exponent?
// fractional-constant:
//     digit-sequence? "." digit-sequence
//     | digit-sequence "."
// exponent:
//     ( "e" | "E" ) sign? digit-sequence
// comma-wsp:
//     (wsp+ comma? wsp*) | (comma wsp*)
// wsp:
//     (#x20 | #x9 | #xD | #xA)

// ErrSyntax reports malformed path data.
var ErrSyntax = xerrors.New("invalid path data")

// CurveSegments is the number of straight segments a cubic curve is
// flattened into.
const CurveSegments = 16

type state struct {
	data      string
	index     int
	polylines []geometry.Polyline
	start     geometry.Point
	current   geometry.Point
	open      bool
	relative  bool
}

func (s *state) parse() error {
	for {
		s.whitespace()

		c := s.peek()
		if c != 'M' && c != 'm' {
			break
		}

		err := s.parseMoveTo()
		if err != nil {
			return err
		}
		s.whitespace()
		err = s.parseDrawToCommands()
		if err != nil {
			return err
		}
	}

	s.whitespace()

	if s.index != len(s.data) {
		return fmt.Errorf("unparsed data: %q", s.data[s.index:])
	}

	return nil
}

// parseMoveTo parses one move to command
func (s *state) parseMoveTo() error {
	command := s.next()
	if command != 'M' && command != 'm' {
		return fmt.Errorf("expected \"M\" or \"m\", got %q", string(command))
	}
	s.relative = command == 'm'
	s.whitespace()

	pt, err := s.parseCoordinatePair()
	if err != nil {
		return err
	}
	if s.relative {
		pt = pt.Add(s.current)
	}
	s.current = pt

	// The move to command starts a new polyline
	s.open = false
	s.ensurePolyline()

	// The Move To can be followed directly by more coordinate pairs as implicit Line To sequences.
	for {
		savedIndex := s.index
		s.commaWhitespace()
		pt, err := s.parseCoordinatePair()
		if err != nil {
			// backtrack.
			s.index = savedIndex
			break
		}
		s.lineTo(pt)
	}

	return nil
}

// ensurePolyline starts a new polyline at the current point if there isn't
// already one.
func (s *state) ensurePolyline() {
	if !s.open {
		s.start = s.current
		s.polylines = append(s.polylines, geometry.Polyline{s.current})
		s.open = true
	}
}

// lineTo extends the open polyline to pt, which is relative to the current
// point in relative mode.
func (s *state) lineTo(pt geometry.Point) {
	if s.relative {
		pt = pt.Add(s.current)
	}
	last := len(s.polylines) - 1
	s.polylines[last] = append(s.polylines[last], pt)
	s.current = pt
}

// parseCoordinatePair parses "coordinate comma-wsp? coordinate"
func (s *state) parseCoordinatePair() (geometry.Point, error) {
	x, err := s.parseNumber()
	if err != nil {
		return geometry.Point{}, err
	}
	s.commaWhitespace()
	y, err := s.parseNumber()
	if err != nil {
		return geometry.Point{}, err
	}
	return geometry.Pt(x, y), nil
}

// parseNumber parses a number
func (s *state) parseNumber() (float64, error) {
	c := s.peek()
	if c == '+' || c == '-' {
		s.next()
		n, err := s.parseNonNegativeNumber()
		if c == '-' {
			n = -n
		}
		return n, err
	}
	return s.parseNonNegativeNumber()
}

func (s *state) parseNonNegativeNumber() (float64, error) {
	number := s.digitSequence()
	if number == "" {
		// Possible fractional constant starting with a decimal point
		c := s.next()
		if c != '.' {
			return 0, fmt.Errorf("expected a number, got %q", string(c))
		}
		number = "." + s.digitSequence()
		if number == "." {
			return 0, fmt.Errorf("expected a number, got only a \".\"")
		}
	} else {
		// Check for possible fractional constant
		c := s.peek()
		if c == '.' {
			s.next()
			number += "." + s.digitSequence()
		}
	}

	// Check for possible exponent
	c := s.peek()
	if c == 'E' || c == 'e' {
		s.next()
		sign := ""
		c = s.peek()
		if c == '+' || c == '-' {
			s.next()
			sign = string(c)
		}
		exponent := s.digitSequence()
		if exponent == "" {
			return 0, fmt.Errorf("expected an exponent, got %q", string(c))
		}
		number += "E" + sign + exponent
	}

	n, err := strconv.ParseFloat(number, 64)
	if err != nil {
		return 0, err
	}
	if math.IsInf(n, 0) {
		return 0, fmt.Errorf("number %s out of range", number)
	}
	return n, nil
}

func (s *state) digitSequence() string {
	start := s.index
	for {
		c := s.peek()
		if '0' <= c && c <= '9' {
			s.next()
		} else {
			break
		}
	}
	return s.data[start:s.index]
}

// parseDrawToCommands parses 0 or more Draw To commands.
func (s *state) parseDrawToCommands() error {
	first := true
	for {
		if !first {
			s.whitespace()
		}
		first = false

		var err error

		c := s.peek()
		switch c {
		case 'L', 'l':
			err = s.parseLineTo()
		case 'H', 'h':
			err = s.parseAxisLineTo('H', func(n float64) geometry.Point {
				if s.relative {
					return geometry.Pt(n, 0)
				}
				return geometry.Pt(n, s.current.Y)
			})
		case 'V', 'v':
			err = s.parseAxisLineTo('V', func(n float64) geometry.Point {
				if s.relative {
					return geometry.Pt(0, n)
				}
				return geometry.Pt(s.current.X, n)
			})
		case 'C', 'c':
			err = s.parseCurveTo()
		case 'Z', 'z':
			s.parseClosePath()
		default:
			return nil
		}

		if err != nil {
			return err
		}
	}
}

// parseClosePath draws back to the start of the polyline. The next draw
// command starts a new polyline from there.
func (s *state) parseClosePath() {
	s.next()
	s.relative = false
	s.ensurePolyline()
	s.lineTo(s.start)
	s.open = false
}

func (s *state) parseLineTo() error {
	c := s.next()
	s.relative = c == 'l'

	s.whitespace()

	s.ensurePolyline()

	first := true
	for {
		oldIndex := s.index
		if !first {
			s.commaWhitespace()
		}

		pt, err := s.parseCoordinatePair()
		if err != nil {
			if !first {
				s.index = oldIndex
				return nil
			}
			return err
		}
		s.lineTo(pt)

		first = false
	}
}

// parseAxisLineTo parses an H or V command; point maps each coordinate to
// the point to draw to.
func (s *state) parseAxisLineTo(command byte, point func(float64) geometry.Point) error {
	c := s.next()
	s.relative = c != command

	s.whitespace()

	s.ensurePolyline()

	first := true
	for {
		oldIndex := s.index
		if !first {
			s.commaWhitespace()
		}

		n, err := s.parseNumber()
		if err != nil {
			if !first {
				s.index = oldIndex
				return nil
			}
			return err
		}
		s.lineTo(point(n))

		first = false
	}
}

func (s *state) parseCurveTo() error {
	c := s.next()
	relative := c == 'c'

	s.whitespace()

	s.ensurePolyline()

	first := true
	for {
		oldIndex := s.index
		if !first {
			s.commaWhitespace()
		}

		c1, err := s.parseCoordinatePair()
		if err != nil {
			if !first {
				s.index = oldIndex
				return nil
			}
			return err
		}

		s.commaWhitespace()
		c2, err := s.parseCoordinatePair()
		if err != nil {
			return err
		}

		s.commaWhitespace()
		end, err := s.parseCoordinatePair()
		if err != nil {
			return err
		}

		if relative {
			c1 = c1.Add(s.current)
			c2 = c2.Add(s.current)
			end = end.Add(s.current)
		}
		s.relative = false
		for _, pt := range flatten(s.current, c1, c2, end) {
			s.lineTo(pt)
		}

		first = false
	}
}

// flatten returns CurveSegments points along the cubic Bézier curve from p0
// to p3, excluding p0 and ending exactly on p3.
func flatten(p0, p1, p2, p3 geometry.Point) []geometry.Point {
	points := make([]geometry.Point, 0, CurveSegments)
	for i := 1; i < CurveSegments; i++ {
		t := float64(i) / CurveSegments
		u := 1 - t
		points = append(points, p0.Scale(u*u*u).
			Add(p1.Scale(3*u*u*t)).
			Add(p2.Scale(3*u*t*t)).
			Add(p3.Scale(t*t*t)))
	}
	return append(points, p3)
}

// whitespace consumes "wsp*", and returns the number of bytes consumed
func (s *state) whitespace() int {
	count := 0
	for {
		switch s.peek() {
		case ' ', '\t', '\n', '\r':
			s.next()
			count++
		default:
			return count
		}
	}
}

// commaWhitespace consumes an optional "(wsp+ comma? wsp*) | (comma wsp*)",
// and returns true if something was consumed
func (s *state) commaWhitespace() bool {
	if s.peek() == ',' {
		s.next()
		s.whitespace()
		return true
	}

	consumed := s.whitespace()
	if consumed > 0 {
		if s.peek() == ',' {
			s.next()
		}
		s.whitespace()
		return true
	}

	return false
}

// peek returns the next byte without consuming it, or 0 if at the end of stream
func (s *state) peek() byte {
	if s.index < len(s.data) {
		return s.data[s.index]
	}
	return 0
}

// next consumes and returns the next byte, or 0 if at the end of stream
func (s *state) next() byte {
	if s.index < len(s.data) {
		i := s.index
		s.index++
		return s.data[i]
	}
	return 0
}

// Parse parses path data into one polyline per sub path. A closed sub path
// ends on its first point.
func Parse(path string) ([]geometry.Polyline, error) {
	s := &state{data: path}
	if err := s.parse(); err != nil {
		return nil, xerrors.Errorf("%w at offset %d: %v", ErrSyntax, s.index, err)
	}
	return s.polylines, nil
}
