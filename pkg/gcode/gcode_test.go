package gcode_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"millgen/pkg/gcode"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name   string
		code   gcode.Code
		params gcode.Params
		want   string
	}{
		{"rapid", gcode.G0, gcode.Params{X: gcode.V(1), Y: gcode.V(2), Z: gcode.V(3)}, "G0 X1 Y2 Z3 \n"},
		{"rapid z only", gcode.G0, gcode.Params{Z: gcode.V(10)}, "G0 Z10 \n"},
		{"feed", gcode.G1, gcode.Params{X: gcode.V(-28), F: gcode.V(640)}, "G1 X-28 F640 \n"},
		{"feed fraction", gcode.G1, gcode.Params{Y: gcode.V(0.1 + 0.2), F: gcode.V(12.5)}, "G1 Y0.30000000000000004 F12.5 \n"},
		{"negative zero", gcode.G1, gcode.Params{X: gcode.V(negZero()), Z: gcode.V(0)}, "G1 X0 Z0 \n"},
		{"helix cw", gcode.G2, gcode.Params{Z: gcode.V(-1), I: gcode.V(2), J: gcode.V(0), F: gcode.V(100)}, "G2 Z-1 I2 J0 F100 \n"},
		{"arc ccw", gcode.G3, gcode.Params{X: gcode.V(5), Y: gcode.V(3), I: gcode.V(0), J: gcode.V(6)}, "G3 X5 Y3 I0 J6 \n"},
		{"arc j only", gcode.G2, gcode.Params{J: gcode.V(-4)}, "G2 J-4 \n"},
		{"simple drill", gcode.G81, gcode.Params{X: gcode.V(1), Z: gcode.V(3), R: gcode.V(4)}, "G81 G98 X1 Z3 R4 \n"},
		{"chip break", gcode.G73, gcode.Params{X: gcode.V(1), Z: gcode.V(3), R: gcode.V(4), Q: gcode.V(1)}, "G73 G98 X1 Z3 R4 Q1 \n"},
		{"peck", gcode.G83, gcode.Params{X: gcode.V(1), Z: gcode.V(3), R: gcode.V(4), Q: gcode.V(1)}, "G83 G98 X1 Z3 R4 Q1 \n"},
		{"peck without increment", gcode.G83, gcode.Params{Z: gcode.V(-4), R: gcode.V(10), F: gcode.V(200)}, "G83 G98 Z-4 R10 F200 \n"},
		{"retract equals depth", gcode.G81, gcode.Params{Z: gcode.V(2), R: gcode.V(2)}, "G81 G98 Z2 R2 \n"},
		{"program end", gcode.Code("M2"), gcode.Params{}, "M2 \n"},
	}
	for _, test := range tests {
		got, err := gcode.Format(test.code, test.params)
		if err != nil {
			t.Errorf("test %s: unexpected error: %s", test.name, err)
			continue
		}
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("test %s: incorrect output: %s", test.name, diff)
		}
	}
}

func negZero() float64 {
	zero := 0.0
	return -zero
}

func TestFormatErrors(t *testing.T) {
	tests := []struct {
		name   string
		code   gcode.Code
		params gcode.Params
	}{
		{"rapid without position", gcode.G0, gcode.Params{}},
		{"feed with only feedrate", gcode.G1, gcode.Params{F: gcode.V(100)}},
		{"cw arc without offsets", gcode.G2, gcode.Params{X: gcode.V(1), Y: gcode.V(1), Z: gcode.V(-1)}},
		{"ccw arc without offsets", gcode.G3, gcode.Params{X: gcode.V(1)}},
		{"simple drill without retract", gcode.G81, gcode.Params{X: gcode.V(1), Y: gcode.V(2), Z: gcode.V(3)}},
		{"simple drill without depth", gcode.G81, gcode.Params{R: gcode.V(3)}},
		{"retract below depth", gcode.G81, gcode.Params{Z: gcode.V(3), R: gcode.V(2)}},
		{"chip break negative increment", gcode.G73, gcode.Params{X: gcode.V(1), Y: gcode.V(2), Z: gcode.V(3), R: gcode.V(4), Q: gcode.V(-1)}},
		{"peck zero increment", gcode.G83, gcode.Params{Z: gcode.V(-3), R: gcode.V(4), Q: gcode.V(0)}},
		{"peck without depth", gcode.G83, gcode.Params{X: gcode.V(1), Y: gcode.V(2), R: gcode.V(4), Q: gcode.V(1)}},
		{"unknown instruction", gcode.Code("A0"), gcode.Params{X: gcode.V(1)}},
		{"empty instruction", gcode.Code(""), gcode.Params{X: gcode.V(1)}},
	}
	for _, test := range tests {
		got, err := gcode.Format(test.code, test.params)
		if !errors.Is(err, gcode.ErrParameter) {
			t.Errorf("test %s: got (%q, %v), want ErrParameter", test.name, got, err)
		}
		if got != "" {
			t.Errorf("test %s: rendered %q on error", test.name, got)
		}
	}
}

// Every set field appears exactly once, unset fields never appear.
func TestFormatOmission(t *testing.T) {
	letters := []string{"X", "Y", "Z", "I", "J", "R", "Q", "F"}
	for mask := 1; mask < 1<<len(letters); mask++ {
		var p gcode.Params
		fields := []*gcode.Value{&p.X, &p.Y, &p.Z, &p.I, &p.J, &p.R, &p.Q, &p.F}
		var want []string
		for i, field := range fields {
			if mask&(1<<i) != 0 {
				*field = gcode.V(float64(i + 1))
				want = append(want, letters[i]+gcode.FormatNumber(float64(i+1)))
			}
		}
		line, err := gcode.Line(gcode.Code("M100"), p)
		if err != nil {
			t.Fatalf("mask %b: unexpected error: %s", mask, err)
		}
		got := strings.Fields(line)[1:]
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("mask %b: incorrect fields: %s", mask, diff)
		}
	}
}

func TestHelpers(t *testing.T) {
	rapid, err := gcode.Rapid(gcode.V(0), gcode.V(0), gcode.V(10))
	if err != nil || rapid != "G0 X0 Y0 Z10 \n" {
		t.Errorf("Rapid = %q, %v", rapid, err)
	}
	feed, err := gcode.Feed(gcode.Value{}, gcode.Value{}, gcode.V(-1), gcode.V(200))
	if err != nil || feed != "G1 Z-1 F200 \n" {
		t.Errorf("Feed = %q, %v", feed, err)
	}
	if _, err := gcode.Feed(gcode.Value{}, gcode.Value{}, gcode.Value{}, gcode.V(200)); !errors.Is(err, gcode.ErrParameter) {
		t.Errorf("Feed without position: got %v, want ErrParameter", err)
	}
	cw, err := gcode.ArcCW(gcode.Params{I: gcode.V(1)})
	if err != nil || cw != "G2 I1 \n" {
		t.Errorf("ArcCW = %q, %v", cw, err)
	}
	ccw, err := gcode.ArcCCW(gcode.Params{J: gcode.V(1)})
	if err != nil || ccw != "G3 J1 \n" {
		t.Errorf("ArcCCW = %q, %v", ccw, err)
	}
	drill, err := gcode.DrillSimple(gcode.Params{Z: gcode.V(-4), R: gcode.V(10), F: gcode.V(200)})
	if err != nil || drill != "G81 G98 Z-4 R10 F200 \n" {
		t.Errorf("DrillSimple = %q, %v", drill, err)
	}
	chip, err := gcode.DrillChipBreak(gcode.Params{Z: gcode.V(-4), R: gcode.V(10), Q: gcode.V(0.5)})
	if err != nil || chip != "G73 G98 Z-4 R10 Q0.5 \n" {
		t.Errorf("DrillChipBreak = %q, %v", chip, err)
	}
	peck, err := gcode.DrillPeck(gcode.Params{Z: gcode.V(-4), R: gcode.V(10), Q: gcode.V(0.5)})
	if err != nil || peck != "G83 G98 Z-4 R10 Q0.5 \n" {
		t.Errorf("DrillPeck = %q, %v", peck, err)
	}
}

func TestBlock(t *testing.T) {
	var b gcode.Block
	if err := b.Add(gcode.G0, gcode.Params{Z: gcode.V(10)}); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if err := b.Add(gcode.G1, gcode.Params{}); !errors.Is(err, gcode.ErrParameter) {
		t.Fatalf("got %v, want ErrParameter", err)
	}
	if err := b.Add(gcode.G1, gcode.Params{X: gcode.V(1.5), F: gcode.V(300)}); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if diff := cmp.Diff("G0 Z10 \nG1 X1.5 F300 \n", b.String()); diff != "" {
		t.Errorf("incorrect output: %s", diff)
	}

	var out strings.Builder
	n, err := b.WriteTo(&out)
	if err != nil || n != int64(len(b.String())) || out.String() != b.String() {
		t.Errorf("WriteTo = %d, %v, wrote %q", n, err, out.String())
	}
}

func TestProgram(t *testing.T) {
	want := "G21\nG17\nG90\nG54\nG40\nG49\nG61\nG94\nG0 Z10 \nM2\n"
	got := gcode.Program(gcode.Block{"G0 Z10 "}).String()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("incorrect output: %s", diff)
	}
	if diff := cmp.Diff("M2\n", gcode.Postamble().String()); diff != "" {
		t.Errorf("incorrect postamble: %s", diff)
	}
}
