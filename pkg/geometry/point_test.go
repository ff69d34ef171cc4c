package geometry

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPointArithmetic(t *testing.T) {
	a, b := Pt(1, 2), Pt(-4, 0.5)
	if diff := cmp.Diff(Pt(-3, 2.5), a.Add(b)); diff != "" {
		t.Errorf("Add incorrect output: %s", diff)
	}
	if diff := cmp.Diff(Pt(5, 1.5), a.Minus(b)); diff != "" {
		t.Errorf("Minus incorrect output: %s", diff)
	}
	if diff := cmp.Diff(Pt(11, -18), a.Offset(10, -20)); diff != "" {
		t.Errorf("Offset incorrect output: %s", diff)
	}
	if diff := cmp.Diff(Pt(1, 2), a); diff != "" {
		t.Errorf("receiver was modified: %s", diff)
	}
}

func TestRotate(t *testing.T) {
	tests := []struct {
		p, center Point
		degs      float64
		want      Point
	}{
		// positive angles turn clockwise
		{Pt(1, 0), Pt(0, 0), 90, Pt(0, -1)},
		{Pt(0, 1), Pt(0, 0), 90, Pt(1, 0)},
		{Pt(1, 0), Pt(0, 0), -90, Pt(0, 1)},
		{Pt(1, 0), Pt(0, 0), 180, Pt(-1, 0)},
		{Pt(3, 2), Pt(2, 2), 90, Pt(2, 1)},
		{Pt(12, 5), Pt(10, 5), 45, Pt(11.414213562, 3.585786438)},
		{Pt(7, -3), Pt(7, -3), 33, Pt(7, -3)},
		{Pt(4, 4), Pt(1, 1), 0, Pt(4, 4)},
	}
	for i, test := range tests {
		got := test.p.Rotate(test.center, test.degs)
		if diff := cmp.Diff(test.want, got, approx); diff != "" {
			t.Errorf("Test %d - %v.Rotate(%v, %g) incorrect output: %s", i, test.p, test.center, test.degs, diff)
		}
	}
}

func TestRotateOrigin(t *testing.T) {
	got := Pt(1, 0).RotateOrigin(90)
	if diff := cmp.Diff(Pt(0, 1), got, approx); diff != "" {
		t.Errorf("RotateOrigin incorrect output: %s", diff)
	}
	// RotateOrigin and Rotate about the origin turn in opposite directions.
	back := Pt(2, 5).RotateOrigin(30).Rotate(Pt(0, 0), 30)
	if diff := cmp.Diff(Pt(2, 5), back, approx); diff != "" {
		t.Errorf("round trip incorrect output: %s", diff)
	}
}
