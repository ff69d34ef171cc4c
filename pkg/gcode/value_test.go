package gcode

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v2"
)

func TestValueYAML(t *testing.T) {
	var doc struct {
		A Value `yaml:"a"`
		B Value `yaml:"b"`
		C Value `yaml:"c"`
		D Value `yaml:"d"`
	}
	if err := yaml.Unmarshal([]byte("a: 1.5\nb: -8\nd: ~\n"), &doc); err != nil {
		t.Fatalf("unmarshal error: %s", err)
	}
	got := []string{doc.A.String(), doc.B.String(), doc.C.String(), doc.D.String()}
	want := []string{"1.5", "-8", "unset", "unset"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("incorrect values: %s", diff)
	}

	if err := yaml.Unmarshal([]byte("a: deep\n"), &doc); err == nil {
		t.Errorf("expected an error decoding a non-number")
	}
}

func TestValueOr(t *testing.T) {
	if got := (Value{}).Or(V(3)); got != V(3) {
		t.Errorf("unset Or = %v, want 3", got)
	}
	if got := V(0).Or(V(3)); got != V(0) {
		t.Errorf("set Or = %v, want 0", got)
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		n    float64
		want string
	}{
		{0, "0"},
		{-28, "-28"},
		{640, "640"},
		{0.5, "0.5"},
		{-1.25, "-1.25"},
		{1e-7, "0.0000001"},
	}
	for _, test := range tests {
		if got := FormatNumber(test.n); got != test.want {
			t.Errorf("FormatNumber(%v) = %q, want %q", test.n, got, test.want)
		}
	}
}
