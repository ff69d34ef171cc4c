package gcode

import "strconv"

// Value is an optional number. The zero Value is unset; unset fields are left
// out of rendered lines entirely.
type Value struct {
	v   float64
	set bool
}

// V returns a set Value holding f.
func V(f float64) Value {
	return Value{v: f, set: true}
}

// Float returns the number and whether it is set.
func (v Value) Float() (float64, bool) {
	return v.v, v.set
}

func (v Value) IsSet() bool {
	return v.set
}

// Or returns v if it is set, otherwise def.
func (v Value) Or(def Value) Value {
	if v.set {
		return v
	}
	return def
}

func (v Value) String() string {
	if !v.set {
		return "unset"
	}
	return FormatNumber(v.v)
}

// UnmarshalYAML decodes a plain number. Keys absent from the document never
// reach this method and stay unset.
func (v *Value) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var f *float64
	if err := unmarshal(&f); err != nil {
		return err
	}
	if f == nil {
		*v = Value{}
		return nil
	}
	*v = V(*f)
	return nil
}

// FormatNumber renders n with the fewest digits that read back as n, never in
// exponent form. Negative zero renders as 0.
func FormatNumber(n float64) string {
	if n == 0 {
		n = 0
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}
