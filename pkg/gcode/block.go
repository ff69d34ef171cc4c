package gcode

import (
	"io"
	"strings"
)

// Block is an ordered sequence of program lines, stored without their line
// terminators.
type Block []string

// Add renders a primitive and appends it to the block. The block is left
// unchanged on error.
func (b *Block) Add(code Code, p Params) error {
	line, err := Line(code, p)
	if err != nil {
		return err
	}
	*b = append(*b, line)
	return nil
}

// Append appends the lines of other blocks.
func (b *Block) Append(others ...Block) {
	for _, other := range others {
		*b = append(*b, other...)
	}
}

// String returns the block as program text, one newline-terminated line per
// entry.
func (b Block) String() string {
	var buf strings.Builder
	for _, line := range b {
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	return buf.String()
}

// WriteTo writes the program text to w.
func (b Block) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, b.String())
	return int64(n), err
}

// Preamble returns the lines every program starts with.
func Preamble() Block {
	return Block{
		"G21", // millimeters
		"G17", // XY plane
		"G90", // absolute distances
		"G54", // first work coordinate system
		"G40", // cancel cutter radius compensation
		"G49", // cancel tool length offset
		"G61", // exact path mode
		"G94", // units per minute feed
	}
}

// Postamble returns the lines every program ends with.
func Postamble() Block {
	return Block{"M2"}
}

// Program wraps the given blocks with the preamble and postamble.
func Program(blocks ...Block) Block {
	program := Preamble()
	program.Append(blocks...)
	program.Append(Postamble())
	return program
}
