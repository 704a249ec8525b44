package eeg

import (
	"fmt"
	"strings"
)

// CellKind tags which serialized representation a coefficient cell arrived in
type CellKind int

const (
	// KindNative is a complex value already in canonical form
	KindNative CellKind = iota
	// KindPair is (real, imaginary-with-unit-suffix) as two elements
	KindPair
	// KindSingle is a one-element sequence wrapping a string
	KindSingle
	// KindText is a free-form string such as "1.5-0.2i" or "'[3.1]'"
	KindText
	// KindNumber is a plain real number
	KindNumber
)

func (k CellKind) String() string {
	switch k {
	case KindNative:
		return "native"
	case KindPair:
		return "pair"
	case KindSingle:
		return "single"
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Cell is one serialized complex Fourier coefficient. Only the fields
// belonging to Kind are meaningful.
type Cell struct {
	Kind    CellKind
	Complex complex128
	Number  float64
	Text    string
	Parts   []string
}

// NativeCell wraps an already-parsed complex value
func NativeCell(c complex128) Cell { return Cell{Kind: KindNative, Complex: c} }

// PairCell holds real and imaginary parts as serialized strings
func PairCell(re, im string) Cell { return Cell{Kind: KindPair, Parts: []string{re, im}} }

// SingleCell holds a one-element sequence
func SingleCell(s string) Cell { return Cell{Kind: KindSingle, Parts: []string{s}} }

// TextCell holds a raw string
func TextCell(s string) Cell { return Cell{Kind: KindText, Text: s} }

// NumberCell holds a plain real number
func NumberCell(f float64) Cell { return Cell{Kind: KindNumber, Number: f} }

// CellFromText classifies raw table text. A bracketed list literal with one
// or two elements becomes a Single or Pair cell; anything else stays Text.
func CellFromText(raw string) Cell {
	s := strings.TrimSpace(raw)
	if len(s) >= 2 && s[0] == '[' && s[len(s)-1] == ']' {
		inner := strings.TrimSpace(s[1 : len(s)-1])
		if inner != "" && strings.Contains(inner, ",") {
			parts := strings.Split(inner, ",")
			if len(parts) == 2 {
				return PairCell(unquote(parts[0]), unquote(parts[1]))
			}
		} else if inner != "" {
			return SingleCell(unquote(inner))
		}
	}
	return TextCell(raw)
}

func unquote(s string) string {
	return strings.Trim(strings.TrimSpace(s), `'"`)
}

// String renders the cell for log lines
func (c Cell) String() string {
	switch c.Kind {
	case KindNative:
		return fmt.Sprintf("%v", c.Complex)
	case KindPair, KindSingle:
		return fmt.Sprintf("%q", c.Parts)
	case KindText:
		return fmt.Sprintf("%q", c.Text)
	case KindNumber:
		return fmt.Sprintf("%g", c.Number)
	default:
		return "<invalid cell>"
	}
}
