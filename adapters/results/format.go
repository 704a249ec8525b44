package results

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatVector renders ITPC values as a literal list, "[0.91, 0.5, nan]".
// Floats use the shortest representation that parses back exactly.
func FormatVector(values []float64) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range values {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(formatFloat(v))
	}
	b.WriteByte(']')
	return b.String()
}

func formatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".en") {
		s += ".0"
	}
	return s
}

// ParseVector reads a literal list written by FormatVector. A bare number
// is accepted as a one-element vector; "nan", "NaN" and "None" read as NaN.
func ParseVector(s string) ([]float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty ITPC value")
	}
	if !strings.HasPrefix(s, "[") {
		v, err := parseFloat(s)
		if err != nil {
			return nil, err
		}
		return []float64{v}, nil
	}
	if !strings.HasSuffix(s, "]") {
		return nil, fmt.Errorf("unterminated list %q", s)
	}

	inner := strings.TrimSpace(s[1 : len(s)-1])
	if inner == "" {
		return []float64{}, nil
	}
	fields := strings.Split(inner, ",")
	out := make([]float64, 0, len(fields))
	for i, field := range fields {
		v, err := parseFloat(field)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func parseFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "nan", "NaN", "None", "null":
		return math.NaN(), nil
	}
	return strconv.ParseFloat(s, 64)
}
