// Package complexval turns serialized Fourier coefficients into complex
// values and phase angles. Parsing never fails from the caller's point of
// view: malformed cells fall back to 0+0i with phase 0 and are counted.
package complexval

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync/atomic"

	"eegitpc/domain/eeg"
	"eegitpc/ports"
)

var (
	errNonFinite = errors.New("non-finite component")
	errShape     = errors.New("unexpected element count")
	errKind      = errors.New("unknown cell kind")
)

// Option configures a Parser
type Option func(*Parser)

// WithZeroPhaseForReals pins the phase of a bare real string to 0 whatever
// its sign. Negative reals then report phase 0 instead of pi.
func WithZeroPhaseForReals() Option {
	return func(p *Parser) { p.zeroPhaseReals = true }
}

// Parser converts eeg.Cell values. It is safe for concurrent use.
type Parser struct {
	logger         ports.Logger
	zeroPhaseReals bool
	failures       atomic.Int64
}

// NewParser creates a parser that reports fallbacks to logger
func NewParser(logger ports.Logger, opts ...Option) *Parser {
	p := &Parser{logger: logger}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse converts one cell. On any error it logs the offending input and
// returns the zero value with Failed set.
func (p *Parser) Parse(cell eeg.Cell) eeg.ParsedCell {
	v, phase, err := p.convert(cell)
	if err != nil {
		p.failures.Add(1)
		if p.logger != nil {
			p.logger.Warn("[ComplexParser] cannot parse %s cell %s: %v (using 0+0i)", cell.Kind, cell, err)
		}
		return eeg.ParsedCell{Failed: true}
	}
	return eeg.ParsedCell{Value: v, Phase: phase}
}

// ParseAll converts a row of cells, preserving order
func (p *Parser) ParseAll(cells []eeg.Cell) []eeg.ParsedCell {
	out := make([]eeg.ParsedCell, len(cells))
	for i, c := range cells {
		out[i] = p.Parse(c)
	}
	return out
}

// Failures returns how many cells fell back since creation or the last Reset
func (p *Parser) Failures() int64 {
	return p.failures.Load()
}

// Reset zeroes the failure counter
func (p *Parser) Reset() {
	p.failures.Store(0)
}

func (p *Parser) convert(cell eeg.Cell) (complex128, float64, error) {
	switch cell.Kind {
	case eeg.KindNative:
		return fromComplex(cell.Complex)
	case eeg.KindPair:
		return fromPair(cell.Parts)
	case eeg.KindSingle:
		if len(cell.Parts) != 1 {
			return 0, 0, fmt.Errorf("%w: single cell has %d elements", errShape, len(cell.Parts))
		}
		return p.fromText(cell.Parts[0])
	case eeg.KindText:
		return p.fromText(cell.Text)
	case eeg.KindNumber:
		return fromComplex(complex(cell.Number, 0))
	default:
		return 0, 0, errKind
	}
}

func fromComplex(c complex128) (complex128, float64, error) {
	if !finite(c) {
		return 0, 0, errNonFinite
	}
	return c, Phase(c), nil
}

func fromPair(parts []string) (complex128, float64, error) {
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: pair cell has %d elements", errShape, len(parts))
	}
	re, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("real part: %w", err)
	}
	imText := strings.TrimRight(strings.TrimSpace(parts[1]), "ij")
	im, err := strconv.ParseFloat(imText, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("imaginary part: %w", err)
	}
	return fromComplex(complex(re, im))
}

func (p *Parser) fromText(raw string) (complex128, float64, error) {
	s := strings.TrimSpace(strings.Trim(strings.TrimSpace(raw), `'"[]`))
	if strings.ContainsAny(s, "ij") {
		c, err := strconv.ParseComplex(strings.ReplaceAll(s, "j", "i"), 128)
		if err != nil {
			return 0, 0, err
		}
		return fromComplex(c)
	}

	re, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, 0, err
	}
	c := complex(re, 0)
	if !finite(c) {
		return 0, 0, errNonFinite
	}
	if p.zeroPhaseReals {
		return c, 0, nil
	}
	return c, Phase(c), nil
}

// Phase is the four-quadrant argument of c in (-pi, pi]. Zero maps to 0
// regardless of signed zeros, and -pi folds onto pi.
func Phase(c complex128) float64 {
	re, im := real(c), imag(c)
	if re == 0 && im == 0 {
		return 0
	}
	theta := math.Atan2(im, re)
	if theta <= -math.Pi {
		return math.Pi
	}
	return theta
}

func finite(c complex128) bool {
	re, im := real(c), imag(c)
	return !math.IsNaN(re) && !math.IsNaN(im) && !math.IsInf(re, 0) && !math.IsInf(im, 0)
}
