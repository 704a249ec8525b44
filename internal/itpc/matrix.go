package itpc

import (
	"fmt"

	"eegitpc/domain/core"
	"eegitpc/domain/eeg"

	"gonum.org/v1/gonum/mat"
)

// PhaseMatrix is trials x frequencies of phase angles in radians. gonum
// refuses zero-sized dense matrices, so an empty bucket keeps data nil.
type PhaseMatrix struct {
	trials, freqs int
	data          *mat.Dense
}

// NewPhaseMatrix allocates a zeroed matrix
func NewPhaseMatrix(trials, freqs int) *PhaseMatrix {
	m := &PhaseMatrix{trials: trials, freqs: freqs}
	if trials > 0 && freqs > 0 {
		m.data = mat.NewDense(trials, freqs, nil)
	}
	return m
}

// PhaseMatrixFromRows copies equal-length rows into a matrix
func PhaseMatrixFromRows(freqs int, rows [][]float64) (*PhaseMatrix, error) {
	m := NewPhaseMatrix(len(rows), freqs)
	for i, row := range rows {
		if len(row) != freqs {
			return nil, fmt.Errorf("%w: row %d has %d phases, want %d", core.ErrShape, i, len(row), freqs)
		}
		for j, v := range row {
			m.data.Set(i, j, v)
		}
	}
	return m, nil
}

// Dims returns (trials, frequencies)
func (m *PhaseMatrix) Dims() (int, int) { return m.trials, m.freqs }

// Empty reports whether there are no trials
func (m *PhaseMatrix) Empty() bool { return m.trials == 0 }

// At returns the phase of trial i at frequency j
func (m *PhaseMatrix) At(i, j int) float64 { return m.data.At(i, j) }

// Set stores the phase of trial i at frequency j
func (m *PhaseMatrix) Set(i, j int, v float64) { m.data.Set(i, j, v) }

// Column copies the phases of frequency j across all trials
func (m *PhaseMatrix) Column(j int) []float64 {
	if m.data == nil {
		return nil
	}
	return mat.Col(nil, j, m.data)
}

// CoefficientMatrix keeps the parsed complex coefficients, trials x frequencies
type CoefficientMatrix struct {
	trials, freqs int
	data          *mat.CDense
}

// NewCoefficientMatrix allocates a zeroed matrix
func NewCoefficientMatrix(trials, freqs int) *CoefficientMatrix {
	m := &CoefficientMatrix{trials: trials, freqs: freqs}
	if trials > 0 && freqs > 0 {
		m.data = mat.NewCDense(trials, freqs, nil)
	}
	return m
}

// Dims returns (trials, frequencies)
func (m *CoefficientMatrix) Dims() (int, int) { return m.trials, m.freqs }

// At returns the coefficient of trial i at frequency j
func (m *CoefficientMatrix) At(i, j int) complex128 { return m.data.At(i, j) }

// Build maps every coefficient cell of trials through parse. Missing
// trailing cells are parsed as empty text so they fall back and get counted.
func Build(trials []eeg.Trial, freqs int, parse func(eeg.Cell) eeg.ParsedCell) (*PhaseMatrix, *CoefficientMatrix) {
	phases := NewPhaseMatrix(len(trials), freqs)
	coeffs := NewCoefficientMatrix(len(trials), freqs)
	for i, trial := range trials {
		for j := 0; j < freqs; j++ {
			cell := eeg.TextCell("")
			if j < len(trial.Cells) {
				cell = trial.Cells[j]
			}
			parsed := parse(cell)
			phases.data.Set(i, j, parsed.Phase)
			coeffs.data.Set(i, j, parsed.Value)
		}
	}
	return phases, coeffs
}
