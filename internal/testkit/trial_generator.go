// Package testkit generates synthetic trial tables for pipeline tests
package testkit

import (
	"encoding/csv"
	"math"
	"math/rand"
	"os"
	"strconv"

	"eegitpc/domain/eeg"

	"github.com/xuri/excelize/v2"
)

// CellStyle selects how coefficients are serialized
type CellStyle int

const (
	// StyleLiteral writes "(1.5+2j)"
	StyleLiteral CellStyle = iota
	// StylePair writes "[1.5, 2]"
	StylePair
)

// TrialGeneratorConfig configures the synthetic trial table
type TrialGeneratorConfig struct {
	Stimuli     []int   `json:"stimuli"`
	Electrodes  int     `json:"electrodes"`
	Frequencies int     `json:"frequencies"`
	Locking     float64 `json:"locking"` // 1 = identical phase across trials, 0 = uniform
	Seed        int64   `json:"seed"`
	Style       CellStyle
}

// DefaultTrialConfig returns a small table covering every default condition
func DefaultTrialConfig() TrialGeneratorConfig {
	return TrialGeneratorConfig{
		Stimuli:     []int{1, 15, 30, 31, 45, 60, 61, 75, 90, 91, 105, 120},
		Electrodes:  4,
		Frequencies: 6,
		Locking:     1,
		Seed:        42,
		Style:       StyleLiteral,
	}
}

// TrialGenerator produces deterministic trial tables
type TrialGenerator struct {
	config TrialGeneratorConfig
	rng    *rand.Rand
	base   [][]float64 // electrode x frequency phase every trial is locked to
}

// NewTrialGenerator creates a generator seeded from config
func NewTrialGenerator(config TrialGeneratorConfig) *TrialGenerator {
	rng := rand.New(rand.NewSource(config.Seed))
	base := make([][]float64, config.Electrodes)
	for e := range base {
		base[e] = make([]float64, config.Frequencies)
		for f := range base[e] {
			base[e][f] = uniformPhase(rng)
		}
	}
	return &TrialGenerator{config: config, rng: rng, base: base}
}

// BasePhase is the phase trials of electrode e (1-based) cluster around
func (g *TrialGenerator) BasePhase(electrode, freq int) float64 {
	return g.base[electrode-1][freq]
}

// Header returns the input table header row
func (g *TrialGenerator) Header() []string {
	header := []string{eeg.ColumnStimuli, eeg.ColumnElectrode}
	for i := 1; i <= g.config.Frequencies; i++ {
		header = append(header, eeg.CoefficientColumn(i))
	}
	return header
}

// Records returns one row per (stimulus, electrode), stimulus-major
func (g *TrialGenerator) Records() [][]string {
	records := make([][]string, 0, len(g.config.Stimuli)*g.config.Electrodes)
	for _, stim := range g.config.Stimuli {
		for e := 1; e <= g.config.Electrodes; e++ {
			record := []string{strconv.Itoa(stim), strconv.Itoa(e)}
			for f := 0; f < g.config.Frequencies; f++ {
				theta := g.BasePhase(e, f) + (1-g.config.Locking)*uniformPhase(g.rng)
				amplitude := 0.5 + g.rng.Float64()*10
				record = append(record, g.formatCell(complex(amplitude*math.Cos(theta), amplitude*math.Sin(theta))))
			}
			records = append(records, record)
		}
	}
	return records
}

func (g *TrialGenerator) formatCell(c complex128) string {
	re := strconv.FormatFloat(real(c), 'g', -1, 64)
	im := strconv.FormatFloat(imag(c), 'g', -1, 64)
	if g.config.Style == StylePair {
		return "[" + re + ", " + im + "]"
	}
	if imag(c) >= 0 {
		im = "+" + im
	}
	return "(" + re + im + "j)"
}

// WriteCSV writes header plus records to path
func (g *TrialGenerator) WriteCSV(path string) error {
	return WriteCSV(path, g.Header(), g.Records())
}

// WriteXLSX writes header plus records to the first sheet of a workbook
func (g *TrialGenerator) WriteXLSX(path, sheet string) error {
	return WriteXLSX(path, sheet, g.Header(), g.Records())
}

// WriteCSV writes arbitrary string rows, for hand-built fixtures
func WriteCSV(path string, header []string, records [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := w.WriteAll(records); err != nil {
		return err
	}
	return file.Close()
}

// WriteXLSX writes arbitrary string rows into sheet, renaming the default one
func WriteXLSX(path, sheet string, header []string, records [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	if sheet != "" && sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			return err
		}
	} else {
		sheet = "Sheet1"
	}
	for i, row := range append([][]string{header}, records...) {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}

func uniformPhase(rng *rand.Rand) float64 {
	return (rng.Float64()*2 - 1) * math.Pi
}
