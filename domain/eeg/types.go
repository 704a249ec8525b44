package eeg

import (
	"fmt"
	"math"
)

// Input table columns
const (
	ColumnStimuli     = "stimuli"
	ColumnElectrode   = "electrode_number"
	CoefficientPrefix = "complex_val_"
)

// Output table columns
const (
	ColumnCondition    = "Condition"
	ColumnElectrodeOut = "Electrode"
	ColumnITPC         = "ITPC"
)

// CoefficientColumn names the i-th (1-based) coefficient column
func CoefficientColumn(i int) string {
	return fmt.Sprintf("%s%d", CoefficientPrefix, i)
}

// RawRow is one input row keyed by header
type RawRow map[string]string

// RawTable is a loaded input table before any typing
type RawTable struct {
	Headers []string
	Rows    []RawRow
	// RowNumbers holds the 1-based source data row of each entry in Rows.
	// Blank source rows are dropped, so the numbering may have gaps.
	RowNumbers []int
}

// RowNumber returns the source data row of Rows[i], falling back to i+1
// when the table was built without row numbers
func (t *RawTable) RowNumber(i int) int {
	if len(t.RowNumbers) == len(t.Rows) {
		return t.RowNumbers[i]
	}
	return i + 1
}

// Trial is one typed input row
type Trial struct {
	Row       int // 1-based data row in the source table
	Stimulus  int
	Electrode int
	Cells     []Cell
}

// ParsedCell is a coefficient plus its phase in (-pi, pi]
type ParsedCell struct {
	Value  complex128
	Phase  float64
	Failed bool
}

// ResultRow is one (condition, electrode) line of the results table
type ResultRow struct {
	Condition string    `json:"condition"`
	Electrode int       `json:"electrode"`
	ITPC      []float64 `json:"itpc"`
	Trials    int       `json:"trials"`
	Defined   bool      `json:"defined"`
}

// Key identifies the bucket as "GN/7"
func (r ResultRow) Key() string {
	return fmt.Sprintf("%s/%d", r.Condition, r.Electrode)
}

// MeanITPC averages the vector; NaN when any entry is undefined or it is empty
func (r ResultRow) MeanITPC() float64 {
	if len(r.ITPC) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, v := range r.ITPC {
		sum += v
	}
	return sum / float64(len(r.ITPC))
}

// ConditionSummary describes per-electrode mean ITPC for one condition
type ConditionSummary struct {
	Condition  string  `json:"condition"`
	Mean       float64 `json:"mean"`
	StdDev     float64 `json:"std"`
	Min        float64 `json:"min"`
	Max        float64 `json:"max"`
	Median     float64 `json:"median"`
	Electrodes int     `json:"electrodes"`
	Undefined  int     `json:"undefined"`
}
