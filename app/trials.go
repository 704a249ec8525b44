package app

import (
	"math"
	"strconv"
	"strings"

	"eegitpc/domain/core"
	"eegitpc/domain/eeg"
)

// RequiredColumns lists the input columns a run with freqs coefficients needs
func RequiredColumns(freqs int) []string {
	cols := make([]string, 0, freqs+2)
	cols = append(cols, eeg.ColumnStimuli, eeg.ColumnElectrode)
	for i := 1; i <= freqs; i++ {
		cols = append(cols, eeg.CoefficientColumn(i))
	}
	return cols
}

// BuildTrials checks the table schema and types every row. Extra columns
// are ignored. A key column that is not an integer rejects the table.
func BuildTrials(table *eeg.RawTable, freqs int) ([]eeg.Trial, error) {
	present := make(map[string]bool, len(table.Headers))
	for _, h := range table.Headers {
		present[h] = true
	}
	var missing []string
	for _, col := range RequiredColumns(freqs) {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, core.NewMissingColumnsError(missing)
	}

	columns := make([]string, freqs)
	for j := range columns {
		columns[j] = eeg.CoefficientColumn(j + 1)
	}

	trials := make([]eeg.Trial, 0, len(table.Rows))
	for i, row := range table.Rows {
		rowNum := table.RowNumber(i)
		stimulus, err := parseKey(row, eeg.ColumnStimuli, rowNum)
		if err != nil {
			return nil, err
		}
		electrode, err := parseKey(row, eeg.ColumnElectrode, rowNum)
		if err != nil {
			return nil, err
		}

		cells := make([]eeg.Cell, freqs)
		for j, col := range columns {
			cells[j] = eeg.CellFromText(row[col])
		}
		trials = append(trials, eeg.Trial{
			Row:       rowNum,
			Stimulus:  stimulus,
			Electrode: electrode,
			Cells:     cells,
		})
	}
	return trials, nil
}

// parseKey reads an integer key; spreadsheet exports may render it as "7.0"
func parseKey(row eeg.RawRow, column string, rowNum int) (int, error) {
	raw := strings.TrimSpace(row[column])
	if v, err := strconv.Atoi(raw); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt32 {
		return 0, core.NewRowValueError(rowNum, column, raw)
	}
	return int(f), nil
}
