package results

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"eegitpc/domain/core"
	"eegitpc/domain/eeg"
	"eegitpc/domain/run"
	"eegitpc/internal/itpc"
	"eegitpc/ports"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Sheet1"

var header = []string{eeg.ColumnCondition, eeg.ColumnElectrodeOut, eeg.ColumnITPC}

// Store writes and reads results tables as CSV or XLSX, chosen by extension
type Store struct {
	logger ports.Logger
}

// NewStore creates a results store
func NewStore(logger ports.Logger) *Store {
	return &Store{logger: logger}
}

func isXLSX(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".xlsx")
}

// WriteResults persists rows. The file appears only once fully written.
func (s *Store) WriteResults(ctx context.Context, path string, rows []eeg.ResultRow) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	write := writeCSV
	if isXLSX(path) {
		write = writeXLSX
	}
	if err := atomicWrite(path, func(w io.Writer) error { return write(w, rows) }); err != nil {
		return err
	}
	s.logger.Info("[ResultsStore] ITPC results exported to %s (%d rows)", path, len(rows))
	return nil
}

// WriteManifest stores the run manifest as indented JSON
func (s *Store) WriteManifest(ctx context.Context, path string, manifest *run.Manifest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	return atomicWrite(path, func(w io.Writer) error {
		_, err := w.Write(append(data, '\n'))
		return err
	})
}

// ReadManifest loads a manifest written by WriteManifest
func (s *Store) ReadManifest(path string) (*run.Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m run.Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to decode manifest %s: %w", path, err)
	}
	return &m, nil
}

func writeCSV(w io.Writer, rows []eeg.ResultRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{row.Condition, strconv.Itoa(row.Electrode), FormatVector(row.ITPC)}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeXLSX(w io.Writer, rows []eeg.ResultRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetRow(sheetName, "A1", &[]interface{}{header[0], header[1], header[2]}); err != nil {
		return err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []interface{}{row.Condition, row.Electrode, FormatVector(row.ITPC)}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return err
		}
	}
	return f.Write(w)
}

// atomicWrite writes to a temp file beside path and renames it into place
func atomicWrite(path string, fill func(io.Writer) error) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := fill(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// ReadResults loads a results table written by WriteResults
func (s *Store) ReadResults(ctx context.Context, path string) ([]eeg.ResultRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	records, err := readRecords(path)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: results file %s is empty", core.ErrSchema, path)
	}

	cols := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		cols[strings.TrimSpace(name)] = i
	}
	var missing []string
	for _, name := range header {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, core.NewMissingColumnsError(missing)
	}

	rows := make([]eeg.ResultRow, 0, len(records)-1)
	for i, record := range records[1:] {
		get := func(name string) string {
			if idx := cols[name]; idx < len(record) {
				return strings.TrimSpace(record[idx])
			}
			return ""
		}
		electrode, err := strconv.Atoi(get(eeg.ColumnElectrodeOut))
		if err != nil {
			return nil, core.NewRowValueError(i+1, eeg.ColumnElectrodeOut, get(eeg.ColumnElectrodeOut))
		}
		vector, err := ParseVector(get(eeg.ColumnITPC))
		if err != nil {
			return nil, fmt.Errorf("%w: row %d ITPC: %v", core.ErrSchema, i+1, err)
		}
		rows = append(rows, eeg.ResultRow{
			Condition: get(eeg.ColumnCondition),
			Electrode: electrode,
			ITPC:      vector,
			Defined:   itpc.Vector(vector).Defined(),
		})
	}
	s.logger.Debug("[ResultsStore] loaded %d result rows from %s", len(rows), path)
	return rows, nil
}

func readRecords(path string) ([][]string, error) {
	if isXLSX(path) {
		f, err := excelize.OpenFile(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("%w: workbook %s has no sheets", core.ErrSchema, path)
		}
		return f.GetRows(sheets[0])
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	return reader.ReadAll()
}
