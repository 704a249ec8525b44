package excel

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"eegitpc/domain/core"
	"eegitpc/domain/eeg"
	"eegitpc/ports"

	"github.com/xuri/excelize/v2"
)

// cancelCheckEvery is how many rows are read between context checks
const cancelCheckEvery = 1024

// DataReader loads trial tables from Excel or CSV files
type DataReader struct {
	logger ports.Logger
}

// NewDataReader creates a reader that picks the format from the file extension
func NewDataReader(logger ports.Logger) *DataReader {
	return &DataReader{logger: logger}
}

// FileType returns "csv" for .csv paths and "xlsx" otherwise
func FileType(path string) string {
	if strings.ToLower(filepath.Ext(path)) == ".csv" {
		return "csv"
	}
	return "xlsx"
}

// ReadTable reads the source into a RawTable of trimmed strings
func (r *DataReader) ReadTable(ctx context.Context, src ports.Source) (*eeg.RawTable, error) {
	fileType := FileType(src.Path)
	r.logger.Debug("[DataReader] Starting to read %s file: %s", fileType, src.Path)

	if _, err := os.Stat(src.Path); err != nil {
		return nil, fmt.Errorf("%s file not accessible: %w", strings.ToUpper(fileType), err)
	}

	switch fileType {
	case "csv":
		return r.readCSVData(ctx, src.Path)
	default:
		return r.readExcelData(ctx, src)
	}
}

// readExcelData reads the requested sheet, or the first one
func (r *DataReader) readExcelData(ctx context.Context, src ports.Source) (*eeg.RawTable, error) {
	startTime := time.Now()
	f, err := excelize.OpenFile(src.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := src.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("%w: workbook has no sheets", core.ErrSchema)
		}
		sheet = sheets[0]
	}

	rows, err := f.Rows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	defer rows.Close()

	var raw [][]string
	for rows.Next() {
		if len(raw)%cancelCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		cols, err := rows.Columns()
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %s row %d: %w", sheet, len(raw)+1, err)
		}
		raw = append(raw, cols)
	}
	if err := rows.Error(); err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	r.logger.Debug("[DataReader] %s read in %.2fms (%d rows)", sheet, float64(time.Since(startTime).Nanoseconds())/1e6, len(raw))

	return r.processRows(raw, "xlsx")
}

// readCSVData reads CSV data row by row so long loads stay cancellable
func (r *DataReader) readCSVData(ctx context.Context, path string) (*eeg.RawTable, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	readStart := time.Now()
	var raw [][]string
	for {
		if len(raw)%cancelCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: malformed CSV: %v", core.ErrSchema, err)
		}
		raw = append(raw, record)
	}
	r.logger.Debug("[DataReader] CSV file read in %.2fms (%d rows)", float64(time.Since(readStart).Nanoseconds())/1e6, len(raw))

	return r.processRows(raw, "csv")
}

// processRows converts raw string rows into a RawTable
func (r *DataReader) processRows(rows [][]string, fileType string) (*eeg.RawTable, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s file has no header row", core.ErrSchema, strings.ToUpper(fileType))
	}

	headerRow := rows[0]
	headers := make([]string, len(headerRow))
	for i, header := range headerRow {
		if i == 0 {
			header = strings.TrimPrefix(header, "\ufeff")
		}
		headers[i] = strings.TrimSpace(header)
	}

	dataRows := make([]eeg.RawRow, 0, len(rows)-1)
	rowNumbers := make([]int, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if isBlank(row) {
			continue
		}
		rowData := make(eeg.RawRow, len(headers))
		for j, cell := range row {
			if j < len(headers) {
				rowData[headers[j]] = strings.TrimSpace(cell)
			}
		}
		dataRows = append(dataRows, rowData)
		rowNumbers = append(rowNumbers, i)
	}

	r.logger.Info("[DataReader] %s file processed (%d columns, %d rows)",
		strings.ToUpper(fileType), len(headers), len(dataRows))

	return &eeg.RawTable{
		Headers:    headers,
		Rows:       dataRows,
		RowNumbers: rowNumbers,
	}, nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
