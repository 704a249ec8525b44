package excel

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"eegitpc/domain/core"
	"eegitpc/internal"
	"eegitpc/internal/testkit"
	"eegitpc/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestReader() *DataReader {
	return NewDataReader(internal.NewLoggerTo(&bytes.Buffer{}, internal.LogLevelTrace))
}

func TestFileType(t *testing.T) {
	assert.Equal(t, "csv", FileType("a/b.CSV"))
	assert.Equal(t, "xlsx", FileType("a/b.xlsx"))
	assert.Equal(t, "xlsx", FileType("noext"))
}

func TestReadTable_CSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trials.csv")
	content := "\ufeffstimuli, electrode_number ,complex_val_1\n" +
		"1,2,\"[1.0, 2.0]\"\n" +
		",,\n" +
		"31,4, (0+1j) \n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	table, err := newTestReader().ReadTable(context.Background(), ports.Source{Path: path})
	require.NoError(t, err)

	assert.Equal(t, []string{"stimuli", "electrode_number", "complex_val_1"}, table.Headers)
	require.Len(t, table.Rows, 2, "blank rows are skipped")
	assert.Equal(t, []int{1, 3}, table.RowNumbers, "row numbers keep the gap left by the blank row")
	assert.Equal(t, 3, table.RowNumber(1))
	assert.Equal(t, "1", table.Rows[0]["stimuli"])
	assert.Equal(t, "[1.0, 2.0]", table.Rows[0]["complex_val_1"])
	assert.Equal(t, "(0+1j)", table.Rows[1]["complex_val_1"])
}

func TestReadTable_XLSX(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "trials.xlsx")
	gen := testkit.NewTrialGenerator(testkit.DefaultTrialConfig())
	require.NoError(t, gen.WriteXLSX(path, "Trials"))

	reader := newTestReader()
	table, err := reader.ReadTable(context.Background(), ports.Source{Path: path})
	require.NoError(t, err)
	assert.Equal(t, gen.Header(), table.Headers)

	records := gen.Records()
	require.Len(t, table.Rows, len(records))
	require.Len(t, table.RowNumbers, len(records))
	for i, rec := range records {
		assert.Equal(t, i+1, table.RowNumbers[i])
		for j, h := range gen.Header() {
			assert.Equal(t, rec[j], table.Rows[i][h])
		}
	}

	named, err := reader.ReadTable(context.Background(), ports.Source{Path: path, Sheet: "Trials"})
	require.NoError(t, err)
	assert.Equal(t, table, named)

	_, err = reader.ReadTable(context.Background(), ports.Source{Path: path, Sheet: "Nope"})
	assert.Error(t, err)
}

func TestReadTable_Failures(t *testing.T) {
	dir := t.TempDir()
	reader := newTestReader()

	_, err := reader.ReadTable(context.Background(), ports.Source{Path: filepath.Join(dir, "missing.csv")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.False(t, core.IsSchemaError(err))

	empty := filepath.Join(dir, "empty.csv")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	_, err = reader.ReadTable(context.Background(), ports.Source{Path: empty})
	assert.True(t, core.IsSchemaError(err))

	malformed := filepath.Join(dir, "bad.csv")
	require.NoError(t, os.WriteFile(malformed, []byte("a,b\n\"x,1\n"), 0o644))
	_, err = reader.ReadTable(context.Background(), ports.Source{Path: malformed})
	assert.True(t, core.IsSchemaError(err))
}

func TestReadTable_Cancelled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trials.csv")
	require.NoError(t, testkit.NewTrialGenerator(testkit.DefaultTrialConfig()).WriteCSV(path))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTestReader().ReadTable(ctx, ports.Source{Path: path})
	assert.ErrorIs(t, err, context.Canceled)
}
