package results

import (
	"bytes"
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"eegitpc/domain/core"
	"eegitpc/domain/eeg"
	"eegitpc/domain/run"
	"eegitpc/internal"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatVector(t *testing.T) {
	tests := []struct {
		in   []float64
		want string
	}{
		{[]float64{}, "[]"},
		{[]float64{1, 0}, "[1.0, 0.0]"},
		{[]float64{0.5, math.NaN(), 0.125}, "[0.5, nan, 0.125]"},
		{[]float64{1e-7}, "[1e-07]"},
		{[]float64{math.Inf(1), math.Inf(-1)}, "[inf, -inf]"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatVector(tt.in))
	}
}

func TestParseVector(t *testing.T) {
	v, err := ParseVector(" [0.91, nan, None, 1.0] ")
	require.NoError(t, err)
	require.Len(t, v, 4)
	assert.Equal(t, 0.91, v[0])
	assert.True(t, math.IsNaN(v[1]))
	assert.True(t, math.IsNaN(v[2]))
	assert.Equal(t, 1.0, v[3])

	v, err = ParseVector("0.25")
	require.NoError(t, err)
	assert.Equal(t, []float64{0.25}, v)

	v, err = ParseVector("[]")
	require.NoError(t, err)
	assert.Empty(t, v)

	for _, bad := range []string{"", "[0.1, 0.2", "[0.1, x]", "abc"} {
		_, err := ParseVector(bad)
		assert.Error(t, err, bad)
	}

	orig := []float64{0.1 + 0.2, 1.0 / 3, math.NaN(), 0}
	back, err := ParseVector(FormatVector(orig))
	require.NoError(t, err)
	for i := range orig {
		if math.IsNaN(orig[i]) {
			assert.True(t, math.IsNaN(back[i]))
			continue
		}
		assert.Equal(t, orig[i], back[i], "exact round trip")
	}
}

func sampleRows() []eeg.ResultRow {
	return []eeg.ResultRow{
		{Condition: "GN", Electrode: 1, ITPC: []float64{0.5, 1}, Trials: 3, Defined: true},
		{Condition: "GN", Electrode: 2, ITPC: []float64{math.NaN(), math.NaN()}},
		{Condition: "GS", Electrode: 1, ITPC: []float64{0.0625, 0.75}, Trials: 2, Defined: true},
	}
}

func newTestStore() (*Store, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewStore(internal.NewLoggerTo(&buf, internal.LogLevelDebug)), &buf
}

func TestStore_RoundTrip(t *testing.T) {
	for _, ext := range []string{".csv", ".xlsx"} {
		t.Run(ext, func(t *testing.T) {
			store, logs := newTestStore()
			path := filepath.Join(t.TempDir(), "itpc"+ext)
			rows := sampleRows()

			require.NoError(t, store.WriteResults(context.Background(), path, rows))
			assert.Contains(t, logs.String(), "ITPC results exported to "+path)

			got, err := store.ReadResults(context.Background(), path)
			require.NoError(t, err)
			require.Len(t, got, len(rows))
			for i := range rows {
				assert.Equal(t, rows[i].Condition, got[i].Condition)
				assert.Equal(t, rows[i].Electrode, got[i].Electrode)
				assert.Equal(t, rows[i].Defined, got[i].Defined)
				require.Len(t, got[i].ITPC, len(rows[i].ITPC))
				for j, v := range rows[i].ITPC {
					if math.IsNaN(v) {
						assert.True(t, math.IsNaN(got[i].ITPC[j]))
					} else {
						assert.Equal(t, v, got[i].ITPC[j])
					}
				}
			}
		})
	}
}

func TestStore_CSVLayout(t *testing.T) {
	store, _ := newTestStore()
	path := filepath.Join(t.TempDir(), "itpc.csv")
	require.NoError(t, store.WriteResults(context.Background(), path, sampleRows()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Condition,Electrode,ITPC", lines[0])
	assert.Equal(t, `GN,1,"[0.5, 1.0]"`, lines[1])
	assert.Equal(t, `GN,2,"[nan, nan]"`, lines[2])
}

func TestStore_WriteLeavesNoTempFiles(t *testing.T) {
	store, _ := newTestStore()
	dir := t.TempDir()
	path := filepath.Join(dir, "itpc.csv")
	require.NoError(t, store.WriteResults(context.Background(), path, sampleRows()))
	require.NoError(t, store.WriteResults(context.Background(), path, sampleRows()[:1]))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	got, err := store.ReadResults(context.Background(), path)
	require.NoError(t, err)
	assert.Len(t, got, 1, "second write replaces the first")
}

func TestStore_WriteFailures(t *testing.T) {
	store, _ := newTestStore()
	err := store.WriteResults(context.Background(), filepath.Join(t.TempDir(), "nope", "itpc.csv"), sampleRows())
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	path := filepath.Join(t.TempDir(), "itpc.csv")
	assert.ErrorIs(t, store.WriteResults(ctx, path, sampleRows()), context.Canceled)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestStore_ReadRejectsBadTables(t *testing.T) {
	store, _ := newTestStore()
	dir := t.TempDir()

	missing := filepath.Join(dir, "missing.csv")
	require.NoError(t, os.WriteFile(missing, []byte("Condition,ITPC\nGN,[1.0]\n"), 0o644))
	_, err := store.ReadResults(context.Background(), missing)
	require.Error(t, err)
	assert.True(t, core.IsSchemaError(err))
	assert.Contains(t, err.Error(), "Electrode")

	badElectrode := filepath.Join(dir, "bad.csv")
	require.NoError(t, os.WriteFile(badElectrode, []byte("Condition,Electrode,ITPC\nGN,one,[1.0]\n"), 0o644))
	_, err = store.ReadResults(context.Background(), badElectrode)
	assert.True(t, core.IsSchemaError(err))

	empty := filepath.Join(dir, "empty.csv")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	_, err = store.ReadResults(context.Background(), empty)
	assert.True(t, core.IsSchemaError(err))
}

func TestStore_Manifest(t *testing.T) {
	store, _ := newTestStore()
	path := filepath.Join(t.TempDir(), "itpc.csv.manifest.json")
	rows := sampleRows()
	m := &run.Manifest{
		RunID:          core.NewRunID(),
		InputPath:      "trials.csv",
		OutputPath:     "itpc.csv",
		Conditions:     eeg.DefaultConditions().Conditions(),
		NumElectrodes:  2,
		NumFrequencies: 2,
		Frequencies:    eeg.DefaultFrequencies(2),
		ConfigHash:     run.ConfigFingerprint(eeg.DefaultConditions(), 2, 2, false),
		ResultsHash:    run.ResultsFingerprint(rows),
		Counts:         run.Counts{InputRows: 5, ParsedCells: 10, ParseFailures: 1},
		EmptyBuckets:   []string{"GN/2"},
		StartedAt:      core.Now(),
		FinishedAt:     core.Now(),
	}
	require.NoError(t, store.WriteManifest(context.Background(), path, m))

	got, err := store.ReadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, m.RunID, got.RunID)
	assert.Equal(t, m.ConfigHash, got.ConfigHash)
	assert.Equal(t, m.Counts, got.Counts)
	assert.Equal(t, m.EmptyBuckets, got.EmptyBuckets)
	assert.Equal(t, m.Conditions, got.Conditions)
	assert.True(t, m.StartedAt.Time().Equal(got.StartedAt.Time()))
	assert.NoError(t, got.Validate())
}
