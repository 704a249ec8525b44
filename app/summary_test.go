package app

import (
	"math"
	"testing"

	"eegitpc/domain/core"
	"eegitpc/domain/eeg"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	rows := []eeg.ResultRow{
		{Condition: "GN", Electrode: 1, ITPC: []float64{0.1, 0.3}},
		{Condition: "GN", Electrode: 2, ITPC: []float64{0.4, 0.4}},
		{Condition: "GN", Electrode: 3, ITPC: []float64{math.NaN(), 0.9}},
		{Condition: "GS", Electrode: 1, ITPC: []float64{0.5, 0.7}},
	}
	summaries := Summarize(rows, eeg.DefaultConditions())
	require.Len(t, summaries, 4)

	gn := summaries[0]
	assert.Equal(t, "GN", gn.Condition)
	assert.Equal(t, 2, gn.Electrodes)
	assert.Equal(t, 1, gn.Undefined)
	assert.InDelta(t, 0.3, gn.Mean, 1e-12)
	assert.InDelta(t, 0.1, gn.StdDev, 1e-12, "population deviation")
	assert.InDelta(t, 0.2, gn.Min, 1e-12)
	assert.InDelta(t, 0.4, gn.Max, 1e-12)
	assert.InDelta(t, 0.3, gn.Median, 1e-12)

	gs := summaries[1]
	assert.InDelta(t, 0.6, gs.Mean, 1e-12)
	assert.InDelta(t, 0.0, gs.StdDev, 1e-12)

	un := summaries[2]
	assert.Equal(t, "UN", un.Condition)
	assert.Zero(t, un.Electrodes)
	assert.True(t, math.IsNaN(un.Mean))
	assert.True(t, math.IsNaN(un.StdDev))
}

func TestBuildTrials(t *testing.T) {
	tbl := table(2,
		[]string{"7.0", " 3 ", "[1, 2]", "0+1j"},
	)
	tbl.Headers = append(tbl.Headers, "extra")
	trials, err := BuildTrials(tbl, 2)
	require.NoError(t, err)
	require.Len(t, trials, 1)
	assert.Equal(t, 7, trials[0].Stimulus)
	assert.Equal(t, 3, trials[0].Electrode)
	assert.Equal(t, 1, trials[0].Row)
	assert.Equal(t, eeg.KindPair, trials[0].Cells[0].Kind)
	assert.Equal(t, eeg.KindText, trials[0].Cells[1].Kind)

	for _, bad := range []string{"7.5", "", "NaN", "1e300"} {
		_, err := BuildTrials(table(1, []string{bad, "1", "1"}), 1)
		assert.Error(t, err, "stimulus %q", bad)
	}
}

func TestBuildTrials_SourceRowNumbers(t *testing.T) {
	tbl := table(1,
		[]string{"1", "1", "1+0j"},
		[]string{"2", "1", "0+1j"},
	)
	tbl.RowNumbers = []int{1, 3}
	trials, err := BuildTrials(tbl, 1)
	require.NoError(t, err)
	require.Len(t, trials, 2)
	assert.Equal(t, 1, trials[0].Row)
	assert.Equal(t, 3, trials[1].Row, "blank source row 2 was dropped by the reader")

	bad := table(1,
		[]string{"1", "1", "1+0j"},
		[]string{"x", "1", "1"},
	)
	bad.RowNumbers = []int{1, 3}
	_, err = BuildTrials(bad, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrBadRowValue)
	assert.Contains(t, err.Error(), "row 3 ")
}
