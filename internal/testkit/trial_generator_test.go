package testkit

import (
	"testing"

	"eegitpc/domain/eeg"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrialGenerator_Deterministic(t *testing.T) {
	a := NewTrialGenerator(DefaultTrialConfig()).Records()
	b := NewTrialGenerator(DefaultTrialConfig()).Records()
	assert.Equal(t, a, b)

	cfg := DefaultTrialConfig()
	cfg.Seed = 7
	assert.NotEqual(t, a, NewTrialGenerator(cfg).Records())
}

func TestTrialGenerator_Shape(t *testing.T) {
	cfg := DefaultTrialConfig()
	g := NewTrialGenerator(cfg)

	header := g.Header()
	require.Len(t, header, 2+cfg.Frequencies)
	assert.Equal(t, eeg.ColumnStimuli, header[0])
	assert.Equal(t, eeg.CoefficientColumn(cfg.Frequencies), header[len(header)-1])

	records := g.Records()
	require.Len(t, records, len(cfg.Stimuli)*cfg.Electrodes)
	for _, r := range records {
		assert.Len(t, r, len(header))
	}
	assert.Equal(t, []string{"1", "1"}, records[0][:2])
}

func TestTrialGenerator_Styles(t *testing.T) {
	cfg := DefaultTrialConfig()
	cfg.Style = StylePair
	cell := NewTrialGenerator(cfg).Records()[0][2]
	assert.Equal(t, eeg.KindPair, eeg.CellFromText(cell).Kind)

	cfg.Style = StyleLiteral
	cell = NewTrialGenerator(cfg).Records()[0][2]
	assert.Equal(t, eeg.KindText, eeg.CellFromText(cell).Kind)
	assert.Contains(t, cell, "j)")
}
