package run

import (
	"fmt"

	"eegitpc/domain/core"
	"eegitpc/domain/eeg"
)

// Manifest records how a results table was produced so a run can be
// audited and replayed: what was read, with which settings, and what
// degraded along the way (parse fallbacks, empty buckets).
type Manifest struct {
	RunID          core.RunID        `json:"run_id"`
	InputPath      string            `json:"input_path"`
	OutputPath     string            `json:"output_path"`
	Conditions     []eeg.Condition   `json:"conditions"`
	NumElectrodes  int               `json:"num_electrodes"`
	NumFrequencies int               `json:"num_frequencies"`
	Frequencies    eeg.FrequencyAxis `json:"frequencies_hz"`
	ConfigHash     core.Hash         `json:"config_hash"`
	ResultsHash    core.Hash         `json:"results_hash"`
	Counts         Counts            `json:"counts"`
	EmptyBuckets   []string          `json:"empty_buckets"`
	CodeVersion    string            `json:"code_version"`
	StartedAt      core.Timestamp    `json:"started_at"`
	FinishedAt     core.Timestamp    `json:"finished_at"`
}

// Counts are the row and cell tallies of one run
type Counts struct {
	InputRows      int   `json:"input_rows"`
	AssignedTrials int   `json:"assigned_trials"`
	ExcludedTrials int   `json:"excluded_trials"`
	StrayElectrode int   `json:"stray_electrode_trials"`
	Buckets        int   `json:"buckets"`
	ParsedCells    int64 `json:"parsed_cells"`
	ParseFailures  int64 `json:"parse_failures"`
}

// ConfigFingerprint hashes the settings that determine a run's output
func ConfigFingerprint(conditions *eeg.ConditionSet, electrodes, freqs int, zeroPhaseReals bool) core.Hash {
	return core.ComputeConfigHash(map[string]interface{}{
		"conditions":       conditions.String(),
		"electrodes":       electrodes,
		"frequencies":      freqs,
		"zero_phase_reals": zeroPhaseReals,
	})
}

// ResultsFingerprint hashes the results rows bit-exactly, NaN included
func ResultsFingerprint(rows []eeg.ResultRow) core.Hash {
	labels := make([]string, len(rows))
	vectors := make([][]float64, len(rows))
	for i, row := range rows {
		labels[i] = row.Key()
		vectors[i] = row.ITPC
	}
	return core.ComputeVectorHash(labels, vectors)
}

// ParseFailureRate is failures over parsed cells, 0 when nothing was parsed
func (m *Manifest) ParseFailureRate() float64 {
	if m.Counts.ParsedCells == 0 {
		return 0
	}
	return float64(m.Counts.ParseFailures) / float64(m.Counts.ParsedCells)
}

// Validate checks if the manifest is complete
func (m *Manifest) Validate() error {
	if core.ID(m.RunID).IsEmpty() {
		return fmt.Errorf("run manifest: run_id cannot be empty")
	}
	if m.ConfigHash.IsEmpty() {
		return fmt.Errorf("run manifest: config_hash cannot be empty")
	}
	if m.ResultsHash.IsEmpty() {
		return fmt.Errorf("run manifest: results_hash cannot be empty")
	}
	if m.NumFrequencies <= 0 || m.NumElectrodes <= 0 {
		return fmt.Errorf("run manifest: dimensions must be positive")
	}
	return nil
}
