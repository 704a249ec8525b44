package app

import (
	"math"

	"eegitpc/domain/eeg"

	"github.com/montanaflynn/stats"
)

// Summarize describes the per-electrode mean ITPC of every condition, in
// condition order. Electrodes with an undefined vector are left out of the
// statistics and counted in Undefined. Std is the population deviation.
func Summarize(rows []eeg.ResultRow, conditions *eeg.ConditionSet) []eeg.ConditionSummary {
	byCondition := make(map[string][]float64, conditions.Len())
	undefined := make(map[string]int, conditions.Len())
	for _, row := range rows {
		mean := row.MeanITPC()
		if math.IsNaN(mean) {
			undefined[row.Condition]++
			continue
		}
		byCondition[row.Condition] = append(byCondition[row.Condition], mean)
	}

	summaries := make([]eeg.ConditionSummary, 0, conditions.Len())
	for _, c := range conditions.Conditions() {
		summaries = append(summaries, describe(c.Code, byCondition[c.Code], undefined[c.Code]))
	}
	return summaries
}

func describe(code string, means stats.Float64Data, undefined int) eeg.ConditionSummary {
	summary := eeg.ConditionSummary{
		Condition:  code,
		Electrodes: len(means),
		Undefined:  undefined,
		Mean:       math.NaN(),
		StdDev:     math.NaN(),
		Min:        math.NaN(),
		Max:        math.NaN(),
		Median:     math.NaN(),
	}
	if len(means) == 0 {
		return summary
	}
	summary.Mean, _ = stats.Mean(means)
	summary.StdDev, _ = stats.StandardDeviationPopulation(means)
	summary.Min, _ = stats.Min(means)
	summary.Max, _ = stats.Max(means)
	summary.Median, _ = stats.Median(means)
	return summary
}
