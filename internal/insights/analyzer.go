package insights

import (
	"time"

	"github.com/heathtechnical/FlareTracker-sub000/internal/store"
)

// DefaultMinSampleSize is the minimum number of check-ins referencing a
// condition before any factor analysis runs.
const DefaultMinSampleSize = 5

// AnalyzeTriggers runs every factor extractor for one condition and returns
// the classified, ranked insight. minSampleSize <= 0 selects
// DefaultMinSampleSize.
//
// The gate counts check-ins containing any entry for the condition, rated or
// not; the extractor statistics use rated entries only. A history below the
// gate is not an error: the insight comes back with the true sample size and
// empty trigger and protective lists, since sparse data is the expected
// common case.
func AnalyzeTriggers(checkIns []store.CheckIn, conditionID, conditionName string, minSampleSize int) ConditionInsight {
	if minSampleSize <= 0 {
		minSampleSize = DefaultMinSampleSize
	}

	insight := ConditionInsight{
		ConditionID:       conditionID,
		ConditionName:     conditionName,
		Triggers:          []FactorAnalysis{},
		ProtectiveFactors: []FactorAnalysis{},
		AnalysisDate:      time.Now(),
	}

	for i := range checkIns {
		if checkIns[i].EntryFor(conditionID) != nil {
			insight.SampleSize++
		}
	}
	if insight.SampleSize < minSampleSize {
		return insight
	}

	ratedCount := len(ratedSeverities(checkIns, conditionID))

	var analyses []FactorAnalysis
	analyses = append(analyses, analyzeLifestyleFactors(checkIns, conditionID, ratedCount)...)
	analyses = append(analyses, analyzeWeatherFactors(checkIns, conditionID)...)
	analyses = append(analyses, analyzeMedicationAdherence(checkIns, conditionID, ratedCount)...)

	insight.Triggers, insight.ProtectiveFactors = classify(analyses)
	return insight
}

// TriggersForAllConditions analyzes each condition independently and returns
// one insight per condition, in the same order as conditions.
func TriggersForAllConditions(checkIns []store.CheckIn, conditions []store.Condition) []ConditionInsight {
	results := make([]ConditionInsight, len(conditions))
	for i, cond := range conditions {
		results[i] = AnalyzeTriggers(checkIns, cond.ID, cond.Name, DefaultMinSampleSize)
	}
	return results
}
