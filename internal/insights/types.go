// Package insights computes which lifestyle, environmental, and medication
// factors are associated with worse or better severity for a tracked
// condition. Everything in the package is a pure function over the check-in
// history; results are recomputed in full on every call and nothing is cached.
//
// The statistics are deliberately descriptive, small-sample correlations with
// an explicit confidence discount. This is not causal inference and the
// confidence value is not a p-value.
package insights

import (
	"time"

	"github.com/heathtechnical/FlareTracker-sub000/internal/store"
)

type FactorType string

const (
	FactorLifestyle     FactorType = "lifestyle"
	FactorEnvironmental FactorType = "environmental"
	FactorMedication    FactorType = "medication"
)

// FactorAnalysis is the analysis of one named factor for one condition.
type FactorAnalysis struct {
	Factor string     `json:"factor"`
	Type   FactorType `json:"type"`
	// Correlation is in [-1, 1]. Positive means the factor's presence is
	// associated with higher severity (a candidate trigger), negative with
	// lower severity (a candidate protective factor).
	Correlation float64 `json:"correlation"`
	// Confidence is a [0, 1] heuristic combining sample size, group balance,
	// and data coverage.
	Confidence         float64 `json:"confidence"`
	Occurrences        int     `json:"occurrences"`
	AvgSeverityWith    float64 `json:"average_severity_with_factor"`
	AvgSeverityWithout float64 `json:"average_severity_without_factor"`
	Description        string  `json:"description"`
	Recommendation     string  `json:"recommendation,omitempty"`
}

// ConditionInsight is the full trigger analysis for one condition.
type ConditionInsight struct {
	ConditionID   string `json:"condition_id"`
	ConditionName string `json:"condition_name"`
	// Triggers is sorted by descending correlation (strongest first).
	Triggers []FactorAnalysis `json:"triggers"`
	// ProtectiveFactors is sorted by ascending correlation (most negative
	// first).
	ProtectiveFactors []FactorAnalysis `json:"protective_factors"`
	// SampleSize counts check-ins containing any entry for the condition,
	// rated or not. The extractors' statistics use rated entries only.
	SampleSize   int       `json:"sample_size"`
	AnalysisDate time.Time `json:"analysis_date"`
}

// ratedSeverities returns the non-zero severities recorded for the condition.
func ratedSeverities(checkIns []store.CheckIn, conditionID string) []float64 {
	var severities []float64
	for i := range checkIns {
		if entry := checkIns[i].EntryFor(conditionID); entry != nil && entry.Severity.IsSet() {
			severities = append(severities, float64(entry.Severity))
		}
	}
	return severities
}
