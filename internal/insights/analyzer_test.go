package insights

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heathtechnical/FlareTracker-sub000/internal/store"
)

const testConditionID = "cond-1"

// checkInDay builds one check-in with a single condition entry for
// testConditionID and the given factors.
func checkInDay(day int, severity store.Level, factors store.Factors) store.CheckIn {
	return store.CheckIn{
		ID:     fmt.Sprintf("checkin-%d", day),
		UserID: 1,
		Date:   fmt.Sprintf("2025-03-%02d", day),
		ConditionEntries: []store.ConditionEntry{
			{ConditionID: testConditionID, Severity: severity},
		},
		Factors: factors,
	}
}

func findFactor(analyses []FactorAnalysis, name string) *FactorAnalysis {
	for i := range analyses {
		if analyses[i].Factor == name {
			return &analyses[i]
		}
	}
	return nil
}

// Six check-ins where high stress lines up with high severity: High Stress
// must surface as a trigger with correlation 0.8 and confidence 0.6.
func TestAnalyzeTriggersHighStressScenario(t *testing.T) {
	severities := []store.Level{4, 4, 4, 2, 2, 2}
	stresses := []store.Level{5, 5, 5, 1, 1, 1}

	var checkIns []store.CheckIn
	for i := range severities {
		checkIns = append(checkIns, checkInDay(i+1, severities[i], store.Factors{Stress: stresses[i]}))
	}

	insight := AnalyzeTriggers(checkIns, testConditionID, "Eczema", 0)

	require.Equal(t, 6, insight.SampleSize)

	trigger := findFactor(insight.Triggers, "High Stress")
	require.NotNil(t, trigger, "High Stress should be classified as a trigger")
	assert.Equal(t, FactorLifestyle, trigger.Type)
	assert.InDelta(t, 0.8, trigger.Correlation, 1e-9)
	assert.InDelta(t, 0.6, trigger.Confidence, 1e-9)
	assert.Equal(t, 3, trigger.Occurrences)
	assert.InDelta(t, 4.0, trigger.AvgSeverityWith, 1e-9)
	assert.InDelta(t, 2.0, trigger.AvgSeverityWithout, 1e-9)

	// The complementary framing of the same dimension lands on the other side.
	protective := findFactor(insight.ProtectiveFactors, "Low Stress")
	require.NotNil(t, protective, "Low Stress should be classified as protective")
	assert.InDelta(t, -0.8, protective.Correlation, 1e-9)
}

// Four check-ins reference the condition but only three are rated: the
// default gate of five leaves the insight empty with the raw sample size.
func TestAnalyzeTriggersInsufficientData(t *testing.T) {
	checkIns := []store.CheckIn{
		checkInDay(1, 3, store.Factors{Stress: 5}),
		checkInDay(2, 2, store.Factors{Stress: 5}),
		checkInDay(3, 4, store.Factors{Stress: 1}),
		checkInDay(4, store.LevelUnset, store.Factors{Stress: 1}), // present but unrated
	}

	insight := AnalyzeTriggers(checkIns, testConditionID, "Eczema", 0)

	assert.Equal(t, 4, insight.SampleSize)
	assert.NotNil(t, insight.Triggers)
	assert.NotNil(t, insight.ProtectiveFactors)
	assert.Empty(t, insight.Triggers)
	assert.Empty(t, insight.ProtectiveFactors)
}

// The gate counts check-ins with any entry for the condition; unrated entries
// count toward the gate but are excluded from the statistics.
func TestAnalyzeTriggersUnratedEntriesCountTowardGateOnly(t *testing.T) {
	var checkIns []store.CheckIn
	// Three rated days plus three unrated days: gate passes at six, but every
	// extractor sees only three rated severities, too few for both groups.
	for i := 1; i <= 3; i++ {
		checkIns = append(checkIns, checkInDay(i, store.Level(i+1), store.Factors{Stress: 5}))
	}
	for i := 4; i <= 6; i++ {
		checkIns = append(checkIns, checkInDay(i, store.LevelUnset, store.Factors{Stress: 1}))
	}

	insight := AnalyzeTriggers(checkIns, testConditionID, "Eczema", 0)

	assert.Equal(t, 6, insight.SampleSize)
	assert.Empty(t, insight.Triggers)
	assert.Empty(t, insight.ProtectiveFactors)
}

func TestAnalyzeTriggersCustomMinSampleSize(t *testing.T) {
	checkIns := []store.CheckIn{
		checkInDay(1, 4, store.Factors{Stress: 5}),
		checkInDay(2, 4, store.Factors{Stress: 5}),
		checkInDay(3, 2, store.Factors{Stress: 1}),
		checkInDay(4, 2, store.Factors{Stress: 1}),
	}

	insight := AnalyzeTriggers(checkIns, testConditionID, "Eczema", 4)
	assert.NotEmpty(t, insight.Triggers, "gate of 4 should let the analysis run")
}

func TestAnalyzeTriggersBoundsAndDisjointness(t *testing.T) {
	var checkIns []store.CheckIn
	// Extreme swings to push correlations toward the clamp.
	severities := []store.Level{5, 5, 5, 1, 1, 1, 4, 2, 5, 1}
	for i, sev := range severities {
		factors := store.Factors{Stress: 5, Sleep: 1, Diet: 1, Water: 1, Weather: "Humid"}
		if i%2 == 1 {
			factors = store.Factors{Stress: 1, Sleep: 5, Diet: 5, Water: 5, Weather: "Dry"}
		}
		checkIns = append(checkIns, checkInDay(i+1, sev, factors))
	}

	insight := AnalyzeTriggers(checkIns, testConditionID, "Eczema", 0)

	seen := make(map[string]bool)
	for _, a := range append(append([]FactorAnalysis{}, insight.Triggers...), insight.ProtectiveFactors...) {
		assert.GreaterOrEqual(t, a.Correlation, -1.0)
		assert.LessOrEqual(t, a.Correlation, 1.0)
		assert.GreaterOrEqual(t, a.Confidence, 0.0)
		assert.LessOrEqual(t, a.Confidence, 1.0)
		assert.False(t, seen[a.Factor], "factor %s appears in both lists", a.Factor)
		seen[a.Factor] = true
	}

	for i := 1; i < len(insight.Triggers); i++ {
		assert.GreaterOrEqual(t, insight.Triggers[i-1].Correlation, insight.Triggers[i].Correlation,
			"triggers must be sorted by descending correlation")
	}
	for i := 1; i < len(insight.ProtectiveFactors); i++ {
		assert.LessOrEqual(t, insight.ProtectiveFactors[i-1].Correlation, insight.ProtectiveFactors[i].Correlation,
			"protective factors must be sorted most negative first")
	}
}

func TestAnalyzeTriggersIsDeterministic(t *testing.T) {
	var checkIns []store.CheckIn
	severities := []store.Level{4, 3, 5, 2, 1, 4, 3, 2}
	for i, sev := range severities {
		checkIns = append(checkIns, checkInDay(i+1, sev, store.Factors{
			Stress:  store.Level(i%5 + 1),
			Sleep:   store.Level((i+2)%5 + 1),
			Weather: []string{"Humid", "Dry"}[i%2],
		}))
	}

	first := AnalyzeTriggers(checkIns, testConditionID, "Eczema", 0)
	second := AnalyzeTriggers(checkIns, testConditionID, "Eczema", 0)

	// Only the wall-clock analysis date may differ.
	first.AnalysisDate = second.AnalysisDate
	assert.Equal(t, first, second)
}

// Raising severities in the with-factor group while holding the without group
// fixed must never decrease the factor's correlation.
func TestAnalyzeTriggersMonotonicity(t *testing.T) {
	build := func(highStressSeverities []store.Level) []store.CheckIn {
		var checkIns []store.CheckIn
		day := 1
		for _, sev := range highStressSeverities {
			checkIns = append(checkIns, checkInDay(day, sev, store.Factors{Stress: 5}))
			day++
		}
		for i := 0; i < 3; i++ {
			checkIns = append(checkIns, checkInDay(day, 2, store.Factors{Stress: 1}))
			day++
		}
		return checkIns
	}

	lower := analyzeLifestyleFactors(build([]store.Level{2, 3, 3}), testConditionID, 6)
	higher := analyzeLifestyleFactors(build([]store.Level{4, 5, 5}), testConditionID, 6)

	lowerFactor := findFactor(lower, "High Stress")
	higherFactor := findFactor(higher, "High Stress")
	require.NotNil(t, lowerFactor)
	require.NotNil(t, higherFactor)
	assert.GreaterOrEqual(t, higherFactor.Correlation, lowerFactor.Correlation)
}

// A lifestyle factor with a set value but unrated severity contributes
// nothing; a rated severity with an unset factor value contributes nothing.
func TestLifestyleExtractorSkipsUnsetData(t *testing.T) {
	checkIns := []store.CheckIn{
		checkInDay(1, 4, store.Factors{Stress: 5}),
		checkInDay(2, 4, store.Factors{Stress: 5}),
		checkInDay(3, 2, store.Factors{Stress: 1}),
		checkInDay(4, 2, store.Factors{Stress: 1}),
		checkInDay(5, store.LevelUnset, store.Factors{Stress: 5}), // unrated severity
		checkInDay(6, 5, store.Factors{}),                         // unset stress
	}

	analyses := analyzeLifestyleFactors(checkIns, testConditionID, 5)
	factor := findFactor(analyses, "High Stress")
	require.NotNil(t, factor)
	assert.Equal(t, 2, factor.Occurrences)
	assert.InDelta(t, 4.0, factor.AvgSeverityWith, 1e-9)
	assert.InDelta(t, 2.0, factor.AvgSeverityWithout, 1e-9)
}

// A lifestyle factor whose with or without group has fewer than two members
// is omitted, not reported with degenerate statistics.
func TestLifestyleExtractorSmallSampleGuard(t *testing.T) {
	checkIns := []store.CheckIn{
		checkInDay(1, 5, store.Factors{Stress: 5}),
		checkInDay(2, 2, store.Factors{Stress: 1}),
		checkInDay(3, 2, store.Factors{Stress: 1}),
		checkInDay(4, 2, store.Factors{Stress: 1}),
	}

	analyses := analyzeLifestyleFactors(checkIns, testConditionID, 4)
	assert.Nil(t, findFactor(analyses, "High Stress"))
}

func TestTriggersForAllConditionsPreservesOrder(t *testing.T) {
	conditions := []store.Condition{
		{ID: "cond-a", Name: "Eczema"},
		{ID: "cond-b", Name: "Migraine"},
		{ID: "cond-c", Name: "Asthma"},
	}

	var checkIns []store.CheckIn
	for i := 1; i <= 6; i++ {
		checkIns = append(checkIns, store.CheckIn{
			Date: fmt.Sprintf("2025-03-%02d", i),
			ConditionEntries: []store.ConditionEntry{
				{ConditionID: "cond-a", Severity: store.Level(i%5 + 1)},
				{ConditionID: "cond-b", Severity: store.LevelUnset},
			},
		})
	}

	results := TriggersForAllConditions(checkIns, conditions)

	require.Len(t, results, 3)
	assert.Equal(t, "cond-a", results[0].ConditionID)
	assert.Equal(t, "Eczema", results[0].ConditionName)
	assert.Equal(t, 6, results[0].SampleSize)
	assert.Equal(t, "cond-b", results[1].ConditionID)
	assert.Equal(t, 6, results[1].SampleSize) // present but unrated still counts
	assert.Equal(t, "cond-c", results[2].ConditionID)
	assert.Equal(t, 0, results[2].SampleSize)
}
