package insights

import "github.com/heathtechnical/FlareTracker-sub000/internal/store"

// lifestyleFactor declares one named framing of a lifestyle dimension. Each
// dimension appears twice with complementary predicates so both a risk
// framing ("High Stress") and a protective framing ("Low Stress") are
// analyzed as independent factors.
type lifestyleFactor struct {
	label          string
	value          func(store.Factors) store.Level
	applies        func(store.Level) bool
	description    string
	recommendation string
}

func atLeast(threshold store.Level) func(store.Level) bool {
	return func(v store.Level) bool { return v >= threshold }
}

func atMost(threshold store.Level) func(store.Level) bool {
	return func(v store.Level) bool { return v <= threshold }
}

var lifestyleFactors = []lifestyleFactor{
	{
		label:          "High Stress",
		value:          func(f store.Factors) store.Level { return f.Stress },
		applies:        atLeast(4),
		description:    "Days with high reported stress levels",
		recommendation: "Consider stress management techniques such as breathing exercises or short walks",
	},
	{
		label:          "Low Stress",
		value:          func(f store.Factors) store.Level { return f.Stress },
		applies:        atMost(2),
		description:    "Days with low reported stress levels",
		recommendation: "Keeping stress low appears to help; protect the routines that make these days possible",
	},
	{
		label:          "Poor Sleep",
		value:          func(f store.Factors) store.Level { return f.Sleep },
		applies:        atMost(2),
		description:    "Days following poorly rated sleep",
		recommendation: "Try a consistent bedtime and limiting screens before sleep",
	},
	{
		label:          "Good Sleep",
		value:          func(f store.Factors) store.Level { return f.Sleep },
		applies:        atLeast(4),
		description:    "Days following well rated sleep",
		recommendation: "Good sleep appears protective; keep the current sleep routine",
	},
	{
		label:          "Poor Diet",
		value:          func(f store.Factors) store.Level { return f.Diet },
		applies:        atMost(2),
		description:    "Days with poorly rated diet",
		recommendation: "Track which foods coincide with flares and discuss patterns with your clinician",
	},
	{
		label:          "Healthy Diet",
		value:          func(f store.Factors) store.Level { return f.Diet },
		applies:        atLeast(4),
		description:    "Days with well rated diet",
		recommendation: "Eating well appears protective; keep it up",
	},
	{
		label:          "Low Hydration",
		value:          func(f store.Factors) store.Level { return f.Water },
		applies:        atMost(2),
		description:    "Days with low reported water intake",
		recommendation: "Aim for regular water intake throughout the day",
	},
	{
		label:          "Good Hydration",
		value:          func(f store.Factors) store.Level { return f.Water },
		applies:        atLeast(4),
		description:    "Days with good reported water intake",
		recommendation: "Staying hydrated appears protective; keep it up",
	},
}

// analyzeLifestyleFactors evaluates every declared lifestyle factor for the
// condition. A check-in contributes only when the condition's severity is
// rated AND the factor's value is set; the predicate then routes the severity
// into the with- or without-factor group. Factors whose groups are too small
// are silently omitted.
func analyzeLifestyleFactors(checkIns []store.CheckIn, conditionID string, ratedCount int) []FactorAnalysis {
	var analyses []FactorAnalysis
	for _, factor := range lifestyleFactors {
		var withFactor, withoutFactor []float64
		for i := range checkIns {
			entry := checkIns[i].EntryFor(conditionID)
			if entry == nil || !entry.Severity.IsSet() {
				continue
			}
			value := factor.value(checkIns[i].Factors)
			if !value.IsSet() {
				continue
			}
			if factor.applies(value) {
				withFactor = append(withFactor, float64(entry.Severity))
			} else {
				withoutFactor = append(withoutFactor, float64(entry.Severity))
			}
		}

		if len(withFactor) < minGroupSize || len(withoutFactor) < minGroupSize {
			continue
		}

		avgWith := mean(withFactor)
		avgWithout := mean(withoutFactor)
		analyses = append(analyses, FactorAnalysis{
			Factor:             factor.label,
			Type:               FactorLifestyle,
			Correlation:        correlation(avgWith, avgWithout),
			Confidence:         binaryConfidence(len(withFactor), len(withoutFactor), ratedCount),
			Occurrences:        len(withFactor),
			AvgSeverityWith:    avgWith,
			AvgSeverityWithout: avgWithout,
			Description:        factor.description,
			Recommendation:     factor.recommendation,
		})
	}
	return analyses
}
