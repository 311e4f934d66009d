package insights

import "github.com/heathtechnical/FlareTracker-sub000/internal/store"

// analyzeMedicationAdherence partitions the condition's rated days by whether
// at least one medication was marked taken, independent of which one.
// Adherence is expected to reduce severity, so medication that helps shows up
// with a negative correlation and the classifier files it as protective; the
// magnitude is the full benefit swing, clamped like every other factor.
func analyzeMedicationAdherence(checkIns []store.CheckIn, conditionID string, ratedCount int) []FactorAnalysis {
	var withMedication, withoutMedication []float64
	for i := range checkIns {
		entry := checkIns[i].EntryFor(conditionID)
		if entry == nil || !entry.Severity.IsSet() {
			continue
		}
		severity := float64(entry.Severity)
		if checkIns[i].AnyMedicationTaken() {
			withMedication = append(withMedication, severity)
		} else {
			withoutMedication = append(withoutMedication, severity)
		}
	}

	if len(withMedication) < minGroupSize || len(withoutMedication) < minGroupSize {
		return nil
	}

	avgWith := mean(withMedication)
	avgWithout := mean(withoutMedication)
	// benefit = (avgWithout - avgWith) / 2.5; the stored correlation is its
	// negation so lower severity on medicated days reads as protective.
	benefit := correlation(avgWithout, avgWith)
	return []FactorAnalysis{{
		Factor:             "Medication Adherence",
		Type:               FactorMedication,
		Correlation:        -benefit,
		Confidence:         binaryConfidence(len(withMedication), len(withoutMedication), ratedCount),
		Occurrences:        len(withMedication),
		AvgSeverityWith:    avgWith,
		AvgSeverityWithout: avgWithout,
		Description:        "Days when at least one medication was taken",
		Recommendation:     "Taking medication consistently appears to help; keep to the schedule",
	}}
}
