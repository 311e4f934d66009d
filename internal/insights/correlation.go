package insights

import "sort"

const (
	// severityHalfSpan is half the 0-5 severity scale, so a full-scale swing
	// between group averages saturates the correlation at +/-1.
	severityHalfSpan = 2.5

	// minGroupSize is the minimum members per group before a binary factor
	// comparison is computed at all.
	minGroupSize = 2

	// fullConfidenceGroupSize is the with/without group size at which the
	// sample-size term of confidence reaches 1.
	fullConfidenceGroupSize = 5.0

	correlationThreshold = 0.2
	confidenceThreshold  = 0.3
)

// correlation converts two group averages into a bounded directional score.
func correlation(avgWith, avgWithout float64) float64 {
	return clamp((avgWith-avgWithout)/severityHalfSpan, -1, 1)
}

// binaryConfidence scores a with/without partition. It rewards adequate group
// size and coverage of the condition's rated history, and penalizes lopsided
// partitions. ratedCount is the number of rated check-ins for the condition.
func binaryConfidence(withSize, withoutSize, ratedCount int) float64 {
	if withSize == 0 || withoutSize == 0 || ratedCount == 0 {
		return 0
	}
	minSize, maxSize := withSize, withoutSize
	if minSize > maxSize {
		minSize, maxSize = maxSize, minSize
	}
	balance := float64(minSize) / float64(maxSize)
	coverage := float64(withSize+withoutSize) / float64(ratedCount)
	return clamp(float64(minSize)/fullConfidenceGroupSize*balance*coverage, 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// classify splits the factor analyses into triggers and protective factors
// and ranks each by strength. Factors with |correlation| <= 0.2 or
// confidence <= 0.3 are discarded: precision over recall, so small samples do
// not produce noisy conclusions. The returned slices are never nil.
func classify(analyses []FactorAnalysis) (triggers, protective []FactorAnalysis) {
	triggers = []FactorAnalysis{}
	protective = []FactorAnalysis{}
	for _, a := range analyses {
		if a.Confidence <= confidenceThreshold {
			continue
		}
		switch {
		case a.Correlation > correlationThreshold:
			triggers = append(triggers, a)
		case a.Correlation < -correlationThreshold:
			protective = append(protective, a)
		}
	}

	// Ties broken by factor name so identical input always ranks identically.
	sort.Slice(triggers, func(i, j int) bool {
		if triggers[i].Correlation != triggers[j].Correlation {
			return triggers[i].Correlation > triggers[j].Correlation
		}
		return triggers[i].Factor < triggers[j].Factor
	})
	sort.Slice(protective, func(i, j int) bool {
		if protective[i].Correlation != protective[j].Correlation {
			return protective[i].Correlation < protective[j].Correlation
		}
		return protective[i].Factor < protective[j].Factor
	})
	return triggers, protective
}
