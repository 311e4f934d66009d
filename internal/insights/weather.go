package insights

import (
	"fmt"
	"sort"

	"github.com/heathtechnical/FlareTracker-sub000/internal/store"
)

const (
	// minWeatherPopulation is the minimum rated-with-weather entries before
	// any weather comparison is attempted.
	minWeatherPopulation = 5
	// minWeatherCategory is the minimum occurrences of a single weather value
	// before that category is analyzed.
	minWeatherCategory = 2
	// weatherConfidenceCap discounts weather confidence because categories
	// are compared against the population baseline, not a held-out
	// complementary group the way binary factors are.
	weatherConfidenceCap = 0.8
)

type weatherText struct {
	description    string
	recommendation string
}

var weatherTexts = map[string]weatherText{
	"Humid": {
		description:    "Humid weather days",
		recommendation: "Consider a dehumidifier indoors and lighter clothing on humid days",
	},
	"Dry": {
		description:    "Dry weather days",
		recommendation: "Moisturize regularly and consider a humidifier on dry days",
	},
	"Hot": {
		description:    "Hot weather days",
		recommendation: "Stay cool and hydrated during hot spells",
	},
	"Cold": {
		description:    "Cold weather days",
		recommendation: "Protect exposed skin and keep warm in cold weather",
	},
	"Rainy": {
		description:    "Rainy weather days",
		recommendation: "Note whether damp conditions coincide with flares",
	},
	"Sunny": {
		description:    "Sunny weather days",
		recommendation: "Use sun protection and watch for light-triggered flares",
	},
	"Cloudy": {
		description:    "Cloudy weather days",
		recommendation: "Note whether overcast conditions coincide with flares",
	},
	"Windy": {
		description:    "Windy weather days",
		recommendation: "Wind can carry irritants; consider covering up on windy days",
	},
}

// analyzeWeatherFactors groups the condition's rated severities by reported
// weather and compares each category's average against the population
// baseline average. This differs from the binary extractors on purpose:
// weather is categorical, so there is no single complementary group.
func analyzeWeatherFactors(checkIns []store.CheckIn, conditionID string) []FactorAnalysis {
	var population []float64
	byWeather := make(map[string][]float64)
	for i := range checkIns {
		entry := checkIns[i].EntryFor(conditionID)
		if entry == nil || !entry.Severity.IsSet() {
			continue
		}
		weather := checkIns[i].Factors.Weather
		if weather == "" {
			continue
		}
		severity := float64(entry.Severity)
		population = append(population, severity)
		byWeather[weather] = append(byWeather[weather], severity)
	}

	if len(population) < minWeatherPopulation {
		return nil
	}
	baseline := mean(population)

	// Map iteration order is random; sort the labels so output is stable.
	labels := make([]string, 0, len(byWeather))
	for label := range byWeather {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	var analyses []FactorAnalysis
	for _, label := range labels {
		severities := byWeather[label]
		if len(severities) < minWeatherCategory {
			continue
		}
		avg := mean(severities)
		text, ok := weatherTexts[label]
		if !ok {
			text = weatherText{
				description:    fmt.Sprintf("%s weather days", label),
				recommendation: fmt.Sprintf("Note whether %s weather coincides with flares", label),
			}
		}
		analyses = append(analyses, FactorAnalysis{
			Factor:             fmt.Sprintf("%s Weather", label),
			Type:               FactorEnvironmental,
			Correlation:        correlation(avg, baseline),
			Confidence:         weatherConfidence(len(severities)),
			Occurrences:        len(severities),
			AvgSeverityWith:    avg,
			AvgSeverityWithout: baseline,
			Description:        text.description,
			Recommendation:     text.recommendation,
		})
	}
	return analyses
}

func weatherConfidence(count int) float64 {
	return clamp(float64(count)/fullConfidenceGroupSize, 0, 1) * weatherConfidenceCap
}
