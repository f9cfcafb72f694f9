// Package insights turns the derived analyses into a short labeled
// report with rule-based recommendations. No hidden state; the same
// inputs always yield the same output.
package insights

import (
	"github.com/cogflow/cogflow/internal/model"
)

// peakComplexityMin is the depth an hour's average must reach to count
// as a high-complexity period.
const peakComplexityMin = 0.6

// Fixed recommendation thresholds.
const (
	shortFocusMinutes = 5.0
	highSwitchRate    = 0.6
	lowDiversityBits  = 1.0
)

// Generate builds the insight summary from the component outputs.
func Generate(
	temporal model.TemporalProfile,
	sessions []model.FocusSession,
	complexityByHour [24]float64,
	edges []model.TransitionEdge,
	metrics model.GraphMetrics,
) model.Insights {
	ins := model.Insights{
		PeakComplexityHours:  peakComplexityHours(complexityByHour, temporal.HourlyActivity),
		AvgFocusMinutes:      avgFocusMinutes(sessions),
		TopicSwitchRate:      switchRate(edges),
		InformationDiversity: metrics.InformationDiversity,
	}

	if len(sessions) > 0 && ins.AvgFocusMinutes < shortFocusMinutes {
		ins.Recommendations = append(ins.Recommendations,
			"Focus periods are short (under 5 minutes on average). Consider batching related reading into longer blocks.")
	}
	if len(sessions) > 0 && len(ins.PeakComplexityHours) == 0 {
		ins.Recommendations = append(ins.Recommendations,
			"No high-complexity periods detected. Deep reading may be getting crowded out by lighter browsing.")
	}
	if ins.TopicSwitchRate > highSwitchRate {
		ins.Recommendations = append(ins.Recommendations,
			"Attention jumps between unrelated topics more often than it stays. Grouping tasks by topic could reduce context switching.")
	}
	if len(edges) > 0 && ins.InformationDiversity < lowDiversityBits {
		ins.Recommendations = append(ins.Recommendations,
			"Browsing is concentrated on very few domains. Broader sources may surface more diverse information.")
	}

	return ins
}

// peakComplexityHours lists the active hours whose average content
// depth reaches the peak cutoff.
func peakComplexityHours(byHour [24]float64, activity [24]int) []int {
	var hours []int
	for hour, avg := range byHour {
		if activity[hour] > 0 && avg >= peakComplexityMin {
			hours = append(hours, hour)
		}
	}
	return hours
}

func avgFocusMinutes(sessions []model.FocusSession) float64 {
	if len(sessions) == 0 {
		return 0
	}
	var total float64
	for _, s := range sessions {
		total += s.DurationMinutes
	}
	return total / float64(len(sessions))
}

// switchRate is the weighted fraction of transitions that left the
// current topic (topic shifts and context switches both count).
func switchRate(edges []model.TransitionEdge) float64 {
	total := 0
	switches := 0
	for _, e := range edges {
		total += e.Weight
		if e.Kind != model.KindRelated {
			switches += e.Weight
		}
	}
	if total == 0 {
		return 0
	}
	return float64(switches) / float64(total)
}
