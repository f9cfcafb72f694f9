// Package temporal derives activity rhythms from raw timestamps alone:
// hourly histograms, peak hours, gap-based session length, and an
// ultradian periodicity estimate.
package temporal

import (
	"sort"
	"time"

	"github.com/cogflow/cogflow/internal/model"
)

// Autocorrelation lag sweep for the ultradian rhythm estimate, in
// minutes. Ultradian cycles sit around 90–120 minutes.
const (
	minLag  = 90
	maxLag  = 120
	lagStep = 5
)

// Analyze computes the temporal profile of a chronologically sorted
// event log. gapMs is the same session-gap constant the segmenter uses,
// but only raw gaps are measured here, never content similarity.
func Analyze(events []model.VisitEvent, gapMs int64) model.TemporalProfile {
	var profile model.TemporalProfile
	if len(events) == 0 {
		return profile
	}

	for _, ev := range events {
		hour := time.UnixMilli(ev.Timestamp).Hour()
		profile.HourlyActivity[hour]++
	}

	profile.PeakHours = peakHours(profile.HourlyActivity)
	profile.AvgSessionMinutes = avgSessionMinutes(events, gapMs)
	profile.RhythmPeriodMinutes = rhythmPeriod(profile.HourlyActivity)
	return profile
}

// peakHours returns the hours whose visit count reaches the 75th
// percentile of hourly counts and is non-zero.
func peakHours(hourly [24]int) []int {
	sorted := make([]int, 24)
	copy(sorted, hourly[:])
	sort.Ints(sorted)
	cutoff := sorted[18] // 75th percentile of 24 buckets

	var peaks []int
	for hour, count := range hourly {
		if count > 0 && count >= cutoff {
			peaks = append(peaks, hour)
		}
	}
	return peaks
}

// avgSessionMinutes splits the stream on raw gaps larger than gapMs and
// averages the resulting session durations.
func avgSessionMinutes(events []model.VisitEvent, gapMs int64) float64 {
	sessionStart := events[0].Timestamp
	prev := events[0].Timestamp
	var total float64
	sessions := 0

	for _, ev := range events[1:] {
		if ev.Timestamp-prev > gapMs {
			total += float64(prev-sessionStart) / 60000.0
			sessions++
			sessionStart = ev.Timestamp
		}
		prev = ev.Timestamp
	}
	total += float64(prev-sessionStart) / 60000.0
	sessions++

	return total / float64(sessions)
}

// rhythmPeriod estimates the dominant ultradian period by testing the
// autocorrelation of a synthetic per-minute activity series (each hourly
// count spread evenly across its 60 minutes) at lags 90–120 minutes in
// 5-minute steps. Returns nil when the series is degenerate: too short
// for the largest lag, or without variance.
func rhythmPeriod(hourly [24]int) *int {
	series := make([]float64, 24*60)
	for hour, count := range hourly {
		perMinute := float64(count) / 60.0
		for m := 0; m < 60; m++ {
			series[hour*60+m] = perMinute
		}
	}

	if len(series) < 2*maxLag {
		return nil
	}

	var mean float64
	for _, v := range series {
		mean += v
	}
	mean /= float64(len(series))

	var variance float64
	for _, v := range series {
		variance += (v - mean) * (v - mean)
	}
	if variance == 0 {
		return nil
	}

	bestLag := 0
	bestCorr := 0.0
	found := false
	for lag := minLag; lag <= maxLag; lag += lagStep {
		var num float64
		for t := 0; t+lag < len(series); t++ {
			num += (series[t] - mean) * (series[t+lag] - mean)
		}
		corr := num / variance
		if !found || corr > bestCorr {
			bestLag, bestCorr, found = lag, corr, true
		}
	}
	if !found {
		return nil
	}
	return &bestLag
}
