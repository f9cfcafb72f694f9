package temporal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cogflow/cogflow/internal/model"
)

const gapMs = int64(5 * time.Minute / time.Millisecond)

// at builds an event at a wall-clock hour and minute in the local zone,
// matching how Analyze buckets timestamps.
func at(hour, minute int) model.VisitEvent {
	ts := time.Date(2026, time.January, 15, hour, minute, 0, 0, time.Local)
	return model.VisitEvent{URL: "https://example.com/", Domain: "example.com", Timestamp: ts.UnixMilli()}
}

func TestAnalyzeEmpty(t *testing.T) {
	profile := Analyze(nil, gapMs)

	assert.Equal(t, [24]int{}, profile.HourlyActivity)
	assert.Empty(t, profile.PeakHours)
	assert.Zero(t, profile.AvgSessionMinutes)
	assert.Nil(t, profile.RhythmPeriodMinutes)
}

func TestHourlyHistogram(t *testing.T) {
	events := []model.VisitEvent{at(9, 0), at(9, 10), at(9, 20), at(14, 0)}

	profile := Analyze(events, gapMs)
	assert.Equal(t, 3, profile.HourlyActivity[9])
	assert.Equal(t, 1, profile.HourlyActivity[14])
}

func TestPeakHours(t *testing.T) {
	// With only two active hours the percentile cutoff is zero, so every
	// non-zero hour is a peak.
	events := []model.VisitEvent{at(9, 0), at(9, 10), at(9, 20), at(14, 0)}

	profile := Analyze(events, gapMs)
	assert.Equal(t, []int{9, 14}, profile.PeakHours)
}

func TestPeakHoursCutoffExcludesQuietHours(t *testing.T) {
	// Seven active hours: one visit each in 8..13, three visits at 15.
	// The 75th-percentile cutoff rises to 1, so all of them qualify, but
	// the zero hours never do.
	var events []model.VisitEvent
	for h := 8; h <= 13; h++ {
		events = append(events, at(h, 0))
	}
	events = append(events, at(15, 0), at(15, 10), at(15, 20))

	profile := Analyze(events, gapMs)
	assert.NotContains(t, profile.PeakHours, 0)
	assert.Contains(t, profile.PeakHours, 15)
}

func TestAvgSessionMinutes(t *testing.T) {
	// Two gap-separated sessions: 9:00-9:04 (4 min) and 10:00-10:02 (2 min).
	events := []model.VisitEvent{
		at(9, 0), at(9, 2), at(9, 4),
		at(10, 0), at(10, 2),
	}

	profile := Analyze(events, gapMs)
	assert.InDelta(t, 3.0, profile.AvgSessionMinutes, 1e-9)
}

func TestAvgSessionMinutesSingleVisit(t *testing.T) {
	profile := Analyze([]model.VisitEvent{at(9, 0)}, gapMs)
	assert.Zero(t, profile.AvgSessionMinutes)
}

func TestRhythmPeriodOnPeakedActivity(t *testing.T) {
	// A concentrated burst gives the activity series real variance, so
	// some lag in the ultradian sweep must win.
	events := []model.VisitEvent{at(9, 0), at(9, 10), at(9, 20), at(11, 0)}

	profile := Analyze(events, gapMs)
	require.NotNil(t, profile.RhythmPeriodMinutes)
	lag := *profile.RhythmPeriodMinutes
	assert.GreaterOrEqual(t, lag, 90)
	assert.LessOrEqual(t, lag, 120)
	assert.Zero(t, lag%5)
}

func TestRhythmPeriodNilWithoutVariance(t *testing.T) {
	// One visit in every hour flattens the series completely.
	var events []model.VisitEvent
	for h := 0; h < 24; h++ {
		events = append(events, at(h, 0))
	}

	profile := Analyze(events, gapMs)
	assert.Nil(t, profile.RhythmPeriodMinutes)
}
