// Package calibrate keeps the "related" similarity cutoff aligned to a
// target top-fraction of recently observed scores. The calibrator is an
// explicit value owned by one pipeline invocation, not a process-wide
// singleton, so tests stay deterministic without global resets.
package calibrate

import (
	"math"
	"sort"

	"github.com/rs/zerolog"
)

// Thresholds is the persisted calibration slot.
type Thresholds struct {
	Related    float64 `json:"related"`
	TopicShift float64 `json:"topicShift"`
}

// Store is the durable slot for thresholds. Load returns (nil, nil)
// when nothing has been persisted yet.
type Store interface {
	Load() (*Thresholds, error)
	Save(Thresholds) error
}

// Defaults used when no persisted state exists.
const (
	DefaultRelated    = 0.5
	DefaultTopicShift = 0.2

	// maxRelated caps recalibration so a run of near-identical pages
	// cannot push the cutoff out of reach.
	maxRelated = 0.95

	// persistEpsilon gates store writes; sub-epsilon drift is not worth
	// the write amplification.
	persistEpsilon = 0.005
)

// Options tune the rolling-sample behavior.
type Options struct {
	Window            int     // rolling buffer capacity
	AdjustEvery       int     // observations between recomputations
	TargetTopFraction float64 // fraction of scores that should qualify as related
}

// DefaultOptions mirror the unconfigured system.
func DefaultOptions() Options {
	return Options{Window: 500, AdjustEvery: 100, TargetTopFraction: 0.33}
}

// Calibrator holds the rolling sample and the mutable related cutoff.
// Not safe for concurrent use; the pipeline is sequential.
type Calibrator struct {
	opts  Options
	store Store
	log   zerolog.Logger

	related       float64
	topicShift    float64
	lastPersisted float64

	buffer      []float64
	sinceAdjust int
}

// New builds a calibrator, seeding thresholds from the store when a
// persisted value exists and from defaults otherwise. A nil store means
// in-memory only. Store read failures fall back to defaults.
func New(opts Options, store Store, log zerolog.Logger) *Calibrator {
	c := &Calibrator{
		opts:       opts,
		store:      store,
		log:        log,
		related:    DefaultRelated,
		topicShift: DefaultTopicShift,
	}
	if c.opts.Window <= 0 {
		c.opts.Window = DefaultOptions().Window
	}
	if c.opts.AdjustEvery <= 0 {
		c.opts.AdjustEvery = DefaultOptions().AdjustEvery
	}
	if c.opts.TargetTopFraction <= 0 || c.opts.TargetTopFraction >= 1 {
		c.opts.TargetTopFraction = DefaultOptions().TargetTopFraction
	}

	if store != nil {
		persisted, err := store.Load()
		if err != nil {
			log.Warn().Err(err).Msg("threshold store load failed, using defaults")
		} else if persisted != nil {
			c.related = persisted.Related
			c.topicShift = persisted.TopicShift
		}
	}
	c.lastPersisted = c.related
	return c
}

// Related is the current cutoff above which a transition may classify
// as related.
func (c *Calibrator) Related() float64 { return c.related }

// TopicShift is the fixed floor below which a transition can only be a
// context switch.
func (c *Calibrator) TopicShift() float64 { return c.topicShift }

// Snapshot returns the current thresholds as a value.
func (c *Calibrator) Snapshot() Thresholds {
	return Thresholds{Related: c.related, TopicShift: c.topicShift}
}

// Observe appends a score to the rolling sample and recomputes the
// related cutoff on every AdjustEvery-th observation. With fewer
// observations than AdjustEvery the calibration simply has not fired
// yet; thresholds stay where they were.
func (c *Calibrator) Observe(score float64) {
	c.buffer = append(c.buffer, score)
	if len(c.buffer) > c.opts.Window {
		c.buffer = c.buffer[len(c.buffer)-c.opts.Window:]
	}

	c.sinceAdjust++
	if c.sinceAdjust < c.opts.AdjustEvery {
		return
	}
	c.sinceAdjust = 0
	c.recalibrate()
}

// recalibrate picks the (1 - TargetTopFraction) percentile of the
// rolling sample as the new related cutoff, clamped so it stays above
// the topic-shift floor and below maxRelated. The store is only written
// when the cutoff actually moved.
func (c *Calibrator) recalibrate() {
	if len(c.buffer) == 0 {
		return
	}

	sorted := make([]float64, len(c.buffer))
	copy(sorted, c.buffer)
	sort.Float64s(sorted)

	idx := int(float64(len(sorted)) * (1 - c.opts.TargetTopFraction))
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	candidate := sorted[idx]

	floor := c.topicShift + 0.01
	if candidate < floor {
		candidate = floor
	}
	if candidate > maxRelated {
		candidate = maxRelated
	}
	c.related = candidate

	if c.store != nil && math.Abs(c.related-c.lastPersisted) > persistEpsilon {
		if err := c.store.Save(c.Snapshot()); err != nil {
			c.log.Warn().Err(err).Msg("threshold store save failed")
		} else {
			c.lastPersisted = c.related
		}
	}
}

// SampleCount reports how many scores the rolling buffer currently
// holds, capped at Window.
func (c *Calibrator) SampleCount() int { return len(c.buffer) }
