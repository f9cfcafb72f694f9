// Package segment partitions a chronologically sorted visit log into
// focus sessions and information-foraging chains. Sessions keep
// singletons so they partition the input exactly; chains discard them
// because a single page is not foraging.
package segment

import (
	"time"

	"github.com/cogflow/cogflow/internal/complexity"
	"github.com/cogflow/cogflow/internal/model"
	"github.com/cogflow/cogflow/internal/textfeat"
)

// minDurationMinutes floors run durations so per-minute rates never
// divide by zero.
const minDurationMinutes = 0.01

// Options tune the continuity predicates. Both passes share the gap;
// the jaccard cutoffs differ and chains ignore domain equality.
type Options struct {
	GapMs             int64
	SessionJaccardMin float64
	ChainJaccardMin   float64
}

// DefaultOptions mirror the unconfigured system.
func DefaultOptions() Options {
	return Options{
		GapMs:             int64(5 * time.Minute / time.Millisecond),
		SessionJaccardMin: 0.4,
		ChainJaccardMin:   0.3,
	}
}

// Segmenter runs both segmentation passes over one event stream.
type Segmenter struct {
	opts Options
}

// New creates a Segmenter.
func New(opts Options) *Segmenter {
	return &Segmenter{opts: opts}
}

// Sessions partitions events into focus sessions. Consecutive events
// stay in one session when the gap is short AND they are on the same
// domain or their title+domain tokens overlap enough. Every event lands
// in exactly one session, singletons included.
func (s *Segmenter) Sessions(events []model.VisitEvent) []model.FocusSession {
	var sessions []model.FocusSession
	for _, run := range s.split(events, s.sessionContinues) {
		sessions = append(sessions, model.FocusSession{
			Events:          run,
			DurationMinutes: runDuration(run),
			PageCount:       len(run),
			AvgComplexity:   avgComplexity(run),
		})
	}
	return sessions
}

// Chains extracts information-foraging chains: the stricter pass where
// only token overlap counts (same domain alone is not coherence) and
// runs of length 1 are dropped.
func (s *Segmenter) Chains(events []model.VisitEvent) []model.InformationChain {
	var chains []model.InformationChain
	for _, run := range s.split(events, s.chainContinues) {
		if len(run) < 2 {
			continue
		}
		dur := runDuration(run)
		chains = append(chains, model.InformationChain{
			Events:          run,
			DurationMinutes: dur,
			PageCount:       len(run),
			AvgComplexity:   avgComplexity(run),
			ScentStrength:   float64(len(run)) / dur,
		})
	}
	return chains
}

// split walks the sorted stream once, closing the current run whenever
// the continuity predicate breaks.
func (s *Segmenter) split(events []model.VisitEvent, continues func(prev, cur model.VisitEvent) bool) [][]model.VisitEvent {
	if len(events) == 0 {
		return nil
	}
	var runs [][]model.VisitEvent
	current := []model.VisitEvent{events[0]}
	for i := 1; i < len(events); i++ {
		if continues(events[i-1], events[i]) {
			current = append(current, events[i])
			continue
		}
		runs = append(runs, current)
		current = []model.VisitEvent{events[i]}
	}
	return append(runs, current)
}

func (s *Segmenter) sessionContinues(prev, cur model.VisitEvent) bool {
	if cur.Timestamp-prev.Timestamp > s.opts.GapMs {
		return false
	}
	if prev.Domain == cur.Domain {
		return true
	}
	return contentOverlap(prev, cur) > s.opts.SessionJaccardMin
}

func (s *Segmenter) chainContinues(prev, cur model.VisitEvent) bool {
	if cur.Timestamp-prev.Timestamp > s.opts.GapMs {
		return false
	}
	return contentOverlap(prev, cur) > s.opts.ChainJaccardMin
}

func contentOverlap(a, b model.VisitEvent) float64 {
	return textfeat.Jaccard(textfeat.TitleDomainTokens(a), textfeat.TitleDomainTokens(b))
}

func runDuration(run []model.VisitEvent) float64 {
	dur := float64(run[len(run)-1].Timestamp-run[0].Timestamp) / 60000.0
	if dur < minDurationMinutes {
		return minDurationMinutes
	}
	return dur
}

func avgComplexity(run []model.VisitEvent) float64 {
	var sum float64
	for _, ev := range run {
		sum += complexity.Score(ev.Domain, ev.Title)
	}
	return sum / float64(len(run))
}
