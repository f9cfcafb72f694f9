// Package classify labels domain-to-domain transitions and aggregates
// them into the directed edge set the graph layer consumes.
package classify

import (
	"time"

	"github.com/cogflow/cogflow/internal/calibrate"
	"github.com/cogflow/cogflow/internal/model"
	"github.com/cogflow/cogflow/internal/similarity"
)

// Windows are the two time cutoffs of the classification policy.
type Windows struct {
	RelatedMs    int64 // within this AND above the related cutoff → related
	TopicShiftMs int64 // within this rescues a low-similarity move to topic_shift
}

// DefaultWindows mirror the unconfigured system: 5 and 30 minutes.
func DefaultWindows() Windows {
	return Windows{
		RelatedMs:    int64(5 * time.Minute / time.Millisecond),
		TopicShiftMs: int64(30 * time.Minute / time.Millisecond),
	}
}

// pair is an ordered domain pair; direction matters and reverse edges
// are never merged.
type pair struct {
	source, target string
}

// Classifier classifies consecutive visit pairs and accumulates them
// into one TransitionEdge per ordered domain pair. Every observed
// similarity is fed to the calibrator. Input events must already be
// sorted ascending by timestamp; the classifier does not re-sort.
type Classifier struct {
	estimator  *similarity.Estimator
	calibrator *calibrate.Calibrator
	windows    Windows

	edges map[pair]*model.TransitionEdge
	order []pair // first-seen order, keeps output deterministic
}

// New creates a Classifier.
func New(est *similarity.Estimator, cal *calibrate.Calibrator, windows Windows) *Classifier {
	return &Classifier{
		estimator:  est,
		calibrator: cal,
		windows:    windows,
		edges:      make(map[pair]*model.TransitionEdge),
	}
}

// Classify labels the move from prev to next and folds it into the edge
// set. Same-domain pairs are always skipped and reported false.
func (c *Classifier) Classify(prev, next model.VisitEvent) (model.TransitionEdge, bool) {
	if prev.Domain == next.Domain {
		return model.TransitionEdge{}, false
	}

	timeDiff := next.Timestamp - prev.Timestamp
	sim := c.estimator.Similarity(prev, next)
	c.calibrator.Observe(sim)

	var kind model.TransitionKind
	switch {
	case timeDiff <= c.windows.RelatedMs && sim >= c.calibrator.Related():
		kind = model.KindRelated
	case sim >= c.calibrator.TopicShift() || timeDiff <= c.windows.TopicShiftMs:
		kind = model.KindTopicShift
	default:
		kind = model.KindContextSwitch
	}

	key := pair{prev.Domain, next.Domain}
	edge, ok := c.edges[key]
	if !ok {
		edge = &model.TransitionEdge{
			SourceDomain:  prev.Domain,
			TargetDomain:  next.Domain,
			Weight:        1,
			Kind:          kind,
			Similarity:    sim,
			LastTimestamp: next.Timestamp,
		}
		c.edges[key] = edge
		c.order = append(c.order, key)
		return *edge, true
	}

	edge.Weight++
	edge.Kind = kind
	if sim > edge.Similarity {
		edge.Similarity = sim
	}
	if next.Timestamp > edge.LastTimestamp {
		edge.LastTimestamp = next.Timestamp
	}
	return *edge, true
}

// Edges returns the accumulated edges in first-seen order.
func (c *Classifier) Edges() []model.TransitionEdge {
	out := make([]model.TransitionEdge, 0, len(c.order))
	for _, key := range c.order {
		out = append(out, *c.edges[key])
	}
	return out
}
