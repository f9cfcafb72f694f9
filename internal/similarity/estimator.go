package similarity

import (
	"sync"

	"github.com/cogflow/cogflow/internal/model"
	"github.com/cogflow/cogflow/internal/textfeat"
)

// pairKey identifies an unordered pair of events by URL, so a score is
// computed once per pair regardless of argument order.
type pairKey struct {
	lo, hi string
}

func keyFor(a, b model.VisitEvent) pairKey {
	if a.URL <= b.URL {
		return pairKey{a.URL, b.URL}
	}
	return pairKey{b.URL, a.URL}
}

// Estimator is the public similarity surface: a backend plus a memo
// cache keyed by unordered pair. Symmetry is guaranteed by the key, not
// by trusting the backend.
type Estimator struct {
	backend Backend

	mu    sync.Mutex
	cache map[pairKey]float64
}

// NewEstimator builds an estimator over the given backend.
func NewEstimator(backend Backend) *Estimator {
	return &Estimator{
		backend: backend,
		cache:   make(map[pairKey]float64),
	}
}

// NewHeuristicEstimator is the no-embedding default: a heuristic-only
// estimator sharing the given feature extractor.
func NewHeuristicEstimator(extractor *textfeat.Extractor) *Estimator {
	return NewEstimator(NewHeuristicBackend(extractor))
}

// Similarity returns the [0,1] similarity of two events. The backend is
// expected to be wrapped so it cannot fail; if it somehow does, the
// score degrades to 0 rather than aborting the caller.
func (e *Estimator) Similarity(a, b model.VisitEvent) float64 {
	key := keyFor(a, b)

	e.mu.Lock()
	if score, ok := e.cache[key]; ok {
		e.mu.Unlock()
		return score
	}
	e.mu.Unlock()

	score, err := e.backend.Score(a, b)
	if err != nil {
		score = 0
	}

	e.mu.Lock()
	e.cache[key] = score
	e.mu.Unlock()
	return score
}
