package similarity

import (
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog"

	"github.com/cogflow/cogflow/internal/model"
)

// Vectorizer produces a dense vector for a normalized text. The
// embedding package supplies the real implementation; keeping the
// interface here lets tests plug in fixed vectors.
type Vectorizer interface {
	Vector(text string) ([]float32, error)
}

// EmbeddingBackend scores pairs by cosine similarity of dense vectors
// obtained from an external model. It can fail (network, model down)
// and is expected to be wrapped in a FallbackBackend.
type EmbeddingBackend struct {
	vectorizer Vectorizer
}

// NewEmbeddingBackend creates an embedding-based backend.
func NewEmbeddingBackend(v Vectorizer) *EmbeddingBackend {
	return &EmbeddingBackend{vectorizer: v}
}

// EmbedText is the normalized text an event is embedded as. It is also
// the stable input the cache keys on.
func EmbedText(ev model.VisitEvent) string {
	return strings.ToLower(strings.TrimSpace(ev.Title + " " + ev.Domain))
}

// Score embeds both events and returns the cosine of their vectors,
// clamped into [0,1] (a rare negative cosine floors at 0).
func (e *EmbeddingBackend) Score(a, b model.VisitEvent) (float64, error) {
	va, err := e.vectorizer.Vector(EmbedText(a))
	if err != nil {
		return 0, fmt.Errorf("embed %q: %w", a.Domain, err)
	}
	vb, err := e.vectorizer.Vector(EmbedText(b))
	if err != nil {
		return 0, fmt.Errorf("embed %q: %w", b.Domain, err)
	}
	return clamp01(CosineVec(va, vb)), nil
}

// CosineVec is the cosine similarity of two dense vectors; mismatched
// or zero-norm vectors score 0.
func CosineVec(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// FallbackBackend tries a primary backend and on failure delegates to a
// fallback. A failing embedding call degrades the score quality, never
// the run.
type FallbackBackend struct {
	Primary  Backend
	Fallback Backend
	Log      zerolog.Logger
}

// Score delegates to Primary, falling back on error.
func (f *FallbackBackend) Score(a, b model.VisitEvent) (float64, error) {
	score, err := f.Primary.Score(a, b)
	if err == nil {
		return score, nil
	}
	f.Log.Warn().Err(err).
		Str("source", a.Domain).
		Str("target", b.Domain).
		Msg("similarity backend failed, using heuristic fallback")
	return f.Fallback.Score(a, b)
}
