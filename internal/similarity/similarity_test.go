package similarity

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cogflow/cogflow/internal/model"
	"github.com/cogflow/cogflow/internal/textfeat"
)

func visit(url, domain, title string) model.VisitEvent {
	return model.VisitEvent{URL: url, Domain: domain, Title: title, Timestamp: 0}
}

func newHeuristic() *HeuristicBackend {
	return NewHeuristicBackend(textfeat.NewExtractor())
}

func TestDomainRelation(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "github.com", "github.com", 1.0},
		{"institutional tld", "mit.edu", "stanford.edu", 0.3},
		{"subdomain containment", "docs.github.com", "github.com", 0.6},
		{"unrelated", "github.com", "youtube.com", 0},
		{"empty", "", "github.com", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DomainRelation(tt.a, tt.b))
			assert.Equal(t, tt.want, DomainRelation(tt.b, tt.a))
		})
	}
}

func TestCompanyRelation(t *testing.T) {
	assert.Equal(t, 1.0, CompanyRelation("youtube.com", "google.com"))
	assert.Equal(t, 1.0, CompanyRelation("claude.ai", "anthropic.com"))
	assert.Equal(t, 0.0, CompanyRelation("github.com", "reddit.com"))

	// Subdomains of a table entry still match the row.
	assert.Equal(t, 1.0, CompanyRelation("docs.anthropic.com", "claude.ai"))
}

func TestCombineWeakBranch(t *testing.T) {
	s := Signals{GroupCosine: 0.5, TokenJaccard: 0.5, DomainRelation: 0, CompanyRelation: 0}
	assert.InDelta(t, 0.4*0.5+0.3*0.5, Combine(s), 1e-9)
}

func TestCombineStrongBranchClamps(t *testing.T) {
	// With full signals the pre-clamp sum is 0.2+0.3+0.2+0.3+0.4+0.3 = 1.7.
	// The clamp, not the weights, enforces the [0,1] bound.
	s := Signals{GroupCosine: 1, TokenJaccard: 1, DomainRelation: 1, CompanyRelation: 1}
	assert.Equal(t, 1.0, Combine(s))

	// Even with zero text overlap the domain bonus alone clears 0.6.
	s = Signals{DomainRelation: 1}
	assert.InDelta(t, 0.2*1+0.4, Combine(s), 1e-9)
}

func TestCompanyPairScoresHighWithZeroTokenOverlap(t *testing.T) {
	h := newHeuristic()
	a := visit("https://claude.ai/chat", "claude.ai", "")
	b := visit("https://docs.anthropic.com/en/docs", "docs.anthropic.com", "")

	sig := h.Signals(a, b)
	assert.Equal(t, 1.0, sig.CompanyRelation)
	assert.Zero(t, sig.TokenJaccard)

	score, err := h.Score(a, b)
	require.NoError(t, err)
	// Company branch: 0.3*1.0 weight plus the 0.3 bonus.
	assert.GreaterOrEqual(t, score, 0.6)
}

func TestEstimatorSymmetry(t *testing.T) {
	est := NewHeuristicEstimator(textfeat.NewExtractor())
	a := visit("https://github.com/a", "github.com", "Go Modules Reference")
	b := visit("https://stackoverflow.com/q/1", "stackoverflow.com", "How do Go modules work")

	assert.Equal(t, est.Similarity(a, b), est.Similarity(b, a))
}

func TestEstimatorSelfSimilarity(t *testing.T) {
	est := NewHeuristicEstimator(textfeat.NewExtractor())
	a := visit("https://github.com/golang", "github.com", "The Go Programming Language")

	assert.Equal(t, 1.0, est.Similarity(a, a))
}

func TestEstimatorCachesPairs(t *testing.T) {
	calls := 0
	est := NewEstimator(backendFunc(func(a, b model.VisitEvent) (float64, error) {
		calls++
		return 0.42, nil
	}))
	a := visit("https://a.com/", "a.com", "A")
	b := visit("https://b.com/", "b.com", "B")

	est.Similarity(a, b)
	est.Similarity(b, a) // unordered key, no second backend call
	assert.Equal(t, 1, calls)
}

func TestEmbeddingBackendScore(t *testing.T) {
	vectors := map[string][]float32{
		EmbedText(visit("", "a.com", "alpha")): {1, 0},
		EmbedText(visit("", "b.com", "beta")):  {1, 0},
		EmbedText(visit("", "c.com", "gamma")): {0, 1},
	}
	backend := NewEmbeddingBackend(vectorizerFunc(func(text string) ([]float32, error) {
		v, ok := vectors[text]
		if !ok {
			return nil, errors.New("unknown text")
		}
		return v, nil
	}))

	same, err := backend.Score(visit("", "a.com", "alpha"), visit("", "b.com", "beta"))
	require.NoError(t, err)
	assert.InDelta(t, 1.0, same, 1e-6)

	orth, err := backend.Score(visit("", "a.com", "alpha"), visit("", "c.com", "gamma"))
	require.NoError(t, err)
	assert.InDelta(t, 0.0, orth, 1e-6)
}

func TestFallbackBackend(t *testing.T) {
	failing := backendFunc(func(a, b model.VisitEvent) (float64, error) {
		return 0, errors.New("model down")
	})
	fb := &FallbackBackend{
		Primary:  failing,
		Fallback: newHeuristic(),
		Log:      zerolog.Nop(),
	}

	a := visit("https://github.com/x", "github.com", "Go")
	score, err := fb.Score(a, a)
	require.NoError(t, err)
	assert.Equal(t, 1.0, score) // heuristic self-similarity
}

func TestCosineVec(t *testing.T) {
	assert.InDelta(t, 1.0, CosineVec([]float32{1, 2}, []float32{2, 4}), 1e-6)
	assert.Zero(t, CosineVec([]float32{1, 0}, []float32{0, 1}))
	assert.Zero(t, CosineVec([]float32{1}, []float32{1, 2})) // length mismatch
	assert.Zero(t, CosineVec(nil, nil))
}

// backendFunc adapts a func to the Backend interface.
type backendFunc func(a, b model.VisitEvent) (float64, error)

func (f backendFunc) Score(a, b model.VisitEvent) (float64, error) { return f(a, b) }

// vectorizerFunc adapts a func to the Vectorizer interface.
type vectorizerFunc func(text string) ([]float32, error)

func (f vectorizerFunc) Vector(text string) ([]float32, error) { return f(text) }
