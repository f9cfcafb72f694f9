// Package similarity scores how topically close two visits are, on a
// [0,1] scale. The default backend is a deterministic four-signal
// heuristic; a dense-embedding backend can be plugged in and falls back
// to the heuristic when it fails.
package similarity

import (
	"strings"

	"github.com/cogflow/cogflow/internal/model"
	"github.com/cogflow/cogflow/internal/textfeat"
)

// Backend scores a pair of visits. Implementations must be symmetric in
// their arguments.
type Backend interface {
	Score(a, b model.VisitEvent) (float64, error)
}

// companyTable groups domains known to belong to one company. Both
// domains landing in the same row means the visits almost certainly
// share an intent even with zero token overlap.
var companyTable = [][]string{
	{"google.com", "youtube.com", "gmail.com", "googleusercontent.com", "google.dev"},
	{"anthropic.com", "claude.ai"},
	{"openai.com", "chatgpt.com"},
	{"microsoft.com", "github.com", "linkedin.com", "bing.com", "live.com", "office.com"},
	{"meta.com", "facebook.com", "instagram.com", "whatsapp.com", "threads.net"},
	{"amazon.com", "aws.amazon.com", "audible.com", "twitch.tv"},
	{"apple.com", "icloud.com"},
	{"stackoverflow.com", "stackexchange.com", "superuser.com", "serverfault.com"},
	{"mozilla.org", "firefox.com"},
	{"x.com", "twitter.com"},
}

// institutionalTLDs is the small allow-list whose shared suffix counts
// as a weak relation.
var institutionalTLDs = []string{"edu", "gov", "org"}

// Signals are the four independently testable inputs to the combiner.
type Signals struct {
	GroupCosine     float64
	TokenJaccard    float64
	DomainRelation  float64
	CompanyRelation float64
}

// HeuristicBackend combines token and domain heuristics. It never
// fails, which makes it the terminal fallback.
type HeuristicBackend struct {
	extractor *textfeat.Extractor
}

// NewHeuristicBackend creates a heuristic backend sharing the given
// feature extractor (and its cache).
func NewHeuristicBackend(extractor *textfeat.Extractor) *HeuristicBackend {
	return &HeuristicBackend{extractor: extractor}
}

// Signals computes the four raw signals for a pair.
func (h *HeuristicBackend) Signals(a, b model.VisitEvent) Signals {
	fa := h.extractor.Features(a)
	fb := h.extractor.Features(b)
	return Signals{
		GroupCosine:     textfeat.Cosine(fa.Weights, fb.Weights),
		TokenJaccard:    textfeat.Jaccard(fa.Tokens, fb.Tokens),
		DomainRelation:  DomainRelation(a.Domain, b.Domain),
		CompanyRelation: CompanyRelation(a.Domain, b.Domain),
	}
}

// Score combines the four signals. When the domains themselves signal a
// strong relation the weighting shifts toward the domain signals and
// flat bonuses are added; the pre-clamp sum can exceed 1.0 and the
// final clamp, not the weights, enforces the bound.
func (h *HeuristicBackend) Score(a, b model.VisitEvent) (float64, error) {
	return Combine(h.Signals(a, b)), nil
}

// Combine applies the adaptive weighting policy to a signal set.
func Combine(s Signals) float64 {
	var score float64
	if s.DomainRelation >= 0.6 || s.CompanyRelation >= 0.9 {
		score = 0.2*s.GroupCosine + 0.3*s.TokenJaccard +
			0.2*s.DomainRelation + 0.3*s.CompanyRelation
		if s.DomainRelation >= 0.6 {
			score += 0.4
		}
		if s.CompanyRelation >= 0.9 {
			score += 0.3
		}
	} else {
		score = 0.4*s.GroupCosine + 0.3*s.TokenJaccard +
			0.2*s.DomainRelation + 0.1*s.CompanyRelation
	}
	return clamp01(score)
}

// DomainRelation scores the structural relation of two domains:
// identical 1.0, shared institutional TLD 0.3, one containing the other
// (subdomain heuristic) 0.6, otherwise 0.
func DomainRelation(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if a == "" || b == "" {
		return 0
	}
	for _, tld := range institutionalTLDs {
		if strings.HasSuffix(a, "."+tld) && strings.HasSuffix(b, "."+tld) {
			return 0.3
		}
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return 0.6
	}
	return 0
}

// CompanyRelation is 1.0 when both domains fall under the same company
// table row, else 0. A domain matches a row entry exactly or as a
// subdomain of it.
func CompanyRelation(a, b string) float64 {
	for _, row := range companyTable {
		if matchesRow(a, row) && matchesRow(b, row) {
			return 1.0
		}
	}
	return 0
}

func matchesRow(domain string, row []string) bool {
	for _, entry := range row {
		if domain == entry || strings.HasSuffix(domain, "."+entry) {
			return true
		}
	}
	return false
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
