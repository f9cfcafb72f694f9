// Package textfeat turns visit events into normalized token sets and
// semantic-group weight vectors. It is the leaf every similarity signal
// builds on and has no dependencies beyond the data model.
package textfeat

import (
	"math"
	"net/url"
	"strings"
	"sync"
	"unicode"

	"github.com/cogflow/cogflow/internal/model"
)

// FeatureVector is the derived text representation of a VisitEvent.
// Computed on demand and cached by URL; never mutated after creation.
type FeatureVector struct {
	Tokens  map[string]struct{}
	Weights map[string]float64 // token + topic-group slots, L2-normalized
	Domain  string
}

// stopwords covers articles, prepositions, and common web boilerplate.
var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "are": {}, "but": {}, "not": {},
	"you": {}, "all": {}, "with": {}, "from": {}, "this": {}, "that": {},
	"was": {}, "were": {}, "been": {}, "have": {}, "has": {}, "had": {},
	"can": {}, "will": {}, "your": {}, "what": {}, "when": {}, "where": {},
	"how": {}, "why": {}, "who": {}, "which": {}, "into": {}, "onto": {},
	"about": {}, "over": {}, "under": {}, "www": {}, "com": {}, "org": {},
	"net": {}, "html": {}, "htm": {}, "php": {}, "index": {}, "page": {},
	"home": {}, "https": {}, "http": {},
}

// topicGroups maps a semantic group name to the keywords that vote for
// it. A token may belong to more than one group.
var topicGroups = map[string][]string{
	"ai_tech": {
		"machine", "learning", "neural", "model", "models", "llm", "gpt",
		"claude", "openai", "anthropic", "transformer", "embedding",
		"artificial", "intelligence", "dataset", "training", "inference",
	},
	"programming": {
		"code", "coding", "programming", "developer", "github", "golang",
		"python", "javascript", "typescript", "rust", "java", "api",
		"library", "framework", "debug", "compiler", "stack", "overflow",
		"function", "git", "docker", "kubernetes", "database", "sql",
	},
	"career": {
		"job", "jobs", "career", "resume", "interview", "salary", "hiring",
		"linkedin", "recruiter", "promotion", "internship",
	},
	"social": {
		"twitter", "facebook", "instagram", "reddit", "tiktok", "thread",
		"tweet", "follow", "friends", "chat", "messenger", "discord",
	},
	"news": {
		"news", "breaking", "politics", "election", "economy", "report",
		"headline", "journal", "times", "daily", "world",
	},
	"shopping": {
		"buy", "price", "deal", "deals", "shop", "shopping", "amazon",
		"cart", "order", "shipping", "discount", "sale", "review",
	},
	"video": {
		"video", "youtube", "watch", "stream", "streaming", "episode",
		"movie", "netflix", "trailer", "twitch", "playlist",
	},
	"education": {
		"course", "courses", "learn", "tutorial", "lecture", "university",
		"school", "study", "exam", "wiki", "wikipedia", "research",
		"paper", "arxiv", "journal", "thesis",
	},
}

const (
	tokenWeight = 0.3
	groupWeight = 2.0
)

// Extractor computes feature vectors with a per-URL cache. VisitEvents
// are immutable, so a URL's vector never goes stale.
type Extractor struct {
	mu    sync.RWMutex
	cache map[string]*FeatureVector
}

// NewExtractor creates an Extractor with an empty cache.
func NewExtractor() *Extractor {
	return &Extractor{cache: make(map[string]*FeatureVector)}
}

// Features returns the feature vector for an event, computing and
// caching it on first use.
func (e *Extractor) Features(ev model.VisitEvent) *FeatureVector {
	e.mu.RLock()
	if fv, ok := e.cache[ev.URL]; ok {
		e.mu.RUnlock()
		return fv
	}
	e.mu.RUnlock()

	fv := Extract(ev)

	e.mu.Lock()
	e.cache[ev.URL] = fv
	e.mu.Unlock()
	return fv
}

// Extract computes a feature vector without caching.
func Extract(ev model.VisitEvent) *FeatureVector {
	tokens := make(map[string]struct{})
	for _, t := range tokenizeTitle(ev.Title) {
		tokens[t] = struct{}{}
	}
	for _, t := range pathTokens(ev.URL) {
		tokens[t] = struct{}{}
	}
	for _, t := range domainTokens(ev.Domain) {
		tokens[t] = struct{}{}
	}

	for t := range tokens {
		if len(t) <= 2 {
			delete(tokens, t)
			continue
		}
		if _, stop := stopwords[t]; stop {
			delete(tokens, t)
		}
	}

	weights := make(map[string]float64, len(tokens))
	for t := range tokens {
		weights[t] += tokenWeight
		for group, kws := range topicGroups {
			for _, kw := range kws {
				if t == kw {
					weights["topic:"+group] += groupWeight
					break
				}
			}
		}
	}
	normalize(weights)

	return &FeatureVector{Tokens: tokens, Weights: weights, Domain: ev.Domain}
}

// tokenizeTitle lowercases, maps punctuation to whitespace, and splits.
func tokenizeTitle(title string) []string {
	lowered := strings.ToLower(title)
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return ' '
	}, lowered)
	return strings.Fields(cleaned)
}

// pathTokens splits the URL path into meaningful segments: numeric-only
// and short segments are dropped, the rest are split on - and _.
// Malformed URLs yield no tokens rather than an error.
func pathTokens(rawURL string) []string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil
	}
	var out []string
	for _, seg := range strings.Split(u.Path, "/") {
		seg = strings.ToLower(seg)
		if len(seg) <= 2 || isNumeric(seg) {
			continue
		}
		for _, part := range strings.FieldsFunc(seg, func(r rune) bool {
			return r == '-' || r == '_'
		}) {
			out = append(out, part)
		}
	}
	return out
}

func domainTokens(domain string) []string {
	parts := strings.Split(strings.ToLower(domain), ".")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// normalize scales a weight map to unit L2 norm in place. An empty map
// stays empty; downstream cosine treats it as similarity 0.
func normalize(weights map[string]float64) {
	var sum float64
	for _, w := range weights {
		sum += w * w
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for k, w := range weights {
		weights[k] = w / norm
	}
}

// Cosine is the cosine similarity of two weight maps. Either map being
// empty yields 0.
func Cosine(a, b map[string]float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	small, large := a, b
	if len(b) < len(a) {
		small, large = b, a
	}
	var dot, normA, normB float64
	for k, w := range small {
		if v, ok := large[k]; ok {
			dot += w * v
		}
	}
	for _, w := range a {
		normA += w * w
	}
	for _, w := range b {
		normB += w * w
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Jaccard is |a∩b| / |a∪b| over token sets; 0 when the union is empty.
func Jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	inter := 0
	small, large := a, b
	if len(b) < len(a) {
		small, large = b, a
	}
	for t := range small {
		if _, ok := large[t]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// TitleDomainTokens is the looser token set the segmenter compares:
// title words plus domain parts, stopwords kept out but short tokens
// allowed so sparse titles still overlap.
func TitleDomainTokens(ev model.VisitEvent) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, t := range tokenizeTitle(ev.Title) {
		if _, stop := stopwords[t]; !stop {
			tokens[t] = struct{}{}
		}
	}
	for _, t := range domainTokens(ev.Domain) {
		tokens[t] = struct{}{}
	}
	return tokens
}
