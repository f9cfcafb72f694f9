// Package complexity assigns a content-depth score to a visit from a
// per-domain prior adjusted by title keywords.
package complexity

import "strings"

// domainPriors is the fixed depth prior per well-known domain. Unknown
// domains get the neutral default.
var domainPriors = map[string]float64{
	"github.com":           0.7,
	"stackoverflow.com":    0.8,
	"arxiv.org":            0.9,
	"wikipedia.org":        0.6,
	"en.wikipedia.org":     0.6,
	"news.ycombinator.com": 0.6,
	"medium.com":           0.5,
	"reddit.com":           0.4,
	"twitter.com":          0.3,
	"x.com":                0.3,
	"youtube.com":          0.3,
	"netflix.com":          0.2,
	"instagram.com":        0.2,
	"tiktok.com":           0.2,
}

const defaultPrior = 0.5

var deepKeywords = []string{"documentation", "api", "tutorial", "research"}

var shallowKeywords = []string{"meme", "funny", "social"}

// Score rates the content depth of a page in [0,1]. Pure function of
// domain and title.
func Score(domain, title string) float64 {
	score, ok := domainPriors[domain]
	if !ok {
		score = defaultPrior
	}

	lowered := strings.ToLower(title)
	for _, kw := range deepKeywords {
		if strings.Contains(lowered, kw) {
			score += 0.1
		}
	}
	for _, kw := range shallowKeywords {
		if strings.Contains(lowered, kw) {
			score -= 0.1
		}
	}

	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
