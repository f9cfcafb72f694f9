// Package graphmetrics computes graph-level measures over the domain
// adjacency graph: an approximate betweenness "hub" score and a
// Shannon-entropy information-diversity score.
package graphmetrics

import (
	"math"
	"sort"

	"github.com/cogflow/cogflow/internal/model"
)

// TopHubs counts, for every two-hop path a→mid→b over direct edges, how
// often each domain sits in the middle, and returns the topN domains by
// that counter. This is a cheap stand-in for exact betweenness; it only
// looks at paths of length two.
func TopHubs(edges []model.TransitionEdge, topN int) []model.HubScore {
	counters := make(map[string]int)
	for _, in := range edges {
		for _, out := range edges {
			if in.TargetDomain == out.SourceDomain {
				counters[in.TargetDomain]++
			}
		}
	}

	hubs := make([]model.HubScore, 0, len(counters))
	for domain, score := range counters {
		hubs = append(hubs, model.HubScore{Domain: domain, Score: score})
	}
	sort.Slice(hubs, func(i, j int) bool {
		if hubs[i].Score != hubs[j].Score {
			return hubs[i].Score > hubs[j].Score
		}
		return hubs[i].Domain < hubs[j].Domain
	})

	if len(hubs) > topN {
		hubs = hubs[:topN]
	}
	return hubs
}

// Diversity is the base-2 Shannon entropy of the visit-count
// distribution across domains. Zero-probability terms contribute
// nothing; an empty or single-domain graph scores 0.
func Diversity(nodes []model.GraphNode) float64 {
	total := 0
	for _, n := range nodes {
		total += n.VisitCount
	}
	if total == 0 {
		return 0
	}

	var entropy float64
	for _, n := range nodes {
		if n.VisitCount == 0 {
			continue
		}
		p := float64(n.VisitCount) / float64(total)
		entropy -= p * math.Log2(p)
	}
	return entropy
}
