package graphmetrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cogflow/cogflow/internal/model"
)

func edge(source, target string) model.TransitionEdge {
	return model.TransitionEdge{SourceDomain: source, TargetDomain: target, Weight: 1}
}

func TestTopHubsCountsTwoHopPaths(t *testing.T) {
	edges := []model.TransitionEdge{
		edge("a.com", "hub.com"),
		edge("d.com", "hub.com"),
		edge("hub.com", "c.com"),
		edge("hub.com", "e.com"),
	}

	// Two in-edges times two out-edges: four paths through the hub.
	hubs := TopHubs(edges, 5)
	require.Len(t, hubs, 1)
	assert.Equal(t, model.HubScore{Domain: "hub.com", Score: 4}, hubs[0])
}

func TestTopHubsCycle(t *testing.T) {
	edges := []model.TransitionEdge{
		edge("a.com", "b.com"),
		edge("b.com", "a.com"),
	}

	hubs := TopHubs(edges, 5)
	require.Len(t, hubs, 2)
	// Equal scores fall back to domain order.
	assert.Equal(t, "a.com", hubs[0].Domain)
	assert.Equal(t, "b.com", hubs[1].Domain)
	assert.Equal(t, 1, hubs[0].Score)
}

func TestTopHubsTruncates(t *testing.T) {
	edges := []model.TransitionEdge{
		edge("a.com", "b.com"),
		edge("b.com", "c.com"),
		edge("x.com", "y.com"),
		edge("y.com", "z.com"),
	}

	hubs := TopHubs(edges, 1)
	require.Len(t, hubs, 1)
	assert.Equal(t, "b.com", hubs[0].Domain)
}

func TestTopHubsEmpty(t *testing.T) {
	assert.Empty(t, TopHubs(nil, 5))
}

func TestDiversityUniform(t *testing.T) {
	nodes := []model.GraphNode{
		{Domain: "a.com", VisitCount: 5},
		{Domain: "b.com", VisitCount: 5},
	}
	assert.InDelta(t, 1.0, Diversity(nodes), 1e-9)

	nodes = append(nodes,
		model.GraphNode{Domain: "c.com", VisitCount: 5},
		model.GraphNode{Domain: "d.com", VisitCount: 5},
	)
	assert.InDelta(t, 2.0, Diversity(nodes), 1e-9)
}

func TestDiversityDegenerate(t *testing.T) {
	assert.Zero(t, Diversity(nil))
	assert.Zero(t, Diversity([]model.GraphNode{{Domain: "a.com", VisitCount: 10}}))

	// Zero-count nodes contribute nothing.
	nodes := []model.GraphNode{
		{Domain: "a.com", VisitCount: 10},
		{Domain: "b.com", VisitCount: 0},
	}
	assert.Zero(t, Diversity(nodes))
}

func TestDiversitySkewedBelowUniform(t *testing.T) {
	nodes := []model.GraphNode{
		{Domain: "a.com", VisitCount: 9},
		{Domain: "b.com", VisitCount: 1},
	}
	d := Diversity(nodes)
	assert.Greater(t, d, 0.0)
	assert.Less(t, d, 1.0)
}
