package segment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cogflow/cogflow/internal/model"
)

func ev(domain, title string, minutes int64) model.VisitEvent {
	return model.VisitEvent{
		URL:       "https://" + domain + "/" + title,
		Domain:    domain,
		Title:     title,
		Timestamp: minutes * 60_000,
	}
}

func TestSessionsSameDomainWithinGap(t *testing.T) {
	s := New(DefaultOptions())
	events := []model.VisitEvent{
		ev("github.com", "repo one", 0),
		ev("github.com", "repo two", 3),
		ev("github.com", "repo three", 6),
	}

	sessions := s.Sessions(events)
	require.Len(t, sessions, 1)
	assert.Equal(t, 3, sessions[0].PageCount)
	assert.InDelta(t, 6.0, sessions[0].DurationMinutes, 1e-9)
}

func TestSessionsSplitOnGap(t *testing.T) {
	s := New(DefaultOptions())
	events := []model.VisitEvent{
		ev("github.com", "repo one", 0),
		ev("github.com", "repo two", 10), // 10 min > 5 min gap
	}

	sessions := s.Sessions(events)
	require.Len(t, sessions, 2)
	assert.Equal(t, 1, sessions[0].PageCount)
	assert.Equal(t, 1, sessions[1].PageCount)
}

func TestSessionsCrossDomainTitleOverlap(t *testing.T) {
	s := New(DefaultOptions())
	// Shared title tokens carry the session across the domain change:
	// {rust, async, tutorial} against five-token sets gives jaccard 3/7.
	events := []model.VisitEvent{
		ev("a.com", "Rust Async Tutorial", 0),
		ev("b.io", "Rust Async Tutorial", 2),
	}

	sessions := s.Sessions(events)
	require.Len(t, sessions, 1)
	assert.Equal(t, 2, sessions[0].PageCount)
}

func TestSessionsSplitOnUnrelatedContent(t *testing.T) {
	s := New(DefaultOptions())
	events := []model.VisitEvent{
		ev("a.com", "Cooking Pasta", 0),
		ev("b.io", "Quantum Physics", 2),
	}

	sessions := s.Sessions(events)
	assert.Len(t, sessions, 2)
}

func TestSessionsPartitionInput(t *testing.T) {
	s := New(DefaultOptions())
	events := []model.VisitEvent{
		ev("github.com", "go modules", 0),
		ev("stackoverflow.com", "go modules question", 2),
		ev("reddit.com", "cat pictures", 4),
		ev("github.com", "another repo", 60),
		ev("github.com", "and one more", 62),
	}

	sessions := s.Sessions(events)
	total := 0
	for _, sess := range sessions {
		total += sess.PageCount
		assert.Equal(t, len(sess.Events), sess.PageCount)
	}
	// Every event lands in exactly one session.
	assert.Equal(t, len(events), total)
}

func TestSessionsEmptyInput(t *testing.T) {
	s := New(DefaultOptions())
	assert.Empty(t, s.Sessions(nil))
	assert.Empty(t, s.Chains(nil))
}

func TestChainsDropSingletons(t *testing.T) {
	s := New(DefaultOptions())
	events := []model.VisitEvent{
		ev("a.com", "Cooking Pasta", 0),
		ev("b.io", "Quantum Physics", 2),
	}

	// Both runs are singletons under the chain predicate, so nothing
	// survives even though Sessions would report two.
	assert.Empty(t, s.Chains(events))
}

func TestChainsSameDomainAloneIsNotCoherence(t *testing.T) {
	s := New(DefaultOptions())
	events := []model.VisitEvent{
		ev("example.com", "Cooking Pasta Recipes", 0),
		ev("example.com", "Quantum Physics Lectures", 2),
	}

	// One session (same domain) but no chain: only the two domain tokens
	// intersect, 2/8 is under the 0.3 cutoff.
	require.Len(t, s.Sessions(events), 1)
	assert.Empty(t, s.Chains(events))
}

func TestChainsTokenOverlap(t *testing.T) {
	s := New(DefaultOptions())
	events := []model.VisitEvent{
		ev("a.com", "Rust Async Tutorial", 0),
		ev("b.io", "Rust Async Tutorial", 2),
		ev("c.dev", "Rust Async Tutorial", 4),
	}

	chains := s.Chains(events)
	require.Len(t, chains, 1)
	assert.Equal(t, 3, chains[0].PageCount)
	assert.InDelta(t, 4.0, chains[0].DurationMinutes, 1e-9)
	assert.InDelta(t, 3.0/4.0, chains[0].ScentStrength, 1e-9)
}

func TestDurationFloor(t *testing.T) {
	s := New(DefaultOptions())
	events := []model.VisitEvent{
		ev("a.com", "Rust Async Tutorial", 0),
		ev("b.io", "Rust Async Tutorial", 0), // same instant
	}

	chains := s.Chains(events)
	require.Len(t, chains, 1)
	assert.Equal(t, minDurationMinutes, chains[0].DurationMinutes)
	// The floor keeps scent strength finite.
	assert.InDelta(t, 2.0/minDurationMinutes, chains[0].ScentStrength, 1e-9)
}

func TestAvgComplexityComputed(t *testing.T) {
	s := New(DefaultOptions())
	events := []model.VisitEvent{
		ev("arxiv.org", "Attention Research Paper", 0),
	}

	sessions := s.Sessions(events)
	require.Len(t, sessions, 1)
	assert.Greater(t, sessions[0].AvgComplexity, 0.5)
}
