package model

// TransitionKind labels the relationship between two time-adjacent visits.
type TransitionKind string

const (
	KindRelated       TransitionKind = "related"
	KindTopicShift    TransitionKind = "topic_shift"
	KindContextSwitch TransitionKind = "context_switch"
)

// VisitEvent is a single browser history visit. Immutable once created;
// the raw log is never mutated by the pipeline.
type VisitEvent struct {
	URL       string `json:"url"`
	Domain    string `json:"domain"`
	Title     string `json:"title"`
	Timestamp int64  `json:"timestamp"` // milliseconds since epoch
}

// TransitionEdge is a directed relation between two distinct domains
// observed in consecutive-time order. Edges are keyed by the ordered
// pair; a→b and b→a are separate edges and are never merged.
type TransitionEdge struct {
	SourceDomain  string         `json:"source"`
	TargetDomain  string         `json:"target"`
	Weight        int            `json:"weight"`
	Kind          TransitionKind `json:"kind"`
	Similarity    float64        `json:"similarity"` // max observed for this pair
	LastTimestamp int64          `json:"lastTimestamp"`
}

// FocusSession is a maximal run of consecutive visits judged continuous
// attention. Singleton sessions are kept.
type FocusSession struct {
	Events          []VisitEvent `json:"events"`
	DurationMinutes float64      `json:"durationMinutes"`
	PageCount       int          `json:"pageCount"`
	AvgComplexity   float64      `json:"avgComplexity"`
}

// InformationChain is a maximal run of topically coherent foraging,
// stricter than a session. Singleton runs are discarded, so PageCount
// is always at least 2.
type InformationChain struct {
	Events          []VisitEvent `json:"events"`
	DurationMinutes float64      `json:"durationMinutes"`
	PageCount       int          `json:"pageCount"`
	AvgComplexity   float64      `json:"avgComplexity"`
	ScentStrength   float64      `json:"scentStrength"` // pages per minute
}

// GraphNode is a domain aggregated over all its visits.
type GraphNode struct {
	Domain     string `json:"domain"`
	VisitCount int    `json:"visitCount"`
	LastVisit  int64  `json:"lastVisit"`
}

// Graph is the raw domain-adjacency graph handed to the renderer.
type Graph struct {
	Nodes []GraphNode      `json:"nodes"`
	Links []TransitionEdge `json:"links"`
}

// TemporalProfile holds the temporal rhythm analysis.
type TemporalProfile struct {
	HourlyActivity    [24]int `json:"hourlyActivity"`
	PeakHours         []int   `json:"peakHours"`
	AvgSessionMinutes float64 `json:"avgSessionMinutes"`
	// RhythmPeriodMinutes is the ultradian period estimate; nil when the
	// activity series is too short to test any lag.
	RhythmPeriodMinutes *int `json:"rhythmPeriodMinutes"`
}

// HubScore pairs a domain with its two-hop betweenness counter.
type HubScore struct {
	Domain string `json:"domain"`
	Score  int    `json:"score"`
}

// GraphMetrics holds the derived graph-level measures.
type GraphMetrics struct {
	Hubs                 []HubScore `json:"hubs"`
	InformationDiversity float64    `json:"informationDiversity"`
}

// Insights is the rule-based summary layer of a report.
type Insights struct {
	PeakComplexityHours  []int    `json:"peakComplexityHours"`
	AvgFocusMinutes      float64  `json:"avgFocusMinutes"`
	TopicSwitchRate      float64  `json:"topicSwitchRate"`
	InformationDiversity float64  `json:"informationDiversity"`
	Recommendations      []string `json:"recommendations"`
}

// DomainCount pairs a domain with its visit count.
type DomainCount struct {
	Domain string `json:"domain"`
	Count  int    `json:"count"`
}

// AnalysisReport aggregates every derived view of one visit log. Built
// fresh on every run; no cross-run mutation.
type AnalysisReport struct {
	EventCount       int                `json:"eventCount"`
	Temporal         TemporalProfile    `json:"temporal"`
	Sessions         []FocusSession     `json:"sessions"`
	Chains           []InformationChain `json:"chains"`
	ComplexityByHour [24]float64        `json:"complexityByHour"`
	Graph            Graph              `json:"graph"`
	Metrics          GraphMetrics       `json:"metrics"`
	Insights         Insights           `json:"insights"`
	TopDomains       []DomainCount      `json:"topDomains"`
}
