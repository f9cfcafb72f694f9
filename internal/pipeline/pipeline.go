// Package pipeline wires the analysis stages together and runs them
// over one visit log: sort, classify transitions, segment sessions and
// chains, derive rhythms and graph metrics, and assemble the report.
package pipeline

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/cogflow/cogflow/internal/calibrate"
	"github.com/cogflow/cogflow/internal/classify"
	"github.com/cogflow/cogflow/internal/complexity"
	"github.com/cogflow/cogflow/internal/graphmetrics"
	"github.com/cogflow/cogflow/internal/insights"
	"github.com/cogflow/cogflow/internal/model"
	"github.com/cogflow/cogflow/internal/segment"
	"github.com/cogflow/cogflow/internal/similarity"
	"github.com/cogflow/cogflow/internal/temporal"
	"github.com/cogflow/cogflow/internal/textfeat"
)

const topHubs = 5

// Options collect the tunables of one pipeline invocation.
type Options struct {
	Windows          classify.Windows
	Segment          segment.Options
	Calibration      calibrate.Options
	ShortlistSize    int
	ProgressInterval int // records between progress callbacks
}

// DefaultOptions mirror the unconfigured system.
func DefaultOptions() Options {
	return Options{
		Windows:          classify.DefaultWindows(),
		Segment:          segment.DefaultOptions(),
		Calibration:      calibrate.DefaultOptions(),
		ShortlistSize:    10,
		ProgressInterval: 50,
	}
}

// Progress reports how many events have been classified so far. It is
// called from the pipeline goroutine at fixed record intervals so a
// host UI can stay responsive without any scheduling primitive.
type Progress func(done, total int)

// Pipeline runs the full analysis. One Pipeline owns its calibration
// state; nothing is shared across invocations through globals.
type Pipeline struct {
	opts       Options
	estimator  *similarity.Estimator
	calibrator *calibrate.Calibrator
	log        zerolog.Logger
}

// New builds a pipeline. backend is the optional dense-embedding
// similarity backend; when non-nil it is wrapped so any failure falls
// back to the deterministic heuristic. store persists calibration
// thresholds and may be nil.
func New(opts Options, backend similarity.Backend, store calibrate.Store, log zerolog.Logger) *Pipeline {
	if opts.ShortlistSize <= 0 {
		opts.ShortlistSize = DefaultOptions().ShortlistSize
	}
	if opts.ProgressInterval <= 0 {
		opts.ProgressInterval = DefaultOptions().ProgressInterval
	}

	extractor := textfeat.NewExtractor()
	heuristic := similarity.NewHeuristicBackend(extractor)

	var b similarity.Backend = heuristic
	if backend != nil {
		b = &similarity.FallbackBackend{Primary: backend, Fallback: heuristic, Log: log}
	}

	return &Pipeline{
		opts:       opts,
		estimator:  similarity.NewEstimator(b),
		calibrator: calibrate.New(opts.Calibration, store, log),
		log:        log,
	}
}

// Thresholds exposes the calibration state after a run, for reporting.
func (p *Pipeline) Thresholds() calibrate.Thresholds {
	return p.calibrator.Snapshot()
}

// Run analyzes a visit log and returns the full report. The input is
// re-sorted by timestamp (stable, ascending) before any stage runs, so
// callers may pass events in any order. Degenerate inputs (empty log,
// single event, one domain) produce a valid empty-ish report, never an
// error; the only error Run returns is cancellation.
func (p *Pipeline) Run(ctx context.Context, events []model.VisitEvent, progress Progress) (*model.AnalysisReport, error) {
	sorted := make([]model.VisitEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp < sorted[j].Timestamp
	})

	report := &model.AnalysisReport{EventCount: len(sorted)}
	report.Sessions = []model.FocusSession{}
	report.Chains = []model.InformationChain{}
	report.Graph.Nodes = []model.GraphNode{}
	report.Graph.Links = []model.TransitionEdge{}
	report.TopDomains = []model.DomainCount{}

	if len(sorted) == 0 {
		return report, nil
	}

	nodes := aggregateNodes(sorted)

	classifier := classify.New(p.estimator, p.calibrator, p.opts.Windows)
	total := len(sorted)
	for i := 1; i < total; i++ {
		classifier.Classify(sorted[i-1], sorted[i])

		if i%p.opts.ProgressInterval == 0 {
			if progress != nil {
				progress(i, total)
			}
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
		}
	}
	if progress != nil {
		progress(total, total)
	}
	edges := classifier.Edges()

	segmenter := segment.New(p.opts.Segment)
	report.Sessions = segmenter.Sessions(sorted)
	report.Chains = segmenter.Chains(sorted)

	report.Temporal = temporal.Analyze(sorted, p.opts.Segment.GapMs)
	report.ComplexityByHour = complexityByHour(sorted)

	report.Graph = model.Graph{Nodes: nodes, Links: edges}
	report.Metrics = model.GraphMetrics{
		Hubs:                 graphmetrics.TopHubs(edges, topHubs),
		InformationDiversity: graphmetrics.Diversity(nodes),
	}

	report.Insights = insights.Generate(
		report.Temporal, report.Sessions, report.ComplexityByHour, edges, report.Metrics,
	)
	report.TopDomains = shortlist(nodes, p.opts.ShortlistSize)

	p.log.Debug().
		Int("events", len(sorted)).
		Int("sessions", len(report.Sessions)).
		Int("chains", len(report.Chains)).
		Int("edges", len(edges)).
		Float64("related_threshold", p.calibrator.Related()).
		Msg("analysis complete")

	return report, nil
}

// aggregateNodes folds the sorted log into one node per domain, in
// first-seen order.
func aggregateNodes(events []model.VisitEvent) []model.GraphNode {
	index := make(map[string]int)
	var nodes []model.GraphNode
	for _, ev := range events {
		i, ok := index[ev.Domain]
		if !ok {
			index[ev.Domain] = len(nodes)
			nodes = append(nodes, model.GraphNode{Domain: ev.Domain, VisitCount: 1, LastVisit: ev.Timestamp})
			continue
		}
		nodes[i].VisitCount++
		if ev.Timestamp > nodes[i].LastVisit {
			nodes[i].LastVisit = ev.Timestamp
		}
	}
	return nodes
}

func hourOf(ts int64) int {
	return time.UnixMilli(ts).Hour()
}

// complexityByHour averages the content-depth score of the visits in
// each local hour bucket; silent hours stay 0.
func complexityByHour(events []model.VisitEvent) [24]float64 {
	var sums [24]float64
	var counts [24]int
	for _, ev := range events {
		hour := hourOf(ev.Timestamp)
		sums[hour] += complexity.Score(ev.Domain, ev.Title)
		counts[hour]++
	}
	var avg [24]float64
	for h := range sums {
		if counts[h] > 0 {
			avg[h] = sums[h] / float64(counts[h])
		}
	}
	return avg
}

// shortlist returns the topN domains by visit count, ties broken by
// name for determinism.
func shortlist(nodes []model.GraphNode, topN int) []model.DomainCount {
	counts := make([]model.DomainCount, 0, len(nodes))
	for _, n := range nodes {
		counts = append(counts, model.DomainCount{Domain: n.Domain, Count: n.VisitCount})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Domain < counts[j].Domain
	})
	if len(counts) > topN {
		counts = counts[:topN]
	}
	return counts
}
