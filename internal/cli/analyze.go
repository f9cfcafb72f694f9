package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/cogflow/cogflow/internal/calibrate"
	"github.com/cogflow/cogflow/internal/config"
	"github.com/cogflow/cogflow/internal/embedding"
	"github.com/cogflow/cogflow/internal/model"
	"github.com/cogflow/cogflow/internal/pipeline"
	"github.com/cogflow/cogflow/internal/similarity"
	"github.com/cogflow/cogflow/internal/storage"
)

// Execute implements the go-flags Commander interface for AnalyzeCommand.
func (c *AnalyzeCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}
	log := newLogger(cfg, c.globals)

	var in io.Reader = os.Stdin
	if c.Input != "" && c.Input != "-" {
		f, err := os.Open(c.Input)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		in = f
	}

	return c.executeWithReader(context.Background(), cfg, log, in)
}

// executeWithReader runs the analysis against a provided input stream
// (for testing).
func (c *AnalyzeCommand) executeWithReader(ctx context.Context, cfg *config.Config, log zerolog.Logger, in io.Reader) error {
	recs, err := model.DecodeRecords(in)
	if err != nil {
		return err
	}
	events := model.PrepareEvents(recs, cfg.Analysis.FilteredDomains)
	log.Debug().Int("records", len(recs)).Int("events", len(events)).Msg("history loaded")

	var backend similarity.Backend
	var store calibrate.Store

	needsDB := c.useEmbeddings(cfg) || !c.NoPersist
	if needsDB {
		sqlStore, db, err := openStore(cfg)
		if err != nil {
			// Analysis still works without the durable tier.
			log.Warn().Err(err).Msg("database unavailable, running without persistence")
		} else {
			defer db.Close()
			defer sqlStore.Close()

			if !c.NoPersist {
				store = sqlStore.Thresholds()
			}
			if c.useEmbeddings(cfg) {
				backend, err = c.embeddingBackend(cfg, sqlStore, log)
				if err != nil {
					log.Warn().Err(err).Msg("embedding backend unavailable, using heuristic similarity")
					backend = nil
				}
			}
		}
	}

	var progress pipeline.Progress
	if c.Progress {
		progress = func(done, total int) {
			fmt.Fprintf(os.Stderr, "\rclassifying %d/%d", done, total)
			if done == total {
				fmt.Fprintln(os.Stderr)
			}
		}
	}

	p := pipeline.New(pipelineOptions(cfg), backend, store, log)
	report, err := p.Run(ctx, events, progress)
	if err != nil {
		return err
	}

	if c.globals != nil && c.globals.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	printReportHuman(report, p.Thresholds())
	return nil
}

func (c *AnalyzeCommand) useEmbeddings(cfg *config.Config) bool {
	return c.Embeddings || cfg.Embeddings.Enabled
}

// embeddingBackend wires the HTTP embedder behind the read-through
// cache into a similarity backend.
func (c *AnalyzeCommand) embeddingBackend(cfg *config.Config, store *storage.SQLiteStore, log zerolog.Logger) (similarity.Backend, error) {
	embedder, err := embedding.NewForProvider(cfg.Embeddings.Provider, cfg.Embeddings.Endpoint, cfg.Embeddings.Model)
	if err != nil {
		return nil, err
	}
	cache, err := embedding.NewCache(embedder, store, cfg.Embeddings.CacheMaxEntries, cfg.Embeddings.Model, log)
	if err != nil {
		return nil, err
	}
	return similarity.NewEmbeddingBackend(cache), nil
}

// printReportHuman writes the plain-text summary.
func printReportHuman(report *model.AnalysisReport, thresholds calibrate.Thresholds) {
	fmt.Println("Attention Flow Report")
	fmt.Println("=====================")
	fmt.Printf("Events:             %d\n", report.EventCount)
	fmt.Printf("Focus sessions:     %d (avg %.1f min)\n", len(report.Sessions), report.Insights.AvgFocusMinutes)
	fmt.Printf("Foraging chains:    %d\n", len(report.Chains))
	fmt.Printf("Transitions:        %d edges\n", len(report.Graph.Links))
	fmt.Printf("Topic-switch rate:  %.0f%%\n", report.Insights.TopicSwitchRate*100)
	fmt.Printf("Info diversity:     %.2f bits\n", report.Metrics.InformationDiversity)
	fmt.Printf("Related threshold:  %.3f\n", thresholds.Related)

	if report.Temporal.RhythmPeriodMinutes != nil {
		fmt.Printf("Activity rhythm:    ~%d min cycle\n", *report.Temporal.RhythmPeriodMinutes)
	}
	if len(report.Temporal.PeakHours) > 0 {
		fmt.Printf("Peak hours:         %v\n", report.Temporal.PeakHours)
	}

	if len(report.Metrics.Hubs) > 0 {
		fmt.Println()
		fmt.Println("Hub Domains:")
		for _, h := range report.Metrics.Hubs {
			fmt.Printf("  %-24s %d\n", h.Domain, h.Score)
		}
	}

	if len(report.TopDomains) > 0 {
		fmt.Println()
		fmt.Println("Top Domains:")
		for _, d := range report.TopDomains {
			fmt.Printf("  %-24s %d\n", d.Domain, d.Count)
		}
	}

	if len(report.Insights.Recommendations) > 0 {
		fmt.Println()
		fmt.Println("Recommendations:")
		for _, r := range report.Insights.Recommendations {
			fmt.Printf("  - %s\n", r)
		}
	}
}
