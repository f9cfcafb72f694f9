package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/cogflow/cogflow/internal/config"
	"github.com/cogflow/cogflow/internal/storage"
)

// statusJSON is the JSON output structure for the status command.
type statusJSON struct {
	Version           string  `json:"version"`
	DatabasePath      string  `json:"database_path"`
	CachedEmbeddings  int64   `json:"cached_embeddings"`
	HasThresholds     bool    `json:"has_thresholds"`
	RelatedThreshold  float64 `json:"related_threshold,omitempty"`
	TopicShiftFloor   float64 `json:"topic_shift_floor,omitempty"`
	EmbeddingsEnabled bool    `json:"embeddings_enabled"`
}

// Execute implements the go-flags Commander interface for StatusCommand.
func (c *StatusCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}

	store, db, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	defer store.Close()

	return c.executeWithStore(cfg, store)
}

// executeWithStore runs status against a provided store (for testing).
func (c *StatusCommand) executeWithStore(cfg *config.Config, store *storage.SQLiteStore) error {
	stats, err := store.GetStats(context.Background())
	if err != nil {
		return fmt.Errorf("get stats: %w", err)
	}

	dbPath, err := cfg.DBPath()
	if err != nil {
		return err
	}

	if c.globals != nil && c.globals.JSON {
		out := statusJSON{
			Version:           c.version,
			DatabasePath:      dbPath,
			CachedEmbeddings:  stats.EmbeddingCount,
			HasThresholds:     stats.HasThresholds,
			EmbeddingsEnabled: cfg.Embeddings.Enabled,
		}
		if stats.HasThresholds {
			out.RelatedThreshold = stats.Related
			out.TopicShiftFloor = stats.TopicShift
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Println("Cogflow Status")
	fmt.Println("==============")
	fmt.Printf("Version:      %s\n", c.version)
	fmt.Printf("Database:     %s\n", dbPath)
	fmt.Printf("Embeddings:   %d cached\n", stats.EmbeddingCount)
	if stats.HasThresholds {
		fmt.Printf("Calibration:  related=%.3f topic_shift=%.3f\n", stats.Related, stats.TopicShift)
	} else {
		fmt.Println("Calibration:  defaults (nothing persisted)")
	}
	if cfg.Embeddings.Enabled {
		fmt.Printf("Backend:      %s\n", cfg.Embeddings.Provider)
	} else {
		fmt.Println("Backend:      heuristic")
	}

	return nil
}
