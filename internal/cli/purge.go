package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/cogflow/cogflow/internal/storage"
)

// Execute implements the go-flags Commander interface for PurgeCacheCommand.
func (c *PurgeCacheCommand) Execute(args []string) error {
	if !c.All {
		return fmt.Errorf("purge-cache requires --all flag for safety")
	}

	if !c.Force {
		fmt.Println("WARNING: This will permanently delete all cached data.")
		fmt.Println("  - All cached embeddings")
		fmt.Println("  - Persisted calibration thresholds")
		fmt.Println()
		fmt.Print(`Type "PURGE" to confirm: `)

		scanner := bufio.NewScanner(os.Stdin)
		if !scanner.Scan() {
			return fmt.Errorf("aborted: no input received")
		}
		if strings.TrimSpace(scanner.Text()) != "PURGE" {
			return fmt.Errorf("aborted: confirmation text did not match")
		}
	}

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

	return c.executeWithStore(store)
}

// executeWithStore runs the purge against a provided store (for testing).
func (c *PurgeCacheCommand) executeWithStore(store *storage.SQLiteStore) error {
	if err := store.PurgeAll(context.Background()); err != nil {
		return fmt.Errorf("purge failed: %w", err)
	}

	if c.globals != nil && c.globals.JSON {
		out := map[string]interface{}{
			"purged":  true,
			"message": "cache cleared",
		}
		return json.NewEncoder(os.Stdout).Encode(out)
	}

	fmt.Println("Purged embedding cache and calibration thresholds.")
	return nil
}
