package cli

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"github.com/cogflow/cogflow/internal/config"
	"github.com/cogflow/cogflow/internal/pipeline"
	"github.com/cogflow/cogflow/internal/storage"
)

// loadConfig resolves the effective configuration: the --config path if
// given, otherwise the default path (created on first use).
func loadConfig(globals *GlobalFlags) (*config.Config, error) {
	if globals != nil && globals.Config != "" {
		return config.Load(globals.Config)
	}
	return config.LoadOrCreate()
}

// newLogger builds the zerolog console logger for a command. --verbose
// wins over the configured level.
func newLogger(cfg *config.Config, globals *GlobalFlags) zerolog.Logger {
	level := zerolog.InfoLevel
	if cfg != nil {
		if parsed, err := zerolog.ParseLevel(cfg.Logging.Level); err == nil && parsed != zerolog.NoLevel {
			level = parsed
		}
	}
	if globals != nil && globals.Verbose {
		level = zerolog.DebugLevel
	}
	writer := zerolog.ConsoleWriter{Out: os.Stderr}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}

// openStore opens the cogflow database from config, runs migrations,
// and returns a ready-to-use store and the underlying *sql.DB.
func openStore(cfg *config.Config) (*storage.SQLiteStore, *sql.DB, error) {
	dbPath, err := cfg.DBPath()
	if err != nil {
		return nil, nil, err
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}

	runner := storage.NewMigrationRunner(db)
	if err := runner.Run(); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("run migrations: %w", err)
	}

	store, err := storage.NewSQLiteStore(db)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("create store: %w", err)
	}

	return store, db, nil
}

// pipelineOptions maps config values onto pipeline options.
func pipelineOptions(cfg *config.Config) pipeline.Options {
	opts := pipeline.DefaultOptions()
	a := cfg.Analysis
	if a.RelatedTimeWindowMs > 0 {
		opts.Windows.RelatedMs = a.RelatedTimeWindowMs
	}
	if a.TopicShiftTimeWindowMs > 0 {
		opts.Windows.TopicShiftMs = a.TopicShiftTimeWindowMs
	}
	if a.SessionGapMs > 0 {
		opts.Segment.GapMs = a.SessionGapMs
	}
	if a.SessionJaccardMin > 0 {
		opts.Segment.SessionJaccardMin = a.SessionJaccardMin
	}
	if a.ChainJaccardMin > 0 {
		opts.Segment.ChainJaccardMin = a.ChainJaccardMin
	}
	if a.ShortlistSize > 0 {
		opts.ShortlistSize = a.ShortlistSize
	}
	c := cfg.Calibration
	if c.Window > 0 {
		opts.Calibration.Window = c.Window
	}
	if c.AdjustEvery > 0 {
		opts.Calibration.AdjustEvery = c.AdjustEvery
	}
	if c.TargetTopFraction > 0 {
		opts.Calibration.TargetTopFraction = c.TargetTopFraction
	}
	return opts
}
