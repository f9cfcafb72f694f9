package config

// DefaultConfig returns a Config populated with all default values. The
// system runs fully unconfigured on these.
func DefaultConfig() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			RelatedTimeWindowMs:    300000,  // 5 min
			TopicShiftTimeWindowMs: 1800000, // 30 min
			SessionGapMs:           300000,  // 5 min
			SessionJaccardMin:      0.4,
			ChainJaccardMin:        0.3,
			ShortlistSize:          10,
			FilteredDomains:        DefaultFilteredDomains(),
		},
		Calibration: CalibrationConfig{
			Window:            500,
			AdjustEvery:       100,
			TargetTopFraction: 0.33,
		},
		Embeddings: EmbeddingsConfig{
			Enabled:         false,
			Provider:        "ollama",
			Endpoint:        "",
			Model:           "",
			CacheMaxEntries: 4096,
		},
		Storage: StorageConfig{
			Path:       "~/.config/cogflow",
			SQLiteFile: "cogflow.db",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
