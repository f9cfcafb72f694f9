package storage

import (
	"context"

	"github.com/cogflow/cogflow/internal/calibrate"
)

// ThresholdSlot adapts the SQLite store to the calibrator's Store
// contract.
type ThresholdSlot struct {
	store *SQLiteStore
}

// Thresholds returns the durable threshold slot backed by this store.
func (s *SQLiteStore) Thresholds() *ThresholdSlot {
	return &ThresholdSlot{store: s}
}

// Load returns the persisted thresholds, or nil when none exist.
func (t *ThresholdSlot) Load() (*calibrate.Thresholds, error) {
	related, topicShift, ok, err := t.store.LoadThresholds(context.Background())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return &calibrate.Thresholds{Related: related, TopicShift: topicShift}, nil
}

// Save persists the thresholds.
func (t *ThresholdSlot) Save(th calibrate.Thresholds) error {
	return t.store.SaveThresholds(context.Background(), th.Related, th.TopicShift)
}
