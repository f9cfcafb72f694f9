// Package storage is the durable tier behind the embedding cache and
// the threshold calibration slot, backed by a local SQLite database.
package storage

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
)

// Stats holds aggregate statistics about the cogflow database.
type Stats struct {
	EmbeddingCount int64
	HasThresholds  bool
	Related        float64
	TopicShift     float64
}

// SQLiteStore persists embedding vectors and calibration thresholds.
type SQLiteStore struct {
	db *sql.DB

	// Prepared statements
	getVector *sql.Stmt
	putVector *sql.Stmt
	getSlot   *sql.Stmt
	putSlot   *sql.Stmt
}

// NewSQLiteStore creates a SQLiteStore from an already-opened and
// migrated database.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	s := &SQLiteStore{db: db}
	if err := s.prepareStatements(); err != nil {
		return nil, fmt.Errorf("prepare statements: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) prepareStatements() error {
	var err error

	s.getVector, err = s.db.Prepare(`SELECT vector, dims FROM embeddings WHERE key = ?`)
	if err != nil {
		return err
	}

	s.putVector, err = s.db.Prepare(`
		INSERT OR REPLACE INTO embeddings (key, vector, dims, model)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}

	s.getSlot, err = s.db.Prepare(`SELECT related, topic_shift FROM thresholds WHERE key = 'current'`)
	if err != nil {
		return err
	}

	s.putSlot, err = s.db.Prepare(`
		INSERT INTO thresholds (key, related, topic_shift, updated_at)
		VALUES ('current', ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			related = excluded.related,
			topic_shift = excluded.topic_shift,
			updated_at = CURRENT_TIMESTAMP
	`)
	return err
}

// encodeVector packs a float32 slice as little-endian bytes. The
// representation round-trips exactly.
func encodeVector(vec []float32) []byte {
	buf := make([]byte, 4*len(vec))
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

// decodeVector unpacks a little-endian float32 blob of known length.
func decodeVector(buf []byte, dims int) ([]float32, error) {
	if len(buf) != 4*dims {
		return nil, fmt.Errorf("vector blob is %d bytes, want %d for %d dims", len(buf), 4*dims, dims)
	}
	vec := make([]float32, dims)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	return vec, nil
}

// GetVector returns the cached vector for a key, or (nil, false) on a
// miss.
func (s *SQLiteStore) GetVector(ctx context.Context, key string) ([]float32, bool, error) {
	var blob []byte
	var dims int
	err := s.getVector.QueryRowContext(ctx, key).Scan(&blob, &dims)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get vector: %w", err)
	}

	vec, err := decodeVector(blob, dims)
	if err != nil {
		return nil, false, fmt.Errorf("get vector: %w", err)
	}
	return vec, true, nil
}

// PutVector stores (or replaces) a vector under a key.
func (s *SQLiteStore) PutVector(ctx context.Context, key string, vec []float32, model string) error {
	_, err := s.putVector.ExecContext(ctx, key, encodeVector(vec), len(vec), model)
	if err != nil {
		return fmt.Errorf("put vector: %w", err)
	}
	return nil
}

// LoadThresholds returns the persisted threshold slot, or nil when
// nothing has been saved yet.
func (s *SQLiteStore) LoadThresholds(ctx context.Context) (related, topicShift float64, ok bool, err error) {
	err = s.getSlot.QueryRowContext(ctx).Scan(&related, &topicShift)
	if err == sql.ErrNoRows {
		return 0, 0, false, nil
	}
	if err != nil {
		return 0, 0, false, fmt.Errorf("load thresholds: %w", err)
	}
	return related, topicShift, true, nil
}

// SaveThresholds writes the threshold slot.
func (s *SQLiteStore) SaveThresholds(ctx context.Context, related, topicShift float64) error {
	if _, err := s.putSlot.ExecContext(ctx, related, topicShift); err != nil {
		return fmt.Errorf("save thresholds: %w", err)
	}
	return nil
}

// GetStats returns aggregate statistics about the database.
func (s *SQLiteStore) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM embeddings").Scan(&stats.EmbeddingCount)
	if err != nil {
		return nil, fmt.Errorf("count embeddings: %w", err)
	}

	related, topicShift, ok, err := s.LoadThresholds(ctx)
	if err != nil {
		return nil, err
	}
	stats.HasThresholds = ok
	stats.Related = related
	stats.TopicShift = topicShift

	return stats, nil
}

// PurgeAll deletes all cached embeddings and the threshold slot.
func (s *SQLiteStore) PurgeAll(ctx context.Context) error {
	stmts := []string{
		"DELETE FROM embeddings",
		"DELETE FROM thresholds",
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("purge (%s): %w", stmt, err)
		}
	}
	return nil
}

// Close releases all prepared statements. The underlying *sql.DB is NOT
// closed — that is the caller's responsibility.
func (s *SQLiteStore) Close() error {
	stmts := []*sql.Stmt{s.getVector, s.putVector, s.getSlot, s.putSlot}
	for _, stmt := range stmts {
		if stmt != nil {
			stmt.Close()
		}
	}
	return nil
}
