package storage

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cogflow/cogflow/internal/calibrate"
)

// testStore creates an in-memory store with the schema applied.
func testStore(t *testing.T) *SQLiteStore {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, NewMigrationRunner(db).Run())

	store, err := NewSQLiteStore(db)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestVectorRoundTrip(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	vec := []float32{0.1, -2.5, 3.14159, 0}
	require.NoError(t, store.PutVector(ctx, "k1", vec, "nomic-embed-text"))

	got, ok, err := store.GetVector(ctx, "k1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, vec, got)
}

func TestVectorMiss(t *testing.T) {
	store := testStore(t)

	got, ok, err := store.GetVector(context.Background(), "absent")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestPutVectorReplaces(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	require.NoError(t, store.PutVector(ctx, "k1", []float32{1, 2}, "m"))
	require.NoError(t, store.PutVector(ctx, "k1", []float32{3, 4, 5}, "m"))

	got, ok, err := store.GetVector(ctx, "k1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []float32{3, 4, 5}, got)
}

func TestThresholdsEmpty(t *testing.T) {
	store := testStore(t)

	_, _, ok, err := store.LoadThresholds(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestThresholdsSaveAndLoad(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveThresholds(ctx, 0.62, 0.2))

	related, topicShift, ok, err := store.LoadThresholds(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 0.62, related)
	assert.Equal(t, 0.2, topicShift)

	// The slot is a single row; a second save overwrites it.
	require.NoError(t, store.SaveThresholds(ctx, 0.7, 0.25))
	related, topicShift, ok, err = store.LoadThresholds(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 0.7, related)
	assert.Equal(t, 0.25, topicShift)
}

func TestGetStats(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	stats, err := store.GetStats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.EmbeddingCount)
	assert.False(t, stats.HasThresholds)

	require.NoError(t, store.PutVector(ctx, "k1", []float32{1}, "m"))
	require.NoError(t, store.PutVector(ctx, "k2", []float32{2}, "m"))
	require.NoError(t, store.SaveThresholds(ctx, 0.55, 0.2))

	stats, err = store.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.EmbeddingCount)
	assert.True(t, stats.HasThresholds)
	assert.Equal(t, 0.55, stats.Related)
}

func TestPurgeAll(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	require.NoError(t, store.PutVector(ctx, "k1", []float32{1}, "m"))
	require.NoError(t, store.SaveThresholds(ctx, 0.55, 0.2))

	require.NoError(t, store.PurgeAll(ctx))

	stats, err := store.GetStats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.EmbeddingCount)
	assert.False(t, stats.HasThresholds)
}

func TestMigrationsIdempotent(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, NewMigrationRunner(db).Run())
	require.NoError(t, NewMigrationRunner(db).Run())

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestThresholdSlotAdapter(t *testing.T) {
	store := testStore(t)
	slot := store.Thresholds()

	loaded, err := slot.Load()
	require.NoError(t, err)
	assert.Nil(t, loaded)

	require.NoError(t, slot.Save(calibrate.Thresholds{Related: 0.66, TopicShift: 0.2}))

	loaded, err = slot.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, 0.66, loaded.Related)
	assert.Equal(t, 0.2, loaded.TopicShift)
}

func TestEncodeDecodeVector(t *testing.T) {
	vec := []float32{1.5, -0.25, 1e-8}
	decoded, err := decodeVector(encodeVector(vec), len(vec))
	require.NoError(t, err)
	assert.Equal(t, vec, decoded)

	_, err = decodeVector([]byte{0, 0}, 3)
	assert.Error(t, err)
}
