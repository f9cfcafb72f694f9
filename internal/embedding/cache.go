package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/dgraph-io/ristretto"
	"github.com/rs/zerolog"

	"github.com/cogflow/cogflow/internal/storage"
)

// Cache is a read-through embedding cache: an in-process ristretto
// front over the durable SQLite tier, with the HTTP embedder as the
// source of truth on a full miss. Concurrent reads are safe; duplicate
// concurrent misses for one key may both compute, which only costs a
// redundant call.
type Cache struct {
	embedder Embedder
	store    *storage.SQLiteStore // optional durable tier
	front    *ristretto.Cache
	model    string
	log      zerolog.Logger
}

// NewCache builds a cache over the given embedder. store may be nil for
// a memory-only cache. maxEntries bounds the in-process front.
func NewCache(embedder Embedder, store *storage.SQLiteStore, maxEntries int64, model string, log zerolog.Logger) (*Cache, error) {
	if maxEntries <= 0 {
		maxEntries = 4096
	}
	front, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: maxEntries * 10,
		MaxCost:     maxEntries,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("init embedding cache: %w", err)
	}
	return &Cache{
		embedder: embedder,
		store:    store,
		front:    front,
		model:    model,
		log:      log,
	}, nil
}

// Key is the stable cache key for a normalized text.
func Key(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:16])
}

// Vector returns the embedding for a normalized text, consulting the
// in-process front, then the durable tier, then the embedder. It
// implements the similarity layer's Vectorizer contract.
func (c *Cache) Vector(text string) ([]float32, error) {
	key := Key(text)

	if cached, ok := c.front.Get(key); ok {
		if vec, ok := cached.([]float32); ok {
			return vec, nil
		}
	}

	ctx := context.Background()
	if c.store != nil {
		vec, ok, err := c.store.GetVector(ctx, key)
		if err != nil {
			c.log.Warn().Err(err).Msg("durable embedding read failed")
		} else if ok {
			c.front.Set(key, vec, 1)
			return vec, nil
		}
	}

	vecs, err := c.embedder.Embed([]string{text})
	if err != nil {
		return nil, err
	}
	if len(vecs) == 0 || len(vecs[0]) == 0 {
		return nil, fmt.Errorf("embedder returned no vector")
	}
	vec := vecs[0]

	c.front.Set(key, vec, 1)
	c.front.Wait() // make the write visible to subsequent reads
	if c.store != nil {
		if err := c.store.PutVector(ctx, key, vec, c.model); err != nil {
			c.log.Warn().Err(err).Msg("durable embedding write failed")
		}
	}
	return vec, nil
}

// Close releases the in-process front.
func (c *Cache) Close() {
	c.front.Close()
}
