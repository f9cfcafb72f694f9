package storage

import "database/sql"

// migrateV001 creates the initial cogflow schema: the embedding cache
// table and the threshold slot. Every statement uses IF NOT EXISTS for
// idempotency.
func migrateV001(tx *sql.Tx) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS embeddings (
			key        TEXT PRIMARY KEY,
			vector     BLOB NOT NULL,
			dims       INTEGER NOT NULL,
			model      TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS thresholds (
			key         TEXT PRIMARY KEY CHECK (key = 'current'),
			related     REAL NOT NULL,
			topic_shift REAL NOT NULL,
			updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_embeddings_model ON embeddings(model)`,
	}

	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
