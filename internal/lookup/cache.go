package lookup

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Cache stores raw source responses in SQLite, keyed by source and request
// URL. Entries older than the TTL are treated as absent and overwritten on
// the next fetch.
type Cache struct {
	db  *sql.DB
	ttl time.Duration
}

// OpenCache opens or creates the cache database under the repository's .bib
// directory.
func OpenCache(repoPath string, ttl time.Duration) (*Cache, error) {
	cacheDir := filepath.Join(repoPath, ".bib")
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create .bib directory: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(cacheDir, "cache.db"))
	if err != nil {
		return nil, fmt.Errorf("failed to open lookup cache: %w", err)
	}

	c := &Cache{db: db, ttl: ttl}
	if err := c.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

func (c *Cache) initialize() error {
	_, err := c.db.Exec(`
		CREATE TABLE IF NOT EXISTS lookups (
			source     TEXT NOT NULL,
			query      TEXT NOT NULL,
			payload    BLOB NOT NULL,
			fetched_at INTEGER NOT NULL,
			PRIMARY KEY (source, query)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to initialize lookup cache: %w", err)
	}
	return nil
}

// Get returns the cached payload for a request, or ok=false when the entry
// is missing or expired.
func (c *Cache) Get(source, query string) ([]byte, bool, error) {
	var payload []byte
	var fetchedAt int64
	err := c.db.QueryRow(
		`SELECT payload, fetched_at FROM lookups WHERE source = ? AND query = ?`,
		source, query,
	).Scan(&payload, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read lookup cache: %w", err)
	}

	if c.ttl > 0 && time.Since(time.Unix(fetchedAt, 0)) > c.ttl {
		return nil, false, nil
	}
	return payload, true, nil
}

// Put stores a payload, replacing any previous entry for the request.
func (c *Cache) Put(source, query string, payload []byte) error {
	_, err := c.db.Exec(
		`INSERT OR REPLACE INTO lookups (source, query, payload, fetched_at) VALUES (?, ?, ?, ?)`,
		source, query, payload, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to write lookup cache: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}
