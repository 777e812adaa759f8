package fetch

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Cache is a sqlite-backed response cache with per-entry expiry. It lets
// repeated conversions of the same pages skip the network while entries are
// fresh.
type Cache struct {
	db  *sql.DB
	ttl time.Duration
}

// NewCache opens (creating if needed) a cache database at path with the
// given entry lifetime
func NewCache(path string, ttl time.Duration) (*Cache, error) {
	if path == "" {
		return nil, errors.New("cache path required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("cache ttl must be positive, got %v", ttl)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}
	db.SetMaxOpenConns(1)

	const schema = `
	CREATE TABLE IF NOT EXISTS responses (
		url        TEXT PRIMARY KEY,
		body       TEXT NOT NULL,
		fetched_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_responses_fetched_at ON responses(fetched_at);`

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}

	return &Cache{db: db, ttl: ttl}, nil
}

// Get returns the cached body for url when present and not expired
func (c *Cache) Get(ctx context.Context, url string) (string, bool, error) {
	var body string
	var fetchedAt int64

	err := c.db.QueryRowContext(ctx,
		`SELECT body, fetched_at FROM responses WHERE url = ?`, url,
	).Scan(&body, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading cache entry: %w", err)
	}

	if time.Since(time.UnixMilli(fetchedAt)) > c.ttl {
		_, _ = c.db.ExecContext(ctx, `DELETE FROM responses WHERE url = ?`, url)
		return "", false, nil
	}
	return body, true, nil
}

// Set stores or refreshes the cached body for url
func (c *Cache) Set(ctx context.Context, url, body string) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO responses (url, body, fetched_at) VALUES (?, ?, ?)
		 ON CONFLICT(url) DO UPDATE SET body = excluded.body, fetched_at = excluded.fetched_at`,
		url, body, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	return nil
}

// Cleanup removes expired entries and returns how many were deleted
func (c *Cache) Cleanup(ctx context.Context) (int64, error) {
	cutoff := time.Now().Add(-c.ttl).UnixMilli()
	res, err := c.db.ExecContext(ctx, `DELETE FROM responses WHERE fetched_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("cleaning cache: %w", err)
	}
	return res.RowsAffected()
}

// Close releases the cache database
func (c *Cache) Close() error {
	return c.db.Close()
}
