package catalog

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

// DefaultCacheTTL matches how long the document store results stay fresh.
const DefaultCacheTTL = 5 * time.Minute

// Cache keeps fetched catalog documents in a small SQLite database so
// repeated runs do not hit the document store.
type Cache struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

// OpenCache opens (creating if needed) the cache database at path.
func OpenCache(ctx context.Context, path string, ttl time.Duration) (*Cache, error) {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}

	const schema = `
	CREATE TABLE IF NOT EXISTS documents (
		key       TEXT PRIMARY KEY,
		data      BLOB NOT NULL,
		stored_at INTEGER NOT NULL
	);`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize cache schema: %w", err)
	}

	return &Cache{db: db, ttl: ttl, now: time.Now}, nil
}

// TTL returns how long entries stay valid.
func (c *Cache) TTL() time.Duration { return c.ttl }

// Get returns the document stored under key if it has not expired. Expired
// entries stay in the database for Stale until they are replaced or cleared.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, storedAt, ok, err := c.Stale(ctx, key)
	if err != nil || !ok {
		return nil, false, err
	}
	if c.now().Sub(storedAt) >= c.ttl {
		return nil, false, nil
	}
	return data, true, nil
}

// Stale returns the document stored under key whatever its age, with the
// time it was stored.
func (c *Cache) Stale(ctx context.Context, key string) ([]byte, time.Time, bool, error) {
	var (
		data     []byte
		storedAt int64
	)
	err := c.db.QueryRowContext(ctx,
		`SELECT data, stored_at FROM documents WHERE key = ?`, key).Scan(&data, &storedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, time.Time{}, false, nil
	}
	if err != nil {
		return nil, time.Time{}, false, fmt.Errorf("reading cache: %w", err)
	}
	return data, time.Unix(0, storedAt), true, nil
}

// Put stores data under key, replacing any previous entry.
func (c *Cache) Put(ctx context.Context, key string, data []byte) error {
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO documents (key, data, stored_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET data = excluded.data, stored_at = excluded.stored_at`,
		key, data, c.now().UnixNano())
	if err != nil {
		return fmt.Errorf("writing cache: %w", err)
	}
	return nil
}

// Clear removes every entry and returns how many were dropped.
func (c *Cache) Clear(ctx context.Context) (int64, error) {
	res, err := c.db.ExecContext(ctx, `DELETE FROM documents`)
	if err != nil {
		return 0, fmt.Errorf("clearing cache: %w", err)
	}
	return res.RowsAffected()
}

// Close releases the database handle.
func (c *Cache) Close() error {
	return c.db.Close()
}
