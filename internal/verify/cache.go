package verify

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// CacheEntry is one cached verification result for an external URL.
type CacheEntry struct {
	URL       string
	Status    int
	OK        bool
	Error     string
	CheckedAt time.Time
}

// Cache persists external-link verification results in SQLite so repeated
// scans do not hammer remote servers. Use ":memory:" for an in-memory cache.
type Cache struct {
	db  *sql.DB
	ttl time.Duration
	mu  sync.Mutex
}

// OpenCache opens (creating if needed) the cache database at dbPath.
func OpenCache(dbPath string, ttl time.Duration) (*Cache, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
			return nil, fmt.Errorf("create cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	c := &Cache{db: db, ttl: ttl}
	if err := c.initialize(); err != nil {
		_ = db.Close() // Best effort cleanup on initialization error
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return c, nil
}

func (c *Cache) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS link_cache (
		url TEXT PRIMARY KEY,
		status INTEGER NOT NULL,
		ok INTEGER NOT NULL,
		error TEXT,
		checked_at INTEGER NOT NULL
	);
	`
	_, err := c.db.Exec(schema)
	return err
}

// Get returns the cached entry for url, or nil when absent.
func (c *Cache) Get(ctx context.Context, url string) (*CacheEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	row := c.db.QueryRowContext(ctx,
		"SELECT status, ok, error, checked_at FROM link_cache WHERE url = ?", url)

	var entry CacheEntry
	var ok int
	var errMsg sql.NullString
	var checkedAt int64
	if err := row.Scan(&entry.Status, &ok, &errMsg, &checkedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query cache: %w", err)
	}

	entry.URL = url
	entry.OK = ok != 0
	entry.Error = errMsg.String
	entry.CheckedAt = time.Unix(checkedAt, 0)
	return &entry, nil
}

// Put inserts or replaces the cached entry for entry.URL.
func (c *Cache) Put(ctx context.Context, entry *CacheEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	ok := 0
	if entry.OK {
		ok = 1
	}
	_, err := c.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO link_cache (url, status, ok, error, checked_at) VALUES (?, ?, ?, ?, ?)",
		entry.URL, entry.Status, ok, entry.Error, entry.CheckedAt.Unix())
	if err != nil {
		return fmt.Errorf("update cache: %w", err)
	}
	return nil
}

// Valid reports whether a cached entry is still within its lifetime.
func (c *Cache) Valid(entry *CacheEntry) bool {
	return entry != nil && time.Since(entry.CheckedAt) < c.ttl
}

// Close releases the database handle.
func (c *Cache) Close() error {
	return c.db.Close()
}
