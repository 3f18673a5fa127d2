package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sucrecam/backend/internal/domain"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS cache_entries (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	t     INTEGER NOT NULL
);`

// cacheRecord is the persisted value shape: write timestamp plus product
type cacheRecord struct {
	T int64                  `json:"t"` // epoch millis of the write
	V domain.ResolvedProduct `json:"v"`
}

// SQLiteCache is a durable key-value resolution cache. Rows survive restarts
// but still honor the TTL; corrupt rows are deleted and treated as misses.
type SQLiteCache struct {
	db  *sql.DB
	ttl time.Duration
}

// NewSQLiteCache opens (creating if needed) the cache database at dbPath
func NewSQLiteCache(dbPath string, ttl time.Duration) (*SQLiteCache, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open cache database: %w", err)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init cache schema: %w", err)
	}

	return &SQLiteCache{db: db, ttl: ttl}, nil
}

// Close closes the database connection
func (c *SQLiteCache) Close() error {
	return c.db.Close()
}

// Get retrieves a resolved product. Expired and unreadable rows are evicted
// and reported as misses, never surfaced as errors.
func (c *SQLiteCache) Get(ctx context.Context, key string) (*domain.ResolvedProduct, error) {
	var raw string
	err := c.db.QueryRowContext(ctx,
		"SELECT value FROM cache_entries WHERE key = ?", key,
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, domain.ErrCacheMiss
	}
	if err != nil {
		log.Printf("[CACHE] Read failed for %s: %v", key, err)
		return nil, domain.ErrCacheMiss
	}

	var record cacheRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		// Corrupt row: drop it and miss
		c.Delete(ctx, key)
		return nil, domain.ErrCacheMiss
	}

	written := time.UnixMilli(record.T)
	if record.T == 0 || time.Since(written) > c.ttl {
		c.Delete(ctx, key)
		return nil, domain.ErrCacheMiss
	}

	return &record.V, nil
}

// Set stores a resolved product, overwriting any existing row with a fresh
// timestamp
func (c *SQLiteCache) Set(ctx context.Context, key string, value *domain.ResolvedProduct) error {
	if value == nil {
		return domain.ErrInvalidRequest
	}

	raw, err := json.Marshal(cacheRecord{T: time.Now().UnixMilli(), V: *value})
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}

	_, err = c.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO cache_entries (key, value, t) VALUES (?, ?, ?)",
		key, string(raw), time.Now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	return nil
}

// Delete removes a cache row
func (c *SQLiteCache) Delete(ctx context.Context, key string) error {
	_, err := c.db.ExecContext(ctx, "DELETE FROM cache_entries WHERE key = ?", key)
	if err != nil {
		return fmt.Errorf("delete cache entry: %w", err)
	}
	return nil
}
