package registry

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// DefaultTTL is how long a cached latest-version answer stays valid.
const DefaultTTL = time.Hour

const cacheSchema = `
CREATE TABLE IF NOT EXISTS latest_versions (
	package    TEXT PRIMARY KEY,
	version    TEXT NOT NULL,
	fetched_at INTEGER NOT NULL
);
`

// Cache is a sqlite-backed TTL cache of latest-version lookups.
type Cache struct {
	db  *sql.DB
	ttl time.Duration

	// now is swappable in tests.
	now func() time.Time
}

// OpenCache opens (creating if needed) the cache database at path.
// ttl <= 0 uses DefaultTTL.
func OpenCache(path string, ttl time.Duration) (*Cache, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	db, err := openDB("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}
	if _, err := db.Exec(cacheSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initializing cache schema: %w", err)
	}
	return &Cache{db: db, ttl: ttl, now: time.Now}, nil
}

// Get returns the cached version for a package if present and fresh.
func (c *Cache) Get(pkg string) (string, bool) {
	var version string
	var fetchedAt int64
	err := c.db.QueryRow(
		"SELECT version, fetched_at FROM latest_versions WHERE package = ?", pkg,
	).Scan(&version, &fetchedAt)
	if err != nil {
		return "", false
	}
	if c.now().Sub(time.Unix(fetchedAt, 0)) > c.ttl {
		return "", false
	}
	return version, true
}

// Put stores or refreshes a package's latest version.
func (c *Cache) Put(pkg, version string) error {
	_, err := c.db.Exec(
		`INSERT INTO latest_versions (package, version, fetched_at) VALUES (?, ?, ?)
		 ON CONFLICT(package) DO UPDATE SET version = excluded.version, fetched_at = excluded.fetched_at`,
		pkg, version, c.now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("caching %s: %w", pkg, err)
	}
	return nil
}

// Purge drops every cached entry.
func (c *Cache) Purge() error {
	_, err := c.db.Exec("DELETE FROM latest_versions")
	return err
}

// Close releases the underlying database handle.
func (c *Cache) Close() error {
	return c.db.Close()
}
