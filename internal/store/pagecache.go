package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// PageCache persists raw fetched HTML keyed by URL with a TTL, using
// modernc.org/sqlite. It bounds repeat traffic against the frequency
// database site during bulk county discovery.
type PageCache struct {
	db  *sql.DB
	ttl time.Duration
}

// NewPageCache opens (or creates) the cache database at the given path and
// configures WAL mode.
func NewPageCache(dsn string, ttl time.Duration) (*PageCache, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "pagecache: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "pagecache: exec %s", pragma)
		}
	}
	return &PageCache{db: db, ttl: ttl}, nil
}

const pageCacheMigration = `
CREATE TABLE IF NOT EXISTS page_cache (
	id         TEXT PRIMARY KEY,
	url        TEXT NOT NULL UNIQUE,
	body       TEXT NOT NULL,
	fetched_at DATETIME NOT NULL DEFAULT (datetime('now')),
	expires_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_page_cache_expires_at ON page_cache(expires_at);
`

// Migrate creates the cache schema.
func (c *PageCache) Migrate(ctx context.Context) error {
	_, err := c.db.ExecContext(ctx, pageCacheMigration)
	return eris.Wrap(err, "pagecache: migrate")
}

// Close closes the underlying database.
func (c *PageCache) Close() error {
	return c.db.Close()
}

// Get returns the cached body for a URL. Expired or absent entries miss.
func (c *PageCache) Get(ctx context.Context, url string) (string, bool, error) {
	var body string
	err := c.db.QueryRowContext(ctx,
		`SELECT body FROM page_cache WHERE url = ? AND expires_at > ?`,
		url, time.Now().UTC(),
	).Scan(&body)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, eris.Wrap(err, "pagecache: get")
	}
	return body, true, nil
}

// Put stores a page body, replacing any existing entry for the URL.
func (c *PageCache) Put(ctx context.Context, url, body string) error {
	now := time.Now().UTC()
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO page_cache (id, url, body, fetched_at, expires_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (url) DO UPDATE SET
			body = excluded.body,
			fetched_at = excluded.fetched_at,
			expires_at = excluded.expires_at`,
		uuid.New().String(), url, body, now, now.Add(c.ttl),
	)
	return eris.Wrap(err, "pagecache: put")
}

// Purge deletes expired entries and reports how many were removed.
func (c *PageCache) Purge(ctx context.Context) (int64, error) {
	res, err := c.db.ExecContext(ctx,
		`DELETE FROM page_cache WHERE expires_at <= ?`, time.Now().UTC(),
	)
	if err != nil {
		return 0, eris.Wrap(err, "pagecache: purge")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, eris.Wrap(err, "pagecache: purge rows affected")
	}
	return n, nil
}

// Stats reports entry counts for cache inspection.
func (c *PageCache) Stats(ctx context.Context) (total, live int64, err error) {
	if err = c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM page_cache`).Scan(&total); err != nil {
		return 0, 0, eris.Wrap(err, "pagecache: count")
	}
	err = c.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM page_cache WHERE expires_at > ?`, time.Now().UTC(),
	).Scan(&live)
	if err != nil {
		return 0, 0, eris.Wrap(err, "pagecache: count live")
	}
	return total, live, nil
}
