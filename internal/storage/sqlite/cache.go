package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Cache is a core.Cache stored in the cache table. Expiry is checked on read;
// Sweep removes stale rows.
type Cache struct {
	db  *sql.DB
	now func() time.Time
}

func NewCache(db *sql.DB) *Cache {
	return &Cache{db: db, now: time.Now}
}

func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := c.db.QueryRowContext(ctx,
		`SELECT value FROM cache WHERE key = ? AND expires_at > ?`,
		key, c.now().UnixNano(),
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cache: %w", err)
	}
	return value, true, nil
}

func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO cache (key, value, expires_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at`,
		key, value, c.now().Add(ttl).UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to write cache: %w", err)
	}
	return nil
}

func (c *Cache) Delete(ctx context.Context, key string) error {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM cache WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete cache entry: %w", err)
	}
	return nil
}

// Sweep deletes expired rows and reports how many were removed.
func (c *Cache) Sweep(ctx context.Context) (int, error) {
	res, err := c.db.ExecContext(ctx, `DELETE FROM cache WHERE expires_at <= ?`, c.now().UnixNano())
	if err != nil {
		return 0, fmt.Errorf("failed to sweep cache: %w", err)
	}
	n, err := res.RowsAffected()
	return int(n), err
}
