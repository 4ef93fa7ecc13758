package recipe

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/myrjola/pfaplan/internal/errors"
	"github.com/myrjola/pfaplan/internal/sqlite"
)

// SQLiteCache persists entries in the recipe_cache table so repeated planner runs reuse fetched recipes.
type SQLiteCache struct {
	db  *sqlite.Database
	ttl time.Duration
	now func() time.Time
}

// NewSQLiteCache returns a cache on db whose entries expire after ttl.
func NewSQLiteCache(db *sqlite.Database, ttl time.Duration) *SQLiteCache {
	return &SQLiteCache{db: db, ttl: ttl, now: time.Now}
}

// WithClock replaces the time source.
func (c *SQLiteCache) WithClock(now func() time.Time) *SQLiteCache {
	c.now = now
	return c
}

func (c *SQLiteCache) Get(ctx context.Context, key string) ([]Recipe, bool, error) {
	var (
		payload  string
		storedAt int64
	)
	err := c.db.ReadOnly.QueryRowContext(ctx,
		"SELECT recipes, stored_at FROM recipe_cache WHERE cache_key = ?;", key).Scan(&payload, &storedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("select cached recipes: %w", err)
	}
	if c.now().Sub(time.Unix(storedAt, 0)) > c.ttl {
		return nil, false, nil
	}
	var recipes []Recipe
	if err = json.Unmarshal([]byte(payload), &recipes); err != nil {
		return nil, false, fmt.Errorf("decode cached recipes: %w", err)
	}
	return recipes, true, nil
}

func (c *SQLiteCache) Put(ctx context.Context, key string, recipes []Recipe) error {
	if recipes == nil {
		recipes = []Recipe{}
	}
	payload, err := json.Marshal(recipes)
	if err != nil {
		return fmt.Errorf("encode recipes: %w", err)
	}
	if _, err = c.db.ReadWrite.ExecContext(ctx, `
		INSERT INTO recipe_cache (cache_key, recipes, stored_at) VALUES (?, ?, ?)
		ON CONFLICT (cache_key) DO UPDATE SET recipes = excluded.recipes, stored_at = excluded.stored_at;`,
		key, string(payload), c.now().Unix()); err != nil {
		return fmt.Errorf("upsert cached recipes: %w", err)
	}
	return nil
}

// Purge deletes expired entries and returns how many were removed.
func (c *SQLiteCache) Purge(ctx context.Context) (int64, error) {
	res, err := c.db.ReadWrite.ExecContext(ctx,
		"DELETE FROM recipe_cache WHERE stored_at < ?;", c.now().Add(-c.ttl).Unix())
	if err != nil {
		return 0, fmt.Errorf("purge recipe cache: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}
