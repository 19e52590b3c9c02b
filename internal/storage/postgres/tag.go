package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// TagCache stores WordPress tag IDs per destination.
type TagCache struct {
	db *sqlx.DB
}

func NewTagCache(db *sqlx.DB) *TagCache {
	return &TagCache{db: db}
}

func (c *TagCache) Get(ctx context.Context, destination, name string) (int, bool, error) {
	var id int
	query := `SELECT tag_id FROM wordpress_tags WHERE destination = $1 AND name = $2`
	err := c.db.GetContext(ctx, &id, query, strings.ToLower(destination), strings.ToLower(name))
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("select tag: %w", err)
	}
	return id, true, nil
}

func (c *TagCache) Put(ctx context.Context, destination, name string, id int) error {
	query := `
		INSERT INTO wordpress_tags (destination, name, tag_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (destination, name) DO UPDATE SET tag_id = EXCLUDED.tag_id`
	if _, err := c.db.ExecContext(ctx, query, strings.ToLower(destination), strings.ToLower(name), id); err != nil {
		return fmt.Errorf("upsert tag: %w", err)
	}
	return nil
}
