package db

import (
	"database/sql"
	"fmt"
)

const baseSchema = `
CREATE TABLE IF NOT EXISTS subscriptions (
  id INTEGER PRIMARY KEY,
  owner_id INTEGER NOT NULL,
  url TEXT NOT NULL,
  favicon_url TEXT,
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_subscriptions_owner_url ON subscriptions(owner_id, url);

CREATE TABLE IF NOT EXISTS posts (
  id INTEGER PRIMARY KEY,
  feed_base_url TEXT NOT NULL,
  title TEXT NOT NULL,
  published_at TEXT,
  content TEXT NOT NULL DEFAULT '',
  image_url TEXT,
  post_url TEXT NOT NULL,
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_posts_published_at ON posts(published_at);
CREATE INDEX IF NOT EXISTS idx_posts_created_at ON posts(created_at);

CREATE TABLE IF NOT EXISTS read_logs (
  id INTEGER PRIMARY KEY,
  owner_id INTEGER NOT NULL,
  post_url TEXT NOT NULL,
  read_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_read_logs_owner ON read_logs(owner_id);
`

func Migrate(db *sql.DB) error {
	if _, err := db.Exec(baseSchema); err != nil {
		return fmt.Errorf("migrate base schema: %w", err)
	}

	if err := runMigrations(db); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

func runMigrations(db *sql.DB) error {
	// Migration 1: resolved site identity on subscriptions.
	if err := addColumnIfMissing(db, "subscriptions", "feed_base_url", "TEXT"); err != nil {
		return err
	}
	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_subscriptions_feed_base_url ON subscriptions(feed_base_url)`); err != nil {
		return fmt.Errorf("create idx_subscriptions_feed_base_url: %w", err)
	}

	// Migration 2: dedup key. Older databases were unique on post_url alone,
	// which wrongly collapsed the same link across different feeds.
	if _, err := db.Exec(`DROP INDEX IF EXISTS idx_posts_post_url`); err != nil {
		return fmt.Errorf("drop idx_posts_post_url: %w", err)
	}
	if _, err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_posts_feed_post_url ON posts(feed_base_url, post_url)`); err != nil {
		return fmt.Errorf("create idx_posts_feed_post_url: %w", err)
	}

	return nil
}

func addColumnIfMissing(db *sql.DB, table, column, definition string) error {
	var count int
	err := db.QueryRow(
		`SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?`, table, column,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("check %s.%s column: %w", table, column, err)
	}
	if count > 0 {
		return nil
	}
	if _, err := db.Exec(fmt.Sprintf(`ALTER TABLE %s ADD COLUMN %s %s`, table, column, definition)); err != nil {
		return fmt.Errorf("add %s.%s column: %w", table, column, err)
	}
	return nil
}
