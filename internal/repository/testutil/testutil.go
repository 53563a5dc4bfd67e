// Package testutil provides database fixtures for repository and service tests.
package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"feedpulse/backend/internal/db"
	"feedpulse/backend/internal/model"
	"feedpulse/backend/internal/snowflake"
)

const timeLayout = "2006-01-02T15:04:05.000000000Z"

// NewTestDB opens a migrated database in a temp dir, closed on test cleanup.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func SeedSubscription(t *testing.T, conn *sql.DB, sub model.Subscription) int64 {
	t.Helper()
	id := snowflake.NextID()
	now := time.Now().UTC().Format(timeLayout)
	_, err := conn.Exec(
		`INSERT INTO subscriptions (id, owner_id, url, feed_base_url, favicon_url, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, sub.OwnerID, sub.URL, sub.FeedBaseURL, sub.FaviconURL, now, now,
	)
	if err != nil {
		t.Fatalf("seed subscription: %v", err)
	}
	return id
}

func SeedPost(t *testing.T, conn *sql.DB, post model.Post) int64 {
	t.Helper()
	id := snowflake.NextID()
	created := post.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	var published interface{}
	if post.PublishedAt != nil {
		published = post.PublishedAt.UTC().Format(timeLayout)
	}
	title := post.Title
	if title == "" {
		title = "Untitled"
	}
	_, err := conn.Exec(
		`INSERT INTO posts (id, feed_base_url, title, published_at, content, image_url, post_url, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, post.FeedBaseURL, title, published, post.Content, post.ImageURL, post.PostURL,
		created.UTC().Format(timeLayout), created.UTC().Format(timeLayout),
	)
	if err != nil {
		t.Fatalf("seed post: %v", err)
	}
	return id
}

func CountPosts(t *testing.T, conn *sql.DB) int {
	t.Helper()
	var n int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM posts`).Scan(&n); err != nil {
		t.Fatalf("count posts: %v", err)
	}
	return n
}
