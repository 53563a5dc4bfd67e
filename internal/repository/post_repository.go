package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"feedpulse/backend/internal/model"
	"feedpulse/backend/internal/snowflake"
)

type PostListFilter struct {
	FeedBaseURLs []string
	Limit        int
	Offset       int
}

type PostRepository interface {
	ExistsByURL(ctx context.Context, feedBaseURL, postURL string) (bool, error)
	// InsertBatch stores posts in a single transaction. Rows that collide on
	// (feed_base_url, post_url) are skipped, not overwritten. Returns the number
	// of rows actually inserted; on error nothing is stored.
	InsertBatch(ctx context.Context, posts []model.Post) (int, error)
	List(ctx context.Context, filter PostListFilter) ([]model.Post, error)
	Count(ctx context.Context, feedBaseURLs []string) (int, error)
	ListCreatedSince(ctx context.Context, feedBaseURLs []string, since time.Time) ([]model.Post, error)
	DistinctFeedBaseURLs(ctx context.Context) ([]string, error)
	// MoveFeedBaseURL rekeys posts from one identity to another. Posts whose
	// link already exists under the target are dropped.
	MoveFeedBaseURL(ctx context.Context, from, to string) (moved int64, dropped int64, err error)
}

type postRepository struct {
	db txBeginner
}

func NewPostRepository(db txBeginner) PostRepository {
	return &postRepository{db: db}
}

const postColumns = `id, feed_base_url, title, published_at, content, image_url, post_url, created_at, updated_at`

const insertPostSQL = `INSERT INTO posts (id, feed_base_url, title, published_at, content, image_url, post_url, created_at, updated_at)
 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
 ON CONFLICT(feed_base_url, post_url) DO NOTHING`

func (r *postRepository) ExistsByURL(ctx context.Context, feedBaseURL, postURL string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(
		ctx,
		`SELECT COUNT(*) FROM posts WHERE feed_base_url = ? AND post_url = ?`,
		feedBaseURL,
		postURL,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check post exists: %w", err)
	}
	return count > 0, nil
}

func (r *postRepository) InsertBatch(ctx context.Context, posts []model.Post) (int, error) {
	if len(posts) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin insert posts: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, insertPostSQL)
	if err != nil {
		return 0, fmt.Errorf("prepare insert post: %w", err)
	}
	defer stmt.Close()

	now := formatTime(time.Now())
	inserted := 0
	for _, post := range posts {
		id := post.ID
		if id == 0 {
			id = snowflake.NextID()
		}
		res, err := stmt.ExecContext(
			ctx,
			id,
			post.FeedBaseURL,
			post.Title,
			nullableTime(post.PublishedAt),
			post.Content,
			nullableString(post.ImageURL),
			post.PostURL,
			now,
			now,
		)
		if err != nil {
			return 0, fmt.Errorf("insert post %s: %w", post.PostURL, err)
		}
		if n, err := res.RowsAffected(); err == nil && n > 0 {
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit posts: %w", err)
	}
	return inserted, nil
}

func (r *postRepository) List(ctx context.Context, filter PostListFilter) ([]model.Post, error) {
	if len(filter.FeedBaseURLs) == 0 {
		return nil, nil
	}
	query := `SELECT ` + postColumns + ` FROM posts WHERE feed_base_url IN (` + placeholders(len(filter.FeedBaseURLs)) + `)
		ORDER BY published_at DESC, id DESC`
	args := stringArgs(filter.FeedBaseURLs)
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filter.Offset)
		}
	}
	return r.queryPosts(ctx, query, args...)
}

func (r *postRepository) Count(ctx context.Context, feedBaseURLs []string) (int, error) {
	if len(feedBaseURLs) == 0 {
		return 0, nil
	}
	var count int
	err := r.db.QueryRowContext(
		ctx,
		`SELECT COUNT(*) FROM posts WHERE feed_base_url IN (`+placeholders(len(feedBaseURLs))+`)`,
		stringArgs(feedBaseURLs)...,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return count, nil
}

func (r *postRepository) ListCreatedSince(ctx context.Context, feedBaseURLs []string, since time.Time) ([]model.Post, error) {
	if len(feedBaseURLs) == 0 {
		return nil, nil
	}
	args := stringArgs(feedBaseURLs)
	args = append(args, formatTime(since))
	return r.queryPosts(
		ctx,
		`SELECT `+postColumns+` FROM posts
		 WHERE feed_base_url IN (`+placeholders(len(feedBaseURLs))+`) AND created_at > ?
		 ORDER BY created_at DESC, id DESC`,
		args...,
	)
}

func (r *postRepository) DistinctFeedBaseURLs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT feed_base_url FROM posts ORDER BY feed_base_url`)
	if err != nil {
		return nil, fmt.Errorf("list feed base urls: %w", err)
	}
	defer rows.Close()

	var urls []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, err
		}
		urls = append(urls, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate feed base urls: %w", err)
	}
	return urls, nil
}

func (r *postRepository) MoveFeedBaseURL(ctx context.Context, from, to string) (int64, int64, error) {
	if from == to {
		return 0, 0, nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("begin move posts: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(
		ctx,
		`UPDATE OR IGNORE posts SET feed_base_url = ?, updated_at = ? WHERE feed_base_url = ?`,
		to,
		formatTime(time.Now()),
		from,
	)
	if err != nil {
		return 0, 0, fmt.Errorf("move posts: %w", err)
	}
	moved, _ := res.RowsAffected()

	res, err = tx.ExecContext(ctx, `DELETE FROM posts WHERE feed_base_url = ?`, from)
	if err != nil {
		return 0, 0, fmt.Errorf("drop duplicate posts: %w", err)
	}
	dropped, _ := res.RowsAffected()

	if err := tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("commit move posts: %w", err)
	}
	return moved, dropped, nil
}

func (r *postRepository) queryPosts(ctx context.Context, query string, args ...interface{}) ([]model.Post, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	defer rows.Close()

	var posts []model.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate posts: %w", err)
	}
	return posts, nil
}

func scanPost(scanner interface {
	Scan(dest ...interface{}) error
}) (model.Post, error) {
	var p model.Post
	var publishedAt sql.NullString
	var imageURL sql.NullString
	var createdAt, updatedAt string

	err := scanner.Scan(
		&p.ID, &p.FeedBaseURL, &p.Title, &publishedAt, &p.Content, &imageURL, &p.PostURL, &createdAt, &updatedAt,
	)
	if err != nil {
		return model.Post{}, err
	}
	p.PublishedAt = parseTimePtr(publishedAt)
	if imageURL.Valid {
		p.ImageURL = &imageURL.String
	}
	p.CreatedAt, _ = parseTime(createdAt)
	p.UpdatedAt, _ = parseTime(updatedAt)
	return p, nil
}
