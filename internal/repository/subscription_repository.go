package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"feedpulse/backend/internal/model"
	"feedpulse/backend/internal/snowflake"
)

type SubscriptionRepository interface {
	Create(ctx context.Context, sub model.Subscription) (model.Subscription, error)
	GetByID(ctx context.Context, id int64) (model.Subscription, error)
	FindByOwnerAndURL(ctx context.Context, ownerID int64, url string) (*model.Subscription, error)
	List(ctx context.Context, ownerID *int64) ([]model.Subscription, error)
	UpdateFeedBaseURL(ctx context.Context, id int64, feedBaseURL string) error
	// Delete removes the subscription and, when no other subscription resolves to
	// the same identity, the posts stored under it. Returns the number of posts removed.
	Delete(ctx context.Context, id int64) (int64, error)
}

type subscriptionRepository struct {
	db txBeginner
}

func NewSubscriptionRepository(db txBeginner) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

const subscriptionColumns = `id, owner_id, url, feed_base_url, favicon_url, created_at, updated_at`

func (r *subscriptionRepository) Create(ctx context.Context, sub model.Subscription) (model.Subscription, error) {
	sub.ID = snowflake.NextID()
	now := time.Now().UTC()
	_, err := r.db.ExecContext(
		ctx,
		`INSERT INTO subscriptions (id, owner_id, url, feed_base_url, favicon_url, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sub.ID,
		sub.OwnerID,
		sub.URL,
		nullableString(sub.FeedBaseURL),
		nullableString(sub.FaviconURL),
		formatTime(now),
		formatTime(now),
	)
	if err != nil {
		return model.Subscription{}, fmt.Errorf("create subscription: %w", err)
	}
	sub.CreatedAt = now
	sub.UpdatedAt = now
	return sub, nil
}

func (r *subscriptionRepository) GetByID(ctx context.Context, id int64) (model.Subscription, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+subscriptionColumns+` FROM subscriptions WHERE id = ?`, id)
	return scanSubscription(row)
}

func (r *subscriptionRepository) FindByOwnerAndURL(ctx context.Context, ownerID int64, url string) (*model.Subscription, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+subscriptionColumns+` FROM subscriptions WHERE owner_id = ? AND url = ?`, ownerID, url)
	sub, err := scanSubscription(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find subscription: %w", err)
	}
	return &sub, nil
}

func (r *subscriptionRepository) List(ctx context.Context, ownerID *int64) ([]model.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions ORDER BY created_at, id`
	args := []interface{}{}
	if ownerID != nil {
		query = `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE owner_id = ? ORDER BY created_at, id`
		args = append(args, *ownerID)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []model.Subscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subscriptions: %w", err)
	}
	return subs, nil
}

func (r *subscriptionRepository) UpdateFeedBaseURL(ctx context.Context, id int64, feedBaseURL string) error {
	_, err := r.db.ExecContext(
		ctx,
		`UPDATE subscriptions SET feed_base_url = ?, updated_at = ? WHERE id = ?`,
		feedBaseURL,
		formatTime(time.Now()),
		id,
	)
	if err != nil {
		return fmt.Errorf("update subscription base url: %w", err)
	}
	return nil
}

func (r *subscriptionRepository) Delete(ctx context.Context, id int64) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin delete subscription: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	sub, err := scanSubscription(tx.QueryRowContext(ctx, `SELECT `+subscriptionColumns+` FROM subscriptions WHERE id = ?`, id))
	if err != nil {
		return 0, err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM subscriptions WHERE id = ?`, id); err != nil {
		return 0, fmt.Errorf("delete subscription: %w", err)
	}

	base := sub.BaseURL()
	var others int
	err = tx.QueryRowContext(
		ctx,
		`SELECT COUNT(*) FROM subscriptions WHERE COALESCE(NULLIF(feed_base_url, ''), url) = ?`,
		base,
	).Scan(&others)
	if err != nil {
		return 0, fmt.Errorf("count subscriptions sharing base url: %w", err)
	}

	var removed int64
	if others == 0 {
		res, err := tx.ExecContext(ctx, `DELETE FROM posts WHERE feed_base_url = ?`, base)
		if err != nil {
			return 0, fmt.Errorf("delete subscription posts: %w", err)
		}
		removed, _ = res.RowsAffected()
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit delete subscription: %w", err)
	}
	return removed, nil
}

func scanSubscription(scanner interface {
	Scan(dest ...interface{}) error
}) (model.Subscription, error) {
	var sub model.Subscription
	var feedBaseURL sql.NullString
	var faviconURL sql.NullString
	var createdAt string
	var updatedAt string
	if err := scanner.Scan(
		&sub.ID,
		&sub.OwnerID,
		&sub.URL,
		&feedBaseURL,
		&faviconURL,
		&createdAt,
		&updatedAt,
	); err != nil {
		return model.Subscription{}, err
	}
	if feedBaseURL.Valid {
		sub.FeedBaseURL = &feedBaseURL.String
	}
	if faviconURL.Valid {
		sub.FaviconURL = &faviconURL.String
	}
	var err error
	sub.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return model.Subscription{}, fmt.Errorf("parse subscription created_at: %w", err)
	}
	sub.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return model.Subscription{}, fmt.Errorf("parse subscription updated_at: %w", err)
	}
	return sub, nil
}
