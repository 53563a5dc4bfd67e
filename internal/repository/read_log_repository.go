package repository

import (
	"context"
	"fmt"
	"time"

	"feedpulse/backend/internal/model"
	"feedpulse/backend/internal/snowflake"
)

type ReadLogRepository interface {
	Create(ctx context.Context, log model.ReadLog) (model.ReadLog, error)
	CountByOwner(ctx context.Context, ownerID int64) (int, error)
}

type readLogRepository struct {
	db dbtx
}

func NewReadLogRepository(db dbtx) ReadLogRepository {
	return &readLogRepository{db: db}
}

func (r *readLogRepository) Create(ctx context.Context, log model.ReadLog) (model.ReadLog, error) {
	log.ID = snowflake.NextID()
	if log.ReadAt.IsZero() {
		log.ReadAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(
		ctx,
		`INSERT INTO read_logs (id, owner_id, post_url, read_at) VALUES (?, ?, ?, ?)`,
		log.ID,
		log.OwnerID,
		log.PostURL,
		formatTime(log.ReadAt),
	)
	if err != nil {
		return model.ReadLog{}, fmt.Errorf("create read log: %w", err)
	}
	return log, nil
}

func (r *readLogRepository) CountByOwner(ctx context.Context, ownerID int64) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM read_logs WHERE owner_id = ?`, ownerID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count read logs: %w", err)
	}
	return count, nil
}
