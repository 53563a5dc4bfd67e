package service

import (
	"context"
	"strings"

	"feedpulse/backend/internal/model"
	"feedpulse/backend/internal/repository"
)

type ReadLogService interface {
	Log(ctx context.Context, ownerID int64, postURL string) (model.ReadLog, error)
}

type readLogService struct {
	logs repository.ReadLogRepository
}

func NewReadLogService(logs repository.ReadLogRepository) ReadLogService {
	return &readLogService{logs: logs}
}

func (s *readLogService) Log(ctx context.Context, ownerID int64, postURL string) (model.ReadLog, error) {
	postURL = strings.TrimSpace(postURL)
	if postURL == "" {
		return model.ReadLog{}, ErrInvalid
	}
	return s.logs.Create(ctx, model.ReadLog{OwnerID: ownerID, PostURL: postURL})
}
