package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"feedpulse/backend/internal/logger"
	"feedpulse/backend/internal/model"
	"feedpulse/backend/internal/network"
	"feedpulse/backend/internal/repository"
)

type SubscriptionService interface {
	Add(ctx context.Context, ownerID int64, rawURL string) (model.Subscription, error)
	List(ctx context.Context, ownerID int64) ([]model.Subscription, error)
	// Delete removes the owner's subscription and the posts no other
	// subscription still shares. Returns the number of posts removed.
	Delete(ctx context.Context, ownerID, id int64) (int64, error)
}

type subscriptionService struct {
	subscriptions repository.SubscriptionRepository
	guard         network.Guard
	favicons      FaviconService
}

func NewSubscriptionService(subscriptions repository.SubscriptionRepository, guard network.Guard, favicons FaviconService) SubscriptionService {
	return &subscriptionService{
		subscriptions: subscriptions,
		guard:         guard,
		favicons:      favicons,
	}
}

func (s *subscriptionService) Add(ctx context.Context, ownerID int64, rawURL string) (model.Subscription, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return model.Subscription{}, ErrInvalid
	}
	if err := s.guard.Check(ctx, rawURL); err != nil {
		return model.Subscription{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	existing, err := s.subscriptions.FindByOwnerAndURL(ctx, ownerID, rawURL)
	if err != nil {
		return model.Subscription{}, err
	}
	if existing != nil {
		return model.Subscription{}, &SubscriptionConflictError{Existing: *existing}
	}

	sub := model.Subscription{OwnerID: ownerID, URL: rawURL}
	if s.favicons != nil {
		sub.FaviconURL = s.favicons.Discover(ctx, rawURL)
	}

	created, err := s.subscriptions.Create(ctx, sub)
	if err != nil {
		logger.Error("subscription create failed", "module", "service", "action", "create", "resource", "subscription", "result", "failed", "owner_id", ownerID, "url", rawURL, "error", err)
		return model.Subscription{}, err
	}
	logger.Info("subscription created", "module", "service", "action", "create", "resource", "subscription", "result", "ok", "owner_id", ownerID, "subscription_id", created.ID)
	return created, nil
}

func (s *subscriptionService) List(ctx context.Context, ownerID int64) ([]model.Subscription, error) {
	return s.subscriptions.List(ctx, &ownerID)
}

func (s *subscriptionService) Delete(ctx context.Context, ownerID, id int64) (int64, error) {
	sub, err := s.subscriptions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	if sub.OwnerID != ownerID {
		return 0, ErrNotFound
	}

	removed, err := s.subscriptions.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		logger.Error("subscription delete failed", "module", "service", "action", "delete", "resource", "subscription", "result", "failed", "subscription_id", id, "error", err)
		return 0, err
	}
	logger.Info("subscription deleted", "module", "service", "action", "delete", "resource", "subscription", "result", "ok", "subscription_id", id, "posts_removed", removed)
	return removed, nil
}
