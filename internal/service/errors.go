package service

import (
	"errors"
	"fmt"

	"feedpulse/backend/internal/model"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrConflict       = errors.New("conflict")
	ErrInvalid        = errors.New("invalid")
	ErrPersistence    = errors.New("persistence failed")
	ErrAlreadyRunning = errors.New("ingestion already running")
)

// SubscriptionConflictError is returned when the owner already subscribed to the URL.
type SubscriptionConflictError struct {
	Existing model.Subscription
}

func (e *SubscriptionConflictError) Error() string {
	return "subscription already exists"
}

func (e *SubscriptionConflictError) Is(target error) bool {
	return target == ErrConflict
}

// PersistenceError wraps a failed commit of one subscription's posts.
type PersistenceError struct {
	FeedBaseURL string
	Err         error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist posts for %s: %v", e.FeedBaseURL, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}
