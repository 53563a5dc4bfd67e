package model

import "time"

// Subscription is a seed URL submitted by an owner. FeedBaseURL is the resolved
// site identity posts are keyed under; it stays nil until the first successful
// discovery.
type Subscription struct {
	ID          int64
	OwnerID     int64
	URL         string
	FeedBaseURL *string
	FaviconURL  *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// BaseURL returns the identity posts are stored under, falling back to the seed.
func (s Subscription) BaseURL() string {
	if s.FeedBaseURL != nil && *s.FeedBaseURL != "" {
		return *s.FeedBaseURL
	}
	return s.URL
}
