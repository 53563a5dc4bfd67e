package model

import "time"

// MaxTitleLength is the stored title limit in characters.
const MaxTitleLength = 255

type Post struct {
	ID          int64
	FeedBaseURL string
	Title       string
	PublishedAt *time.Time
	Content     string
	ImageURL    *string
	PostURL     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
