package feed

import "errors"

var (
	// ErrNoFeedFound means discovery exhausted every candidate. Callers skip the
	// subscription for this cycle.
	ErrNoFeedFound = errors.New("no feed found")
	// ErrEmptyFeed means the feed body parsed into zero entries or did not parse.
	ErrEmptyFeed = errors.New("feed has no entries")
)
