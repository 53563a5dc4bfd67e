package network

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsafeURL marks a URL rejected before any request was made.
	ErrUnsafeURL = errors.New("unsafe url")
	// ErrFetch marks transport failures, timeouts and non-2xx responses.
	ErrFetch = errors.New("fetch failed")
)

// UnsafeURLError carries the reason a URL was rejected.
type UnsafeURLError struct {
	URL    string
	Reason string
}

func (e *UnsafeURLError) Error() string {
	return fmt.Sprintf("unsafe url %q: %s", truncate(e.URL, 120), e.Reason)
}

func (e *UnsafeURLError) Is(target error) bool {
	return target == ErrUnsafeURL
}

// FetchError wraps a failed request. StatusCode is zero for transport errors.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: HTTP %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func (e *FetchError) Is(target error) bool {
	return target == ErrFetch
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
