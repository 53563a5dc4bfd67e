package feed

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// dateLayouts are tried in order; the first successful parse wins.
var dateLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 MST",
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05-0700",
	"2006-01-02 15:04:05",
}

// NormalizeDate parses s into a UTC instant. Strings no layout accepts go
// through dateparse; if that fails too the result is now().
func NormalizeDate(s string, now func() time.Time) time.Time {
	if now == nil {
		now = time.Now
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return now().UTC()
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	if t, err := dateparse.ParseIn(s, time.UTC); err == nil {
		return t.UTC()
	}
	return now().UTC()
}
