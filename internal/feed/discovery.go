package feed

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"feedpulse/backend/internal/logger"
	"feedpulse/backend/internal/network"
)

const feedAccept = "application/rss+xml, application/atom+xml, application/xml;q=0.9, text/xml;q=0.8, */*;q=0.5"

// FallbackPaths are tried against the site origin when the page has no usable hint.
var FallbackPaths = []string{
	"/feed",
	"/rss",
	"/atom.xml",
	"/feed.xml",
	"/rss.xml",
	"/feed/rss",
	"/feed/atom",
	"/rss/feed",
	"/index.xml",
	"/feeds",
	"/index.rss",
	"/rss/index.xml",
	"/blog/feed",
	"/blog/rss",
	"/news/rss",
	"/de/feed",
	"/fr/feed",
	"/es/feed",
	"/rss/news",
	"/feeds/posts/default",
}

// Discovery is the result of locating a site's feed.
type Discovery struct {
	// BaseURL is the site identity posts are stored under.
	BaseURL string
	FeedURL string
}

// Discoverer locates a parsable feed for a seed URL.
type Discoverer struct {
	fetcher network.Fetcher
	timeout time.Duration
}

func NewDiscoverer(fetcher network.Fetcher, timeout time.Duration) *Discoverer {
	return &Discoverer{fetcher: fetcher, timeout: timeout}
}

// Discover returns ErrNoFeedFound when no candidate validates. An unsafe seed
// is reported as the validator's error.
func (d *Discoverer) Discover(ctx context.Context, seedURL string) (Discovery, error) {
	base := Origin(seedURL)
	if base == "" {
		return Discovery{}, ErrNoFeedFound
	}

	page, err := d.fetcher.Fetch(ctx, network.Request{
		URL:     seedURL,
		Timeout: d.timeout,
		Header:  http.Header{"Accept": []string{"text/html,application/xhtml+xml," + feedAccept}},
	})
	if err != nil {
		if errors.Is(err, network.ErrUnsafeURL) {
			return Discovery{}, err
		}
		logger.Debug("seed fetch failed", "module", "feed", "action", "discover", "resource", "feed", "result", "failed", "url", seedURL, "error", err)
	}

	pageURL := seedURL
	if page != nil {
		pageURL = page.FinalURL
		if final := Origin(page.FinalURL); final != "" {
			base = final
		}
		if Parse(page.Body).IsSyndicationFeed() {
			return Discovery{BaseURL: base, FeedURL: page.FinalURL}, nil
		}
		for _, candidate := range feedCandidates(page.Body, pageURL) {
			if d.IsValidFeedURL(ctx, candidate) {
				return Discovery{BaseURL: base, FeedURL: candidate}, nil
			}
		}
	}

	for _, path := range FallbackPaths {
		if ctx.Err() != nil {
			return Discovery{}, ctx.Err()
		}
		candidate := base + path
		if d.IsValidFeedURL(ctx, candidate) {
			return Discovery{BaseURL: base, FeedURL: candidate}, nil
		}
	}

	return Discovery{}, ErrNoFeedFound
}

// IsValidFeedURL fetches rawURL and reports whether it is an RSS or Atom feed
// with metadata and at least one entry.
func (d *Discoverer) IsValidFeedURL(ctx context.Context, rawURL string) bool {
	resp, err := d.fetcher.Fetch(ctx, network.Request{
		URL:     rawURL,
		Timeout: d.timeout,
		Header:  http.Header{"Accept": []string{feedAccept}},
	})
	if err != nil {
		return false
	}
	return Parse(resp.Body).IsSyndicationFeed()
}

// feedCandidates lists feed hints in page order: <link> tags first, then anchors.
func feedCandidates(body []byte, pageURL string) []string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil
	}

	seen := make(map[string]struct{})
	var out []string
	add := func(href string) {
		abs := ResolveURL(pageURL, href)
		if abs == "" {
			return
		}
		if _, ok := seen[abs]; ok {
			return
		}
		seen[abs] = struct{}{}
		out = append(out, abs)
	}

	doc.Find("link[href]").Each(func(_ int, s *goquery.Selection) {
		typ := strings.ToLower(s.AttrOr("type", ""))
		if strings.Contains(typ, "oembed") {
			return
		}
		if strings.Contains(typ, "rss") || strings.Contains(typ, "atom") || strings.Contains(typ, "xml") {
			add(s.AttrOr("href", ""))
		}
	})

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href := s.AttrOr("href", "")
		lower := strings.ToLower(href)
		if strings.Contains(lower, "rss") || strings.Contains(lower, "feed") || strings.Contains(lower, "atom") {
			add(href)
		}
	})

	return out
}
