package feed

import (
	"bytes"
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"feedpulse/backend/internal/logger"
	"feedpulse/backend/internal/network"
)

// articleMetaImages are tried in order on the article page.
var articleMetaImages = []string{
	`meta[property="og:image"]`,
	`meta[name="og:image"]`,
	`meta[name="twitter:image"]`,
	`meta[property="twitter:image"]`,
	`meta[property="article:image"]`,
	`meta[name="article:image"]`,
}

// ImageResolver picks a representative image for an entry.
type ImageResolver struct {
	fetcher network.Fetcher
	timeout time.Duration
}

func NewImageResolver(fetcher network.Fetcher, timeout time.Duration) *ImageResolver {
	return &ImageResolver{fetcher: fetcher, timeout: timeout}
}

// Resolve returns nil when no source yields an image. It never fails.
func (r *ImageResolver) Resolve(ctx context.Context, entry RawEntry, feedBaseURL string) *string {
	if u := r.resolve(ctx, entry, feedBaseURL); u != "" {
		return &u
	}
	return nil
}

func (r *ImageResolver) resolve(ctx context.Context, entry RawEntry, feedBaseURL string) (found string) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Warn("image resolve panic", "module", "feed", "action", "resolve", "resource", "image", "result", "failed", "url", entry.Link, "error", rec)
			found = ""
		}
	}()

	for _, m := range entry.MediaContent {
		if m.IsImage() {
			if u := ResolveURL(feedBaseURL, m.URL); u != "" {
				return u
			}
		}
	}
	for _, m := range entry.MediaThumbnails {
		if u := ResolveURL(feedBaseURL, m.URL); u != "" {
			return u
		}
	}
	for _, m := range entry.Enclosures {
		if m.IsImage() {
			if u := ResolveURL(feedBaseURL, m.URL); u != "" {
				return u
			}
		}
	}
	for _, block := range entry.Content {
		if u := ResolveURL(feedBaseURL, FirstImageSrc(block.Value)); u != "" {
			return u
		}
	}
	if u := ResolveURL(feedBaseURL, FirstImageSrc(entry.Summary)); u != "" {
		return u
	}
	if u := ResolveURL(feedBaseURL, FirstImageSrc(entry.Description)); u != "" {
		return u
	}

	if entry.Link == "" || r.fetcher == nil {
		return ""
	}
	return r.fromArticlePage(ctx, entry.Link, feedBaseURL)
}

func (r *ImageResolver) fromArticlePage(ctx context.Context, link, feedBaseURL string) string {
	resp, err := r.fetcher.Fetch(ctx, network.Request{URL: link, Timeout: r.timeout})
	if err != nil {
		logger.Debug("article page fetch failed", "module", "feed", "action", "resolve", "resource", "image", "result", "failed", "url", link, "error", err)
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body))
	if err != nil {
		return ""
	}

	for _, selector := range articleMetaImages {
		if content := strings.TrimSpace(doc.Find(selector).First().AttrOr("content", "")); content != "" {
			if u := ResolveURL(feedBaseURL, content); u != "" {
				return u
			}
		}
	}

	region := doc.Find("article, main").First()
	if region.Length() == 0 {
		region = doc.Selection
	}
	src := strings.TrimSpace(region.Find("img[src]").First().AttrOr("src", ""))
	return ResolveURL(feedBaseURL, src)
}

// FirstImageSrc returns the src of the first <img> in an HTML fragment.
func FirstImageSrc(fragment string) string {
	if !strings.Contains(strings.ToLower(fragment), "<img") {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("img[src]").First().AttrOr("src", ""))
}
