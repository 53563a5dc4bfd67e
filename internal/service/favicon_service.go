package service

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"feedpulse/backend/internal/feed"
	"feedpulse/backend/internal/logger"
	"feedpulse/backend/internal/network"
)

// FaviconService finds a site's icon URL.
type FaviconService interface {
	// Discover returns nil when the site declares no icon and has no /favicon.ico.
	Discover(ctx context.Context, siteURL string) *string
}

type faviconService struct {
	fetcher network.Fetcher
	timeout time.Duration
}

func NewFaviconService(fetcher network.Fetcher, timeout time.Duration) FaviconService {
	return &faviconService{fetcher: fetcher, timeout: timeout}
}

func (s *faviconService) Discover(ctx context.Context, siteURL string) *string {
	origin := feed.Origin(siteURL)
	if origin == "" {
		return nil
	}

	page, err := s.fetcher.Fetch(ctx, network.Request{URL: origin, Timeout: s.timeout})
	if err == nil {
		if href := iconHref(page.Body); href != "" {
			if u := feed.ResolveURL(page.FinalURL, href); u != "" {
				return &u
			}
		}
	} else {
		logger.Debug("favicon page fetch failed", "module", "service", "action", "discover", "resource", "favicon", "result", "failed", "url", origin, "error", err)
	}

	fallback := origin + "/favicon.ico"
	if _, err := s.fetcher.Fetch(ctx, network.Request{URL: fallback, Method: http.MethodHead, Timeout: s.timeout}); err == nil {
		return &fallback
	}
	return nil
}

func iconHref(body []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}
	var href string
	doc.Find("link[rel][href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		for _, token := range strings.Fields(strings.ToLower(sel.AttrOr("rel", ""))) {
			if token == "icon" {
				href = strings.TrimSpace(sel.AttrOr("href", ""))
				return href == ""
			}
		}
		return true
	})
	return href
}
