package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"feedpulse/backend/internal/config"
	"feedpulse/backend/internal/feed"
	"feedpulse/backend/internal/logger"
	"feedpulse/backend/internal/metrics"
	"feedpulse/backend/internal/model"
	"feedpulse/backend/internal/network"
	"feedpulse/backend/internal/repository"
)

const (
	untitled          = "Untitled"
	previewTitleCount = 5
	feedAccept        = "application/rss+xml, application/atom+xml, application/xml;q=0.9, text/xml;q=0.8, */*;q=0.5"
)

// FeedStatus is the outcome of one subscription within a run.
type FeedStatus string

const (
	StatusOK            FeedStatus = "ok"
	StatusUnsafe        FeedStatus = "unsafe"
	StatusNoFeed        FeedStatus = "no_feed"
	StatusFetchFailed   FeedStatus = "fetch_failed"
	StatusEmpty         FeedStatus = "empty"
	StatusPersistFailed FeedStatus = "persist_failed"
	StatusTimeout       FeedStatus = "timeout"
	StatusCancelled     FeedStatus = "cancelled"
)

// FeedResult reports what happened to one subscription.
type FeedResult struct {
	SubscriptionID int64
	SeedURL        string
	FeedBaseURL    string
	FeedURL        string
	NewPosts       int
	SkippedEntries int
	PreviewTitles  []string
	Status         FeedStatus
	Err            error
}

// RunReport summarizes an ingestion run.
type RunReport struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Feeds      []FeedResult
	NewPosts   int
	Skipped    int
}

// Success is false when any feed lost its staged posts to a failed commit or
// the run was cancelled before reaching it. Feeds skipped for other reasons are
// expected and retried next run.
func (r RunReport) Success() bool {
	for _, f := range r.Feeds {
		if f.Status == StatusPersistFailed || f.Status == StatusCancelled {
			return false
		}
	}
	return true
}

type IngestService interface {
	// Run processes every subscription, or only ownerID's when set. The error is
	// non-nil only when subscriptions could not be listed.
	Run(ctx context.Context, ownerID *int64) (RunReport, error)
}

type IngestOptions struct {
	Workers      int
	Readability  bool
	FetchTimeout time.Duration
	ImageTimeout time.Duration
	// FeedTimeout bounds all work for one subscription, discovery included.
	FeedTimeout time.Duration
	Now          func() time.Time
}

type ingestService struct {
	subscriptions repository.SubscriptionRepository
	posts         repository.PostRepository
	guard         network.Guard
	fetcher       network.Fetcher
	discoverer    *feed.Discoverer
	images        *feed.ImageResolver
	metrics       *metrics.Ingest
	opts          IngestOptions
}

func NewIngestService(
	subscriptions repository.SubscriptionRepository,
	posts repository.PostRepository,
	guard network.Guard,
	fetcher network.Fetcher,
	m *metrics.Ingest,
	opts IngestOptions,
) IngestService {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = config.DefaultFetchTimeout
	}
	if opts.ImageTimeout <= 0 {
		opts.ImageTimeout = config.DefaultImageTimeout
	}
	if opts.FeedTimeout <= 0 {
		opts.FeedTimeout = config.DefaultFeedTimeout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &ingestService{
		subscriptions: subscriptions,
		posts:         posts,
		guard:         guard,
		fetcher:       fetcher,
		discoverer:    feed.NewDiscoverer(fetcher, opts.FetchTimeout),
		images:        feed.NewImageResolver(fetcher, opts.ImageTimeout),
		metrics:       m,
		opts:          opts,
	}
}

func (s *ingestService) Run(ctx context.Context, ownerID *int64) (RunReport, error) {
	report := RunReport{
		RunID:     uuid.NewString(),
		StartedAt: s.opts.Now().UTC(),
	}

	subs, err := s.subscriptions.List(ctx, ownerID)
	if err != nil {
		report.FinishedAt = s.opts.Now().UTC()
		s.metrics.ObserveRun(false, report.FinishedAt.Sub(report.StartedAt))
		logger.Error("ingest list subscriptions failed", "module", "service", "action", "ingest", "resource", "subscription", "result", "failed", "run_id", report.RunID, "error", err)
		return report, err
	}

	groups := groupBySeed(subs)
	report.Feeds = make([]FeedResult, len(groups))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)
	for i, group := range groups {
		g.Go(func() error {
			report.Feeds[i] = s.ingestSubscription(gctx, group)
			return nil
		})
	}
	_ = g.Wait()

	for _, result := range report.Feeds {
		report.NewPosts += result.NewPosts
		if result.Status != StatusOK {
			report.Skipped++
		}
		s.metrics.ObserveFeed(string(result.Status), result.NewPosts)
	}
	report.FinishedAt = s.opts.Now().UTC()
	s.metrics.ObserveRun(report.Success(), report.FinishedAt.Sub(report.StartedAt))

	result := "ok"
	if ctx.Err() != nil {
		result = "cancelled"
	} else if !report.Success() {
		result = "failed"
	}
	logger.Info("ingest run finished",
		"module", "service",
		"action", "ingest",
		"resource", "feed",
		"result", result,
		"run_id", report.RunID,
		"feeds", len(report.Feeds),
		"new_posts", report.NewPosts,
		"skipped", report.Skipped,
		"duration", report.FinishedAt.Sub(report.StartedAt).String(),
	)
	return report, nil
}

// groupBySeed keeps the first subscription per seed URL as the one processed;
// the rest share its resolved base URL.
func groupBySeed(subs []model.Subscription) [][]model.Subscription {
	index := make(map[string]int, len(subs))
	var groups [][]model.Subscription
	for _, sub := range subs {
		key := strings.TrimSpace(sub.URL)
		if i, ok := index[key]; ok {
			groups[i] = append(groups[i], sub)
			continue
		}
		index[key] = len(groups)
		groups = append(groups, []model.Subscription{sub})
	}
	return groups
}

// ingestSubscription processes one seed group under its own deadline, so a
// slow site costs at most FeedTimeout and never the feeds after it.
func (s *ingestService) ingestSubscription(runCtx context.Context, group []model.Subscription) FeedResult {
	sub := group[0]
	result := FeedResult{SubscriptionID: sub.ID, SeedURL: sub.URL}
	if err := runCtx.Err(); err != nil {
		return s.skip(result, StatusCancelled, err)
	}

	ctx, cancel := context.WithTimeout(runCtx, s.opts.FeedTimeout)
	defer cancel()
	fail := func(status FeedStatus, err error) FeedResult {
		switch {
		case runCtx.Err() != nil:
			return s.skip(result, StatusCancelled, runCtx.Err())
		case ctx.Err() != nil:
			return s.skip(result, StatusTimeout, fmt.Errorf("feed exceeded %s: %w", s.opts.FeedTimeout, ctx.Err()))
		}
		return s.skip(result, status, err)
	}

	if err := s.guard.Check(ctx, sub.URL); err != nil {
		return fail(StatusUnsafe, err)
	}

	discovery, err := s.discoverer.Discover(ctx, sub.URL)
	if err != nil {
		if errors.Is(err, network.ErrUnsafeURL) {
			return fail(StatusUnsafe, err)
		}
		return fail(StatusNoFeed, err)
	}
	result.FeedBaseURL = discovery.BaseURL
	result.FeedURL = discovery.FeedURL
	s.recordBaseURL(ctx, group, discovery.BaseURL)

	resp, err := s.fetcher.Fetch(ctx, network.Request{
		URL:     discovery.FeedURL,
		Timeout: s.opts.FetchTimeout,
		Header:  http.Header{"Accept": []string{feedAccept}},
	})
	if err != nil {
		if errors.Is(err, network.ErrUnsafeURL) {
			return fail(StatusUnsafe, err)
		}
		return fail(StatusFetchFailed, err)
	}

	parsed := feed.Parse(resp.Body)
	if len(parsed.Entries) == 0 {
		return fail(StatusEmpty, feed.ErrEmptyFeed)
	}
	result.PreviewTitles = previewTitles(parsed.Entries)

	staged := make([]model.Post, 0, feed.MaxEntriesPerCycle)
	seen := make(map[string]struct{})
	for _, entry := range parsed.Head() {
		if ctx.Err() != nil {
			break
		}
		if !entry.HasLink() {
			result.SkippedEntries++
			continue
		}
		if _, dup := seen[entry.Link]; dup {
			result.SkippedEntries++
			continue
		}
		seen[entry.Link] = struct{}{}

		exists, err := s.posts.ExistsByURL(ctx, discovery.BaseURL, entry.Link)
		if err != nil {
			logger.Warn("post exists check failed", "module", "service", "action", "ingest", "resource", "post", "result", "failed", "url", entry.Link, "error", err)
			result.SkippedEntries++
			continue
		}
		if exists {
			result.SkippedEntries++
			continue
		}
		staged = append(staged, s.buildPost(ctx, entry, discovery.BaseURL))
	}
	if err := ctx.Err(); err != nil {
		return fail(StatusTimeout, err)
	}

	inserted, err := s.posts.InsertBatch(ctx, staged)
	if err != nil {
		return s.skip(result, StatusPersistFailed, &PersistenceError{FeedBaseURL: discovery.BaseURL, Err: err})
	}
	result.NewPosts = inserted
	result.SkippedEntries += len(staged) - inserted
	result.Status = StatusOK

	if inserted > 0 {
		logger.Info("feed ingested", "module", "service", "action", "ingest", "resource", "feed", "result", "ok", "feed_url", discovery.FeedURL, "new_posts", inserted)
	} else {
		logger.Debug("feed unchanged", "module", "service", "action", "ingest", "resource", "feed", "result", "ok", "feed_url", discovery.FeedURL)
	}
	return result
}

func (s *ingestService) skip(result FeedResult, status FeedStatus, err error) FeedResult {
	result.Status = status
	result.Err = err
	level := logger.Warn
	if status == StatusPersistFailed {
		level = logger.Error
	}
	level("feed skipped",
		"module", "service",
		"action", "ingest",
		"resource", "feed",
		"result", string(status),
		"subscription_id", result.SubscriptionID,
		"url", result.SeedURL,
		"error", err,
	)
	return result
}

func (s *ingestService) recordBaseURL(ctx context.Context, group []model.Subscription, base string) {
	for _, sub := range group {
		if sub.FeedBaseURL != nil && *sub.FeedBaseURL == base {
			continue
		}
		if err := s.subscriptions.UpdateFeedBaseURL(ctx, sub.ID, base); err != nil {
			logger.Warn("record feed base url failed", "module", "service", "action", "update", "resource", "subscription", "result", "failed", "subscription_id", sub.ID, "error", err)
		}
	}
}

func (s *ingestService) buildPost(ctx context.Context, entry feed.RawEntry, baseURL string) model.Post {
	post := model.Post{
		FeedBaseURL: baseURL,
		Title:       normalizeTitle(entry.Title),
		PostURL:     entry.Link,
		Content:     entryText(entry),
		ImageURL:    s.images.Resolve(ctx, entry, baseURL),
	}
	if raw := entry.DateString(); raw != "" {
		published := feed.NormalizeDate(raw, s.opts.Now)
		post.PublishedAt = &published
	}
	if post.Content == "" && s.opts.Readability {
		post.Content = s.readableText(ctx, entry.Link)
	}
	return post
}

func (s *ingestService) readableText(ctx context.Context, link string) string {
	resp, err := s.fetcher.Fetch(ctx, network.Request{URL: link, Timeout: s.opts.FetchTimeout})
	if err != nil {
		logger.Debug("article fetch failed", "module", "service", "action", "ingest", "resource", "post", "result", "failed", "url", link, "error", err)
		return ""
	}
	text, err := feed.ReadableText(resp.Body, resp.FinalURL)
	if err != nil {
		logger.Debug("readability failed", "module", "service", "action", "ingest", "resource", "post", "result", "failed", "url", link, "error", err)
		return ""
	}
	return text
}

// entryText prefers the summary, then the first content block, then the description.
func entryText(entry feed.RawEntry) string {
	if entry.HasSummary() {
		return feed.StripHTML(entry.Summary)
	}
	if entry.HasContent() {
		return feed.StripHTML(entry.Content[0].Value)
	}
	return feed.StripHTML(entry.Description)
}

func normalizeTitle(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return untitled
	}
	if utf8.RuneCountInString(title) <= model.MaxTitleLength {
		return title
	}
	runes := []rune(title)
	return string(runes[:model.MaxTitleLength])
}

func previewTitles(entries []feed.RawEntry) []string {
	n := len(entries)
	if n > previewTitleCount {
		n = previewTitleCount
	}
	titles := make([]string, 0, n)
	for _, entry := range entries[:n] {
		titles = append(titles, normalizeTitle(entry.Title))
	}
	return titles
}
