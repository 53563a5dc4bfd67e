package service

import (
	"context"

	"feedpulse/backend/internal/feed"
	"feedpulse/backend/internal/logger"
	"feedpulse/backend/internal/repository"
)

// FeedLocator resolves a seed URL to its feed and site identity.
type FeedLocator interface {
	Discover(ctx context.Context, seedURL string) (feed.Discovery, error)
}

// RepairReport counts what a repair pass changed.
type RepairReport struct {
	Subscriptions    int   `json:"subscriptions"`
	Updated          int   `json:"updated"`
	DiscoveryFailed  int   `json:"discoveryFailed"`
	IdentitiesMerged int   `json:"identitiesMerged"`
	Unresolved       int   `json:"unresolved"`
	PostsMoved       int64 `json:"postsMoved"`
	PostsDropped     int64 `json:"postsDropped"`
}

type RepairService interface {
	// RepairBaseURLs re-resolves every subscription and rekeys posts stored under
	// identities no subscription resolves to anymore.
	RepairBaseURLs(ctx context.Context) (RepairReport, error)
}

type repairService struct {
	subscriptions repository.SubscriptionRepository
	posts         repository.PostRepository
	locator       FeedLocator
}

func NewRepairService(subscriptions repository.SubscriptionRepository, posts repository.PostRepository, locator FeedLocator) RepairService {
	return &repairService{subscriptions: subscriptions, posts: posts, locator: locator}
}

func (s *repairService) RepairBaseURLs(ctx context.Context) (RepairReport, error) {
	var report RepairReport

	subs, err := s.subscriptions.List(ctx, nil)
	if err != nil {
		return report, err
	}
	report.Subscriptions = len(subs)

	current := make(map[string]struct{}, len(subs))
	// previous identity -> resolved identities of the subscriptions that used it
	renamed := make(map[string]map[string]struct{})
	for _, sub := range subs {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}
		previous := sub.BaseURL()
		discovery, err := s.locator.Discover(ctx, sub.URL)
		if err != nil {
			report.DiscoveryFailed++
			current[previous] = struct{}{}
			logger.Warn("repair discovery failed", "module", "service", "action", "repair", "resource", "subscription", "result", "failed", "subscription_id", sub.ID, "url", sub.URL, "error", err)
			continue
		}
		current[discovery.BaseURL] = struct{}{}
		if previous != discovery.BaseURL {
			if renamed[previous] == nil {
				renamed[previous] = make(map[string]struct{})
			}
			renamed[previous][discovery.BaseURL] = struct{}{}
		}
		if sub.FeedBaseURL == nil || *sub.FeedBaseURL != discovery.BaseURL {
			if err := s.subscriptions.UpdateFeedBaseURL(ctx, sub.ID, discovery.BaseURL); err != nil {
				return report, err
			}
			report.Updated++
		}
	}

	stored, err := s.posts.DistinctFeedBaseURLs(ctx)
	if err != nil {
		return report, err
	}
	for _, old := range stored {
		if _, ok := current[old]; ok {
			continue
		}
		target := s.repairTarget(ctx, old, renamed[old], current)
		if target == "" {
			report.Unresolved++
			logger.Warn("repair left posts unresolved", "module", "service", "action", "repair", "resource", "post", "result", "skipped", "feed_base_url", old)
			continue
		}
		moved, dropped, err := s.posts.MoveFeedBaseURL(ctx, old, target)
		if err != nil {
			return report, err
		}
		report.IdentitiesMerged++
		report.PostsMoved += moved
		report.PostsDropped += dropped
	}

	logger.Info("repair finished",
		"module", "service",
		"action", "repair",
		"resource", "subscription",
		"result", "ok",
		"updated", report.Updated,
		"merged", report.IdentitiesMerged,
		"moved", report.PostsMoved,
		"dropped", report.PostsDropped,
	)
	return report, nil
}

// repairTarget picks where posts under old should live. A unique rename seen
// while re-resolving subscriptions wins; otherwise old is itself treated as a seed.
func (s *repairService) repairTarget(ctx context.Context, old string, renames map[string]struct{}, current map[string]struct{}) string {
	if len(renames) == 1 {
		for target := range renames {
			return target
		}
	}
	discovery, err := s.locator.Discover(ctx, old)
	if err != nil {
		return ""
	}
	if _, ok := current[discovery.BaseURL]; !ok {
		return ""
	}
	return discovery.BaseURL
}
