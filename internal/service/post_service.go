package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"feedpulse/backend/internal/model"
	"feedpulse/backend/internal/repository"
)

const (
	PostsPerPage       = 20
	PlaceholderImage   = "/static/assets/img/default-placeholder.png"
	PlaceholderFavicon = "/static/assets/img/favicon.png"
	postDateLayout     = "2006-01-02 15:04:05"
)

// PostItem is a post as shown to readers.
type PostItem struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	ImageURL   string `json:"imageUrl"`
	PostDate   string `json:"postDate"`
	URL        string `json:"url"`
	BaseURL    string `json:"baseUrl"`
	FaviconURL string `json:"faviconUrl"`
}

type PostPage struct {
	Posts   []PostItem `json:"posts"`
	HasMore bool       `json:"hasMore"`
}

type PostService interface {
	// ListPage returns the owner's posts, newest published first. Pages start at 1.
	ListPage(ctx context.Context, ownerID int64, page int) (PostPage, error)
	// Since returns the owner's posts stored after the cutoff.
	Since(ctx context.Context, ownerID int64, since time.Time) ([]PostItem, error)
}

type postService struct {
	subscriptions repository.SubscriptionRepository
	posts         repository.PostRepository
}

func NewPostService(subscriptions repository.SubscriptionRepository, posts repository.PostRepository) PostService {
	return &postService{subscriptions: subscriptions, posts: posts}
}

func (s *postService) ListPage(ctx context.Context, ownerID int64, page int) (PostPage, error) {
	if page < 1 {
		page = 1
	}
	bases, favicons, err := s.ownerFeeds(ctx, ownerID)
	if err != nil {
		return PostPage{}, err
	}
	if len(bases) == 0 {
		return PostPage{Posts: []PostItem{}}, nil
	}

	total, err := s.posts.Count(ctx, bases)
	if err != nil {
		return PostPage{}, err
	}
	posts, err := s.posts.List(ctx, repository.PostListFilter{
		FeedBaseURLs: bases,
		Limit:        PostsPerPage,
		Offset:       (page - 1) * PostsPerPage,
	})
	if err != nil {
		return PostPage{}, err
	}

	return PostPage{
		Posts:   toPostItems(posts, favicons),
		HasMore: page*PostsPerPage < total,
	}, nil
}

func (s *postService) Since(ctx context.Context, ownerID int64, since time.Time) ([]PostItem, error) {
	bases, favicons, err := s.ownerFeeds(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if len(bases) == 0 {
		return []PostItem{}, nil
	}
	posts, err := s.posts.ListCreatedSince(ctx, bases, since)
	if err != nil {
		return nil, err
	}
	return toPostItems(posts, favicons), nil
}

// ownerFeeds returns the owner's feed identities and the favicon per identity.
func (s *postService) ownerFeeds(ctx context.Context, ownerID int64) ([]string, map[string]string, error) {
	subs, err := s.subscriptions.List(ctx, &ownerID)
	if err != nil {
		return nil, nil, err
	}
	favicons := make(map[string]string, len(subs))
	bases := make([]string, 0, len(subs))
	for _, sub := range subs {
		base := sub.BaseURL()
		if _, ok := favicons[base]; !ok {
			bases = append(bases, base)
			favicons[base] = PlaceholderFavicon
		}
		if sub.FaviconURL != nil && *sub.FaviconURL != "" {
			favicons[base] = *sub.FaviconURL
		}
	}
	return bases, favicons, nil
}

func toPostItems(posts []model.Post, favicons map[string]string) []PostItem {
	items := make([]PostItem, 0, len(posts))
	for _, p := range posts {
		item := PostItem{
			ID:         strconv.FormatInt(p.ID, 10),
			Title:      p.Title,
			Content:    p.Content,
			ImageURL:   PlaceholderImage,
			URL:        p.PostURL,
			BaseURL:    displayHost(p.FeedBaseURL),
			FaviconURL: PlaceholderFavicon,
		}
		if p.ImageURL != nil && *p.ImageURL != "" {
			item.ImageURL = *p.ImageURL
		}
		if p.PublishedAt != nil {
			item.PostDate = p.PublishedAt.UTC().Format(postDateLayout)
		}
		if favicon, ok := favicons[p.FeedBaseURL]; ok {
			item.FaviconURL = favicon
		}
		items = append(items, item)
	}
	return items
}

func displayHost(baseURL string) string {
	return strings.TrimPrefix(strings.TrimPrefix(baseURL, "https://"), "http://")
}
