package network

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"feedpulse/backend/internal/config"
)

// MaxBodySize caps how much of a response body is read.
const MaxBodySize = 10 << 20

// Request describes one outbound fetch. Zero Method means GET, zero Timeout
// means the fetcher default.
type Request struct {
	URL     string
	Method  string
	Header  http.Header
	Timeout time.Duration
}

// Response is a fully read response.
type Response struct {
	URL        string
	FinalURL   string
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Fetcher performs SSRF-guarded HTTP requests.
type Fetcher interface {
	Fetch(ctx context.Context, req Request) (*Response, error)
}

// SafeFetcher validates every URL and redirect hop before it is requested and
// spaces requests to the same host.
type SafeFetcher struct {
	guard          Guard
	clients        *ClientFactory
	defaultTimeout time.Duration
	hostInterval   time.Duration

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewSafeFetcher creates a fetcher. hostInterval of zero disables per-host spacing.
func NewSafeFetcher(guard Guard, clients *ClientFactory, hostInterval time.Duration) *SafeFetcher {
	if clients == nil {
		clients = NewClientFactory("")
	}
	return &SafeFetcher{
		guard:          guard,
		clients:        clients,
		defaultTimeout: config.DefaultFetchTimeout,
		hostInterval:   hostInterval,
		limiters:       make(map[string]*rate.Limiter),
	}
}

func (f *SafeFetcher) Fetch(ctx context.Context, req Request) (*Response, error) {
	if err := f.guard.Check(ctx, req.URL); err != nil {
		return nil, err
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = f.defaultTimeout
	}

	parsed, err := url.Parse(req.URL)
	if err != nil {
		return nil, &FetchError{URL: req.URL, Err: err}
	}
	if err := f.wait(ctx, parsed.Hostname()); err != nil {
		return nil, &FetchError{URL: req.URL, Err: err}
	}

	client := f.clients.NewHTTPClient(timeout, func(next *http.Request) error {
		return f.guard.Check(next.Context(), next.URL.String())
	})

	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, nil)
	if err != nil {
		return nil, &FetchError{URL: req.URL, Err: err}
	}
	for key, values := range req.Header {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}
	httpReq.Header.Set("User-Agent", config.DefaultUserAgent)

	resp, err := client.Do(httpReq)
	if err != nil {
		var unsafeErr *UnsafeURLError
		if errors.As(err, &unsafeErr) {
			return nil, unsafeErr
		}
		return nil, &FetchError{URL: req.URL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &FetchError{URL: req.URL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize))
	if err != nil {
		return nil, &FetchError{URL: req.URL, Err: fmt.Errorf("read body: %w", err)}
	}

	return &Response{
		URL:        req.URL,
		FinalURL:   resp.Request.URL.String(),
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}

func (f *SafeFetcher) wait(ctx context.Context, host string) error {
	if f.hostInterval <= 0 || host == "" {
		return nil
	}
	host = strings.ToLower(host)

	f.mu.Lock()
	limiter, ok := f.limiters[host]
	if !ok {
		limiter = rate.NewLimiter(rate.Every(f.hostInterval), 1)
		f.limiters[host] = limiter
	}
	f.mu.Unlock()

	return limiter.Wait(ctx)
}
