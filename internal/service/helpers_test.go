package service_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"feedpulse/backend/internal/network"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

type fakePage struct {
	status   int
	body     string
	location string
}

func okPage(body string) fakePage {
	return fakePage{status: http.StatusOK, body: body}
}

// fakeWeb serves canned responses keyed by absolute URL and counts requests per
// host. A URL with several responses serves them in order and repeats the last.
type fakeWeb struct {
	mu      sync.Mutex
	pages   map[string][]fakePage
	hits    map[string]int
	hanging map[string]func()
}

func newFakeWeb() *fakeWeb {
	return &fakeWeb{pages: make(map[string][]fakePage), hits: make(map[string]int), hanging: make(map[string]func())}
}

// hang makes every request to host block until its context ends. onHit, when
// non-nil, runs as each request arrives.
func (w *fakeWeb) hang(host string, onHit func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if onHit == nil {
		onHit = func() {}
	}
	w.hanging[host] = onHit
}

func (w *fakeWeb) page(url, body string) {
	w.sequence(url, okPage(body))
}

func (w *fakeWeb) sequence(url string, pages ...fakePage) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pages[url] = pages
}

func (w *fakeWeb) redirect(from, to string) {
	w.sequence(from, fakePage{status: http.StatusMovedPermanently, location: to})
}

func (w *fakeWeb) hitsFor(host string) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.hits[host]
}

func (w *fakeWeb) transport() http.RoundTripper {
	return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		w.mu.Lock()
		w.hits[req.URL.Host]++
		if onHit, ok := w.hanging[req.URL.Host]; ok {
			w.mu.Unlock()
			onHit()
			<-req.Context().Done()
			return nil, req.Context().Err()
		}
		key := req.URL.String()
		seq, ok := w.pages[key]
		var p fakePage
		if ok {
			p = seq[0]
			if len(seq) > 1 {
				w.pages[key] = seq[1:]
			}
		}
		w.mu.Unlock()

		header := make(http.Header)
		if !ok {
			return &http.Response{
				StatusCode: http.StatusNotFound,
				Body:       io.NopCloser(strings.NewReader("not found")),
				Header:     header,
				Request:    req,
			}, nil
		}
		if p.location != "" {
			header.Set("Location", p.location)
		}
		return &http.Response{
			StatusCode: p.status,
			Body:       io.NopCloser(strings.NewReader(p.body)),
			Header:     header,
			Request:    req,
		}, nil
	})
}

func (w *fakeWeb) fetcher(guard network.Guard) network.Fetcher {
	client := &http.Client{Transport: w.transport()}
	return network.NewSafeFetcher(guard, network.NewClientFactoryForTest(client), 0)
}

// hostGuard rejects any URL whose host contains one of the blocked fragments.
type hostGuard struct {
	blocked []string
}

func (g hostGuard) Check(_ context.Context, rawURL string) error {
	for _, b := range g.blocked {
		if strings.Contains(rawURL, b) {
			return &network.UnsafeURLError{URL: rawURL, Reason: "blocked in test"}
		}
	}
	return nil
}

func rssDoc(items ...string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:media="http://search.yahoo.com/mrss/">
<channel>
<title>Example</title>
<link>https://example.com/</link>
<description>test</description>
` + strings.Join(items, "\n") + `
</channel>
</rss>`
}

func rssItem(title, link string) string {
	return fmt.Sprintf(`<item><title>%s</title><link>%s</link><pubDate>Fri, 01 Jan 2021 10:00:00 +0000</pubDate><description>&lt;p&gt;About %s&lt;/p&gt;</description></item>`, title, link, title)
}

func homepage(feedHref string) string {
	return `<html><head><link rel="alternate" type="application/rss+xml" href="` + feedHref + `"></head><body>home</body></html>`
}

func int64Ptr(v int64) *int64 {
	return &v
}

func stringPtr(s string) *string {
	return &s
}
