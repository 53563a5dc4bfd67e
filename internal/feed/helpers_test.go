package feed

import (
	"context"
	"fmt"
	"net/http/httptest"
	"strings"
	"time"

	"feedpulse/backend/internal/network"
)

type allowAllGuard struct{}

func (allowAllGuard) Check(context.Context, string) error { return nil }

func newTestFetcher(server *httptest.Server) network.Fetcher {
	return network.NewSafeFetcher(allowAllGuard{}, network.NewClientFactoryForTest(server.Client()), 0)
}

func fixedNow() time.Time {
	return time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
}

func rssFeed(title string, items ...string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:media="http://search.yahoo.com/mrss/" xmlns:content="http://purl.org/rss/1.0/modules/content/" xmlns:dc="http://purl.org/dc/elements/1.1/">
<channel>
<title>` + title + `</title>
<link>https://example.com/</link>
<description>test feed</description>
` + strings.Join(items, "\n") + `
</channel>
</rss>`
}

func rssItem(title, link string) string {
	return fmt.Sprintf(`<item><title>%s</title><link>%s</link><pubDate>Fri, 01 Jan 2021 10:00:00 +0000</pubDate><description>plain</description></item>`, title, link)
}

const atomFeed = `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Atom Site</title>
  <link href="https://atom.example.com/"/>
  <id>urn:uuid:1</id>
  <updated>2021-01-01T10:00:00Z</updated>
  <entry>
    <title>Atom entry</title>
    <link href="https://atom.example.com/posts/1"/>
    <id>urn:uuid:2</id>
    <updated>2021-01-01T10:00:00Z</updated>
    <summary>Short &lt;b&gt;summary&lt;/b&gt;</summary>
    <content type="html">&lt;p&gt;Body &lt;img src="/img/atom.png"&gt;&lt;/p&gt;</content>
  </entry>
</feed>`
