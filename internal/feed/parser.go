package feed

import (
	"bytes"
	"strings"

	"github.com/mmcdole/gofeed"
	ext "github.com/mmcdole/gofeed/extensions"
)

// MaxEntriesPerCycle bounds how many entries of one feed are processed per run.
const MaxEntriesPerCycle = 20

// ContentBlock is one structured content body of an entry.
type ContentBlock struct {
	Type  string
	Value string
}

// Media is a media:content, media:thumbnail or enclosure reference.
type Media struct {
	URL    string
	Type   string
	Medium string
}

// IsImage reports whether the declared MIME type or medium is an image.
func (m Media) IsImage() bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(m.Type)), "image/") ||
		strings.EqualFold(strings.TrimSpace(m.Medium), "image")
}

// RawEntry is one feed item before normalization. Empty strings and nil slices
// mean the field was absent.
type RawEntry struct {
	Link            string
	Title           string
	Published       string
	Updated         string
	Summary         string
	Description     string
	Content         []ContentBlock
	MediaContent    []Media
	MediaThumbnails []Media
	Enclosures      []Media
}

func (e RawEntry) HasLink() bool        { return e.Link != "" }
func (e RawEntry) HasTitle() bool       { return strings.TrimSpace(e.Title) != "" }
func (e RawEntry) HasSummary() bool     { return strings.TrimSpace(e.Summary) != "" }
func (e RawEntry) HasDescription() bool { return strings.TrimSpace(e.Description) != "" }
func (e RawEntry) HasContent() bool     { return len(e.Content) > 0 }

// DateString returns the published date, else the updated date.
func (e RawEntry) DateString() string {
	if s := strings.TrimSpace(e.Published); s != "" {
		return s
	}
	return strings.TrimSpace(e.Updated)
}

// ParsedFeed holds feed metadata and every entry in document order.
type ParsedFeed struct {
	Title       string
	Link        string
	FeedType    string
	FeedVersion string
	Entries     []RawEntry
}

// Head returns at most MaxEntriesPerCycle entries.
func (p ParsedFeed) Head() []RawEntry {
	if len(p.Entries) > MaxEntriesPerCycle {
		return p.Entries[:MaxEntriesPerCycle]
	}
	return p.Entries
}

// Version combines type and version into a single token such as rss20 or atom10.
func (p ParsedFeed) Version() string {
	return p.FeedType + strings.ReplaceAll(p.FeedVersion, ".", "")
}

// IsSyndicationFeed reports whether the document is an RSS or Atom feed with
// feed metadata and at least one entry.
func (p ParsedFeed) IsSyndicationFeed() bool {
	if p.Title == "" && p.Link == "" {
		return false
	}
	if len(p.Entries) == 0 {
		return false
	}
	version := p.Version()
	return strings.HasPrefix(version, "rss") || strings.HasPrefix(version, "atom")
}

// Parse never fails: malformed input yields a feed with no entries.
func Parse(raw []byte) ParsedFeed {
	if len(bytes.TrimSpace(raw)) == 0 {
		return ParsedFeed{}
	}
	parsed, err := gofeed.NewParser().Parse(bytes.NewReader(raw))
	if err != nil || parsed == nil {
		return ParsedFeed{}
	}

	out := ParsedFeed{
		Title:       strings.TrimSpace(parsed.Title),
		Link:        strings.TrimSpace(parsed.Link),
		FeedType:    parsed.FeedType,
		FeedVersion: parsed.FeedVersion,
		Entries:     make([]RawEntry, 0, len(parsed.Items)),
	}
	for _, item := range parsed.Items {
		if item == nil {
			continue
		}
		out.Entries = append(out.Entries, itemToRawEntry(item))
	}
	return out
}

func itemToRawEntry(item *gofeed.Item) RawEntry {
	entry := RawEntry{
		Link:      strings.TrimSpace(item.Link),
		Title:     item.Title,
		Published: item.Published,
		Updated:   item.Updated,
		Summary:   item.Description,
	}
	if entry.Link == "" && len(item.Links) > 0 {
		entry.Link = strings.TrimSpace(item.Links[0])
	}
	if item.DublinCoreExt != nil && len(item.DublinCoreExt.Description) > 0 {
		entry.Description = item.DublinCoreExt.Description[0]
	}
	if strings.TrimSpace(item.Content) != "" {
		entry.Content = []ContentBlock{{Type: "text/html", Value: item.Content}}
	}

	for _, enc := range item.Enclosures {
		if enc == nil || strings.TrimSpace(enc.URL) == "" {
			continue
		}
		entry.Enclosures = append(entry.Enclosures, Media{URL: strings.TrimSpace(enc.URL), Type: enc.Type})
	}

	if media, ok := item.Extensions["media"]; ok {
		entry.MediaContent, entry.MediaThumbnails = collectMedia(media)
	}
	return entry
}

// collectMedia reads media:content and media:thumbnail, including those nested
// in media:group.
func collectMedia(media map[string][]ext.Extension) (contents []Media, thumbnails []Media) {
	for _, e := range media["content"] {
		if m, ok := mediaFromExtension(e); ok {
			contents = append(contents, m)
		}
		for _, thumb := range e.Children["thumbnail"] {
			if m, ok := mediaFromExtension(thumb); ok {
				thumbnails = append(thumbnails, m)
			}
		}
	}
	for _, e := range media["thumbnail"] {
		if m, ok := mediaFromExtension(e); ok {
			thumbnails = append(thumbnails, m)
		}
	}
	for _, group := range media["group"] {
		c, t := collectMedia(group.Children)
		contents = append(contents, c...)
		thumbnails = append(thumbnails, t...)
	}
	return contents, thumbnails
}

func mediaFromExtension(e ext.Extension) (Media, bool) {
	u := strings.TrimSpace(e.Attrs["url"])
	if u == "" {
		return Media{}, false
	}
	return Media{URL: u, Type: e.Attrs["type"], Medium: e.Attrs["medium"]}, true
}
