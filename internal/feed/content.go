package feed

import (
	"bytes"
	"html"
	"net/url"
	"strings"

	readability "codeberg.org/readeck/go-readability/v2"
	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

// StripHTML removes every tag and returns the unescaped text.
func StripHTML(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	text := strictPolicy.Sanitize(s)
	return strings.TrimSpace(html.UnescapeString(text))
}

// ReadableText extracts the main article text from a full HTML page.
func ReadableText(page []byte, pageURL string) (string, error) {
	parsedURL, err := url.Parse(pageURL)
	if err != nil {
		return "", err
	}
	parser := readability.NewParser()
	article, err := parser.Parse(bytes.NewReader(page), parsedURL)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := article.RenderHTML(&buf); err != nil {
		return "", err
	}
	return StripHTML(buf.String()), nil
}
