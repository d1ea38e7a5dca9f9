package metadata

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const maxPageBytes = 2 * 1024 * 1024

// PageScraper reads Open Graph and standard meta tags from any HTML page.
type PageScraper struct {
	client  *http.Client
	timeout time.Duration
}

// Matches accepts every http(s) URL.
func (s *PageScraper) Matches(u *url.URL) bool {
	return u != nil && (u.Scheme == "http" || u.Scheme == "https")
}

// Collect fetches target and extracts its title and description.
func (s *PageScraper) Collect(ctx context.Context, target string) (*Metadata, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; qrcode-ui/1.0)")
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return extract(doc, target), nil
}

func extract(doc *goquery.Document, target string) *Metadata {
	meta := &Metadata{URL: target}

	meta.Title = metaContent(doc, `meta[property="og:title"]`)
	if meta.Title == "" {
		meta.Title = collapse(doc.Find("title").First().Text())
	}

	meta.Description = metaContent(doc, `meta[property="og:description"]`)
	if meta.Description == "" {
		meta.Description = metaContent(doc, `meta[name="description"]`)
	}
	return meta
}

func metaContent(doc *goquery.Document, selector string) string {
	if content, ok := doc.Find(selector).First().Attr("content"); ok {
		return collapse(content)
	}
	return ""
}

// collapse trims and squeezes internal whitespace runs to single spaces.
func collapse(value string) string {
	return strings.Join(strings.Fields(value), " ")
}
