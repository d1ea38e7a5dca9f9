// Package metadata looks up page details used to prefill the QR code form.
package metadata

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/Its-donkey/qrcode-creator/logging"
)

// DefaultTimeout bounds a single page fetch.
const DefaultTimeout = 5 * time.Second

// ErrUnsupportedURL is returned when no collector accepts the URL.
var ErrUnsupportedURL = errors.New("metadata: unsupported url")

// Metadata holds what could be learned about a page.
type Metadata struct {
	Title       string
	Description string
	URL         string
}

// Collector extracts metadata from one family of URLs.
type Collector interface {
	Matches(u *url.URL) bool
	Collect(ctx context.Context, target string) (*Metadata, error)
}

// Service picks the first matching collector for a URL.
type Service struct {
	collectors []Collector
	logger     *logging.Logger
}

// NewService builds a Service backed by the HTML page scraper. A nil client
// means NewPublicClient.
func NewService(httpClient *http.Client, timeout time.Duration, logger *logging.Logger) *Service {
	if httpClient == nil {
		httpClient = NewPublicClient()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Service{
		collectors: []Collector{&PageScraper{client: httpClient, timeout: timeout}},
		logger:     logger,
	}
}

// Fetch retrieves metadata for rawURL. Only absolute http and https URLs are
// accepted.
func (s *Service) Fetch(ctx context.Context, rawURL string) (*Metadata, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, ErrUnsupportedURL
	}

	var lastErr error
	for _, collector := range s.collectors {
		if !collector.Matches(u) {
			continue
		}
		meta, err := collector.Collect(ctx, u.String())
		if err == nil && meta != nil {
			return meta, nil
		}
		if err != nil {
			lastErr = err
			s.logger.Debug("metadata", "collector failed", map[string]any{
				"url":   u.String(),
				"error": err.Error(),
			})
		}
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, ErrUnsupportedURL
}
