// Package knowledge fetches encyclopedia summaries that seed study packets.
package knowledge

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/abhisek/studybuddy/internal/logger"
	"github.com/abhisek/studybuddy/internal/metrics"
)

// DefaultBaseURL is the Wikipedia REST summary endpoint.
const DefaultBaseURL = "https://en.wikipedia.org/api/rest_v1/page/summary"

const defaultUserAgent = "studybuddy/1.0 (study assistant)"

// Summary is the part of a page summary the pipeline uses.
type Summary struct {
	Title   string
	Extract string
	URL     string // canonical desktop page, may be empty
}

// NotFoundError reports that the encyclopedia has no page for Topic.
type NotFoundError struct {
	Topic string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Topic %q not found on Wikipedia", e.Topic)
}

// UpstreamError reports any other non-success status from the service.
type UpstreamError struct {
	StatusCode int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("Wikipedia API error: %d", e.StatusCode)
}

// Fetcher retrieves page summaries. The zero value is not usable; build
// one with NewFetcher.
type Fetcher struct {
	Client    *http.Client
	BaseURL   string
	UserAgent string

	log *logger.Logger
}

// NewFetcher returns a Fetcher against baseURL (DefaultBaseURL when empty)
// whose requests time out after timeout.
func NewFetcher(baseURL string, timeout time.Duration, log *logger.Logger) *Fetcher {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Fetcher{
		Client:    &http.Client{Timeout: timeout},
		BaseURL:   strings.TrimRight(baseURL, "/"),
		UserAgent: defaultUserAgent,
		log:       log.With("component", "knowledge"),
	}
}

type summaryResponse struct {
	Title       string `json:"title"`
	Extract     string `json:"extract"`
	ContentURLs struct {
		Desktop struct {
			Page string `json:"page"`
		} `json:"desktop"`
	} `json:"content_urls"`
}

// Fetch performs one GET for topic. There is no retry and no cache.
func (f *Fetcher) Fetch(ctx context.Context, topic string) (*Summary, error) {
	reqURL := f.BaseURL + "/" + url.PathEscape(topic)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", f.UserAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := f.Client.Do(req)
	if err != nil {
		metrics.KnowledgeFetchTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("wikipedia request: %w", err)
	}
	defer resp.Body.Close()

	f.log.Debug("wikipedia summary fetched",
		"topic", topic,
		"status", resp.StatusCode,
		"latency_ms", time.Since(start).Milliseconds(),
	)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		metrics.KnowledgeFetchTotal.WithLabelValues("not_found").Inc()
		return nil, &NotFoundError{Topic: topic}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		metrics.KnowledgeFetchTotal.WithLabelValues("upstream_error").Inc()
		return nil, &UpstreamError{StatusCode: resp.StatusCode}
	}

	var sr summaryResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		metrics.KnowledgeFetchTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("parsing wikipedia response: %w", err)
	}
	metrics.KnowledgeFetchTotal.WithLabelValues("ok").Inc()

	return &Summary{
		Title:   sr.Title,
		Extract: sr.Extract,
		URL:     sr.ContentURLs.Desktop.Page,
	}, nil
}
