// Package duckduckgo implements research.Source using the DuckDuckGo Instant
// Answer API.
package duckduckgo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// DefaultBaseURL is the production Instant Answer endpoint.
const DefaultBaseURL = "https://api.duckduckgo.com/"

// Options configures the DuckDuckGo source.
type Options struct {
	// BaseURL of the Instant Answer API, overridable for tests.
	BaseURL string
	// HTTPClient used for requests. A nil client gets a default with a
	// 10 second timeout.
	HTTPClient *http.Client
}

// Source fetches short abstracts from the DuckDuckGo Instant Answer API.
// It is stateless and safe for concurrent use.
type Source struct {
	baseURL string
	client  *http.Client
}

// New constructs a DuckDuckGo source with optional overrides.
func New(optFns ...func(o *Options)) *Source {
	opts := Options{
		BaseURL: DefaultBaseURL,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}

	return &Source{baseURL: opts.BaseURL, client: opts.HTTPClient}
}

// Name implements research.Source.
func (s *Source) Name() string { return "duckduckgo" }

// instantAnswer is the subset of the Instant Answer payload we consume.
type instantAnswer struct {
	Abstract      string `json:"Abstract"`
	RelatedTopics []struct {
		Text string `json:"Text"`
	} `json:"RelatedTopics"`
}

// FetchSummary implements research.Source. It prefers the abstract and falls
// back to the first related topic text.
func (s *Source) FetchSummary(ctx context.Context, query string) (string, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("no_html", "1")
	params.Set("skip_disambig", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var payload instantAnswer
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if payload.Abstract != "" {
		return payload.Abstract, nil
	}
	if len(payload.RelatedTopics) > 0 {
		return payload.RelatedTopics[0].Text, nil
	}

	return "", nil
}
