// Package wikipedia implements research.Source using the Wikipedia REST v1
// page summary API.
package wikipedia

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// DefaultBaseURL is the production Wikipedia REST v1 endpoint.
const DefaultBaseURL = "https://en.wikipedia.org/api/rest_v1"

// Options configures the Wikipedia source.
type Options struct {
	// BaseURL of the REST API, overridable for tests.
	BaseURL string
	// HTTPClient used for requests. A nil client gets a default with a
	// 10 second timeout.
	HTTPClient *http.Client
}

// Source fetches short page summaries from Wikipedia. It is stateless and
// safe for concurrent use.
type Source struct {
	baseURL string
	client  *http.Client
}

// New constructs a Wikipedia source with optional overrides.
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
func (s *Source) Name() string { return "wikipedia" }

// summaryResponse is the subset of the page summary payload we consume.
type summaryResponse struct {
	Extract string `json:"extract"`
}

// FetchSummary implements research.Source. It returns the page extract for
// the query title, or an error on transport failure, non-success status or a
// malformed payload.
func (s *Source) FetchSummary(ctx context.Context, query string) (string, error) {
	endpoint := fmt.Sprintf("%s/page/summary/%s", s.baseURL, url.PathEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var payload summaryResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	return payload.Extract, nil
}
