// Package search produces job postings for a built query, either from the
// live search provider or from the synthetic fallback generator.
package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"dailyjobs/search-service/internal/query"
)

const (
	googleBaseURL   = "https://www.googleapis.com/customsearch/v1"
	resultsPerQuery = 10
	httpTimeout     = 15 * time.Second
)

// ErrUnavailable signals that a live search cannot be performed: missing
// credentials, a provider failure, or an empty result set. It selects the
// synthetic fallback and is never surfaced to the user as an error.
var ErrUnavailable = errors.New("search provider unavailable")

// RawResult is one item returned by the external search provider.
type RawResult struct {
	Title   string
	Link    string
	Snippet string
}

// Provider performs a live search for a built query.
type Provider interface {
	Search(ctx context.Context, q query.Query, apiKey, engineID string) ([]RawResult, error)
}

// GoogleClient queries the Google Custom Search JSON API with a shared
// HTTP client.
type GoogleClient struct {
	baseURL string
	client  *http.Client
}

// NewGoogleClient constructs a GoogleClient.
func NewGoogleClient() *GoogleClient {
	return &GoogleClient{
		baseURL: googleBaseURL,
		client:  &http.Client{Timeout: httpTimeout},
	}
}

// googleResponse mirrors the top-level Custom Search JSON response.
type googleResponse struct {
	Items []googleItem `json:"items"`
}

type googleItem struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// Search runs one Custom Search request. Provider-side failures of any kind
// are reported as ErrUnavailable so the caller can fall back.
func (c *GoogleClient) Search(ctx context.Context, q query.Query, apiKey, engineID string) ([]RawResult, error) {
	if apiKey == "" || engineID == "" {
		return nil, fmt.Errorf("%w: no API key or engine id configured", ErrUnavailable)
	}

	params := url.Values{}
	params.Set("key", apiKey)
	params.Set("cx", engineID)
	params.Set("q", q.Text)
	params.Set("num", strconv.Itoa(resultsPerQuery))
	if r := q.Bucket.Restrict(); r != "" {
		params.Set("dateRestrict", r)
	}

	reqURL := c.baseURL + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: http GET: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: provider returned %d", ErrUnavailable, resp.StatusCode)
	}

	var apiResp googleResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}

	results := make([]RawResult, 0, len(apiResp.Items))
	for _, item := range apiResp.Items {
		results = append(results, RawResult{
			Title:   item.Title,
			Link:    item.Link,
			Snippet: item.Snippet,
		})
	}
	return results, nil
}
