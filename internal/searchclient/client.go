// Package searchclient calls the photo search endpoint on behalf of a page.
package searchclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/photoalbum/photoalbum-server/internal/domain"
)

// maxBodyBytes bounds how much of a response body is read.
const maxBodyBytes = 8 << 20

// Client queries a search endpoint with GET <endpoint>?q=<query>.
type Client struct {
	httpClient *http.Client
	endpoint   string
	logger     *slog.Logger
}

// New creates a client for endpoint. A nil httpClient uses one without a
// timeout; page searches are never timed out.
func New(endpoint string, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{httpClient: httpClient, endpoint: endpoint, logger: logger}
}

// Search issues one query. Transport failures, non-2xx statuses and bodies
// that are not a JSON object are errors. A body without data decodes to a
// response whose Results are nil.
func (c *Client) Search(ctx context.Context, query string) (*domain.SearchResponse, error) {
	searchURL, err := c.url(query)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("searching photos", "query", query, "url", searchURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("search failed: status %d", resp.StatusCode)
	}

	var out domain.SearchResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&out); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	c.logger.Debug("search results", "query", query, "count", len(out.Results()))
	return &out, nil
}

func (c *Client) url(query string) (string, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return "", fmt.Errorf("parse endpoint: %w", err)
	}
	params := u.Query()
	params.Set("q", query)
	u.RawQuery = params.Encode()
	return u.String(), nil
}
