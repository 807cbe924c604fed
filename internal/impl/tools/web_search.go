package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"
)

const defaultSearchEndpoint = "https://www.googleapis.com/customsearch/v1"

// WebSearchClient looks up result links through the Google Custom Search JSON API.
type WebSearchClient struct {
	endpoint string
	apiKey   string
	engineID string
	client   *http.Client
	logger   *zap.Logger
}

func NewWebSearchClient(apiKey, engineID string, client *http.Client, logger *zap.Logger) *WebSearchClient {
	if client == nil {
		client = &http.Client{}
	}
	return &WebSearchClient{
		endpoint: defaultSearchEndpoint,
		apiKey:   apiKey,
		engineID: engineID,
		client:   client,
		logger:   logger,
	}
}

// WithEndpoint points the client at another search endpoint.
func (c *WebSearchClient) WithEndpoint(endpoint string) *WebSearchClient {
	c.endpoint = endpoint
	return c
}

// Links returns up to limit result URLs for query.
func (c *WebSearchClient) Links(ctx context.Context, query string, limit int) ([]string, error) {
	if c.apiKey == "" || c.engineID == "" {
		return nil, fmt.Errorf("search is not configured: CSE_API_KEY and SEARCH_ENGINE_ID are required")
	}

	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("cx", c.engineID)
	params.Set("q", query)
	if limit > 0 && limit <= 10 {
		params.Set("num", strconv.Itoa(limit))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create search request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read search response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("Search API request failed", zap.Int("status_code", resp.StatusCode))
		return nil, fmt.Errorf("search API request failed with status code: %d", resp.StatusCode)
	}

	var result struct {
		Items []struct {
			Link string `json:"link"`
		} `json:"items"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse search response: %w", err)
	}

	links := make([]string, 0, len(result.Items))
	for _, item := range result.Items {
		if item.Link == "" {
			continue
		}
		links = append(links, item.Link)
		if limit > 0 && len(links) == limit {
			break
		}
	}

	c.logger.Debug("Search returned links", zap.String("query", query), zap.Int("count", len(links)))
	return links, nil
}
