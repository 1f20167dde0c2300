package browse

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Client fetches listing pages from the storefront products API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient targets baseURL, e.g. "http://localhost:8080/api/v1".
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type productsResponse struct {
	Items      []Item `json:"items"`
	NextCursor *int64 `json:"nextCursor"`
}

func (c *Client) FetchPage(ctx context.Context, q Query) (*Page, error) {
	params := url.Values{}
	params.Set("storeSlug", q.StoreSlug)
	params.Set("limit", strconv.Itoa(q.Limit))
	if q.Text != "" {
		params.Set("q", q.Text)
	}
	if q.InStockOnly {
		params.Set("inStock", "1")
	}
	if q.Sort != "" {
		params.Set("sort", q.Sort)
	}
	if q.Cursor != nil {
		params.Set("cursor", strconv.FormatInt(*q.Cursor, 10))
	}

	reqURL := c.baseURL + "/products?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("request failed: %d", resp.StatusCode)
	}

	var body productsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode response: %v", err)
	}
	return &Page{Items: body.Items, NextCursor: body.NextCursor}, nil
}
