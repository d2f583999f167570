// Package contentapi is the HTTP client for the headless content platform
// that publishes the product catalog and FAQ entries.
package contentapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/crumbsugar/storefront/internal/catalog"
)

// Client fetches published entries from the content API. All calls are
// read-only GETs; the storefront never writes content.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func New(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}
}

// entriesResponse is the platform's standard list envelope.
type entriesResponse[T any] struct {
	Entries []T `json:"entries"`
}

// Products fetches every published product.
func (c *Client) Products(ctx context.Context) ([]catalog.Product, error) {
	var res entriesResponse[catalog.Product]
	if err := c.get(ctx, "/content_types/product/entries", &res); err != nil {
		return nil, fmt.Errorf("contentapi: fetch products: %w", err)
	}
	return res.Entries, nil
}

// FAQs fetches every published FAQ entry.
func (c *Client) FAQs(ctx context.Context) ([]catalog.FAQ, error) {
	var res entriesResponse[catalog.FAQ]
	if err := c.get(ctx, "/content_types/faq/entries", &res); err != nil {
		return nil, fmt.Errorf("contentapi: fetch faqs: %w", err)
	}
	return res.Entries, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	if c.token != "" {
		req.Header.Set("access_token", c.token)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, path)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
