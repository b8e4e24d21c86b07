package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"plantcare-backend/config"
)

// Client talks to the external plant catalog API: a paginated species list and
// a per-species detail endpoint.
type Client struct {
	cfg    *config.CatalogConfig
	client *http.Client
}

// NewClient creates and initializes a catalog API client.
func NewClient(cfg *config.CatalogConfig) *Client {
	var transport http.RoundTripper = &http.Transport{}
	if cfg.HTTPProxy != "" {
		proxyURL, err := url.Parse(cfg.HTTPProxy)
		if err != nil {
			log.Printf("Warning: Invalid proxy URL %q: %v. Catalog client will not use a proxy.", cfg.HTTPProxy, err)
		} else {
			transport = &http.Transport{Proxy: http.ProxyURL(proxyURL)}
		}
	}

	return &Client{
		cfg: cfg,
		client: &http.Client{
			Transport: transport,
			Timeout:   30 * time.Second,
		},
	}
}

// ListPage fetches one page of species summaries. An empty slice with a nil
// error means the catalog is exhausted.
func (c *Client) ListPage(ctx context.Context, page int) ([]SpeciesSummary, error) {
	params := url.Values{}
	params.Set("key", c.cfg.APIKey)
	params.Set("page", strconv.Itoa(page))

	body, err := c.get(ctx, c.cfg.BaseURL+"/species-list?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch species list page %d: %w", page, err)
	}

	var resp listResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal species list page %d: %w", page, err)
	}
	if resp.exceeded() {
		return nil, resp.toError()
	}
	return resp.Data, nil
}

// Search fetches species summaries matching a query string.
func (c *Client) Search(ctx context.Context, query string) ([]SpeciesSummary, error) {
	params := url.Values{}
	params.Set("key", c.cfg.APIKey)
	params.Set("q", query)

	body, err := c.get(ctx, c.cfg.BaseURL+"/species-list?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("failed to search species %q: %w", query, err)
	}

	var resp listResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal species search: %w", err)
	}
	if resp.exceeded() {
		return nil, resp.toError()
	}
	return resp.Data, nil
}

// Detail fetches the full record for one species id.
func (c *Client) Detail(ctx context.Context, id int64) (*SpeciesDetail, error) {
	params := url.Values{}
	params.Set("key", c.cfg.APIKey)

	body, err := c.get(ctx, fmt.Sprintf("%s/species/details/%d?%s", c.cfg.BaseURL, id, params.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch species detail %d: %w", id, err)
	}

	var rl rateLimitBody
	if err := json.Unmarshal(body, &rl); err == nil && rl.exceeded() {
		return nil, rl.toError()
	}

	var detail SpeciesDetail
	if err := json.Unmarshal(body, &detail); err != nil {
		return nil, fmt.Errorf("failed to unmarshal species detail %d: %w", id, err)
	}
	return &detail, nil
}

// FindByCommonName looks a species up by exact common name (case-insensitive)
// and returns its detail record, or nil when the catalog does not know it.
func (c *Client) FindByCommonName(ctx context.Context, commonName string) (*SpeciesDetail, error) {
	summaries, err := c.Search(ctx, commonName)
	if err != nil {
		return nil, err
	}
	for _, s := range summaries {
		if strings.EqualFold(s.CommonName, commonName) {
			return c.Detail(ctx, s.ID)
		}
	}
	return nil, nil
}

// get performs the request and maps a 429 (or any failed status carrying
// quota fields) to a RateLimitError.
func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		var rl rateLimitBody
		_ = json.Unmarshal(body, &rl)
		return nil, rl.toError()
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("received non-200 status code: %d", resp.StatusCode)
	}
	return body, nil
}
