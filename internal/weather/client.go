package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"plantcare-backend/config"
)

// Client fetches weather observations and geocoding results from the weather
// API. Responses are cached so that a sweep over many plants in the same city
// costs one upstream call.
type Client struct {
	cfg    *config.WeatherConfig
	client *http.Client
	cache  *cache.Cache
}

// NewClient creates and initializes a weather API client.
func NewClient(cfg *config.WeatherConfig) *Client {
	return &Client{
		cfg: cfg,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
		cache: cache.New(cfg.CacheTTL, 2*cfg.CacheTTL),
	}
}

// Current returns the weather snapshot for a location, which may be a city
// name or a "lat,lon" pair.
func (c *Client) Current(ctx context.Context, location string) (*Snapshot, error) {
	key := "weather_" + strings.ToLower(strings.TrimSpace(location))
	if cached, found := c.cache.Get(key); found {
		return cached.(*Snapshot), nil
	}

	var snap Snapshot
	if err := c.getJSON(ctx, "/current.json", location, &snap); err != nil {
		return nil, err
	}

	c.cache.Set(key, &snap, cache.DefaultExpiration)
	return &snap, nil
}

// GeoResult is one geocoding match from the search endpoint.
type GeoResult struct {
	Name    string  `json:"name"`
	Region  string  `json:"region"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// Search resolves a city name to coordinates. City coordinates do not change,
// so results are cached for the client's full TTL as well.
func (c *Client) Search(ctx context.Context, city string) (*GeoResult, error) {
	key := "geocoding_" + strings.ToLower(strings.TrimSpace(city))
	if cached, found := c.cache.Get(key); found {
		return cached.(*GeoResult), nil
	}

	var results []GeoResult
	if err := c.getJSON(ctx, "/search.json", city, &results); err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("no geocoding result for %q", city)
	}

	c.cache.Set(key, &results[0], cache.DefaultExpiration)
	return &results[0], nil
}

func (c *Client) getJSON(ctx context.Context, path, query string, out any) error {
	params := url.Values{}
	params.Set("key", c.cfg.APIKey)
	params.Set("q", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.cfg.BaseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("weather API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to unmarshal weather response: %w", err)
	}
	return nil
}
