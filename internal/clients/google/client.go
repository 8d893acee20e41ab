package google

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/roshangthomas/MeetHalfway-sub000/internal/cache"
	"github.com/roshangthomas/MeetHalfway-sub000/internal/lib/geo"
)

const defaultBaseURL = "https://maps.googleapis.com/maps/api"

// HTTPDoer abstracts the HTTP transport so tests can stub it
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// TTLs holds the per-endpoint response cache lifetimes
type TTLs struct {
	Directions     time.Duration
	Places         time.Duration
	DistanceMatrix time.Duration
	Geocode        time.Duration
}

// DefaultTTLs returns the standard cache lifetimes: route geometry and
// geocodes barely change, travel times do.
func DefaultTTLs() TTLs {
	return TTLs{
		Directions:     30 * time.Minute,
		Places:         10 * time.Minute,
		DistanceMatrix: 5 * time.Minute,
		Geocode:        24 * time.Hour,
	}
}

// Client provides access to the Google Maps platform APIs (Directions,
// Places Nearby Search, Distance Matrix, Geocoding). Responses are
// cached by endpoint+params with per-endpoint TTLs when a cache is
// supplied; the search engine consuming this client stays cache-agnostic.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient HTTPDoer
	cache      *cache.Cache
	ttls       TTLs
	geo        geo.GeoUtils
}

// NewClient creates a client with the default transport. responseCache
// may be nil to disable caching.
func NewClient(apiKey string, responseCache *cache.Cache, ttls TTLs) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		cache: responseCache,
		ttls:  ttls,
		geo:   geo.NewGeoUtils(),
	}
}

// NewClientWithHTTPDoer creates a client with an injected transport (for tests)
func NewClientWithHTTPDoer(apiKey, baseURL string, doer HTTPDoer) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: doer,
		ttls:       DefaultTTLs(),
		geo:        geo.NewGeoUtils(),
	}
}

// getJSON executes a GET against one API endpoint, consulting and
// filling the response cache around the HTTP round trip. The API key is
// appended here and excluded from cache keys.
func (c *Client) getJSON(ctx context.Context, endpoint string, params url.Values, ttl time.Duration, out interface{}) error {
	cacheKey := cache.Key(endpoint, params)
	if c.cache != nil {
		found, err := c.cache.Get(cacheKey, out)
		if err != nil {
			log.Printf("Google %s: cache read failed: %v", endpoint, err)
		}
		if found {
			return nil
		}
	}

	keyed := url.Values{}
	for k, vs := range params {
		keyed[k] = vs
	}
	keyed.Set("key", c.apiKey)

	requestURL := fmt.Sprintf("%s/%s/json?%s", c.baseURL, endpoint, keyed.Encode())
	req, err := http.NewRequestWithContext(ctx, "GET", requestURL, nil)
	if err != nil {
		return &TransportError{Endpoint: endpoint, Err: fmt.Errorf("failed to create request: %w", err)}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%s: %w", endpoint, ErrQuotaExceeded)
	}
	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return &TransportError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%s", string(body)),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &TransportError{Endpoint: endpoint, Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	if c.cache != nil {
		if err := c.cache.Set(cacheKey, out, ttl, endpoint); err != nil {
			log.Printf("Google %s: cache write failed: %v", endpoint, err)
		}
	}
	return nil
}

// formatPoint renders a coordinate as the "lat,lng" parameter Google expects
func formatPoint(p geo.Point) string {
	return fmt.Sprintf("%.6f,%.6f", p.Latitude, p.Longitude)
}
