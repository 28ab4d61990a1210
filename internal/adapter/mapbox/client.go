package mapbox

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/couchcryptid/corsica-dataviz/internal/domain"
	"github.com/couchcryptid/corsica-dataviz/internal/observability"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://api.mapbox.com/geocoding/v5/mapbox.places"

// Client implements domain.Geocoder using the Mapbox Geocoding API.
type Client struct {
	token      string
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter // nil disables pacing
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a Mapbox geocoding client that issues at most
// requestsPerSecond calls.
func NewClient(token string, timeout time.Duration, requestsPerSecond float64, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		token: token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: defaultBaseURL,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		metrics: metrics,
		logger:  logger,
	}
}

// islandBounds is the Corsica bounding box as minLng, minLat, maxLng, maxLat.
var islandBounds = [4]float64{8.50, 41.30, 9.60, 43.05}

// ForwardGeocode converts a commune name within a region to coordinates.
// Results are restricted to French places near the island; a match that
// falls outside the island bounds is reported as no match.
func (c *Client) ForwardGeocode(ctx context.Context, name, region string) (domain.GeocodingResult, error) {
	query := name
	if region != "" {
		query = fmt.Sprintf("%s, %s", name, region)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return domain.GeocodingResult{}, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	start := time.Now()
	features, err := c.search(ctx, query)
	c.metrics.GeocodeAPIDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.GeocodeRequests.WithLabelValues("error").Inc()
		return domain.GeocodingResult{}, err
	}

	result, ok := firstOnIsland(features)
	if !ok {
		c.metrics.GeocodeRequests.WithLabelValues("empty").Inc()
		c.logger.Debug("no match on the island", "query", query, "candidates", len(features))
		return domain.GeocodingResult{}, nil
	}
	c.metrics.GeocodeRequests.WithLabelValues("success").Inc()
	c.logger.Debug("geocoded commune", "query", query, "place", result.FormattedAddress, "relevance", result.Confidence)
	return result, nil
}

func (c *Client) search(ctx context.Context, query string) ([]feature, error) {
	center := domain.DefaultMapSettings().Center
	params := url.Values{
		"access_token": {c.token},
		"limit":        {"1"},
		"country":      {"fr"},
		"types":        {"place,locality"},
		"proximity":    {formatCoords(center.Lng, center.Lat)},
		"bbox": {fmt.Sprintf("%s,%s",
			formatCoords(islandBounds[0], islandBounds[1]),
			formatCoords(islandBounds[2], islandBounds[3]))},
	}
	endpoint := fmt.Sprintf("%s/%s.json?%s", c.baseURL, url.PathEscape(query), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("forward geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("mapbox API error: status %d: %s", resp.StatusCode, body)
	}

	var payload response
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return payload.Features, nil
}

func firstOnIsland(features []feature) (domain.GeocodingResult, bool) {
	for _, f := range features {
		if len(f.Center) != 2 {
			continue
		}
		lng, lat := f.Center[0], f.Center[1]
		if lng < islandBounds[0] || lat < islandBounds[1] || lng > islandBounds[2] || lat > islandBounds[3] {
			continue
		}
		return domain.GeocodingResult{
			Lat:              lat,
			Lng:              lng,
			FormattedAddress: f.PlaceName,
			PlaceName:        f.Text,
			Confidence:       f.Relevance,
		}, true
	}
	return domain.GeocodingResult{}, false
}

func formatCoords(lng, lat float64) string {
	return strconv.FormatFloat(lng, 'f', 4, 64) + "," + strconv.FormatFloat(lat, 'f', 4, 64)
}

type response struct {
	Features []feature `json:"features"`
}

// feature is one candidate place; Center is ordered [lng, lat].
type feature struct {
	Center    []float64 `json:"center"`
	PlaceName string    `json:"place_name"`
	Text      string    `json:"text"`
	Relevance float64   `json:"relevance"`
}
