package geolocate

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// NominatimClient talks to an OpenStreetMap Nominatim search endpoint.
// It serves two roles: recovering a county from a "city, state" query and
// verifying discovered (county, state) pairs.
type NominatimClient struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewNominatimClient creates a client for the given Nominatim base URL.
// Nominatim's usage policy caps clients at one request per second.
func NewNominatimClient(baseURL, userAgent string, timeout time.Duration) *NominatimClient {
	return &NominatimClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

// Name implements CountyProvider.
func (c *NominatimClient) Name() string { return "nominatim" }

// Available implements CountyProvider.
func (c *NominatimClient) Available() bool { return c.baseURL != "" }

type nominatimResult struct {
	DisplayName string `json:"display_name"`
	Address     struct {
		County    string `json:"county"`
		State     string `json:"state"`
		StateCode string `json:"state_code"`
	} `json:"address"`
}

func (c *NominatimClient) search(ctx context.Context, query string, addressDetails bool) ([]nominatimResult, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "nominatim: rate limit")
	}

	params := url.Values{
		"q":      {query},
		"format": {"json"},
		"limit":  {"1"},
	}
	if addressDetails {
		params.Set("addressdetails", "1")
	}

	reqURL := c.baseURL + "/search?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "nominatim: build request")
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "nominatim: request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("nominatim: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "nominatim: read body")
	}

	var results []nominatimResult
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, eris.Wrap(err, "nominatim: parse response")
	}
	return results, nil
}

// CountyForCity implements CountyProvider. It queries "city, state, USA" and
// recovers the county from the comma-separated display name, looking for the
// token containing "county".
func (c *NominatimClient) CountyForCity(ctx context.Context, city, state string) (string, error) {
	results, err := c.search(ctx, city+","+state+",USA", false)
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		return "", nil
	}

	for _, part := range strings.Split(results[0].DisplayName, ",") {
		part = strings.TrimSpace(part)
		if strings.Contains(strings.ToLower(part), "county") {
			return strings.TrimSpace(strings.ReplaceAll(part, " County", "")), nil
		}
	}
	return "", nil
}
