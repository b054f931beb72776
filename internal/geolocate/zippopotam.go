package geolocate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/freqscout/freqscout-cli/internal/model"
)

// ZippopotamProvider resolves ZIP codes via the zippopotam.us API.
type ZippopotamProvider struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewZippopotamProvider creates a provider for the given API base URL.
func NewZippopotamProvider(baseURL, userAgent string, timeout time.Duration) *ZippopotamProvider {
	return &ZippopotamProvider{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

// Name implements ZipProvider.
func (p *ZippopotamProvider) Name() string { return "zippopotam" }

// Available implements ZipProvider.
func (p *ZippopotamProvider) Available() bool { return p.baseURL != "" }

type zippopotamResponse struct {
	Places []struct {
		PlaceName         string `json:"place name"`
		StateAbbreviation string `json:"state abbreviation"`
	} `json:"places"`
}

// LookupZIP implements ZipProvider. Returns city and state; county is left
// for the Resolver's county providers.
func (p *ZippopotamProvider) LookupZIP(ctx context.Context, zip string) (*model.LocationInfo, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "zippopotam: rate limit")
	}

	reqURL := fmt.Sprintf("%s/us/%s", p.baseURL, zip)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "zippopotam: build request")
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "zippopotam: request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("zippopotam: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "zippopotam: read body")
	}

	var zr zippopotamResponse
	if err := json.Unmarshal(body, &zr); err != nil {
		return nil, eris.Wrap(err, "zippopotam: parse response")
	}
	if len(zr.Places) == 0 {
		return nil, nil
	}

	place := zr.Places[0]
	if place.PlaceName == "" || place.StateAbbreviation == "" {
		return nil, nil
	}

	return &model.LocationInfo{
		City:  place.PlaceName,
		State: strings.ToUpper(place.StateAbbreviation),
	}, nil
}
