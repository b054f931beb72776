package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/freqscout/freqscout-cli/internal/countyid"
	"github.com/freqscout/freqscout-cli/internal/fetch"
	"github.com/freqscout/freqscout-cli/internal/geolocate"
	"github.com/freqscout/freqscout-cli/internal/pipeline"
	"github.com/freqscout/freqscout-cli/internal/render"
	"github.com/freqscout/freqscout-cli/internal/store"
)

// app holds the wired collaborators a command needs. Close releases the
// page cache database.
type app struct {
	fetcher    *fetch.Client
	locator    *geolocate.Resolver
	countyDir  *countyid.Store
	discoverer *countyid.Discoverer
	counties   *countyid.Resolver
	pipeline   *pipeline.Pipeline
	pageCache  *store.PageCache
}

func (a *app) Close() {
	if a.pageCache != nil {
		if err := a.pageCache.Close(); err != nil {
			zap.L().Warn("page cache close failed", zap.Error(err))
		}
	}
}

// buildApp wires the full search stack from configuration.
func buildApp(ctx context.Context) (*app, error) {
	a := &app{}

	pageCache, err := store.NewPageCache(cfg.Cache.PageDB, cfg.Cache.PageTTL())
	if err != nil {
		return nil, eris.Wrap(err, "wire page cache")
	}
	if err := pageCache.Migrate(ctx); err != nil {
		pageCache.Close()
		return nil, eris.Wrap(err, "migrate page cache")
	}
	a.pageCache = pageCache

	a.fetcher = fetch.New(
		fetch.WithUserAgent(cfg.Source.UserAgent),
		fetch.WithTimeout(cfg.Source.HTTPTimeout()),
		fetch.WithCache(pageCache),
		fetch.WithLimiter(rate.NewLimiter(rate.Every(cfg.Source.ProbeDelay()), 1)),
	)

	nominatim := geolocate.NewNominatimClient(
		cfg.Geocode.NominatimBaseURL, cfg.Geocode.UserAgent, cfg.Geocode.HTTPTimeout())
	zips := []geolocate.ZipProvider{
		geolocate.NewZippopotamProvider(
			cfg.Geocode.ZipBaseURL, cfg.Geocode.UserAgent, cfg.Geocode.HTTPTimeout()),
	}
	counties := []geolocate.CountyProvider{nominatim}

	var locatorOpts []geolocate.ResolverOption
	if cfg.Geocode.Offline {
		canon, err := geolocate.NewOfflineCanonicalizer(cfg.Geocode.OfflineDataDir)
		if err != nil {
			zap.L().Warn("offline geocoder unavailable", zap.Error(err))
		} else {
			locatorOpts = append(locatorOpts, geolocate.WithCanonicalizer(canon))
		}
	}
	a.locator = geolocate.NewResolver(zips, counties, locatorOpts...)

	var renderer render.Renderer = render.Disabled{}
	if cfg.Renderer.Enabled {
		renderer = render.NewChromeRenderer(cfg.Renderer.RenderTimeout())
	}

	a.countyDir = countyid.Open(cfg.Cache.CountyFile)
	a.discoverer = countyid.NewDiscoverer(
		a.fetcher, renderer, geolocate.NewNominatimVerifier(nominatim),
		a.countyDir, cfg.Source.BaseURL,
		countyid.WithCandidateDelay(cfg.Source.CandidateDelay()),
		countyid.WithVerifyDelay(cfg.Source.VerifyDelay()),
		countyid.WithStateDelay(cfg.Source.StateDelay()),
	)
	a.counties = countyid.NewResolver(a.countyDir, a.discoverer)

	a.pipeline = pipeline.New(a.locator, a.counties, a.fetcher, cfg.Source.BaseURL)
	return a, nil
}
