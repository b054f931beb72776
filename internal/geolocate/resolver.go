package geolocate

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/freqscout/freqscout-cli/internal/model"
)

// ZipProvider looks up the city and state for a US ZIP code.
type ZipProvider interface {
	Name() string
	Available() bool
	LookupZIP(ctx context.Context, zip string) (*model.LocationInfo, error)
}

// CountyProvider finds the county a city belongs to.
type CountyProvider interface {
	Name() string
	Available() bool
	CountyForCity(ctx context.Context, city, state string) (string, error)
}

// Canonicalizer fixes up free-form city names (case, spelling) before any
// network lookup. Optional.
type Canonicalizer interface {
	Canonicalize(city, state string) (string, bool)
}

// Resolver turns ZIP codes and city names into location info by trying
// providers in order, first success wins. A miss is not an error: callers
// degrade to a state-wide search when no county can be determined.
type Resolver struct {
	zips     []ZipProvider
	counties []CountyProvider
	canon    Canonicalizer
}

// ResolverOption configures the Resolver.
type ResolverOption func(*Resolver)

// WithCanonicalizer attaches an offline city-name canonicalizer.
func WithCanonicalizer(c Canonicalizer) ResolverOption {
	return func(r *Resolver) { r.canon = c }
}

// NewResolver creates a Resolver trying the given providers in order.
func NewResolver(zips []ZipProvider, counties []CountyProvider, opts ...ResolverOption) *Resolver {
	r := &Resolver{zips: zips, counties: counties}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ResolveZIP resolves a ZIP code to {city, county, state}. Returns nil when
// no provider can place the ZIP. When a provider returns city/state but no
// county, the county providers fill it in.
func (r *Resolver) ResolveZIP(ctx context.Context, zip string) *model.LocationInfo {
	log := zap.L().With(zap.String("component", "geolocate.resolver"), zap.String("zip", zip))

	for _, p := range r.zips {
		if !p.Available() {
			continue
		}
		loc, err := p.LookupZIP(ctx, zip)
		if err != nil {
			log.Debug("zip provider error, trying next",
				zap.String("provider", p.Name()),
				zap.Error(err),
			)
			continue
		}
		if loc == nil || loc.State == "" {
			continue
		}
		if loc.County == "" && loc.City != "" {
			loc.County = r.CountyForCity(ctx, loc.City, loc.State)
		}
		log.Debug("zip resolved",
			zap.String("provider", p.Name()),
			zap.String("city", loc.City),
			zap.String("county", loc.County),
			zap.String("state", loc.State),
		)
		return loc
	}

	log.Info("could not resolve zip code")
	return nil
}

// CountyForCity resolves which county a city belongs to, trying providers
// in order. Returns "" when every provider misses.
func (r *Resolver) CountyForCity(ctx context.Context, city, state string) string {
	log := zap.L().With(zap.String("component", "geolocate.resolver"))
	state = strings.ToUpper(strings.TrimSpace(state))

	if r.canon != nil {
		if fixed, ok := r.canon.Canonicalize(city, state); ok && fixed != city {
			log.Debug("canonicalized city name",
				zap.String("input", city),
				zap.String("canonical", fixed),
			)
			city = fixed
		}
	}

	for _, p := range r.counties {
		if !p.Available() {
			continue
		}
		county, err := p.CountyForCity(ctx, city, state)
		if err != nil {
			log.Debug("county provider error, trying next",
				zap.String("provider", p.Name()),
				zap.Error(err),
			)
			continue
		}
		if county != "" {
			return county
		}
	}

	log.Info("could not determine county",
		zap.String("city", city),
		zap.String("state", state),
	)
	return ""
}
