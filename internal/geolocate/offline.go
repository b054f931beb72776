package geolocate

import (
	"strings"

	"github.com/andreiashu/geobed"
	"go.uber.org/zap"
)

// OfflineCanonicalizer fixes city-name casing and spelling against the
// embedded geonames dataset before any network lookup is attempted.
type OfflineCanonicalizer struct {
	g *geobed.GeoBed
}

// NewOfflineCanonicalizer loads the offline city dataset. dataDir may be
// empty to use the library default.
func NewOfflineCanonicalizer(dataDir string) (*OfflineCanonicalizer, error) {
	var opts []geobed.Option
	if dataDir != "" {
		opts = append(opts, geobed.WithDataDir(dataDir))
	}
	g, err := geobed.NewGeobed(opts...)
	if err != nil {
		return nil, err
	}
	return &OfflineCanonicalizer{g: g}, nil
}

// Canonicalize implements Canonicalizer. Returns the dataset's spelling of
// the city when a confident US match in the same state exists.
func (o *OfflineCanonicalizer) Canonicalize(city, state string) (string, bool) {
	match := o.g.Geocode(city + ", " + state)
	if match.City == "" || match.Country() != "US" {
		return "", false
	}
	if !strings.EqualFold(match.Region(), state) {
		return "", false
	}
	if !strings.EqualFold(match.City, city) {
		zap.L().Debug("offline geocoder corrected city name",
			zap.String("component", "geolocate.offline"),
			zap.String("input", city),
			zap.String("canonical", match.City),
		)
	}
	return match.City, true
}
