package geolocate

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/freqscout/freqscout-cli/internal/model"
)

// Verifier confirms a (county, state) pair against an independent geocoding
// authority. Used as a confidence signal when accepting bulk-discovered
// county identifiers, never as a hard gate on individual lookups.
type Verifier interface {
	Verify(ctx context.Context, countyName, state string) bool
}

// NominatimVerifier verifies county/state pairs via a NominatimClient.
type NominatimVerifier struct {
	client *NominatimClient
}

// NewNominatimVerifier wraps a NominatimClient as a Verifier.
func NewNominatimVerifier(client *NominatimClient) *NominatimVerifier {
	return &NominatimVerifier{client: client}
}

// Verify queries "<County> County, <State>, USA" and compares the returned
// state and county against the inputs. Any network or parse failure counts
// as verified (fail-open): verification only guards batch acceptance.
func (v *NominatimVerifier) Verify(ctx context.Context, countyName, state string) bool {
	log := zap.L().With(zap.String("component", "geolocate.verifier"))

	key := model.NewCountyKey(countyName, state)
	query := key.DisplayCounty() + " County, " + key.StateUpper() + ", USA"

	results, err := v.client.search(ctx, query, true)
	if err != nil {
		log.Debug("verification lookup failed, defaulting to verified",
			zap.String("query", query),
			zap.Error(err),
		)
		return true
	}
	if len(results) == 0 {
		return false
	}

	addr := results[0].Address
	resultState := strings.ToUpper(addr.StateCode)
	if resultState == "" {
		resultState = strings.ToUpper(addr.State)
	}
	stateUpper := key.StateUpper()
	if !strings.Contains(resultState, stateUpper) && !strings.Contains(stateUpper, resultState) {
		return false
	}

	resultCounty := strings.ToLower(addr.County)
	if resultCounty == "" {
		return true
	}
	return strings.Contains(resultCounty, key.County) || strings.HasPrefix(resultCounty, key.County)
}
