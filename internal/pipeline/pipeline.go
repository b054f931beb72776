package pipeline

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/freqscout/freqscout-cli/internal/countyid"
	"github.com/freqscout/freqscout-cli/internal/extract"
	"github.com/freqscout/freqscout-cli/internal/model"
)

// Locator resolves user-supplied locations into city/county/state triples.
type Locator interface {
	ResolveZIP(ctx context.Context, zip string) *model.LocationInfo
	CountyForCity(ctx context.Context, city, state string) string
}

// CountyResolver turns a county/state pair into the source site's numeric
// county identifier.
type CountyResolver interface {
	Resolve(ctx context.Context, county, state string) (string, error)
}

// Fetcher fetches page bodies.
type Fetcher interface {
	Get(ctx context.Context, url string) (string, error)
}

// Result is one completed search: where it looked and what it found.
type Result struct {
	Location model.LocationInfo
	Records  []model.FrequencyRecord
	// Statewide is set when county resolution failed or the county page
	// was empty and the records came from the statewide database instead.
	Statewide bool
}

// Pipeline runs a location through resolution, fetch, and extraction.
type Pipeline struct {
	locator  Locator
	counties CountyResolver
	fetcher  Fetcher
	baseURL  string
	log      *zap.Logger
}

// New wires a Pipeline.
func New(locator Locator, counties CountyResolver, fetcher Fetcher, baseURL string) *Pipeline {
	return &Pipeline{
		locator:  locator,
		counties: counties,
		fetcher:  fetcher,
		baseURL:  strings.TrimRight(baseURL, "/"),
		log:      zap.L().With(zap.String("component", "pipeline")),
	}
}

// SearchZIP searches by ZIP code.
func (p *Pipeline) SearchZIP(ctx context.Context, zip string) (*Result, error) {
	loc := p.locator.ResolveZIP(ctx, zip)
	if loc == nil {
		return nil, eris.Errorf("pipeline: could not resolve ZIP %s", zip)
	}
	p.log.Info("resolved ZIP",
		zap.String("zip", zip), zap.String("city", loc.City),
		zap.String("county", loc.County), zap.String("state", loc.State))
	return p.search(ctx, *loc)
}

// SearchCity searches by city and state, resolving the county first.
func (p *Pipeline) SearchCity(ctx context.Context, city, state string) (*Result, error) {
	loc := model.LocationInfo{
		City:   strings.TrimSpace(city),
		County: p.locator.CountyForCity(ctx, city, state),
		State:  strings.ToUpper(strings.TrimSpace(state)),
	}
	return p.search(ctx, loc)
}

// SearchCounty searches a county directly.
func (p *Pipeline) SearchCounty(ctx context.Context, county, state string) (*Result, error) {
	loc := model.LocationInfo{
		County: strings.TrimSpace(county),
		State:  strings.ToUpper(strings.TrimSpace(state)),
	}
	return p.search(ctx, loc)
}

func (p *Pipeline) search(ctx context.Context, loc model.LocationInfo) (*Result, error) {
	if loc.State == "" {
		return nil, eris.New("pipeline: state is required")
	}

	res := &Result{Location: loc}
	locality := loc.County
	if locality == "" {
		locality = loc.State
	}

	if loc.County != "" {
		records, err := p.countyRecords(ctx, loc.County, loc.State, locality)
		switch {
		case err != nil:
			p.log.Warn("county search failed, falling back to statewide",
				zap.String("county", loc.County), zap.Error(err))
		case len(records) > 0:
			res.Records = prioritizeCity(records, loc.City)
			return res, nil
		default:
			p.log.Info("county page had no frequencies, falling back to statewide",
				zap.String("county", loc.County))
		}
	}

	records, err := p.statewideRecords(ctx, loc.State, locality)
	if err != nil {
		return nil, err
	}
	res.Records = prioritizeCity(records, loc.City)
	res.Statewide = true
	return res, nil
}

func (p *Pipeline) countyRecords(ctx context.Context, county, state, locality string) ([]model.FrequencyRecord, error) {
	id, err := p.counties.Resolve(ctx, county, state)
	if err != nil {
		return nil, err
	}

	page, err := p.fetcher.Get(ctx, p.baseURL+"/db/browse/ctid/"+id)
	if err != nil {
		return nil, eris.Wrapf(err, "pipeline: fetch county page %s", id)
	}
	return extract.Records(page, locality)
}

func (p *Pipeline) statewideRecords(ctx context.Context, state, locality string) ([]model.FrequencyRecord, error) {
	queryID, ok := countyid.QueryStateID(state)
	if !ok {
		return nil, eris.Errorf("pipeline: unknown state %q", state)
	}

	page, err := p.fetcher.Get(ctx, p.baseURL+"/apps/db/?stid="+queryID)
	if err != nil {
		return nil, eris.Wrapf(err, "pipeline: fetch statewide page for %s", state)
	}
	return extract.Records(page, locality)
}

// prioritizeCity moves records that mention the city to the front, keeping
// relative order within both groups, then renumbers.
func prioritizeCity(records []model.FrequencyRecord, city string) []model.FrequencyRecord {
	if city == "" || len(records) == 0 {
		return renumber(records)
	}

	needle := strings.ToLower(city)
	matched := make([]model.FrequencyRecord, 0, len(records))
	rest := make([]model.FrequencyRecord, 0, len(records))
	for _, rec := range records {
		if strings.Contains(strings.ToLower(rec.Name), needle) ||
			strings.Contains(strings.ToLower(rec.Comment), needle) {
			matched = append(matched, rec)
		} else {
			rest = append(rest, rec)
		}
	}
	return renumber(append(matched, rest...))
}

func renumber(records []model.FrequencyRecord) []model.FrequencyRecord {
	for i := range records {
		records[i].Location = i
	}
	return records
}
