package countyid

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/freqscout/freqscout-cli/internal/model"
)

// Resolver turns a (county, state) pair into the source site's numeric
// county identifier. Strategies run cheapest-first: seeded identifiers, the
// durable cache, state-wide discovery (only when the state has nothing
// cached), query-page identifier/name pairs, and finally a targeted sweep
// of the state's browse page. Concurrent lookups for the same pair are
// collapsed into one resolution.
type Resolver struct {
	store *Store
	disc  *Discoverer
	group singleflight.Group
	log   *zap.Logger
}

// NewResolver wires a Resolver over the cache and discovery engine.
func NewResolver(store *Store, disc *Discoverer) *Resolver {
	return &Resolver{
		store: store,
		disc:  disc,
		log:   zap.L().With(zap.String("component", "countyid")),
	}
}

// Resolve returns the identifier for a county, discovering and caching it
// when unknown.
func (r *Resolver) Resolve(ctx context.Context, county, state string) (string, error) {
	key := model.NewCountyKey(county, state)
	if key.County == "" || key.State == "" {
		return "", eris.Errorf("countyid: county and state are required")
	}

	v, err, _ := r.group.Do(key.County+"|"+key.State, func() (any, error) {
		return r.resolve(ctx, key)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (r *Resolver) resolve(ctx context.Context, key model.CountyKey) (string, error) {
	if id, ok := KnownID(key); ok {
		r.log.Debug("seeded identifier",
			zap.String("county", key.County), zap.String("id", id))
		return id, nil
	}
	if id, ok := r.store.Get(key); ok {
		return id, nil
	}

	// Full-state discovery is for cold states only. A state that already
	// holds cached counties is just missing this one; the targeted
	// strategies below find it without re-scraping the whole state.
	if r.store.CountForState(key.State) == 0 {
		if _, err := r.disc.DiscoverState(ctx, key.StateUpper()); err != nil {
			r.log.Debug("state discovery failed",
				zap.String("state", key.StateUpper()), zap.Error(err))
		} else if id, ok := r.store.Get(key); ok {
			return id, nil
		}
	}

	id, ok := r.queryPairs(ctx, key)
	if !ok {
		var err error
		id, err = r.sweep(ctx, key)
		if err != nil {
			return "", err
		}
	}

	if r.store.Put(key, id) {
		if err := r.store.Save(); err != nil {
			r.log.Warn("county cache save failed", zap.Error(err))
		}
	}
	return id, nil
}

// queryPairs mines the state's query page for explicit identifier/name
// pairs in script data, fuzzy-matches them against the requested county,
// and confirms the candidate against its county page heading.
func (r *Resolver) queryPairs(ctx context.Context, key model.CountyKey) (string, bool) {
	state := key.StateUpper()
	queryID, ok := QueryStateID(state)
	if !ok {
		return "", false
	}

	page, err := r.disc.fetcher.Get(ctx, r.disc.baseURL+"/db/query/?stid="+queryID)
	if err != nil {
		r.log.Debug("query page fetch failed",
			zap.String("state", state), zap.Error(err))
		return "", false
	}

	stateFull := strings.ToLower(StateFullName(state))
	for name, id := range MinePairs(page) {
		if !OptionMatchesCounty(name, key.County) {
			continue
		}
		if err := r.disc.fetcher.Pause(ctx, r.disc.candidateDelay); err != nil {
			return "", false
		}
		if r.disc.checkCountyPage(ctx, id, key.County, stateFull) {
			return id, true
		}
	}
	return "", false
}

// sweep mines the state's browse page for candidate identifiers near the
// county's name and confirms each against its county page until one checks
// out.
func (r *Resolver) sweep(ctx context.Context, key model.CountyKey) (string, error) {
	state := key.StateUpper()
	dropID, ok := DropdownStateID(state)
	if !ok {
		return "", eris.Errorf("countyid: unknown state %q", state)
	}

	page, err := r.disc.fetcher.Get(ctx, r.disc.baseURL+"/db/browse/stid/"+dropID)
	if err != nil {
		return "", eris.Wrapf(err, "countyid: fetch browse page for %s", state)
	}

	candidates := MineNearName(page, key.DisplayCounty())
	seen := make(map[string]bool, len(candidates))
	for _, id := range candidates {
		seen[id] = true
	}
	for _, id := range MineAllIDs(page) {
		if !seen[id] {
			seen[id] = true
			candidates = append(candidates, id)
		}
	}

	stateFull := strings.ToLower(StateFullName(state))
	for _, id := range candidates {
		if err := r.disc.fetcher.Pause(ctx, r.disc.candidateDelay); err != nil {
			return "", eris.Wrap(err, "countyid: sweep interrupted")
		}
		if r.disc.checkCountyPage(ctx, id, key.County, stateFull) {
			return id, nil
		}
	}

	return "", eris.Errorf("countyid: no identifier found for %s County, %s",
		key.DisplayCounty(), state)
}
