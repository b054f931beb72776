package countyid

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/freqscout/freqscout-cli/internal/model"
	"github.com/freqscout/freqscout-cli/internal/render"
)

// Fetcher is the page-fetching dependency discovery needs: polite GETs and
// cancellable politeness pauses.
type Fetcher interface {
	Get(ctx context.Context, url string) (string, error)
	Pause(ctx context.Context, d time.Duration) error
}

// Verifier cross-checks a discovered county/state pair against an
// independent source before the pair is trusted.
type Verifier interface {
	Verify(ctx context.Context, county, state string) bool
}

const (
	// verifySampleSize counties are spot-checked per discovered batch.
	verifySampleSize = 5
	// verifyThreshold is the pass rate below which a whole batch is
	// discarded as likely mined from the wrong state's page.
	verifyThreshold = 0.8

	// offsetRange bounds the browse-identifier retry window when the
	// seeded dropdown numbering turns out stale for a state.
	offsetRange = 10

	// stateTextWindow is how much body text participates in wrong-state
	// detection.
	stateTextWindow = 5000
)

// Discoverer builds the county-identifier cache for whole states by probing
// and mining the source site, gating every batch behind independent
// verification.
type Discoverer struct {
	fetcher  Fetcher
	renderer render.Renderer
	verifier Verifier
	store    *Store
	baseURL  string

	candidateDelay time.Duration
	verifyDelay    time.Duration
	stateDelay     time.Duration

	log *zap.Logger
}

// DiscovererOption configures a Discoverer.
type DiscovererOption func(*Discoverer)

// WithCandidateDelay sets the pause between candidate identifier probes.
func WithCandidateDelay(d time.Duration) DiscovererOption {
	return func(dc *Discoverer) { dc.candidateDelay = d }
}

// WithVerifyDelay sets the pause between verification lookups.
func WithVerifyDelay(d time.Duration) DiscovererOption {
	return func(dc *Discoverer) { dc.verifyDelay = d }
}

// WithStateDelay sets the pause between browse-identifier retry attempts.
func WithStateDelay(d time.Duration) DiscovererOption {
	return func(dc *Discoverer) { dc.stateDelay = d }
}

// NewDiscoverer wires a Discoverer. renderer and verifier may be nil-valued
// implementations; discovery degrades to static mining and skips the
// verification gate respectively.
func NewDiscoverer(fetcher Fetcher, renderer render.Renderer, verifier Verifier, store *Store, baseURL string, opts ...DiscovererOption) *Discoverer {
	d := &Discoverer{
		fetcher:        fetcher,
		renderer:       renderer,
		verifier:       verifier,
		store:          store,
		baseURL:        strings.TrimRight(baseURL, "/"),
		candidateDelay: 300 * time.Millisecond,
		verifyDelay:    time.Second,
		stateDelay:     2 * time.Second,
		log:            zap.L().With(zap.String("component", "countyid")),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DiscoverState finds county identifiers for every county it can in a state
// and merges the verified batch into the cache. It returns the number of
// newly cached counties. Strategies run in order of trustworthiness:
// known-list probing, rendered browse-page extraction, static mining.
func (d *Discoverer) DiscoverState(ctx context.Context, state string) (int, error) {
	state = strings.ToUpper(strings.TrimSpace(state))
	d.log.Info("discovering county identifiers", zap.String("state", state))

	var candidates map[model.CountyKey]string
	if list := KnownCounties(state); len(list) > 0 {
		candidates = d.probeKnownList(ctx, state, list)
	}
	if len(candidates) == 0 && d.renderer != nil && d.renderer.Available() {
		candidates = d.discoverRendered(ctx, state)
	}
	if len(candidates) == 0 {
		candidates = d.discoverStatic(ctx, state)
	}
	if len(candidates) == 0 {
		return 0, eris.Errorf("countyid: no counties discovered for %s", state)
	}

	return d.verifyAndMerge(ctx, state, candidates)
}

// probeKnownList matches a maintained county-name list against the state's
// query-page dropdown, confirming each candidate identifier by fetching its
// county page.
func (d *Discoverer) probeKnownList(ctx context.Context, state string, list []string) map[model.CountyKey]string {
	queryID, ok := QueryStateID(state)
	if !ok {
		return nil
	}

	page, err := d.fetcher.Get(ctx, d.baseURL+"/db/query/?stid="+queryID)
	if err != nil {
		d.log.Debug("query page fetch failed", zap.String("state", state), zap.Error(err))
		return nil
	}
	doc, err := render.ParseDocument(page)
	if err != nil {
		return nil
	}

	sel := findCountyDropdown(doc)
	if sel == nil {
		d.log.Debug("query page has no county dropdown", zap.String("state", state))
		return nil
	}

	stateFull := strings.ToLower(StateFullName(state))
	found := make(map[model.CountyKey]string)
	for _, county := range list {
		clean := model.NormalizeCounty(county)
		for _, opt := range sel.Options {
			if !numericID(opt.Value) || !OptionMatchesCounty(opt.Text, county) {
				continue
			}
			if err := d.fetcher.Pause(ctx, d.candidateDelay); err != nil {
				return found
			}
			if d.checkCountyPage(ctx, opt.Value, clean, stateFull) {
				found[model.NewCountyKey(county, state)] = opt.Value
				if len(found)%5 == 0 {
					d.log.Info("probing county list",
						zap.String("state", state), zap.Int("found", len(found)))
				}
			}
			break
		}
	}
	return found
}

// findCountyDropdown picks the query-page dropdown that holds the county
// list: a large select whose options read like county names.
func findCountyDropdown(doc *render.Document) *render.Select {
	for i := range doc.Selects {
		sel := &doc.Selects[i]
		if len(sel.Options) <= 50 {
			continue
		}
		name := strings.ToLower(sel.Name + " " + sel.ID)
		if strings.Contains(name, "ctid") || strings.Contains(name, "county") {
			return sel
		}
		for _, opt := range sel.Options[:min(10, len(sel.Options))] {
			if strings.Contains(strings.ToLower(opt.Text), "county") {
				return sel
			}
		}
	}
	return nil
}

// checkCountyPage fetches a candidate county page and confirms its heading
// names both the county and the expected state.
func (d *Discoverer) checkCountyPage(ctx context.Context, id, cleanCounty, stateFullLower string) bool {
	page, err := d.fetcher.Get(ctx, d.baseURL+"/db/browse/ctid/"+id)
	if err != nil {
		return false
	}
	doc, err := render.ParseDocument(page)
	if err != nil {
		return false
	}
	heading := strings.ToLower(doc.Title + " " + strings.Join(doc.H1, " "))
	return strings.Contains(heading, cleanCounty) && strings.Contains(heading, stateFullLower)
}

// discoverRendered extracts the county dropdown from the rendered browse
// page. When the seeded browse identifier lands on the wrong state's page,
// nearby identifiers are tried and a candidate is accepted only if the page
// affirmatively names the expected state.
func (d *Discoverer) discoverRendered(ctx context.Context, state string) map[model.CountyKey]string {
	dropID, ok := DropdownStateID(state)
	if !ok {
		return nil
	}

	found, mismatch := d.renderAndExtract(ctx, state, dropID, false)
	if len(found) > 0 {
		return found
	}
	if !mismatch {
		return nil
	}

	d.log.Warn("browse page served a different state, trying nearby identifiers",
		zap.String("state", state), zap.String("stid", dropID))

	base, err := strconv.Atoi(dropID)
	if err != nil {
		return nil
	}
	for off := -offsetRange; off <= offsetRange; off++ {
		id := base + off
		if off == 0 || id <= 0 {
			continue
		}
		if err := d.fetcher.Pause(ctx, d.stateDelay); err != nil {
			return nil
		}
		if found, _ := d.renderAndExtract(ctx, state, strconv.Itoa(id), true); len(found) > 0 {
			return found
		}
	}
	return nil
}

// renderAndExtract renders one browse page and extracts its counties. The
// second result reports that the page named a different state than expected.
// With requireMatch set, results are kept only when the page affirmatively
// names the expected state.
func (d *Discoverer) renderAndExtract(ctx context.Context, state, stid string, requireMatch bool) (map[model.CountyKey]string, bool) {
	markup, err := d.renderer.Render(ctx, d.baseURL+"/db/browse/stid/"+stid)
	if err != nil {
		d.log.Debug("render failed", zap.String("stid", stid), zap.Error(err))
		return nil, false
	}
	doc, err := render.ParseDocument(markup)
	if err != nil {
		return nil, false
	}

	text := doc.Title + " " + strings.Join(doc.H1, " ") + " " + doc.BodyText
	if len(text) > stateTextWindow {
		text = text[:stateTextWindow]
	}
	detected := DetectState(text)
	if detected != "" && detected != state {
		return nil, true
	}
	if requireMatch && detected != state {
		return nil, false
	}

	byName := ExtractFromDocument(doc)
	found := make(map[model.CountyKey]string, len(byName))
	for name, id := range byName {
		found[model.NewCountyKey(name, state)] = id
	}
	return found, false
}

// discoverStatic mines the unrendered browse page: explicit id/name pairs
// in script data first, then any server-rendered dropdowns or links.
func (d *Discoverer) discoverStatic(ctx context.Context, state string) map[model.CountyKey]string {
	dropID, ok := DropdownStateID(state)
	if !ok {
		return nil
	}
	page, err := d.fetcher.Get(ctx, d.baseURL+"/db/browse/stid/"+dropID)
	if err != nil {
		return nil
	}

	byName := MinePairs(page)
	if len(byName) == 0 {
		if doc, err := render.ParseDocument(page); err == nil {
			byName = ExtractFromDocument(doc)
		}
	}

	found := make(map[model.CountyKey]string, len(byName))
	for name, id := range byName {
		found[model.NewCountyKey(name, state)] = id
	}
	return found
}

// verifyAndMerge spot-checks a discovered batch against the verifier and,
// when the sample passes, merges the new entries and persists the cache.
// A failing sample discards the entire batch.
func (d *Discoverer) verifyAndMerge(ctx context.Context, state string, candidates map[model.CountyKey]string) (int, error) {
	batch := make(map[model.CountyKey]string, len(candidates))
	for key, id := range candidates {
		if _, ok := d.store.Get(key); !ok {
			batch[key] = id
		}
	}
	if len(batch) == 0 {
		d.log.Info("no new counties for state", zap.String("state", state))
		return 0, nil
	}

	if d.verifier != nil {
		keys := make([]model.CountyKey, 0, len(batch))
		for key := range batch {
			keys = append(keys, key)
		}
		sort.Slice(keys, func(i, j int) bool { return keys[i].County < keys[j].County })
		sample := keys[:min(verifySampleSize, len(keys))]

		passed := 0
		for i, key := range sample {
			if d.verifier.Verify(ctx, key.County, key.StateUpper()) {
				passed++
			}
			if i < len(sample)-1 {
				if err := d.fetcher.Pause(ctx, d.verifyDelay); err != nil {
					return 0, eris.Wrap(err, "countyid: verification interrupted")
				}
			}
		}

		rate := float64(passed) / float64(len(sample))
		if rate < verifyThreshold {
			d.log.Warn("discarding discovered batch, verification sample failed",
				zap.String("state", state),
				zap.Int("sample", len(sample)), zap.Int("passed", passed))
			return 0, nil
		}
	}

	added := d.store.Merge(batch)
	if added > 0 {
		if err := d.store.Save(); err != nil {
			return added, eris.Wrap(err, "countyid: persist cache")
		}
	}
	d.log.Info("cached county identifiers",
		zap.String("state", state), zap.Int("added", added))
	return added, nil
}
