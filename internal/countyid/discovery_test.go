package countyid

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freqscout/freqscout-cli/internal/model"
)

// mockFetcher serves canned pages by URL and counts fetches per URL.
type mockFetcher struct {
	pages  map[string]string
	gets   map[string]int
	pauses int
}

func (m *mockFetcher) Get(_ context.Context, url string) (string, error) {
	if m.gets == nil {
		m.gets = make(map[string]int)
	}
	m.gets[url]++
	if body, ok := m.pages[url]; ok {
		return body, nil
	}
	return "", eris.Errorf("fetch: status 404 for %s", url)
}

func (m *mockFetcher) Pause(_ context.Context, _ time.Duration) error {
	m.pauses++
	return nil
}

// mockRenderer serves canned rendered markup by URL.
type mockRenderer struct {
	pages    map[string]string
	rendered []string
}

func (m *mockRenderer) Available() bool { return true }

func (m *mockRenderer) Render(_ context.Context, url string) (string, error) {
	m.rendered = append(m.rendered, url)
	if body, ok := m.pages[url]; ok {
		return body, nil
	}
	return "", eris.Errorf("render: render %s", url)
}

// mockVerifier approves or rejects every pair.
type mockVerifier struct {
	approve bool
	calls   int
}

func (m *mockVerifier) Verify(_ context.Context, _, _ string) bool {
	m.calls++
	return m.approve
}

// scriptedVerifier approves or rejects per county name.
type scriptedVerifier struct {
	approve map[string]bool
	calls   int
}

func (m *scriptedVerifier) Verify(_ context.Context, county, _ string) bool {
	m.calls++
	return m.approve[county]
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return Open(filepath.Join(t.TempDir(), "countyID.db"))
}

const montanaStaticPage = `<html><body><script>
var counties = [
  {"ctid": 1638, "name": "Sanders County"},
  {"ctid": 1640, "name": "Lincoln County"},
  {"ctid": 1629, "name": "Missoula County"}
];</script></body></html>`

func TestDiscoverState_StaticMining(t *testing.T) {
	fetcher := &mockFetcher{pages: map[string]string{
		"https://example.test/db/browse/stid/30": montanaStaticPage,
	}}
	verifier := &mockVerifier{approve: true}
	store := newTestStore(t)

	d := NewDiscoverer(fetcher, nil, verifier, store, "https://example.test/")
	added, err := d.DiscoverState(context.Background(), "mt")

	require.NoError(t, err)
	assert.Equal(t, 3, added)
	assert.Equal(t, 3, verifier.calls)

	id, ok := store.Get(model.NewCountyKey("Lincoln", "MT"))
	assert.True(t, ok)
	assert.Equal(t, "1640", id)
}

func TestDiscoverState_VerificationGateDiscardsBatch(t *testing.T) {
	fetcher := &mockFetcher{pages: map[string]string{
		"https://example.test/db/browse/stid/30": montanaStaticPage,
	}}
	verifier := &mockVerifier{approve: false}
	store := newTestStore(t)

	d := NewDiscoverer(fetcher, nil, verifier, store, "https://example.test")
	added, err := d.DiscoverState(context.Background(), "MT")

	require.NoError(t, err)
	assert.Equal(t, 0, added)
	assert.Equal(t, 0, store.Len())
}

const montanaFiveCountyPage = `<html><body><script>
var counties = [
  {"ctid": 1621, "name": "Beaverhead County"},
  {"ctid": 1623, "name": "Carbon County"},
  {"ctid": 1626, "name": "Flathead County"},
  {"ctid": 1627, "name": "Gallatin County"},
  {"ctid": 1640, "name": "Lincoln County"}
];</script></body></html>`

func TestDiscoverState_SampleAtThresholdAccepted(t *testing.T) {
	// 4 of 5 verified is exactly the acceptance threshold.
	fetcher := &mockFetcher{pages: map[string]string{
		"https://example.test/db/browse/stid/30": montanaFiveCountyPage,
	}}
	verifier := &scriptedVerifier{approve: map[string]bool{
		"beaverhead": true,
		"carbon":     true,
		"flathead":   true,
		"gallatin":   false,
		"lincoln":    true,
	}}
	store := newTestStore(t)

	d := NewDiscoverer(fetcher, nil, verifier, store, "https://example.test")
	added, err := d.DiscoverState(context.Background(), "MT")

	require.NoError(t, err)
	assert.Equal(t, 5, added)
	assert.Equal(t, 5, verifier.calls)
	assert.Equal(t, 5, store.CountForState("MT"))
}

func TestDiscoverState_SampleBelowThresholdDiscarded(t *testing.T) {
	// 3 of 5 verified discards the whole batch, including the counties
	// that individually passed.
	fetcher := &mockFetcher{pages: map[string]string{
		"https://example.test/db/browse/stid/30": montanaFiveCountyPage,
	}}
	verifier := &scriptedVerifier{approve: map[string]bool{
		"beaverhead": true,
		"carbon":     false,
		"flathead":   true,
		"gallatin":   false,
		"lincoln":    true,
	}}
	store := newTestStore(t)

	d := NewDiscoverer(fetcher, nil, verifier, store, "https://example.test")
	added, err := d.DiscoverState(context.Background(), "MT")

	require.NoError(t, err)
	assert.Equal(t, 0, added)
	assert.Equal(t, 5, verifier.calls)
	assert.Equal(t, 0, store.Len())
}

func TestDiscoverState_AlreadyCachedSkipsVerification(t *testing.T) {
	fetcher := &mockFetcher{pages: map[string]string{
		"https://example.test/db/browse/stid/30": montanaStaticPage,
	}}
	verifier := &mockVerifier{approve: true}
	store := newTestStore(t)
	store.Put(model.NewCountyKey("Sanders", "MT"), "1638")
	store.Put(model.NewCountyKey("Lincoln", "MT"), "1640")
	store.Put(model.NewCountyKey("Missoula", "MT"), "1629")

	d := NewDiscoverer(fetcher, nil, verifier, store, "https://example.test")
	added, err := d.DiscoverState(context.Background(), "MT")

	require.NoError(t, err)
	assert.Equal(t, 0, added)
	assert.Equal(t, 0, verifier.calls)
}

func TestDiscoverState_NothingFound(t *testing.T) {
	fetcher := &mockFetcher{pages: map[string]string{
		"https://example.test/db/browse/stid/30": `<html><body>empty</body></html>`,
	}}

	d := NewDiscoverer(fetcher, nil, nil, newTestStore(t), "https://example.test")
	_, err := d.DiscoverState(context.Background(), "MT")
	assert.Error(t, err)
}

const wrongStatePage = `<html><head>
<title>Wyoming Scanner Frequencies</title></head>
<body><h1>Wyoming</h1></body></html>`

const montanaRenderedPage = `<html><head>
<title>Montana Scanner Frequencies</title></head>
<body><h1>Montana</h1>
<select name="ctid">
  <option value="">Select a county</option>
  <option value="1638">Sanders</option>
  <option value="1640">Lincoln</option>
  <option value="1629">Missoula</option>
</select></body></html>`

func TestDiscoverState_RenderedWrongStateRetriesNearbyIdentifiers(t *testing.T) {
	fetcher := &mockFetcher{pages: map[string]string{}}
	renderer := &mockRenderer{pages: map[string]string{
		// Seeded identifier 30 serves the wrong state; 31 is correct.
		"https://example.test/db/browse/stid/30": wrongStatePage,
		"https://example.test/db/browse/stid/31": montanaRenderedPage,
	}}
	store := newTestStore(t)

	d := NewDiscoverer(fetcher, renderer, nil, store, "https://example.test")
	added, err := d.DiscoverState(context.Background(), "MT")

	require.NoError(t, err)
	assert.Equal(t, 3, added)
	assert.Contains(t, renderer.rendered, "https://example.test/db/browse/stid/31")

	id, ok := store.Get(model.NewCountyKey("Sanders", "MT"))
	assert.True(t, ok)
	assert.Equal(t, "1638", id)
}

func TestDiscoverState_RenderedMatchingState(t *testing.T) {
	renderer := &mockRenderer{pages: map[string]string{
		"https://example.test/db/browse/stid/30": montanaRenderedPage,
	}}
	store := newTestStore(t)

	d := NewDiscoverer(&mockFetcher{}, renderer, nil, store, "https://example.test")
	added, err := d.DiscoverState(context.Background(), "MT")

	require.NoError(t, err)
	assert.Equal(t, 3, added)
	assert.Len(t, renderer.rendered, 1)
}
