package countyid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freqscout/freqscout-cli/internal/render"
)

func TestMinePairs(t *testing.T) {
	page := `<script>var counties = [
		{"ctid": 1638, "name": "Sanders County"},
		{"ctid": 1639, "name": "Silver Bow County"},
		{"ctid": 12, "name": "Too Short County"},
		{"ctid": 1640, "name": "Not A Match"}];</script>`

	found := MinePairs(page)
	assert.Equal(t, "1638", found["sanders"])
	assert.Equal(t, "1639", found["silver bow"])
	assert.NotContains(t, found, "too short")
	assert.NotContains(t, found, "not a match")
}

func TestMineNearName(t *testing.T) {
	page := `<p>Welcome</p>
		<a href="/db/browse/ctid/1638">Sanders County</a>
		<div data-ctid="9999">Lincoln County</div>`

	ids := MineNearName(page, "Sanders")
	require.NotEmpty(t, ids)
	assert.Contains(t, ids, "1638")
	// The unrelated county's identifier is a candidate too; callers verify
	// candidates before trusting them.
	assert.Contains(t, ids, "9999")
}

func TestMineNearName_NoOccurrence(t *testing.T) {
	assert.Empty(t, MineNearName("<p>nothing here</p>", "Sanders"))
}

func TestMineAllIDs(t *testing.T) {
	page := `<a href="/db/browse/ctid/1638">x</a>
		<a href="?ctid=2974">y</a>
		<a href="/db/browse/ctid/1638">dup</a>
		<a href="/db/browse/ctid/12">too short</a>`

	ids := MineAllIDs(page)
	assert.Equal(t, []string{"1638", "2974"}, ids)
}

func TestExtractFromDocument_Select(t *testing.T) {
	doc := &render.Document{Selects: []render.Select{{
		Name: "ctid",
		Options: []render.Option{
			{Value: "", Text: "Select a county"},
			{Value: "0", Text: "All"},
			{Value: "1638", Text: "Sanders County"},
			{Value: "1639", Text: "Silver Bow"},
			{Value: "77", Text: "Statewide Trunked"},
		},
	}}}

	found := ExtractFromDocument(doc)
	assert.Equal(t, "1638", found["sanders"])
	assert.Equal(t, "1639", found["silver bow"])
	assert.Len(t, found, 2)
}

func TestExtractFromDocument_SelectSizedLikeCountyList(t *testing.T) {
	opts := []render.Option{
		{Value: "101", Text: "Anderson"},
		{Value: "102", Text: "Andrews"},
		{Value: "103", Text: "Angelina"},
	}
	doc := &render.Document{Selects: []render.Select{{Name: "items", Options: opts}}}

	found := ExtractFromDocument(doc)
	assert.Len(t, found, 3)
}

func TestExtractFromDocument_Anchors(t *testing.T) {
	doc := &render.Document{Anchors: []render.Anchor{
		{Href: "/db/browse/ctid/2974", Text: "King County"},
		{Href: "/db/browse/ctid/1", Text: "All Counties"},
		{Href: "/about", Text: "About"},
	}}

	found := ExtractFromDocument(doc)
	assert.Equal(t, map[string]string{"king": "2974"}, found)
}

func TestOptionMatchesCounty(t *testing.T) {
	assert.True(t, OptionMatchesCounty("Sanders County", "sanders"))
	assert.True(t, OptionMatchesCounty("San Luis Obispo County, CA", "San Luis Obispo"))
	assert.False(t, OptionMatchesCounty("Lincoln County", "Sanders"))
	// Short connective words are ignored when word-matching.
	assert.True(t, OptionMatchesCounty("City and Borough of Juneau", "Juneau"))
}
