package countyid

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/freqscout/freqscout-cli/internal/model"
)

func TestStateIDs(t *testing.T) {
	id, ok := QueryStateID("wa")
	assert.True(t, ok)
	assert.Equal(t, "47", id)

	id, ok = DropdownStateID("WA")
	assert.True(t, ok)
	assert.Equal(t, "53", id)

	// The two numbering schemes diverge after AK.
	qID, _ := QueryStateID("AZ")
	dID, _ := DropdownStateID("AZ")
	assert.Equal(t, "3", qID)
	assert.Equal(t, "4", dID)

	_, ok = QueryStateID("PR")
	assert.False(t, ok)
}

func TestAllStates(t *testing.T) {
	states := AllStates()
	assert.Len(t, states, 51)
	assert.Equal(t, "AK", states[0])
	assert.Equal(t, "WY", states[50])
	assert.Contains(t, states, "DC")
}

func TestKnownID(t *testing.T) {
	id, ok := KnownID(model.NewCountyKey("Sanders County", "MT"))
	assert.True(t, ok)
	assert.Equal(t, "1638", id)

	_, ok = KnownID(model.NewCountyKey("pierce", "wa"))
	assert.False(t, ok)
}

func TestKnownCounties(t *testing.T) {
	ca := KnownCounties("ca")
	assert.Len(t, ca, 58)
	assert.Equal(t, "Alameda", ca[0])
	assert.Equal(t, "Yuba", ca[57])

	tx := KnownCounties("TX")
	assert.Len(t, tx, 254)

	assert.Nil(t, KnownCounties("MT"))
}

func TestDetectState(t *testing.T) {
	assert.Equal(t, "MT", DetectState("Sanders County, Montana Scanner Frequencies"))
	assert.Equal(t, "WV", DetectState("somewhere in west virginia"))
	assert.Equal(t, "", DetectState("no state here"))
}
