package reference

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGMRS(t *testing.T) {
	records := GMRS()
	require.Len(t, records, 22)

	assert.Equal(t, "462.5625", records[0].Frequency)
	assert.Equal(t, "GMRS 1", records[0].Name)
	assert.Equal(t, "467.7125", records[13].Frequency)
	assert.Equal(t, "462.5500", records[14].Frequency)
	assert.Equal(t, "462.7250", records[21].Frequency)

	for i, rec := range records {
		assert.Equal(t, i, rec.Location)
		assert.Equal(t, "FM", rec.Mode)
		assert.Equal(t, "5.00", rec.TStep)
	}
}

func TestNOAA(t *testing.T) {
	records := NOAA()
	require.Len(t, records, 7)

	assert.Equal(t, "162.4000", records[0].Frequency)
	assert.Equal(t, "162.5500", records[6].Frequency)

	for i, rec := range records {
		assert.Equal(t, i, rec.Location)
		assert.Equal(t, "NOAA Weather Radio", rec.Comment)
		mhz, ok := rec.FrequencyMHz()
		require.True(t, ok)
		assert.InDelta(t, 162.400+float64(i)*0.025, mhz, 1e-9)
	}
}
