// Package reference generates fixed, well-known channel tables that need no
// scraping: the shared FRS/GMRS allocation and the NOAA weather broadcast
// channels.
package reference

import (
	"fmt"

	"github.com/freqscout/freqscout-cli/internal/model"
)

// gmrsChannel is one entry of the FRS/GMRS allocation.
type gmrsChannel struct {
	freq    float64
	service string
}

// The 22-channel FRS/GMRS plan: 1-7 are shared interstitials, 8-14 are the
// FRS-only low-power channels, 15-22 are the GMRS main channels.
var gmrsChannels = buildGMRSPlan()

func buildGMRSPlan() []gmrsChannel {
	plan := make([]gmrsChannel, 0, 22)
	for i := 0; i < 7; i++ {
		plan = append(plan, gmrsChannel{462.5625 + float64(i)*0.025, "FRS/GMRS shared"})
	}
	for i := 0; i < 7; i++ {
		plan = append(plan, gmrsChannel{467.5625 + float64(i)*0.025, "FRS only, 0.5W"})
	}
	for i := 0; i < 8; i++ {
		plan = append(plan, gmrsChannel{462.550 + float64(i)*0.025, "GMRS main"})
	}
	return plan
}

// GMRS returns the 22-channel FRS/GMRS table as canonical records.
func GMRS() []model.FrequencyRecord {
	records := make([]model.FrequencyRecord, 0, len(gmrsChannels))
	for i, ch := range gmrsChannels {
		records = append(records, model.FrequencyRecord{
			Location:     i,
			Name:         fmt.Sprintf("GMRS %d", i+1),
			Frequency:    fmt.Sprintf("%.4f", ch.freq),
			Tone:         model.ToneNone,
			DtcsPolarity: "NN",
			Mode:         model.ModeFM,
			TStep:        model.TStepReference,
			Comment:      fmt.Sprintf("Channel %d - %s", i+1, ch.service),
		})
	}
	return records
}
