package reference

import (
	"fmt"

	"github.com/freqscout/freqscout-cli/internal/model"
)

// NOAA returns the seven NOAA weather broadcast channels, 162.400 through
// 162.550 MHz in 25 kHz steps.
func NOAA() []model.FrequencyRecord {
	records := make([]model.FrequencyRecord, 0, 7)
	for i := 0; i < 7; i++ {
		freq := 162.400 + float64(i)*0.025
		records = append(records, model.FrequencyRecord{
			Location:     i,
			Name:         fmt.Sprintf("NOAA WX%d", i+1),
			Frequency:    fmt.Sprintf("%.4f", freq),
			Tone:         model.ToneNone,
			DtcsPolarity: "NN",
			Mode:         model.ModeFM,
			TStep:        model.TStepReference,
			Comment:      "NOAA Weather Radio",
		})
	}
	return records
}
