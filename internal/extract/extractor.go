package extract

import (
	"strconv"

	"go.uber.org/zap"

	"github.com/freqscout/freqscout-cli/internal/model"
)

// Records extracts canonical frequency records from page markup. locality
// names the place the page covers and is used to synthesize comments for
// rows that carry no description of their own. Records are numbered in
// extraction order starting at zero; exporters renumber as needed.
func Records(page, locality string) ([]model.FrequencyRecord, error) {
	rows, err := parseFrequencyTables(page)
	if err != nil {
		return nil, err
	}

	records := make([]model.FrequencyRecord, 0, len(rows))
	for _, row := range rows {
		freqMHz, err := strconv.ParseFloat(row.Frequency, 64)
		if err != nil {
			// The table scan only admits decimal frequencies; anything
			// else here means the page is stranger than we handle.
			zap.L().Debug("dropping unparseable frequency", zap.String("value", row.Frequency))
			continue
		}

		toneType, rTone, cTone := parseTone(row.Tone)
		duplex, offset := inferDuplex(row.Type, freqMHz)

		name := row.AlphaTag
		if name == "" {
			name = row.Description
		}

		displayName := name
		if displayName == "" {
			displayName = "Frequency " + row.Frequency
		}

		comment := ""
		if name != "" {
			comment = row.Description
			if comment == "" {
				comment = locality + " - " + name
			}
		}

		records = append(records, model.FrequencyRecord{
			Location:     len(records),
			Name:         displayName,
			Frequency:    row.Frequency,
			Duplex:       duplex,
			Offset:       offset,
			Tone:         toneType,
			RToneFreq:    rTone,
			CToneFreq:    cTone,
			DtcsPolarity: "NN",
			Mode:         parseMode(row.Mode),
			TStep:        model.TStepScraped,
			Comment:      comment,
		})
	}
	return records, nil
}
