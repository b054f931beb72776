package pipeline

import (
	"strings"

	"github.com/freqscout/freqscout-cli/internal/model"
)

// digitalModes are the mode labels admitted by the digital band filter.
var digitalModes = map[string]bool{
	"DIGITAL": true,
	"DMR":     true,
	"P25":     true,
	"NXDN":    true,
	"D-STAR":  true,
	"C4FM":    true,
}

// Filter keeps records whose mode matches the requested band and renumbers
// the survivors. Well-known band names get purpose-built matching; anything
// else falls back to a loose bidirectional substring test so users can
// filter on raw mode labels.
func Filter(records []model.FrequencyRecord, band string) []model.FrequencyRecord {
	token := strings.ToUpper(strings.TrimSpace(band))
	if token == "" {
		return renumber(records)
	}

	kept := make([]model.FrequencyRecord, 0, len(records))
	for _, rec := range records {
		if matchesBand(strings.ToUpper(rec.Mode), token) {
			kept = append(kept, rec)
		}
	}
	return renumber(kept)
}

func matchesBand(mode, token string) bool {
	switch token {
	case "FM", "ANALOG":
		return mode == "FM" || mode == "AM" || mode == "" ||
			strings.Contains(mode, "FM") || strings.Contains(mode, "ANALOG")
	case "DIGITAL", "ENCRYPTED":
		return digitalModes[mode]
	case "DMR":
		return strings.Contains(mode, "DMR")
	case "P25":
		return strings.Contains(mode, "P25") || strings.Contains(mode, "DIGITAL")
	default:
		return strings.Contains(mode, token) || strings.Contains(token, mode)
	}
}
