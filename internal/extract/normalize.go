package extract

import (
	"regexp"
	"strings"

	"github.com/freqscout/freqscout-cli/internal/model"
)

var (
	toneValueRe = regexp.MustCompile(`(\d+\.?\d*)`)
	dcsCodeRe   = regexp.MustCompile(`(\d+)`)
)

// parseTone classifies a tone cell into its squelch type and tone value.
// The value lands in both the repeater and carrier tone fields; programming
// software picks the one the squelch type calls for.
func parseTone(text string) (toneType, rTone, cTone string) {
	if text == "" {
		return model.ToneNone, "", ""
	}
	upper := strings.ToUpper(strings.TrimSpace(text))

	if m := toneValueRe.FindStringSubmatch(upper); m != nil {
		if strings.Contains(upper, "DCS") || strings.Contains(upper, "DTCS") {
			return model.ToneDTCS, m[1], m[1]
		}
		return model.ToneCTCSS, m[1], m[1]
	}

	if strings.Contains(upper, "DCS") || strings.Contains(upper, "DTCS") {
		if m := dcsCodeRe.FindStringSubmatch(upper); m != nil {
			return model.ToneDTCS, m[1], m[1]
		}
	}

	return model.ToneNone, "", ""
}

// parseMode maps a mode cell onto the canonical mode set. P25 and other
// unrecognized digital voice collapse to Digital; anything unidentified is
// treated as FM.
func parseMode(text string) string {
	upper := strings.ToUpper(strings.TrimSpace(text))
	switch {
	case strings.Contains(upper, "P25"), strings.Contains(upper, "DIGITAL"):
		return model.ModeDigital
	case strings.Contains(upper, "DMR"):
		return model.ModeDMR
	case strings.Contains(upper, "NXDN"):
		return model.ModeNXDN
	default:
		return model.ModeFM
	}
}

// inferDuplex derives repeater duplex and offset from a usage-type cell and
// the carrier frequency. Only rows marked as repeaters get an offset, using
// the band's conventional split; base and mobile rows stay simplex.
func inferDuplex(typeText string, freqMHz float64) (duplex, offset string) {
	upper := strings.ToUpper(strings.TrimSpace(typeText))
	if !strings.Contains(upper, "RM") && !strings.Contains(upper, "REPEATER") {
		return "", ""
	}
	switch {
	case freqMHz >= 144 && freqMHz <= 148:
		return model.DuplexPlus, "0.6"
	case freqMHz >= 440 && freqMHz <= 450:
		return model.DuplexPlus, "5.0"
	case freqMHz >= 150 && freqMHz <= 160:
		return model.DuplexPlus, "0.0"
	default:
		return "", ""
	}
}
