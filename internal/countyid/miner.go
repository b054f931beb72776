package countyid

import (
	"regexp"
	"strings"

	"github.com/freqscout/freqscout-cli/internal/model"
	"github.com/freqscout/freqscout-cli/internal/render"
)

// The source site embeds county identifiers in several shapes depending on
// which page variant is served: JSON-ish script blobs, option values, and
// plain ctid links. The miner pulls candidates out of all of them; callers
// decide which candidates to trust.

var (
	// id/name pairs inside script data, e.g. {"ctid": 1638, "name": "Sanders County"}.
	pairRe = regexp.MustCompile(`(?is)ctid["']?\s*[:=]\s*["']?(\d+)["']?[^}]*?name["']?\s*[:=]\s*["']([^"']+county[^"']*)`)

	// Identifier shapes tried near a county-name occurrence, in order of
	// how specific they are.
	nearbyRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)ctid["']?\s*[:=]\s*["']?(\d+)`),
		regexp.MustCompile(`(?i)ctid[/=](\d+)`),
		regexp.MustCompile(`(?i)["']id["']\s*:\s*["']?(\d+)`),
		regexp.MustCompile(`(?i)id["']?\s*:\s*["']?(\d+)`),
		regexp.MustCompile(`(?i)value["']?\s*:\s*["']?(\d+)`),
	}

	// Last-resort sweep of every ctid-shaped number on the page.
	sweepRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)ctid[=/:](\d{3,5})`),
		regexp.MustCompile(`(?i)/db/browse/ctid/(\d{3,5})`),
	}

	digitsRe   = regexp.MustCompile(`^\d+$`)
	anchorIDRe = regexp.MustCompile(`ctid[/=](\d+)`)
)

const nameWindow = 2000

// Placeholder and non-county entries that show up in dropdowns and link
// lists alongside real counties.
var skipOptionTexts = []string{
	"all", "select", "choose", "trs", "agency", "department", "statewide", "nationwide",
}

// MinePairs extracts explicit identifier/name pairs from script data on a
// page. Keys are normalized county names.
func MinePairs(page string) map[string]string {
	found := make(map[string]string)
	for _, m := range pairRe.FindAllStringSubmatch(page, -1) {
		id, name := m[1], model.NormalizeCounty(m[2])
		if name == "" || !plausibleID(id) {
			continue
		}
		if _, ok := found[name]; !ok {
			found[name] = id
		}
	}
	return found
}

// MineNearName returns candidate identifiers found close to occurrences of
// "<county> county" in the page, most specific shapes first.
func MineNearName(page, county string) []string {
	lower := strings.ToLower(page)
	needle := strings.ToLower(county) + " county"

	var out []string
	seen := make(map[string]bool)
	for start := 0; ; {
		idx := strings.Index(lower[start:], needle)
		if idx < 0 {
			break
		}
		idx += start
		lo := max(0, idx-nameWindow)
		hi := min(len(page), idx+len(needle)+nameWindow)
		window := page[lo:hi]

		for _, re := range nearbyRes {
			for _, m := range re.FindAllStringSubmatch(window, -1) {
				id := m[1]
				if plausibleID(id) && !seen[id] {
					seen[id] = true
					out = append(out, id)
				}
			}
		}
		start = idx + len(needle)
	}
	return out
}

// MineAllIDs sweeps the page for every ctid-shaped identifier, in document
// order without duplicates.
func MineAllIDs(page string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, re := range sweepRes {
		for _, m := range re.FindAllStringSubmatch(page, -1) {
			if !seen[m[1]] {
				seen[m[1]] = true
				out = append(out, m[1])
			}
		}
	}
	return out
}

// ExtractFromDocument pulls county name/identifier pairs out of a rendered
// page's structure: county dropdowns first, then ctid anchors. Keys are
// normalized county names.
func ExtractFromDocument(doc *render.Document) map[string]string {
	found := make(map[string]string)

	for _, sel := range doc.Selects {
		if !countySelect(sel) {
			continue
		}
		for _, opt := range sel.Options {
			name := model.NormalizeCounty(opt.Text)
			if skipOption(opt.Text) || !numericID(opt.Value) {
				continue
			}
			if _, ok := found[name]; !ok {
				found[name] = opt.Value
			}
		}
	}

	for _, a := range doc.Anchors {
		if !strings.Contains(a.Href, "ctid") {
			continue
		}
		m := anchorIDRe.FindStringSubmatch(a.Href)
		if m == nil || skipOption(a.Text) {
			continue
		}
		name := model.NormalizeCounty(a.Text)
		if _, ok := found[name]; !ok {
			found[name] = m[1]
		}
	}

	return found
}

// countySelect decides whether a dropdown plausibly lists counties: either
// its name says so, or it has a county-list-sized option count.
func countySelect(sel render.Select) bool {
	name := strings.ToLower(sel.Name + " " + sel.ID)
	if strings.Contains(name, "ctid") || strings.Contains(name, "county") {
		return true
	}
	return len(sel.Options) >= 3 && len(sel.Options) < 500
}

// OptionMatchesCounty reports whether a dropdown option's text refers to
// the wanted county: the cleaned name appears as a substring, or every
// significant word of it appears.
func OptionMatchesCounty(text, county string) bool {
	optText := strings.ToLower(text)
	clean := model.NormalizeCounty(county)
	if clean == "" {
		return false
	}
	if strings.Contains(optText, clean) {
		return true
	}
	for _, word := range strings.Fields(clean) {
		if len(word) <= 2 {
			continue
		}
		if !strings.Contains(optText, word) {
			return false
		}
	}
	return true
}

func skipOption(text string) bool {
	t := strings.ToLower(strings.TrimSpace(text))
	if len(t) < 2 {
		return true
	}
	for _, skip := range skipOptionTexts {
		if strings.Contains(t, skip) {
			return true
		}
	}
	return false
}

func numericID(v string) bool {
	return len(v) >= 2 && digitsRe.MatchString(v)
}

func plausibleID(id string) bool {
	return len(id) >= 3 && len(id) <= 5 && digitsRe.MatchString(id)
}
