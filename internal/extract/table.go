package extract

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/rotisserie/eris"
)

// tableRow is one data row pulled from a frequency table, keyed by the
// columns the extractor understands. Pages vary wildly in column order and
// naming, so rows are built through a fuzzy header match rather than fixed
// positions.
type tableRow struct {
	Frequency   string
	Tone        string
	AlphaTag    string
	Description string
	Mode        string
	Type        string
}

var freqValueRe = regexp.MustCompile(`(\d+\.\d+)`)

// parseFrequencyTables scans page markup for tables that carry a frequency
// column and returns their usable data rows. A table qualifies when any
// header cell mentions "freq" or "mhz"; a row qualifies when its frequency
// cell holds a decimal number.
func parseFrequencyTables(src string) ([]tableRow, error) {
	root, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return nil, eris.Wrap(err, "extract: parse page")
	}

	var out []tableRow
	for _, table := range findAll(root, "table") {
		rows := findAll(table, "tr")
		if len(rows) < 2 {
			continue
		}

		headers := cellTexts(rows[0])
		for i, h := range headers {
			headers[i] = strings.ToLower(h)
		}
		if !hasFrequencyHeader(headers) {
			continue
		}
		cols := mapColumns(headers)

		for _, row := range rows[1:] {
			cells := cellTexts(row)
			if len(cells) < 2 {
				continue
			}

			freqText := cellAt(cells, cols, "frequency")
			if freqText == "" {
				freqText = cells[0]
			}
			m := freqValueRe.FindStringSubmatch(freqText)
			if m == nil {
				continue
			}

			out = append(out, tableRow{
				Frequency:   m[1],
				Tone:        cellAt(cells, cols, "tone"),
				AlphaTag:    cellAt(cells, cols, "alpha_tag"),
				Description: cellAt(cells, cols, "description"),
				Mode:        cellAt(cells, cols, "mode"),
				Type:        cellAt(cells, cols, "type"),
			})
		}
	}
	return out, nil
}

func hasFrequencyHeader(headers []string) bool {
	for _, h := range headers {
		if strings.Contains(h, "freq") || strings.Contains(h, "mhz") {
			return true
		}
	}
	return false
}

// mapColumns assigns each understood field its column index. Later headers
// do not displace earlier matches for the same field.
func mapColumns(headers []string) map[string]int {
	cols := make(map[string]int)
	set := func(field string, idx int) {
		if _, ok := cols[field]; !ok {
			cols[field] = idx
		}
	}
	for idx, h := range headers {
		switch {
		case strings.Contains(h, "freq"):
			set("frequency", idx)
		case strings.Contains(h, "tone"):
			set("tone", idx)
		case strings.Contains(h, "alpha"), strings.Contains(h, "tag"):
			set("alpha_tag", idx)
		case strings.Contains(h, "desc"):
			set("description", idx)
		case strings.Contains(h, "mode"):
			set("mode", idx)
		case strings.Contains(h, "type"):
			set("type", idx)
		}
	}
	return cols
}

func cellAt(cells []string, cols map[string]int, field string) string {
	idx, ok := cols[field]
	if !ok || idx >= len(cells) {
		return ""
	}
	return cells[idx]
}

// cellTexts returns the trimmed text of each th/td cell in a row.
func cellTexts(row *html.Node) []string {
	var out []string
	for _, cell := range findAll(row, "th", "td") {
		out = append(out, strings.TrimSpace(collapseSpace(nodeText(cell))))
	}
	return out
}

// findAll returns descendant elements with any of the given tag names, in
// document order.
func findAll(n *html.Node, tags ...string) []*html.Node {
	var out []*html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			for _, tag := range tags {
				if n.Data == tag {
					out = append(out, n)
					break
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}
	return out
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
