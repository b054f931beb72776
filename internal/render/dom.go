package render

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/rotisserie/eris"
)

// Document is the structural view of a rendered page that identifier
// discovery works against. Only the elements discovery cares about are
// extracted: the title, headings, select controls, anchors, and flat body
// text.
type Document struct {
	Title    string
	H1       []string
	BodyText string
	Selects  []Select
	Anchors  []Anchor
}

// Select is a form dropdown with its options in document order.
type Select struct {
	Name    string
	ID      string
	Options []Option
}

// Option is a single dropdown entry.
type Option struct {
	Value string
	Text  string
}

// Anchor is a hyperlink with its flattened link text.
type Anchor struct {
	Href string
	Text string
}

// ParseDocument parses page markup into its structural view. Malformed
// markup is tolerated the way browsers tolerate it; only a truly unparseable
// stream returns an error.
func ParseDocument(src string) (*Document, error) {
	root, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return nil, eris.Wrap(err, "render: parse document")
	}

	doc := &Document{}
	var body strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "title":
				doc.Title = strings.TrimSpace(flattenText(n))
				return
			case "h1":
				doc.H1 = append(doc.H1, strings.TrimSpace(flattenText(n)))
				return
			case "select":
				doc.Selects = append(doc.Selects, parseSelect(n))
				return
			case "a":
				doc.Anchors = append(doc.Anchors, Anchor{
					Href: attr(n, "href"),
					Text: strings.TrimSpace(flattenText(n)),
				})
				return
			case "script", "style":
				return
			}
		}
		if n.Type == html.TextNode {
			body.WriteString(n.Data)
			body.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	doc.BodyText = strings.Join(strings.Fields(body.String()), " ")
	return doc, nil
}

func parseSelect(n *html.Node) Select {
	sel := Select{Name: attr(n, "name"), ID: attr(n, "id")}
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "option" {
			sel.Options = append(sel.Options, Option{
				Value: attr(n, "value"),
				Text:  strings.TrimSpace(flattenText(n)),
			})
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}
	return sel
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func flattenText(n *html.Node) string {
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
