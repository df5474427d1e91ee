package extract

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

// Page is the readable content extracted from an HTML page.
type Page struct {
	Title string
	Text  string
	// Selector names the content root that matched ("article", "main",
	// ".content"), or is empty when the whole page was used.
	Selector string
}

// contentSelectors are tried in order; the first one present in the page
// becomes the content root.
var contentSelectors = []string{"article", "main", ".content"}

// FromHTML extracts readable text from HTML. It prefers the first <article>,
// then the first <main>, then the first element with the "content" class.
// The text of every text node under that root is trimmed and joined with
// newlines. When none of them exist, every visible text node of the page is
// used in document order.
func FromHTML(input []byte) Page {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(input))
	if err != nil || doc == nil {
		return Page{}
	}
	title := strings.TrimSpace(doc.Find("head > title").First().Text())

	for _, sel := range contentSelectors {
		match := doc.Find(sel).First()
		if match.Length() == 0 {
			continue
		}
		return Page{Title: title, Text: strippedText(match.Nodes[0]), Selector: sel}
	}

	root := doc.Find("body").First()
	if root.Length() == 0 {
		return Page{Title: title, Text: strippedText(doc.Get(0))}
	}
	return Page{Title: title, Text: strippedText(root.Nodes[0])}
}

// strippedText walks n in document order and joins every non-blank text
// node, trimmed at both ends, by newlines.
func strippedText(n *html.Node) string {
	if n == nil {
		return ""
	}
	lines := make([]string, 0, 64)
	var walk func(*html.Node)
	walk = func(cur *html.Node) {
		if cur.Type == html.ElementNode && isInvisible(cur) {
			return
		}
		if cur.Type == html.TextNode {
			if s := strings.TrimSpace(cur.Data); s != "" {
				lines = append(lines, s)
			}
			return
		}
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return norm.NFC.String(strings.Join(lines, "\n"))
}

func isInvisible(n *html.Node) bool {
	switch strings.ToLower(n.Data) {
	case "script", "style", "noscript", "template", "head":
		return true
	}
	return false
}
