package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/scopecrawl/scopecrawl"
	"golang.org/x/net/html"
)

var _ scopecrawl.Extractor = (*Extractor)(nil)

// nonContentSelector matches elements whose text is never part of the page content.
const nonContentSelector = "script, style, noscript, meta, head, footer, nav"

// Extractor extracts a page's title and visible text.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the page title and its visible text.
// The title falls back to pageURL when the document has no title element.
func (e *Extractor) Extract(rawHTML string, pageURL string) (*scopecrawl.ExtractResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, scopecrawl.Errorf(scopecrawl.EPARSE, "failed to parse HTML: %v", err)
	}

	title := pageURL
	if sel := doc.Find("title").First(); sel.Length() > 0 {
		title = strings.TrimSpace(sel.Text())
	}

	doc.Find(nonContentSelector).Remove()

	return &scopecrawl.ExtractResult{
		Title: title,
		Text:  visibleText(doc.Selection),
	}, nil
}

// visibleText joins the trimmed, non-empty text nodes under sel with newlines.
func visibleText(sel *goquery.Selection) string {
	var parts []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if s := strings.TrimSpace(n.Data); s != "" {
				parts = append(parts, s)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return strings.Join(parts, "\n")
}
