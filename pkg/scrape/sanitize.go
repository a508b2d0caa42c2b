package scrape

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

// structural chrome that never belongs in a feed description
var unwantedTags = []string{"nav", "header", "footer", "aside", "script", "style", "svg", "button", "form"}

// attributes surviving sanitization, everything else is stripped
var allowedAttrs = map[string]bool{"href": true, "src": true, "alt": true, "title": true, "class": true}

var (
	blankLinesRe = regexp.MustCompile(`\n\s*\n`)
	multiSpaceRe = regexp.MustCompile(`  +`)
)

// cleanPolicy enforces the attribute allow-list on whatever survives the
// structural pass. Element set covers common article content tags.
var cleanPolicy = func() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("a", "p", "div", "span", "img", "h1", "h2", "h3", "h4", "h5", "h6",
		"ul", "ol", "li", "strong", "em", "b", "i", "u", "small", "blockquote", "pre", "code",
		"table", "thead", "tbody", "tr", "td", "th", "figure", "figcaption", "br", "hr",
		"section", "article", "main", "time", "dl", "dt", "dd")
	p.AllowAttrs("href", "src", "alt", "title", "class").Globally()
	return p
}()

// Clean strips navigation chrome, comments and non-essential attributes from
// an HTML fragment and collapses excess whitespace. It is best-effort and
// never fails: when the fragment cannot be parsed the input is returned
// unmodified.
func Clean(fragment string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return fragment
	}

	// drop structural elements with their subtrees
	doc.Find(strings.Join(unwantedTags, ",")).Remove()

	// breadcrumb convention on scraped sites
	doc.Find(".muted").Remove()

	// short lists with links are navigation, not content
	doc.Find("ul,ol").Each(func(_ int, sel *goquery.Selection) {
		text := strings.Join(strings.Fields(sel.Text()), "")
		if len(text) < 100 && sel.Find("a").Length() > 0 {
			sel.Remove()
		}
	})

	// strip comment nodes and disallowed attributes on the parsed tree
	for _, root := range doc.Nodes {
		stripNodes(root)
	}

	cleaned, err := doc.Find("body").Html()
	if err != nil {
		return fragment
	}

	cleaned = cleanPolicy.Sanitize(cleaned)

	cleaned = blankLinesRe.ReplaceAllString(cleaned, "\n")
	cleaned = multiSpaceRe.ReplaceAllString(cleaned, " ")

	return cleaned
}

// stripNodes walks the node tree removing comments and non-allow-listed
// attributes in place.
func stripNodes(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.CommentNode {
			n.RemoveChild(c)
		} else {
			stripNodes(c)
		}
		c = next
	}

	if n.Type != html.ElementNode {
		return
	}
	kept := n.Attr[:0]
	for _, attr := range n.Attr {
		if allowedAttrs[attr.Key] {
			kept = append(kept, attr)
		}
	}
	n.Attr = kept
}
