package scrape

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ParseFunc extracts article records from one page. Implementations are pure
// over the parsed document and the page's base URL.
type ParseFunc func(doc *goquery.Document, baseURL string) []Article

// parser names match the site registry ids
var parsers = map[string]ParseFunc{
	"immich":                 parseImmich,
	"diariodominho":          parseDiarioDoMinho,
	"newalbumreleases_metal": parseMetalReleases,
}

// Get returns the parser registered under name.
func Get(name string) (ParseFunc, bool) {
	p, ok := parsers[name]
	return p, ok
}

// Names lists registered parser names, sorted.
func Names() []string {
	names := make([]string, 0, len(parsers))
	for name := range parsers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Parse runs the named parser over raw HTML.
func Parse(name, htmlContent, baseURL string) ([]Article, error) {
	p, ok := parsers[name]
	if !ok {
		return nil, fmt.Errorf("unknown parser %q", name)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return p(doc, baseURL), nil
}

// resolveURL makes href absolute against base. Empty result means the href is
// unusable and the candidate should be skipped.
func resolveURL(base, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return baseURL.ResolveReference(ref).String()
}

// hasScheme reports whether a link is absolute, the emit requirement for
// every record.
func hasScheme(link string) bool {
	return strings.HasPrefix(link, "http://") || strings.HasPrefix(link, "https://")
}
