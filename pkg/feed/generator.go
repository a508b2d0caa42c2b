// Package feed assembles RSS 2.0 documents from extracted article records and
// post-processes them for browser display.
package feed

import (
	"encoding/xml"
	"fmt"
	"time"

	"github.com/mmcdole/gofeed"

	"sitefeed/pkg/config"
	"sitefeed/pkg/scrape"
)

// article date strings come in a small set of textual forms; the first layout
// that parses wins, none parsing means the entry ships without a pubDate
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05",
	"January 2, 2006",
	"Jan 2, 2006",
}

// Generator creates RSS feeds from article records
type Generator struct{}

// NewGenerator creates a new feed generator
func NewGenerator() *Generator {
	return &Generator{}
}

// Generate builds a serialized RSS 2.0 document for one site. Channel
// metadata comes from the site config, one item per article in emission
// order. The output is parsed back before being returned, so a malformed
// document never reaches disk.
func (g *Generator) Generate(site config.Site, articles []scrape.Article) (string, error) {
	items := make([]*RSSItem, 0, len(articles))
	for _, article := range articles {
		items = append(items, g.convertItem(article))
	}

	doc := &RSS{
		Version: "2.0",
		Atom:    "http://www.w3.org/2005/Atom",
		Channel: &RSSChannel{
			Title:          site.Name,
			Link:           site.URL,
			Description:    site.Description,
			Language:       site.Language,
			ManagingEditor: managingEditor(site),
			AtomLink:       &AtomLink{Href: site.URL, Rel: "self", Type: "application/rss+xml"},
			LastBuildDate:  time.Now().Format(time.RFC1123Z),
			Items:          items,
		},
	}

	output, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal RSS: %w", err)
	}
	serialized := xml.Header + string(output)

	// round-trip check: whatever we emit must be consumable by feed readers
	if _, err := gofeed.NewParser().ParseString(serialized); err != nil {
		return "", fmt.Errorf("generated feed does not parse: %w", err)
	}

	return serialized, nil
}

// convertItem maps one article record to an RSS item. Link doubles as the
// guid. An unparsable date drops the pubDate, it never fails the item.
func (g *Generator) convertItem(article scrape.Article) *RSSItem {
	desc := article.Description
	if desc == "" {
		desc = article.Title
	}

	item := &RSSItem{
		Title:       article.Title,
		Link:        article.Link,
		GUID:        article.Link,
		Description: desc,
		Author:      article.Author,
	}
	if article.Category != "" {
		item.Categories = []string{article.Category}
	}
	if ts, ok := parseArticleDate(article.Date); ok {
		item.PubDate = ts.Format(time.RFC1123Z)
	}
	return item
}

// parseArticleDate tries the fixed layout chain over a textual date.
func parseArticleDate(date string) (time.Time, bool) {
	if date == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, date); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

func managingEditor(site config.Site) string {
	if site.Email == "" {
		return ""
	}
	return fmt.Sprintf("%s (%s)", site.Email, site.Name)
}
