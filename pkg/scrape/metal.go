package scrape

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// labeled lines found in a release entry, in presentation order
var releaseLabels = []string{"Artist", "Album", "Released", "Style", "Format", "Size"}

var releaseLabelRes = func() map[string]*regexp.Regexp {
	res := make(map[string]*regexp.Regexp, len(releaseLabels))
	for _, label := range releaseLabels {
		res[label] = regexp.MustCompile(label + `:\s*([^\n]+)`)
	}
	return res
}()

// clock spans render dates as " On September - 29 - 2025"
var clockDateRe = regexp.MustCompile(`On\s+(January|February|March|April|May|June|July|August|September|October|November|December)\s+-\s+(\d{1,2})\s+-\s+(\d{4})`)

// parseMetalReleases extracts album entries from the NewAlbumReleases metal
// category, a structured listing page. Each div.single block carries the
// title link in h2, the posting date in a clock span and a free-text entry
// body with one labeled line per release attribute.
func parseMetalReleases(doc *goquery.Document, baseURL string) []Article {
	var albums []Article
	seen := map[string]bool{}

	doc.Find("div.single").Each(func(_ int, single *goquery.Selection) {
		linkElem := single.Find("h2").First().Find("a[href]").First()
		if linkElem.Length() == 0 {
			return
		}

		title := strings.TrimSpace(linkElem.Text())
		href, _ := linkElem.Attr("href")
		link := resolveURL(baseURL, href)
		if title == "" || link == "" || !hasScheme(link) {
			return
		}
		if seen[link] {
			return
		}
		seen[link] = true

		album := Article{Title: title, Link: link, Date: clockDate(single)}

		entry := single.Find("div.entry").First()
		if entry.Length() == 0 {
			album.Description = album.Title
			albums = append(albums, album)
			return
		}

		if src, ok := entry.Find("img").First().Attr("src"); ok && src != "" {
			album.Image = src
		}

		entryText := entry.Text()
		for _, label := range releaseLabels {
			if m := releaseLabelRes[label].FindStringSubmatch(entryText); m != nil {
				album.Fields = append(album.Fields, Field{Label: label, Value: strings.TrimSpace(m[1])})
			}
		}

		album.Description = releaseDescription(&album)
		albums = append(albums, album)
	})

	return albums
}

// clockDate reads the posting date from the clock span, normalized to
// YYYY-MM-DD, falling back to today.
func clockDate(single *goquery.Selection) string {
	clock := single.Find("div.date").First().Find("span.clock").First()
	if clock.Length() > 0 {
		if m := clockDateRe.FindStringSubmatch(strings.TrimSpace(clock.Text())); m != nil {
			month := monthNumbers[m[1]]
			day := m[2]
			if len(day) == 1 {
				day = "0" + day
			}
			return m[3] + "-" + month + "-" + day
		}
	}
	return Today()
}

// releaseDescription builds the generated HTML description: cover image when
// present, then a labeled list of release details.
func releaseDescription(album *Article) string {
	var b strings.Builder
	if album.Image != "" {
		fmt.Fprintf(&b, `<p><img src=%q alt="Album cover" /></p>`, album.Image)
	}
	b.WriteString("<p><strong>Album Details:</strong></p>")
	b.WriteString("<ul>")
	for _, f := range album.Fields {
		fmt.Fprintf(&b, "<li><strong>%s:</strong> %s</li>", f.Label, html.EscapeString(f.Value))
	}
	b.WriteString("</ul>")
	return b.String()
}
