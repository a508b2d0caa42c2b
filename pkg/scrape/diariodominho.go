package scrape

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	ddmURLDateRe  = regexp.MustCompile(`/(\d{4}-\d{2}-\d{2})-`)
	ddmCategoryRe = regexp.MustCompile(`/noticias/([^/]+)/`)
)

var titleCaser = cases.Title(language.Und)

// parseDiarioDoMinho extracts news articles from the Diário do Minho front
// page by scanning /noticias/ anchors. The same article is commonly reachable
// through several anchors (image, headline, teaser), so the first occurrence
// per resolved link wins.
func parseDiarioDoMinho(doc *goquery.Document, baseURL string) []Article {
	var articles []Article
	seen := map[string]bool{}

	doc.Find("a[href]").Each(func(_ int, anchor *goquery.Selection) {
		href, ok := anchor.Attr("href")
		if !ok || !strings.Contains(href, "/noticias/") {
			return
		}

		link := resolveURL(baseURL, href)
		if link == "" || !hasScheme(link) {
			return
		}
		if seen[link] {
			return
		}
		seen[link] = true

		// headline inside the anchor, the anchor's own text as fallback;
		// anything five characters or shorter is navigation noise
		title := ""
		if heading := anchor.Find("h1,h2,h3,h4,span").First(); heading.Length() > 0 {
			title = strings.TrimSpace(heading.Text())
		}
		if len(title) <= 5 {
			title = strings.TrimSpace(anchor.Text())
		}
		if len(title) <= 5 {
			return
		}

		date := ""
		if m := ddmURLDateRe.FindStringSubmatch(link); m != nil {
			date = m[1]
		}
		if date == "" {
			date = Today()
		}

		category := ""
		if m := ddmCategoryRe.FindStringSubmatch(link); m != nil {
			category = titleCaser.String(m[1])
		}

		desc := ""
		if p := anchor.Find("p").First(); p.Length() > 0 {
			desc = strings.TrimSpace(p.Text())
		}
		if desc == "" {
			desc = title
		}

		articles = append(articles, Article{
			Title:       title,
			Link:        link,
			Description: desc,
			Date:        date,
			Category:    category,
		})
	})

	return articles
}
