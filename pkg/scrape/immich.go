package scrape

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// parseImmich extracts posts from the Immich blog listing. Primary strategy
// finds article/div containers whose class mentions post or blog; when the
// listing yields nothing it falls back to scanning /blog/ anchors directly.
func parseImmich(doc *goquery.Document, baseURL string) []Article {
	containers := doc.Find("article,div").FilterFunction(func(_ int, sel *goquery.Selection) bool {
		class, _ := sel.Attr("class")
		class = strings.ToLower(class)
		return strings.Contains(class, "post") || strings.Contains(class, "blog")
	})

	if containers.Length() == 0 {
		containers = doc.Find("a").FilterFunction(func(_ int, sel *goquery.Selection) bool {
			href, ok := sel.Attr("href")
			return ok && strings.Contains(href, "/blog/") && href != "/blog" && href != "/blog/"
		})
	}

	var posts []Article
	seen := map[string]bool{}

	containers.Each(func(_ int, container *goquery.Selection) {
		var title string
		if heading := container.Find("h1,h2,h3,h4").First(); heading.Length() > 0 {
			title = strings.TrimSpace(heading.Text())
		} else if container.Is("a") {
			title = strings.TrimSpace(container.Text())
		} else {
			return
		}
		title = CleanTitle(title)

		linkElem := container
		if !container.Is("a") {
			linkElem = container.Find("a[href]").First()
		}
		href, ok := linkElem.Attr("href")
		if !ok {
			return
		}
		link := resolveURL(baseURL, href)

		if title == "" || link == "" || !hasScheme(link) {
			return
		}
		if seen[link] {
			return
		}
		seen[link] = true

		date := ExtractDate(container, href)
		if date == "" {
			date = Today()
		}

		desc := ""
		descElem := container.Find("p,div").FilterFunction(func(_ int, sel *goquery.Selection) bool {
			class, _ := sel.Attr("class")
			class = strings.ToLower(class)
			return strings.Contains(class, "excerpt") || strings.Contains(class, "description")
		}).First()
		if descElem.Length() > 0 {
			desc = strings.TrimSpace(descElem.Text())
		} else if p := container.Find("p").First(); p.Length() > 0 {
			desc = strings.TrimSpace(p.Text())
		}
		if desc == "" {
			desc = title
		}

		posts = append(posts, Article{
			Title:       title,
			Link:        link,
			Description: desc,
			Date:        date,
		})
	})

	return posts
}
