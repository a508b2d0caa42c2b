package scrape

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// site bases for absolutizing root-relative image urls on article pages
const (
	immichBase        = "https://immich.app"
	diarioDoMinhoBase = "https://www.diariodominho.pt"
)

// Meta carries best-effort metadata pulled from an article's own page. Empty
// fields mean "not found", never an error.
type Meta struct {
	Author string
	Image  string
}

type contentFunc func(doc *goquery.Document) (string, bool)
type metaFunc func(doc *goquery.Document) Meta

var contentExtractors = map[string]contentFunc{
	"immich":        immichContent,
	"diariodominho": diarioDoMinhoContent,
}

var metaExtractors = map[string]metaFunc{
	"immich":        immichMeta,
	"diariodominho": diarioDoMinhoMeta,
}

// HasEnricher reports whether a second-pass content extractor exists for the
// parser.
func HasEnricher(parser string) bool {
	_, ok := contentExtractors[parser]
	return ok
}

// ExtractContent pulls the main content region from an article page, cleaned
// for feed use. The per-site heuristic runs first; when it finds nothing the
// page goes through trafilatura as a generic fallback. ok=false means no
// content could be located, which callers treat as "keep the listing
// description".
func ExtractContent(parser, pageHTML string) (string, bool) {
	fn, ok := contentExtractors[parser]
	if !ok {
		return "", false
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		return "", false
	}

	if content, found := fn(doc); found {
		return content, true
	}

	return trafilaturaContent(pageHTML)
}

// ExtractMeta pulls author and featured image from an article page. Missing
// structure yields empty fields.
func ExtractMeta(parser, pageHTML string) Meta {
	fn, ok := metaExtractors[parser]
	if !ok {
		return Meta{}
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		return Meta{}
	}
	return fn(doc)
}

// immichContent walks up from the page h1 to its enclosing container, the
// structure Immich post pages use, with a semantic article/main fallback.
func immichContent(doc *goquery.Document) (string, bool) {
	if h1 := doc.Find("h1").First(); h1.Length() > 0 {
		if container := h1.Parent().Parent(); container.Length() > 0 {
			if raw, err := goquery.OuterHtml(container); err == nil && raw != "" {
				return Clean(raw), true
			}
		}
	}

	container := doc.Find("article").First()
	if container.Length() == 0 {
		container = doc.Find("main").First()
	}
	if container.Length() > 0 {
		if raw, err := goquery.OuterHtml(container); err == nil && raw != "" {
			return Clean(raw), true
		}
	}

	return "", false
}

func immichMeta(doc *goquery.Document) Meta {
	var meta Meta

	// byline convention: first paragraph starting with an em-dash
	doc.Find("p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
		text := strings.TrimSpace(p.Text())
		if strings.HasPrefix(text, "—") {
			meta.Author = strings.TrimSpace(strings.TrimPrefix(text, "—"))
			return false
		}
		return true
	})

	if h1 := doc.Find("h1").First(); h1.Length() > 0 {
		if container := h1.Parent().Parent(); container.Length() > 0 {
			if src, ok := container.Find("img").First().Attr("src"); ok && src != "" {
				if strings.HasPrefix(src, "/") {
					src = immichBase + src
				}
				meta.Image = src
			}
		}
	}

	return meta
}

// diarioDoMinhoContent prefers the semantic article element, then any
// div/section whose class mentions article or content.
func diarioDoMinhoContent(doc *goquery.Document) (string, bool) {
	container := doc.Find("article").First()
	if container.Length() == 0 {
		container = doc.Find("div,section").FilterFunction(func(_ int, sel *goquery.Selection) bool {
			class, _ := sel.Attr("class")
			class = strings.ToLower(class)
			return strings.Contains(class, "article") || strings.Contains(class, "content")
		}).First()
	}
	if container.Length() == 0 {
		return "", false
	}

	raw, err := goquery.OuterHtml(container)
	if err != nil || raw == "" {
		return "", false
	}
	return Clean(raw), true
}

func diarioDoMinhoMeta(doc *goquery.Document) Meta {
	var meta Meta

	author := doc.Find("span,div,p").FilterFunction(func(_ int, sel *goquery.Selection) bool {
		class, _ := sel.Attr("class")
		return strings.Contains(strings.ToLower(class), "author")
	}).First()
	if author.Length() > 0 {
		meta.Author = strings.TrimSpace(author.Text())
	}

	if article := doc.Find("article").First(); article.Length() > 0 {
		if src, ok := article.Find("img").First().Attr("src"); ok && src != "" {
			if strings.HasPrefix(src, "/") {
				src = diarioDoMinhoBase + src
			}
			meta.Image = src
		}
	}

	return meta
}

// trafilaturaContent is the generic last-resort extractor for article pages
// whose expected structure is absent.
func trafilaturaContent(pageHTML string) (string, bool) {
	result, err := trafilatura.Extract(strings.NewReader(pageHTML), trafilatura.Options{
		EnableFallback:  true,
		ExcludeComments: true,
	})
	if err != nil || result == nil {
		return "", false
	}

	if result.ContentNode != nil {
		var buf bytes.Buffer
		if err := html.Render(&buf, result.ContentNode); err == nil && buf.Len() > 0 {
			return Clean(buf.String()), true
		}
	}
	if text := strings.TrimSpace(result.ContentText); text != "" {
		return text, true
	}
	return "", false
}
