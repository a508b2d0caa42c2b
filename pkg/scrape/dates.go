package scrape

import (
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

var (
	fullMonthRe = regexp.MustCompile(`(January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2},\s+\d{4}`)
	abbrMonthRe = regexp.MustCompile(`(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\s+\d{1,2},\s+\d{4}`)

	// listing titles carry trailing date-and-author noise, e.g.
	// "My PostDecember 30, 2023 — Jane Doe"
	fullMonthSuffixRe = regexp.MustCompile(`(January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2},\s+\d{4}.*$`)
	abbrMonthSuffixRe = regexp.MustCompile(`(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\s+\d{1,2},\s+\d{4}.*$`)
	authorSuffixRe    = regexp.MustCompile(`—\s*.*$`)

	urlDateRe = regexp.MustCompile(`/(\d{4})-(\d{2})-(\d{2})`)
)

var monthNumbers = map[string]string{
	"January": "01", "February": "02", "March": "03", "April": "04",
	"May": "05", "June": "06", "July": "07", "August": "08",
	"September": "09", "October": "10", "November": "11", "December": "12",
}

// CleanTitle strips trailing date phrases and em-dash author suffixes from a
// heading text.
func CleanTitle(title string) string {
	title = fullMonthSuffixRe.ReplaceAllString(title, "")
	title = abbrMonthSuffixRe.ReplaceAllString(title, "")
	title = authorSuffixRe.ReplaceAllString(title, "")
	return strings.TrimSpace(title)
}

// ExtractDate runs the date fallback chain over an article container and its
// link: machine-readable time element, date-classed element, URL-embedded
// date, free-text date phrase. Returns "" when every strategy fails; callers
// substitute the current date. The ordering is deliberate (structured sources
// before free-text) and observable, do not reorder.
func ExtractDate(container *goquery.Selection, href string) string {
	// 1: time element with a machine-readable datetime
	if dt, ok := container.Find("time").First().Attr("datetime"); ok && dt != "" {
		return dt
	}

	// 2: any element whose class mentions a date, attribute preferred over text
	date := ""
	container.Find("time,span,div").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		class, _ := sel.Attr("class")
		if !strings.Contains(strings.ToLower(class), "date") {
			return true
		}
		if dt, ok := sel.Attr("datetime"); ok && dt != "" {
			date = dt
			return false
		}
		if text := strings.TrimSpace(sel.Text()); text != "" {
			date = text
			return false
		}
		return true
	})
	if date != "" {
		return date
	}

	// 3: year-month-day embedded in the URL path, e.g. /2023-12-30-title
	if m := urlDateRe.FindStringSubmatch(href); m != nil {
		return m[1] + "-" + m[2] + "-" + m[3]
	}

	// 4: free-text date phrase anywhere in the container
	text := container.Text()
	if m := fullMonthRe.FindString(text); m != "" {
		return m
	}
	if m := abbrMonthRe.FindString(text); m != "" {
		return m
	}

	return ""
}

// Today returns the current date in the canonical YYYY-MM-DD form, the
// fallback when no date is found.
func Today() string {
	return time.Now().Format("2006-01-02")
}
