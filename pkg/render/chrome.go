// Package render drives a headless browser to load javascript-heavy pages and
// hand back the fully rendered markup.
package render

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
)

// Renderer loads a page and returns its rendered HTML. The settle delay is
// applied after the page reports ready, letting client-side rendering finish
// before the markup is read.
type Renderer interface {
	Render(ctx context.Context, url string, settle time.Duration) (string, error)
}

// Browser renders pages with headless Chrome via chromedp. Each Render call
// gets its own browser instance; instances are not shared across concurrent
// navigations.
type Browser struct {
	navTimeout time.Duration
}

// NewBrowser creates a headless Chrome renderer. navTimeout bounds the whole
// navigate-settle-read sequence.
func NewBrowser(navTimeout time.Duration) *Browser {
	return &Browser{navTimeout: navTimeout}
}

// Render navigates to url, waits for document readiness plus the settle
// delay, and returns the rendered document markup. Launch, navigation and
// timeout errors are all returned to the caller; a stuck navigation surfaces
// as a context deadline error.
func (b *Browser) Render(ctx context.Context, url string, settle time.Duration) (string, error) {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, chromedp.DefaultExecAllocatorOptions[:]...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	browserCtx, cancelTimeout := context.WithTimeout(browserCtx, b.navTimeout)
	defer cancelTimeout()

	var rendered string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.Sleep(settle),
		chromedp.OuterHTML("html", &rendered),
	)
	if err != nil {
		return "", fmt.Errorf("render %s: %w", url, err)
	}
	return rendered, nil
}
