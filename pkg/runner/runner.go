// Package runner orchestrates the per-site pipeline: render the listing page,
// parse it into articles, optionally enrich each article from its own page,
// assemble the feed and publish it. Sites are processed strictly one after
// another and never share state; one site failing is logged and does not stop
// the run.
package runner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-pkgz/lgr"

	"sitefeed/pkg/config"
	"sitefeed/pkg/feed"
	"sitefeed/pkg/scrape"
)

// Renderer loads a page through the headless browser.
type Renderer interface {
	Render(ctx context.Context, url string, settle time.Duration) (string, error)
}

// Uploader publishes a local feed file to object storage.
type Uploader interface {
	Upload(ctx context.Context, filePath, bucket, objectName string) error
}

// Generator assembles the serialized feed document.
type Generator interface {
	Generate(site config.Site, articles []scrape.Article) (string, error)
}

// Config holds runner dependencies and settings. Uploader may be nil, which
// skips the publish step.
type Config struct {
	Renderer  Renderer
	Uploader  Uploader
	Generator Generator
	OutputDir string
	Bucket    string
	Enrich    bool
}

// Runner processes sites through the scrape-assemble-publish pipeline.
type Runner struct {
	renderer  Renderer
	uploader  Uploader
	generator Generator
	outputDir string
	bucket    string
	enrich    bool
}

// New creates a runner with the provided configuration.
func New(cfg Config) *Runner {
	return &Runner{
		renderer:  cfg.Renderer,
		uploader:  cfg.Uploader,
		generator: cfg.Generator,
		outputDir: cfg.OutputDir,
		bucket:    cfg.Bucket,
		enrich:    cfg.Enrich,
	}
}

// ProcessAll runs every site sequentially and returns the number of sites
// that produced a feed. Per-site failures are logged, not propagated.
func (r *Runner) ProcessAll(ctx context.Context, sites []config.Site) int {
	succeeded := 0
	for _, site := range sites {
		if ctx.Err() != nil {
			lgr.Printf("[WARN] run canceled, %d sites left", len(sites)-succeeded)
			break
		}
		if err := r.ProcessSite(ctx, site); err != nil {
			lgr.Printf("[ERROR] site %s failed: %v", site.ID, err)
			continue
		}
		succeeded++
	}
	return succeeded
}

// ProcessSite runs the full pipeline for one site. A fetch failure aborts the
// site with no feed written; downstream extraction problems degrade to
// defaults instead of failing.
func (r *Runner) ProcessSite(ctx context.Context, site config.Site) error {
	lgr.Printf("[INFO] processing site %s (%s)", site.ID, site.URL)

	pageHTML, err := r.renderer.Render(ctx, site.URL, site.WaitTime)
	if err != nil {
		return fmt.Errorf("fetch page: %w", err)
	}

	articles, err := scrape.Parse(site.Parser, pageHTML, site.URL)
	if err != nil {
		return fmt.Errorf("parse page: %w", err)
	}
	if len(articles) == 0 {
		lgr.Printf("[WARN] site %s: no articles extracted", site.ID)
	}
	if len(articles) > site.MaxArticles {
		articles = articles[:site.MaxArticles]
	}

	if r.enrich && scrape.HasEnricher(site.Parser) {
		r.enrichArticles(ctx, site, articles)
	}

	serialized, err := r.generator.Generate(site, articles)
	if err != nil {
		return fmt.Errorf("assemble feed: %w", err)
	}

	if err := os.MkdirAll(r.outputDir, 0o755); err != nil { //nolint:gosec // output dir is public
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := feed.WriteStylesheet(r.outputDir); err != nil {
		lgr.Printf("[WARN] site %s: %v", site.ID, err)
	}
	path := filepath.Join(r.outputDir, site.OutputFile)
	if err := feed.Write(path, serialized); err != nil {
		return err
	}
	if err := feed.InjectStylesheet(path); err != nil {
		lgr.Printf("[WARN] site %s: stylesheet injection failed: %v", site.ID, err)
	}
	lgr.Printf("[INFO] site %s: wrote %d articles to %s", site.ID, len(articles), path)

	// the local file is the artifact; a failed upload is logged, not fatal
	if r.uploader != nil {
		if err := r.uploader.Upload(ctx, path, r.bucket, site.OutputFile); err != nil {
			lgr.Printf("[WARN] site %s: upload failed: %v", site.ID, err)
		} else {
			lgr.Printf("[INFO] site %s: uploaded %s to bucket %s", site.ID, site.OutputFile, r.bucket)
		}
	}

	return nil
}

// enrichArticles re-fetches each article's own page and replaces the listing
// description with extracted full content plus author/image metadata. Every
// step is best-effort: a failed article keeps its listing data.
func (r *Runner) enrichArticles(ctx context.Context, site config.Site, articles []scrape.Article) {
	for i := range articles {
		if ctx.Err() != nil {
			return
		}
		article := &articles[i]

		pageHTML, err := r.renderer.Render(ctx, article.Link, site.WaitTime)
		if err != nil {
			lgr.Printf("[WARN] site %s: fetch article %s: %v", site.ID, article.Link, err)
			continue
		}

		if content, ok := scrape.ExtractContent(site.Parser, pageHTML); ok {
			article.Description = content
		}

		meta := scrape.ExtractMeta(site.Parser, pageHTML)
		if meta.Author != "" {
			article.Author = meta.Author
		}
		if meta.Image != "" && article.Image == "" {
			article.Image = meta.Image
			article.Description = fmt.Sprintf(`<p><img src=%q alt=%q /></p>%s`,
				meta.Image, article.Title, article.Description)
		}
	}
}
