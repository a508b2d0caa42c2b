package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"

	"sitefeed/pkg/config"
	"sitefeed/pkg/feed"
	"sitefeed/pkg/render"
	"sitefeed/pkg/runner"
	"sitefeed/pkg/scrape"
	"sitefeed/pkg/storage"
)

// Opts with all CLI options
type Opts struct {
	Config   string   `short:"c" long:"config" env:"SITEFEED_CONFIG" description:"config file (built-in registry when omitted)"`
	Sites    []string `short:"s" long:"site" description:"site id to process, repeatable (all sites when omitted)"`
	Output   string   `short:"o" long:"output" env:"SITEFEED_OUTPUT" description:"output directory override"`
	NoUpload bool     `long:"no-upload" description:"skip object storage upload"`
	List     bool     `long:"list" description:"list configured sites and exit"`

	// Common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

var revision = "unknown"

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	setupLog(opts.Debug, opts.NoColor)

	cfg, err := loadConfig(opts)
	if err != nil {
		log.Printf("[ERROR] %v", err)
		os.Exit(1)
	}

	if opts.List {
		listSites(cfg)
		os.Exit(0)
	}

	sites, err := selectSites(cfg, opts.Sites)
	if err != nil {
		log.Printf("[ERROR] %v", err)
		os.Exit(1)
	}

	log.Printf("[INFO] starting sitefeed version %s, %d site(s)", revision, len(sites))

	ctx, cancel := context.WithCancel(context.Background())

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Print("[INFO] termination signal received")
		cancel()
	}()

	run := runner.New(runner.Config{
		Renderer:  render.NewBrowser(cfg.Browser.NavTimeout),
		Uploader:  makeUploader(ctx, cfg, opts.NoUpload),
		Generator: feed.NewGenerator(),
		OutputDir: cfg.OutputDir,
		Bucket:    cfg.Upload.Bucket,
		Enrich:    cfg.Extract.Enabled,
	})

	succeeded := run.ProcessAll(ctx, sites)
	cancel()

	if succeeded == 0 {
		log.Printf("[ERROR] no site produced a feed")
		os.Exit(1)
	}
	log.Printf("[INFO] done, %d of %d site(s) succeeded", succeeded, len(sites))
}

func loadConfig(opts Opts) (*config.Config, error) {
	cfg := config.Default()
	if opts.Config != "" {
		loaded, err := config.Load(opts.Config)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}
	if opts.Output != "" {
		cfg.OutputDir = opts.Output
	}
	return cfg, nil
}

// selectSites resolves requested site ids against the registry, all sites
// when none requested. Unknown ids and unknown parsers are config mistakes
// reported up front rather than mid-run.
func selectSites(cfg *config.Config, ids []string) ([]config.Site, error) {
	sites := cfg.Sites
	if len(ids) > 0 {
		sites = make([]config.Site, 0, len(ids))
		for _, id := range ids {
			site, ok := cfg.SiteByID(id)
			if !ok {
				return nil, fmt.Errorf("unknown site %q, use --list to see the registry", id)
			}
			sites = append(sites, site)
		}
	}
	for _, site := range sites {
		if _, ok := scrape.Get(site.Parser); !ok {
			return nil, fmt.Errorf("site %s: unknown parser %q, registered: %v", site.ID, site.Parser, scrape.Names())
		}
	}
	return sites, nil
}

func listSites(cfg *config.Config) {
	for _, site := range cfg.Sites {
		fmt.Printf("%-24s %-28s %s\n", site.ID, site.Name, site.URL)
	}
}

// makeUploader builds the object storage client; absent credentials disable
// upload for the run instead of failing it.
func makeUploader(ctx context.Context, cfg *config.Config, noUpload bool) runner.Uploader {
	if noUpload {
		return nil
	}
	if !cfg.UploadConfigured() {
		log.Printf("[WARN] object storage credentials not configured, uploads disabled")
		return nil
	}
	up, err := storage.NewUploader(ctx, cfg.Upload.Endpoint, cfg.Upload.AccessKey, cfg.Upload.SecretKey)
	if err != nil {
		log.Printf("[WARN] object storage unavailable, uploads disabled: %v", err)
		return nil
	}
	return up
}

func setupLog(dbg, noColor bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.CallerFile, lgr.CallerFunc, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	if !noColor {
		colorizer := lgr.Mapper{
			ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
			WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
			InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
			DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
			CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
			TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
		}
		logOpts = append(logOpts, lgr.Map(colorizer))
	}

	if len(secs) > 0 {
		logOpts = append(logOpts, lgr.Secret(secs...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
