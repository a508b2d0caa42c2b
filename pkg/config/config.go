package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-pkgz/lgr"
	"gopkg.in/yaml.v3"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// Site describes one scraped website: where to fetch it from, which parser
// understands its markup and how the resulting feed is named. Entries are
// defined at startup and never mutated.
type Site struct {
	ID          string        `yaml:"id" json:"id" jsonschema:"required,description=Unique site identifier"`
	Name        string        `yaml:"name" json:"name" jsonschema:"required,description=Display name used as the feed title"`
	URL         string        `yaml:"url" json:"url" jsonschema:"required,description=Page to fetch and parse"`
	OutputFile  string        `yaml:"output_file" json:"output_file" jsonschema:"required,description=Feed file name under the output directory"`
	Parser      string        `yaml:"parser" json:"parser" jsonschema:"required,description=Registered parser name for this site"`
	Language    string        `yaml:"language" json:"language" jsonschema:"default=en,description=Feed language code"`
	Description string        `yaml:"description" json:"description" jsonschema:"description=Feed channel description"`
	Email       string        `yaml:"email" json:"email" jsonschema:"description=Contact email for the feed author"`
	WaitTime    time.Duration `yaml:"wait_time" json:"wait_time" jsonschema:"default=2s,description=Settle delay after page load before reading markup"`
	MaxArticles int           `yaml:"max_articles" json:"max_articles" jsonschema:"default=10,description=Maximum number of articles per feed"`
}

// Config holds the application configuration
type Config struct {
	OutputDir string `yaml:"output_dir" json:"output_dir" jsonschema:"default=feeds,description=Directory for generated feed files"`

	Browser struct {
		NavTimeout time.Duration `yaml:"nav_timeout" json:"nav_timeout" jsonschema:"default=60s,description=Navigation timeout for the headless browser"`
	} `yaml:"browser" json:"browser" jsonschema:"description=Headless browser configuration"`

	Upload struct {
		Endpoint  string `yaml:"endpoint" json:"endpoint" jsonschema:"description=S3-compatible endpoint URL"`
		AccessKey string `yaml:"access_key" json:"access_key" jsonschema:"description=Access key (can use environment variable)"`
		SecretKey string `yaml:"secret_key" json:"secret_key" jsonschema:"description=Secret key (can use environment variable)"`
		Bucket    string `yaml:"bucket" json:"bucket" jsonschema:"default=feeds,description=Destination bucket for uploaded feeds"`
	} `yaml:"upload" json:"upload" jsonschema:"description=Object storage upload configuration"`

	Extract struct {
		Enabled bool `yaml:"enabled" json:"enabled" jsonschema:"default=false,description=Fetch each article page for full content and metadata"`
	} `yaml:"extract" json:"extract" jsonschema:"description=Per-article content extraction configuration"`

	Sites []Site `yaml:"sites" json:"sites" jsonschema:"description=Scraped sites, defaults to the built-in registry when empty"`
}

// DefaultSites returns the built-in site registry. It is used when the config
// file defines no sites, and keeps the binary usable without any config at all.
func DefaultSites() []Site {
	return []Site{
		{
			ID:          "immich",
			Name:        "Immich Blog",
			URL:         "https://immich.app/blog",
			OutputFile:  "immich_blog_feed.xml",
			Parser:      "immich",
			Language:    "en",
			Description: "Latest posts from the Immich blog",
			Email:       "noreply@immich.app",
			WaitTime:    2 * time.Second,
			MaxArticles: 10,
		},
		{
			ID:          "diariodominho",
			Name:        "Diário do Minho",
			URL:         "https://www.diariodominho.pt/",
			OutputFile:  "diariodominho_feed.xml",
			Parser:      "diariodominho",
			Language:    "pt",
			Description: "Últimas notícias do Diário do Minho",
			Email:       "noreply@diariodominho.pt",
			WaitTime:    3 * time.Second,
			MaxArticles: 10,
		},
		{
			ID:          "newalbumreleases_metal",
			Name:        "New Album Releases - Metal",
			URL:         "https://www.newalbumreleases.cc/category/metal/",
			OutputFile:  "newalbumreleases_metal_feed.xml",
			Parser:      "newalbumreleases_metal",
			Language:    "en",
			Description: "Latest metal album releases from NewAlbumReleases.cc",
			Email:       "noreply@newalbumreleases.cc",
			WaitTime:    2 * time.Second,
			MaxArticles: 20,
		},
	}
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// expand environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.setDefaults()

	// validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	// verify against embedded schema
	if err := VerifyAgainstEmbeddedSchema(&cfg); err != nil {
		// log warning but don't fail - schema validation is supplementary
		lgr.Printf("[WARN] schema validation failed: %v", err)
	}

	return &cfg, nil
}

// Default returns a configuration with built-in defaults, used when no config
// file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

func (c *Config) setDefaults() {
	if c.OutputDir == "" {
		c.OutputDir = "feeds"
	}
	if c.Browser.NavTimeout == 0 {
		c.Browser.NavTimeout = 60 * time.Second
	}
	if c.Upload.Bucket == "" {
		c.Upload.Bucket = "feeds"
	}
	if len(c.Sites) == 0 {
		c.Sites = DefaultSites()
	}

	// per-site defaults
	for i := range c.Sites {
		if c.Sites[i].Language == "" {
			c.Sites[i].Language = "en"
		}
		if c.Sites[i].Description == "" {
			c.Sites[i].Description = fmt.Sprintf("Latest posts from %s", c.Sites[i].Name)
		}
		if c.Sites[i].WaitTime == 0 {
			c.Sites[i].WaitTime = 2 * time.Second
		}
		if c.Sites[i].MaxArticles == 0 {
			c.Sites[i].MaxArticles = 10
		}
	}
}

// validate checks configuration for correctness
func validate(cfg *Config) error {
	if cfg.Browser.NavTimeout < time.Second {
		return fmt.Errorf("browser.nav_timeout must be at least 1 second")
	}

	seen := make(map[string]bool, len(cfg.Sites))
	for _, site := range cfg.Sites {
		if site.ID == "" {
			return fmt.Errorf("site id is required")
		}
		if seen[site.ID] {
			return fmt.Errorf("duplicate site id %q", site.ID)
		}
		seen[site.ID] = true

		if site.URL == "" {
			return fmt.Errorf("site %s: url is required", site.ID)
		}
		if site.Parser == "" {
			return fmt.Errorf("site %s: parser is required", site.ID)
		}
		if site.OutputFile == "" {
			return fmt.Errorf("site %s: output_file is required", site.ID)
		}
		if site.WaitTime < 0 {
			return fmt.Errorf("site %s: wait_time must be non-negative", site.ID)
		}
		if site.MaxArticles < 1 {
			return fmt.Errorf("site %s: max_articles must be at least 1", site.ID)
		}
	}

	// partial credentials are a config mistake, absent credentials just skip upload
	if (cfg.Upload.AccessKey == "") != (cfg.Upload.SecretKey == "") {
		return fmt.Errorf("upload.access_key and upload.secret_key must be set together")
	}

	return nil
}

// SiteByID returns the site with the given id, or false when unknown.
func (c *Config) SiteByID(id string) (Site, bool) {
	for _, s := range c.Sites {
		if s.ID == id {
			return s, true
		}
	}
	return Site{}, false
}

// UploadConfigured reports whether object storage credentials are present.
func (c *Config) UploadConfigured() bool {
	return c.Upload.AccessKey != "" && c.Upload.SecretKey != ""
}
