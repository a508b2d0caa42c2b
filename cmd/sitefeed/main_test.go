package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitefeed/pkg/config"
)

func TestLoadConfig(t *testing.T) {
	t.Run("defaults when no file given", func(t *testing.T) {
		cfg, err := loadConfig(Opts{})
		require.NoError(t, err)
		assert.Equal(t, "feeds", cfg.OutputDir)
		assert.Len(t, cfg.Sites, 3)
	})

	t.Run("output flag overrides config", func(t *testing.T) {
		cfg, err := loadConfig(Opts{Output: "/tmp/out"})
		require.NoError(t, err)
		assert.Equal(t, "/tmp/out", cfg.OutputDir)
	})

	t.Run("config file loaded", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yml")
		require.NoError(t, os.WriteFile(path, []byte("output_dir: custom\n"), 0o600))

		cfg, err := loadConfig(Opts{Config: path})
		require.NoError(t, err)
		assert.Equal(t, "custom", cfg.OutputDir)
	})

	t.Run("bad config file", func(t *testing.T) {
		_, err := loadConfig(Opts{Config: filepath.Join(t.TempDir(), "nope.yml")})
		require.Error(t, err)
	})
}

func TestSelectSites(t *testing.T) {
	cfg := config.Default()

	t.Run("all sites when none requested", func(t *testing.T) {
		sites, err := selectSites(cfg, nil)
		require.NoError(t, err)
		assert.Len(t, sites, 3)
	})

	t.Run("subset by id", func(t *testing.T) {
		sites, err := selectSites(cfg, []string{"diariodominho"})
		require.NoError(t, err)
		require.Len(t, sites, 1)
		assert.Equal(t, "diariodominho", sites[0].ID)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := selectSites(cfg, []string{"nope"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), `unknown site "nope"`)
	})

	t.Run("unknown parser reported up front", func(t *testing.T) {
		broken := config.Default()
		broken.Sites[0].Parser = "bogus"
		_, err := selectSites(broken, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `unknown parser "bogus"`)
	})
}

func TestMakeUploader(t *testing.T) {
	ctx := t.Context()

	t.Run("disabled by flag", func(t *testing.T) {
		cfg := config.Default()
		cfg.Upload.Endpoint = "minio.example.com"
		cfg.Upload.AccessKey = "ak"
		cfg.Upload.SecretKey = "sk"
		assert.Nil(t, makeUploader(ctx, cfg, true))
	})

	t.Run("disabled without credentials", func(t *testing.T) {
		assert.Nil(t, makeUploader(ctx, config.Default(), false))
	})

	t.Run("enabled with credentials", func(t *testing.T) {
		cfg := config.Default()
		cfg.Upload.Endpoint = "minio.example.com"
		cfg.Upload.AccessKey = "ak"
		cfg.Upload.SecretKey = "sk"
		assert.NotNil(t, makeUploader(ctx, cfg, false))
	})
}
