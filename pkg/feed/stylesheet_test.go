package feed

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFeed = "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<rss version=\"2.0\"><channel></channel></rss>"

func TestWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feed.xml")
	require.NoError(t, Write(path, sampleFeed))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, sampleFeed, string(data))
}

func TestWriteStylesheet(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteStylesheet(dir))

	data, err := os.ReadFile(filepath.Join(dir, "feed.xsl"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "xsl:stylesheet")
}

func TestInjectStylesheet(t *testing.T) {
	t.Run("inserts after the xml declaration", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "feed.xml")
		require.NoError(t, Write(path, sampleFeed))

		require.NoError(t, InjectStylesheet(path))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		content := string(data)
		assert.True(t, strings.HasPrefix(content, "<?xml version="))
		declEnd := strings.Index(content, "?>") + 2
		assert.Equal(t, stylesheetPI, strings.TrimSpace(content[declEnd:declEnd+len(stylesheetPI)+2]))
		assert.Contains(t, content, "<rss version=")
	})

	t.Run("idempotent on repeat application", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "feed.xml")
		require.NoError(t, Write(path, sampleFeed))

		require.NoError(t, InjectStylesheet(path))
		require.NoError(t, InjectStylesheet(path))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, 1, strings.Count(string(data), "<?xml-stylesheet"))
	})

	t.Run("missing declaration is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "feed.xml")
		require.NoError(t, Write(path, "<rss version=\"2.0\"></rss>"))
		require.Error(t, InjectStylesheet(path))
	})

	t.Run("missing file is an error", func(t *testing.T) {
		require.Error(t, InjectStylesheet(filepath.Join(t.TempDir(), "nope.xml")))
	})
}
