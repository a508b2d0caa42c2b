package scrape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const immichListing = `
<html><body>
<div class="listing">
  <article class="blog-post">
    <h2>Cursed Knowledge</h2>
    <a href="/blog/2023-12-30-cursed-knowledge">Read more</a>
    <time datetime="2023-12-30">December 30, 2023</time>
    <p class="excerpt">Things we learned the hard way.</p>
  </article>
  <div class="post-card">
    <h3>Release v1.90December 15, 2023 — Alex</h3>
    <a href="/blog/release-v1-90">Read more</a>
    <p>Highlights from the latest release.</p>
  </div>
  <div class="post-card">
    <h3>Release v1.90December 15, 2023 — Alex</h3>
    <a href="/blog/release-v1-90">Duplicate card</a>
  </div>
</div>
</body></html>`

func TestParseImmich(t *testing.T) {
	t.Run("container strategy", func(t *testing.T) {
		articles, err := Parse("immich", immichListing, "https://immich.app/blog")
		require.NoError(t, err)
		require.Len(t, articles, 2)

		first := articles[0]
		assert.Equal(t, "Cursed Knowledge", first.Title)
		assert.Equal(t, "https://immich.app/blog/2023-12-30-cursed-knowledge", first.Link)
		assert.Equal(t, "2023-12-30", first.Date)
		assert.Equal(t, "Things we learned the hard way.", first.Description)

		second := articles[1]
		assert.Equal(t, "Release v1.90", second.Title, "date and author suffixes stripped")
		assert.Equal(t, "https://immich.app/blog/release-v1-90", second.Link)
		assert.Equal(t, "Highlights from the latest release.", second.Description)
	})

	t.Run("anchor fallback when no containers match", func(t *testing.T) {
		page := `<html><body>
			<a href="/blog/2024-01-05-first-post">First Post</a>
			<a href="/blog/">index link skipped</a>
			<a href="/blog/2024-01-05-first-post">First Post again</a>
			<a href="/docs/install">not a blog link</a>
		</body></html>`
		articles, err := Parse("immich", page, "https://immich.app/blog")
		require.NoError(t, err)
		require.Len(t, articles, 1)
		assert.Equal(t, "First Post", articles[0].Title)
		assert.Equal(t, "https://immich.app/blog/2024-01-05-first-post", articles[0].Link)
		assert.Equal(t, "2024-01-05", articles[0].Date, "date recovered from the url path")
	})

	t.Run("candidates without link are dropped", func(t *testing.T) {
		page := `<html><body><div class="post"><h2>No Link Here</h2></div></body></html>`
		articles, err := Parse("immich", page, "https://immich.app/blog")
		require.NoError(t, err)
		assert.Empty(t, articles)
	})

	t.Run("date defaults to today when nothing found", func(t *testing.T) {
		page := `<html><body><div class="post"><h2>Undated</h2><a href="/blog/undated">go</a></div></body></html>`
		articles, err := Parse("immich", page, "https://immich.app/blog")
		require.NoError(t, err)
		require.Len(t, articles, 1)
		assert.Equal(t, Today(), articles[0].Date)
	})

	t.Run("description falls back to title", func(t *testing.T) {
		page := `<html><body><div class="post"><h2>Bare</h2><a href="/blog/bare">go</a></div></body></html>`
		articles, err := Parse("immich", page, "https://immich.app/blog")
		require.NoError(t, err)
		require.Len(t, articles, 1)
		assert.Equal(t, "Bare", articles[0].Description)
	})
}

func TestParseImmich_invariants(t *testing.T) {
	articles, err := Parse("immich", immichListing, "https://immich.app/blog")
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, a := range articles {
		assert.NotEmpty(t, a.Title)
		assert.True(t, hasScheme(a.Link), "link must be absolute: %s", a.Link)
		assert.False(t, seen[a.Link], "duplicate link %s", a.Link)
		seen[a.Link] = true
	}
}
