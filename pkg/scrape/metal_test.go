package scrape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const metalListing = `
<html><body>
<div class="single">
  <h2><a href="https://www.newalbumreleases.cc/album-one/">Iron Will - Forged</a></h2>
  <div class="date"><span class="clock"> On September - 29 - 2025</span></div>
  <div class="entry">
    <img src="https://cdn.example.com/covers/forged.jpg"/>
    <p>Artist: Iron Will
Album: Forged
Released: 2025
Style: Heavy Metal
Format: mp3 320 kbps
Size: 110 mb</p>
  </div>
</div>
<div class="single">
  <h2><a href="https://www.newalbumreleases.cc/album-two/">Stonewraith - Cairn</a></h2>
  <div class="date"><span class="clock"> On October - 3 - 2025</span></div>
  <div class="entry">
    <p>Artist: Stonewraith
Album: Cairn</p>
  </div>
</div>
<div class="single">
  <h2><a href="https://www.newalbumreleases.cc/album-two/">Stonewraith - Cairn</a></h2>
</div>
<div class="single"><p>no heading, skipped</p></div>
</body></html>`

func TestParseMetalReleases(t *testing.T) {
	articles, err := Parse("newalbumreleases_metal", metalListing, "https://www.newalbumreleases.cc/category/metal/")
	require.NoError(t, err)
	require.Len(t, articles, 2, "duplicate and headingless blocks dropped")

	t.Run("full entry", func(t *testing.T) {
		a := articles[0]
		assert.Equal(t, "Iron Will - Forged", a.Title)
		assert.Equal(t, "https://www.newalbumreleases.cc/album-one/", a.Link)
		assert.Equal(t, "2025-09-29", a.Date, "clock span date normalized, day zero-padded")
		assert.Equal(t, "https://cdn.example.com/covers/forged.jpg", a.Image)

		assert.Equal(t, "Iron Will", a.FieldValue("Artist"))
		assert.Equal(t, "Forged", a.FieldValue("Album"))
		assert.Equal(t, "2025", a.FieldValue("Released"))
		assert.Equal(t, "Heavy Metal", a.FieldValue("Style"))
		assert.Equal(t, "mp3 320 kbps", a.FieldValue("Format"))
		assert.Equal(t, "110 mb", a.FieldValue("Size"))

		assert.Contains(t, a.Description, `<img src="https://cdn.example.com/covers/forged.jpg"`)
		assert.Contains(t, a.Description, "<p><strong>Album Details:</strong></p>")
		assert.Contains(t, a.Description, "<li><strong>Artist:</strong> Iron Will</li>")
		assert.Contains(t, a.Description, "<li><strong>Size:</strong> 110 mb</li>")
	})

	t.Run("partial entry", func(t *testing.T) {
		a := articles[1]
		assert.Equal(t, "2025-10-03", a.Date)
		assert.Empty(t, a.Image)
		assert.Contains(t, a.Description, "<li><strong>Artist:</strong> Stonewraith</li>")
		assert.NotContains(t, a.Description, "Released:", "absent labels are omitted")
	})

	t.Run("invariants", func(t *testing.T) {
		seen := map[string]bool{}
		for _, a := range articles {
			assert.NotEmpty(t, a.Title)
			assert.True(t, hasScheme(a.Link))
			assert.False(t, seen[a.Link])
			seen[a.Link] = true
		}
	})
}

func TestParseMetalReleases_noEntryBlock(t *testing.T) {
	page := `<html><body><div class="single">
		<h2><a href="https://www.newalbumreleases.cc/bare/">Bare - Release</a></h2>
	</div></body></html>`
	articles, err := Parse("newalbumreleases_metal", page, "https://www.newalbumreleases.cc/category/metal/")
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, "Bare - Release", articles[0].Description, "description falls back to the title")
	assert.Equal(t, Today(), articles[0].Date)
}
