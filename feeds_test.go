package folio

import (
	"encoding/xml"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSitemap(t *testing.T) {
	a := newTestApp(t, nil)
	rec := get(a, "/sitemap.xml")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/xml; charset=utf-8", rec.Header().Get("Content-Type"))

	var set sitemapURLSet
	require.NoError(t, xml.Unmarshal(rec.Body.Bytes(), &set))
	locs := make(map[string]string)
	for _, u := range set.URLs {
		locs[u.Loc] = u.LastMod
	}

	for _, want := range []string{
		"https://example.com",
		"https://example.com/blog/",
		"https://example.com/blog/hello/",
		"https://example.com/blog/2024/nested/",
		"https://example.com/about/",
		"https://example.com/legal/terms/",
		"https://example.com/authors/jane/",
		"https://example.com/category/go-tips/",
	} {
		assert.Contains(t, locs, want)
	}
	assert.Equal(t, "2024-03-01", locs["https://example.com/blog/hello/"])
	assert.NotContains(t, locs, "https://example.com/blog/draft/")
	assert.NotContains(t, locs, "https://example.com/hidden/")
}

func TestSitemapEntriesResolve(t *testing.T) {
	a := newTestApp(t, nil)
	set := a.buildSitemap(a.Library.Snapshot())
	for _, u := range set.URLs[2:] {
		path := u.Loc[len("https://example.com"):]
		assert.Equal(t, http.StatusOK, get(a, path).Code, path)
	}
}

func TestFeed(t *testing.T) {
	a := newTestApp(t, func(c *SiteConfig) { c.Description = "Notes" })
	rec := get(a, "/feed.xml")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/rss+xml; charset=utf-8", rec.Header().Get("Content-Type"))

	var feed rssXML
	require.NoError(t, xml.Unmarshal(rec.Body.Bytes(), &feed))
	assert.Equal(t, "2.0", feed.Version)
	assert.Equal(t, "Folio Test", feed.Channel.Title)
	assert.Equal(t, "Notes", feed.Channel.Description)
	require.Len(t, feed.Channel.Items, 3)

	first := feed.Channel.Items[0]
	assert.Equal(t, "Second", first.Title)
	assert.Equal(t, "https://example.com/blog/second/", first.Link)
	assert.Equal(t, "Mon, 01 Apr 2024 00:00:00 +0000", first.PubDate)
	assert.Equal(t, first.PubDate, feed.Channel.LastBuildDate)

	hello := feed.Channel.Items[1]
	assert.Equal(t, "First post", hello.Description)
	assert.Equal(t, []string{"Go Tips"}, hello.Categories)
}
