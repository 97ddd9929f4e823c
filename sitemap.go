package folio

import (
	"encoding/xml"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eringen/folio/content"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// buildSitemap lists every routable entity. The entries come from the static
// params of each collection, so the sitemap matches the route table.
func (a *App) buildSitemap(snap *content.Snapshot) sitemapURLSet {
	base := a.Config.URL
	urls := []sitemapURL{
		{Loc: BuildURL(base)},
		{Loc: BuildURL(base, "blog")},
	}
	for _, coll := range content.Collections {
		for _, params := range snap.StaticParams(coll) {
			e, ok := snap.Resolve(coll, params)
			if !ok || !e.Head().Published {
				continue
			}
			u := sitemapURL{Loc: EntityURL(base, coll, e.Head().Slug)}
			if p, ok := e.(content.Post); ok {
				u.LastMod = p.Date.Format("2006-01-02")
			}
			urls = append(urls, u)
		}
	}
	return sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
}

func (a *App) renderSitemap(c echo.Context, snap *content.Snapshot) error {
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(a.buildSitemap(snap))
}
