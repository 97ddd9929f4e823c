package folio

import (
	"encoding/xml"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/folio/content"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	LastBuildDate string    `xml:"lastBuildDate,omitempty"`
	Items         []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	Description string   `xml:"description"`
	PubDate     string   `xml:"pubDate"`
	GUID        string   `xml:"guid"`
	Categories  []string `xml:"category"`
}

func (a *App) buildFeed(snap *content.Snapshot) rssXML {
	base := a.Config.URL
	posts := snap.Published()
	items := make([]rssItem, 0, len(posts))
	for _, p := range posts {
		postURL := EntityURL(base, content.Posts, p.Slug)
		var cats []string
		for _, cat := range snap.Categories(p) {
			cats = append(cats, cat.DisplayName)
		}
		items = append(items, rssItem{
			Title:       p.Title,
			Link:        postURL,
			Description: p.Description,
			PubDate:     p.Date.Format(time.RFC1123Z),
			GUID:        postURL,
			Categories:  cats,
		})
	}
	var lastBuild string
	if len(posts) > 0 {
		lastBuild = posts[0].Date.Format(time.RFC1123Z)
	}
	return rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:         a.Config.Name,
			Link:          BuildURL(base),
			Description:   a.Config.Description,
			LastBuildDate: lastBuild,
			Items:         items,
		},
	}
}

func (a *App) renderRSS(c echo.Context, snap *content.Snapshot) error {
	c.Response().Header().Set(echo.HeaderContentType, "application/rss+xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(a.buildFeed(snap))
}
