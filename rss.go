package gerlin

import (
	"encoding/xml"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Language    string    `xml:"language"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate,omitempty"`
	GUID        string `xml:"guid"`
}

// absURL resolves site-relative document links against the site URL.
func (a *App) absURL(u string) string {
	if strings.HasPrefix(u, "/") {
		return a.Config.URL + u
	}
	return u
}

// handleFeed serves the press archive as RSS: external articles, then the
// remote documents, then the bundled archive.
func (a *App) handleFeed(c echo.Context) error {
	items := make([]rssItem, 0, len(a.catalog.Articles))
	for _, art := range a.catalog.Articles {
		items = append(items, rssItem{
			Title:       art.Title,
			Link:        art.URL,
			Description: art.Source + " - " + art.Description,
			PubDate:     art.Date.Format(time.RFC1123Z),
			GUID:        art.URL,
		})
	}
	for _, d := range a.publicDocuments(c) {
		item := rssItem{
			Title:       d.Title,
			Link:        a.absURL(d.URL),
			Description: d.Description,
			GUID:        a.absURL(d.URL),
		}
		if !d.CreatedAt.IsZero() {
			item.PubDate = d.CreatedAt.Format(time.RFC1123Z)
		}
		items = append(items, item)
	}
	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       a.Config.Name + " - Rassegna stampa",
			Link:        BuildURL(a.Config.URL, "stampa"),
			Description: a.Config.Description,
			Language:    "it-IT",
			Items:       items,
		},
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/rss+xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(feed)
}
