package gerlin

import (
	"encoding/xml"
	"net/http"

	"github.com/labstack/echo/v4"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	ChangeFreq string `xml:"changefreq,omitempty"`
}

// publicRoutes are the pages listed in the sitemap, in navigation order.
var publicRoutes = []struct {
	path string
	freq string
}{
	{"/", "weekly"},
	{"/don-mario/", "yearly"},
	{"/chi-siamo/", "yearly"},
	{"/bambui/", "yearly"},
	{"/foto/", "weekly"},
	{"/stampa/", "monthly"},
	{"/contatti/", "yearly"},
}

func (a *App) handleSitemap(c echo.Context) error {
	base := a.Config.URL
	urls := make([]sitemapURL, 0, len(publicRoutes))
	for _, r := range publicRoutes {
		loc := BuildURL(base, r.path)
		if r.path == "/" {
			loc = BuildURL(base) + "/"
		}
		urls = append(urls, sitemapURL{Loc: loc, ChangeFreq: r.freq})
	}
	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(sitemap)
}
