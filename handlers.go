package gerlin

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/donmariogerlin/gerlin/content"
)

const featuredPhotos = 6

// page builds the common page data. Pending flashes are consumed.
func (a *App) page(c echo.Context, meta PageMeta) Page {
	path := c.Request().URL.Path
	if meta.URL == "" {
		meta.URL = BuildURL(a.Config.URL, path)
	}
	if meta.OGType == "" {
		meta.OGType = "website"
	}
	if meta.Description == "" {
		meta.Description = a.Config.Description
	}
	return Page{
		Site:    a.Config,
		Meta:    meta,
		Path:    path,
		Flashes: popFlashes(c),
		CSRF:    CsrfToken(c),
	}
}

// publicPhotos returns the bundled photos followed by the remote ones. When
// the table service is unreachable the bundled photos are still shown.
func (a *App) publicPhotos(c echo.Context) []content.Photo {
	remote, err := a.cache.Photos(c.Request().Context())
	if err != nil {
		a.Logger.Warn().Err(err).Msg("remote photos unavailable")
	}
	return content.MergePhotos(a.catalog.Photos, remote)
}

func (a *App) publicDocuments(c echo.Context) []content.Document {
	remote, err := a.cache.Documents(c.Request().Context())
	if err != nil {
		a.Logger.Warn().Err(err).Msg("remote documents unavailable")
	}
	return content.MergeDocuments(remote, a.catalog.Documents)
}

func (a *App) handleHome(c echo.Context) error {
	photos := a.publicPhotos(c)
	if len(photos) > featuredPhotos {
		photos = photos[:featuredPhotos]
	}
	return Render(c, a.Views.Home(HomePage{
		Page:     a.page(c, PageMeta{Title: a.Config.Name}),
		Featured: photos,
	}))
}

func (a *App) handleStatic(p staticPage) echo.HandlerFunc {
	return func(c echo.Context) error {
		return Render(c, a.Views.Static(StaticPage{
			Page: a.page(c, PageMeta{Title: p.title, Description: p.description, OGType: "article"}),
			Body: a.staticBody(p.path),
		}))
	}
}

// GalleryURL links the gallery with a category filter and, when foto is not
// negative, the lightbox open on that index.
func GalleryURL(filter string, foto int) string {
	q := url.Values{}
	if filter != "" && filter != content.FilterAll {
		q.Set("categoria", filter)
	}
	if foto >= 0 {
		q.Set("foto", strconv.Itoa(foto))
	}
	if len(q) == 0 {
		return "/foto/"
	}
	return "/foto/?" + q.Encode()
}

func (a *App) handleGallery(c echo.Context) error {
	g := content.FilterPhotos(a.publicPhotos(c), c.QueryParam("categoria"))

	filters := []FilterLink{{
		Value:  content.FilterAll,
		Label:  "Tutte",
		URL:    GalleryURL(content.FilterAll, -1),
		Active: g.Filter == content.FilterAll,
	}}
	for _, cat := range content.Categories {
		filters = append(filters, FilterLink{
			Value:  string(cat),
			Label:  cat.Label(),
			URL:    GalleryURL(string(cat), -1),
			Active: g.Filter == string(cat),
		})
	}

	p := GalleryPage{
		Page:    a.page(c, PageMeta{Title: "Galleria fotografica", Description: "Le foto della missione, di Bambuí e degli eventi dell'associazione."}),
		Gallery: g,
		Filters: filters,
	}
	if raw := c.QueryParam("foto"); raw != "" && !g.Empty {
		i, err := strconv.Atoi(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid photo index")
		}
		lb := content.NewLightbox(len(g.Photos), i)
		p.Lightbox = &LightboxView{
			Photo:    g.Photos[lb.Index()],
			Position: lb.Index() + 1,
			Total:    lb.Len(),
			PrevURL:  GalleryURL(g.Filter, lb.Prev().Index()),
			NextURL:  GalleryURL(g.Filter, lb.Next().Index()),
			CloseURL: GalleryURL(g.Filter, -1),
		}
	}
	return Render(c, a.Views.Gallery(p))
}

func (a *App) handlePress(c echo.Context) error {
	return Render(c, a.Views.Press(PressPage{
		Page:      a.page(c, PageMeta{Title: "Rassegna stampa", Description: "Articoli, documenti e archivio storico su Don Mario Gerlin."}),
		Documents: a.publicDocuments(c),
		Articles:  a.catalog.Articles,
	}))
}

var contactMeta = PageMeta{Title: "Contatti", Description: "Scrivi all'Associazione Don Mario Gerlin."}

func (a *App) handleContact(c echo.Context) error {
	return Render(c, a.Views.Contact(ContactPage{Page: a.page(c, contactMeta)}))
}

func (a *App) handleContactSubmit(c echo.Context) error {
	msg := content.ContactMessage{
		Name:    content.Sanitize(c.FormValue("name")),
		Email:   content.Sanitize(c.FormValue("email")),
		Message: content.Sanitize(c.FormValue("message")),
	}
	if errs := content.ContactErrors(msg); len(errs) > 0 {
		return RenderStatus(c, http.StatusUnprocessableEntity, a.Views.Contact(ContactPage{
			Page:   a.page(c, contactMeta),
			Form:   msg,
			Errors: errs,
		}))
	}
	if !a.contactLimiter.Allow(c.RealIP()) {
		return RenderStatus(c, http.StatusTooManyRequests, a.Views.Contact(ContactPage{
			Page:   a.page(c, contactMeta),
			Form:   msg,
			Errors: map[string]string{"form": "Troppi messaggi inviati. Riprova più tardi."},
		}))
	}
	if _, err := a.services.Messages.InsertMessage(c.Request().Context(), msg); err != nil {
		a.Logger.Error().Err(err).Msg("store contact message")
		return RenderStatus(c, http.StatusBadGateway, a.Views.Contact(ContactPage{
			Page:   a.page(c, contactMeta),
			Form:   msg,
			Errors: map[string]string{"form": "Invio non riuscito. Riprova più tardi."},
		}))
	}
	a.Logger.Info().Str("email", msg.Email).Msg("contact message stored")
	addFlash(c, FlashSuccess, "Messaggio inviato!")
	return c.Redirect(http.StatusSeeOther, "/contatti/")
}

func (a *App) handleRobots(c echo.Context) error {
	body := "User-agent: *\nDisallow: /admin/\n\nSitemap: " + a.Config.URL + "/sitemap.xml\n"
	return c.String(http.StatusOK, body)
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	ok := errors.As(err, &he)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound(a.page(c, PageMeta{Title: "Pagina non trovata"})))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		a.Logger.Error().Err(err).Str("uri", c.Request().RequestURI).Msg("server error")
		_ = RenderStatus(c, code, a.Views.ServerError(a.page(c, PageMeta{Title: "Errore"})))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
