package views

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donmariogerlin/gerlin"
	"github.com/donmariogerlin/gerlin/admin"
	"github.com/donmariogerlin/gerlin/backend"
	"github.com/donmariogerlin/gerlin/content"
	"github.com/donmariogerlin/gerlin/markdown"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func testPage(path string) gerlin.Page {
	return gerlin.Page{
		Site: gerlin.SiteConfig{Name: "Associazione Don Mario Gerlin", URL: "https://example.org", Description: "Apostolo dei lebbrosi"},
		Meta: gerlin.PageMeta{Title: "Prova", URL: "https://example.org" + path, OGType: "website"},
		Path: path,
		CSRF: "tok123",
	}
}

func TestLayoutNavigationAndFlashes(t *testing.T) {
	p := testPage("/foto/")
	p.Flashes = []gerlin.Flash{{Kind: gerlin.FlashSuccess, Message: "Messaggio inviato!"}}
	out := render(t, Gallery(gerlin.GalleryPage{Page: p, Gallery: content.Gallery{Filter: content.FilterAll, Empty: true}}))

	assert.Contains(t, out, `<title>Prova | Associazione Don Mario Gerlin</title>`)
	assert.Contains(t, out, `class="nav-link active" href="/foto/"`)
	assert.Contains(t, out, `flash flash-success`)
	assert.Contains(t, out, "Messaggio inviato!")
	assert.Contains(t, out, `"@type":"NGO"`)
}

func TestGalleryEmptyNotice(t *testing.T) {
	out := render(t, Gallery(gerlin.GalleryPage{
		Page:    testPage("/foto/"),
		Gallery: content.Gallery{Filter: "eventi", Empty: true},
	}))
	assert.Contains(t, out, "Nessuna foto trovata in questa categoria")
}

func TestGalleryLightbox(t *testing.T) {
	photos := []content.Photo{
		{URL: "/static/gallery/eventi/festa.jpg", Caption: "Festa", Category: content.CategoryEventi},
		{URL: "/static/gallery/eventi/messa.jpg", Caption: "Messa", Category: content.CategoryEventi},
	}
	out := render(t, Gallery(gerlin.GalleryPage{
		Page:    testPage("/foto/"),
		Gallery: content.Gallery{Filter: "eventi", Photos: photos},
		Lightbox: &gerlin.LightboxView{
			Photo: photos[1], Position: 2, Total: 2,
			PrevURL: "/foto/?categoria=eventi&foto=0", NextURL: "/foto/?categoria=eventi&foto=0", CloseURL: "/foto/?categoria=eventi",
		},
	}))
	assert.Contains(t, out, `href="/foto/?categoria=eventi&amp;foto=1"`)
	assert.Contains(t, out, "2 / 2")
	assert.Contains(t, out, `class="lightbox"`)
}

func TestStaticRendersMarkdownBody(t *testing.T) {
	out := render(t, Static(gerlin.StaticPage{
		Page: testPage("/bambui/"),
		Body: markdown.Markdown("# Bambuí\n\nLa **Casa Betania**."),
	}))
	assert.Contains(t, out, "<h1>Bambuí</h1>")
	assert.Contains(t, out, "<strong>Casa Betania</strong>")
}

func TestPressPage(t *testing.T) {
	out := render(t, Press(gerlin.PressPage{
		Page: testPage("/stampa/"),
		Documents: []content.Document{
			{Title: "Mosaico", Description: "Archivio 1965", URL: "/documents/1965mosaico.pdf"},
			{Title: "Foto storica", Description: "Bambuí", URL: "https://cdn.example.org/1.jpg"},
		},
		Articles: []gerlin.PressArticle{{
			Source: "La Tribuna", Date: time.Date(2023, 3, 2, 0, 0, 0, 0, time.UTC),
			Title: "Ricordo di Don Mario", URL: "https://news.example.org/a", Tags: []string{"missione"},
		}},
	}))
	assert.Contains(t, out, "2 marzo 2023")
	assert.Contains(t, out, `datetime="2023-03-02"`)
	assert.Contains(t, out, `<span class="tag">PDF</span>`)
	assert.Contains(t, out, `<img src="https://cdn.example.org/1.jpg"`)
}

func TestContactShowsErrorsAndValues(t *testing.T) {
	out := render(t, Contact(gerlin.ContactPage{
		Page:   testPage("/contatti/"),
		Form:   content.ContactMessage{Name: "Anna", Email: "bad"},
		Errors: map[string]string{"email": "Indirizzo email non valido"},
	}))
	assert.Contains(t, out, `value="Anna"`)
	assert.Contains(t, out, "Indirizzo email non valido")
	assert.Contains(t, out, `name="_csrf" value="tok123"`)
}

func TestAdminDashboardPreview(t *testing.T) {
	out := render(t, AdminDashboard(gerlin.AdminPage{
		Page:    testPage("/admin/"),
		Session: &backend.Session{Email: "admin@example.org"},
		Loaded:  true,
		Photos:  []content.Photo{{ID: "p1", URL: "https://cdn.example.org/1.jpg", Caption: "Festa", Category: content.CategoryEventi}},
		PhotoForm: admin.Form[admin.PhotoDraft]{
			Phase: admin.Previewing,
			Draft: admin.PhotoDraft{Caption: "Nuova", Category: "bambui", URL: "http://x/y.jpg"},
		},
		PreviewPhotoURL: "http://x/y.jpg",
		DocumentErrors:  map[string]string{"title": "Il titolo è obbligatorio"},
	}))
	assert.Contains(t, out, "admin@example.org")
	assert.Contains(t, out, "Anteprima foto")
	assert.Contains(t, out, `action="/admin/photos/confirm/"`)
	assert.Contains(t, out, `action="/admin/photos/p1/delete/"`)
	assert.Contains(t, out, `value="bambui" selected`)
	assert.Contains(t, out, "Il titolo è obbligatorio")
	assert.NotContains(t, out, "Anteprima documento")
	assert.NotContains(t, out, "Contenuti non caricati")
}

func TestErrorPages(t *testing.T) {
	assert.Contains(t, render(t, NotFound(testPage("/nope/"))), "Pagina non trovata")
	assert.Contains(t, render(t, ServerError(testPage("/"))), "Si è verificato un errore")
	assert.Contains(t, render(t, AdminLogin(gerlin.LoginPage{Page: testPage("/admin/login/"), Error: "Credenziali non valide"})), "Credenziali non valide")
}

func TestValuesAreEscaped(t *testing.T) {
	p := testPage("/contatti/")
	p.Flashes = []gerlin.Flash{{Kind: gerlin.FlashError, Message: "<b>no</b>"}}
	out := render(t, Contact(gerlin.ContactPage{
		Page: p,
		Form: content.ContactMessage{Name: `Anna "la" <Rossa>`, Message: "</textarea><script>x()</script>"},
	}))
	assert.Contains(t, out, `value="Anna &#34;la&#34; &lt;Rossa&gt;"`)
	assert.Contains(t, out, "&lt;/textarea&gt;&lt;script&gt;")
	assert.Contains(t, out, "&lt;b&gt;no&lt;/b&gt;")
	assert.NotContains(t, out, "<script>x()")
}

func TestUnsafeURLsAreNeutralized(t *testing.T) {
	out := render(t, Press(gerlin.PressPage{
		Page:      testPage("/stampa/"),
		Documents: []content.Document{{Title: "Trappola", URL: "javascript:alert(1)"}},
	}))
	assert.NotContains(t, out, "javascript:")
	assert.Contains(t, out, string(templ.FailedSanitizationURL))
}

func TestAdminDashboardEditAndStagedFile(t *testing.T) {
	out := render(t, AdminDashboard(gerlin.AdminPage{
		Page:    testPage("/admin/"),
		Session: &backend.Session{Email: "admin@example.org"},
		Documents: []content.Document{
			{ID: "d1", Title: "Mosaico", URL: "/documents/1965mosaico.pdf"},
		},
		DocumentForm: admin.Form[admin.DocumentDraft]{
			Phase:     admin.Previewing,
			EditingID: "d1",
			Draft:     admin.DocumentDraft{Title: "Mosaico", Description: "1965"},
			File:      &admin.StagedFile{Name: "mosaico.pdf"},
		},
		PreviewDocumentURL: "/admin/documents/staged",
	}))
	assert.Contains(t, out, "Stai modificando un documento esistente.")
	assert.Contains(t, out, "Rimuovi mosaico.pdf")
	assert.Contains(t, out, `href="/admin/documents/staged"`)
	assert.Contains(t, out, `action="/admin/documents/d1/delete/"`)
	assert.Contains(t, out, `name="confirm" value="yes"`)
	assert.Contains(t, out, "Nessuna foto caricata.")
	assert.Contains(t, out, "Contenuti non caricati.")
}

func TestHomeFeaturedLinksIntoGallery(t *testing.T) {
	out := render(t, Home(gerlin.HomePage{
		Page:     testPage("/"),
		Featured: []content.Photo{{URL: "/static/gallery/a.jpg", Caption: "A"}, {URL: "/static/gallery/b.jpg", Caption: "B"}},
	}))
	assert.Contains(t, out, `href="/foto/?foto=1"`)
	assert.Contains(t, out, `<img src="/static/gallery/b.jpg" alt="B" loading="lazy">`)
	assert.Contains(t, out, `class="nav-link active" href="/"`)
}

func TestPageStopsOnBodyError(t *testing.T) {
	boom := errors.New("boom")
	body := templ.ComponentFunc(func(context.Context, io.Writer) error { return boom })
	var buf bytes.Buffer
	err := Static(gerlin.StaticPage{Page: testPage("/bambui/"), Body: body}).Render(context.Background(), &buf)
	assert.ErrorIs(t, err, boom)
	assert.NotContains(t, buf.String(), "</html>")
}

func TestItalianDate(t *testing.T) {
	assert.Equal(t, "4 maggio 2024", ItalianDate(time.Date(2024, 5, 4, 12, 0, 0, 0, time.UTC)))
	assert.Equal(t, "", ItalianDate(time.Time{}))
}

func TestFuncsComplete(t *testing.T) {
	v := Funcs()
	assert.NotNil(t, v.Home)
	assert.NotNil(t, v.AdminDashboard)
	assert.NotNil(t, v.ServerError)
}
