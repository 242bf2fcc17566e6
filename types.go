package gerlin

import (
	"time"

	"github.com/a-h/templ"

	"github.com/donmariogerlin/gerlin/admin"
	"github.com/donmariogerlin/gerlin/backend"
	"github.com/donmariogerlin/gerlin/content"
)

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
}

// Flash kinds.
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// Flash is a one-shot notification shown on the next rendered page.
type Flash struct {
	Kind    string
	Message string
}

// Page is the data every full page needs: site identity, metadata, the
// current path for navigation, pending notifications and the CSRF token.
type Page struct {
	Site    SiteConfig
	Meta    PageMeta
	Path    string
	Flashes []Flash
	CSRF    string
}

type HomePage struct {
	Page
	Featured []content.Photo
}

// StaticPage is a page whose body comes from an embedded Markdown file.
type StaticPage struct {
	Page
	Body templ.Component
}

// FilterLink is one entry of the gallery category filter.
type FilterLink struct {
	Value  string
	Label  string
	URL    string
	Active bool
}

// LightboxView is the photo opened full size over the gallery.
type LightboxView struct {
	Photo    content.Photo
	Position int // 1-based
	Total    int
	PrevURL  string
	NextURL  string
	CloseURL string
}

type GalleryPage struct {
	Page
	Gallery  content.Gallery
	Filters  []FilterLink
	Lightbox *LightboxView
}

// PressArticle is an external news article about the association.
type PressArticle struct {
	Source      string    `yaml:"source"`
	Date        time.Time `yaml:"date"`
	Title       string    `yaml:"title"`
	Description string    `yaml:"description"`
	Tags        []string  `yaml:"tags"`
	URL         string    `yaml:"url"`
}

type PressPage struct {
	Page
	Documents []content.Document
	Articles  []PressArticle
}

type ContactPage struct {
	Page
	Form   content.ContactMessage
	Errors map[string]string
}

type LoginPage struct {
	Page
	Email string
	Error string
}

// AdminPage is the dashboard: both content lists, both forms and the inline
// validation errors of the last preview attempt.
type AdminPage struct {
	Page
	Session        *backend.Session
	Loaded         bool
	Photos         []content.Photo
	Documents      []content.Document
	PhotoForm      admin.Form[admin.PhotoDraft]
	DocumentForm   admin.Form[admin.DocumentDraft]
	PhotoErrors    map[string]string
	DocumentErrors map[string]string
	// PreviewPhotoURL and PreviewDocumentURL point at what the preview
	// dialog shows: the staged file when there is one, the typed URL
	// otherwise.
	PreviewPhotoURL    string
	PreviewDocumentURL string
}
