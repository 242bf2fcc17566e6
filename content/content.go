// Package content defines the records managed by the admin panel and shown
// on the public pages: gallery photos, press documents and contact messages.
package content

import (
	"fmt"
	"strings"
	"time"
)

// Category groups gallery photos. The set is fixed.
type Category string

const (
	CategoryMissione Category = "missione"
	CategoryBambui   Category = "bambui"
	CategoryEventi   Category = "eventi"
	CategoryPersone  Category = "persone"
)

// DefaultCategory is used when a photo draft does not name one.
const DefaultCategory = CategoryMissione

// Categories lists every category in display order.
var Categories = []Category{CategoryMissione, CategoryBambui, CategoryEventi, CategoryPersone}

var categoryLabels = map[Category]string{
	CategoryMissione: "Missione",
	CategoryBambui:   "Bambuí",
	CategoryEventi:   "Eventi",
	CategoryPersone:  "Persone",
}

// Label returns the human readable name of the category.
func (c Category) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return string(c)
}

// Valid reports whether c is one of the fixed categories.
func (c Category) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// ParseCategory normalizes s into a Category. An empty string yields
// DefaultCategory.
func ParseCategory(s string) (Category, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultCategory, nil
	}
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}

// Photo is a gallery image.
type Photo struct {
	ID        string
	URL       string
	Caption   string
	Category  Category
	CreatedAt time.Time
}

// Key implements Record.
func (p Photo) Key() string { return p.ID }

// Document is an entry of the press archive: an article scan, a PDF or an
// image.
type Document struct {
	ID          string
	Title       string
	Description string
	URL         string
	CreatedAt   time.Time
}

// Key implements Record.
func (d Document) Key() string { return d.ID }

// IsPDF reports whether the document URL points at a PDF file.
func (d Document) IsPDF() bool {
	u := strings.ToLower(d.URL)
	if i := strings.IndexAny(u, "?#"); i >= 0 {
		u = u[:i]
	}
	return strings.HasSuffix(u, ".pdf")
}

// ContactMessage is a message left through the public contact form.
type ContactMessage struct {
	ID        string
	Name      string
	Email     string
	Message   string
	CreatedAt time.Time
}
