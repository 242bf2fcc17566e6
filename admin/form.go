// Package admin holds the content-management state of an authenticated
// administrator: the photo and document lists, their draft forms and the
// draft → preview → confirm flow that writes to the backend.
package admin

import (
	"path"
	"strings"

	"github.com/donmariogerlin/gerlin/content"
)

// Phase is the position of a form in the editing flow.
type Phase int

const (
	Idle Phase = iota
	Drafting
	Previewing
	Saving
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Drafting:
		return "drafting"
	case Previewing:
		return "previewing"
	case Saving:
		return "saving"
	}
	return "unknown"
}

// StagedFile is a local file chosen in the form and not yet uploaded.
type StagedFile struct {
	Name        string
	ContentType string
	Data        []byte
}

var extByType = map[string]string{
	"image/jpeg":      "jpg",
	"image/png":       "png",
	"image/gif":       "gif",
	"image/webp":      "webp",
	"application/pdf": "pdf",
}

// Ext returns the extension used for the uploaded object, without the dot.
func (f *StagedFile) Ext() string {
	if ext := strings.ToLower(strings.TrimPrefix(path.Ext(f.Name), ".")); ext != "" && alnum(ext) {
		return ext
	}
	ct := strings.TrimSpace(strings.SplitN(f.ContentType, ";", 2)[0])
	if ext, ok := extByType[strings.ToLower(ct)]; ok {
		return ext
	}
	return "bin"
}

func alnum(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

// PhotoDraft holds the photo form fields.
type PhotoDraft struct {
	URL      string
	Caption  string
	Category string
}

// DocumentDraft holds the document form fields.
type DocumentDraft struct {
	Title       string
	Description string
	URL         string
}

func (d PhotoDraft) trimmed() PhotoDraft {
	return PhotoDraft{
		URL:      strings.TrimSpace(d.URL),
		Caption:  strings.TrimSpace(d.Caption),
		Category: strings.TrimSpace(d.Category),
	}
}

func (d DocumentDraft) trimmed() DocumentDraft {
	return DocumentDraft{
		Title:       strings.TrimSpace(d.Title),
		Description: strings.TrimSpace(d.Description),
		URL:         strings.TrimSpace(d.URL),
	}
}

func (d PhotoDraft) validate(hasFile bool) error {
	v := &ValidationError{}
	switch {
	case d.Caption == "":
		v.add("caption", "La didascalia è obbligatoria")
	case content.TooLong(d.Caption, content.MaxCaptionLen):
		v.add("caption", "La didascalia è troppo lunga")
	}
	if !hasFile {
		checkURL(v, d.URL, "Inserisci un URL o carica un file")
	}
	if _, err := content.ParseCategory(d.Category); err != nil {
		v.add("category", "Categoria non valida")
	}
	return v.orNil()
}

func (d DocumentDraft) validate(hasFile bool) error {
	v := &ValidationError{}
	switch {
	case d.Title == "":
		v.add("title", "Il titolo è obbligatorio")
	case content.TooLong(d.Title, content.MaxTitleLen):
		v.add("title", "Il titolo è troppo lungo")
	}
	switch {
	case d.Description == "":
		v.add("description", "La descrizione è obbligatoria")
	case content.TooLong(d.Description, content.MaxDescriptionLen):
		v.add("description", "La descrizione è troppo lunga")
	}
	if !hasFile {
		checkURL(v, d.URL, "Inserisci un URL o carica un file")
	}
	return v.orNil()
}

func checkURL(v *ValidationError, u, missing string) {
	switch {
	case u == "":
		v.add("url", missing)
	case content.TooLong(u, content.MaxURLLen) || !content.ResolvableURL(u):
		v.add("url", "URL non valido")
	}
}

// Form is the editing state of one entity type.
type Form[D any] struct {
	Phase Phase
	Draft D
	// File is the staged upload, if any. It takes precedence over the URL
	// typed in the draft.
	File *StagedFile
	// EditingID is the id of the record being revised; empty in create
	// mode.
	EditingID string
}

// Editing reports whether the form revises an existing record.
func (f Form[D]) Editing() bool { return f.EditingID != "" }

func (f *Form[D]) reset() {
	*f = Form[D]{}
}
