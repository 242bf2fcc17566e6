package gerlin

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"unicode"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/donmariogerlin/gerlin/content"
)

// Catalog is the content bundled with the site: gallery photos found under
// the static directory and the press archive manifest.
type Catalog struct {
	Photos    []content.Photo
	Documents []content.Document
	Articles  []PressArticle
}

var galleryExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true}

// LoadCatalog scans static for gallery/<category>/<file> images and parses
// the embedded press manifest.
func LoadCatalog(static fs.FS) (*Catalog, error) {
	photos, err := scanGallery(static)
	if err != nil {
		return nil, err
	}
	raw, err := fs.ReadFile(contentFS, "press.yaml")
	if err != nil {
		return nil, fmt.Errorf("read press manifest: %w", err)
	}
	docs, articles, err := parsePressManifest(raw)
	if err != nil {
		return nil, err
	}
	return &Catalog{Photos: photos, Documents: docs, Articles: articles}, nil
}

// scanGallery lists the bundled gallery images in category order. Files in
// directories that are not a known category are ignored.
func scanGallery(static fs.FS) ([]content.Photo, error) {
	var photos []content.Photo
	for _, cat := range content.Categories {
		dir := path.Join("gallery", string(cat))
		entries, err := fs.ReadDir(static, dir)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("scan %s: %w", dir, err)
		}
		for _, e := range entries {
			if e.IsDir() || !galleryExts[strings.ToLower(path.Ext(e.Name()))] {
				continue
			}
			rel := path.Join(dir, e.Name())
			photos = append(photos, content.Photo{
				ID:       rel,
				URL:      "/static/" + rel,
				Caption:  CaptionFromFilename(e.Name()),
				Category: cat,
			})
		}
	}
	return photos, nil
}

// CaptionFromFilename turns "festa_di-paese.jpg" into "Festa di paese".
func CaptionFromFilename(name string) string {
	base := strings.TrimSuffix(name, path.Ext(name))
	base = strings.NewReplacer("-", " ", "_", " ").Replace(base)
	base = strings.Join(strings.Fields(base), " ")
	r, size := utf8.DecodeRuneInString(base)
	if r == utf8.RuneError {
		return base
	}
	return string(unicode.ToUpper(r)) + base[size:]
}

type pressManifest struct {
	Documents []struct {
		Title       string `yaml:"title"`
		Description string `yaml:"description"`
		URL         string `yaml:"url"`
	} `yaml:"documents"`
	Articles []PressArticle `yaml:"articles"`
}

func parsePressManifest(raw []byte) ([]content.Document, []PressArticle, error) {
	var m pressManifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, nil, fmt.Errorf("parse press manifest: %w", err)
	}
	docs := make([]content.Document, 0, len(m.Documents))
	for i, d := range m.Documents {
		if d.Title == "" || !content.ResolvableURL(d.URL) {
			return nil, nil, fmt.Errorf("press manifest: document %d is missing a title or a valid url", i+1)
		}
		docs = append(docs, content.Document{
			ID:          fmt.Sprintf("archive-%d", i+1),
			Title:       d.Title,
			Description: d.Description,
			URL:         d.URL,
		})
	}
	return docs, m.Articles, nil
}
