package content

import "strings"

// FilterAll is the gallery filter value that shows every photo.
const FilterAll = "tutti"

// Gallery is the result of filtering the public photo set.
type Gallery struct {
	Filter string
	Photos []Photo
	// Empty is set when the filter matched nothing; the page shows a
	// "no results" notice instead of the grid.
	Empty bool
}

// MergePhotos concatenates bundled photos and remote ones. Duplicates are
// kept.
func MergePhotos(bundled, remote []Photo) []Photo {
	out := make([]Photo, 0, len(bundled)+len(remote))
	out = append(out, bundled...)
	return append(out, remote...)
}

// MergeDocuments puts remote documents before the bundled press archive.
func MergeDocuments(remote, bundled []Document) []Document {
	out := make([]Document, 0, len(bundled)+len(remote))
	out = append(out, remote...)
	return append(out, bundled...)
}

// FilterPhotos keeps the photos whose category equals filter exactly. An
// empty filter or FilterAll keeps everything.
func FilterPhotos(photos []Photo, filter string) Gallery {
	filter = strings.TrimSpace(filter)
	if filter == "" {
		filter = FilterAll
	}
	g := Gallery{Filter: filter}
	if filter == FilterAll {
		g.Photos = photos
	} else {
		for _, p := range photos {
			if string(p.Category) == filter {
				g.Photos = append(g.Photos, p)
			}
		}
	}
	g.Empty = len(g.Photos) == 0
	return g
}

// Lightbox is a cursor over n items that wraps around at both ends.
type Lightbox struct {
	n   int
	pos int
}

// NewLightbox opens a lightbox over n items at index i. Out of range
// indexes are wrapped into [0, n).
func NewLightbox(n, i int) Lightbox {
	lb := Lightbox{n: n}
	if n > 0 {
		lb.pos = wrap(i, n)
	}
	return lb
}

// Index returns the current position.
func (lb Lightbox) Index() int { return lb.pos }

// Len returns the number of items.
func (lb Lightbox) Len() int { return lb.n }

// Next moves forward, from the last item to the first.
func (lb Lightbox) Next() Lightbox {
	if lb.n == 0 {
		return lb
	}
	return Lightbox{n: lb.n, pos: wrap(lb.pos+1, lb.n)}
}

// Prev moves backward, from the first item to the last.
func (lb Lightbox) Prev() Lightbox {
	if lb.n == 0 {
		return lb
	}
	return Lightbox{n: lb.n, pos: wrap(lb.pos-1, lb.n)}
}

func wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
