package sqlstore

import (
	"context"
	"fmt"

	"github.com/donmariogerlin/gerlin/content"
)

type photoRow struct {
	ID        string `db:"id"`
	URL       string `db:"url"`
	Caption   string `db:"caption"`
	Category  string `db:"category"`
	CreatedAt int64  `db:"created_at"`
}

func (r photoRow) photo() content.Photo {
	return content.Photo{
		ID:        r.ID,
		URL:       r.URL,
		Caption:   r.Caption,
		Category:  content.Category(r.Category),
		CreatedAt: fromStamp(r.CreatedAt),
	}
}

// ListPhotos returns all photos ordered by creation time, newest first.
func (s *Store) ListPhotos(ctx context.Context) ([]content.Photo, error) {
	var rows []photoRow
	err := s.db.SelectContext(ctx, &rows, `SELECT id, url, caption, category, created_at FROM photos ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list photos: %w", err)
	}
	photos := make([]content.Photo, 0, len(rows))
	for _, r := range rows {
		photos = append(photos, r.photo())
	}
	return photos, nil
}

// InsertPhoto stores a new photo and returns it with its assigned id.
func (s *Store) InsertPhoto(ctx context.Context, p content.Photo) (content.Photo, error) {
	if p.Category == "" {
		p.Category = content.DefaultCategory
	}
	row := photoRow{
		ID:        s.newID(),
		URL:       p.URL,
		Caption:   p.Caption,
		Category:  string(p.Category),
		CreatedAt: s.stamp(),
	}
	_, err := s.db.NamedExecContext(ctx, `INSERT INTO photos (id, url, caption, category, created_at) VALUES (:id, :url, :caption, :category, :created_at)`, row)
	if err != nil {
		return content.Photo{}, fmt.Errorf("insert photo: %w", err)
	}
	return row.photo(), nil
}

// UpdatePhoto overwrites url, caption and category of the photo with p.ID.
func (s *Store) UpdatePhoto(ctx context.Context, p content.Photo) error {
	if p.ID == "" {
		return fmt.Errorf("update photo: %w", errEmptyID)
	}
	err := expectOne(s.db.ExecContext(ctx, s.q(`UPDATE photos SET url = ?, caption = ?, category = ? WHERE id = ?`),
		p.URL, p.Caption, string(p.Category), p.ID))
	if err != nil {
		return fmt.Errorf("update photo %s: %w", p.ID, err)
	}
	return nil
}

// DeletePhoto removes the photo row with the given id.
func (s *Store) DeletePhoto(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("delete photo: %w", errEmptyID)
	}
	if err := expectOne(s.db.ExecContext(ctx, s.q(`DELETE FROM photos WHERE id = ?`), id)); err != nil {
		return fmt.Errorf("delete photo %s: %w", id, err)
	}
	return nil
}
