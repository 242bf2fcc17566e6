package sqlstore

import (
	"context"
	"fmt"

	"github.com/donmariogerlin/gerlin/content"
)

type documentRow struct {
	ID          string `db:"id"`
	Title       string `db:"title"`
	Description string `db:"description"`
	URL         string `db:"url"`
	CreatedAt   int64  `db:"created_at"`
}

func (r documentRow) document() content.Document {
	return content.Document{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		URL:         r.URL,
		CreatedAt:   fromStamp(r.CreatedAt),
	}
}

// ListDocuments returns all documents ordered by creation time, newest first.
func (s *Store) ListDocuments(ctx context.Context) ([]content.Document, error) {
	var rows []documentRow
	err := s.db.SelectContext(ctx, &rows, `SELECT id, title, description, url, created_at FROM documents ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	docs := make([]content.Document, 0, len(rows))
	for _, r := range rows {
		docs = append(docs, r.document())
	}
	return docs, nil
}

func (s *Store) InsertDocument(ctx context.Context, d content.Document) (content.Document, error) {
	row := documentRow{
		ID:          s.newID(),
		Title:       d.Title,
		Description: d.Description,
		URL:         d.URL,
		CreatedAt:   s.stamp(),
	}
	_, err := s.db.NamedExecContext(ctx, `INSERT INTO documents (id, title, description, url, created_at) VALUES (:id, :title, :description, :url, :created_at)`, row)
	if err != nil {
		return content.Document{}, fmt.Errorf("insert document: %w", err)
	}
	return row.document(), nil
}

func (s *Store) UpdateDocument(ctx context.Context, d content.Document) error {
	if d.ID == "" {
		return fmt.Errorf("update document: %w", errEmptyID)
	}
	err := expectOne(s.db.ExecContext(ctx, s.q(`UPDATE documents SET title = ?, description = ?, url = ? WHERE id = ?`),
		d.Title, d.Description, d.URL, d.ID))
	if err != nil {
		return fmt.Errorf("update document %s: %w", d.ID, err)
	}
	return nil
}

func (s *Store) DeleteDocument(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("delete document: %w", errEmptyID)
	}
	if err := expectOne(s.db.ExecContext(ctx, s.q(`DELETE FROM documents WHERE id = ?`), id)); err != nil {
		return fmt.Errorf("delete document %s: %w", id, err)
	}
	return nil
}
