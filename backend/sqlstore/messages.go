package sqlstore

import (
	"context"
	"fmt"

	"github.com/donmariogerlin/gerlin/content"
)

// InsertMessage stores a contact form submission.
func (s *Store) InsertMessage(ctx context.Context, m content.ContactMessage) (content.ContactMessage, error) {
	m.ID = s.newID()
	stamp := s.stamp()
	m.CreatedAt = fromStamp(stamp)
	_, err := s.db.ExecContext(ctx, s.q(`INSERT INTO contact_messages (id, name, email, message, created_at) VALUES (?, ?, ?, ?, ?)`),
		m.ID, m.Name, m.Email, m.Message, stamp)
	if err != nil {
		return content.ContactMessage{}, fmt.Errorf("insert contact message: %w", err)
	}
	return m, nil
}
