package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/donmariogerlin/gerlin/backend"
)

// PasswordHash returns the stored bcrypt hash for the admin with the given
// email, or backend.ErrNotFound.
func (s *Store) PasswordHash(ctx context.Context, email string) (string, error) {
	var hash string
	err := s.db.GetContext(ctx, &hash, s.q(`SELECT password_hash FROM admins WHERE email = ?`), normalizeEmail(email))
	if errors.Is(err, sql.ErrNoRows) {
		return "", backend.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get admin: %w", err)
	}
	return hash, nil
}

// SetPasswordHash creates the admin account or replaces its password hash.
func (s *Store) SetPasswordHash(ctx context.Context, email, hash string) error {
	_, err := s.db.ExecContext(ctx, s.q(`
INSERT INTO admins (email, password_hash, created_at) VALUES (?, ?, ?)
ON CONFLICT (email) DO UPDATE SET password_hash = excluded.password_hash`),
		normalizeEmail(email), hash, s.stamp())
	if err != nil {
		return fmt.Errorf("save admin: %w", err)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
