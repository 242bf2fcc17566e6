// Package backend declares the remote content service the site is built on:
// a table service for photos, documents and contact messages, an object
// storage for uploaded files, and a password authentication service.
//
// Implementations live in the sub-packages: sqlstore (SQLite or Postgres
// tables), objstore/local, objstore/s3 and objstore/gcs (file storage) and
// auth (bcrypt + signed access tokens).
package backend

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/donmariogerlin/gerlin/content"
)

var (
	// ErrNotFound is returned when the addressed record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidCredentials is returned by SignInWithPassword on a bad
	// email/password pair.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNoSession is returned by GetSession when the token does not map to
	// an active session.
	ErrNoSession = errors.New("no active session")
)

// PhotoTable stores gallery photos.
type PhotoTable interface {
	// ListPhotos returns every photo, most recently created first.
	ListPhotos(ctx context.Context) ([]content.Photo, error)
	// InsertPhoto stores p and returns it with ID and CreatedAt assigned.
	InsertPhoto(ctx context.Context, p content.Photo) (content.Photo, error)
	// UpdatePhoto overwrites every field of the photo with p.ID.
	UpdatePhoto(ctx context.Context, p content.Photo) error
	DeletePhoto(ctx context.Context, id string) error
}

// DocumentTable stores press archive documents.
type DocumentTable interface {
	ListDocuments(ctx context.Context) ([]content.Document, error)
	InsertDocument(ctx context.Context, d content.Document) (content.Document, error)
	UpdateDocument(ctx context.Context, d content.Document) error
	DeleteDocument(ctx context.Context, id string) error
}

// MessageTable stores contact form submissions.
type MessageTable interface {
	InsertMessage(ctx context.Context, m content.ContactMessage) (content.ContactMessage, error)
}

// Tables bundles the content tables the admin panel works on.
type Tables interface {
	PhotoTable
	DocumentTable
}

// ObjectStorage stores uploaded files in a single bucket.
type ObjectStorage interface {
	// Upload writes the object called name. size may be -1 when unknown.
	Upload(ctx context.Context, name, contentType string, r io.Reader, size int64) error
	// PublicURL returns the URL under which the object is served.
	PublicURL(name string) string
	// Remove deletes the named objects. Missing objects are not an error.
	Remove(ctx context.Context, names ...string) error
}

// ObjectName reports whether rawURL points into the storage bucket and, if
// so, returns the object name. URLs pasted by the admin that live elsewhere
// are never claimed.
func ObjectName(s ObjectStorage, rawURL string) (string, bool) {
	prefix := strings.TrimSuffix(s.PublicURL(""), "/") + "/"
	if prefix == "/" || !strings.HasPrefix(rawURL, prefix) {
		return "", false
	}
	name := strings.TrimPrefix(rawURL, prefix)
	if i := strings.IndexAny(name, "?#"); i >= 0 {
		name = name[:i]
	}
	if name == "" || strings.Contains(name, "..") {
		return "", false
	}
	return name, true
}

// Session is an authenticated admin session.
type Session struct {
	ID        string
	Token     string
	Email     string
	ExpiresAt time.Time
}

// Auth authenticates the site administrators.
type Auth interface {
	// GetSession resolves a token into its session, or ErrNoSession.
	GetSession(ctx context.Context, token string) (*Session, error)
	SignInWithPassword(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context, token string) error
}
