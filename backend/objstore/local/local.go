// Package local stores uploaded files on the local filesystem. The site
// serves the directory under a fixed URL prefix.
package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/donmariogerlin/gerlin/backend"
)

var _ backend.ObjectStorage = (*Storage)(nil)

var errTraversal = errors.New("path traversal attempt")

// Storage writes objects below dir. baseURL is the URL prefix the directory
// is served under, e.g. "/uploads".
type Storage struct {
	dir     string
	baseURL string
}

func New(dir, baseURL string) (*Storage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}
	return &Storage{dir: dir, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

// Dir returns the directory the objects are stored in.
func (s *Storage) Dir() string { return s.dir }

func (s *Storage) Upload(ctx context.Context, name, contentType string, r io.Reader, size int64) error {
	path, err := s.safeJoin(name)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create object %s: %w", name, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("write object %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("close object %s: %w", name, err)
	}
	return nil
}

func (s *Storage) PublicURL(name string) string {
	return s.baseURL + "/" + name
}

func (s *Storage) Remove(ctx context.Context, names ...string) error {
	var errs []error
	for _, name := range names {
		path, err := s.safeJoin(name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			errs = append(errs, fmt.Errorf("remove object %s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// safeJoin resolves name relative to dir and rejects anything escaping it.
func (s *Storage) safeJoin(name string) (string, error) {
	absBase, err := filepath.Abs(s.dir)
	if err != nil {
		return "", fmt.Errorf("invalid base path: %w", err)
	}
	absPath, err := filepath.Abs(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("invalid path: %w", err)
	}
	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) {
		return "", errTraversal
	}
	return absPath, nil
}
