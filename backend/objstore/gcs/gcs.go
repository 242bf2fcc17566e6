// Package gcs stores uploaded files in a Google Cloud Storage bucket.
// Credentials come from the environment (Application Default Credentials).
package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"

	"github.com/donmariogerlin/gerlin/backend"
)

var _ backend.ObjectStorage = (*Storage)(nil)

type Storage struct {
	client        *storage.Client
	bucketName    string
	basePublicURL string
}

// New connects to GCS. publicURL is the base URL objects are served from,
// typically "https://storage.googleapis.com/<bucket>".
func New(ctx context.Context, bucket, publicURL string) (*Storage, error) {
	if bucket == "" {
		return nil, errors.New("gcs: bucket name is required")
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("gcs client: %w", err)
	}
	if publicURL == "" {
		publicURL = "https://storage.googleapis.com/" + bucket
	}
	return &Storage{
		client:        client,
		bucketName:    bucket,
		basePublicURL: strings.TrimSuffix(publicURL, "/"),
	}, nil
}

func (s *Storage) Close() error {
	return s.client.Close()
}

func (s *Storage) Upload(ctx context.Context, name, contentType string, r io.Reader, size int64) error {
	w := s.client.Bucket(s.bucketName).Object(name).NewWriter(ctx)
	w.ContentType = contentType

	n, err := io.Copy(w, r)
	if err != nil {
		w.Close()
		return fmt.Errorf("write object %s after %d bytes: %w", name, n, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close object writer %s: %w", name, err)
	}
	return nil
}

func (s *Storage) PublicURL(name string) string {
	return s.basePublicURL + "/" + name
}

func (s *Storage) Remove(ctx context.Context, names ...string) error {
	bucket := s.client.Bucket(s.bucketName)
	var errs []error
	for _, name := range names {
		err := bucket.Object(name).Delete(ctx)
		if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
			errs = append(errs, fmt.Errorf("delete object %s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}
