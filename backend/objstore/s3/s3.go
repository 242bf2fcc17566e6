// Package s3 stores uploaded files in an S3-compatible bucket.
package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/donmariogerlin/gerlin/backend"
)

var _ backend.ObjectStorage = (*Storage)(nil)

// Config holds the connection settings of the bucket.
type Config struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	UseSSL          bool
	Bucket          string
	// PublicURL is the base URL objects are served from, without the
	// trailing slash.
	PublicURL string
}

type Storage struct {
	client        *minio.Client
	bucketName    string
	basePublicURL string
}

func New(cfg Config) (*Storage, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3: bucket name is required")
	}
	if cfg.PublicURL == "" {
		return nil, errors.New("s3: public url is required")
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("s3 client: %w", err)
	}
	return &Storage{
		client:        client,
		bucketName:    cfg.Bucket,
		basePublicURL: strings.TrimSuffix(cfg.PublicURL, "/"),
	}, nil
}

// Check verifies that the bucket exists and is reachable.
func (s *Storage) Check(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucketName)
	if err != nil {
		return fmt.Errorf("access bucket %s: %w", s.bucketName, err)
	}
	if !exists {
		return fmt.Errorf("bucket %s does not exist", s.bucketName)
	}
	return nil
}

func (s *Storage) Upload(ctx context.Context, name, contentType string, r io.Reader, size int64) error {
	_, err := s.client.PutObject(ctx, s.bucketName, name, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("put object %s: %w", name, err)
	}
	return nil
}

func (s *Storage) PublicURL(name string) string {
	return s.basePublicURL + "/" + name
}

func (s *Storage) Remove(ctx context.Context, names ...string) error {
	var errs []error
	for _, name := range names {
		// RemoveObject reports success for keys that do not exist.
		if err := s.client.RemoveObject(ctx, s.bucketName, name, minio.RemoveObjectOptions{}); err != nil {
			errs = append(errs, fmt.Errorf("remove object %s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}
