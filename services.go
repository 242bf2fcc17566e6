package gerlin

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/donmariogerlin/gerlin/backend"
	"github.com/donmariogerlin/gerlin/backend/auth"
	"github.com/donmariogerlin/gerlin/backend/auth/redisreg"
	"github.com/donmariogerlin/gerlin/backend/objstore/gcs"
	"github.com/donmariogerlin/gerlin/backend/objstore/local"
	"github.com/donmariogerlin/gerlin/backend/objstore/s3"
	"github.com/donmariogerlin/gerlin/backend/sqlstore"
)

// Services are the backend dependencies of the App.
type Services struct {
	Tables   backend.Tables
	Messages backend.MessageTable
	Storage  backend.ObjectStorage
	Auth     backend.Auth

	closers []func() error
}

// Close releases the connections opened by OpenServices.
func (s *Services) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i]())
	}
	return errors.Join(errs...)
}

// OpenServices connects the database, the object storage and the session
// registry described by cfg.
func OpenServices(ctx context.Context, cfg SiteConfig, logger zerolog.Logger) (*Services, error) {
	svc := &Services{}
	ok := false
	defer func() {
		if !ok {
			svc.Close()
		}
	}()

	store, err := sqlstore.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	svc.closers = append(svc.closers, store.Close)
	svc.Tables = store
	svc.Messages = store
	logger.Info().Str("driver", cfg.Database.Driver).Msg("database ready")

	svc.Storage, err = openStorage(ctx, cfg.Storage, svc)
	if err != nil {
		return nil, err
	}
	logger.Info().Str("driver", cfg.Storage.Driver).Str("public_url", svc.Storage.PublicURL("")).Msg("object storage ready")

	var registry auth.Registry
	if cfg.Auth.RedisAddr != "" {
		reg, err := redisreg.Dial(ctx, cfg.Auth.RedisAddr, cfg.Auth.RedisPassword, cfg.Auth.RedisDB)
		if err != nil {
			return nil, err
		}
		svc.closers = append(svc.closers, reg.Close)
		registry = reg
		logger.Info().Str("addr", cfg.Auth.RedisAddr).Msg("session registry on redis")
	} else {
		registry = auth.NewMemoryRegistry()
	}
	svc.Auth, err = auth.New(store, registry, []byte(cfg.Auth.TokenSecret), cfg.Auth.TokenTTL)
	if err != nil {
		return nil, err
	}

	ok = true
	return svc, nil
}

func openStorage(ctx context.Context, cfg StorageConfig, svc *Services) (backend.ObjectStorage, error) {
	switch cfg.Driver {
	case StorageLocal:
		st, err := local.New(cfg.Dir, cfg.PublicURL)
		if err != nil {
			return nil, err
		}
		return st, nil
	case StorageS3:
		st, err := s3.New(s3.Config{
			Endpoint:        cfg.Endpoint,
			AccessKeyID:     cfg.AccessKeyID,
			SecretAccessKey: cfg.SecretAccessKey,
			UseSSL:          cfg.UseSSL,
			Bucket:          cfg.Bucket,
			PublicURL:       cfg.PublicURL,
		})
		if err != nil {
			return nil, err
		}
		if err := st.Check(ctx); err != nil {
			return nil, err
		}
		return st, nil
	case StorageGCS:
		st, err := gcs.New(ctx, cfg.Bucket, cfg.PublicURL)
		if err != nil {
			return nil, err
		}
		svc.closers = append(svc.closers, st.Close)
		return st, nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
}
