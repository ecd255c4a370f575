package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/noah-isme/dominest-api/pkg/config"
)

// ErrObjectNotFound is returned when a path holds no stored object.
var ErrObjectNotFound = errors.New("storage: object not found")

// Store reads and writes opaque blobs under slash separated relative paths.
type Store interface {
	Save(ctx context.Context, path string, data []byte) error
	Read(ctx context.Context, path string) ([]byte, error)
	Delete(ctx context.Context, path string) error
}

// New returns the document store selected by cfg.Storage.Driver.
func New(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	switch cfg.Driver {
	case "", config.StorageDriverLocal:
		return NewLocalStorage(cfg.LocalDir)
	case config.StorageDriverS3:
		return NewS3Storage(ctx, S3Options{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			Prefix:    cfg.S3Prefix,
			AccessKey: cfg.S3Access,
			SecretKey: cfg.S3Secret,
		})
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
