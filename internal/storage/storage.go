// Package storage stores exported traversal artifacts, either on the local
// filesystem or in Tencent Cloud COS.
package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/bssrdf/boxtree/pkg/config"
)

// Storage defines the operations needed for traversal artifacts.
type Storage interface {
	// Upload uploads data from reader to the specified key.
	Upload(ctx context.Context, key string, reader io.Reader) error

	// UploadFile uploads a local file to the specified key.
	UploadFile(ctx context.Context, key string, localPath string) error

	// Download downloads data from the specified key.
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// Exists checks if an object exists at the specified key.
	Exists(ctx context.Context, key string) (bool, error)

	// GetURL returns the URL (or path) for the specified key.
	GetURL(key string) string
}

// Type represents the storage backend.
type Type string

const (
	TypeLocal Type = "local"
	TypeCOS   Type = "cos"
)

// New creates a Storage instance based on the configuration.
func New(cfg *config.StorageConfig) (Storage, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	switch Type(cfg.Type) {
	case TypeCOS:
		return NewCOSStorage(&COSConfig{
			Bucket:    cfg.Bucket,
			Region:    cfg.Region,
			SecretID:  cfg.SecretID,
			SecretKey: cfg.SecretKey,
			Domain:    cfg.Domain,
			Scheme:    cfg.Scheme,
		})
	default:
		return NewLocalStorage(cfg.LocalPath)
	}
}

// ValidateConfig validates the storage configuration.
func ValidateConfig(cfg *config.StorageConfig) error {
	if cfg == nil {
		return fmt.Errorf("storage config is nil")
	}

	storageType := Type(cfg.Type)
	if storageType == "" {
		storageType = TypeLocal
	}

	switch storageType {
	case TypeLocal:
		if cfg.LocalPath == "" {
			return fmt.Errorf("local storage path is required")
		}
	case TypeCOS:
		if cfg.Bucket == "" || cfg.Region == "" {
			return fmt.Errorf("COS bucket and region are required")
		}
		if cfg.SecretID == "" || cfg.SecretKey == "" {
			return fmt.Errorf("COS credentials are required")
		}
	default:
		return fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}

	return nil
}
