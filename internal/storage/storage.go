// Package storage writes variant bytes to the local filesystem or to an
// S3 compatible bucket.
package storage

import (
	"context"
	"mime"
	"path"

	"github.com/rs/zerolog"

	"github.com/AnyUserName/imgvariant/internal/config"
	"github.com/AnyUserName/imgvariant/internal/fault"
)

// Sink stores variant bytes under a slash separated key.
type Sink interface {
	Write(ctx context.Context, key string, data []byte) error
	// Describe names the sink for logs and manifests.
	Describe() string
}

// New builds the sink selected by cfg.Driver.
func New(ctx context.Context, cfg config.StorageConfig, log zerolog.Logger) (Sink, error) {
	switch cfg.Driver {
	case "local":
		if cfg.Dir == "" {
			return nil, fault.Configuration("open storage", "storage.dir is required for local storage")
		}
		return NewLocal(cfg.Dir), nil
	case "s3":
		return NewS3(ctx, cfg.S3, log)
	case "":
		return nil, fault.Configuration("open storage", "no storage sink configured")
	default:
		return nil, fault.Configuration("open storage", "unknown storage driver %q", cfg.Driver)
	}
}

// ContentType guesses the MIME type of a key from its extension.
func ContentType(key string) string {
	switch path.Ext(key) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	}
	if ct := mime.TypeByExtension(path.Ext(key)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
