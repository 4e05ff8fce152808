package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnyUserName/imgvariant/internal/fault"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "imgvariant.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "{}\n"))
	require.NoError(t, err)

	assert.Equal(t, "file", cfg.Catalog.Driver)
	assert.Equal(t, "catalog.yaml", cfg.Catalog.Path)
	assert.Equal(t, 60*time.Second, cfg.Catalog.RefreshInterval)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "local", cfg.Storage.Driver)
	assert.Equal(t, "variants", cfg.Storage.Dir)
	assert.True(t, cfg.Storage.S3.UsePathStyle)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Empty(t, cfg.PathProperties)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
host: https://cdn.example.com
base: uploads
path_properties: [tenant, user]
workers: 3
catalog:
  driver: store
  refresh_interval: 30s
store:
  driver: postgres
  dsn: postgres://localhost/imgvariant
storage:
  driver: s3
  s3:
    endpoint: http://localhost:9000
    bucket: media
logging:
  level: debug
  format: json
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.example.com", cfg.Host)
	assert.Equal(t, "uploads", cfg.Base)
	assert.Equal(t, []string{"tenant", "user"}, cfg.PathProperties)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, "store", cfg.Catalog.Driver)
	assert.Equal(t, 30*time.Second, cfg.Catalog.RefreshInterval)
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "media", cfg.Storage.S3.Bucket)
	assert.Equal(t, "us-east-1", cfg.Storage.S3.Region)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("IMGVARIANT_HOST", "https://img.example.org")
	t.Setenv("IMGVARIANT_STORAGE_DIR", "/srv/variants")
	t.Setenv("IMGVARIANT_LOGGING_LEVEL", "warn")

	cfg, err := Load(writeConfig(t, "host: ignored\n"))
	require.NoError(t, err)

	assert.Equal(t, "https://img.example.org", cfg.Host)
	assert.Equal(t, "/srv/variants", cfg.Storage.Dir)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"catalog driver", "catalog: {driver: ftp}\n", "invalid catalog driver"},
		{"store driver", "store: {driver: mysql}\n", "invalid store driver"},
		{"store catalog without store", "catalog: {driver: store}\nstore: {driver: ''}\n", "needs store.driver"},
		{"s3 without bucket", "storage: {driver: s3}\n", "storage.s3.bucket"},
		{"storage driver", "storage: {driver: ftp}\n", "invalid storage driver"},
		{"log level", "logging: {level: loud}\n", "invalid logging level"},
		{"log format", "logging: {format: xml}\n", "invalid logging format"},
		{"workers", "workers: -1\n", "workers must not be negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.True(t, errors.Is(err, fault.ErrConfiguration))
		})
	}
}
