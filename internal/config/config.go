// Package config provides Viper-based configuration for imgvariant
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/AnyUserName/imgvariant/internal/fault"
)

// Config represents the complete imgvariant configuration
type Config struct {
	// Host prefixes every public src; keys are stored without it.
	Host string `mapstructure:"host" json:"host"`
	// Base is the storage directory every upload path starts from.
	Base string `mapstructure:"base" json:"base"`
	// PathProperties are session keys tried in order to pick the upload
	// directory below Base.
	PathProperties []string `mapstructure:"path_properties" json:"path_properties"`
	Workers        int      `mapstructure:"workers" json:"workers"`

	Catalog CatalogConfig `mapstructure:"catalog" json:"catalog"`
	Store   StoreConfig   `mapstructure:"store" json:"store"`
	Storage StorageConfig `mapstructure:"storage" json:"storage"`
	Logging LoggingConfig `mapstructure:"logging" json:"logging"`
}

// CatalogConfig selects where image types and profiles come from
type CatalogConfig struct {
	Driver          string        `mapstructure:"driver" json:"driver"` // file | store
	Path            string        `mapstructure:"path" json:"path"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval" json:"refresh_interval"`
}

// StoreConfig selects the image record store
type StoreConfig struct {
	Driver string `mapstructure:"driver" json:"driver"` // sqlite | postgres
	DSN    string `mapstructure:"dsn" json:"-"`
}

// StorageConfig selects where variant bytes are written
type StorageConfig struct {
	Driver string   `mapstructure:"driver" json:"driver"` // local | s3
	Dir    string   `mapstructure:"dir" json:"dir"`
	S3     S3Config `mapstructure:"s3" json:"s3"`
}

// S3Config contains S3 / MinIO / R2 settings
type S3Config struct {
	Endpoint        string `mapstructure:"endpoint" json:"endpoint"`
	Region          string `mapstructure:"region" json:"region"`
	Bucket          string `mapstructure:"bucket" json:"bucket"`
	AccessKeyID     string `mapstructure:"access_key_id" json:"-"`
	SecretAccessKey string `mapstructure:"secret_access_key" json:"-"`
	UsePathStyle    bool   `mapstructure:"use_path_style" json:"use_path_style"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level      string `mapstructure:"level" json:"level"`
	Format     string `mapstructure:"format" json:"format"`
	File       string `mapstructure:"file" json:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" json:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups" json:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days" json:"max_age_days"`
}

// Load reads configuration from file and environment variables.
// IMGVARIANT_STORAGE_S3_BUCKET overrides storage.s3.bucket and so on.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(".imgvariant")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/imgvariant")
	}

	v.SetEnvPrefix("IMGVARIANT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fault.Configuration("load config", "reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fault.Configuration("load config", "unmarshaling config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fault.Configuration("load config", "validating config: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values
func setDefaults(v *viper.Viper) {
	v.SetDefault("host", "")
	v.SetDefault("base", "")
	v.SetDefault("path_properties", []string{})
	v.SetDefault("workers", 0)

	v.SetDefault("catalog.driver", "file")
	v.SetDefault("catalog.path", "catalog.yaml")
	v.SetDefault("catalog.refresh_interval", 60*time.Second)

	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.dsn", "imgvariant.db")

	v.SetDefault("storage.driver", "local")
	v.SetDefault("storage.dir", "variants")
	v.SetDefault("storage.s3.endpoint", "")
	v.SetDefault("storage.s3.region", "us-east-1")
	v.SetDefault("storage.s3.bucket", "")
	v.SetDefault("storage.s3.access_key_id", "")
	v.SetDefault("storage.s3.secret_access_key", "")
	v.SetDefault("storage.s3.use_path_style", true)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.file", "")
	v.SetDefault("logging.max_size_mb", 50)
	v.SetDefault("logging.max_backups", 3)
	v.SetDefault("logging.max_age_days", 28)
}

// validate checks the configuration for errors
func validate(cfg *Config) error {
	if cfg.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", cfg.Workers)
	}

	switch cfg.Catalog.Driver {
	case "file":
		if cfg.Catalog.Path == "" {
			return fmt.Errorf("catalog.path is required for the file catalog")
		}
	case "store":
		if cfg.Store.Driver == "" {
			return fmt.Errorf("catalog.driver=store needs store.driver")
		}
	default:
		return fmt.Errorf("invalid catalog driver: %s (must be file or store)", cfg.Catalog.Driver)
	}
	if cfg.Catalog.RefreshInterval < 0 {
		return fmt.Errorf("catalog.refresh_interval must not be negative")
	}

	switch cfg.Store.Driver {
	case "":
	case "sqlite", "postgres":
		if cfg.Store.DSN == "" {
			return fmt.Errorf("store.dsn is required for %s", cfg.Store.Driver)
		}
	default:
		return fmt.Errorf("invalid store driver: %s (must be sqlite or postgres)", cfg.Store.Driver)
	}

	switch cfg.Storage.Driver {
	case "", "local":
	case "s3":
		if cfg.Storage.S3.Bucket == "" {
			return fmt.Errorf("storage.s3.bucket is required for s3 storage")
		}
	default:
		return fmt.Errorf("invalid storage driver: %s (must be local or s3)", cfg.Storage.Driver)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s (must be debug, info, warn, or error)", cfg.Logging.Level)
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s (must be text or json)", cfg.Logging.Format)
	}

	return nil
}
