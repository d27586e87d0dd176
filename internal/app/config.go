package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Storage and backup drivers.
const (
	StorageFile     = "file"
	StoragePostgres = "postgres"
	BackupLocal     = "local"
	BackupS3        = "s3"
)

// Config holds runtime configuration for the application.
type Config struct {
	AppEnv            string        `envconfig:"APP_ENV" default:"development"`
	AppAddr           string        `envconfig:"APP_ADDR" default:":8080"`
	AppReadTimeout    time.Duration `envconfig:"APP_READ_TIMEOUT" default:"15s"`
	AppWriteTimeout   time.Duration `envconfig:"APP_WRITE_TIMEOUT" default:"30s"`
	AppRequestTimeout time.Duration `envconfig:"APP_REQUEST_TIMEOUT" default:"30s"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`

	StorageDriver string `envconfig:"STORAGE_DRIVER" default:"file"`
	DataFile      string `envconfig:"DATA_FILE" default:"data/mudir.json"`
	PGDSN         string `envconfig:"PG_DSN"`

	// RedisAddr enables the search cache and the job queue when set.
	RedisAddr      string        `envconfig:"REDIS_ADDR"`
	SearchCacheTTL time.Duration `envconfig:"SEARCH_CACHE_TTL" default:"5m"`

	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	RateLimitPerMinute int      `envconfig:"RATE_LIMIT_PER_MINUTE" default:"120"`

	BackupDriver   string `envconfig:"BACKUP_DRIVER" default:"local"`
	BackupDir      string `envconfig:"BACKUP_DIR" default:"data/backups"`
	BackupBucket   string `envconfig:"BACKUP_BUCKET"`
	BackupRegion   string `envconfig:"BACKUP_REGION" default:"us-east-1"`
	BackupEndpoint string `envconfig:"BACKUP_ENDPOINT"`
	BackupCron     string `envconfig:"BACKUP_CRON" default:"0 3 * * *"`
	BackupKeep     int    `envconfig:"BACKUP_KEEP" default:"7"`

	DefaultCurrency string `envconfig:"DEFAULT_CURRENCY" default:"₹"`
	DateLocation    string `envconfig:"DATE_LOCATION" default:"Local"`

	WorkerConcurrency int    `envconfig:"WORKER_CONCURRENCY" default:"2"`
	WorkerMetricsAddr string `envconfig:"WORKER_METRICS_ADDR" default:":9091"`
}

// LoadConfig reads configuration from environment variables. A .env file in
// the working directory is applied first; variables already set win.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.StorageDriver {
	case StorageFile:
		if c.DataFile == "" {
			return errors.New("DATA_FILE must be provided for file storage")
		}
	case StoragePostgres:
		if c.PGDSN == "" {
			return errors.New("PG_DSN must be provided for postgres storage")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	switch c.BackupDriver {
	case BackupLocal:
	case BackupS3:
		if c.BackupBucket == "" {
			return errors.New("BACKUP_BUCKET must be provided for s3 backups")
		}
	default:
		return fmt.Errorf("unknown BACKUP_DRIVER %q", c.BackupDriver)
	}
	if c.RateLimitPerMinute < 0 {
		return errors.New("RATE_LIMIT_PER_MINUTE must not be negative")
	}
	if _, err := time.LoadLocation(c.DateLocation); err != nil {
		return fmt.Errorf("DATE_LOCATION: %w", err)
	}
	return nil
}

// Location resolves DateLocation, falling back to the process zone.
func (c *Config) Location() *time.Location {
	if c == nil {
		return time.Local
	}
	loc, err := time.LoadLocation(c.DateLocation)
	if err != nil {
		return time.Local
	}
	return loc
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}
