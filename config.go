package gerlin

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Storage drivers.
const (
	StorageLocal = "local"
	StorageS3    = "s3"
	StorageGCS   = "gcs"
)

// SiteConfig holds all configuration for the site.
type SiteConfig struct {
	Name        string `mapstructure:"name"`        // Site name
	URL         string `mapstructure:"url"`         // Canonical URL (default "http://localhost:3000")
	Description string `mapstructure:"description"` // Site description for RSS and meta tags

	Addr      string `mapstructure:"addr"`       // Listen address (default ":3000")
	StaticDir string `mapstructure:"static_dir"` // Static assets, including gallery/<category>/ (default "public")

	SessionSecret string `mapstructure:"session_secret"` // Required: cookie session secret
	CookieSecure  bool   `mapstructure:"cookie_secure"`  // Set true for HTTPS

	CacheTTL      time.Duration `mapstructure:"cache_ttl"`      // Public content cache TTL (default 5m)
	WorkspaceIdle time.Duration `mapstructure:"workspace_idle"` // Admin workspace idle timeout (default 2h)

	Log      LogConfig      `mapstructure:"log"`
	Database DatabaseConfig `mapstructure:"database"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Auth     AuthConfig     `mapstructure:"auth"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"` // "sqlite" (default) or "postgres"
	DSN    string `mapstructure:"dsn"`    // SQLite path or Postgres connection string
}

type StorageConfig struct {
	Driver    string `mapstructure:"driver"`     // "local" (default), "s3" or "gcs"
	Dir       string `mapstructure:"dir"`        // local: upload directory
	PublicURL string `mapstructure:"public_url"` // base URL objects are served from

	Bucket          string `mapstructure:"bucket"`
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

type AuthConfig struct {
	TokenSecret   string        `mapstructure:"token_secret"` // Required: access token signing key
	TokenTTL      time.Duration `mapstructure:"token_ttl"`
	RedisAddr     string        `mapstructure:"redis_addr"` // session registry; in memory when empty
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Associazione Don Mario Gerlin"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	c.URL = strings.TrimSuffix(c.URL, "/")
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.StaticDir == "" {
		c.StaticDir = "public"
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = 5 * time.Minute
	}
	if c.WorkspaceIdle == 0 {
		c.WorkspaceIdle = 2 * time.Hour
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "sqlite"
	}
	if c.Database.DSN == "" && c.Database.Driver == "sqlite" {
		c.Database.DSN = "data/gerlin.db"
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = StorageLocal
	}
	if c.Storage.Driver == StorageLocal {
		if c.Storage.Dir == "" {
			c.Storage.Dir = "data/uploads"
		}
		if c.Storage.PublicURL == "" {
			c.Storage.PublicURL = "/uploads"
		}
	}
}

// Validate reports missing required settings.
func (c SiteConfig) Validate() error {
	var errs []error
	if c.SessionSecret == "" {
		errs = append(errs, errors.New("session_secret is required"))
	}
	if c.Auth.TokenSecret == "" {
		errs = append(errs, errors.New("auth.token_secret is required"))
	}
	switch c.Storage.Driver {
	case StorageLocal, StorageS3, StorageGCS:
	default:
		errs = append(errs, fmt.Errorf("unknown storage driver %q", c.Storage.Driver))
	}
	if c.Storage.Driver != StorageLocal && c.Storage.Bucket == "" {
		errs = append(errs, errors.New("storage.bucket is required"))
	}
	if c.Storage.Driver == StorageS3 && c.Storage.PublicURL == "" {
		errs = append(errs, errors.New("storage.public_url is required for s3"))
	}
	return errors.Join(errs...)
}

// configKeys lists every setting so that environment variables are bound
// even when no config file mentions the key.
var configKeys = []string{
	"name", "url", "description", "addr", "static_dir",
	"session_secret", "cookie_secure", "cache_ttl", "workspace_idle",
	"log.level", "log.pretty",
	"database.driver", "database.dsn",
	"storage.driver", "storage.dir", "storage.public_url", "storage.bucket",
	"storage.endpoint", "storage.access_key_id", "storage.secret_access_key", "storage.use_ssl",
	"auth.token_secret", "auth.token_ttl", "auth.redis_addr", "auth.redis_password", "auth.redis_db",
}

// LoadConfig reads the optional YAML file at path, overlays GERLIN_*
// environment variables (GERLIN_DATABASE_DSN for database.dsn) and applies
// defaults.
func LoadConfig(path string) (SiteConfig, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("GERLIN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, k := range configKeys {
		if err := v.BindEnv(k); err != nil {
			return SiteConfig{}, fmt.Errorf("bind %s: %w", k, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return SiteConfig{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg SiteConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return SiteConfig{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return SiteConfig{}, err
	}
	return cfg, nil
}

// NewLogger builds the application logger and installs it as the zerolog
// global logger.
func NewLogger(level string, pretty bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	var logger zerolog.Logger
	if pretty {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	} else {
		logger = zerolog.New(os.Stderr)
	}
	logger = logger.Level(lvl).With().Timestamp().Logger()
	log.Logger = logger
	return logger
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithLogger sets the application logger (default: disabled).
func WithLogger(l zerolog.Logger) Option {
	return func(a *App) {
		a.Logger = l
	}
}
