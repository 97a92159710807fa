package types

import "time"

// Config is the full research-view configuration, read by viper from
// research-view.yaml, RESEARCH_VIEW_* environment variables and flags.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" yaml:"server"`
	Catalog  CatalogConfig  `mapstructure:"catalog" yaml:"catalog"`
	Cache    CacheConfig    `mapstructure:"cache" yaml:"cache"`
	Upstream UpstreamConfig `mapstructure:"upstream" yaml:"upstream"`
	View     ViewConfig     `mapstructure:"view" yaml:"view"`
	Logging  LoggingConfig  `mapstructure:"logging" yaml:"logging"`

	// SecretsDir holds one file per credential (see internal/secrets).
	SecretsDir string `mapstructure:"secrets_dir" yaml:"secrets_dir"`
}

// HTTPConfig holds shared HTTP client settings.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `mapstructure:"timeout" json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string `mapstructure:"user_agent" json:"user_agent" yaml:"user_agent"`
}

// ServerConfig holds settings for the HTTP server.
type ServerConfig struct {
	Address         string        `mapstructure:"address" yaml:"address" validate:"required"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" yaml:"read_timeout" validate:"gte=0"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" yaml:"write_timeout" validate:"gte=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout" validate:"gte=0"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins" yaml:"allowed_origins"`

	// RateLimit is the sustained request rate per second; zero disables limiting.
	RateLimit float64 `mapstructure:"rate_limit" yaml:"rate_limit" validate:"gte=0"`
	RateBurst int     `mapstructure:"rate_burst" yaml:"rate_burst" validate:"gte=0"`

	// AssetBase is the URL prefix result pages load app.js and app.css
	// from, for deployments behind a path prefix or a CDN.
	AssetBase string `mapstructure:"asset_base" yaml:"asset_base"`
}

// CatalogConfig holds settings for the local article catalog.
type CatalogConfig struct {
	// Path is the SQLite database file.
	Path string `mapstructure:"path" yaml:"path" validate:"required"`

	// DefaultMaxResults applies when a query does not set max_results.
	DefaultMaxResults int `mapstructure:"default_max_results" yaml:"default_max_results" validate:"gte=-1"`

	// DefaultThreshold is high, medium or low.
	DefaultThreshold string `mapstructure:"default_threshold" yaml:"default_threshold" validate:"omitempty,oneof=high medium low"`
}

// CacheConfig selects and tunes the raw response cache.
type CacheConfig struct {
	// Type is none, bbolt or redis.
	Type            string        `mapstructure:"type" yaml:"type" validate:"omitempty,oneof=none disabled bbolt redis"`
	Path            string        `mapstructure:"path" yaml:"path"`
	RedisAddr       string        `mapstructure:"redis_addr" yaml:"redis_addr"`
	RedisPassword   string        `mapstructure:"redis_password" yaml:"redis_password,omitempty"`
	RedisDB         int           `mapstructure:"redis_db" yaml:"redis_db"`
	TTL             time.Duration `mapstructure:"ttl" yaml:"ttl" validate:"gte=0"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval" yaml:"cleanup_interval"`
}

// UpstreamConfig points the page renderer at a remote search API. An empty
// BaseURL means the local catalog answers searches in-process.
type UpstreamConfig struct {
	HTTPConfig `mapstructure:",squash" yaml:",inline"`

	BaseURL    string `mapstructure:"base_url" yaml:"base_url" validate:"omitempty,url"`
	MaxRetries int    `mapstructure:"max_retries" yaml:"max_retries" validate:"gte=0"`

	// APIKey is sent as a bearer token. Usually loaded from the secrets
	// directory rather than the config file.
	APIKey string `mapstructure:"api_key" yaml:"api_key,omitempty"`
}

// ViewConfig controls the rendered result page.
type ViewConfig struct {
	// Language is "en" or "tr".
	Language string `mapstructure:"language" yaml:"language" validate:"omitempty,oneof=en tr"`

	// DefaultSources are searched when a request names none.
	DefaultSources []string `mapstructure:"default_sources" yaml:"default_sources" validate:"dive,oneof=dergipark trdizin yoktez"`
}

// LoggingConfig controls the zerolog logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format" validate:"omitempty,oneof=json console pretty"`
	Output string `mapstructure:"output" yaml:"output"`
}
