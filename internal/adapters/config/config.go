package config

import (
	"fmt"
	"time"
	_ "time/tzdata" // DISPLAY_TIMEZONE must resolve in minimal images

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"hypeindex/pkg/errors"
)

// Price providers
const (
	ProviderPolygon = "polygon"
	ProviderAlpaca  = "alpaca"
)

// Cache backends
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

type Config struct {
	App           AppConfig
	HTTP          HTTPConfig
	Price         PriceConfig
	Polygon       PolygonConfig
	Alpaca        AlpacaConfig
	Reddit        RedditConfig
	Cache         CacheConfig
	Redis         RedisConfig
	Dashboard     DashboardConfig
	ErrorTracking ErrorTrackingConfig
}

type AppConfig struct {
	Name     string `envconfig:"APP_NAME" default:"hypeindex"`
	Env      string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Version  string `envconfig:"APP_VERSION" default:"dev"`
}

type HTTPConfig struct {
	Port         int           `envconfig:"HTTP_PORT" default:"8080"`
	ReadTimeout  time.Duration `envconfig:"HTTP_READ_TIMEOUT" default:"10s"`
	WriteTimeout time.Duration `envconfig:"HTTP_WRITE_TIMEOUT" default:"60s"`
}

type PriceConfig struct {
	Provider     string        `envconfig:"PRICE_PROVIDER" default:"polygon"`
	LookbackDays int           `envconfig:"PRICE_LOOKBACK_DAYS" default:"90"`
	Timeout      time.Duration `envconfig:"PRICE_TIMEOUT" default:"15s"`
}

// Lookback returns the trailing window of daily bars to request
func (c PriceConfig) Lookback() time.Duration {
	return time.Duration(c.LookbackDays) * 24 * time.Hour
}

type PolygonConfig struct {
	APIKey            string `envconfig:"POLYGON_API_KEY"`
	BaseURL           string `envconfig:"POLYGON_BASE_URL" default:"https://api.polygon.io"`
	RequestsPerMinute int    `envconfig:"POLYGON_REQUESTS_PER_MINUTE" default:"5"` // free tier
}

type AlpacaConfig struct {
	APIKey    string `envconfig:"ALPACA_API_KEY"`
	APISecret string `envconfig:"ALPACA_API_SECRET"`
	DataURL   string `envconfig:"ALPACA_DATA_URL"`
	Feed      string `envconfig:"ALPACA_FEED" default:"iex"`

	RequestsPerMinute int `envconfig:"ALPACA_REQUESTS_PER_MINUTE" default:"200"`
}

type RedditConfig struct {
	BaseURL           string        `envconfig:"REDDIT_BASE_URL" default:"https://www.reddit.com"`
	UserAgent         string        `envconfig:"REDDIT_USER_AGENT"`
	Limit             int           `envconfig:"REDDIT_LIMIT" default:"25"`
	Timeout           time.Duration `envconfig:"REDDIT_TIMEOUT" default:"15s"`
	RequestsPerMinute int           `envconfig:"REDDIT_REQUESTS_PER_MINUTE" default:"30"`
}

type CacheConfig struct {
	Backend string        `envconfig:"CACHE_BACKEND" default:"memory"`
	TTL     time.Duration `envconfig:"CACHE_TTL" default:"60s"`
}

type RedisConfig struct {
	Host      string `envconfig:"REDIS_HOST" default:"localhost"`
	Port      int    `envconfig:"REDIS_PORT" default:"6379"`
	Password  string `envconfig:"REDIS_PASSWORD"`
	DB        int    `envconfig:"REDIS_DB" default:"0"`
	KeyPrefix string `envconfig:"REDIS_KEY_PREFIX" default:"hypeindex:"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type DashboardConfig struct {
	DefaultTicker  string `envconfig:"DEFAULT_TICKER" default:"SOXL"`
	TickerListPath string `envconfig:"TICKER_LIST_PATH"`
	HotUpvotes     int    `envconfig:"HOT_UPVOTES" default:"50"`
	Timezone       string `envconfig:"DISPLAY_TIMEZONE" default:"UTC"`
	RefreshAll     bool   `envconfig:"REFRESH_CLEARS_ALL" default:"true"`
}

// Location resolves the display timezone, falling back to UTC
func (c DashboardConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

type ErrorTrackingConfig struct {
	Enabled     bool   `envconfig:"ERROR_TRACKING_ENABLED" default:"true"`
	SentryDSN   string `envconfig:"SENTRY_DSN"`
	Environment string `envconfig:"SENTRY_ENVIRONMENT" default:"production"`
}

// Load reads configuration from environment variables
// It first tries to load .env file (useful for local development)
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if not exists)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to process env config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks enumerated and numeric settings
func (c *Config) Validate() error {
	var errs errors.MultiError

	switch c.Price.Provider {
	case ProviderPolygon, ProviderAlpaca:
	default:
		errs.Add(errors.NewValidationError("PRICE_PROVIDER", "unknown provider", c.Price.Provider))
	}

	switch c.Cache.Backend {
	case CacheMemory, CacheRedis:
	default:
		errs.Add(errors.NewValidationError("CACHE_BACKEND", "unknown backend", c.Cache.Backend))
	}

	if c.Price.LookbackDays <= 0 {
		errs.Add(errors.NewValidationError("PRICE_LOOKBACK_DAYS", "must be positive", c.Price.LookbackDays))
	}
	if c.Reddit.Limit <= 0 || c.Reddit.Limit > 100 {
		errs.Add(errors.NewValidationError("REDDIT_LIMIT", "must be between 1 and 100", c.Reddit.Limit))
	}
	if c.Cache.TTL <= 0 {
		errs.Add(errors.NewValidationError("CACHE_TTL", "must be positive", c.Cache.TTL))
	}

	return errs.ToError()
}

// PriceCredentialsMissing reports whether the selected price provider has no key.
// The feed still runs and degrades to "no data".
func (c *Config) PriceCredentialsMissing() bool {
	switch c.Price.Provider {
	case ProviderAlpaca:
		return c.Alpaca.APIKey == "" || c.Alpaca.APISecret == ""
	default:
		return c.Polygon.APIKey == ""
	}
}
