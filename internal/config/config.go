// Package config provides configuration management for the application.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"

	"github.com/amaumene/nekoview/internal/constants"
	"github.com/amaumene/nekoview/pkg/logger"
	"github.com/amaumene/nekoview/pkg/security"
)

const defaultConfigFile = "config.json"

// Config holds the application configuration. Values are layered: defaults,
// then environment variables, then the optional JSON file.
type Config struct {
	Port     string `json:"PORT"`
	LogLevel string `json:"LOG_LEVEL"`

	APIBaseURL        string        `json:"API_BASE_URL"`
	RequestTimeout    time.Duration `json:"REQUEST_TIMEOUT"`
	RequestsPerSecond float64       `json:"REQUESTS_PER_SECOND"`

	StoreDriver  string `json:"STORE_DRIVER"`
	DatabasePath string `json:"DATABASE_PATH"`
	FavoritesKey string `json:"FAVORITES_KEY"`

	CacheSize int           `json:"CACHE_SIZE"`
	CacheTTL  time.Duration `json:"CACHE_TTL"`

	HomeReleasePages int           `json:"HOME_RELEASE_PAGES"`
	ReleasePages     int           `json:"RELEASE_PAGES"`
	PageConcurrency  int           `json:"PAGE_CONCURRENCY"`
	BannerInterval   time.Duration `json:"BANNER_INTERVAL"`

	// CORSOrigins are the cross-origin pages allowed to call the API.
	// Empty means same-origin only.
	CORSOrigins []string `json:"CORS_ORIGINS"`
}

// Keys lists every recognised setting, in the form used by both the
// environment and the JSON file.
var Keys = []string{
	"PORT", "LOG_LEVEL", "API_BASE_URL", "REQUEST_TIMEOUT", "REQUESTS_PER_SECOND",
	"STORE_DRIVER", "DATABASE_PATH", "FAVORITES_KEY", "CACHE_SIZE", "CACHE_TTL",
	"HOME_RELEASE_PAGES", "RELEASE_PAGES", "PAGE_CONCURRENCY", "BANNER_INTERVAL",
	"CORS_ORIGINS",
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Port:              constants.DefaultPort,
		LogLevel:          constants.DefaultLogLevel,
		APIBaseURL:        constants.DefaultAPIBaseURL,
		RequestTimeout:    constants.RequestTimeout,
		RequestsPerSecond: constants.CatalogRateLimit,
		StoreDriver:       constants.DefaultStoreDriver,
		DatabasePath:      constants.DefaultDatabasePath,
		FavoritesKey:      constants.DefaultFavoritesKey,
		CacheSize:         constants.DefaultCacheSize,
		CacheTTL:          time.Duration(constants.DefaultCacheTTL) * time.Hour,
		HomeReleasePages:  constants.HomeReleasePages,
		ReleasePages:      constants.ReleasePages,
		PageConcurrency:   constants.PageConcurrency,
		BannerInterval:    constants.BannerInterval,
	}
}

// Load reads configuration from environment variables and the optional JSON
// file named by CONFIG_FILE. A missing file is not an error.
func Load() (*Config, error) {
	cfg := Default()

	if err := cfg.applyOverrides(envValues()); err != nil {
		return nil, fmt.Errorf("invalid environment: %w", err)
	}

	configFile := getEnvOrDefault("CONFIG_FILE", defaultConfigFile)
	if err := cfg.loadFromFile(configFile); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func envValues() map[string]interface{} {
	values := make(map[string]interface{})
	for _, key := range Keys {
		if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
			values[key] = v
		}
	}
	return values
}

// loadFromFile applies a JSON object of settings. Values may be loosely
// typed ("8" and 8 are both accepted).
func (c *Config) loadFromFile(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return err
	}

	var values map[string]interface{}
	if err := json.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("%s: %w", filename, err)
	}
	return c.applyOverrides(values)
}

// applyOverrides coerces and applies every known key present in values.
// Unknown keys are ignored.
func (c *Config) applyOverrides(values map[string]interface{}) error {
	for key, val := range values {
		var err error
		switch key {
		case "PORT":
			c.Port, err = cast.ToStringE(val)
		case "LOG_LEVEL":
			c.LogLevel, err = cast.ToStringE(val)
		case "API_BASE_URL":
			c.APIBaseURL, err = cast.ToStringE(val)
		case "STORE_DRIVER":
			c.StoreDriver, err = cast.ToStringE(val)
		case "DATABASE_PATH":
			c.DatabasePath, err = cast.ToStringE(val)
		case "FAVORITES_KEY":
			c.FavoritesKey, err = cast.ToStringE(val)
		case "REQUESTS_PER_SECOND":
			c.RequestsPerSecond, err = cast.ToFloat64E(val)
		case "CACHE_SIZE":
			c.CacheSize, err = cast.ToIntE(val)
		case "HOME_RELEASE_PAGES":
			c.HomeReleasePages, err = cast.ToIntE(val)
		case "RELEASE_PAGES":
			c.ReleasePages, err = cast.ToIntE(val)
		case "PAGE_CONCURRENCY":
			c.PageConcurrency, err = cast.ToIntE(val)
		case "CACHE_TTL":
			c.CacheTTL, err = toDuration(val, time.Hour)
		case "REQUEST_TIMEOUT":
			c.RequestTimeout, err = toDuration(val, time.Second)
		case "BANNER_INTERVAL":
			c.BannerInterval, err = toDuration(val, time.Second)
		case "CORS_ORIGINS":
			c.CORSOrigins, err = toList(val)
		default:
			continue
		}
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}
	return nil
}

// toDuration accepts a Go duration string ("90s") or a bare number counted in unit.
func toDuration(val interface{}, unit time.Duration) (time.Duration, error) {
	if n, err := cast.ToFloat64E(val); err == nil {
		return time.Duration(n * float64(unit)), nil
	}
	return cast.ToDurationE(val)
}

// toList accepts a comma separated string or a list of strings.
func toList(val interface{}) ([]string, error) {
	var raw []string
	if s, ok := val.(string); ok {
		raw = strings.Split(s, ",")
	} else {
		var err error
		if raw, err = cast.ToStringSliceE(val); err != nil {
			return nil, err
		}
	}

	out := []string{}
	for _, v := range raw {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out, nil
}

// Validate checks if the configuration is valid.
// Sets default values for missing optional fields.
func (c *Config) Validate() error {
	def := Default()

	c.Port = strings.TrimSpace(c.Port)
	if c.Port == "" {
		c.Port = def.Port
	}
	if p, err := strconv.Atoi(c.Port); err != nil || p < 1 || p > 65535 {
		return fmt.Errorf("PORT %q is not a valid port", c.Port)
	}

	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	if !logger.ValidLevel(c.LogLevel) {
		return fmt.Errorf("LOG_LEVEL %q is not one of DEBUG, INFO, WARN, ERROR", c.LogLevel)
	}

	if c.APIBaseURL == "" {
		c.APIBaseURL = def.APIBaseURL
	}
	if _, err := security.NewURLValidator().Validate(c.APIBaseURL); err != nil {
		return fmt.Errorf("API_BASE_URL: %w", err)
	}

	c.StoreDriver = strings.ToLower(strings.TrimSpace(c.StoreDriver))
	switch c.StoreDriver {
	case "":
		c.StoreDriver = def.StoreDriver
	case constants.StoreDriverBolt, constants.StoreDriverSQLite, constants.StoreDriverMemory:
	default:
		return fmt.Errorf("STORE_DRIVER %q is not one of bolt, sqlite, memory", c.StoreDriver)
	}
	if c.DatabasePath == "" {
		c.DatabasePath = def.DatabasePath
	}
	if strings.TrimSpace(c.FavoritesKey) == "" {
		c.FavoritesKey = def.FavoritesKey
	}

	if c.CacheSize <= 0 {
		c.CacheSize = def.CacheSize
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = def.CacheTTL
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = def.RequestTimeout
	}
	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("REQUESTS_PER_SECOND must not be negative")
	}
	if c.RequestsPerSecond == 0 {
		c.RequestsPerSecond = def.RequestsPerSecond
	}

	if c.HomeReleasePages <= 0 {
		c.HomeReleasePages = def.HomeReleasePages
	}
	if c.ReleasePages <= 0 {
		c.ReleasePages = def.ReleasePages
	}
	if c.PageConcurrency <= 0 {
		c.PageConcurrency = def.PageConcurrency
	}
	if c.BannerInterval <= 0 {
		c.BannerInterval = def.BannerInterval
	}
	return nil
}

// Address is the listen address for the HTTP server.
func (c *Config) Address() string {
	return ":" + c.Port
}

// getEnvOrDefault returns environment variable value or default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
