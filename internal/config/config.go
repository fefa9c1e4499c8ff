// Package config loads and validates service configuration via Viper.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/JakeFAU/gplay-api/internal/playstore"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	CORS    CORSConfig    `mapstructure:"cors"`
	Logging LoggingConfig `mapstructure:"logging"`
	Errors  ErrorsConfig  `mapstructure:"errors"`
	Scraper ScraperConfig `mapstructure:"scraper"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// ServerConfig controls HTTP server behavior.
type ServerConfig struct {
	Port                     int   `mapstructure:"port"`
	BodyLimitBytes           int64 `mapstructure:"body_limit_bytes"`
	ReadHeaderTimeoutSeconds int   `mapstructure:"read_header_timeout_seconds"`
	RequestTimeoutSeconds    int   `mapstructure:"request_timeout_seconds"`
	ShutdownTimeoutSeconds   int   `mapstructure:"shutdown_timeout_seconds"`
}

// CORSConfig lists the origins the server variant accepts.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// ErrorsConfig governs what failure detail reaches callers.
type ErrorsConfig struct {
	// ExposeInternalDetails adds stack traces to 500 responses.
	ExposeInternalDetails bool `mapstructure:"expose_internal_details"`
}

// ScraperConfig configures the upstream Google Play client.
type ScraperConfig struct {
	BaseURL           string  `mapstructure:"base_url"`
	UserAgent         string  `mapstructure:"user_agent"`
	TimeoutSeconds    int     `mapstructure:"timeout_seconds"`
	MaxBodyBytes      int     `mapstructure:"max_body_bytes"`
	ThrottleRPS       float64 `mapstructure:"throttle_rps"`
	ThrottleBurst     int     `mapstructure:"throttle_burst"`
	DetailConcurrency int     `mapstructure:"detail_concurrency"`
	DefaultLang       string  `mapstructure:"default_lang"`
	DefaultCountry    string  `mapstructure:"default_country"`
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("GPLAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	// Hosting platforms hand out the listen port via PORT.
	if raw := os.Getenv("PORT"); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil {
			return Config{}, fmt.Errorf("parse PORT %q: %w", raw, err)
		}
		cfg.Server.Port = port
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.body_limit_bytes", 10<<20)
	v.SetDefault("server.read_header_timeout_seconds", 5)
	v.SetDefault("server.request_timeout_seconds", 60)
	v.SetDefault("server.shutdown_timeout_seconds", 10)
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("logging.development", false)
	v.SetDefault("errors.expose_internal_details", false)
	v.SetDefault("scraper.base_url", "https://play.google.com")
	v.SetDefault("scraper.user_agent", "Mozilla/5.0 (compatible; gplay-api/1.0)")
	v.SetDefault("scraper.timeout_seconds", 30)
	v.SetDefault("scraper.max_body_bytes", 16<<20)
	v.SetDefault("scraper.throttle_rps", 0)
	v.SetDefault("scraper.throttle_burst", 1)
	v.SetDefault("scraper.detail_concurrency", 4)
	v.SetDefault("scraper.default_lang", "en")
	v.SetDefault("scraper.default_country", "us")
	v.SetDefault("metrics.enabled", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if c.Server.BodyLimitBytes <= 0 {
		return fmt.Errorf("server.body_limit_bytes must be > 0")
	}
	if c.Scraper.BaseURL == "" {
		return fmt.Errorf("scraper.base_url must be set")
	}
	if c.Scraper.TimeoutSeconds <= 0 {
		return fmt.Errorf("scraper.timeout_seconds must be > 0")
	}
	if c.Scraper.ThrottleRPS < 0 {
		return fmt.Errorf("scraper.throttle_rps must be >= 0")
	}
	if c.Scraper.DetailConcurrency <= 0 {
		return fmt.Errorf("scraper.detail_concurrency must be > 0")
	}
	return nil
}

// ScraperTimeout converts the upstream timeout into a duration.
func (c Config) ScraperTimeout() time.Duration {
	return time.Duration(c.Scraper.TimeoutSeconds) * time.Second
}

// RequestTimeout bounds a single inbound request on the server variant.
func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.Server.RequestTimeoutSeconds) * time.Second
}

// ReadHeaderTimeout bounds header reads on the server variant.
func (c Config) ReadHeaderTimeout() time.Duration {
	return time.Duration(c.Server.ReadHeaderTimeoutSeconds) * time.Second
}

// ShutdownTimeout bounds graceful drain on the server variant.
func (c Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.Server.ShutdownTimeoutSeconds) * time.Second
}

// Playstore converts the scraper section into client settings.
func (c Config) Playstore() playstore.Config {
	return playstore.Config{
		BaseURL:           c.Scraper.BaseURL,
		UserAgent:         c.Scraper.UserAgent,
		Timeout:           c.ScraperTimeout(),
		MaxBodyBytes:      c.Scraper.MaxBodyBytes,
		ThrottleRPS:       c.Scraper.ThrottleRPS,
		ThrottleBurst:     c.Scraper.ThrottleBurst,
		DetailConcurrency: c.Scraper.DetailConcurrency,
		DefaultLang:       c.Scraper.DefaultLang,
		DefaultCountry:    c.Scraper.DefaultCountry,
	}
}
