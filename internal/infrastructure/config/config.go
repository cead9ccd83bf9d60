package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App         AppConfig
	Log         LogConfig
	HTTP        HTTPConfig
	Marketplace MarketplaceConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxHeaderBytes int
	MaxBodySize    int64
	TrustedProxies []string
}

// MarketplaceConfig holds defaults applied to every connector built by the
// factory unless the request overrides them.
type MarketplaceConfig struct {
	Sandbox            bool          // Route all connectors at sandbox endpoints
	RequestTimeout     time.Duration // Per-request timeout for marketplace calls
	RetryAttempts      int           // Attempts per marketplace request
	RetryDelay         time.Duration // Initial backoff delay
	BatchConcurrency   int           // Concurrent per-item calls inside a batch
	DefaultOrderWindow time.Duration // Trailing window when order pulls give no bounds
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with CONNECTOR_ prefix (e.g., CONNECTOR_MARKETPLACE_SANDBOX)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("CONNECTOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:    v.GetDuration("http.read_timeout"),
			WriteTimeout:   v.GetDuration("http.write_timeout"),
			IdleTimeout:    v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes: v.GetInt("http.max_header_bytes"),
			MaxBodySize:    v.GetInt64("http.max_body_size"),
			TrustedProxies: v.GetStringSlice("http.trusted_proxies"),
		},
		Marketplace: MarketplaceConfig{
			Sandbox:            v.GetBool("marketplace.sandbox"),
			RequestTimeout:     v.GetDuration("marketplace.request_timeout"),
			RetryAttempts:      v.GetInt("marketplace.retry_attempts"),
			RetryDelay:         v.GetDuration("marketplace.retry_delay"),
			BatchConcurrency:   v.GetInt("marketplace.batch_concurrency"),
			DefaultOrderWindow: v.GetDuration("marketplace.default_order_window"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "connector-backend"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		// Batch syncs fan out to the marketplace before replying, so the
		// write timeout must outlast a full retry cycle.
		cfg.HTTP.WriteTimeout = 2 * time.Minute
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 10 << 20 // 10MB
	}
	if cfg.Marketplace.RequestTimeout == 0 {
		cfg.Marketplace.RequestTimeout = 30 * time.Second
	}
	if cfg.Marketplace.RetryAttempts == 0 {
		cfg.Marketplace.RetryAttempts = 3
	}
	if cfg.Marketplace.RetryDelay == 0 {
		cfg.Marketplace.RetryDelay = time.Second
	}
	if cfg.Marketplace.BatchConcurrency == 0 {
		cfg.Marketplace.BatchConcurrency = 4
	}
	if cfg.Marketplace.DefaultOrderWindow == 0 {
		cfg.Marketplace.DefaultOrderWindow = 168 * time.Hour
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.Marketplace.RetryAttempts < 1 {
		return fmt.Errorf("marketplace.retry_attempts must be at least 1")
	}
	if c.Marketplace.BatchConcurrency < 1 {
		return fmt.Errorf("marketplace.batch_concurrency must be at least 1")
	}

	if c.App.Env == "production" {
		if c.Marketplace.Sandbox {
			return fmt.Errorf("marketplace.sandbox cannot be enabled in production")
		}
	}

	return nil
}
