package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
// Secret Precedence Order:
// 1. Vault (if configured) - Highest priority
// 2. Config File values
// 3. Environment Variables (CYRUS_API_BASEURL, CYRUS_AUTH_TOKEN, etc.)
// 4. Default values - Lowest priority
type Config struct {
	API           APIConfig           `mapstructure:"api"`
	Auth          AuthConfig          `mapstructure:"auth"`
	App           AppConfig           `mapstructure:"app"`
	Vault         VaultConfig         `mapstructure:"vault"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// APIConfig holds the Remote Tailoring Service client configuration. BaseURL
// is injected here at construction; nothing reads it from ambient environment
// state at call sites.
type APIConfig struct {
	BaseURL string        `mapstructure:"baseURL"`
	Timeout time.Duration `mapstructure:"timeout"`
	APIKey  string        `mapstructure:"apiKey"`

	// Operation-specific configurations
	Upload   OperationAPIConfig `mapstructure:"upload"`
	Generate OperationAPIConfig `mapstructure:"generate"`
	Rewrite  OperationAPIConfig `mapstructure:"rewrite"`
	History  OperationAPIConfig `mapstructure:"history"`
	Prep     OperationAPIConfig `mapstructure:"prep"`

	// Client-side pacing for bursty per-bullet rewrites
	RateLimit RateLimitConfig `mapstructure:"rateLimit"`
}

// OperationAPIConfig holds per-operation client settings
type OperationAPIConfig struct {
	Timeout        *time.Duration       `mapstructure:"timeout"`
	MaxRetries     *int                 `mapstructure:"maxRetries"`
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuitBreaker"`
}

// CircuitBreakerConfig represents circuit breaker configuration
type CircuitBreakerConfig struct {
	Enabled          bool          `mapstructure:"enabled"`          // Whether circuit breaker is enabled
	MaxRequests      uint32        `mapstructure:"maxRequests"`      // Max requests allowed when half-open
	Interval         time.Duration `mapstructure:"interval"`         // Interval to clear counts
	Timeout          time.Duration `mapstructure:"timeout"`          // Timeout for half-open to open
	MinRequests      uint32        `mapstructure:"minRequests"`      // Minimum requests before tripping
	FailureThreshold float64       `mapstructure:"failureThreshold"` // Failure ratio threshold (0.0-1.0)
}

// RateLimitConfig holds client-side rate limiting configuration
type RateLimitConfig struct {
	Enabled        bool          `mapstructure:"enabled"`        // Enable/disable rate limiting
	RequestsPerMin int           `mapstructure:"requestsPerMin"` // Requests allowed per minute
	BurstCapacity  int           `mapstructure:"burstCapacity"`  // Burst capacity for token bucket
	Window         time.Duration `mapstructure:"window"`         // Rate limiting window duration
}

// AuthConfig holds identity configuration. The identity provider lives outside
// this application; we only consume the token it issues.
type AuthConfig struct {
	Token     string       `mapstructure:"token"`     // Provider-issued identity token (JWT)
	TokenFile string       `mapstructure:"tokenFile"` // File the provider writes refreshed tokens to
	UserID    string       `mapstructure:"userID"`    // Explicit user id fallback when no token is present
	Watch     WatcherConfig `mapstructure:"watch"`
}

// WatcherConfig holds configuration for token-file watching
type WatcherConfig struct {
	Enabled       bool          `mapstructure:"enabled"`       // Enable file watching
	DebounceDelay time.Duration `mapstructure:"debounceDelay"` // Debounce delay for file change events
}

// AppConfig holds general application configuration
type AppConfig struct {
	LogLevel         string   `mapstructure:"logLevel"`
	DefaultFormat    string   `mapstructure:"defaultFormat"`
	SupportedFormats []string `mapstructure:"supportedFormats"`
	MaxUploadSize    int64    `mapstructure:"maxUploadSize"`
}

// LoadConfig loads configuration from environment variables and a config file
func LoadConfig() (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	// Set up environment variable handling
	v.SetEnvPrefix("CYRUS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set up config file handling
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/cyrus/")
	v.AddConfigPath("$HOME/.cyrus")
	v.AddConfigPath(".")

	// Read the config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Unmarshal the configuration into the Config struct
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Apply fallback logic
	config.applyFallbacks()

	// Validate the configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("API base URL is required (set CYRUS_API_BASEURL environment variable)")
	}

	if _, err := url.ParseRequestURI(c.API.BaseURL); err != nil {
		return fmt.Errorf("API base URL is not a valid URL: %w", err)
	}

	if c.API.Timeout <= 0 {
		return fmt.Errorf("API timeout must be positive")
	}

	if c.App.MaxUploadSize <= 0 {
		return fmt.Errorf("max upload size must be positive")
	}

	validFormats := make(map[string]bool)
	for _, format := range c.App.SupportedFormats {
		validFormats[format] = true
	}
	if !validFormats[c.App.DefaultFormat] {
		return fmt.Errorf("invalid default format: %s", c.App.DefaultFormat)
	}

	return nil
}

// applyOperationDefaults applies global defaults to operation-specific configuration
func (c *Config) applyOperationDefaults(opCfg *OperationAPIConfig) {
	if opCfg.Timeout == nil {
		opCfg.Timeout = &c.API.Timeout
	}
	if opCfg.MaxRetries == nil {
		defaultRetries := 2
		opCfg.MaxRetries = &defaultRetries
	}
}

// GetUploadConfig returns the client configuration for resume uploads with fallback to global config
func (c *Config) GetUploadConfig() OperationAPIConfig {
	config := c.API.Upload
	c.applyOperationDefaults(&config)
	return config
}

// GetGenerateConfig returns the client configuration for bullet generation with fallback to global config
func (c *Config) GetGenerateConfig() OperationAPIConfig {
	config := c.API.Generate
	c.applyOperationDefaults(&config)
	return config
}

// GetRewriteConfig returns the client configuration for deep rewrites with fallback to global config
func (c *Config) GetRewriteConfig() OperationAPIConfig {
	config := c.API.Rewrite
	c.applyOperationDefaults(&config)
	return config
}

// GetHistoryConfig returns the client configuration for history calls with fallback to global config
func (c *Config) GetHistoryConfig() OperationAPIConfig {
	config := c.API.History
	c.applyOperationDefaults(&config)
	return config
}

// GetPrepConfig returns the client configuration for career-prep calls with fallback to global config
func (c *Config) GetPrepConfig() OperationAPIConfig {
	config := c.API.Prep
	c.applyOperationDefaults(&config)
	return config
}
