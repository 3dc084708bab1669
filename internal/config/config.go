// Package config provides configuration management for the catalog server
// and client.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Default configuration values.
const (
	DefaultServerPort      = 8080
	DefaultLogLevel        = "info"
	DefaultShutdownTimeout = 30 * time.Second
	DefaultMetricsEnabled  = true
	DefaultStoreBackend    = "memory"
	DefaultMongoURI        = "mongodb://localhost:27017"
	DefaultMongoDatabase   = "catalog"
	DefaultAPIBaseURL      = "http://localhost:8080"
	DefaultFallbackPath    = "catalog_items.json"
	DefaultRequestTimeout  = 10 * time.Second
)

// Environment variable names.
const (
	EnvServerPort      = "CATALOG_SERVER_PORT"
	EnvLogLevel        = "CATALOG_LOG_LEVEL"
	EnvShutdownTimeout = "CATALOG_SHUTDOWN_TIMEOUT"
	EnvMetricsEnabled  = "CATALOG_METRICS_ENABLED"
	EnvStoreBackend    = "CATALOG_STORE_BACKEND"
	EnvMongoURI        = "CATALOG_MONGO_URI"
	EnvMongoDatabase   = "CATALOG_MONGO_DATABASE"
	EnvAPIBaseURL      = "CATALOG_API_BASE_URL"
	EnvFallbackPath    = "CATALOG_FALLBACK_PATH"
	EnvRequestTimeout  = "CATALOG_REQUEST_TIMEOUT"
)

// Config holds the application configuration. Server and client settings
// live side by side; each binary reads the section it needs.
type Config struct {
	// Server settings.
	ServerPort      int
	LogLevel        string
	ShutdownTimeout time.Duration
	MetricsEnabled  bool

	// Store backend: memory or mongo.
	StoreBackend  string
	MongoURI      string
	MongoDatabase string

	// Client settings.
	APIBaseURL     string
	FallbackPath   string
	RequestTimeout time.Duration
}

// Validation errors.
var (
	ErrInvalidServerPort      = errors.New("server port must be between 1 and 65535")
	ErrInvalidLogLevel        = errors.New("log level must be one of: debug, info, warn, error")
	ErrInvalidShutdownTimeout = errors.New("shutdown timeout must be positive")
	ErrInvalidStoreBackend    = errors.New("store backend must be one of: memory, mongo")
	ErrMongoURIRequired       = errors.New("mongo URI must be set when store backend is mongo")
	ErrInvalidRequestTimeout  = errors.New("request timeout must be positive")
	ErrEmptyAPIBaseURL        = errors.New("API base URL cannot be empty")
	ErrEmptyFallbackPath      = errors.New("fallback path cannot be empty")
)

// Load reads configuration from environment variables with defaults.
// Environment variables have priority over default values.
func Load() (*Config, error) {
	cfg := &Config{
		ServerPort:      DefaultServerPort,
		LogLevel:        DefaultLogLevel,
		ShutdownTimeout: DefaultShutdownTimeout,
		MetricsEnabled:  DefaultMetricsEnabled,
		StoreBackend:    DefaultStoreBackend,
		MongoURI:        DefaultMongoURI,
		MongoDatabase:   DefaultMongoDatabase,
		APIBaseURL:      DefaultAPIBaseURL,
		FallbackPath:    DefaultFallbackPath,
		RequestTimeout:  DefaultRequestTimeout,
	}

	if err := cfg.loadFromEnv(); err != nil {
		return nil, fmt.Errorf("loading config from environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// loadFromEnv loads configuration values from environment variables.
func (c *Config) loadFromEnv() error {
	if err := c.loadServerEnv(); err != nil {
		return err
	}

	c.loadStoreEnv()

	return c.loadClientEnv()
}

// loadServerEnv loads server-related environment variables.
func (c *Config) loadServerEnv() error {
	if val := os.Getenv(EnvServerPort); val != "" {
		port, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", EnvServerPort, err)
		}
		c.ServerPort = port
	}

	if val := os.Getenv(EnvLogLevel); val != "" {
		c.LogLevel = val
	}

	if val := os.Getenv(EnvShutdownTimeout); val != "" {
		timeout, err := time.ParseDuration(val)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", EnvShutdownTimeout, err)
		}
		c.ShutdownTimeout = timeout
	}

	if val := os.Getenv(EnvMetricsEnabled); val != "" {
		enabled, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", EnvMetricsEnabled, err)
		}
		c.MetricsEnabled = enabled
	}

	return nil
}

// loadStoreEnv loads store backend environment variables.
func (c *Config) loadStoreEnv() {
	if val := os.Getenv(EnvStoreBackend); val != "" {
		c.StoreBackend = val
	}

	if val := os.Getenv(EnvMongoURI); val != "" {
		c.MongoURI = val
	}

	if val := os.Getenv(EnvMongoDatabase); val != "" {
		c.MongoDatabase = val
	}
}

// loadClientEnv loads client-side environment variables.
func (c *Config) loadClientEnv() error {
	if val := os.Getenv(EnvAPIBaseURL); val != "" {
		c.APIBaseURL = val
	}

	if val := os.Getenv(EnvFallbackPath); val != "" {
		c.FallbackPath = val
	}

	if val := os.Getenv(EnvRequestTimeout); val != "" {
		timeout, err := time.ParseDuration(val)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", EnvRequestTimeout, err)
		}
		c.RequestTimeout = timeout
	}

	return nil
}

// Validate checks if the configuration values are valid.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateStore(); err != nil {
		return err
	}

	return c.validateClient()
}

// validateServer validates server-related configuration.
func (c *Config) validateServer() error {
	if c.ServerPort < 1 || c.ServerPort > 65535 {
		return ErrInvalidServerPort
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return ErrInvalidLogLevel
	}

	if c.ShutdownTimeout <= 0 {
		return ErrInvalidShutdownTimeout
	}

	return nil
}

// validateStore validates store backend configuration.
func (c *Config) validateStore() error {
	switch c.StoreBackend {
	case "memory":
		return nil
	case "mongo":
		if c.MongoURI == "" {
			return ErrMongoURIRequired
		}
		return nil
	default:
		return ErrInvalidStoreBackend
	}
}

// validateClient validates client-side configuration.
func (c *Config) validateClient() error {
	if c.APIBaseURL == "" {
		return ErrEmptyAPIBaseURL
	}

	if c.FallbackPath == "" {
		return ErrEmptyFallbackPath
	}

	if c.RequestTimeout <= 0 {
		return ErrInvalidRequestTimeout
	}

	return nil
}

// Address returns the server address in host:port format.
func (c *Config) Address() string {
	return fmt.Sprintf(":%d", c.ServerPort)
}
