package config

import (
	"errors"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	// Act
	cfg, err := Load()

	// Assert
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.ServerPort != DefaultServerPort {
		t.Errorf("ServerPort = %d, want %d", cfg.ServerPort, DefaultServerPort)
	}
	if cfg.LogLevel != DefaultLogLevel {
		t.Errorf("LogLevel = %s, want %s", cfg.LogLevel, DefaultLogLevel)
	}
	if cfg.ShutdownTimeout != DefaultShutdownTimeout {
		t.Errorf("ShutdownTimeout = %v, want %v", cfg.ShutdownTimeout, DefaultShutdownTimeout)
	}
	if cfg.MetricsEnabled != DefaultMetricsEnabled {
		t.Errorf("MetricsEnabled = %v, want %v", cfg.MetricsEnabled, DefaultMetricsEnabled)
	}
	if cfg.StoreBackend != DefaultStoreBackend {
		t.Errorf("StoreBackend = %s, want %s", cfg.StoreBackend, DefaultStoreBackend)
	}
	if cfg.APIBaseURL != DefaultAPIBaseURL {
		t.Errorf("APIBaseURL = %s, want %s", cfg.APIBaseURL, DefaultAPIBaseURL)
	}
	if cfg.FallbackPath != DefaultFallbackPath {
		t.Errorf("FallbackPath = %s, want %s", cfg.FallbackPath, DefaultFallbackPath)
	}
	if cfg.RequestTimeout != DefaultRequestTimeout {
		t.Errorf("RequestTimeout = %v, want %v", cfg.RequestTimeout, DefaultRequestTimeout)
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	// Arrange
	t.Setenv(EnvServerPort, "9090")
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvShutdownTimeout, "15s")
	t.Setenv(EnvMetricsEnabled, "false")
	t.Setenv(EnvStoreBackend, "mongo")
	t.Setenv(EnvMongoURI, "mongodb://db:27017")
	t.Setenv(EnvMongoDatabase, "catalog_test")
	t.Setenv(EnvAPIBaseURL, "http://api:8080")
	t.Setenv(EnvFallbackPath, "/tmp/items.json")
	t.Setenv(EnvRequestTimeout, "5s")

	// Act
	cfg, err := Load()

	// Assert
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.ServerPort != 9090 {
		t.Errorf("ServerPort = %d, want 9090", cfg.ServerPort)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %s, want debug", cfg.LogLevel)
	}
	if cfg.ShutdownTimeout != 15*time.Second {
		t.Errorf("ShutdownTimeout = %v, want 15s", cfg.ShutdownTimeout)
	}
	if cfg.MetricsEnabled {
		t.Error("MetricsEnabled = true, want false")
	}
	if cfg.StoreBackend != "mongo" {
		t.Errorf("StoreBackend = %s, want mongo", cfg.StoreBackend)
	}
	if cfg.MongoURI != "mongodb://db:27017" {
		t.Errorf("MongoURI = %s, want mongodb://db:27017", cfg.MongoURI)
	}
	if cfg.MongoDatabase != "catalog_test" {
		t.Errorf("MongoDatabase = %s, want catalog_test", cfg.MongoDatabase)
	}
	if cfg.APIBaseURL != "http://api:8080" {
		t.Errorf("APIBaseURL = %s, want http://api:8080", cfg.APIBaseURL)
	}
	if cfg.FallbackPath != "/tmp/items.json" {
		t.Errorf("FallbackPath = %s, want /tmp/items.json", cfg.FallbackPath)
	}
	if cfg.RequestTimeout != 5*time.Second {
		t.Errorf("RequestTimeout = %v, want 5s", cfg.RequestTimeout)
	}
}

func TestLoad_InvalidEnvironmentValues(t *testing.T) {
	tests := []struct {
		name  string
		env   string
		value string
	}{
		{name: "invalid port", env: EnvServerPort, value: "not-a-number"},
		{name: "invalid shutdown timeout", env: EnvShutdownTimeout, value: "soon"},
		{name: "invalid metrics flag", env: EnvMetricsEnabled, value: "maybe"},
		{name: "invalid request timeout", env: EnvRequestTimeout, value: "later"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			t.Setenv(tt.env, tt.value)

			// Act
			_, err := Load()

			// Assert
			if err == nil {
				t.Error("Load() should fail for invalid environment value")
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			ServerPort:      8080,
			LogLevel:        "info",
			ShutdownTimeout: 30 * time.Second,
			StoreBackend:    "memory",
			APIBaseURL:      "http://localhost:8080",
			FallbackPath:    "catalog_items.json",
			RequestTimeout:  10 * time.Second,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:    "valid config",
			mutate:  func(_ *Config) {},
			wantErr: nil,
		},
		{
			name:    "port too low",
			mutate:  func(c *Config) { c.ServerPort = 0 },
			wantErr: ErrInvalidServerPort,
		},
		{
			name:    "port too high",
			mutate:  func(c *Config) { c.ServerPort = 70000 },
			wantErr: ErrInvalidServerPort,
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.LogLevel = "verbose" },
			wantErr: ErrInvalidLogLevel,
		},
		{
			name:    "zero shutdown timeout",
			mutate:  func(c *Config) { c.ShutdownTimeout = 0 },
			wantErr: ErrInvalidShutdownTimeout,
		},
		{
			name:    "unknown store backend",
			mutate:  func(c *Config) { c.StoreBackend = "postgres" },
			wantErr: ErrInvalidStoreBackend,
		},
		{
			name: "mongo backend without URI",
			mutate: func(c *Config) {
				c.StoreBackend = "mongo"
				c.MongoURI = ""
			},
			wantErr: ErrMongoURIRequired,
		},
		{
			name:    "empty API base URL",
			mutate:  func(c *Config) { c.APIBaseURL = "" },
			wantErr: ErrEmptyAPIBaseURL,
		},
		{
			name:    "empty fallback path",
			mutate:  func(c *Config) { c.FallbackPath = "" },
			wantErr: ErrEmptyFallbackPath,
		},
		{
			name:    "zero request timeout",
			mutate:  func(c *Config) { c.RequestTimeout = 0 },
			wantErr: ErrInvalidRequestTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			cfg := valid()
			tt.mutate(cfg)

			// Act
			err := cfg.Validate()

			// Assert
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_Validate_MongoBackend(t *testing.T) {
	// Arrange
	cfg := &Config{
		ServerPort:      8080,
		LogLevel:        "info",
		ShutdownTimeout: 30 * time.Second,
		StoreBackend:    "mongo",
		MongoURI:        "mongodb://localhost:27017",
		MongoDatabase:   "catalog",
		APIBaseURL:      "http://localhost:8080",
		FallbackPath:    "catalog_items.json",
		RequestTimeout:  10 * time.Second,
	}

	// Act
	err := cfg.Validate()

	// Assert
	if err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}
}

func TestConfig_Address(t *testing.T) {
	// Arrange
	cfg := &Config{ServerPort: 8080}

	// Act
	addr := cfg.Address()

	// Assert
	if addr != ":8080" {
		t.Errorf("Address() = %s, want :8080", addr)
	}
}
