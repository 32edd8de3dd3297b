// Package config loads service configuration from the environment,
// optionally overlaid with a YAML file. The data directory is resolved
// once at startup and injected into each collection constructor; there
// is no ambient global path anywhere else.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/slidecast/slidecast/pkg/observability"
)

// Config holds all application configuration
type Config struct {
	Server        ServerConfig
	Storage       StorageConfig
	Auth          AuthConfig
	Observability ObservabilityConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// Health/metrics server (separate port for probes and scraping)
	HealthPort string

	CORSOrigins []string
}

// StorageConfig holds the document store configuration
type StorageConfig struct {
	DataDir string
}

// AuthConfig holds token issuance configuration
type AuthConfig struct {
	JWTSecret  string
	SessionTTL time.Duration
}

// ObservabilityConfig holds logging and metrics settings
type ObservabilityConfig struct {
	LogLevel       observability.LogLevel
	MetricsEnabled bool
}

// LoadConfig loads configuration from a YAML file (when
// SLIDECAST_CONFIG points at one) and the environment, with the
// environment taking precedence.
func LoadConfig() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("SLIDECAST_CONFIG"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            "8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			HealthPort:      "9090",
			CORSOrigins:     []string{"*"},
		},
		Storage: StorageConfig{
			DataDir: "data",
		},
		Auth: AuthConfig{
			JWTSecret:  "fallback-secret-key",
			SessionTTL: 7 * 24 * time.Hour,
		},
		Observability: ObservabilityConfig{
			LogLevel:       observability.InfoLevel,
			MetricsEnabled: true,
		},
	}
}

// fileConfig mirrors Config with optional YAML fields.
type fileConfig struct {
	Server struct {
		Host            *string        `yaml:"host"`
		Port            *string        `yaml:"port"`
		HealthPort      *string        `yaml:"health_port"`
		ReadTimeout     *time.Duration `yaml:"read_timeout"`
		WriteTimeout    *time.Duration `yaml:"write_timeout"`
		IdleTimeout     *time.Duration `yaml:"idle_timeout"`
		ShutdownTimeout *time.Duration `yaml:"shutdown_timeout"`
		CORSOrigins     []string       `yaml:"cors_origins"`
	} `yaml:"server"`
	Storage struct {
		DataDir *string `yaml:"data_dir"`
	} `yaml:"storage"`
	Auth struct {
		JWTSecret  *string        `yaml:"jwt_secret"`
		SessionTTL *time.Duration `yaml:"session_ttl"`
	} `yaml:"auth"`
	Observability struct {
		LogLevel       *string `yaml:"log_level"`
		MetricsEnabled *bool   `yaml:"metrics_enabled"`
	} `yaml:"observability"`
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	setString(&c.Server.Host, fc.Server.Host)
	setString(&c.Server.Port, fc.Server.Port)
	setString(&c.Server.HealthPort, fc.Server.HealthPort)
	setDuration(&c.Server.ReadTimeout, fc.Server.ReadTimeout)
	setDuration(&c.Server.WriteTimeout, fc.Server.WriteTimeout)
	setDuration(&c.Server.IdleTimeout, fc.Server.IdleTimeout)
	setDuration(&c.Server.ShutdownTimeout, fc.Server.ShutdownTimeout)
	if len(fc.Server.CORSOrigins) > 0 {
		c.Server.CORSOrigins = fc.Server.CORSOrigins
	}
	setString(&c.Storage.DataDir, fc.Storage.DataDir)
	setString(&c.Auth.JWTSecret, fc.Auth.JWTSecret)
	setDuration(&c.Auth.SessionTTL, fc.Auth.SessionTTL)
	if fc.Observability.LogLevel != nil {
		c.Observability.LogLevel = observability.ParseLogLevel(*fc.Observability.LogLevel)
	}
	if fc.Observability.MetricsEnabled != nil {
		c.Observability.MetricsEnabled = *fc.Observability.MetricsEnabled
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Server.Host = getEnv("SLIDECAST_HOST", c.Server.Host)
	c.Server.Port = getEnv("SLIDECAST_PORT", c.Server.Port)
	c.Server.HealthPort = getEnv("SLIDECAST_HEALTH_PORT", c.Server.HealthPort)
	c.Server.ReadTimeout = getEnvDuration("SLIDECAST_READ_TIMEOUT", c.Server.ReadTimeout)
	c.Server.WriteTimeout = getEnvDuration("SLIDECAST_WRITE_TIMEOUT", c.Server.WriteTimeout)
	c.Server.IdleTimeout = getEnvDuration("SLIDECAST_IDLE_TIMEOUT", c.Server.IdleTimeout)
	c.Server.ShutdownTimeout = getEnvDuration("SLIDECAST_SHUTDOWN_TIMEOUT", c.Server.ShutdownTimeout)
	if origins := os.Getenv("SLIDECAST_CORS_ORIGINS"); origins != "" {
		c.Server.CORSOrigins = strings.Split(origins, ",")
	}

	c.Storage.DataDir = getEnv("SLIDECAST_DATA_DIR", c.Storage.DataDir)

	c.Auth.JWTSecret = getEnv("SLIDECAST_JWT_SECRET", c.Auth.JWTSecret)
	c.Auth.SessionTTL = getEnvDuration("SLIDECAST_JWT_TTL", c.Auth.SessionTTL)

	if level := os.Getenv("SLIDECAST_LOG_LEVEL"); level != "" {
		c.Observability.LogLevel = observability.ParseLogLevel(level)
	}
	c.Observability.MetricsEnabled = getEnvBool("SLIDECAST_METRICS_ENABLED", c.Observability.MetricsEnabled)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.Server.HealthPort == "" {
		return fmt.Errorf("health port is required")
	}
	if c.Server.Port == c.Server.HealthPort {
		return fmt.Errorf("server port and health port must be different")
	}
	if c.Storage.DataDir == "" {
		return fmt.Errorf("data directory is required")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if c.Auth.SessionTTL <= 0 {
		return fmt.Errorf("session TTL must be positive")
	}
	return nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setDuration(dst *time.Duration, src *time.Duration) {
	if src != nil {
		*dst = *src
	}
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns a boolean environment variable or a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
