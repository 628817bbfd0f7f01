package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/devhubhq/devhub/pkg/store"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Store    store.Config
	Identity IdentityConfig

	Observability ObservabilityConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// HealthPort serves probes and metrics, separate from the API port.
	HealthPort string

	AllowedOrigins []string
}

// IdentityConfig holds identity provider configuration.
type IdentityConfig struct {
	IssuerURL  string
	APIBaseURL string
	SecretKey  string
}

// ObservabilityConfig holds logging, metrics, and tracing settings.
type ObservabilityConfig struct {
	LogLevel       string
	MetricsEnabled bool

	OTelEnabled        bool
	OTelEndpoint       string
	OTelServiceName    string
	OTelServiceVersion string
	OTelInsecure       bool
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:            getEnv("DEVHUB_HOST", "0.0.0.0"),
			Port:            getEnv("DEVHUB_PORT", "8080"),
			ReadTimeout:     getEnvDuration("DEVHUB_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvDuration("DEVHUB_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:     getEnvDuration("DEVHUB_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getEnvDuration("DEVHUB_SHUTDOWN_TIMEOUT", 30*time.Second),
			HealthPort:      getEnv("DEVHUB_HEALTH_PORT", "9090"),
			AllowedOrigins:  splitList(getEnv("DEVHUB_ALLOWED_ORIGINS", "")),
		},
		Store: store.Config{
			URI:      getEnv("MONGODB_URI", ""),
			Database: getEnv("DEVHUB_DATABASE", store.DefaultDatabase),
		},
		Identity: IdentityConfig{
			IssuerURL:  getEnv("DEVHUB_CLERK_ISSUER_URL", ""),
			APIBaseURL: getEnv("DEVHUB_CLERK_API_URL", "https://api.clerk.com/v1"),
			SecretKey:  getEnv("CLERK_SECRET_KEY", ""),
		},
		Observability: ObservabilityConfig{
			LogLevel:           getEnv("DEVHUB_LOG_LEVEL", "info"),
			MetricsEnabled:     getEnvBool("DEVHUB_METRICS_ENABLED", true),
			OTelEnabled:        getEnvBool("DEVHUB_OTEL_ENABLED", false),
			OTelEndpoint:       getEnv("DEVHUB_OTEL_ENDPOINT", "localhost:4317"),
			OTelServiceName:    getEnv("DEVHUB_OTEL_SERVICE_NAME", "devhub"),
			OTelServiceVersion: getEnv("DEVHUB_OTEL_SERVICE_VERSION", "1.0.0"),
			OTelInsecure:       getEnvBool("DEVHUB_OTEL_INSECURE", true),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration for fatal omissions.
func (c *Config) Validate() error {
	if c.Store.URI == "" {
		return fmt.Errorf("MONGODB_URI is required")
	}
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.Server.HealthPort == "" {
		return fmt.Errorf("health port is required")
	}
	if c.Server.Port == c.Server.HealthPort {
		return fmt.Errorf("server port and health port must be different")
	}
	if c.Identity.IssuerURL == "" {
		return fmt.Errorf("DEVHUB_CLERK_ISSUER_URL is required")
	}
	if c.Identity.SecretKey == "" {
		return fmt.Errorf("CLERK_SECRET_KEY is required")
	}
	if c.Observability.OTelEnabled && c.Observability.OTelEndpoint == "" {
		return fmt.Errorf("OTel endpoint is required when tracing is enabled")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.EqualFold(value, "true") || value == "1"
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
