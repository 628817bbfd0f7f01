package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("DEVHUB_CLERK_ISSUER_URL", "https://clerk.example.com")
	t.Setenv("CLERK_SECRET_KEY", "sk_test_secret")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "9090", cfg.Server.HealthPort)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Empty(t, cfg.Server.AllowedOrigins)

	assert.Equal(t, "devhub", cfg.Store.Database)
	assert.Equal(t, "https://api.clerk.com/v1", cfg.Identity.APIBaseURL)

	assert.Equal(t, "info", cfg.Observability.LogLevel)
	assert.True(t, cfg.Observability.MetricsEnabled)
	assert.False(t, cfg.Observability.OTelEnabled)
}

func TestLoadConfigOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DEVHUB_PORT", "3000")
	t.Setenv("DEVHUB_READ_TIMEOUT", "5s")
	t.Setenv("DEVHUB_WRITE_TIMEOUT", "45")
	t.Setenv("DEVHUB_ALLOWED_ORIGINS", "https://app.example.com, https://admin.example.com")
	t.Setenv("DEVHUB_METRICS_ENABLED", "false")
	t.Setenv("DEVHUB_DATABASE", "devhub_test")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 45*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.Server.AllowedOrigins)
	assert.False(t, cfg.Observability.MetricsEnabled)
	assert.Equal(t, "devhub_test", cfg.Store.Database)
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(t *testing.T)
		errMsg string
	}{
		{
			name: "missing store URI",
			setup: func(t *testing.T) {
				setRequiredEnv(t)
				t.Setenv("MONGODB_URI", "")
			},
			errMsg: "MONGODB_URI is required",
		},
		{
			name: "missing issuer",
			setup: func(t *testing.T) {
				setRequiredEnv(t)
				t.Setenv("DEVHUB_CLERK_ISSUER_URL", "")
			},
			errMsg: "DEVHUB_CLERK_ISSUER_URL is required",
		},
		{
			name: "missing secret key",
			setup: func(t *testing.T) {
				setRequiredEnv(t)
				t.Setenv("CLERK_SECRET_KEY", "")
			},
			errMsg: "CLERK_SECRET_KEY is required",
		},
		{
			name: "port clash",
			setup: func(t *testing.T) {
				setRequiredEnv(t)
				t.Setenv("DEVHUB_PORT", "8080")
				t.Setenv("DEVHUB_HEALTH_PORT", "8080")
			},
			errMsg: "must be different",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup(t)
			cfg, err := LoadConfig()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
			assert.Nil(t, cfg)
		})
	}
}

func TestValidateTracingEndpoint(t *testing.T) {
	cfg := &Config{}
	cfg.Store.URI = "mongodb://localhost:27017"
	cfg.Server.Port = "8080"
	cfg.Server.HealthPort = "9090"
	cfg.Identity.IssuerURL = "https://clerk.example.com"
	cfg.Identity.SecretKey = "sk_test_secret"
	cfg.Observability.OTelEnabled = true

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OTel endpoint is required")

	cfg.Observability.OTelEndpoint = "localhost:4317"
	assert.NoError(t, cfg.Validate())
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("TEST_DURATION", "2m")
	assert.Equal(t, 2*time.Minute, getEnvDuration("TEST_DURATION", time.Second))

	t.Setenv("TEST_DURATION", "90")
	assert.Equal(t, 90*time.Second, getEnvDuration("TEST_DURATION", time.Second))

	t.Setenv("TEST_DURATION", "not-a-duration")
	assert.Equal(t, time.Second, getEnvDuration("TEST_DURATION", time.Second))
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, splitList(""))
	assert.Equal(t, []string{"a", "b"}, splitList("a,b"))
	assert.Equal(t, []string{"a", "b"}, splitList(" a , b , "))
}
