package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cellworks/mesflow/internal/config"
)

func TestDefaultsAreValid(t *testing.T) {
	cfg := config.NewDefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, config.DefaultAPIPort, cfg.APIPort)
	assert.Equal(t, config.StoreBackendMemory, cfg.StoreBackend)
	assert.Equal(t, 400*time.Millisecond, cfg.LatencyMin)
	assert.Equal(t, 800*time.Millisecond, cfg.LatencyMax)
	assert.Equal(t, 1.0, cfg.QCReleaseThreshold)
	assert.Equal(t, 0.0, cfg.QCRejectThreshold)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("API_HOST", "127.0.0.1")
	t.Setenv("API_PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SIM_LATENCY_MIN_MS", "0")
	t.Setenv("SIM_LATENCY_MAX_MS", "5")
	t.Setenv("STORE_BACKEND", "redis")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("QC_RELEASE_THRESHOLD", "0.9")
	t.Setenv("QC_REJECT_THRESHOLD", "0.1")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")

	cfg := config.NewDefaultConfig()
	require.NoError(t, cfg.LoadFromEnv())
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "127.0.0.1", cfg.APIHost)
	assert.Equal(t, 9090, cfg.APIPort)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, time.Duration(0), cfg.LatencyMin)
	assert.Equal(t, 5*time.Millisecond, cfg.LatencyMax)
	assert.Equal(t, config.StoreBackendRedis, cfg.StoreBackend)
	assert.Equal(t, "redis:6379", cfg.RedisAddr)
	assert.Equal(t, 0.9, cfg.QCReleaseThreshold)
	assert.Equal(t, 0.1, cfg.QCRejectThreshold)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
}

func TestLoadFromEnvRejectsBadValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad port", "API_PORT", "not-a-port"},
		{"port out of range", "API_PORT", "70000"},
		{"bad latency", "SIM_LATENCY_MIN_MS", "-5"},
		{"bad threshold", "QC_RELEASE_THRESHOLD", "1.5"},
		{"bad timeout", "SHUTDOWN_TIMEOUT", "soon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			cfg := config.NewDefaultConfig()
			assert.Error(t, cfg.LoadFromEnv())
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		err    error
	}{
		{
			"zero port",
			func(c *config.Config) { c.APIPort = 0 },
			config.ErrInvalidAPIPort,
		},
		{
			"max below min latency",
			func(c *config.Config) {
				c.LatencyMin = time.Second
				c.LatencyMax = time.Millisecond
			},
			config.ErrInvalidLatency,
		},
		{
			"unknown backend",
			func(c *config.Config) { c.StoreBackend = "mongo" },
			config.ErrInvalidStoreBackend,
		},
		{
			"reject above release",
			func(c *config.Config) {
				c.QCRejectThreshold = 0.8
				c.QCReleaseThreshold = 0.5
			},
			config.ErrInvalidQCThresholds,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.NewDefaultConfig()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), tt.err)
		})
	}
}
