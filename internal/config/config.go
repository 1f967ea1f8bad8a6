package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds configuration settings for the simulated MES backend
type Config struct {
	// API Server
	APIHost  string
	APIPort  int
	LogLevel string

	// Simulated network latency bounds for dispatched requests
	LatencyMin time.Duration
	LatencyMax time.Duration

	// Instance store
	StoreBackend  string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string

	// Inbound QC disposition policy: a lot is Released at or above the
	// release pass fraction, Rejected at or below the reject pass fraction,
	// and Blocked in between
	QCReleaseThreshold float64
	QCRejectThreshold  float64

	ShutdownTimeout time.Duration
}

const (
	StoreBackendMemory = "memory"
	StoreBackendRedis  = "redis"

	DefaultAPIHost = "0.0.0.0"
	DefaultAPIPort = 8080
	MaxTCPPort     = 65535

	// Latency defaults mirror the pilot harness (400-800ms per request)
	DefaultLatencyMin = 400 * time.Millisecond
	DefaultLatencyMax = 800 * time.Millisecond
	MaxLatency        = 30 * time.Second

	DefaultRedisAddr   = "localhost:6379"
	DefaultRedisPrefix = "mesflow:"

	DefaultQCReleaseThreshold = 1.0
	DefaultQCRejectThreshold  = 0.0

	DefaultShutdownTimeout = 10 * time.Second
)

var (
	ErrInvalidAPIPort      = errors.New("invalid API port")
	ErrInvalidLatency      = errors.New("invalid latency bounds")
	ErrInvalidStoreBackend = errors.New("invalid store backend")
	ErrInvalidQCThresholds = errors.New(
		"QC thresholds must satisfy 0 <= reject < release <= 1",
	)
)

// NewDefaultConfig creates a configuration with sensible pilot defaults
func NewDefaultConfig() *Config {
	return &Config{
		APIHost:            DefaultAPIHost,
		APIPort:            DefaultAPIPort,
		LogLevel:           "info",
		LatencyMin:         DefaultLatencyMin,
		LatencyMax:         DefaultLatencyMax,
		StoreBackend:       StoreBackendMemory,
		RedisAddr:          DefaultRedisAddr,
		RedisPrefix:        DefaultRedisPrefix,
		QCReleaseThreshold: DefaultQCReleaseThreshold,
		QCRejectThreshold:  DefaultQCRejectThreshold,
		ShutdownTimeout:    DefaultShutdownTimeout,
	}
}

// LoadFromEnv populates configuration values from environment variables.
// Returns an error if any env var cannot be parsed
func (c *Config) LoadFromEnv() error {
	if host := os.Getenv("API_HOST"); host != "" {
		c.APIHost = host
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.LogLevel = level
	}
	if backend := os.Getenv("STORE_BACKEND"); backend != "" {
		c.StoreBackend = backend
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		c.RedisAddr = addr
	}
	if password := os.Getenv("REDIS_PASSWORD"); password != "" {
		c.RedisPassword = password
	}
	if prefix := os.Getenv("REDIS_PREFIX"); prefix != "" {
		c.RedisPrefix = prefix
	}

	if err := loadEnvInt("API_PORT", &c.APIPort, 0, MaxTCPPort); err != nil {
		return err
	}
	if err := loadEnvInt("REDIS_DB", &c.RedisDB, -1, 15); err != nil {
		return err
	}

	if err := loadEnvMillis("SIM_LATENCY_MIN_MS", &c.LatencyMin); err != nil {
		return err
	}
	if err := loadEnvMillis("SIM_LATENCY_MAX_MS", &c.LatencyMax); err != nil {
		return err
	}

	if err := loadEnvFraction(
		"QC_RELEASE_THRESHOLD", &c.QCReleaseThreshold,
	); err != nil {
		return err
	}
	if err := loadEnvFraction(
		"QC_REJECT_THRESHOLD", &c.QCRejectThreshold,
	); err != nil {
		return err
	}

	if s := os.Getenv("SHUTDOWN_TIMEOUT"); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %q", s)
		}
		c.ShutdownTimeout = d
	}

	return nil
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	if c.APIPort <= 0 || c.APIPort > MaxTCPPort {
		return fmt.Errorf("%w: %d", ErrInvalidAPIPort, c.APIPort)
	}

	if c.LatencyMin < 0 || c.LatencyMax < c.LatencyMin ||
		c.LatencyMax > MaxLatency {
		return fmt.Errorf("%w: min=%s max=%s",
			ErrInvalidLatency, c.LatencyMin, c.LatencyMax)
	}

	if c.StoreBackend != StoreBackendMemory &&
		c.StoreBackend != StoreBackendRedis {
		return fmt.Errorf("%w: %s", ErrInvalidStoreBackend, c.StoreBackend)
	}

	if c.QCRejectThreshold < 0 || c.QCReleaseThreshold > 1 ||
		c.QCRejectThreshold >= c.QCReleaseThreshold {
		return fmt.Errorf("%w: reject=%.2f release=%.2f",
			ErrInvalidQCThresholds,
			c.QCRejectThreshold, c.QCReleaseThreshold)
	}

	return nil
}

// loadEnvInt reads key from the environment, parses it as an integer, and
// sets *dst if the value is in the range (min, max]. Returns an error if the
// value cannot be parsed or falls outside the valid range
func loadEnvInt(key string, dst *int, min, max int) error {
	s := os.Getenv(key)
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("invalid %s: %q", key, s)
	}
	if v <= min || v > max {
		return fmt.Errorf("invalid %s: %d out of range (%d, %d]",
			key, v, min, max)
	}
	*dst = v
	return nil
}

func loadEnvMillis(key string, dst *time.Duration) error {
	s := os.Getenv(key)
	if s == "" {
		return nil
	}
	ms, err := strconv.Atoi(s)
	if err != nil || ms < 0 {
		return fmt.Errorf("invalid %s: %q", key, s)
	}
	*dst = time.Duration(ms) * time.Millisecond
	return nil
}

func loadEnvFraction(key string, dst *float64) error {
	s := os.Getenv(key)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 || v > 1 {
		return fmt.Errorf("invalid %s: %q", key, s)
	}
	*dst = v
	return nil
}
