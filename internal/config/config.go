package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all replay service configuration
type Config struct {
	Server ServerConfig
	Buffer BufferConfig
	NATS   NATSConfig
	Health HealthConfig

	LogLevel string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            int
	Host            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// BufferConfig holds replay buffer configuration
type BufferConfig struct {
	Capacity int
	// Seed fixes the sampling RNG when non-zero; zero means time-seeded.
	Seed int64
}

// NATSConfig holds NATS configuration. An empty URL disables publishing.
type NATSConfig struct {
	URL     string
	Subject string
}

// HealthConfig holds occupancy reporting configuration
type HealthConfig struct {
	ReportInterval time.Duration
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnvInt("PORT", 8080),
			Host:            getEnvString("HOST", "0.0.0.0"),
			ReadTimeout:     getEnvDuration("READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getEnvDuration("WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Buffer: BufferConfig{
			Capacity: getEnvInt("BUFFER_CAPACITY", 100000),
			Seed:     int64(getEnvInt("BUFFER_SEED", 0)),
		},
		NATS: NATSConfig{
			URL:     getEnvString("NATS_URL", ""),
			Subject: getEnvString("NATS_SUBJECT", "buffer-status"),
		},
		Health: HealthConfig{
			ReportInterval: getEnvDuration("OCCUPANCY_REPORT_INTERVAL", 30*time.Second),
		},
		LogLevel: getEnvString("LOG_LEVEL", "info"),
	}

	if cfg.Buffer.Capacity <= 0 {
		return nil, fmt.Errorf("BUFFER_CAPACITY must be greater than zero, got %d", cfg.Buffer.Capacity)
	}
	if cfg.Health.ReportInterval <= 0 {
		return nil, fmt.Errorf("OCCUPANCY_REPORT_INTERVAL must be greater than zero, got %s", cfg.Health.ReportInterval)
	}

	return cfg, nil
}

// Addr returns the listen address of the HTTP server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
