package config

import (
	"os"
	"strconv"
	"time"

	// Load environment variables from .env files when present.
	_ "github.com/joho/godotenv/autoload"
)

// Config holds all application configuration
type Config struct {
	Server        ServerConfig
	Convert       ConvertConfig
	Observability ObservabilityConfig
}

type ServerConfig struct {
	Host               string
	Port               int
	AllowedOrigins     []string
	RateLimitPerSecond int
	RateLimitBurst     int
	ShutdownTimeout    time.Duration
}

// ConvertConfig bounds a single conversion request. The line cap guards
// against pathological PDFs that expand into unbounded repeated noise lines.
type ConvertConfig struct {
	MaxUploadBytes   int64
	MaxDocumentLines int
	Timeout          time.Duration
}

type ObservabilityConfig struct {
	MetricsEnabled bool
	MetricsPort    int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:               getEnv("SERVER_HOST", "0.0.0.0"),
			Port:               getEnvAsInt("SERVER_PORT", 8000),
			AllowedOrigins:     []string{getEnv("CORS_ALLOWED_ORIGIN", "*")},
			RateLimitPerSecond: getEnvAsInt("SERVER_RATE_LIMIT_PER_SECOND", 20),
			RateLimitBurst:     getEnvAsInt("SERVER_RATE_LIMIT_BURST", 40),
			ShutdownTimeout:    getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT_SECONDS", 10*time.Second),
		},
		Convert: ConvertConfig{
			MaxUploadBytes:   int64(getEnvAsInt("MAX_UPLOAD_BYTES", 20<<20)),
			MaxDocumentLines: getEnvAsInt("MAX_DOCUMENT_LINES", 50000),
			Timeout:          getEnvAsDuration("CONVERT_TIMEOUT_SECONDS", 30*time.Second),
		},
		Observability: ObservabilityConfig{
			MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),
			MetricsPort:    getEnvAsInt("METRICS_PORT", 9090),
		},
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if value, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(value) * time.Second
	}
	return defaultValue
}
