package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/tradeweave/fixdict/pkg/observability"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Dictionary data configuration
	Dictionary DictionaryConfig

	// Observability configuration
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

	// Health/metrics server (separate port for k8s probes)
	HealthPort string

	// APIPrefix is the canonical route prefix (e.g. /api/v1). A
	// non-empty GatewayPrefix mounts the same routes a second time for
	// deployments behind a path-rewriting ingress.
	APIPrefix     string
	GatewayPrefix string

	// CORSOrigins lists allowed origins; "*" allows any.
	CORSOrigins []string
}

// DictionaryConfig holds the dictionary data settings
type DictionaryConfig struct {
	// ResourcesDir is the root of the per-version XML repository files.
	ResourcesDir string

	// DetailCacheSize bounds each of the resolver's detail caches.
	DetailCacheSize int
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	// Logging
	LogLevel observability.LogLevel

	// Metrics
	MetricsEnabled bool

	// OpenTelemetry
	OTelEnabled        bool
	OTelEndpoint       string
	OTelServiceName    string
	OTelServiceVersion string
	OTelInsecure       bool // Use insecure gRPC connection
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Server:        loadServerConfig(),
		Dictionary:    loadDictionaryConfig(),
		Observability: loadObservabilityConfig(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadServerConfig loads server configuration from environment
func loadServerConfig() ServerConfig {
	return ServerConfig{
		Host:            getEnv("FIXDICT_HOST", "0.0.0.0"),
		Port:            getEnv("FIXDICT_PORT", "8080"),
		ReadTimeout:     getEnvDuration("FIXDICT_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:    getEnvDuration("FIXDICT_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:     getEnvDuration("FIXDICT_IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout: getEnvDuration("FIXDICT_SHUTDOWN_TIMEOUT", 30*time.Second),
		HealthPort:      getEnv("FIXDICT_HEALTH_PORT", "9090"),
		APIPrefix:       getEnv("FIXDICT_API_PREFIX", "/api"),
		GatewayPrefix:   getEnv("FIXDICT_GATEWAY_PREFIX", ""),
		CORSOrigins:     splitNonEmpty(getEnv("FIXDICT_CORS_ORIGINS", "*")),
	}
}

// loadDictionaryConfig loads dictionary data configuration from environment
func loadDictionaryConfig() DictionaryConfig {
	return DictionaryConfig{
		ResourcesDir:    getEnv("FIXDICT_RESOURCES_DIR", "resources"),
		DetailCacheSize: getEnvInt("FIXDICT_DETAIL_CACHE_SIZE", 512),
	}
}

// loadObservabilityConfig loads observability configuration from environment
func loadObservabilityConfig() ObservabilityConfig {
	return ObservabilityConfig{
		LogLevel:           observability.ParseLogLevel(getEnv("FIXDICT_LOG_LEVEL", "info")),
		MetricsEnabled:     getEnvBool("FIXDICT_METRICS_ENABLED", true),
		OTelEnabled:        getEnvBool("FIXDICT_OTEL_ENABLED", false),
		OTelEndpoint:       getEnv("FIXDICT_OTEL_ENDPOINT", "localhost:4317"),
		OTelServiceName:    getEnv("FIXDICT_OTEL_SERVICE_NAME", "fixdict"),
		OTelServiceVersion: getEnv("FIXDICT_OTEL_SERVICE_VERSION", "1.0.0"),
		OTelInsecure:       getEnvBool("FIXDICT_OTEL_INSECURE", true),
	}
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
	if !strings.HasPrefix(c.Server.APIPrefix, "/") {
		return fmt.Errorf("API prefix must start with /: %s", c.Server.APIPrefix)
	}
	if c.Server.GatewayPrefix != "" && !strings.HasPrefix(c.Server.GatewayPrefix, "/") {
		return fmt.Errorf("gateway prefix must start with /: %s", c.Server.GatewayPrefix)
	}

	if c.Dictionary.ResourcesDir == "" {
		return fmt.Errorf("resources directory is required")
	}
	if c.Dictionary.DetailCacheSize <= 0 {
		return fmt.Errorf("detail cache size must be positive")
	}

	if c.Observability.OTelEnabled {
		if c.Observability.OTelEndpoint == "" {
			return fmt.Errorf("OpenTelemetry endpoint is required when OTel is enabled")
		}
		if c.Observability.OTelServiceName == "" {
			return fmt.Errorf("OpenTelemetry service name is required when OTel is enabled")
		}
	}

	return nil
}

// splitNonEmpty splits a comma-separated list, dropping empty entries
func splitNonEmpty(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
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

// getEnvInt returns an integer environment variable or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
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
