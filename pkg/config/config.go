package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/platinummonkey/kafka-console/pkg/observability"
)

// ConsoleMode controls whether the console may issue mutating requests to the backend
type ConsoleMode string

const (
	ModeReadOnly  ConsoleMode = "read-only"
	ModeReadWrite ConsoleMode = "read-write"
)

// Config holds all application configuration
type Config struct {
	Server        ServerConfig
	Auth          AuthConfig
	Backend       BackendConfig
	Console       ConsoleConfig
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
}

// AuthConfig holds sign-in and session settings
type AuthConfig struct {
	// PublicURL is the externally visible console URL (NEXTAUTH_URL)
	PublicURL string
	// Secret signs session tokens (NEXTAUTH_SECRET)
	Secret        string
	SessionMaxAge time.Duration

	// Optional Keycloak identity provider
	KeycloakClientID     string
	KeycloakClientSecret string
	KeycloakURL          string

	// RedisURL enables the shared revocation store and sign-in limiter; empty keeps both in memory
	RedisURL string

	// SignInRateLimit is the number of credential sign-ins allowed per client IP per
	// SignInRateWindow. Zero disables the limit.
	SignInRateLimit  int
	SignInRateWindow time.Duration

	// TrustedProxies lists the addresses and CIDR ranges whose forwarding headers identify
	// the client for sign-in throttling. Empty keys throttling by the connecting address.
	TrustedProxies string
}

// KeycloakEnabled reports whether the Keycloak provider is configured
func (a AuthConfig) KeycloakEnabled() bool {
	return a.KeycloakClientID != "" && a.KeycloakClientSecret != "" && a.KeycloakURL != ""
}

// SecureCookies reports whether session cookies should carry the Secure attribute
func (a AuthConfig) SecureCookies() bool {
	return strings.HasPrefix(strings.ToLower(a.PublicURL), "https://")
}

// BackendConfig holds the cluster registry settings
type BackendConfig struct {
	// URL is the console API base URL (BACKEND_URL)
	URL string
	// ConfigPath points at a YAML cluster list used instead of the backend registry
	ConfigPath string
	CacheTTL   time.Duration
	Timeout    time.Duration
}

// ConsoleConfig holds console behaviour flags
type ConsoleConfig struct {
	Mode             ConsoleMode
	ProductizedBuild bool
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	LogLevel observability.LogLevel

	MetricsEnabled bool

	OTelEnabled        bool
	OTelEndpoint       string
	OTelServiceName    string
	OTelServiceVersion string
	OTelInsecure       bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Server:        loadServerConfig(),
		Auth:          loadAuthConfig(),
		Backend:       loadBackendConfig(),
		Console:       loadConsoleConfig(),
		Observability: loadObservabilityConfig(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Host:            getEnv("CONSOLE_HOST", "0.0.0.0"),
		Port:            getEnv("CONSOLE_PORT", "3000"),
		ReadTimeout:     getEnvDuration("CONSOLE_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:    getEnvDuration("CONSOLE_WRITE_TIMEOUT", 30*time.Second),
		IdleTimeout:     getEnvDuration("CONSOLE_IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout: getEnvDuration("CONSOLE_SHUTDOWN_TIMEOUT", 30*time.Second),
		HealthPort:      getEnv("CONSOLE_HEALTH_PORT", "9090"),
	}
}

func loadAuthConfig() AuthConfig {
	return AuthConfig{
		PublicURL:            getEnv("NEXTAUTH_URL", "http://localhost:3000"),
		Secret:               getEnv("NEXTAUTH_SECRET", ""),
		SessionMaxAge:        getEnvDuration("CONSOLE_SESSION_MAX_AGE", 30*time.Minute),
		KeycloakClientID:     getEnv("KEYCLOAK_CLIENTID", ""),
		KeycloakClientSecret: getEnv("KEYCLOAK_CLIENTSECRET", ""),
		KeycloakURL:          getEnv("NEXT_PUBLIC_KEYCLOAK_URL", ""),
		RedisURL:             getEnv("CONSOLE_REDIS_URL", ""),
		SignInRateLimit:      getEnvInt("CONSOLE_SIGNIN_RATE_LIMIT", 10),
		SignInRateWindow:     getEnvDuration("CONSOLE_SIGNIN_RATE_WINDOW", time.Minute),
		TrustedProxies:       getEnv("CONSOLE_TRUSTED_PROXIES", ""),
	}
}

func loadBackendConfig() BackendConfig {
	return BackendConfig{
		URL:        strings.TrimSuffix(getEnv("BACKEND_URL", ""), "/"),
		ConfigPath: getEnv("CONSOLE_CONFIG_PATH", ""),
		CacheTTL:   getEnvDuration("CONSOLE_REGISTRY_CACHE_TTL", 30*time.Second),
		Timeout:    getEnvDuration("CONSOLE_REGISTRY_TIMEOUT", 10*time.Second),
	}
}

func loadConsoleConfig() ConsoleConfig {
	return ConsoleConfig{
		Mode:             ConsoleMode(strings.ToLower(getEnv("CONSOLE_MODE", string(ModeReadWrite)))),
		ProductizedBuild: getEnvBool("NEXT_PUBLIC_PRODUCTIZED_BUILD", false),
	}
}

func loadObservabilityConfig() ObservabilityConfig {
	return ObservabilityConfig{
		LogLevel:           observability.ParseLogLevel(getEnv("LOG_LEVEL", "info")),
		MetricsEnabled:     getEnvBool("CONSOLE_METRICS_ENABLED", true),
		OTelEnabled:        getEnvBool("CONSOLE_OTEL_ENABLED", false),
		OTelEndpoint:       getEnv("CONSOLE_OTEL_ENDPOINT", "localhost:4317"),
		OTelServiceName:    getEnv("CONSOLE_OTEL_SERVICE_NAME", "kafka-console"),
		OTelServiceVersion: getEnv("CONSOLE_OTEL_SERVICE_VERSION", "1.0.0"),
		OTelInsecure:       getEnvBool("CONSOLE_OTEL_INSECURE", true),
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

	if c.Auth.Secret == "" {
		return fmt.Errorf("NEXTAUTH_SECRET is required")
	}
	if c.Auth.SessionMaxAge <= 0 {
		return fmt.Errorf("session max age must be positive")
	}
	if _, err := url.ParseRequestURI(c.Auth.PublicURL); err != nil {
		return fmt.Errorf("invalid NEXTAUTH_URL: %w", err)
	}

	if c.Auth.SignInRateLimit < 0 {
		return fmt.Errorf("sign-in rate limit must not be negative")
	}
	if c.Auth.SignInRateLimit > 0 && c.Auth.SignInRateWindow <= 0 {
		return fmt.Errorf("sign-in rate window must be positive")
	}

	keycloakSet := 0
	for _, v := range []string{c.Auth.KeycloakClientID, c.Auth.KeycloakClientSecret, c.Auth.KeycloakURL} {
		if v != "" {
			keycloakSet++
		}
	}
	if keycloakSet != 0 && keycloakSet != 3 {
		return fmt.Errorf("KEYCLOAK_CLIENTID, KEYCLOAK_CLIENTSECRET and NEXT_PUBLIC_KEYCLOAK_URL must be set together")
	}

	if c.Backend.URL == "" && c.Backend.ConfigPath == "" {
		return fmt.Errorf("BACKEND_URL or CONSOLE_CONFIG_PATH is required")
	}
	if c.Backend.URL != "" {
		if _, err := url.ParseRequestURI(c.Backend.URL); err != nil {
			return fmt.Errorf("invalid BACKEND_URL: %w", err)
		}
	}

	switch c.Console.Mode {
	case ModeReadOnly, ModeReadWrite:
	default:
		return fmt.Errorf("invalid console mode: %s (must be read-only or read-write)", c.Console.Mode)
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

// getEnvDuration returns a duration environment variable or a default.
// Plain integers are read as seconds.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		if secs := getEnvInt(key, -1); secs >= 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}
