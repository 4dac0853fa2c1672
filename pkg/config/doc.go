// Package config provides console configuration management from environment variables.
//
// # Configuration Structure
//
// Sign-in settings:
//
//	NEXTAUTH_URL="https://console.example.com"
//	NEXTAUTH_SECRET="..."                      # signs session tokens
//	CONSOLE_SESSION_MAX_AGE="30m"
//	KEYCLOAK_CLIENTID / KEYCLOAK_CLIENTSECRET / NEXT_PUBLIC_KEYCLOAK_URL
//	CONSOLE_REDIS_URL="redis://redis:6379/0"   # optional shared revocation store
//
// Cluster registry settings:
//
//	BACKEND_URL="http://console-api:8080"
//	CONSOLE_CONFIG_PATH="/etc/console/config.yaml"  # static cluster list instead of BACKEND_URL
//	CONSOLE_REGISTRY_CACHE_TTL="30s"
//
// Console settings:
//
//	CONSOLE_MODE="read-write"  # read-only, read-write
//	NEXT_PUBLIC_PRODUCTIZED_BUILD="false"
//
// Observability settings:
//
//	LOG_LEVEL="info"  # fatal, error, warn, info, debug, trace
//	CONSOLE_METRICS_ENABLED="true"
//	CONSOLE_OTEL_ENABLED="false"
//
// # Usage Example
//
//	cfg, err := config.LoadConfig()
//	if err != nil {
//		log.Fatal(err)
//	}
package config
