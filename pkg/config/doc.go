// Package config provides application configuration management from environment variables.
//
// # Configuration Structure
//
// Server settings:
//
//	FIXDICT_HOST="0.0.0.0"
//	FIXDICT_PORT="8080"
//	FIXDICT_HEALTH_PORT="9090"
//	FIXDICT_READ_TIMEOUT="15s"
//	FIXDICT_WRITE_TIMEOUT="15s"
//	FIXDICT_API_PREFIX="/api"
//	FIXDICT_GATEWAY_PREFIX="/fixdict"   # optional second mount point
//	FIXDICT_CORS_ORIGINS="*"
//
// Dictionary data settings:
//
//	FIXDICT_RESOURCES_DIR="resources"   # root of the per-version XML files
//	FIXDICT_DETAIL_CACHE_SIZE="512"
//
// Observability settings:
//
//	FIXDICT_LOG_LEVEL="info"  # debug, info, warn, error
//	FIXDICT_METRICS_ENABLED="true"
//	FIXDICT_OTEL_ENABLED="false"
//	FIXDICT_OTEL_ENDPOINT="otel-collector:4317"
//
// # Usage Example
//
//	cfg, err := config.LoadConfig()
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("Server: %s:%s\n", cfg.Server.Host, cfg.Server.Port)
package config
