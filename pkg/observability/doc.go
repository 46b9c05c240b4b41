// Package observability provides structured logging, Prometheus metrics,
// health probes and OpenTelemetry tracing for the dictionary service.
//
// # Structured Logging
//
// Create a logger:
//
//	logger := observability.NewLogger(observability.InfoLevel, os.Stdout)
//	logger.Infof("listening on %s", addr)
//
// # Prometheus Metrics
//
// Initialize and use metrics:
//
//	registry := prometheus.NewRegistry()
//	metrics := observability.NewMetrics(registry)
//	metrics.QueriesTotal.WithLabelValues("FIX.5.0SP2", "field").Inc()
//
// # Health Checks
//
// The readiness probe reports 503 until the dictionary store has loaded
// at least one version:
//
//	checker := observability.NewHealthChecker(store, version)
//	observability.RegisterHealthRoutes(mux, checker)
//
// # OpenTelemetry
//
// Tracing and OTLP metrics are optional and disabled unless configured:
//
//	providers, err := observability.InitOTel(ctx, cfg, logger)
//	defer observability.ShutdownOTel(ctx, providers, logger)
package observability
