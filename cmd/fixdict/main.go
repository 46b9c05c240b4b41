package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/tradeweave/fixdict/pkg/api"
	"github.com/tradeweave/fixdict/pkg/config"
	"github.com/tradeweave/fixdict/pkg/dict"
	"github.com/tradeweave/fixdict/pkg/observability"
)

const serviceVersion = "1.0.0"

func main() {
	resourcesDir := flag.String("resources-dir", "", "Override the dictionary resources directory")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if *resourcesDir != "" {
		cfg.Dictionary.ResourcesDir = *resourcesDir
	}

	logger := observability.NewLogger(cfg.Observability.LogLevel, os.Stdout)
	logger.WithFields(map[string]interface{}{
		"resources_dir": cfg.Dictionary.ResourcesDir,
		"port":          cfg.Server.Port,
		"health_port":   cfg.Server.HealthPort,
	}).Info("Starting fixdict")

	ctx := context.Background()

	providers, err := observability.InitOTel(ctx, observability.OTelConfig{
		Enabled:        cfg.Observability.OTelEnabled,
		Endpoint:       cfg.Observability.OTelEndpoint,
		ServiceName:    cfg.Observability.OTelServiceName,
		ServiceVersion: cfg.Observability.OTelServiceVersion,
		Insecure:       cfg.Observability.OTelInsecure,
	}, logger)
	if err != nil {
		logger.WithError(err).Error("Failed to initialize OpenTelemetry")
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	var metrics *observability.Metrics
	if cfg.Observability.MetricsEnabled {
		metrics = observability.NewMetrics(registry)
	}

	loader := dict.VersionLoader(dict.NewXMLLoader(cfg.Dictionary.ResourcesDir))
	if metrics != nil {
		loader = timedLoader{inner: loader, metrics: metrics}
	}
	store := dict.NewStore(loader, logger)
	if err := store.Load(ctx); err != nil {
		logger.WithError(err).Error("Failed to load dictionary data")
		os.Exit(1)
	}
	if metrics != nil {
		for _, version := range dict.SupportedVersions() {
			for kind, n := range store.Counts(version) {
				metrics.DictionaryEntities.WithLabelValues(string(version), string(kind)).Set(float64(n))
			}
		}
	}

	resolver := dict.NewResolver(store, cfg.Dictionary.DetailCacheSize)
	if metrics != nil {
		resolver.SetCacheStats(metrics)
	}
	server := api.NewServer(cfg.Server, store, resolver, logger, metrics)

	var handler http.Handler = server
	if providers != nil {
		handler = otelhttp.NewHandler(server, "fixdict")
	}

	apiServer := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	healthMux := http.NewServeMux()
	observability.RegisterHealthRoutes(healthMux, observability.NewHealthChecker(store, serviceVersion))
	if metrics != nil {
		observability.RegisterMetricsEndpoint(healthMux, registry)
	}
	healthServer := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.HealthPort,
		Handler:      healthMux,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	stopGauges := make(chan struct{})
	if metrics != nil {
		go updateCacheGauge(logger, metrics, resolver, stopGauges)
	}

	go func() {
		logger.Infof("API server listening on %s", apiServer.Addr)
		if err := apiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Error("API server failed")
			os.Exit(1)
		}
	}()
	go func() {
		logger.Infof("Health server listening on %s", healthServer.Addr)
		if err := healthServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Error("Health server failed")
			os.Exit(1)
		}
	}()

	shutdown := observability.NewShutdownManager(logger, cfg.Server.ShutdownTimeout, apiServer, healthServer)
	shutdown.RegisterShutdownFunc(func(context.Context) error {
		close(stopGauges)
		return nil
	})
	shutdown.RegisterShutdownFunc(func(ctx context.Context) error {
		return observability.ShutdownOTel(ctx, providers, logger)
	})

	if err := shutdown.WaitForShutdown(); err != nil {
		logger.WithError(err).Error("Shutdown finished with errors")
		os.Exit(1)
	}
}

// updateCacheGauge periodically publishes the resolver's memoized entry
// count.
func updateCacheGauge(logger *observability.Logger, metrics *observability.Metrics, resolver *dict.Resolver, stop <-chan struct{}) {
	defer observability.RecoverPanic(logger, "cache gauge updater")
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			metrics.DetailCacheEntries.Set(float64(resolver.CacheLen()))
		case <-stop:
			return
		}
	}
}

// timedLoader records per-version load duration around the real loader.
type timedLoader struct {
	inner   dict.VersionLoader
	metrics *observability.Metrics
}

func (l timedLoader) LoadVersion(version dict.Version) (*dict.TableSet, error) {
	start := time.Now()
	set, err := l.inner.LoadVersion(version)
	l.metrics.DictionaryLoadDuration.WithLabelValues(string(version)).Observe(time.Since(start).Seconds())
	return set, err
}
