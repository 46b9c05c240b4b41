package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPResponseSize    *prometheus.HistogramVec

	// Dictionary load metrics
	DictionaryLoadDuration *prometheus.HistogramVec
	DictionaryEntities     *prometheus.GaugeVec

	// Query metrics
	QueriesTotal  *prometheus.CounterVec
	SearchesTotal *prometheus.CounterVec
	SearchResults *prometheus.HistogramVec

	// Detail cache metrics
	DetailCacheHits    *prometheus.CounterVec
	DetailCacheMisses  *prometheus.CounterVec
	DetailCacheEntries prometheus.Gauge
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fixdict_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fixdict_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		HTTPResponseSize: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fixdict_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: prometheus.ExponentialBuckets(100, 10, 8),
			},
			[]string{"method", "path"},
		),

		DictionaryLoadDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fixdict_dictionary_load_duration_seconds",
				Help:    "Time spent loading one dictionary version",
				Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"version"},
		),
		DictionaryEntities: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "fixdict_dictionary_entities",
				Help: "Number of loaded rows per dictionary version and entity kind",
			},
			[]string{"version", "kind"},
		),

		QueriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fixdict_queries_total",
				Help: "Total number of listing queries served",
			},
			[]string{"version", "kind"},
		),
		SearchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fixdict_searches_total",
				Help: "Total number of searches served",
			},
			[]string{"version", "type"},
		),
		SearchResults: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fixdict_search_results",
				Help:    "Number of results returned per search",
				Buckets: []float64{0, 1, 5, 10, 25, 50, 100},
			},
			[]string{"version"},
		),

		DetailCacheHits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fixdict_detail_cache_hits_total",
				Help: "Total number of detail cache hits",
			},
			[]string{"cache_type"},
		),
		DetailCacheMisses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fixdict_detail_cache_misses_total",
				Help: "Total number of detail cache misses",
			},
			[]string{"cache_type"},
		),
		DetailCacheEntries: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "fixdict_detail_cache_entries",
				Help: "Number of memoized detail views across all caches",
			},
		),
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPResponseSize,
		m.DictionaryLoadDuration,
		m.DictionaryEntities,
		m.QueriesTotal,
		m.SearchesTotal,
		m.SearchResults,
		m.DetailCacheHits,
		m.DetailCacheMisses,
		m.DetailCacheEntries,
	)

	return m
}

// CacheHit increments the detail cache hit counter for one cache type.
func (m *Metrics) CacheHit(cacheType string) {
	m.DetailCacheHits.WithLabelValues(cacheType).Inc()
}

// CacheMiss increments the detail cache miss counter for one cache type.
func (m *Metrics) CacheMiss(cacheType string) {
	m.DetailCacheMisses.WithLabelValues(cacheType).Inc()
}

// responseWriter wraps http.ResponseWriter to capture status code and size
type responseWriter struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.bytesWritten += n
	return n, err
}

// HTTPMetricsMiddleware instruments HTTP requests with Prometheus metrics.
// The path label uses the route template, not the raw URL, so tag and
// name path segments do not explode cardinality.
func HTTPMetricsMiddleware(metrics *Metrics, routePath func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rw := &responseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(rw, r)

			path := r.URL.Path
			if routePath != nil {
				if p := routePath(r); p != "" {
					path = p
				}
			}

			duration := time.Since(start).Seconds()
			status := strconv.Itoa(rw.statusCode)

			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
			metrics.HTTPResponseSize.WithLabelValues(r.Method, path).Observe(float64(rw.bytesWritten))
		})
	}
}

// RegisterMetricsEndpoint registers the /metrics endpoint
func RegisterMetricsEndpoint(mux *http.ServeMux, registry *prometheus.Registry) {
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
}
