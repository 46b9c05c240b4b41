package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tradeweave/fixdict/pkg/config"
	"github.com/tradeweave/fixdict/pkg/dict"
	"github.com/tradeweave/fixdict/pkg/httputil"
	"github.com/tradeweave/fixdict/pkg/observability"
)

// RouteRegistrar registers a related group of routes on a router.
type RouteRegistrar interface {
	RegisterRoutes(router *mux.Router)
}

// Server is the HTTP front of the dictionary service. All dictionary
// routes are mounted under the configured API prefix and, when a gateway
// prefix is configured, a second time under that prefix for deployments
// behind a path-rewriting ingress.
type Server struct {
	router *mux.Router
	logger *observability.Logger
}

// NewServer wires the handlers, middleware and route prefixes. A nil
// metrics disables instrumentation without changing behavior.
func NewServer(cfg config.ServerConfig, store *dict.Store, resolver *dict.Resolver, logger *observability.Logger, metrics *observability.Metrics) *Server {
	s := &Server{
		router: mux.NewRouter(),
		logger: logger,
	}

	s.router.Use(
		httputil.RequestIDMiddleware,
		httputil.RecoveryMiddleware(logger),
		httputil.LoggingMiddleware(logger),
	)
	if metrics != nil {
		s.router.Use(observability.HTTPMetricsMiddleware(metrics, RouteTemplate))
	}
	s.router.Use(httputil.CORSMiddleware(cfg.CORSOrigins))

	registrars := []RouteRegistrar{
		newDictionaryHandlers(store, dict.NewQueryEngine(store), resolver, metrics),
		newSearchHandlers(dict.NewSearchEngine(store), metrics),
	}

	prefixes := []string{cfg.APIPrefix}
	if cfg.GatewayPrefix != "" && cfg.GatewayPrefix != cfg.APIPrefix {
		prefixes = append(prefixes, cfg.GatewayPrefix)
	}
	for _, prefix := range prefixes {
		sub := s.router.PathPrefix(prefix).Subrouter()
		sub.Use(requireReady(store))
		for _, registrar := range registrars {
			registrar.RegisterRoutes(sub)
		}
	}

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Router exposes the underlying router so callers can wrap it, e.g. with
// tracing instrumentation.
func (s *Server) Router() *mux.Router {
	return s.router
}

// RouteTemplate resolves the matched route's path template, falling back
// to the raw URL path. Metrics use the template as the path label so
// parameterized segments do not explode cardinality.
func RouteTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return r.URL.Path
}

// requireReady rejects dictionary requests until the store has loaded at
// least one version.
func requireReady(store *dict.Store) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !store.Ready() {
				httputil.WriteServiceUnavailable(w, "dictionary tables not loaded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
