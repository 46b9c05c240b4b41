package api

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tradeweave/fixdict/pkg/dict"
	"github.com/tradeweave/fixdict/pkg/httputil"
	"github.com/tradeweave/fixdict/pkg/observability"
)

const maxSearchLimit = 1000

// searchHandlers serves the cross-entity search route.
type searchHandlers struct {
	engine  *dict.SearchEngine
	metrics *observability.Metrics
}

func newSearchHandlers(engine *dict.SearchEngine, metrics *observability.Metrics) *searchHandlers {
	return &searchHandlers{engine: engine, metrics: metrics}
}

// RegisterRoutes registers the search route.
func (h *searchHandlers) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/search", h.Search).Methods(http.MethodGet)
}

// Search serves GET /search. The query text is required; everything else
// defaults: all entity kinds, the default version, literal matching.
func (h *searchHandlers) Search(w http.ResponseWriter, r *http.Request) {
	query := httputil.ParseQueryString(r, "query", "")
	if query == "" {
		httputil.WriteBadRequest(w, "query parameter is required")
		return
	}
	version, ok := requestVersion(w, r)
	if !ok {
		return
	}

	rawType := httputil.ParseQueryString(r, "search_type", string(dict.SearchAll))
	searchType, ok := dict.ParseSearchType(rawType)
	if !ok {
		httputil.WriteBadRequest(w, fmt.Sprintf("unsupported search type %q", rawType))
		return
	}

	matchAbbrOnly, err := httputil.ParseQueryBool(r, "match_abbr_only", false)
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}
	isRegex, err := httputil.ParseQueryBool(r, "is_regex", false)
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}
	limit, err := httputil.ParseQueryInt(r, "limit", dict.MaxSearchResults)
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}
	offset, err := httputil.ParseQueryInt(r, "offset", 0)
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}

	results := h.engine.Search(dict.SearchRequest{
		Query:         query,
		Type:          searchType,
		Version:       version,
		MatchAbbrOnly: matchAbbrOnly,
		IsRegex:       isRegex,
		Limit:         httputil.ClampInt(limit, 1, maxSearchLimit),
		Offset:        offset,
	})

	if h.metrics != nil {
		h.metrics.SearchesTotal.WithLabelValues(string(version), string(searchType)).Inc()
		h.metrics.SearchResults.WithLabelValues(string(version)).Observe(float64(len(results)))
	}

	httputil.WriteSuccess(w, SearchResponse{
		Query:      query,
		Version:    string(version),
		Results:    results,
		TotalCount: len(results),
	})
}
