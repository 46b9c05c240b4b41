package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tradeweave/fixdict/pkg/dict"
	"github.com/tradeweave/fixdict/pkg/httputil"
	"github.com/tradeweave/fixdict/pkg/observability"
)

const (
	defaultPageSize = 50
	maxPageSize     = 1000
)

// dictionaryHandlers serves the entity listing and detail routes.
type dictionaryHandlers struct {
	store    *dict.Store
	query    *dict.QueryEngine
	resolver *dict.Resolver
	metrics  *observability.Metrics
}

func newDictionaryHandlers(store *dict.Store, query *dict.QueryEngine, resolver *dict.Resolver, metrics *observability.Metrics) *dictionaryHandlers {
	return &dictionaryHandlers{
		store:    store,
		query:    query,
		resolver: resolver,
		metrics:  metrics,
	}
}

// RegisterRoutes registers all dictionary routes. The permalink routes
// go last so the literal entity routes win route matching.
func (h *dictionaryHandlers) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/messages", h.ListMessages).Methods(http.MethodGet)
	router.HandleFunc("/messages/{msg_type}", h.GetMessage).Methods(http.MethodGet)
	router.HandleFunc("/fields", h.ListFields).Methods(http.MethodGet)
	router.HandleFunc("/fields/name/{name}", h.GetFieldByName).Methods(http.MethodGet)
	router.HandleFunc("/fields/{tag:[0-9]+}", h.GetFieldByTag).Methods(http.MethodGet)
	router.HandleFunc("/components", h.ListComponents).Methods(http.MethodGet)
	router.HandleFunc("/components/{name}", h.GetComponent).Methods(http.MethodGet)
	router.HandleFunc("/codesets", h.ListCodeSets).Methods(http.MethodGet)
	router.HandleFunc("/codesets/{tag:[0-9]+}", h.GetCodeSet).Methods(http.MethodGet)
	router.HandleFunc("/form", h.QueryForm).Methods(http.MethodGet)
	router.HandleFunc("/categories", h.ListCategories).Methods(http.MethodGet)
	router.HandleFunc("/sections", h.ListSections).Methods(http.MethodGet)
	router.HandleFunc("/datatypes", h.ListDatatypes).Methods(http.MethodGet)
	router.HandleFunc("/abbreviations", h.ListAbbreviations).Methods(http.MethodGet)
	router.HandleFunc("/versions", h.ListVersions).Methods(http.MethodGet)

	router.HandleFunc("/{version}/msg/{id:[0-9]+}", h.GetMessagePermalink).Methods(http.MethodGet)
	router.HandleFunc("/{version}/tag/{tag:[0-9]+}", h.GetFieldPermalink).Methods(http.MethodGet)
	router.HandleFunc("/{version}/cmp/{id:[0-9]+}", h.GetComponentPermalink).Methods(http.MethodGet)
}

// requestVersion resolves the version query parameter, defaulting when
// absent and rejecting anything outside the supported set.
func requestVersion(w http.ResponseWriter, r *http.Request) (dict.Version, bool) {
	raw := httputil.ParseQueryString(r, "version", string(dict.DefaultVersion))
	version, ok := dict.ParseVersion(raw)
	if !ok {
		httputil.WriteBadRequest(w, fmt.Sprintf("unsupported version %q", raw))
		return "", false
	}
	return version, true
}

// pathVersion resolves a version named in the URL path.
func pathVersion(w http.ResponseWriter, r *http.Request) (dict.Version, bool) {
	raw, ok := httputil.ParsePathStringOrError(w, r, "version")
	if !ok {
		return "", false
	}
	version, ok := dict.ParseVersion(raw)
	if !ok {
		httputil.WriteBadRequest(w, fmt.Sprintf("unsupported version %q", raw))
		return "", false
	}
	return version, true
}

func parsePagination(w http.ResponseWriter, r *http.Request) (page, pageSize int, ok bool) {
	page, err := httputil.ParseQueryInt(r, "page", 1)
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return 0, 0, false
	}
	pageSize, err = httputil.ParseQueryInt(r, "page_size", defaultPageSize)
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return 0, 0, false
	}
	if page < 1 {
		page = 1
	}
	pageSize = httputil.ClampInt(pageSize, 1, maxPageSize)
	return page, pageSize, true
}

func addStringFilter(filters map[string]any, r *http.Request, param, column string) {
	if v := r.URL.Query().Get(param); v != "" {
		filters[column] = v
	}
}

func listOptions(r *http.Request, filters map[string]any, defaultSort string, page, pageSize int) dict.ListOptions {
	return dict.ListOptions{
		Filters: filters,
		SortBy:  httputil.ParseQueryString(r, "sort_by", defaultSort),
		SortDir: dict.ParseSortDirection(httputil.ParseQueryString(r, "sort_dir", "asc")),
		Limit:   pageSize,
		Offset:  (page - 1) * pageSize,
	}
}

func (h *dictionaryHandlers) recordQuery(version dict.Version, kind dict.EntityKind) {
	if h.metrics != nil {
		h.metrics.QueriesTotal.WithLabelValues(string(version), string(kind)).Inc()
	}
}

// writeResolveError maps a resolver miss to 404; anything else is a 500.
func writeResolveError(w http.ResponseWriter, err error) {
	if errors.Is(err, dict.ErrNotFound) {
		httputil.WriteNotFoundError(w, err.Error())
		return
	}
	httputil.WriteInternalError(w, err)
}

// ListMessages serves GET /messages.
func (h *dictionaryHandlers) ListMessages(w http.ResponseWriter, r *http.Request) {
	version, ok := requestVersion(w, r)
	if !ok {
		return
	}
	page, pageSize, ok := parsePagination(w, r)
	if !ok {
		return
	}

	filters := map[string]any{}
	addStringFilter(filters, r, "category", "category_id")
	addStringFilter(filters, r, "section", "section_id")
	addStringFilter(filters, r, "msg_type", "msg_type")
	addStringFilter(filters, r, "name_contains", "name")

	rows, total := h.query.List(version, dict.KindMessage, listOptions(r, filters, "msg_type", page, pageSize))
	h.recordQuery(version, dict.KindMessage)

	out := make([]MessageSummary, 0, len(rows))
	for _, row := range rows {
		out = append(out, messageSummaryFromRow(row))
	}
	httputil.WriteSuccess(w, paginated(out, total, page, pageSize))
}

// GetMessage serves GET /messages/{msg_type}.
func (h *dictionaryHandlers) GetMessage(w http.ResponseWriter, r *http.Request) {
	version, ok := requestVersion(w, r)
	if !ok {
		return
	}
	msgType, ok := httputil.ParsePathStringOrError(w, r, "msg_type")
	if !ok {
		return
	}

	detail, err := h.resolver.MessageDetail(version, msgType)
	if err != nil {
		writeResolveError(w, err)
		return
	}
	httputil.WriteSuccess(w, detail)
}

// ListFields serves GET /fields. tag_min and tag_max bound the tag range
// on top of the column filters.
func (h *dictionaryHandlers) ListFields(w http.ResponseWriter, r *http.Request) {
	version, ok := requestVersion(w, r)
	if !ok {
		return
	}
	page, pageSize, ok := parsePagination(w, r)
	if !ok {
		return
	}

	filters := map[string]any{}
	addStringFilter(filters, r, "datatype", "type")
	addStringFilter(filters, r, "name_contains", "name")

	opts := listOptions(r, filters, "tag", page, pageSize)
	var err error
	if opts.TagMin, err = httputil.ParseQueryIntPtr(r, "tag_min"); err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}
	if opts.TagMax, err = httputil.ParseQueryIntPtr(r, "tag_max"); err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}

	rows, total := h.query.List(version, dict.KindField, opts)
	h.recordQuery(version, dict.KindField)

	out := make([]FieldSummary, 0, len(rows))
	for _, row := range rows {
		out = append(out, fieldSummaryFromRow(row))
	}
	httputil.WriteSuccess(w, paginated(out, total, page, pageSize))
}

// GetFieldByTag serves GET /fields/{tag}.
func (h *dictionaryHandlers) GetFieldByTag(w http.ResponseWriter, r *http.Request) {
	version, ok := requestVersion(w, r)
	if !ok {
		return
	}
	tag, ok := httputil.ParsePathIntOrError(w, r, "tag")
	if !ok {
		return
	}

	detail, err := h.resolver.FieldDetail(version, tag)
	if err != nil {
		writeResolveError(w, err)
		return
	}
	httputil.WriteSuccess(w, detail)
}

// GetFieldByName serves GET /fields/name/{name}.
func (h *dictionaryHandlers) GetFieldByName(w http.ResponseWriter, r *http.Request) {
	version, ok := requestVersion(w, r)
	if !ok {
		return
	}
	name, ok := httputil.ParsePathStringOrError(w, r, "name")
	if !ok {
		return
	}

	detail, err := h.resolver.FieldDetailByName(version, name)
	if err != nil {
		writeResolveError(w, err)
		return
	}
	httputil.WriteSuccess(w, detail)
}

// ListComponents serves GET /components.
func (h *dictionaryHandlers) ListComponents(w http.ResponseWriter, r *http.Request) {
	version, ok := requestVersion(w, r)
	if !ok {
		return
	}
	page, pageSize, ok := parsePagination(w, r)
	if !ok {
		return
	}

	filters := map[string]any{}
	addStringFilter(filters, r, "category", "category_id")
	addStringFilter(filters, r, "component_type", "component_type")
	addStringFilter(filters, r, "name_contains", "name")

	rows, total := h.query.List(version, dict.KindComponent, listOptions(r, filters, "name", page, pageSize))
	h.recordQuery(version, dict.KindComponent)

	out := make([]ComponentSummary, 0, len(rows))
	for _, row := range rows {
		out = append(out, componentSummaryFromRow(row))
	}
	httputil.WriteSuccess(w, paginated(out, total, page, pageSize))
}

// GetComponent serves GET /components/{name}.
func (h *dictionaryHandlers) GetComponent(w http.ResponseWriter, r *http.Request) {
	version, ok := requestVersion(w, r)
	if !ok {
		return
	}
	name, ok := httputil.ParsePathStringOrError(w, r, "name")
	if !ok {
		return
	}

	detail, err := h.resolver.ComponentDetail(version, name)
	if err != nil {
		writeResolveError(w, err)
		return
	}
	httputil.WriteSuccess(w, detail)
}

// ListCodeSets serves GET /codesets: the fields owning at least one enum
// value.
func (h *dictionaryHandlers) ListCodeSets(w http.ResponseWriter, r *http.Request) {
	version, ok := requestVersion(w, r)
	if !ok {
		return
	}
	page, pageSize, ok := parsePagination(w, r)
	if !ok {
		return
	}

	filters := map[string]any{}
	addStringFilter(filters, r, "name_contains", "name")
	addStringFilter(filters, r, "datatype", "base_datatype")

	rows, total := h.query.List(version, dict.KindCodeset, listOptions(r, filters, "tag", page, pageSize))
	h.recordQuery(version, dict.KindCodeset)

	out := make([]CodeSetSummary, 0, len(rows))
	for _, row := range rows {
		tag := rowInt(row, "tag")
		out = append(out, CodeSetSummary{
			Tag:          tag,
			Name:         rowString(row, "name"),
			BaseDatatype: rowString(row, "base_datatype"),
			ValueCount:   len(h.store.EnumsForTag(version, tag)),
			Description:  truncateDescription(rowString(row, "description")),
		})
	}
	httputil.WriteSuccess(w, paginated(out, total, page, pageSize))
}

// GetCodeSet serves GET /codesets/{tag}. A tag with no field row or no
// enum values is a miss.
func (h *dictionaryHandlers) GetCodeSet(w http.ResponseWriter, r *http.Request) {
	version, ok := requestVersion(w, r)
	if !ok {
		return
	}
	tag, ok := httputil.ParsePathIntOrError(w, r, "tag")
	if !ok {
		return
	}

	field, found := h.store.FieldByTag(version, tag)
	if !found {
		httputil.WriteNotFoundError(w, fmt.Sprintf("no codeset for tag %d", tag))
		return
	}
	values := h.store.EnumsForTag(version, tag)
	if len(values) == 0 {
		httputil.WriteNotFoundError(w, fmt.Sprintf("no codeset for tag %d", tag))
		return
	}

	httputil.WriteSuccess(w, CodeSet{
		Tag:          field.Tag,
		Name:         field.Name,
		BaseDatatype: field.Type,
		Description:  field.Description,
		Values:       values,
	})
}

// QueryForm serves GET /form, the generic query over the denormalized
// message-form table.
func (h *dictionaryHandlers) QueryForm(w http.ResponseWriter, r *http.Request) {
	version, ok := requestVersion(w, r)
	if !ok {
		return
	}
	page, pageSize, ok := parsePagination(w, r)
	if !ok {
		return
	}

	filters := map[string]any{}
	addStringFilter(filters, r, "msg_type", "msg_type")
	addStringFilter(filters, r, "kind", "field_or_component")
	addStringFilter(filters, r, "name_contains", "name")
	addStringFilter(filters, r, "tag_text", "tag_text")
	if id, err := httputil.ParseQueryIntPtr(r, "component_id"); err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	} else if id != nil {
		filters["component_id"] = *id
	}
	if tag, err := httputil.ParseQueryIntPtr(r, "tag"); err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	} else if tag != nil {
		filters["tag"] = *tag
	}
	if r.URL.Query().Has("reqd") {
		reqd, err := httputil.ParseQueryBool(r, "reqd", false)
		if err != nil {
			httputil.WriteBadRequest(w, err.Error())
			return
		}
		filters["reqd"] = reqd
	}

	rows, total := h.query.List(version, dict.KindForm, listOptions(r, filters, "position", page, pageSize))
	h.recordQuery(version, dict.KindForm)

	httputil.WriteSuccess(w, paginated(rows, total, page, pageSize))
}

// listRows is the shared handler body for the small reference tables.
func (h *dictionaryHandlers) listRows(w http.ResponseWriter, r *http.Request, kind dict.EntityKind, defaultSort string) {
	version, ok := requestVersion(w, r)
	if !ok {
		return
	}
	page, pageSize, ok := parsePagination(w, r)
	if !ok {
		return
	}

	rows, total := h.query.List(version, kind, listOptions(r, nil, defaultSort, page, pageSize))
	h.recordQuery(version, kind)

	httputil.WriteSuccess(w, paginated(rows, total, page, pageSize))
}

// ListCategories serves GET /categories.
func (h *dictionaryHandlers) ListCategories(w http.ResponseWriter, r *http.Request) {
	h.listRows(w, r, dict.KindCategory, "category_id")
}

// ListSections serves GET /sections.
func (h *dictionaryHandlers) ListSections(w http.ResponseWriter, r *http.Request) {
	h.listRows(w, r, dict.KindSection, "display_order")
}

// ListDatatypes serves GET /datatypes.
func (h *dictionaryHandlers) ListDatatypes(w http.ResponseWriter, r *http.Request) {
	h.listRows(w, r, dict.KindDatatype, "name")
}

// ListAbbreviations serves GET /abbreviations.
func (h *dictionaryHandlers) ListAbbreviations(w http.ResponseWriter, r *http.Request) {
	h.listRows(w, r, dict.KindAbbreviation, "term")
}

// ListVersions serves GET /versions.
func (h *dictionaryHandlers) ListVersions(w http.ResponseWriter, r *http.Request) {
	resp := VersionsResponse{DefaultVersion: string(dict.DefaultVersion)}
	for _, version := range dict.SupportedVersions() {
		counts := map[string]int{}
		for kind, n := range h.store.Counts(version) {
			counts[string(kind)] = n
		}
		resp.Versions = append(resp.Versions, VersionInfo{
			Version: string(version),
			Default: version == dict.DefaultVersion,
			Counts:  counts,
		})
	}
	httputil.WriteSuccess(w, resp)
}

// GetMessagePermalink serves GET /{version}/msg/{id}, the short link
// form keyed by component ID.
func (h *dictionaryHandlers) GetMessagePermalink(w http.ResponseWriter, r *http.Request) {
	version, ok := pathVersion(w, r)
	if !ok {
		return
	}
	id, ok := httputil.ParsePathIntOrError(w, r, "id")
	if !ok {
		return
	}

	detail, err := h.resolver.MessageDetailByID(version, id)
	if err != nil {
		writeResolveError(w, err)
		return
	}
	httputil.WriteSuccess(w, detail)
}

// GetFieldPermalink serves GET /{version}/tag/{tag}.
func (h *dictionaryHandlers) GetFieldPermalink(w http.ResponseWriter, r *http.Request) {
	version, ok := pathVersion(w, r)
	if !ok {
		return
	}
	tag, ok := httputil.ParsePathIntOrError(w, r, "tag")
	if !ok {
		return
	}

	detail, err := h.resolver.FieldDetail(version, tag)
	if err != nil {
		writeResolveError(w, err)
		return
	}
	httputil.WriteSuccess(w, detail)
}

// GetComponentPermalink serves GET /{version}/cmp/{id}.
func (h *dictionaryHandlers) GetComponentPermalink(w http.ResponseWriter, r *http.Request) {
	version, ok := pathVersion(w, r)
	if !ok {
		return
	}
	id, ok := httputil.ParsePathIntOrError(w, r, "id")
	if !ok {
		return
	}

	detail, err := h.resolver.ComponentDetailByID(version, id)
	if err != nil {
		writeResolveError(w, err)
		return
	}
	httputil.WriteSuccess(w, detail)
}
