package dict

import (
	"fmt"
	"sort"
	"strings"
)

// SortDirection orders a sorted listing.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// ParseSortDirection defaults to ascending for anything unrecognized.
func ParseSortDirection(s string) SortDirection {
	if SortDirection(strings.ToLower(s)) == SortDesc {
		return SortDesc
	}
	return SortAsc
}

// ListOptions parameterizes a generic listing. Filters map column names
// to predicate values: a string value means case-insensitive substring
// containment, anything else means exact equality. Filter keys that are
// not columns of the listed kind are silently ignored, as is a SortBy
// key absent from the schema.
//
// TagMin/TagMax are the numeric range bounds for field listings. They
// are deliberately not part of the generic filter map: they post-filter
// the page and the total after the generic pass.
type ListOptions struct {
	Filters map[string]any
	SortBy  string
	SortDir SortDirection
	Limit   int
	Offset  int

	TagMin *int
	TagMax *int
}

// QueryEngine applies filter, sort and pagination uniformly across all
// entity tables. It never mutates the store's rows: sorting operates on
// a copied slice, so concurrent queries are safe.
type QueryEngine struct {
	store *Store
}

// NewQueryEngine creates a query engine over the store.
func NewQueryEngine(store *Store) *QueryEngine {
	return &QueryEngine{store: store}
}

// List returns one page of rows plus the total matching count. The
// total reflects the filtered, pre-pagination set so callers can decide
// whether more pages exist. An offset past the end yields an empty page.
func (q *QueryEngine) List(version Version, kind EntityKind, opts ListOptions) ([]Row, int) {
	rows := q.store.Rows(version, kind)
	filtered := applyFilters(rows, kind, opts.Filters)
	sorted := applySort(filtered, kind, opts.SortBy, opts.SortDir)
	page := paginate(sorted, opts.Offset, opts.Limit)

	total := len(filtered)
	if opts.TagMin != nil || opts.TagMax != nil {
		page = applyTagRange(page, opts.TagMin, opts.TagMax)
		total = len(applyTagRange(filtered, opts.TagMin, opts.TagMax))
	}
	return page, total
}

func applyFilters(rows []Row, kind EntityKind, filters map[string]any) []Row {
	if len(filters) == 0 {
		return rows
	}
	active := make(map[string]any, len(filters))
	for col, want := range filters {
		if HasColumn(kind, col) {
			active[col] = want
		}
	}
	if len(active) == 0 {
		return rows
	}

	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		if matchesFilters(row, active) {
			out = append(out, row)
		}
	}
	return out
}

func matchesFilters(row Row, filters map[string]any) bool {
	for col, want := range filters {
		cell, ok := row[col]
		if !ok {
			return false
		}
		if s, isString := want.(string); isString {
			if !strings.Contains(strings.ToLower(fmt.Sprint(cell)), strings.ToLower(s)) {
				return false
			}
			continue
		}
		if !equalValues(cell, want) {
			return false
		}
	}
	return true
}

// equalValues compares primitives with numeric widening so an int
// filter matches a float column and vice versa.
func equalValues(a, b any) bool {
	if af, aok := asFloat(a); aok {
		if bf, bok := asFloat(b); bok {
			return af == bf
		}
		return false
	}
	return a == b
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// applySort returns a stably sorted copy; the input is never reordered.
// An unknown sort key preserves the input order.
func applySort(rows []Row, kind EntityKind, sortBy string, dir SortDirection) []Row {
	if sortBy == "" || !HasColumn(kind, sortBy) {
		return rows
	}
	sorted := make([]Row, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		if dir == SortDesc {
			return lessValues(sorted[j][sortBy], sorted[i][sortBy])
		}
		return lessValues(sorted[i][sortBy], sorted[j][sortBy])
	})
	return sorted
}

func lessValues(a, b any) bool {
	if af, aok := asFloat(a); aok {
		if bf, bok := asFloat(b); bok {
			return af < bf
		}
	}
	switch av := a.(type) {
	case string:
		if bv, ok := b.(string); ok {
			return av < bv
		}
	case bool:
		if bv, ok := b.(bool); ok {
			return !av && bv
		}
	}
	return fmt.Sprint(a) < fmt.Sprint(b)
}

// paginate slices the sequence. Limit <= 0 means no limit.
func paginate(rows []Row, offset, limit int) []Row {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(rows) {
		return []Row{}
	}
	rows = rows[offset:]
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	return rows
}

// applyTagRange keeps rows whose integer "tag" column falls inside the
// closed bounds. Rows without a numeric tag column are dropped when a
// bound is set.
func applyTagRange(rows []Row, min, max *int) []Row {
	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		tag, ok := asFloat(row["tag"])
		if !ok {
			continue
		}
		if min != nil && tag < float64(*min) {
			continue
		}
		if max != nil && tag > float64(*max) {
			continue
		}
		out = append(out, row)
	}
	return out
}
