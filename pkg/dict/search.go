package dict

import (
	"fmt"
	"regexp"
)

// SearchType restricts a search to one entity kind, or spans all of the
// searchable kinds.
type SearchType string

const (
	SearchMessage   SearchType = "message"
	SearchComponent SearchType = "component"
	SearchField     SearchType = "field"
	SearchEnum      SearchType = "enum"
	SearchCodeset   SearchType = "codeset"
	SearchAll       SearchType = "all"
)

// ParseSearchType validates a search type string.
func ParseSearchType(s string) (SearchType, bool) {
	switch SearchType(s) {
	case SearchMessage, SearchComponent, SearchField, SearchEnum, SearchCodeset, SearchAll:
		return SearchType(s), true
	}
	return "", false
}

// MaxSearchResults caps a search even when no pagination is requested.
const MaxSearchResults = 100

// SearchRequest carries the parameters of one search.
type SearchRequest struct {
	Query         string
	Type          SearchType
	Version       Version
	MatchAbbrOnly bool
	IsRegex       bool
	Limit         int
	Offset        int
}

// SearchResult is one match. Results carry no relevance score: the
// merged list preserves kind order (message, field, component, enum)
// and insertion order within each kind.
type SearchResult struct {
	Type        SearchType `json:"type"`
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	AbbrName    string     `json:"abbr_name,omitempty"`
	Description string     `json:"description"`
	Tag         int        `json:"tag,omitempty"`
	MsgType     string     `json:"msg_type,omitempty"`
	Category    string     `json:"category,omitempty"`
	Section     SectionID  `json:"section,omitempty"`
}

// SearchEngine runs pattern searches across messages, fields,
// components and enums of one version.
type SearchEngine struct {
	store *Store
}

// NewSearchEngine creates a search engine over the store.
func NewSearchEngine(store *Store) *SearchEngine {
	return &SearchEngine{store: store}
}

// Search matches the query against entity names and descriptions (and
// abbreviated names when MatchAbbrOnly adds them to the match set).
// An invalid regular expression degrades to a literal search rather
// than failing the request.
func (s *SearchEngine) Search(req SearchRequest) []SearchResult {
	pattern := compilePattern(req.Query, req.IsRegex)
	results := []SearchResult{}

	want := func(t SearchType) bool {
		return req.Type == SearchAll || req.Type == t
	}

	if want(SearchMessage) {
		for _, m := range s.store.Messages(req.Version) {
			if matchesEntity(pattern, m.Name, m.Description, m.AbbrName, req.MatchAbbrOnly) {
				results = append(results, SearchResult{
					Type:        SearchMessage,
					ID:          fmt.Sprintf("%d", m.ComponentID),
					Name:        m.Name,
					AbbrName:    m.AbbrName,
					Description: m.Description,
					MsgType:     m.MsgType,
					Category:    m.CategoryID,
					Section:     m.SectionID,
				})
			}
		}
	}

	if want(SearchField) {
		for _, f := range s.store.Fields(req.Version) {
			if matchesEntity(pattern, f.Name, f.Description, f.AbbrName, req.MatchAbbrOnly) {
				results = append(results, SearchResult{
					Type:        SearchField,
					ID:          fmt.Sprintf("%d", f.Tag),
					Name:        f.Name,
					AbbrName:    f.AbbrName,
					Description: f.Description,
					Tag:         f.Tag,
				})
			}
		}
	}

	if want(SearchComponent) {
		for _, c := range s.store.Components(req.Version) {
			if matchesEntity(pattern, c.Name, c.Description, c.AbbrName, req.MatchAbbrOnly) {
				results = append(results, SearchResult{
					Type:        SearchComponent,
					ID:          fmt.Sprintf("%d", c.ComponentID),
					Name:        c.Name,
					AbbrName:    c.AbbrName,
					Description: c.Description,
					Category:    c.CategoryID,
				})
			}
		}
	}

	if want(SearchEnum) {
		for _, e := range s.store.Enums(req.Version) {
			if !matchesEntity(pattern, e.SymbolicName, e.Description, "", false) {
				continue
			}
			// Decorate with the owning field's name; blank when the
			// tag has no field row.
			fieldName := ""
			if f, ok := s.store.FieldByTag(req.Version, e.Tag); ok {
				fieldName = f.Name
			}
			results = append(results, SearchResult{
				Type:        SearchEnum,
				ID:          fmt.Sprintf("%d_%s", e.Tag, e.Value),
				Name:        fmt.Sprintf("%s(%d) = %s", fieldName, e.Tag, e.Value),
				Description: e.Description,
				Tag:         e.Tag,
			})
		}
	}

	return paginateResults(results, req.Offset, req.Limit)
}

// compilePattern builds the case-insensitive matcher. Invalid regex
// syntax, or a non-regex request, yields a quoted-literal pattern.
func compilePattern(query string, isRegex bool) *regexp.Regexp {
	if isRegex {
		if re, err := regexp.Compile("(?i)" + query); err == nil {
			return re
		}
	}
	return regexp.MustCompile("(?i)" + regexp.QuoteMeta(query))
}

// matchesEntity checks name, then description, then (only when
// includeAbbr) the abbreviated name. The abbreviation is additive: it
// widens the match set, it does not replace name/description.
func matchesEntity(pattern *regexp.Regexp, name, description, abbrName string, includeAbbr bool) bool {
	if pattern.MatchString(name) {
		return true
	}
	if pattern.MatchString(description) {
		return true
	}
	return includeAbbr && abbrName != "" && pattern.MatchString(abbrName)
}

func paginateResults(results []SearchResult, offset, limit int) []SearchResult {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(results) {
		return []SearchResult{}
	}
	results = results[offset:]
	if limit <= 0 {
		limit = MaxSearchResults
	}
	if limit < len(results) {
		results = results[:limit]
	}
	return results
}
