package api

import (
	"github.com/tradeweave/fixdict/pkg/dict"
)

// maxDescriptionRunes bounds the description text on list endpoints;
// detail endpoints return the full text.
const maxDescriptionRunes = 200

// PaginatedResponse wraps one page of a listing.
type PaginatedResponse struct {
	TotalCount  int  `json:"total_count"`
	Page        int  `json:"page"`
	PageSize    int  `json:"page_size"`
	HasNext     bool `json:"has_next"`
	HasPrevious bool `json:"has_previous"`
	Data        any  `json:"data"`
}

func paginated(data any, total, page, pageSize int) PaginatedResponse {
	return PaginatedResponse{
		TotalCount:  total,
		Page:        page,
		PageSize:    pageSize,
		HasNext:     page*pageSize < total,
		HasPrevious: page > 1,
		Data:        data,
	}
}

// MessageSummary is the list view of a message.
type MessageSummary struct {
	MsgType     string `json:"msg_type"`
	Name        string `json:"name"`
	AbbrName    string `json:"abbr_name,omitempty"`
	ComponentID int    `json:"component_id"`
	Category    string `json:"category"`
	Section     string `json:"section"`
	Description string `json:"description"`
	Pedigree    string `json:"pedigree"`
}

// FieldSummary is the list view of a field.
type FieldSummary struct {
	Tag         int    `json:"tag"`
	Name        string `json:"name"`
	Datatype    string `json:"datatype"`
	AbbrName    string `json:"abbr_name,omitempty"`
	Description string `json:"description"`
	Pedigree    string `json:"pedigree"`
}

// ComponentSummary is the list view of a component.
type ComponentSummary struct {
	ComponentID      int    `json:"component_id"`
	Name             string `json:"name"`
	ComponentType    string `json:"component_type"`
	Category         string `json:"category"`
	IsRepeatingGroup bool   `json:"is_repeating_group"`
	AbbrName         string `json:"abbr_name,omitempty"`
	Description      string `json:"description"`
	Pedigree         string `json:"pedigree"`
}

// CodeSetSummary is the list view of a field's codeset.
type CodeSetSummary struct {
	Tag          int    `json:"tag"`
	Name         string `json:"name"`
	BaseDatatype string `json:"base_datatype"`
	ValueCount   int    `json:"value_count"`
	Description  string `json:"description"`
}

// CodeSet is the detail view of one field's codeset.
type CodeSet struct {
	Tag          int         `json:"tag"`
	Name         string      `json:"name"`
	BaseDatatype string      `json:"base_datatype"`
	Description  string      `json:"description"`
	Values       []dict.Enum `json:"values"`
}

// SearchResponse wraps the results of one search request.
type SearchResponse struct {
	Query      string              `json:"query"`
	Version    string              `json:"version"`
	Results    []dict.SearchResult `json:"results"`
	TotalCount int                 `json:"total_count"`
}

// VersionInfo describes one supported dictionary version.
type VersionInfo struct {
	Version string         `json:"version"`
	Default bool           `json:"default"`
	Counts  map[string]int `json:"counts"`
}

// VersionsResponse lists the supported dictionary versions.
type VersionsResponse struct {
	Versions       []VersionInfo `json:"versions"`
	DefaultVersion string        `json:"default_version"`
}

func truncateDescription(s string) string {
	runes := []rune(s)
	if len(runes) <= maxDescriptionRunes {
		return s
	}
	return string(runes[:maxDescriptionRunes]) + "..."
}

func rowString(row dict.Row, col string) string {
	s, _ := row[col].(string)
	return s
}

func rowInt(row dict.Row, col string) int {
	switch n := row[col].(type) {
	case int:
		return n
	case float64:
		return int(n)
	}
	return 0
}

func rowPedigree(row dict.Row) string {
	return dict.Pedigree{
		Added:      rowString(row, "added"),
		Updated:    rowString(row, "updated"),
		Deprecated: rowString(row, "deprecated"),
	}.String()
}

func messageSummaryFromRow(row dict.Row) MessageSummary {
	return MessageSummary{
		MsgType:     rowString(row, "msg_type"),
		Name:        rowString(row, "name"),
		AbbrName:    rowString(row, "abbr_name"),
		ComponentID: rowInt(row, "component_id"),
		Category:    rowString(row, "category_id"),
		Section:     rowString(row, "section_id"),
		Description: truncateDescription(rowString(row, "description")),
		Pedigree:    rowPedigree(row),
	}
}

func fieldSummaryFromRow(row dict.Row) FieldSummary {
	return FieldSummary{
		Tag:         rowInt(row, "tag"),
		Name:        rowString(row, "name"),
		Datatype:    rowString(row, "type"),
		AbbrName:    rowString(row, "abbr_name"),
		Description: truncateDescription(rowString(row, "description")),
		Pedigree:    rowPedigree(row),
	}
}

func componentSummaryFromRow(row dict.Row) ComponentSummary {
	componentType := rowString(row, "component_type")
	return ComponentSummary{
		ComponentID:      rowInt(row, "component_id"),
		Name:             rowString(row, "name"),
		ComponentType:    componentType,
		Category:         rowString(row, "category_id"),
		IsRepeatingGroup: dict.ComponentType(componentType).IsRepeating(),
		AbbrName:         rowString(row, "abbr_name"),
		Description:      truncateDescription(rowString(row, "description")),
		Pedigree:         rowPedigree(row),
	}
}
