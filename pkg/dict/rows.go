package dict

// Row is a flat record view of one entity: column name mapped to a
// primitive value (string, int, float64 or bool). The query engine
// operates generically over sequences of these records.
type Row map[string]any

// EntityKind names the tabular entity sets the store exposes. The set is
// closed; the request layer maps external URL vocabulary onto it.
type EntityKind string

const (
	KindMessage      EntityKind = "message"
	KindField        EntityKind = "field"
	KindComponent    EntityKind = "component"
	KindEnum         EntityKind = "enum"
	KindCodeset      EntityKind = "codeset"
	KindCategory     EntityKind = "category"
	KindSection      EntityKind = "section"
	KindDatatype     EntityKind = "datatype"
	KindAbbreviation EntityKind = "abbreviation"

	// KindForm is the derived message-form table. It is not part of the
	// loader contract but is queryable like any other kind.
	KindForm EntityKind = "form"
)

// ParseEntityKind validates an entity kind string.
func ParseEntityKind(s string) (EntityKind, bool) {
	switch EntityKind(s) {
	case KindMessage, KindField, KindComponent, KindEnum, KindCodeset,
		KindCategory, KindSection, KindDatatype, KindAbbreviation, KindForm:
		return EntityKind(s), true
	}
	return "", false
}

// schemas lists the sortable/filterable columns per entity kind. A sort
// key absent from the schema is skipped; a filter on an unknown column is
// ignored.
var schemas = map[EntityKind]map[string]bool{
	KindMessage:      columnSet("component_id", "msg_type", "name", "category_id", "section_id", "abbr_name", "not_req_xml", "description", "elaboration"),
	KindField:        columnSet("tag", "name", "type", "abbr_name", "not_req_xml", "description", "elaboration", "base_category", "base_category_abbr_name", "union_data_type"),
	KindComponent:    columnSet("component_id", "component_type", "category_id", "name", "abbr_name", "not_req_xml", "description", "elaboration"),
	KindEnum:         columnSet("tag", "value", "symbolic_name", "group", "sort", "description", "elaboration"),
	KindCodeset:      columnSet("tag", "name", "base_datatype", "description"),
	KindCategory:     columnSet("category_id", "fixml_filename", "not_req_xml", "generate_impl_file", "component_type", "section_id", "volume", "include_file", "description"),
	KindSection:      columnSet("section_id", "name", "display_order", "volume", "not_req_xml", "fixml_filename", "description"),
	KindDatatype:     columnSet("name", "base_type", "description"),
	KindAbbreviation: columnSet("term", "abbr_term", "description"),
	KindForm:         columnSet("component_id", "msg_type", "componentName", "tag_text", "position", "indent", "reqd", "field_or_component", "tag", "name", "datatype"),
}

func columnSet(cols ...string) map[string]bool {
	set := make(map[string]bool, len(cols)+6)
	for _, c := range cols {
		set[c] = true
	}
	// Every loaded entity carries the pedigree columns.
	for _, c := range []string{"added", "updated", "deprecated", "addedEP", "updatedEP", "deprecatedEP"} {
		set[c] = true
	}
	return set
}

// HasColumn reports whether a column exists on an entity kind's schema.
func HasColumn(kind EntityKind, column string) bool {
	cols, ok := schemas[kind]
	return ok && cols[column]
}

// Row converts a Field to its record view.
func (f Field) Row() Row {
	r := Row{
		"tag":                     f.Tag,
		"name":                    f.Name,
		"type":                    f.Type,
		"abbr_name":               f.AbbrName,
		"not_req_xml":             f.NotReqXML,
		"description":             f.Description,
		"elaboration":             f.Elaboration,
		"base_category":           f.BaseCategory,
		"base_category_abbr_name": f.BaseCategoryAbbrName,
		"union_data_type":         f.UnionDataType,
	}
	f.pedigreeColumns(r)
	return r
}

// Row converts an Enum to its record view.
func (e Enum) Row() Row {
	r := Row{
		"tag":           e.Tag,
		"value":         e.Value,
		"symbolic_name": e.SymbolicName,
		"group":         e.Group,
		"sort":          e.Sort,
		"description":   e.Description,
		"elaboration":   e.Elaboration,
	}
	e.pedigreeColumns(r)
	return r
}

// Row converts a Component to its record view.
func (c Component) Row() Row {
	r := Row{
		"component_id":   c.ComponentID,
		"component_type": string(c.ComponentType),
		"category_id":    c.CategoryID,
		"name":           c.Name,
		"abbr_name":      c.AbbrName,
		"not_req_xml":    c.NotReqXML,
		"description":    c.Description,
		"elaboration":    c.Elaboration,
	}
	c.pedigreeColumns(r)
	return r
}

// Row converts a Message to its record view.
func (m Message) Row() Row {
	r := Row{
		"component_id": m.ComponentID,
		"msg_type":     m.MsgType,
		"name":         m.Name,
		"category_id":  m.CategoryID,
		"section_id":   string(m.SectionID),
		"abbr_name":    m.AbbrName,
		"not_req_xml":  m.NotReqXML,
		"description":  m.Description,
		"elaboration":  m.Elaboration,
	}
	m.pedigreeColumns(r)
	return r
}

// Row converts a Category to its record view.
func (c Category) Row() Row {
	r := Row{
		"category_id":        c.CategoryID,
		"fixml_filename":     c.FIXMLFileName,
		"not_req_xml":        c.NotReqXML,
		"generate_impl_file": c.GenerateImplFile,
		"component_type":     c.ComponentType,
		"section_id":         string(c.SectionID),
		"volume":             c.Volume,
		"include_file":       c.IncludeFile,
		"description":        c.Description,
	}
	c.pedigreeColumns(r)
	return r
}

// Row converts a Section to its record view.
func (s Section) Row() Row {
	r := Row{
		"section_id":     string(s.SectionID),
		"name":           s.Name,
		"display_order":  s.DisplayOrder,
		"volume":         s.Volume,
		"not_req_xml":    s.NotReqXML,
		"fixml_filename": s.FIXMLFileName,
		"description":    s.Description,
	}
	s.pedigreeColumns(r)
	return r
}

// Row converts a Datatype to its record view. Examples are excluded:
// they are ordered lists, not primitives.
func (d Datatype) Row() Row {
	r := Row{
		"name":        d.Name,
		"base_type":   d.BaseType,
		"description": d.Description,
	}
	d.pedigreeColumns(r)
	return r
}

// Row converts an Abbreviation to its record view.
func (a Abbreviation) Row() Row {
	r := Row{
		"term":        a.Term,
		"abbr_term":   a.AbbrTerm,
		"description": a.Description,
	}
	a.pedigreeColumns(r)
	return r
}

// Row converts a MessageFormRow to its record view.
func (m MessageFormRow) Row() Row {
	return Row{
		"component_id":       m.ComponentID,
		"msg_type":           m.MsgType,
		"componentName":      m.ComponentName,
		"tag_text":           m.TagText,
		"position":           m.Position,
		"indent":             m.Indent,
		"reqd":               m.Reqd,
		"field_or_component": string(m.Kind),
		"tag":                m.Tag,
		"name":               m.Name,
		"datatype":           m.Datatype,
	}
}
