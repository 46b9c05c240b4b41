package dict

import "strings"

// Version identifies one snapshot of the FIX dictionary. The set of
// supported versions is fixed at compile time.
type Version string

const (
	VersionFIX44    Version = "FIX.4.4"
	VersionFIX50SP2 Version = "FIX.5.0SP2"
	VersionFIXZ     Version = "FIX.Z"
)

// DefaultVersion is used when a request does not name a version.
const DefaultVersion = VersionFIX50SP2

// SupportedVersions returns the closed list of dictionary versions.
func SupportedVersions() []Version {
	return []Version{VersionFIX44, VersionFIX50SP2, VersionFIXZ}
}

// ParseVersion validates a version string against the supported set.
func ParseVersion(s string) (Version, bool) {
	for _, v := range SupportedVersions() {
		if string(v) == s {
			return v, true
		}
	}
	return "", false
}

// SectionID groups messages by business area.
type SectionID string

const (
	SectionSession        SectionID = "Session"
	SectionPreTrade       SectionID = "PreTrade"
	SectionTrade          SectionID = "Trade"
	SectionPostTrade      SectionID = "PostTrade"
	SectionInfrastructure SectionID = "Infrastructure"
	SectionOther          SectionID = "Other"
)

// AllSections returns every known section identifier.
func AllSections() []SectionID {
	return []SectionID{
		SectionSession, SectionPreTrade, SectionTrade,
		SectionPostTrade, SectionInfrastructure, SectionOther,
	}
}

// ParseSectionID maps unknown section text to SectionOther rather than
// failing; the source data is only best-effort consistent.
func ParseSectionID(s string) SectionID {
	switch SectionID(s) {
	case SectionSession, SectionPreTrade, SectionTrade, SectionPostTrade, SectionInfrastructure:
		return SectionID(s)
	default:
		return SectionOther
	}
}

// ComponentType classifies how a component's body is laid out on the wire.
type ComponentType string

const (
	ComponentBlock                    ComponentType = "Block"
	ComponentBlockRepeating           ComponentType = "BlockRepeating"
	ComponentImplicitBlock            ComponentType = "ImplicitBlock"
	ComponentImplicitBlockRepeating   ComponentType = "ImplicitBlockRepeating"
	ComponentOptimisedBlockRepeating  ComponentType = "OptimisedBlockRepeating"
	ComponentOptimisedImplicitRepeat  ComponentType = "OptimisedImplicitBlockRepeating"
	ComponentXMLDataBlock             ComponentType = "XMLDataBlock"
	ComponentMessage                  ComponentType = "Message"
)

// IsRepeating reports whether the component is a repeating group.
func (t ComponentType) IsRepeating() bool {
	return strings.Contains(string(t), "Repeating")
}

// Pedigree carries the provenance metadata every dictionary entity shares:
// the specification revision labels plus the integer Extension Pack markers.
type Pedigree struct {
	Added        string `json:"added,omitempty"`
	Updated      string `json:"updated,omitempty"`
	Deprecated   string `json:"deprecated,omitempty"`
	AddedEP      int    `json:"addedEP,omitempty"`
	UpdatedEP    int    `json:"updatedEP,omitempty"`
	DeprecatedEP int    `json:"deprecatedEP,omitempty"`
}

// String renders the pedigree the way list endpoints display it.
func (p Pedigree) String() string {
	var b strings.Builder
	b.WriteString("Added: ")
	if p.Added != "" {
		b.WriteString(p.Added)
	} else {
		b.WriteString("Unknown")
	}
	if p.Updated != "" {
		b.WriteString(", Updated: ")
		b.WriteString(p.Updated)
	}
	if p.Deprecated != "" {
		b.WriteString(", Deprecated: ")
		b.WriteString(p.Deprecated)
	}
	return b.String()
}

func (p Pedigree) pedigreeColumns(row Row) {
	row["added"] = p.Added
	row["updated"] = p.Updated
	row["deprecated"] = p.Deprecated
	row["addedEP"] = p.AddedEP
	row["updatedEP"] = p.UpdatedEP
	row["deprecatedEP"] = p.DeprecatedEP
}

// Field is a single FIX field, unique per version by tag.
type Field struct {
	Tag                  int    `json:"tag"`
	Name                 string `json:"name"`
	Type                 string `json:"type"`
	AbbrName             string `json:"abbr_name,omitempty"`
	NotReqXML            bool   `json:"not_req_xml"`
	Description          string `json:"description"`
	Elaboration          string `json:"elaboration,omitempty"`
	BaseCategory         string `json:"base_category,omitempty"`
	BaseCategoryAbbrName string `json:"base_category_abbr_name,omitempty"`
	UnionDataType        string `json:"union_data_type,omitempty"`
	Pedigree
}

// Enum is one value of a field's codeset, identified by (tag, value).
type Enum struct {
	Tag          int    `json:"tag"`
	Value        string `json:"value"`
	SymbolicName string `json:"symbolic_name"`
	Group        string `json:"group,omitempty"`
	Sort         int    `json:"sort,omitempty"`
	Description  string `json:"description"`
	Elaboration  string `json:"elaboration,omitempty"`
	Pedigree
}

// Component is a named, reusable, ordered group of fields and
// sub-components.
type Component struct {
	ComponentID   int           `json:"component_id"`
	ComponentType ComponentType `json:"component_type"`
	CategoryID    string        `json:"category_id"`
	Name          string        `json:"name"`
	AbbrName      string        `json:"abbr_name,omitempty"`
	NotReqXML     bool          `json:"not_req_xml"`
	Description   string        `json:"description"`
	Elaboration   string        `json:"elaboration,omitempty"`
	Pedigree
}

// Message is a top-level transmission unit. It shares the component ID
// space with Component: exactly one message exists per component ID.
type Message struct {
	ComponentID int       `json:"component_id"`
	MsgType     string    `json:"msg_type"`
	Name        string    `json:"name"`
	CategoryID  string    `json:"category_id"`
	SectionID   SectionID `json:"section_id"`
	AbbrName    string    `json:"abbr_name,omitempty"`
	NotReqXML   bool      `json:"not_req_xml"`
	Description string    `json:"description"`
	Elaboration string    `json:"elaboration,omitempty"`
	Pedigree
}

// MsgContent is the raw, unresolved composition token for a message or
// component body. TagText is either a numeric field tag or a component
// name; Position is fractional so rows can be inserted between integral
// positions without renumbering siblings.
type MsgContent struct {
	ComponentID int     `json:"component_id"`
	TagText     string  `json:"tag_text"`
	Indent      int     `json:"indent"`
	Position    float64 `json:"position"`
	Reqd        bool    `json:"reqd"`
	Inlined     *bool   `json:"inlined,omitempty"`
	Description string  `json:"description,omitempty"`
	Pedigree
}

// Category groups messages and components below the section level.
type Category struct {
	CategoryID       string    `json:"category_id"`
	FIXMLFileName    string    `json:"fixml_filename,omitempty"`
	NotReqXML        bool      `json:"not_req_xml"`
	GenerateImplFile bool      `json:"generate_impl_file"`
	ComponentType    string    `json:"component_type,omitempty"`
	SectionID        SectionID `json:"section_id,omitempty"`
	Volume           string    `json:"volume,omitempty"`
	IncludeFile      string    `json:"include_file,omitempty"`
	Description      string    `json:"description,omitempty"`
	Pedigree
}

// Section is the top-level grouping of the specification volumes.
type Section struct {
	SectionID     SectionID `json:"section_id"`
	Name          string    `json:"name"`
	DisplayOrder  int       `json:"display_order"`
	Volume        string    `json:"volume,omitempty"`
	NotReqXML     bool      `json:"not_req_xml"`
	FIXMLFileName string    `json:"fixml_filename,omitempty"`
	Description   string    `json:"description,omitempty"`
	Pedigree
}

// Datatype describes one of the dictionary's wire datatypes.
type Datatype struct {
	Name        string   `json:"name"`
	BaseType    string   `json:"base_type,omitempty"`
	Description string   `json:"description"`
	Example     []string `json:"example,omitempty"`
	Pedigree
}

// Abbreviation maps a spelled-out term to its FIXML abbreviation.
type Abbreviation struct {
	Term        string `json:"term"`
	AbbrTerm    string `json:"abbr_term"`
	Description string `json:"description"`
	Pedigree
}

// FormKind discriminates what a message-form row resolved to.
type FormKind string

const (
	FormField     FormKind = "Field"
	FormComponent FormKind = "Component"
	FormUnknown   FormKind = "Unknown"
)

// MessageFormRow is the denormalized view of one MsgContent row after
// joining against the Field, Component and Message tables. Exactly one
// form row exists per MsgContent row; unresolved references degrade to
// FormUnknown instead of being dropped.
type MessageFormRow struct {
	ComponentID   int      `json:"component_id"`
	MsgType       string   `json:"msg_type,omitempty"`
	ComponentName string   `json:"componentName,omitempty"`
	TagText       string   `json:"tag_text"`
	Position      float64  `json:"position"`
	Indent        int      `json:"indent"`
	Reqd          bool     `json:"reqd"`
	Kind          FormKind `json:"field_or_component"`
	Tag           int      `json:"tag,omitempty"`
	Name          string   `json:"name"`
	Datatype      string   `json:"datatype,omitempty"`
}
