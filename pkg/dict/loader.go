package dict

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// TableSet holds the nine raw entity tables for one dictionary version.
// It is the loader's entire contract with the store.
type TableSet struct {
	Messages      []Message
	Fields        []Field
	Components    []Component
	Enums         []Enum
	Categories    []Category
	Sections      []Section
	Datatypes     []Datatype
	Abbreviations []Abbreviation
	MsgContents   []MsgContent
}

// VersionLoader produces the raw tables for a version. The store does not
// care where the data comes from.
type VersionLoader interface {
	LoadVersion(version Version) (*TableSet, error)
}

// XMLLoader reads the FIX repository XML files from
// <root>/<version>/Base/<Entity>.xml. A missing file yields an empty
// table; malformed numeric or boolean text falls back to zero values.
type XMLLoader struct {
	root string
}

// NewXMLLoader creates a loader rooted at the given resources directory.
func NewXMLLoader(root string) *XMLLoader {
	return &XMLLoader{root: root}
}

// LoadVersion reads every entity file for one version. Per-file read or
// parse failures are joined into the returned error, but each failed
// table is simply left empty; callers decide whether partial data is
// acceptable.
func (l *XMLLoader) LoadVersion(version Version) (*TableSet, error) {
	base := filepath.Join(l.root, string(version), "Base")
	ts := &TableSet{}
	var errs []error

	load := func(file string, dst any) {
		if err := l.decodeFile(filepath.Join(base, file), dst); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", file, err))
		}
	}

	var (
		msgs    xmlMessageFile
		flds    xmlFieldFile
		comps   xmlComponentFile
		enums   xmlEnumFile
		cats    xmlCategoryFile
		secs    xmlSectionFile
		dts     xmlDatatypeFile
		abbrs   xmlAbbreviationFile
		content xmlMsgContentFile
	)
	load("Messages.xml", &msgs)
	load("Fields.xml", &flds)
	load("Components.xml", &comps)
	load("Enums.xml", &enums)
	load("Categories.xml", &cats)
	load("Sections.xml", &secs)
	load("Datatypes.xml", &dts)
	load("Abbreviations.xml", &abbrs)
	load("MsgContents.xml", &content)

	for _, m := range msgs.Messages {
		ts.Messages = append(ts.Messages, m.toMessage())
	}
	for _, f := range flds.Fields {
		ts.Fields = append(ts.Fields, f.toField())
	}
	for _, c := range comps.Components {
		ts.Components = append(ts.Components, c.toComponent())
	}
	for _, e := range enums.Enums {
		ts.Enums = append(ts.Enums, e.toEnum())
	}
	for _, c := range cats.Categories {
		ts.Categories = append(ts.Categories, c.toCategory())
	}
	for _, s := range secs.Sections {
		ts.Sections = append(ts.Sections, s.toSection())
	}
	for _, d := range dts.Datatypes {
		ts.Datatypes = append(ts.Datatypes, d.toDatatype())
	}
	for _, a := range abbrs.Abbreviations {
		ts.Abbreviations = append(ts.Abbreviations, a.toAbbreviation())
	}
	for _, mc := range content.MsgContents {
		ts.MsgContents = append(ts.MsgContents, mc.toMsgContent())
	}

	return ts, errors.Join(errs...)
}

// decodeFile unmarshals one entity file. Absent files are not an error:
// the corresponding table stays empty.
func (l *XMLLoader) decodeFile(path string, dst any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return xml.Unmarshal(data, dst)
}

// Lenient coercion: the repository XML is only semi-structured, so
// malformed values degrade to zero values instead of erroring.

func toInt(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

func toFloat(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}

func toBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true":
		return true
	default:
		return false
	}
}

type xmlPedigree struct {
	Added        string `xml:"added,attr"`
	Updated      string `xml:"updated,attr"`
	Deprecated   string `xml:"deprecated,attr"`
	AddedEP      string `xml:"addedEP,attr"`
	UpdatedEP    string `xml:"updatedEP,attr"`
	DeprecatedEP string `xml:"deprecatedEP,attr"`
}

func (p xmlPedigree) toPedigree() Pedigree {
	return Pedigree{
		Added:        p.Added,
		Updated:      p.Updated,
		Deprecated:   p.Deprecated,
		AddedEP:      toInt(p.AddedEP),
		UpdatedEP:    toInt(p.UpdatedEP),
		DeprecatedEP: toInt(p.DeprecatedEP),
	}
}

type xmlMessageFile struct {
	Messages []xmlMessage `xml:"Message"`
}

type xmlMessage struct {
	xmlPedigree
	ComponentID string `xml:"ComponentID"`
	MsgType     string `xml:"MsgType"`
	Name        string `xml:"Name"`
	CategoryID  string `xml:"CategoryID"`
	SectionID   string `xml:"SectionID"`
	AbbrName    string `xml:"AbbrName"`
	NotReqXML   string `xml:"NotReqXML"`
	Description string `xml:"Description"`
	Elaboration string `xml:"Elaboration"`
}

func (m xmlMessage) toMessage() Message {
	return Message{
		ComponentID: toInt(m.ComponentID),
		MsgType:     m.MsgType,
		Name:        m.Name,
		CategoryID:  m.CategoryID,
		SectionID:   ParseSectionID(m.SectionID),
		AbbrName:    m.AbbrName,
		NotReqXML:   toBool(m.NotReqXML),
		Description: m.Description,
		Elaboration: m.Elaboration,
		Pedigree:    m.toPedigree(),
	}
}

type xmlFieldFile struct {
	Fields []xmlField `xml:"Field"`
}

type xmlField struct {
	xmlPedigree
	Tag                  string `xml:"Tag"`
	Name                 string `xml:"Name"`
	Type                 string `xml:"Type"`
	AbbrName             string `xml:"AbbrName"`
	NotReqXML            string `xml:"NotReqXML"`
	Description          string `xml:"Description"`
	Elaboration          string `xml:"Elaboration"`
	BaseCategory         string `xml:"BaseCategory"`
	BaseCategoryAbbrName string `xml:"BaseCategoryAbbrName"`
	UnionDataType        string `xml:"UnionDataType"`
}

func (f xmlField) toField() Field {
	return Field{
		Tag:                  toInt(f.Tag),
		Name:                 f.Name,
		Type:                 f.Type,
		AbbrName:             f.AbbrName,
		NotReqXML:            toBool(f.NotReqXML),
		Description:          f.Description,
		Elaboration:          f.Elaboration,
		BaseCategory:         f.BaseCategory,
		BaseCategoryAbbrName: f.BaseCategoryAbbrName,
		UnionDataType:        f.UnionDataType,
		Pedigree:             f.toPedigree(),
	}
}

type xmlComponentFile struct {
	Components []xmlComponent `xml:"Component"`
}

type xmlComponent struct {
	xmlPedigree
	ComponentID   string `xml:"ComponentID"`
	ComponentType string `xml:"ComponentType"`
	CategoryID    string `xml:"CategoryID"`
	Name          string `xml:"Name"`
	AbbrName      string `xml:"AbbrName"`
	NotReqXML     string `xml:"NotReqXML"`
	Description   string `xml:"Description"`
	Elaboration   string `xml:"Elaboration"`
}

func (c xmlComponent) toComponent() Component {
	ct := ComponentType(c.ComponentType)
	if c.ComponentType == "" {
		ct = ComponentBlock
	}
	return Component{
		ComponentID:   toInt(c.ComponentID),
		ComponentType: ct,
		CategoryID:    c.CategoryID,
		Name:          c.Name,
		AbbrName:      c.AbbrName,
		NotReqXML:     toBool(c.NotReqXML),
		Description:   c.Description,
		Elaboration:   c.Elaboration,
		Pedigree:      c.toPedigree(),
	}
}

type xmlEnumFile struct {
	Enums []xmlEnum `xml:"Enum"`
}

type xmlEnum struct {
	xmlPedigree
	Tag          string `xml:"Tag"`
	Value        string `xml:"Value"`
	SymbolicName string `xml:"SymbolicName"`
	Group        string `xml:"Group"`
	Sort         string `xml:"Sort"`
	Description  string `xml:"Description"`
	Elaboration  string `xml:"Elaboration"`
}

func (e xmlEnum) toEnum() Enum {
	return Enum{
		Tag:          toInt(e.Tag),
		Value:        e.Value,
		SymbolicName: e.SymbolicName,
		Group:        e.Group,
		Sort:         toInt(e.Sort),
		Description:  e.Description,
		Elaboration:  e.Elaboration,
		Pedigree:     e.toPedigree(),
	}
}

type xmlCategoryFile struct {
	Categories []xmlCategory `xml:"Category"`
}

type xmlCategory struct {
	xmlPedigree
	CategoryID       string `xml:"CategoryID"`
	FIXMLFileName    string `xml:"FIXMLFileName"`
	NotReqXML        string `xml:"NotReqXML"`
	GenerateImplFile string `xml:"GenerateImplFile"`
	ComponentType    string `xml:"ComponentType"`
	SectionID        string `xml:"SectionID"`
	Volume           string `xml:"Volume"`
	IncludeFile      string `xml:"IncludeFile"`
	Description      string `xml:"Description"`
}

func (c xmlCategory) toCategory() Category {
	return Category{
		CategoryID:       c.CategoryID,
		FIXMLFileName:    c.FIXMLFileName,
		NotReqXML:        toBool(c.NotReqXML),
		GenerateImplFile: toBool(c.GenerateImplFile),
		ComponentType:    c.ComponentType,
		SectionID:        ParseSectionID(c.SectionID),
		Volume:           c.Volume,
		IncludeFile:      c.IncludeFile,
		Description:      c.Description,
		Pedigree:         c.toPedigree(),
	}
}

type xmlSectionFile struct {
	Sections []xmlSection `xml:"Section"`
}

type xmlSection struct {
	xmlPedigree
	SectionID     string `xml:"SectionID"`
	Name          string `xml:"Name"`
	DisplayOrder  string `xml:"DisplayOrder"`
	Volume        string `xml:"Volume"`
	NotReqXML     string `xml:"NotReqXML"`
	FIXMLFileName string `xml:"FIXMLFileName"`
	Description   string `xml:"Description"`
}

func (s xmlSection) toSection() Section {
	return Section{
		SectionID:     ParseSectionID(s.SectionID),
		Name:          s.Name,
		DisplayOrder:  toInt(s.DisplayOrder),
		Volume:        s.Volume,
		NotReqXML:     toBool(s.NotReqXML),
		FIXMLFileName: s.FIXMLFileName,
		Description:   s.Description,
		Pedigree:      s.toPedigree(),
	}
}

type xmlDatatypeFile struct {
	Datatypes []xmlDatatype `xml:"Datatype"`
}

type xmlDatatype struct {
	xmlPedigree
	Name        string   `xml:"Name"`
	BaseType    string   `xml:"BaseType"`
	Description string   `xml:"Description"`
	Examples    []string `xml:"Example"`
}

func (d xmlDatatype) toDatatype() Datatype {
	var examples []string
	for _, ex := range d.Examples {
		if ex != "" {
			examples = append(examples, ex)
		}
	}
	return Datatype{
		Name:        d.Name,
		BaseType:    d.BaseType,
		Description: d.Description,
		Example:     examples,
		Pedigree:    d.toPedigree(),
	}
}

type xmlAbbreviationFile struct {
	Abbreviations []xmlAbbreviation `xml:"Abbreviation"`
}

type xmlAbbreviation struct {
	xmlPedigree
	Term        string `xml:"Term"`
	AbbrTerm    string `xml:"AbbrTerm"`
	Description string `xml:"Description"`
}

func (a xmlAbbreviation) toAbbreviation() Abbreviation {
	return Abbreviation{
		Term:        a.Term,
		AbbrTerm:    a.AbbrTerm,
		Description: a.Description,
		Pedigree:    a.toPedigree(),
	}
}

type xmlMsgContentFile struct {
	MsgContents []xmlMsgContent `xml:"MsgContent"`
}

type xmlMsgContent struct {
	xmlPedigree
	ComponentID string `xml:"ComponentID"`
	TagText     string `xml:"TagText"`
	Indent      string `xml:"Indent"`
	Position    string `xml:"Position"`
	Reqd        string `xml:"Reqd"`
	Inlined     string `xml:"Inlined"`
	Description string `xml:"Description"`
}

func (m xmlMsgContent) toMsgContent() MsgContent {
	var inlined *bool
	if m.Inlined != "" {
		v := toBool(m.Inlined)
		inlined = &v
	}
	return MsgContent{
		ComponentID: toInt(m.ComponentID),
		TagText:     m.TagText,
		Indent:      toInt(m.Indent),
		Position:    toFloat(m.Position),
		Reqd:        toBool(m.Reqd),
		Inlined:     inlined,
		Description: m.Description,
		Pedigree:    m.toPedigree(),
	}
}
