package dict

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrNotFound signals a lookup miss. It is an absence, not a
	// failure; the request layer decides how to surface it.
	ErrNotFound = errors.New("dict: not found")

	// ErrNoData signals that no version loaded any data at all. This is
	// the only load-time condition surfaced as fatal.
	ErrNoData = errors.New("dict: no dictionary data loaded for any version")
)

// Logger is the minimal logging surface the store needs. Both the
// service logger and logrus satisfy it.
type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Infof(string, ...interface{})  {}
func (nopLogger) Errorf(string, ...interface{}) {}

// tables is the fully indexed, immutable view of one version.
type tables struct {
	set *TableSet

	fieldByTag      map[int]*Field
	fieldByName     map[string]*Field
	componentByID   map[int]*Component
	componentByName map[string]*Component
	messageByType   map[string]*Message
	messageByID     map[int]*Message
	enumsByTag      map[int][]Enum

	rows map[EntityKind][]Row
	form []MessageFormRow
}

// Store owns one independent copy of all entity tables per supported
// version. It is populated exactly once by Load and never mutated
// afterwards, so concurrent readers need no locking.
type Store struct {
	loader   VersionLoader
	logger   Logger
	versions map[Version]*tables
	loaded   bool
}

// NewStore creates an unloaded store backed by the given loader.
func NewStore(loader VersionLoader, logger Logger) *Store {
	if logger == nil {
		logger = nopLogger{}
	}
	return &Store{
		loader:   loader,
		logger:   logger,
		versions: make(map[Version]*tables, len(SupportedVersions())),
	}
}

// Load populates every supported version. A failure in one version is
// logged and leaves that version's tables empty; only a store that ends
// up completely empty returns ErrNoData. Load must complete before the
// store serves queries.
func (s *Store) Load(ctx context.Context) error {
	for _, version := range SupportedVersions() {
		if err := ctx.Err(); err != nil {
			return err
		}
		set, err := s.loader.LoadVersion(version)
		if err != nil {
			s.logger.Errorf("loading %s: %v", version, err)
		}
		if set == nil {
			set = &TableSet{}
		}
		t := indexTables(set)
		t.form = buildMessageForm(t)
		t.rows[KindForm] = formRows(t.form)
		s.versions[version] = t
		s.logger.Infof("loaded %s: %d messages, %d fields, %d components, %d msg contents",
			version, len(set.Messages), len(set.Fields), len(set.Components), len(set.MsgContents))
	}
	s.loaded = true

	if !s.Ready() {
		return ErrNoData
	}
	return nil
}

// Ready reports whether load completed and at least one version holds
// data.
func (s *Store) Ready() bool {
	if !s.loaded {
		return false
	}
	for _, t := range s.versions {
		if len(t.set.Messages) > 0 || len(t.set.Fields) > 0 || len(t.set.Components) > 0 {
			return true
		}
	}
	return false
}

func indexTables(set *TableSet) *tables {
	t := &tables{
		set:             set,
		fieldByTag:      make(map[int]*Field, len(set.Fields)),
		fieldByName:     make(map[string]*Field, len(set.Fields)),
		componentByID:   make(map[int]*Component, len(set.Components)),
		componentByName: make(map[string]*Component, len(set.Components)),
		messageByType:   make(map[string]*Message, len(set.Messages)),
		messageByID:     make(map[int]*Message, len(set.Messages)),
		enumsByTag:      make(map[int][]Enum),
		rows:            make(map[EntityKind][]Row),
	}

	for i := range set.Fields {
		f := &set.Fields[i]
		t.fieldByTag[f.Tag] = f
		t.fieldByName[strings.ToLower(f.Name)] = f
	}
	for i := range set.Components {
		c := &set.Components[i]
		t.componentByID[c.ComponentID] = c
		t.componentByName[strings.ToLower(c.Name)] = c
	}
	for i := range set.Messages {
		m := &set.Messages[i]
		t.messageByType[m.MsgType] = m
		t.messageByID[m.ComponentID] = m
	}
	for _, e := range set.Enums {
		t.enumsByTag[e.Tag] = append(t.enumsByTag[e.Tag], e)
	}

	t.rows[KindMessage] = messageRows(set.Messages)
	t.rows[KindField] = fieldRows(set.Fields)
	t.rows[KindComponent] = componentRows(set.Components)
	t.rows[KindEnum] = enumRows(set.Enums)
	t.rows[KindCategory] = categoryRows(set.Categories)
	t.rows[KindSection] = sectionRows(set.Sections)
	t.rows[KindDatatype] = datatypeRows(set.Datatypes)
	t.rows[KindAbbreviation] = abbreviationRows(set.Abbreviations)
	t.rows[KindCodeset] = codesetRows(set.Fields, t.enumsByTag)
	return t
}

func messageRows(in []Message) []Row {
	out := make([]Row, len(in))
	for i, v := range in {
		out[i] = v.Row()
	}
	return out
}

func fieldRows(in []Field) []Row {
	out := make([]Row, len(in))
	for i, v := range in {
		out[i] = v.Row()
	}
	return out
}

func componentRows(in []Component) []Row {
	out := make([]Row, len(in))
	for i, v := range in {
		out[i] = v.Row()
	}
	return out
}

func enumRows(in []Enum) []Row {
	out := make([]Row, len(in))
	for i, v := range in {
		out[i] = v.Row()
	}
	return out
}

func categoryRows(in []Category) []Row {
	out := make([]Row, len(in))
	for i, v := range in {
		out[i] = v.Row()
	}
	return out
}

func sectionRows(in []Section) []Row {
	out := make([]Row, len(in))
	for i, v := range in {
		out[i] = v.Row()
	}
	return out
}

func datatypeRows(in []Datatype) []Row {
	out := make([]Row, len(in))
	for i, v := range in {
		out[i] = v.Row()
	}
	return out
}

func abbreviationRows(in []Abbreviation) []Row {
	out := make([]Row, len(in))
	for i, v := range in {
		out[i] = v.Row()
	}
	return out
}

// codesetRows derives the codeset table: one row per field that owns at
// least one enum value.
func codesetRows(fields []Field, enumsByTag map[int][]Enum) []Row {
	var out []Row
	for _, f := range fields {
		if len(enumsByTag[f.Tag]) == 0 {
			continue
		}
		r := Row{
			"tag":           f.Tag,
			"name":          f.Name,
			"base_datatype": f.Type,
			"description":   f.Description,
		}
		f.pedigreeColumns(r)
		out = append(out, r)
	}
	return out
}

func formRows(in []MessageFormRow) []Row {
	out := make([]Row, len(in))
	for i, v := range in {
		out[i] = v.Row()
	}
	return out
}

func (s *Store) tablesFor(version Version) (*tables, bool) {
	t, ok := s.versions[version]
	return t, ok
}

// Rows returns the record views for one entity kind. The returned slice
// is shared and must not be mutated; the query engine copies before
// sorting.
func (s *Store) Rows(version Version, kind EntityKind) []Row {
	if t, ok := s.tablesFor(version); ok {
		return t.rows[kind]
	}
	return nil
}

// Messages returns all messages of a version.
func (s *Store) Messages(version Version) []Message {
	if t, ok := s.tablesFor(version); ok {
		return t.set.Messages
	}
	return nil
}

// Fields returns all fields of a version.
func (s *Store) Fields(version Version) []Field {
	if t, ok := s.tablesFor(version); ok {
		return t.set.Fields
	}
	return nil
}

// Components returns all components of a version.
func (s *Store) Components(version Version) []Component {
	if t, ok := s.tablesFor(version); ok {
		return t.set.Components
	}
	return nil
}

// Enums returns all enum values of a version.
func (s *Store) Enums(version Version) []Enum {
	if t, ok := s.tablesFor(version); ok {
		return t.set.Enums
	}
	return nil
}

// Categories returns all categories of a version.
func (s *Store) Categories(version Version) []Category {
	if t, ok := s.tablesFor(version); ok {
		return t.set.Categories
	}
	return nil
}

// Sections returns all sections of a version.
func (s *Store) Sections(version Version) []Section {
	if t, ok := s.tablesFor(version); ok {
		return t.set.Sections
	}
	return nil
}

// Datatypes returns all datatypes of a version.
func (s *Store) Datatypes(version Version) []Datatype {
	if t, ok := s.tablesFor(version); ok {
		return t.set.Datatypes
	}
	return nil
}

// Abbreviations returns all abbreviations of a version.
func (s *Store) Abbreviations(version Version) []Abbreviation {
	if t, ok := s.tablesFor(version); ok {
		return t.set.Abbreviations
	}
	return nil
}

// MsgContents returns the raw composition tokens of a version.
func (s *Store) MsgContents(version Version) []MsgContent {
	if t, ok := s.tablesFor(version); ok {
		return t.set.MsgContents
	}
	return nil
}

// MessageForm returns the eagerly built denormalized form table.
func (s *Store) MessageForm(version Version) []MessageFormRow {
	if t, ok := s.tablesFor(version); ok {
		return t.form
	}
	return nil
}

// FieldByTag looks up a field by its tag number.
func (s *Store) FieldByTag(version Version, tag int) (*Field, bool) {
	if t, ok := s.tablesFor(version); ok {
		f, ok := t.fieldByTag[tag]
		return f, ok
	}
	return nil, false
}

// FieldByName looks up a field by name, case-insensitively.
func (s *Store) FieldByName(version Version, name string) (*Field, bool) {
	if t, ok := s.tablesFor(version); ok {
		f, ok := t.fieldByName[strings.ToLower(name)]
		return f, ok
	}
	return nil, false
}

// ComponentByID looks up a component by its ID.
func (s *Store) ComponentByID(version Version, id int) (*Component, bool) {
	if t, ok := s.tablesFor(version); ok {
		c, ok := t.componentByID[id]
		return c, ok
	}
	return nil, false
}

// ComponentByName looks up a component by name, case-insensitively.
func (s *Store) ComponentByName(version Version, name string) (*Component, bool) {
	if t, ok := s.tablesFor(version); ok {
		c, ok := t.componentByName[strings.ToLower(name)]
		return c, ok
	}
	return nil, false
}

// MessageByType looks up a message by its MsgType code.
func (s *Store) MessageByType(version Version, msgType string) (*Message, bool) {
	if t, ok := s.tablesFor(version); ok {
		m, ok := t.messageByType[msgType]
		return m, ok
	}
	return nil, false
}

// MessageByID looks up a message by its component ID.
func (s *Store) MessageByID(version Version, id int) (*Message, bool) {
	if t, ok := s.tablesFor(version); ok {
		m, ok := t.messageByID[id]
		return m, ok
	}
	return nil, false
}

// EnumsForTag returns the codeset for a field tag. A tag with no enum
// values (or no field at all) yields an empty slice, never an error: the
// source data may reference tags inconsistently and the store tolerates
// that.
func (s *Store) EnumsForTag(version Version, tag int) []Enum {
	if t, ok := s.tablesFor(version); ok {
		return t.enumsByTag[tag]
	}
	return nil
}

// Counts reports the number of rows per entity kind for one version,
// used for startup logging and gauge metrics.
func (s *Store) Counts(version Version) map[EntityKind]int {
	t, ok := s.tablesFor(version)
	if !ok {
		return nil
	}
	counts := make(map[EntityKind]int, len(t.rows))
	for kind, rows := range t.rows {
		counts[kind] = len(rows)
	}
	return counts
}
