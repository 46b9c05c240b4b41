package dict

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// buildMessageForm denormalizes every MsgContent row of one version by
// joining it against the Field, Component and Message tables. The
// cardinality is preserved exactly: one form row per content row, with
// unresolved references marked FormUnknown rather than dropped.
//
// A purely numeric TagText is always treated as a field reference. If no
// field carries that tag the row stays in the numeric case and surfaces
// as FormUnknown; it never falls through to component-name matching.
func buildMessageForm(t *tables) []MessageFormRow {
	if len(t.set.MsgContents) == 0 {
		return nil
	}
	form := make([]MessageFormRow, 0, len(t.set.MsgContents))
	for _, mc := range t.set.MsgContents {
		row := MessageFormRow{
			ComponentID: mc.ComponentID,
			TagText:     mc.TagText,
			Position:    mc.Position,
			Indent:      mc.Indent,
			Reqd:        mc.Reqd,
		}

		// componentName prefers the owning component's name; messages
		// without a component row fall back to the message name.
		if c, ok := t.componentByID[mc.ComponentID]; ok {
			row.ComponentName = c.Name
		} else if m, ok := t.messageByID[mc.ComponentID]; ok {
			row.ComponentName = m.Name
		}
		if m, ok := t.messageByID[mc.ComponentID]; ok {
			row.MsgType = m.MsgType
		}

		if tag, err := strconv.Atoi(strings.TrimSpace(mc.TagText)); err == nil {
			row.Tag = tag
			if f, ok := t.fieldByTag[tag]; ok {
				row.Kind = FormField
				row.Name = f.Name
				row.Datatype = f.Type
			} else {
				row.Kind = FormUnknown
				row.Name = mc.TagText
			}
		} else if c, ok := t.componentByName[strings.ToLower(mc.TagText)]; ok {
			row.Kind = FormComponent
			row.Name = c.Name
		} else {
			row.Kind = FormUnknown
			row.Name = mc.TagText
		}

		form = append(form, row)
	}
	return form
}

// MessageDetail is a message joined with its ordered contents and the
// fields and components those contents resolve to.
type MessageDetail struct {
	Message
	Contents   []MsgContent `json:"contents"`
	Fields     []Field      `json:"fields"`
	Components []Component  `json:"components"`
}

// ComponentDetail is a component joined with its ordered contents,
// resolved members and the places it is used.
type ComponentDetail struct {
	Component
	Contents          []MsgContent `json:"contents"`
	Fields            []Field      `json:"fields"`
	NestedComponents  []Component  `json:"nested_components"`
	UsageInMessages   []string     `json:"usage_in_messages"`
	UsageInComponents []string     `json:"usage_in_components"`
}

// FieldDetail is a field joined with its codeset and usage.
type FieldDetail struct {
	Field
	Enums             []Enum   `json:"enums"`
	UsageInMessages   []string `json:"usage_in_messages"`
	UsageInComponents []string `json:"usage_in_components"`
}

type detailKey struct {
	version Version
	key     string
}

// CacheStats receives detail cache hit/miss notifications per cache
// type ("message", "component", "field"). The Prometheus metrics
// satisfy it.
type CacheStats interface {
	CacheHit(cacheType string)
	CacheMiss(cacheType string)
}

type nopCacheStats struct{}

func (nopCacheStats) CacheHit(string)  {}
func (nopCacheStats) CacheMiss(string) {}

// Resolver produces on-demand composition views over the store. Detail
// synthesis walks the content table, so resolved views are memoized in
// bounded LRU caches; the caches hold derived data only and the
// underlying tables stay untouched.
type Resolver struct {
	store      *Store
	stats      CacheStats
	messages   *lru.Cache[detailKey, *MessageDetail]
	components *lru.Cache[detailKey, *ComponentDetail]
	fields     *lru.Cache[detailKey, *FieldDetail]
}

// DefaultDetailCacheSize bounds each detail cache when no size is given.
const DefaultDetailCacheSize = 512

// NewResolver creates a resolver with detail caches of the given size.
func NewResolver(store *Store, cacheSize int) *Resolver {
	if cacheSize <= 0 {
		cacheSize = DefaultDetailCacheSize
	}
	messages, _ := lru.New[detailKey, *MessageDetail](cacheSize)
	components, _ := lru.New[detailKey, *ComponentDetail](cacheSize)
	fields, _ := lru.New[detailKey, *FieldDetail](cacheSize)
	return &Resolver{
		store:      store,
		stats:      nopCacheStats{},
		messages:   messages,
		components: components,
		fields:     fields,
	}
}

// SetCacheStats installs a hit/miss recorder. A nil stats disables
// recording again.
func (r *Resolver) SetCacheStats(stats CacheStats) {
	if stats == nil {
		stats = nopCacheStats{}
	}
	r.stats = stats
}

// CacheLen reports the number of memoized detail views, for metrics.
func (r *Resolver) CacheLen() int {
	return r.messages.Len() + r.components.Len() + r.fields.Len()
}

// ResolveContents returns the composition tokens of one message or
// component body, ordered by position ascending. The sort is stable so
// rows sharing a position keep their declared order.
func (r *Resolver) ResolveContents(version Version, componentID int) []MsgContent {
	var contents []MsgContent
	for _, mc := range r.store.MsgContents(version) {
		if mc.ComponentID == componentID {
			contents = append(contents, mc)
		}
	}
	sort.SliceStable(contents, func(i, j int) bool {
		return contents[i].Position < contents[j].Position
	})
	return contents
}

// MessageDetail resolves a message by MsgType into its detail view.
func (r *Resolver) MessageDetail(version Version, msgType string) (*MessageDetail, error) {
	key := detailKey{version, msgType}
	if d, ok := r.messages.Get(key); ok {
		r.stats.CacheHit("message")
		return d, nil
	}
	r.stats.CacheMiss("message")

	msg, ok := r.store.MessageByType(version, msgType)
	if !ok {
		return nil, fmt.Errorf("message %q: %w", msgType, ErrNotFound)
	}

	d := &MessageDetail{Message: *msg}
	d.Contents = r.ResolveContents(version, msg.ComponentID)
	d.Fields, d.Components = r.resolveMembers(version, d.Contents)

	r.messages.Add(key, d)
	return d, nil
}

// MessageDetailByID resolves a message by component ID.
func (r *Resolver) MessageDetailByID(version Version, componentID int) (*MessageDetail, error) {
	msg, ok := r.store.MessageByID(version, componentID)
	if !ok {
		return nil, fmt.Errorf("message id %d: %w", componentID, ErrNotFound)
	}
	return r.MessageDetail(version, msg.MsgType)
}

// ComponentDetail resolves a component by name into its detail view.
func (r *Resolver) ComponentDetail(version Version, name string) (*ComponentDetail, error) {
	key := detailKey{version, strings.ToLower(name)}
	if d, ok := r.components.Get(key); ok {
		r.stats.CacheHit("component")
		return d, nil
	}
	r.stats.CacheMiss("component")

	comp, ok := r.store.ComponentByName(version, name)
	if !ok {
		return nil, fmt.Errorf("component %q: %w", name, ErrNotFound)
	}

	d := &ComponentDetail{
		Component:         *comp,
		UsageInMessages:   []string{},
		UsageInComponents: []string{},
	}
	d.Contents = r.ResolveContents(version, comp.ComponentID)
	d.Fields, d.NestedComponents = r.resolveMembers(version, d.Contents)
	d.UsageInMessages, d.UsageInComponents = r.usageOf(version, comp.Name)

	r.components.Add(key, d)
	return d, nil
}

// ComponentDetailByID resolves a component by ID.
func (r *Resolver) ComponentDetailByID(version Version, componentID int) (*ComponentDetail, error) {
	comp, ok := r.store.ComponentByID(version, componentID)
	if !ok {
		return nil, fmt.Errorf("component id %d: %w", componentID, ErrNotFound)
	}
	return r.ComponentDetail(version, comp.Name)
}

// FieldDetail resolves a field by tag into its detail view, including
// its codeset and the messages and components that reference it.
func (r *Resolver) FieldDetail(version Version, tag int) (*FieldDetail, error) {
	key := detailKey{version, strconv.Itoa(tag)}
	if d, ok := r.fields.Get(key); ok {
		r.stats.CacheHit("field")
		return d, nil
	}
	r.stats.CacheMiss("field")

	field, ok := r.store.FieldByTag(version, tag)
	if !ok {
		return nil, fmt.Errorf("field tag %d: %w", tag, ErrNotFound)
	}

	d := &FieldDetail{
		Field:             *field,
		Enums:             append([]Enum(nil), r.store.EnumsForTag(version, tag)...),
		UsageInMessages:   []string{},
		UsageInComponents: []string{},
	}
	if d.Enums == nil {
		d.Enums = []Enum{}
	}
	d.UsageInMessages, d.UsageInComponents = r.usageOf(version, strconv.Itoa(tag))

	r.fields.Add(key, d)
	return d, nil
}

// FieldDetailByName resolves a field by case-insensitive name.
func (r *Resolver) FieldDetailByName(version Version, name string) (*FieldDetail, error) {
	field, ok := r.store.FieldByName(version, name)
	if !ok {
		return nil, fmt.Errorf("field %q: %w", name, ErrNotFound)
	}
	return r.FieldDetail(version, field.Tag)
}

// resolveMembers maps composition tokens to the concrete fields and
// components they name. A numeric token is strictly a field reference;
// lookup misses are dropped from the member lists (the form table is the
// place where they surface as Unknown).
func (r *Resolver) resolveMembers(version Version, contents []MsgContent) ([]Field, []Component) {
	fields := []Field{}
	components := []Component{}
	for _, mc := range contents {
		if tag, err := strconv.Atoi(strings.TrimSpace(mc.TagText)); err == nil {
			if f, ok := r.store.FieldByTag(version, tag); ok {
				fields = append(fields, *f)
			}
			continue
		}
		if c, ok := r.store.ComponentByName(version, mc.TagText); ok {
			components = append(components, *c)
		}
	}
	return fields, components
}

// usageOf scans the content table for tokens equal to ref and reports
// the distinct owning messages and components, in first-seen order.
func (r *Resolver) usageOf(version Version, ref string) (messages, components []string) {
	messages = []string{}
	components = []string{}
	seenMsg := map[string]bool{}
	seenComp := map[string]bool{}
	for _, mc := range r.store.MsgContents(version) {
		if !strings.EqualFold(mc.TagText, ref) {
			continue
		}
		if m, ok := r.store.MessageByID(version, mc.ComponentID); ok {
			if !seenMsg[m.Name] {
				seenMsg[m.Name] = true
				messages = append(messages, m.Name)
			}
			continue
		}
		if c, ok := r.store.ComponentByID(version, mc.ComponentID); ok {
			if !seenComp[c.Name] {
				seenComp[c.Name] = true
				components = append(components, c.Name)
			}
		}
	}
	return messages, components
}
