package dict

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func formFor(t *testing.T, store *Store, componentID int) []MessageFormRow {
	t.Helper()
	var out []MessageFormRow
	for _, row := range store.MessageForm(DefaultVersion) {
		if row.ComponentID == componentID {
			out = append(out, row)
		}
	}
	return out
}

func TestMessageFormPreservesCardinality(t *testing.T) {
	store := newTestStore(t)

	form := store.MessageForm(DefaultVersion)
	assert.Len(t, form, len(store.MsgContents(DefaultVersion)),
		"exactly one form row per content row, unresolved ones included")
}

func TestMessageFormResolvesNumericTagToField(t *testing.T) {
	store := newTestStore(t)

	form := formFor(t, store, 5)
	require.NotEmpty(t, form)

	row := form[0]
	assert.Equal(t, "11", row.TagText)
	assert.Equal(t, FormField, row.Kind)
	assert.Equal(t, 11, row.Tag)
	assert.Equal(t, "ClOrdID", row.Name)
	assert.Equal(t, "String", row.Datatype)
	assert.True(t, row.Reqd)
}

func TestMessageFormNumericMissStaysUnknown(t *testing.T) {
	store := newTestStore(t)

	for _, row := range formFor(t, store, 5) {
		if row.TagText != "9999" {
			continue
		}
		// A numeric token never falls through to component matching.
		assert.Equal(t, FormUnknown, row.Kind)
		assert.Equal(t, "9999", row.Name)
		assert.Equal(t, 9999, row.Tag)
		return
	}
	t.Fatal("form row for tag text 9999 not found")
}

func TestMessageFormUnmatchedComponentNameIsUnknown(t *testing.T) {
	store := newTestStore(t)

	for _, row := range formFor(t, store, 5) {
		if row.TagText != "NoPartyIDs" {
			continue
		}
		assert.Equal(t, FormUnknown, row.Kind)
		assert.Equal(t, "NoPartyIDs", row.Name)
		assert.Zero(t, row.Tag)
		return
	}
	t.Fatal("form row for NoPartyIDs not found")
}

func TestMessageFormResolvesComponentNameCaseInsensitively(t *testing.T) {
	loader := &stubLoader{sets: map[Version]*TableSet{DefaultVersion: {
		Fields: []Field{{Tag: 1, Name: "Account", Type: "String"}},
		Components: []Component{
			{ComponentID: 1012, Name: "Parties", ComponentType: ComponentBlockRepeating},
		},
		MsgContents: []MsgContent{
			{ComponentID: 1012, TagText: "PARTIES", Position: 1},
		},
	}}}
	store := NewStore(loader, nil)
	require.NoError(t, store.Load(context.Background()))

	form := store.MessageForm(DefaultVersion)
	require.Len(t, form, 1)
	assert.Equal(t, FormComponent, form[0].Kind)
	assert.Equal(t, "Parties", form[0].Name, "canonical component name, not the token spelling")
}

func TestMessageFormComponentNameFallsBackToMessageName(t *testing.T) {
	store := newTestStore(t)

	// Component ID 5 has no component row, only a message row.
	form := formFor(t, store, 5)
	require.NotEmpty(t, form)
	assert.Equal(t, "NewOrderSingle", form[0].ComponentName)
	assert.Equal(t, "D", form[0].MsgType)

	// Component ID 1012 has a component row; its name wins.
	form = formFor(t, store, 1012)
	require.NotEmpty(t, form)
	assert.Equal(t, "Parties", form[0].ComponentName)
	assert.Empty(t, form[0].MsgType)
}

func TestResolveContentsOrdersByPosition(t *testing.T) {
	resolver := NewResolver(newTestStore(t), 0)

	contents := resolver.ResolveContents(DefaultVersion, 5)
	require.Len(t, contents, 6)
	for i := 1; i < len(contents); i++ {
		assert.LessOrEqual(t, contents[i-1].Position, contents[i].Position)
	}
	// The fractional position slots between its integral neighbors.
	assert.Equal(t, "9999", contents[3].TagText)
	assert.Equal(t, "38", contents[4].TagText)
	assert.Equal(t, "54", contents[5].TagText)
}

func TestMessageDetail(t *testing.T) {
	resolver := NewResolver(newTestStore(t), 0)

	detail, err := resolver.MessageDetail(DefaultVersion, "D")
	require.NoError(t, err)
	assert.Equal(t, "NewOrderSingle", detail.Name)
	assert.Len(t, detail.Contents, 6)

	// Members keep content order; unresolved tokens are dropped here.
	require.Len(t, detail.Fields, 3)
	assert.Equal(t, "ClOrdID", detail.Fields[0].Name)
	assert.Equal(t, "OrderQty", detail.Fields[1].Name)
	assert.Equal(t, "Side", detail.Fields[2].Name)
	require.Len(t, detail.Components, 1)
	assert.Equal(t, "Parties", detail.Components[0].Name)
}

func TestMessageDetailNotFound(t *testing.T) {
	resolver := NewResolver(newTestStore(t), 0)

	_, err := resolver.MessageDetail(DefaultVersion, "ZZ")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = resolver.MessageDetailByID(DefaultVersion, 424242)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMessageDetailByID(t *testing.T) {
	resolver := NewResolver(newTestStore(t), 0)

	detail, err := resolver.MessageDetailByID(DefaultVersion, 9)
	require.NoError(t, err)
	assert.Equal(t, "ExecutionReport", detail.Name)
	require.Len(t, detail.Components, 1)
	assert.Equal(t, "Instrument", detail.Components[0].Name)
}

func TestComponentDetail(t *testing.T) {
	resolver := NewResolver(newTestStore(t), 0)

	detail, err := resolver.ComponentDetail(DefaultVersion, "parties")
	require.NoError(t, err)
	assert.Equal(t, "Parties", detail.Name)
	require.Len(t, detail.Fields, 1)
	assert.Equal(t, "Side", detail.Fields[0].Name)
	assert.Empty(t, detail.NestedComponents)

	// NewOrderSingle references Parties by name.
	assert.Equal(t, []string{"NewOrderSingle"}, detail.UsageInMessages)
	assert.Empty(t, detail.UsageInComponents)
}

func TestComponentDetailNotFound(t *testing.T) {
	resolver := NewResolver(newTestStore(t), 0)

	_, err := resolver.ComponentDetail(DefaultVersion, "NoSuchBlock")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFieldDetail(t *testing.T) {
	resolver := NewResolver(newTestStore(t), 0)

	detail, err := resolver.FieldDetail(DefaultVersion, 54)
	require.NoError(t, err)
	assert.Equal(t, "Side", detail.Name)
	require.Len(t, detail.Enums, 2)
	assert.Equal(t, "Buy", detail.Enums[0].SymbolicName)
	assert.Equal(t, "Sell", detail.Enums[1].SymbolicName)

	// Tag 54 appears directly in NewOrderSingle and inside Parties.
	assert.Equal(t, []string{"NewOrderSingle"}, detail.UsageInMessages)
	assert.Equal(t, []string{"Parties"}, detail.UsageInComponents)
}

func TestFieldDetailWithoutEnumsHasEmptyCodeset(t *testing.T) {
	resolver := NewResolver(newTestStore(t), 0)

	detail, err := resolver.FieldDetail(DefaultVersion, 44)
	require.NoError(t, err)
	assert.NotNil(t, detail.Enums)
	assert.Empty(t, detail.Enums)
}

func TestFieldDetailByName(t *testing.T) {
	resolver := NewResolver(newTestStore(t), 0)

	detail, err := resolver.FieldDetailByName(DefaultVersion, "clordid")
	require.NoError(t, err)
	assert.Equal(t, 11, detail.Tag)

	_, err = resolver.FieldDetailByName(DefaultVersion, "NoSuchField")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolverMemoizesDetails(t *testing.T) {
	resolver := NewResolver(newTestStore(t), 0)

	first, err := resolver.MessageDetail(DefaultVersion, "D")
	require.NoError(t, err)
	second, err := resolver.MessageDetail(DefaultVersion, "D")
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, resolver.CacheLen())
}

type recordingCacheStats struct {
	hits   []string
	misses []string
}

func (s *recordingCacheStats) CacheHit(cacheType string)  { s.hits = append(s.hits, cacheType) }
func (s *recordingCacheStats) CacheMiss(cacheType string) { s.misses = append(s.misses, cacheType) }

func TestResolverRecordsCacheStats(t *testing.T) {
	resolver := NewResolver(newTestStore(t), 0)
	stats := &recordingCacheStats{}
	resolver.SetCacheStats(stats)

	_, err := resolver.MessageDetail(DefaultVersion, "D")
	require.NoError(t, err)
	_, err = resolver.MessageDetail(DefaultVersion, "D")
	require.NoError(t, err)
	_, err = resolver.FieldDetail(DefaultVersion, 54)
	require.NoError(t, err)
	_, err = resolver.ComponentDetail(DefaultVersion, "Parties")
	require.NoError(t, err)

	assert.Equal(t, []string{"message", "field", "component"}, stats.misses)
	assert.Equal(t, []string{"message"}, stats.hits)
}
