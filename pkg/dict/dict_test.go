package dict

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// stubLoader serves canned table sets so tests do not touch the
// filesystem.
type stubLoader struct {
	sets map[Version]*TableSet
	errs map[Version]error
}

func (l *stubLoader) LoadVersion(version Version) (*TableSet, error) {
	if err, ok := l.errs[version]; ok {
		return nil, err
	}
	if set, ok := l.sets[version]; ok {
		return set, nil
	}
	return &TableSet{}, nil
}

// testTableSet builds a small but representative dictionary slice:
// one order message whose body mixes a resolvable field, a resolvable
// component, an unresolvable component name and an unresolvable numeric
// tag.
func testTableSet() *TableSet {
	return &TableSet{
		Messages: []Message{
			{ComponentID: 5, MsgType: "D", Name: "NewOrderSingle", CategoryID: "SingleGeneralOrderHandling", SectionID: SectionTrade, AbbrName: "Order", Description: "The new order message type is used by institutions wishing to electronically submit securities and forex orders to a broker for execution.", Pedigree: Pedigree{Added: "FIX.2.7"}},
			{ComponentID: 9, MsgType: "8", Name: "ExecutionReport", CategoryID: "SingleGeneralOrderHandling", SectionID: SectionTrade, Description: "The execution report message is used to confirm the receipt of an order.", Pedigree: Pedigree{Added: "FIX.2.7", Updated: "FIX.5.0SP2"}},
			{ComponentID: 7, MsgType: "0", Name: "Heartbeat", CategoryID: "Session", SectionID: SectionSession, Description: "The Heartbeat monitors the status of the communication link.", Pedigree: Pedigree{Added: "FIX.2.7"}},
		},
		Fields: []Field{
			{Tag: 11, Name: "ClOrdID", Type: "String", AbbrName: "ClOrdID", Description: "Unique identifier for Order as assigned by the buy-side.", Pedigree: Pedigree{Added: "FIX.2.7"}},
			{Tag: 38, Name: "OrderQty", Type: "Qty", Description: "Quantity ordered.", Pedigree: Pedigree{Added: "FIX.2.7"}},
			{Tag: 54, Name: "Side", Type: "char", Description: "Side of order.", Pedigree: Pedigree{Added: "FIX.2.7"}},
			{Tag: 44, Name: "Price", Type: "Price", Description: "Price per unit of quantity.", Pedigree: Pedigree{Added: "FIX.2.7"}},
			{Tag: 60, Name: "TransactTime", Type: "UTCTimestamp", AbbrName: "TxnTm", Description: "Time of execution or order creation.", Pedigree: Pedigree{Added: "FIX.4.2", Deprecated: "FIX.5.0"}},
		},
		Components: []Component{
			{ComponentID: 1012, ComponentType: ComponentBlockRepeating, CategoryID: "Common", Name: "Parties", Description: "The Parties component block is used to identify and convey information on the entities involved in a transaction.", Pedigree: Pedigree{Added: "FIX.4.3"}},
			{ComponentID: 1003, ComponentType: ComponentBlock, CategoryID: "Common", Name: "Instrument", Description: "The Instrument component block contains all the fields commonly used to describe a security.", Pedigree: Pedigree{Added: "FIX.4.3"}},
		},
		Enums: []Enum{
			{Tag: 54, Value: "1", SymbolicName: "Buy", Description: "Buy"},
			{Tag: 54, Value: "2", SymbolicName: "Sell", Description: "Sell"},
			{Tag: 40, Value: "2", SymbolicName: "Limit", Description: "Limit order"},
		},
		Categories: []Category{
			{CategoryID: "SingleGeneralOrderHandling", SectionID: SectionTrade, ComponentType: "Message"},
			{CategoryID: "Session", SectionID: SectionSession, ComponentType: "Message"},
		},
		Sections: []Section{
			{SectionID: SectionSession, Name: "Session", DisplayOrder: 1, Volume: "1"},
			{SectionID: SectionTrade, Name: "Trade", DisplayOrder: 3, Volume: "4"},
		},
		Datatypes: []Datatype{
			{Name: "String", Description: "Alpha-numeric free format strings."},
			{Name: "Qty", BaseType: "float", Description: "Quantity capable of representing whole units and fractional units."},
		},
		Abbreviations: []Abbreviation{
			{Term: "Quantity", AbbrTerm: "Qty", Description: "Quantity abbreviation."},
		},
		MsgContents: []MsgContent{
			{ComponentID: 5, TagText: "11", Position: 1, Reqd: true},
			{ComponentID: 5, TagText: "NoPartyIDs", Position: 2},
			{ComponentID: 5, TagText: "Parties", Position: 3},
			{ComponentID: 5, TagText: "9999", Position: 4},
			{ComponentID: 5, TagText: "54", Position: 5, Reqd: true},
			{ComponentID: 5, TagText: "38", Position: 4.5},
			{ComponentID: 1012, TagText: "54", Position: 1},
			{ComponentID: 9, TagText: "11", Position: 1},
			{ComponentID: 9, TagText: "Instrument", Position: 2, Reqd: true},
		},
	}
}

// newTestStore loads a store with the fixture set under the default
// version and an empty FIX.4.4.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	loader := &stubLoader{sets: map[Version]*TableSet{
		DefaultVersion: testTableSet(),
	}}
	store := NewStore(loader, nil)
	require.NoError(t, store.Load(context.Background()))
	return store
}
