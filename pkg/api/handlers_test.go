package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradeweave/fixdict/pkg/config"
	"github.com/tradeweave/fixdict/pkg/dict"
	"github.com/tradeweave/fixdict/pkg/observability"
)

type stubLoader struct {
	set *dict.TableSet
}

func (l stubLoader) LoadVersion(version dict.Version) (*dict.TableSet, error) {
	if version == dict.DefaultVersion {
		return l.set, nil
	}
	return &dict.TableSet{}, nil
}

func testTableSet() *dict.TableSet {
	return &dict.TableSet{
		Messages: []dict.Message{
			{ComponentID: 5, MsgType: "D", Name: "NewOrderSingle", CategoryID: "SingleGeneralOrderHandling", SectionID: dict.SectionTrade, Description: "Submits a new order.", Pedigree: dict.Pedigree{Added: "FIX.2.7"}},
			{ComponentID: 9, MsgType: "8", Name: "ExecutionReport", CategoryID: "SingleGeneralOrderHandling", SectionID: dict.SectionTrade, Description: "Reports trade executions."},
			{ComponentID: 7, MsgType: "0", Name: "Heartbeat", CategoryID: "Session", SectionID: dict.SectionSession, Description: "Keeps the session alive."},
		},
		Fields: []dict.Field{
			{Tag: 11, Name: "ClOrdID", Type: "String", Description: "Unique identifier for an order.", Pedigree: dict.Pedigree{Added: "FIX.2.7"}},
			{Tag: 38, Name: "OrderQty", Type: "Qty", Description: "Quantity ordered."},
			{Tag: 54, Name: "Side", Type: "char", Description: "Buy or sell indicator."},
			{Tag: 44, Name: "Price", Type: "Price", Description: "Price per unit of quantity."},
			{Tag: 60, Name: "TransactTime", Type: "UTCTimestamp", AbbrName: "TxnTm", Description: "Time of transmission."},
		},
		Components: []dict.Component{
			{ComponentID: 1012, Name: "Parties", ComponentType: dict.ComponentBlockRepeating, CategoryID: "Common", Description: "Repeating group of party identifiers."},
			{ComponentID: 1003, Name: "Instrument", ComponentType: dict.ComponentBlock, CategoryID: "Common", Description: "Security definition block."},
		},
		Enums: []dict.Enum{
			{Tag: 54, Value: "1", SymbolicName: "Buy", Description: "Buy."},
			{Tag: 54, Value: "2", SymbolicName: "Sell", Description: "Sell."},
		},
		Sections: []dict.Section{
			{SectionID: dict.SectionTrade, Name: "Trade", DisplayOrder: 3},
			{SectionID: dict.SectionSession, Name: "Session", DisplayOrder: 1},
		},
		Datatypes: []dict.Datatype{
			{Name: "String", Description: "Alphanumeric free format string."},
			{Name: "Qty", BaseType: "float", Description: "Quantity."},
		},
		MsgContents: []dict.MsgContent{
			{ComponentID: 5, TagText: "11", Position: 1, Reqd: true},
			{ComponentID: 5, TagText: "Parties", Position: 2},
			{ComponentID: 5, TagText: "54", Position: 3, Reqd: true},
			{ComponentID: 1012, TagText: "54", Position: 1},
		},
	}
}

func newTestStore(t *testing.T) *dict.Store {
	t.Helper()
	store := dict.NewStore(stubLoader{set: testTableSet()}, nil)
	require.NoError(t, store.Load(context.Background()))
	return store
}

func newTestServer(t *testing.T, store *dict.Store) *Server {
	t.Helper()
	logger := observability.NewLogger(observability.ErrorLevel, io.Discard)
	cfg := config.ServerConfig{
		APIPrefix:     "/api/v1",
		GatewayPrefix: "/api/gateway/proxy/dict",
		CORSOrigins:   []string{"*"},
	}
	return NewServer(cfg, store, dict.NewResolver(store, 16), logger, nil)
}

func doGet(t *testing.T, server *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst))
}

type messagePage struct {
	TotalCount  int              `json:"total_count"`
	Page        int              `json:"page"`
	PageSize    int              `json:"page_size"`
	HasNext     bool             `json:"has_next"`
	HasPrevious bool             `json:"has_previous"`
	Data        []MessageSummary `json:"data"`
}

func TestListMessages(t *testing.T) {
	server := newTestServer(t, newTestStore(t))

	rec := doGet(t, server, "/api/v1/messages")
	require.Equal(t, http.StatusOK, rec.Code)

	var page messagePage
	decode(t, rec, &page)
	assert.Equal(t, 3, page.TotalCount)
	require.Len(t, page.Data, 3)
	// Default sort is msg_type ascending: "0", "8", "D".
	assert.Equal(t, "Heartbeat", page.Data[0].Name)
	assert.Equal(t, "Session", page.Data[0].Section)
	assert.Equal(t, "NewOrderSingle", page.Data[2].Name)
	assert.Equal(t, "Added: FIX.2.7", page.Data[2].Pedigree)
}

func TestListMessagesFiltered(t *testing.T) {
	server := newTestServer(t, newTestStore(t))

	rec := doGet(t, server, "/api/v1/messages?section=Session")
	require.Equal(t, http.StatusOK, rec.Code)

	var page messagePage
	decode(t, rec, &page)
	assert.Equal(t, 1, page.TotalCount)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Heartbeat", page.Data[0].Name)
}

func TestListMessagesPagination(t *testing.T) {
	server := newTestServer(t, newTestStore(t))

	rec := doGet(t, server, "/api/v1/messages?page=2&page_size=2")
	require.Equal(t, http.StatusOK, rec.Code)

	var page messagePage
	decode(t, rec, &page)
	assert.Equal(t, 3, page.TotalCount)
	assert.Equal(t, 2, page.Page)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "NewOrderSingle", page.Data[0].Name)
	assert.False(t, page.HasNext)
	assert.True(t, page.HasPrevious)
}

func TestListMessagesBadVersion(t *testing.T) {
	server := newTestServer(t, newTestStore(t))

	rec := doGet(t, server, "/api/v1/messages?version=FIX.9.9")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetMessage(t *testing.T) {
	server := newTestServer(t, newTestStore(t))

	rec := doGet(t, server, "/api/v1/messages/D")
	require.Equal(t, http.StatusOK, rec.Code)

	var detail dict.MessageDetail
	decode(t, rec, &detail)
	assert.Equal(t, "NewOrderSingle", detail.Name)
	assert.Len(t, detail.Contents, 3)
	require.Len(t, detail.Fields, 2)
	assert.Equal(t, "ClOrdID", detail.Fields[0].Name)
	require.Len(t, detail.Components, 1)
	assert.Equal(t, "Parties", detail.Components[0].Name)
}

func TestGetMessageNotFound(t *testing.T) {
	server := newTestServer(t, newTestStore(t))

	rec := doGet(t, server, "/api/v1/messages/ZZ")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "not found")
}

type fieldPage struct {
	TotalCount int            `json:"total_count"`
	Data       []FieldSummary `json:"data"`
}

func TestListFields(t *testing.T) {
	server := newTestServer(t, newTestStore(t))

	rec := doGet(t, server, "/api/v1/fields")
	require.Equal(t, http.StatusOK, rec.Code)

	var page fieldPage
	decode(t, rec, &page)
	assert.Equal(t, 5, page.TotalCount)
	require.NotEmpty(t, page.Data)
	// Default sort is tag ascending.
	assert.Equal(t, 11, page.Data[0].Tag)
	assert.Equal(t, "String", page.Data[0].Datatype)
}

func TestListFieldsTagRange(t *testing.T) {
	server := newTestServer(t, newTestStore(t))

	rec := doGet(t, server, "/api/v1/fields?tag_min=38&tag_max=54")
	require.Equal(t, http.StatusOK, rec.Code)

	var page fieldPage
	decode(t, rec, &page)
	assert.Equal(t, 3, page.TotalCount)
	for _, f := range page.Data {
		assert.GreaterOrEqual(t, f.Tag, 38)
		assert.LessOrEqual(t, f.Tag, 54)
	}
}

func TestListFieldsDatatypeFilter(t *testing.T) {
	server := newTestServer(t, newTestStore(t))

	rec := doGet(t, server, "/api/v1/fields?datatype=Qty")
	require.Equal(t, http.StatusOK, rec.Code)

	var page fieldPage
	decode(t, rec, &page)
	assert.Equal(t, 1, page.TotalCount)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "OrderQty", page.Data[0].Name)
}

func TestGetFieldByTag(t *testing.T) {
	server := newTestServer(t, newTestStore(t))

	rec := doGet(t, server, "/api/v1/fields/54")
	require.Equal(t, http.StatusOK, rec.Code)

	var detail dict.FieldDetail
	decode(t, rec, &detail)
	assert.Equal(t, "Side", detail.Name)
	assert.Len(t, detail.Enums, 2)
}

func TestGetFieldByName(t *testing.T) {
	server := newTestServer(t, newTestStore(t))

	rec := doGet(t, server, "/api/v1/fields/name/clordid")
	require.Equal(t, http.StatusOK, rec.Code)

	var detail dict.FieldDetail
	decode(t, rec, &detail)
	assert.Equal(t, 11, detail.Tag)
}

func TestGetFieldNotFound(t *testing.T) {
	server := newTestServer(t, newTestStore(t))

	assert.Equal(t, http.StatusNotFound, doGet(t, server, "/api/v1/fields/9999").Code)
	assert.Equal(t, http.StatusNotFound, doGet(t, server, "/api/v1/fields/name/NoSuchField").Code)
}

type componentPage struct {
	TotalCount int                `json:"total_count"`
	Data       []ComponentSummary `json:"data"`
}

func TestListComponents(t *testing.T) {
	server := newTestServer(t, newTestStore(t))

	rec := doGet(t, server, "/api/v1/components")
	require.Equal(t, http.StatusOK, rec.Code)

	var page componentPage
	decode(t, rec, &page)
	assert.Equal(t, 2, page.TotalCount)
	require.Len(t, page.Data, 2)
	// Default sort is name ascending.
	assert.Equal(t, "Instrument", page.Data[0].Name)
	assert.False(t, page.Data[0].IsRepeatingGroup)
	assert.Equal(t, "Parties", page.Data[1].Name)
	assert.True(t, page.Data[1].IsRepeatingGroup)
}

func TestGetComponent(t *testing.T) {
	server := newTestServer(t, newTestStore(t))

	rec := doGet(t, server, "/api/v1/components/parties")
	require.Equal(t, http.StatusOK, rec.Code)

	var detail dict.ComponentDetail
	decode(t, rec, &detail)
	assert.Equal(t, "Parties", detail.Name)
	assert.Equal(t, []string{"NewOrderSingle"}, detail.UsageInMessages)
}

func TestListCodeSets(t *testing.T) {
	server := newTestServer(t, newTestStore(t))

	rec := doGet(t, server, "/api/v1/codesets")
	require.Equal(t, http.StatusOK, rec.Code)

	var page struct {
		TotalCount int              `json:"total_count"`
		Data       []CodeSetSummary `json:"data"`
	}
	decode(t, rec, &page)
	assert.Equal(t, 1, page.TotalCount)
	require.Len(t, page.Data, 1)
	assert.Equal(t, 54, page.Data[0].Tag)
	assert.Equal(t, "Side", page.Data[0].Name)
	assert.Equal(t, 2, page.Data[0].ValueCount)
}

func TestGetCodeSet(t *testing.T) {
	server := newTestServer(t, newTestStore(t))

	rec := doGet(t, server, "/api/v1/codesets/54")
	require.Equal(t, http.StatusOK, rec.Code)

	var cs CodeSet
	decode(t, rec, &cs)
	assert.Equal(t, "Side", cs.Name)
	assert.Equal(t, "char", cs.BaseDatatype)
	require.Len(t, cs.Values, 2)
	assert.Equal(t, "Buy", cs.Values[0].SymbolicName)
}

func TestGetCodeSetMisses(t *testing.T) {
	server := newTestServer(t, newTestStore(t))

	// Tag 44 exists but owns no enum values; tag 999 has no field at all.
	assert.Equal(t, http.StatusNotFound, doGet(t, server, "/api/v1/codesets/44").Code)
	assert.Equal(t, http.StatusNotFound, doGet(t, server, "/api/v1/codesets/999").Code)
}

func TestQueryForm(t *testing.T) {
	server := newTestServer(t, newTestStore(t))

	rec := doGet(t, server, "/api/v1/form?msg_type=D")
	require.Equal(t, http.StatusOK, rec.Code)

	var page struct {
		TotalCount int              `json:"total_count"`
		Data       []map[string]any `json:"data"`
	}
	decode(t, rec, &page)
	assert.Equal(t, 3, page.TotalCount)
	require.Len(t, page.Data, 3)
	// Default sort is position ascending.
	assert.Equal(t, "11", page.Data[0]["tag_text"])
	assert.Equal(t, "Parties", page.Data[1]["name"])
}

func TestQueryFormKindFilter(t *testing.T) {
	server := newTestServer(t, newTestStore(t))

	rec := doGet(t, server, "/api/v1/form?msg_type=D&kind=Component")
	require.Equal(t, http.StatusOK, rec.Code)

	var page struct {
		TotalCount int              `json:"total_count"`
		Data       []map[string]any `json:"data"`
	}
	decode(t, rec, &page)
	assert.Equal(t, 1, page.TotalCount)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Parties", page.Data[0]["name"])
}

func TestListSections(t *testing.T) {
	server := newTestServer(t, newTestStore(t))

	rec := doGet(t, server, "/api/v1/sections")
	require.Equal(t, http.StatusOK, rec.Code)

	var page struct {
		TotalCount int              `json:"total_count"`
		Data       []map[string]any `json:"data"`
	}
	decode(t, rec, &page)
	assert.Equal(t, 2, page.TotalCount)
	require.Len(t, page.Data, 2)
	// Default sort is display_order ascending.
	assert.Equal(t, "Session", page.Data[0]["name"])
}

func TestListVersions(t *testing.T) {
	server := newTestServer(t, newTestStore(t))

	rec := doGet(t, server, "/api/v1/versions")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp VersionsResponse
	decode(t, rec, &resp)
	assert.Equal(t, string(dict.DefaultVersion), resp.DefaultVersion)
	require.Len(t, resp.Versions, 3)
	for _, v := range resp.Versions {
		if v.Version == string(dict.DefaultVersion) {
			assert.True(t, v.Default)
			assert.Equal(t, 3, v.Counts["message"])
			assert.Equal(t, 5, v.Counts["field"])
		}
	}
}

func TestPermalinks(t *testing.T) {
	server := newTestServer(t, newTestStore(t))
	version := string(dict.DefaultVersion)

	rec := doGet(t, server, "/api/v1/"+version+"/msg/5")
	require.Equal(t, http.StatusOK, rec.Code)
	var msg dict.MessageDetail
	decode(t, rec, &msg)
	assert.Equal(t, "NewOrderSingle", msg.Name)

	rec = doGet(t, server, "/api/v1/"+version+"/tag/54")
	require.Equal(t, http.StatusOK, rec.Code)
	var field dict.FieldDetail
	decode(t, rec, &field)
	assert.Equal(t, "Side", field.Name)

	rec = doGet(t, server, "/api/v1/"+version+"/cmp/1012")
	require.Equal(t, http.StatusOK, rec.Code)
	var comp dict.ComponentDetail
	decode(t, rec, &comp)
	assert.Equal(t, "Parties", comp.Name)
}

func TestPermalinkBadVersion(t *testing.T) {
	server := newTestServer(t, newTestStore(t))

	rec := doGet(t, server, "/api/v1/FIX.9.9/msg/5")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGatewayPrefixMountsSameRoutes(t *testing.T) {
	server := newTestServer(t, newTestStore(t))

	rec := doGet(t, server, "/api/gateway/proxy/dict/messages/D")
	require.Equal(t, http.StatusOK, rec.Code)

	var detail dict.MessageDetail
	decode(t, rec, &detail)
	assert.Equal(t, "NewOrderSingle", detail.Name)
}

func TestStoreNotReady(t *testing.T) {
	store := dict.NewStore(stubLoader{set: &dict.TableSet{}}, nil)
	server := newTestServer(t, store)

	rec := doGet(t, server, "/api/v1/messages")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "not loaded")
}

func TestRouteTemplate(t *testing.T) {
	server := newTestServer(t, newTestStore(t))

	var tpl string
	server.Router().Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r)
			tpl = RouteTemplate(r)
		})
	})

	doGet(t, server, "/api/v1/fields/54")
	assert.Equal(t, "/api/v1/fields/{tag:[0-9]+}", tpl)
}
