package board

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireWellFormed(t *testing.T, doc Document) {
	t.Helper()
	require.NotNil(t, doc.Outbound)
	require.NotNil(t, doc.Inbound)
	require.NotNil(t, doc.Weekly)
	require.NotNil(t, doc.Imports)
	require.NotNil(t, doc.ProgressBars)

	data, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "null")
}

func decodeJSON(t *testing.T, s string) any {
	t.Helper()
	raw, err := DecodeRaw([]byte(s))
	require.NoError(t, err)
	return raw
}

func TestNormalize_Totality(t *testing.T) {
	tests := []struct {
		name string
		raw  any
	}{
		{"nil", nil},
		{"empty object", map[string]any{}},
		{"string", "not a document"},
		{"number", 42.0},
		{"array", []any{1.0, 2.0}},
		{"null fields", map[string]any{"outbound": nil, "info": nil, "lastUpdated": nil}},
		{"wrong typed fields", map[string]any{"outbound": "x", "inbound": 3.0, "weekly": true, "imports": map[string]any{}, "progressBars": "y", "info": []any{}}},
		{"nil document pointer", (*Document)(nil)},
		{"valid document", Default()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var doc Document
			require.NotPanics(t, func() { doc = Normalize(tt.raw) })
			requireWellFormed(t, doc)
		})
	}
}

func TestNormalize_MissingFieldsFallBackToDefault(t *testing.T) {
	doc := Normalize(map[string]any{})

	def := Default()
	assert.Equal(t, def.Outbound, doc.Outbound)
	assert.Equal(t, def.Inbound, doc.Inbound)
	assert.Equal(t, def.Weekly, doc.Weekly)
	assert.Equal(t, def.Imports, doc.Imports)
	assert.Equal(t, def.ProgressBars, doc.ProgressBars)
	assert.Equal(t, def.Info, doc.Info)
}

func TestNormalize_EmptyArrayIsKept(t *testing.T) {
	doc := Normalize(decodeJSON(t, `{"lastUpdated":"10:00","outbound":[]}`))

	assert.Empty(t, doc.Outbound)
	assert.NotNil(t, doc.Outbound)
	assert.Equal(t, "10:00", doc.LastUpdated)
	assert.Equal(t, Default().Inbound, doc.Inbound)
}

func TestNormalize_InfoMergesFieldWise(t *testing.T) {
	doc := Normalize(decodeJSON(t, `{"info":{"totalStock":12,"expedicaoNote":5}}`))

	assert.Equal(t, 12, doc.Info.TotalStock)
	assert.Equal(t, Default().Info.RecebimentoNote, doc.Info.RecebimentoNote)
	assert.Equal(t, Default().Info.ExpedicaoNote, doc.Info.ExpedicaoNote, "wrong-typed sub-field falls back")
}

func TestNormalize_InnerEntitiesBestEffort(t *testing.T) {
	doc := Normalize(decodeJSON(t, `{
		"outbound": [
			{"id":"a","praca":"X","qtd":"many","status":"broken"},
			"not an object",
			{"id":"b","qtd":3}
		]
	}`))

	require.Len(t, doc.Outbound, 2)
	assert.Equal(t, "a", doc.Outbound[0].ID)
	assert.Equal(t, "X", doc.Outbound[0].Praca)
	assert.Equal(t, 0, doc.Outbound[0].Qtd)
	assert.Equal(t, OutboundStatus{}, doc.Outbound[0].Status)
	assert.Equal(t, 3, doc.Outbound[1].Qtd)
}

func TestNormalize_LastUpdated(t *testing.T) {
	assert.Equal(t, "10:00", Normalize(map[string]any{"lastUpdated": "10:00"}).LastUpdated)
	assert.Equal(t, "1700", Normalize(decodeJSON(t, `{"lastUpdated":1700}`)).LastUpdated)
	assert.Equal(t, Default().LastUpdated, Normalize(map[string]any{"lastUpdated": []any{}}).LastUpdated)
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []any{
		nil,
		map[string]any{},
		decodeJSON(t, `{"outbound":[{"id":"1","qtd":2.0}],"info":{"totalStock":"7"}}`),
		decodeJSON(t, `{"inbound":[{"id":"z","status":{"desc":true}}],"lastUpdated":"08:15","extra":1}`),
		decodeJSON(t, `{"progressBars":[{"id":"p","color":"purple","total":-4}]}`),
		Default(),
	}

	for _, raw := range inputs {
		once := Normalize(raw)
		twice := Normalize(once)
		assert.True(t, Equal(once, twice), "normalize is not idempotent for %v", raw)
	}
}

func TestDecode_InvalidJSON(t *testing.T) {
	doc, err := Decode([]byte(`{"outbound": [`))
	require.Error(t, err)
	assert.True(t, Equal(Default(), doc))
}

func TestDecode_RoundTrip(t *testing.T) {
	want := Default()
	want.LastUpdated = "09:41"

	data, err := Encode(want)
	require.NoError(t, err)

	got, err := Decode(data)
	require.NoError(t, err)
	assert.True(t, Equal(want, got))
}

func TestHasUpdateMarker(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{`{"lastUpdated":"10:00"}`, true},
		{`{"lastUpdated":""}`, false},
		{`{"lastUpdated":null}`, false},
		{`{"lastUpdated":0}`, false},
		{`{"lastUpdated":1}`, true},
		{`{}`, false},
		{`[]`, false},
		{`"text"`, false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, HasUpdateMarker(decodeJSON(t, tt.raw)))
		})
	}
}

func TestEqual(t *testing.T) {
	a := Default()
	b := Default()
	assert.True(t, Equal(a, b))

	b.Outbound[0].Status.Carregado = false
	assert.False(t, Equal(a, b))

	empty := Document{}
	withEmpty := Document{Outbound: []OutboundItem{}}
	assert.True(t, Equal(empty, withEmpty), "nil and empty collections are equal")
}

func TestShipmentProgress_Percentage(t *testing.T) {
	tests := []struct {
		name           string
		current, total int
		want           int
	}{
		{"zero total", 5, 0, 0},
		{"complete", 541, 541, 100},
		{"over complete clamps", 30, 24, 100},
		{"rounds half up", 1, 8, 13},
		{"rounds down", 14, 24, 58},
		{"large values", 52796, 55076, 96},
		{"negative current", -5, 10, 0},
		{"max int current", math.MaxInt, 1, 100},
		{"max int total", 1, math.MaxInt, 0},
		{"near max both", math.MaxInt - 1, math.MaxInt, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ShipmentProgress{Current: tt.current, Total: tt.total}
			assert.Equal(t, tt.want, p.Percentage())
		})
	}
}

func TestShipmentProgress_PercentageFromHugeRemoteCounts(t *testing.T) {
	doc, err := Decode([]byte(`{"progressBars":[{"id":"1","current":9223372036854775807,"total":1}]}`))
	require.NoError(t, err)
	require.Len(t, doc.ProgressBars, 1)
	assert.Equal(t, 100, doc.ProgressBars[0].Percentage())
}

func TestTotals(t *testing.T) {
	doc := Default()
	assert.Equal(t, 149, TotalOutbound(doc))
	assert.Equal(t, 28, TotalInbound(doc))
}
