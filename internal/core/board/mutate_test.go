package board

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddThenDelete_RestoresOutbound(t *testing.T) {
	doc := Default()
	item := NewOutboundItem(NewID(), time.Date(2025, 11, 19, 8, 0, 0, 0, time.UTC))

	require.Equal(t, "Nova Praça", item.Praca)
	require.Equal(t, 0, item.Qtd)
	require.Equal(t, OutboundStatus{}, item.Status)
	assert.Equal(t, "19/11", item.Date)

	added, err := AddEntity(doc, CollectionOutbound, item)
	require.NoError(t, err)
	require.Len(t, added.Outbound, len(doc.Outbound)+1)
	assert.Equal(t, item, added.Outbound[len(added.Outbound)-1])

	removed, err := DeleteEntity(added, CollectionOutbound, item.ID)
	require.NoError(t, err)
	assert.Equal(t, doc.Outbound, removed.Outbound)
}

func TestAddEntity_DoesNotAliasInput(t *testing.T) {
	doc := Default()
	doc.Outbound = doc.Outbound[:2:2]

	added, err := AddEntity(doc, CollectionOutbound, NewOutboundItem("x", time.Now()))
	require.NoError(t, err)

	added.Outbound[0].Praca = "changed"
	assert.Equal(t, "RESP", doc.Outbound[0].Praca)
}

func TestAddEntity_TypeMismatch(t *testing.T) {
	doc := Default()

	_, err := AddEntity(doc, CollectionInbound, NewAlert("a"))
	require.ErrorIs(t, err, ErrEntityType)

	_, err = AddEntity(doc, Collection("pallets"), NewAlert("a"))
	require.ErrorIs(t, err, ErrUnknownCollection)
}

func TestAddEntity_AllCollections(t *testing.T) {
	now := time.Now()
	tests := []struct {
		coll   Collection
		entity any
		length func(Document) int
	}{
		{CollectionOutbound, NewOutboundItem("n", now), func(d Document) int { return len(d.Outbound) }},
		{CollectionInbound, NewInboundItem("n", now), func(d Document) int { return len(d.Inbound) }},
		{CollectionWeekly, NewWeeklyStat("n", "DIA 23"), func(d Document) int { return len(d.Weekly) }},
		{CollectionImports, NewAlert("n"), func(d Document) int { return len(d.Imports) }},
		{CollectionProgressBars, NewShipmentProgress("n"), func(d Document) int { return len(d.ProgressBars) }},
	}

	for _, tt := range tests {
		t.Run(string(tt.coll), func(t *testing.T) {
			doc := Default()
			out, err := AddEntity(doc, tt.coll, tt.entity)
			require.NoError(t, err)
			assert.Equal(t, tt.length(doc)+1, tt.length(out))

			back, err := DeleteEntity(out, tt.coll, "n")
			require.NoError(t, err)
			assert.True(t, Equal(doc, back))
		})
	}
}

func TestDeleteEntity_UnknownID(t *testing.T) {
	doc := Default()
	out, err := DeleteEntity(doc, CollectionImports, "missing")
	require.NoError(t, err)
	assert.True(t, Equal(doc, out))
}

func TestDeleteEntity_LastItemLeavesEmptyCollection(t *testing.T) {
	doc := Default()
	out, err := DeleteEntity(doc, CollectionInbound, "1")
	require.NoError(t, err)
	assert.NotNil(t, out.Inbound)
	assert.Empty(t, out.Inbound)
}

func TestUpdateField_Isolation(t *testing.T) {
	doc := Default()

	out, err := UpdateField(doc, CollectionOutbound, "3", "qtd", 5)
	require.NoError(t, err)

	want := Default()
	want.Outbound[2].Qtd = 5
	assert.True(t, Equal(want, out))
	assert.Equal(t, 20, doc.Outbound[2].Qtd, "input document is not mutated")
}

func TestUpdateField_Values(t *testing.T) {
	tests := []struct {
		name    string
		coll    Collection
		id      string
		field   string
		value   any
		wantErr error
		check   func(t *testing.T, d Document)
	}{
		{
			name: "numeric string from editor", coll: CollectionOutbound, id: "1", field: "qtd", value: "42",
			check: func(t *testing.T, d Document) { assert.Equal(t, 42, d.Outbound[0].Qtd) },
		},
		{
			name: "integral float", coll: CollectionInbound, id: "1", field: "qtd", value: 7.0,
			check: func(t *testing.T, d Document) { assert.Equal(t, 7, d.Inbound[0].Qtd) },
		},
		{
			name: "text field", coll: CollectionWeekly, id: "2", field: "value", value: "130 (parcial)",
			check: func(t *testing.T, d Document) { assert.Equal(t, "130 (parcial)", d.Weekly[1].Value) },
		},
		{
			name: "alert text", coll: CollectionImports, id: "4", field: "text", value: "DAFRA1711 OK",
			check: func(t *testing.T, d Document) { assert.Equal(t, "DAFRA1711 OK", d.Imports[3].Text) },
		},
		{
			name: "progress color", coll: CollectionProgressBars, id: "3", field: "color", value: "green",
			check: func(t *testing.T, d Document) { assert.Equal(t, ColorGreen, d.ProgressBars[2].Color) },
		},
		{name: "negative quantity", coll: CollectionOutbound, id: "1", field: "qtd", value: -1, wantErr: ErrInvalidValue},
		{name: "not a number", coll: CollectionOutbound, id: "1", field: "qtd", value: "abc", wantErr: ErrInvalidValue},
		{name: "fractional", coll: CollectionProgressBars, id: "1", field: "current", value: "1.5", wantErr: ErrInvalidValue},
		{name: "bad color", coll: CollectionProgressBars, id: "1", field: "color", value: "purple", wantErr: ErrInvalidValue},
		{name: "string expected", coll: CollectionOutbound, id: "1", field: "praca", value: 3, wantErr: ErrInvalidValue},
		{name: "id not editable", coll: CollectionOutbound, id: "1", field: "id", value: "9", wantErr: ErrUnknownField},
		{name: "unknown field", coll: CollectionInbound, id: "1", field: "driver", value: "x", wantErr: ErrUnknownField},
		{name: "unknown collection", coll: "pallets", id: "1", field: "qtd", value: 1, wantErr: ErrUnknownCollection},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := Default()
			out, err := UpdateField(doc, tt.coll, tt.id, tt.field, tt.value)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.True(t, Equal(doc, out), "failed update returns the input unchanged")
				return
			}
			require.NoError(t, err)
			tt.check(t, out)
		})
	}
}

func TestUpdateField_UnknownIDIsNoop(t *testing.T) {
	doc := Default()
	out, err := UpdateField(doc, CollectionOutbound, "missing", "qtd", 1)
	require.NoError(t, err)
	assert.True(t, Equal(doc, out))
}

func TestUpdateStatusFlag_Inbound(t *testing.T) {
	doc := Default()

	out, err := UpdateStatusFlag(doc, CollectionInbound, "1", "desc", true)
	require.NoError(t, err)
	assert.Equal(t, InboundStatus{Desc: true, Rec: false}, out.Inbound[0].Status)

	want := Default()
	want.Inbound[0].Status.Desc = true
	assert.True(t, Equal(want, out))
}

func TestUpdateStatusFlag_Outbound(t *testing.T) {
	doc := Default()

	out, err := UpdateStatusFlag(doc, CollectionOutbound, "7", "carregado", true)
	require.NoError(t, err)
	assert.True(t, out.Outbound[6].Status.Carregado)
	assert.False(t, out.Outbound[6].Status.Romaneio)

	flags, ok := Status(out, CollectionOutbound, "7")
	require.True(t, ok)
	assert.Equal(t, map[string]bool{"separando": true, "separado": true, "romaneio": false, "carregado": true}, flags)
}

func TestUpdateStatusFlag_Errors(t *testing.T) {
	doc := Default()

	_, err := UpdateStatusFlag(doc, CollectionWeekly, "1", "desc", true)
	require.ErrorIs(t, err, ErrUnknownField)

	_, err = UpdateStatusFlag(doc, CollectionInbound, "1", "separando", true)
	require.ErrorIs(t, err, ErrUnknownField)

	_, err = UpdateStatusFlag(doc, "pallets", "1", "desc", true)
	require.ErrorIs(t, err, ErrUnknownCollection)
}

func TestUpdateInfo(t *testing.T) {
	doc := Default()

	out, err := UpdateInfo(doc, "totalStock", "6000")
	require.NoError(t, err)
	assert.Equal(t, 6000, out.Info.TotalStock)
	assert.Equal(t, doc.Info.ExpedicaoNote, out.Info.ExpedicaoNote)

	out, err = UpdateInfo(out, "expedicaoNote", "DIAS 24-25-26-27")
	require.NoError(t, err)
	assert.Equal(t, "DIAS 24-25-26-27", out.Info.ExpedicaoNote)

	_, err = UpdateInfo(doc, "manager", "x")
	require.ErrorIs(t, err, ErrUnknownField)
}

func TestParseCollection(t *testing.T) {
	for _, coll := range Collections() {
		got, err := ParseCollection(string(coll))
		require.NoError(t, err)
		assert.Equal(t, coll, got)
	}

	got, err := ParseCollection("alerts")
	require.NoError(t, err)
	assert.Equal(t, CollectionImports, got)

	_, err = ParseCollection("pallets")
	require.ErrorIs(t, err, ErrUnknownCollection)
}

func TestHas(t *testing.T) {
	doc := Default()
	assert.True(t, Has(doc, CollectionOutbound, "7"))
	assert.True(t, Has(doc, CollectionProgressBars, "4"))
	assert.False(t, Has(doc, CollectionInbound, "2"))
	assert.False(t, Has(doc, "pallets", "1"))
}

func TestNewEntity(t *testing.T) {
	now := time.Date(2025, 11, 23, 10, 0, 0, 0, time.UTC)

	for _, coll := range Collections() {
		t.Run(string(coll), func(t *testing.T) {
			entity, err := NewEntity(coll, "x", now)
			require.NoError(t, err)

			out, err := AddEntity(Default(), coll, entity)
			require.NoError(t, err)
			assert.True(t, Has(out, coll, "x"))
		})
	}

	weekly, err := NewEntity(CollectionWeekly, "w", now)
	require.NoError(t, err)
	assert.Equal(t, WeeklyStat{ID: "w", Label: "DIA 23", Value: "0"}, weekly)

	_, err = NewEntity("pallets", "x", now)
	require.ErrorIs(t, err, ErrUnknownCollection)
}
