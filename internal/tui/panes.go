package tui

import (
	"slices"
	"strconv"

	"github.com/hay-kot/painel/internal/core/board"
)

// pane is one panel of the dashboard. The info pane lists the singleton
// fields as rows instead of a collection.
type pane struct {
	title string
	coll  board.Collection
	info  bool
}

var panes = []pane{
	{title: "Expedição", coll: board.CollectionOutbound},
	{title: "Recebimento", coll: board.CollectionInbound},
	{title: "Semana", coll: board.CollectionWeekly},
	{title: "Alertas", coll: board.CollectionImports},
	{title: "Shipments", coll: board.CollectionProgressBars},
	{title: "Estoque", info: true},
}

const infoValueColumn = "value"

// row is one rendered line of a pane. id is the entity id, or the field name
// in the info pane.
type row struct {
	id      string
	values  map[string]string
	flags   map[string]bool
	percent int
	bar     string
}

// columns returns editable fields followed by status flags.
func (p pane) columns() []string {
	if p.info {
		return []string{infoValueColumn}
	}
	return append(slices.Clone(board.Fields(p.coll)), board.StatusFlags(p.coll)...)
}

func (p pane) isFlag(col string) bool {
	return !p.info && slices.Contains(board.StatusFlags(p.coll), col)
}

func (p pane) canAdd() bool {
	return !p.info
}

func (p pane) rows(doc board.Document) []row {
	if p.info {
		return infoRows(doc.Info)
	}

	var rows []row
	switch p.coll {
	case board.CollectionOutbound:
		for _, it := range doc.Outbound {
			rows = append(rows, row{id: it.ID, values: map[string]string{
				"praca":   it.Praca,
				"qtd":     strconv.Itoa(it.Qtd),
				"horario": it.Horario,
				"date":    it.Date,
			}})
		}
	case board.CollectionInbound:
		for _, it := range doc.Inbound {
			rows = append(rows, row{id: it.ID, values: map[string]string{
				"transp": it.Transp,
				"qtd":    strconv.Itoa(it.Qtd),
				"placa":  it.Placa,
				"date":   it.Date,
			}})
		}
	case board.CollectionWeekly:
		for _, it := range doc.Weekly {
			rows = append(rows, row{id: it.ID, values: map[string]string{
				"label": it.Label,
				"value": it.Value,
			}})
		}
	case board.CollectionImports:
		for _, it := range doc.Imports {
			rows = append(rows, row{id: it.ID, values: map[string]string{"text": it.Text}})
		}
	case board.CollectionProgressBars:
		for _, it := range doc.ProgressBars {
			rows = append(rows, row{
				id: it.ID,
				values: map[string]string{
					"label":   it.Label,
					"current": strconv.Itoa(it.Current),
					"total":   strconv.Itoa(it.Total),
					"color":   string(it.Color),
				},
				percent: it.Percentage(),
				bar:     string(it.Color),
			})
		}
	}

	for i := range rows {
		if flags, ok := board.Status(doc, p.coll, rows[i].id); ok {
			rows[i].flags = flags
		}
	}
	return rows
}

func infoRows(info board.Info) []row {
	values := map[string]string{
		"totalStock":      strconv.Itoa(info.TotalStock),
		"recebimentoNote": info.RecebimentoNote,
		"expedicaoNote":   info.ExpedicaoNote,
	}

	rows := make([]row, 0, len(values))
	for _, field := range board.InfoFields() {
		rows = append(rows, row{id: field, values: map[string]string{infoValueColumn: values[field]}})
	}
	return rows
}

func indexOf(rows []row, id string) int {
	return slices.IndexFunc(rows, func(r row) bool { return r.id == id })
}
