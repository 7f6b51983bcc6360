// Package board defines the shared dashboard document, its canonical default,
// the normalizer that repairs partially-shaped input, and the pure mutation
// operations applied by the editing surfaces.
package board

import "math"

// Color is the display color of a shipment progress bar.
type Color string

const (
	ColorRed   Color = "red"
	ColorBlue  Color = "blue"
	ColorGreen Color = "green"
)

// IsValid reports whether c is one of the supported colors.
func (c Color) IsValid() bool {
	switch c {
	case ColorRed, ColorBlue, ColorGreen:
		return true
	default:
		return false
	}
}

// Document is the single shared aggregate of all dashboard state. It is
// replaced as a whole on every edit or accepted remote update, never mutated
// in place.
type Document struct {
	Outbound     []OutboundItem     `json:"outbound"`
	Inbound      []InboundItem      `json:"inbound"`
	Weekly       []WeeklyStat       `json:"weekly"`
	Imports      []Alert            `json:"imports"`
	ProgressBars []ShipmentProgress `json:"progressBars"`
	Info         Info               `json:"info"`
	LastUpdated  string             `json:"lastUpdated"`
}

// OutboundStatus tracks the outbound pipeline: picking, picked, manifested,
// loaded. The flags are independent; no ordering is enforced.
type OutboundStatus struct {
	Separando bool `json:"separando"`
	Separado  bool `json:"separado"`
	Romaneio  bool `json:"romaneio"`
	Carregado bool `json:"carregado"`
}

// OutboundItem is a scheduled outbound shipment.
type OutboundItem struct {
	ID      string         `json:"id" csv:"id"`
	Date    string         `json:"date" csv:"date"`
	Praca   string         `json:"praca" csv:"praca"`
	Qtd     int            `json:"qtd" csv:"qtd"`
	Horario string         `json:"horario" csv:"horario"`
	Status  OutboundStatus `json:"status" csv:"-"`
}

// InboundStatus tracks unloading (desc) and receiving (rec).
type InboundStatus struct {
	Desc bool `json:"desc"`
	Rec  bool `json:"rec"`
}

// InboundItem is an expected inbound delivery.
type InboundItem struct {
	ID     string        `json:"id" csv:"id"`
	Date   string        `json:"date" csv:"date"`
	Transp string        `json:"transp" csv:"transp"`
	Qtd    int           `json:"qtd" csv:"qtd"`
	Placa  string        `json:"placa" csv:"placa"`
	Status InboundStatus `json:"status" csv:"-"`
}

// WeeklyStat is a label/value throughput cell. Value is free text because it
// may carry annotations.
type WeeklyStat struct {
	ID    string `json:"id" csv:"id"`
	Label string `json:"label" csv:"label"`
	Value string `json:"value" csv:"value"`
}

// Alert is a free-text note.
type Alert struct {
	ID   string `json:"id" csv:"id"`
	Text string `json:"text" csv:"text"`
}

// ShipmentProgress is a completion bar for a single shipment.
type ShipmentProgress struct {
	ID      string `json:"id" csv:"id"`
	Label   string `json:"label" csv:"label"`
	Current int    `json:"current" csv:"current"`
	Total   int    `json:"total" csv:"total"`
	Color   Color  `json:"color" csv:"color"`
}

// Percentage returns the completion percentage rounded and clamped to
// [0, 100]. A zero or negative total yields 0.
func (p ShipmentProgress) Percentage() int {
	if p.Total <= 0 || p.Current <= 0 {
		return 0
	}
	if p.Current >= p.Total {
		return 100
	}
	return int(math.Round(float64(p.Current) / float64(p.Total) * 100))
}

// Info holds the dashboard's singleton fields.
type Info struct {
	TotalStock      int    `json:"totalStock"`
	RecebimentoNote string `json:"recebimentoNote"`
	ExpedicaoNote   string `json:"expedicaoNote"`
}

// TotalOutbound sums the quantity of every outbound item.
func TotalOutbound(doc Document) int {
	total := 0
	for _, item := range doc.Outbound {
		total += item.Qtd
	}
	return total
}

// TotalInbound sums the quantity of every inbound item.
func TotalInbound(doc Document) int {
	total := 0
	for _, item := range doc.Inbound {
		total += item.Qtd
	}
	return total
}

// Clone returns a copy of doc that shares no slice storage with it.
func (d Document) Clone() Document {
	return Document{
		Outbound:     cloneSlice(d.Outbound),
		Inbound:      cloneSlice(d.Inbound),
		Weekly:       cloneSlice(d.Weekly),
		Imports:      cloneSlice(d.Imports),
		ProgressBars: cloneSlice(d.ProgressBars),
		Info:         d.Info,
		LastUpdated:  d.LastUpdated,
	}
}

// cloneSlice copies s, returning an empty non-nil slice for nil input so the
// serialized form never carries null where an array belongs.
func cloneSlice[T any](s []T) []T {
	out := make([]T, len(s))
	copy(out, s)
	return out
}
