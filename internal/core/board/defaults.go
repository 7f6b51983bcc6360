package board

import (
	"time"

	"github.com/google/uuid"
)

// Default returns the canonical default document used whenever no valid
// persisted or remote data exists, and as the per-field fallback of
// Normalize. LastUpdated is left empty; the first commit stamps it.
func Default() Document {
	done := OutboundStatus{Separando: true, Separado: true, Romaneio: true, Carregado: true}

	return Document{
		Outbound: []OutboundItem{
			{ID: "1", Date: "19/11", Praca: "RESP", Qtd: 20, Horario: "07:00", Status: done},
			{ID: "2", Date: "19/11", Praca: "São José dos Campos", Qtd: 19, Horario: "13:00", Status: done},
			{ID: "3", Date: "19/11", Praca: "Ribeirão Preto", Qtd: 20, Horario: "08:30", Status: done},
			{ID: "4", Date: "19/11", Praca: "R10", Qtd: 20, Horario: "09:00", Status: done},
			{ID: "5", Date: "19/11", Praca: "RESP", Qtd: 20, Horario: "09:30", Status: done},
			{ID: "6", Date: "19/11", Praca: "R10", Qtd: 20, Horario: "11:00", Status: done},
			{ID: "7", Date: "19/11", Praca: "Campo Grande", Qtd: 30, Horario: "16:00", Status: OutboundStatus{Separando: true, Separado: true}},
		},
		Inbound: []InboundItem{
			{ID: "1", Date: "19/11", Transp: "Giga", Qtd: 28, Placa: "ABC-1234"},
		},
		Weekly: []WeeklyStat{
			{ID: "1", Label: "DIA 20", Value: "195"},
			{ID: "2", Label: "DIA 21", Value: "127"},
			{ID: "3", Label: "DIA 22", Value: "102"},
		},
		Imports: []Alert{
			{ID: "1", Text: "72/25 EM PROCESSO DE GUARDA"},
			{ID: "2", Text: "97/25 VENILSON NA GUARDA"},
			{ID: "3", Text: "87/25 ADEILSON RECEBENDO 2° TURNO"},
			{ID: "4", Text: "DAFRA1711 FALTA ITENS"},
		},
		ProgressBars: []ShipmentProgress{
			{ID: "1", Label: "0072/25", Current: 52796, Total: 55076, Color: ColorRed},
			{ID: "2", Label: "INB0097/25", Current: 541, Total: 541, Color: ColorGreen},
			{ID: "3", Label: "INB0087/25", Current: 6545, Total: 18115, Color: ColorBlue},
			{ID: "4", Label: "DAFRA1711", Current: 14, Total: 24, Color: ColorBlue},
		},
		Info: Info{
			TotalStock:      5116,
			RecebimentoNote: "01 GIGA DIA 21",
			ExpedicaoNote:   "100 POR DIA",
		},
	}
}

// NewID returns a fresh entity id.
func NewID() string {
	return uuid.NewString()
}

// DateLabel formats t the way entity dates are displayed (dd/mm).
func DateLabel(t time.Time) string {
	return t.Format("02/01")
}

// TimeLabel formats t the way LastUpdated is displayed (HH:MM).
func TimeLabel(t time.Time) string {
	return t.Format("15:04")
}

// NewOutboundItem returns an outbound item with the defaults used when a row
// is added from the dashboard. All status flags start false.
func NewOutboundItem(id string, now time.Time) OutboundItem {
	return OutboundItem{
		ID:      id,
		Date:    DateLabel(now),
		Praca:   "Nova Praça",
		Qtd:     0,
		Horario: "00:00",
	}
}

// NewInboundItem returns an inbound item with the dashboard defaults.
func NewInboundItem(id string, now time.Time) InboundItem {
	return InboundItem{
		ID:     id,
		Date:   DateLabel(now),
		Transp: "Nova Transp",
		Qtd:    0,
		Placa:  "---",
	}
}

// NewWeeklyStat returns an empty weekly cell.
func NewWeeklyStat(id string, label string) WeeklyStat {
	return WeeklyStat{ID: id, Label: label, Value: "0"}
}

// NewAlert returns a placeholder alert.
func NewAlert(id string) Alert {
	return Alert{ID: id, Text: "Novo alerta"}
}

// NewShipmentProgress returns a placeholder progress bar.
func NewShipmentProgress(id string) ShipmentProgress {
	return ShipmentProgress{ID: id, Label: "NOVO SHIPMENT", Current: 0, Total: 100, Color: ColorBlue}
}
