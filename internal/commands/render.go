package commands

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/gocarina/gocsv"

	"github.com/hay-kot/painel/internal/boardsync"
	"github.com/hay-kot/painel/internal/core/board"
)

func check(b bool) string {
	if b {
		return "x"
	}
	return "-"
}

func statusLine(snap boardsync.Snapshot) string {
	endpoint := snap.Endpoint
	if snap.Offline() {
		endpoint = "offline"
	}
	updated := snap.Document.LastUpdated
	if updated == "" {
		updated = "--:--"
	}
	return fmt.Sprintf("status: %s  updated: %s  remote: %s", snap.Status, updated, endpoint)
}

// writeTables prints every collection as an aligned table.
func writeTables(out io.Writer, snap boardsync.Snapshot) error {
	doc := snap.Document
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	_, _ = fmt.Fprintln(w, statusLine(snap))
	_, _ = fmt.Fprintln(w)

	_, _ = fmt.Fprintf(w, "OUTBOUND (%d)\n", board.TotalOutbound(doc))
	_, _ = fmt.Fprintln(w, "ID\tDATE\tPRACA\tQTD\tHORARIO\tSEP'DO\tSEP\tROM\tCARR")
	for _, item := range doc.Outbound {
		s := item.Status
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\t%s\t%s\t%s\n",
			item.ID, item.Date, item.Praca, item.Qtd, item.Horario,
			check(s.Separando), check(s.Separado), check(s.Romaneio), check(s.Carregado))
	}
	_, _ = fmt.Fprintln(w)

	_, _ = fmt.Fprintf(w, "INBOUND (%d)\n", board.TotalInbound(doc))
	_, _ = fmt.Fprintln(w, "ID\tDATE\tTRANSP\tQTD\tPLACA\tDESC\tREC")
	for _, item := range doc.Inbound {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\t%s\n",
			item.ID, item.Date, item.Transp, item.Qtd, item.Placa,
			check(item.Status.Desc), check(item.Status.Rec))
	}
	_, _ = fmt.Fprintln(w)

	_, _ = fmt.Fprintln(w, "WEEKLY")
	_, _ = fmt.Fprintln(w, "ID\tLABEL\tVALUE")
	for _, stat := range doc.Weekly {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", stat.ID, stat.Label, stat.Value)
	}
	_, _ = fmt.Fprintln(w)

	_, _ = fmt.Fprintln(w, "INFO")
	_, _ = fmt.Fprintf(w, "totalStock\t%d\n", doc.Info.TotalStock)
	_, _ = fmt.Fprintf(w, "recebimentoNote\t%s\n", doc.Info.RecebimentoNote)
	_, _ = fmt.Fprintf(w, "expedicaoNote\t%s\n", doc.Info.ExpedicaoNote)
	_, _ = fmt.Fprintln(w)

	_, _ = fmt.Fprintln(w, "ALERTS")
	_, _ = fmt.Fprintln(w, "ID\tTEXT")
	for _, alert := range doc.Imports {
		_, _ = fmt.Fprintf(w, "%s\t%s\n", alert.ID, alert.Text)
	}
	_, _ = fmt.Fprintln(w)

	_, _ = fmt.Fprintln(w, "PROGRESS")
	_, _ = fmt.Fprintln(w, "ID\tLABEL\tCURRENT\tTOTAL\tPCT\tCOLOR")
	for _, bar := range doc.ProgressBars {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d%%\t%s\n",
			bar.ID, bar.Label, bar.Current, bar.Total, bar.Percentage(), bar.Color)
	}

	return w.Flush()
}

func mdCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// markdown renders the document as a markdown report.
func markdown(doc board.Document) string {
	var b strings.Builder

	b.WriteString("# Painel Logístico\n\n")
	if doc.LastUpdated != "" {
		fmt.Fprintf(&b, "_Atualizado às %s_\n\n", doc.LastUpdated)
	}

	fmt.Fprintf(&b, "## Expedição (%d)\n\n", board.TotalOutbound(doc))
	b.WriteString("| ID | Data | Praça | Qtd | Horário | Separando | Separado | Romaneio | Carregado |\n")
	b.WriteString("|---|---|---|---:|---|:---:|:---:|:---:|:---:|\n")
	for _, item := range doc.Outbound {
		s := item.Status
		fmt.Fprintf(&b, "| %s | %s | %s | %d | %s | %s | %s | %s | %s |\n",
			mdCell(item.ID), mdCell(item.Date), mdCell(item.Praca), item.Qtd, mdCell(item.Horario),
			check(s.Separando), check(s.Separado), check(s.Romaneio), check(s.Carregado))
	}

	fmt.Fprintf(&b, "\n## Recebimento (%d)\n\n", board.TotalInbound(doc))
	b.WriteString("| ID | Data | Transportadora | Qtd | Placa | Descarga | Recebido |\n")
	b.WriteString("|---|---|---|---:|---|:---:|:---:|\n")
	for _, item := range doc.Inbound {
		fmt.Fprintf(&b, "| %s | %s | %s | %d | %s | %s | %s |\n",
			mdCell(item.ID), mdCell(item.Date), mdCell(item.Transp), item.Qtd, mdCell(item.Placa),
			check(item.Status.Desc), check(item.Status.Rec))
	}

	b.WriteString("\n## Semana\n\n| Dia | Valor |\n|---|---|\n")
	for _, stat := range doc.Weekly {
		fmt.Fprintf(&b, "| %s | %s |\n", mdCell(stat.Label), mdCell(stat.Value))
	}

	b.WriteString("\n## Estoque\n\n")
	fmt.Fprintf(&b, "- **Total:** %d\n", doc.Info.TotalStock)
	fmt.Fprintf(&b, "- **Recebimento:** %s\n", doc.Info.RecebimentoNote)
	fmt.Fprintf(&b, "- **Expedição:** %s\n", doc.Info.ExpedicaoNote)

	b.WriteString("\n## Alertas\n\n")
	for _, alert := range doc.Imports {
		fmt.Fprintf(&b, "- %s\n", alert.Text)
	}

	b.WriteString("\n## Shipments\n\n| Shipment | Atual | Total | % |\n|---|---:|---:|---:|\n")
	for _, bar := range doc.ProgressBars {
		fmt.Fprintf(&b, "| %s | %d | %d | %d%% |\n", mdCell(bar.Label), bar.Current, bar.Total, bar.Percentage())
	}

	return b.String()
}

type outboundRow struct {
	ID        string `csv:"id"`
	Date      string `csv:"date"`
	Praca     string `csv:"praca"`
	Qtd       int    `csv:"qtd"`
	Horario   string `csv:"horario"`
	Separando bool   `csv:"separando"`
	Separado  bool   `csv:"separado"`
	Romaneio  bool   `csv:"romaneio"`
	Carregado bool   `csv:"carregado"`
}

type inboundRow struct {
	ID     string `csv:"id"`
	Date   string `csv:"date"`
	Transp string `csv:"transp"`
	Qtd    int    `csv:"qtd"`
	Placa  string `csv:"placa"`
	Desc   bool   `csv:"desc"`
	Rec    bool   `csv:"rec"`
}

type progressRow struct {
	ID         string `csv:"id"`
	Label      string `csv:"label"`
	Current    int    `csv:"current"`
	Total      int    `csv:"total"`
	Color      string `csv:"color"`
	Percentage int    `csv:"percentage"`
}

// writeCSV writes one collection as CSV with a header row.
func writeCSV(w io.Writer, doc board.Document, coll board.Collection) error {
	var rows any

	switch coll {
	case board.CollectionOutbound:
		out := make([]outboundRow, 0, len(doc.Outbound))
		for _, item := range doc.Outbound {
			s := item.Status
			out = append(out, outboundRow{
				ID: item.ID, Date: item.Date, Praca: item.Praca, Qtd: item.Qtd, Horario: item.Horario,
				Separando: s.Separando, Separado: s.Separado, Romaneio: s.Romaneio, Carregado: s.Carregado,
			})
		}
		rows = out
	case board.CollectionInbound:
		out := make([]inboundRow, 0, len(doc.Inbound))
		for _, item := range doc.Inbound {
			out = append(out, inboundRow{
				ID: item.ID, Date: item.Date, Transp: item.Transp, Qtd: item.Qtd, Placa: item.Placa,
				Desc: item.Status.Desc, Rec: item.Status.Rec,
			})
		}
		rows = out
	case board.CollectionWeekly:
		rows = doc.Weekly
	case board.CollectionImports:
		rows = doc.Imports
	case board.CollectionProgressBars:
		out := make([]progressRow, 0, len(doc.ProgressBars))
		for _, bar := range doc.ProgressBars {
			out = append(out, progressRow{
				ID: bar.ID, Label: bar.Label, Current: bar.Current, Total: bar.Total,
				Color: string(bar.Color), Percentage: bar.Percentage(),
			})
		}
		rows = out
	default:
		return fmt.Errorf("%w: %q", board.ErrUnknownCollection, coll)
	}

	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}
