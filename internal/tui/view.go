package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/hay-kot/painel/internal/boardsync"
	"github.com/hay-kot/painel/internal/core/board"
	"github.com/hay-kot/painel/internal/core/styles"
)

const (
	defaultWidth  = 120
	narrowWidth   = 100
	maxCellWidth  = 22
	minCellWidth  = 3
	infoLabelSize = 16
	barWidth      = 12
)

var flagLabels = map[string]string{
	"separando": "sep",
	"separado":  "spd",
	"romaneio":  "rom",
	"carregado": "car",
	"desc":      "desc",
	"rec":       "rec",
}

func (m Model) View() string {
	if !m.loaded {
		return styles.MutedStyle.Render("loading dashboard…")
	}

	width := m.width
	if width <= 0 {
		width = defaultWidth
	}

	view := lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(width),
		m.renderBody(width),
		m.renderFooter(),
	)

	if m.state == stateConfirming {
		height := m.height
		if height <= 0 {
			height = lipgloss.Height(view)
		}
		return m.modal.Overlay(view, width, height)
	}
	return view
}

func (m Model) renderHeader(width int) string {
	doc := m.snap.Document

	updated := doc.LastUpdated
	if updated == "" {
		updated = "--:--"
	}
	left := styles.TitleStyle.Render("PAINEL LOGÍSTICO") + "  " +
		styles.MutedStyle.Render("atualizado "+updated)
	right := m.statusView()

	gap := max(1, width-lipgloss.Width(left)-lipgloss.Width(right))
	title := left + strings.Repeat(" ", gap) + right

	totals := strings.Join([]string{
		stat("Saída", board.TotalOutbound(doc)),
		stat("Entrada", board.TotalInbound(doc)),
		stat("Estoque", doc.Info.TotalStock),
	}, "    ")

	return lipgloss.JoinVertical(lipgloss.Left, title, totals)
}

func stat(label string, n int) string {
	return styles.MutedStyle.Render(label+" ") + styles.BigNumberStyle.Render(strconv.Itoa(n))
}

// statusView renders the sync indicator. A failed save wins over offline so
// local persistence errors stay visible.
func (m Model) statusView() string {
	snap := m.snap
	switch {
	case snap.Status == boardsync.StatusError:
		return styles.StatusErrorStyle.Render("✗ sync error")
	case snap.Offline():
		return styles.StatusOfflineStyle.Render("○ offline")
	case snap.Status == boardsync.StatusSyncing:
		return m.spinner.View() + styles.StatusSyncingStyle.Render(" syncing")
	case snap.Status == boardsync.StatusSaved:
		return styles.StatusSavedStyle.Render("✓ saved")
	case !snap.LastPush.IsZero():
		return styles.StatusIdleStyle.Render("● saved " + snap.LastPush.Format("15:04"))
	default:
		return styles.StatusIdleStyle.Render("● idle")
	}
}

func (m Model) renderBody(width int) string {
	if width < narrowWidth {
		out := make([]string, len(panes))
		for i := range panes {
			out[i] = m.renderPane(i, width)
		}
		return lipgloss.JoinVertical(lipgloss.Left, out...)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderRow([]int{0, 1}, width),
		m.renderRow([]int{2, 3, 4, 5}, width),
	)
}

func (m Model) renderRow(idx []int, width int) string {
	each := width / len(idx)
	out := make([]string, len(idx))
	for n, i := range idx {
		w := each
		if n == len(idx)-1 {
			w = width - each*(len(idx)-1)
		}
		out[n] = m.renderPane(i, w)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, out...)
}

func (m Model) renderPane(i, width int) string {
	p := panes[i]
	style := styles.PanelStyle
	if i == m.focus {
		style = styles.PanelFocused
	}
	inner := max(10, width-style.GetHorizontalFrameSize())

	rows := p.rows(m.snap.Document)
	title := styles.PanelTitle.Render(p.title)
	if !p.info {
		title += styles.MutedStyle.Render(fmt.Sprintf(" (%d)", len(rows)))
	}

	lines := append([]string{title}, m.renderTable(i, rows, inner)...)
	return style.Width(width - style.GetHorizontalBorderSize()).Render(strings.Join(lines, "\n"))
}

func (m Model) renderTable(i int, rows []row, inner int) []string {
	p := panes[i]
	if len(rows) == 0 {
		return []string{styles.MutedStyle.Render("empty, press a to add")}
	}

	cols := p.columns()
	avail := inner
	if p.info {
		avail -= infoLabelSize + 1
	}
	if p.coll == board.CollectionProgressBars {
		avail -= barWidth + 6
	}
	widths := columnWidths(p, cols, rows, avail)
	focused := i == m.focus
	cur := m.cursors[i]

	var lines []string
	if !p.info {
		header := make([]string, len(cols))
		for c, col := range cols {
			header[c] = styles.HeaderStyle.Width(widths[c]).Render(truncate(columnLabel(p, col), widths[c]))
		}
		lines = append(lines, strings.Join(header, " "))
	}

	for r, rw := range rows {
		cells := make([]string, 0, len(cols)+1)
		if p.info {
			cells = append(cells, styles.MutedStyle.Width(infoLabelSize).Render(truncate(rw.id, infoLabelSize)))
		}

		for c, col := range cols {
			w := widths[c]
			selected := focused && r == cur.row && c == cur.col

			if m.state == stateEditing && m.editing == (target{pane: i, id: rw.id, col: col}) {
				in := m.input
				in.Width = max(1, w-1)
				cells = append(cells, lipgloss.NewStyle().Width(w).Render(in.View()))
				continue
			}

			style := styles.CellStyle
			if selected {
				style = styles.SelectedStyle
			}

			if p.isFlag(col) {
				glyph := styles.FlagOffStyle.Render("○")
				if rw.flags[col] {
					glyph = styles.FlagOnStyle.Render("●")
				}
				cells = append(cells, style.Width(w).Render(glyph))
				continue
			}

			cells = append(cells, style.Width(w).Render(truncate(rw.values[col], w)))
		}

		if p.coll == board.CollectionProgressBars {
			bar := progress.New(
				progress.WithSolidFill(string(styles.BarColor(rw.bar))),
				progress.WithoutPercentage(),
				progress.WithWidth(barWidth),
			)
			cells = append(cells, bar.ViewAs(float64(rw.percent)/100)+fmt.Sprintf(" %3d%%", rw.percent))
		}

		lines = append(lines, strings.Join(cells, " "))
	}
	return lines
}

func columnLabel(p pane, col string) string {
	if p.isFlag(col) {
		if l, ok := flagLabels[col]; ok {
			return l
		}
	}
	return col
}

// columnWidths sizes each column to its widest cell, capped, then shrinks the
// widest text columns until the row fits avail.
func columnWidths(p pane, cols []string, rows []row, avail int) []int {
	widths := make([]int, len(cols))
	for c, col := range cols {
		w := lipgloss.Width(columnLabel(p, col))
		if !p.isFlag(col) {
			for _, r := range rows {
				w = max(w, lipgloss.Width(r.values[col]))
			}
		}
		widths[c] = min(max(w, minCellWidth), maxCellWidth)
	}

	total := func() int {
		sum := len(widths) - 1
		for _, w := range widths {
			sum += w
		}
		return sum
	}

	for total() > avail {
		widest := -1
		for c, col := range cols {
			if p.isFlag(col) || widths[c] <= minCellWidth {
				continue
			}
			if widest < 0 || widths[c] > widths[widest] {
				widest = c
			}
		}
		if widest < 0 {
			break
		}
		widths[widest]--
	}
	return widths
}

// truncate cuts s to w cells, marking the cut with an ellipsis.
func truncate(s string, w int) string {
	if lipgloss.Width(s) <= w {
		return s
	}
	if w <= 1 {
		return "…"
	}

	var b strings.Builder
	used := 0
	for _, r := range s {
		rw := lipgloss.Width(string(r))
		if used+rw > w-1 {
			break
		}
		b.WriteRune(r)
		used += rw
	}
	return b.String() + "…"
}

func (m Model) renderFooter() string {
	var lines []string

	if m.notice != "" {
		style := styles.SubtitleStyle
		if m.noticeErr {
			style = styles.ErrorStyle
		}
		lines = append(lines, style.Render(m.notice))
	}

	endpoint := m.snap.Endpoint
	if endpoint == "" {
		endpoint = "offline"
	}

	switch m.state {
	case stateEndpoint:
		lines = append(lines,
			styles.SubtitleStyle.Render("endpoint: ")+m.input.View(),
			styles.HelpStyle.Render("enter save  esc cancel  empty goes offline"),
		)
	case stateEditing:
		lines = append(lines,
			styles.MutedStyle.Render("remote: "+endpoint),
			styles.HelpStyle.Render("enter save  esc cancel"),
		)
	default:
		lines = append(lines,
			styles.MutedStyle.Render("remote: "+endpoint),
			m.help.View(m.keys),
		)
	}

	return strings.Join(lines, "\n")
}
