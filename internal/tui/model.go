// Package tui implements the interactive dashboard on top of the sync engine.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/hay-kot/painel/internal/boardsync"
	"github.com/hay-kot/painel/internal/core/board"
	"github.com/hay-kot/painel/internal/core/styles"
	"github.com/hay-kot/painel/internal/painel"
)

const noticeTTL = 4 * time.Second

// Engine is the part of the sync engine the dashboard drives.
type Engine interface {
	Subscribe(ctx context.Context) <-chan boardsync.Snapshot
	SetEndpoint(ctx context.Context, url string) error
	Poll(ctx context.Context) (boardsync.PollResult, error)
}

// Editor applies single edits to the document.
type Editor interface {
	Add(coll board.Collection) (string, error)
	Delete(coll board.Collection, id string) error
	Set(coll board.Collection, id, field string, value any) error
	Toggle(coll board.Collection, id, flag string) (bool, error)
	SetInfo(field string, value any) error
}

// Deps holds the collaborators of the dashboard.
type Deps struct {
	Engine Engine
	Editor Editor
	Logger zerolog.Logger
}

// UIState represents the current input mode of the TUI.
type UIState int

const (
	stateNormal UIState = iota
	stateEditing
	stateConfirming
	stateEndpoint
)

type cursor struct {
	row, col int
}

// target addresses one cell: a pane, a row id and a column.
type target struct {
	pane int
	id   string
	col  string
}

// Model is the bubbletea model of the dashboard.
type Model struct {
	ctx    context.Context
	cancel context.CancelFunc
	engine Engine
	editor Editor
	log    zerolog.Logger
	snaps  <-chan boardsync.Snapshot

	snap    boardsync.Snapshot
	loaded  bool
	state   UIState
	focus   int
	cursors []cursor
	// selection is a row to move the cursor to once it shows up in a snapshot.
	selection target

	input   textinput.Model
	editing target
	modal   Modal
	pending target

	notice    string
	noticeErr bool
	noticeSeq int

	keys    keyMap
	help    help.Model
	spinner spinner.Model

	width  int
	height int
}

type (
	snapshotMsg           boardsync.Snapshot
	subscriptionClosedMsg struct{}
	clearNoticeMsg        struct{ seq int }
)

type editDoneMsg struct {
	notice string
	// selectID is set by adds so the cursor follows the new row.
	selectID string
	pane     int
	err      error
}

type pollDoneMsg struct {
	result boardsync.PollResult
	err    error
}

type endpointSetMsg struct {
	endpoint string
	err      error
}

// New creates the dashboard model and subscribes it to the engine. The
// subscription ends when the program quits or ctx is cancelled.
func New(ctx context.Context, deps Deps) Model {
	ctx, cancel := context.WithCancel(ctx)

	return Model{
		ctx:     ctx,
		cancel:  cancel,
		engine:  deps.Engine,
		editor:  deps.Editor,
		log:     deps.Logger,
		snaps:   deps.Engine.Subscribe(ctx),
		cursors: make([]cursor, len(panes)),
		keys:    defaultKeyMap(),
		help:    help.New(),
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(styles.StatusSyncingStyle),
		),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForSnapshot(m.snaps), m.spinner.Tick)
}

// waitForSnapshot blocks on the next engine snapshot.
func waitForSnapshot(ch <-chan boardsync.Snapshot) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-ch
		if !ok {
			return subscriptionClosedMsg{}
		}
		return snapshotMsg(snap)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case snapshotMsg:
		return m.handleSnapshot(boardsync.Snapshot(msg))
	case subscriptionClosedMsg:
		return m.quit()

	case editDoneMsg:
		return m.handleEditDone(msg)
	case pollDoneMsg:
		return m.handlePollDone(msg)
	case endpointSetMsg:
		return m.handleEndpointSet(msg)
	case clearNoticeMsg:
		if msg.seq == m.noticeSeq {
			m.notice = ""
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.state == stateEditing || m.state == stateEndpoint {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.cancel()
	return m, tea.Quit
}

func (m Model) handleSnapshot(snap boardsync.Snapshot) (tea.Model, tea.Cmd) {
	m.snap = snap
	m.loaded = true
	m.clampCursors()
	m.applySelection()

	var cmd tea.Cmd
	switch {
	case m.state == stateEditing && !m.exists(m.editing):
		m.state = stateNormal
		m.input.Blur()
		cmd = m.setNotice("row was removed while editing", true)
	case m.state == stateConfirming && !m.exists(m.pending):
		m.state = stateNormal
		m.pending = target{}
	}

	return m, tea.Batch(waitForSnapshot(m.snaps), cmd)
}

func (m Model) exists(t target) bool {
	p := panes[t.pane]
	if p.info {
		return true
	}
	return board.Has(m.snap.Document, p.coll, t.id)
}

func (m *Model) clampCursors() {
	for i, p := range panes {
		n := len(p.rows(m.snap.Document))
		cur := &m.cursors[i]
		cur.row = max(0, min(cur.row, n-1))
		cur.col = max(0, min(cur.col, len(p.columns())-1))
	}
}

func (m *Model) applySelection() {
	if m.selection.id == "" {
		return
	}
	rows := panes[m.selection.pane].rows(m.snap.Document)
	if idx := indexOf(rows, m.selection.id); idx >= 0 {
		m.cursors[m.selection.pane].row = idx
		m.selection = target{}
	}
}

func (m *Model) setNotice(text string, isErr bool) tea.Cmd {
	m.noticeSeq++
	seq := m.noticeSeq
	m.notice = text
	m.noticeErr = isErr
	return tea.Tick(noticeTTL, func(time.Time) tea.Msg {
		return clearNoticeMsg{seq: seq}
	})
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.state {
	case stateEditing, stateEndpoint:
		return m.handleInputKey(msg)
	case stateConfirming:
		return m.handleConfirmKey(msg)
	}
	return m.handleNormalKey(msg)
}

func (m Model) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !m.loaded {
		if key.Matches(msg, m.keys.Quit) {
			return m.quit()
		}
		return m, nil
	}

	focus := m.focus
	p := panes[focus]
	rows := p.rows(m.snap.Document)
	cols := p.columns()
	cur := m.cursors[focus]

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.NextPane):
		m.focus = (m.focus + 1) % len(panes)
	case key.Matches(msg, m.keys.PrevPane):
		m.focus = (m.focus - 1 + len(panes)) % len(panes)
	case key.Matches(msg, m.keys.Up):
		cur.row = max(0, cur.row-1)
	case key.Matches(msg, m.keys.Down):
		cur.row = max(0, min(cur.row+1, len(rows)-1))
	case key.Matches(msg, m.keys.Left):
		cur.col = max(0, cur.col-1)
	case key.Matches(msg, m.keys.Right):
		cur.col = min(cur.col+1, len(cols)-1)
	case key.Matches(msg, m.keys.Toggle):
		if len(rows) == 0 || !p.isFlag(cols[cur.col]) {
			return m, nil
		}
		return m, m.toggle(p.coll, rows[cur.row].id, cols[cur.col])
	case key.Matches(msg, m.keys.Edit):
		if len(rows) == 0 {
			return m, nil
		}
		r, col := rows[cur.row], cols[cur.col]
		if p.isFlag(col) {
			return m, m.toggle(p.coll, r.id, col)
		}
		return m.openEditor(target{pane: focus, id: r.id, col: col}, r.values[col])
	case key.Matches(msg, m.keys.Add):
		if !p.canAdd() {
			return m, nil
		}
		return m, m.add(focus)
	case key.Matches(msg, m.keys.Delete):
		if !p.canAdd() || len(rows) == 0 {
			return m, nil
		}
		r := rows[cur.row]
		m.pending = target{pane: focus, id: r.id}
		m.modal = NewModal("Delete row", fmt.Sprintf("Remove %q from %s?", rowLabel(r, cols), p.title))
		m.state = stateConfirming
	case key.Matches(msg, m.keys.Endpoint):
		return m.openEndpointInput()
	case key.Matches(msg, m.keys.Refresh):
		return m, m.refresh()
	}

	m.cursors[focus] = cur
	return m, nil
}

func rowLabel(r row, cols []string) string {
	if len(cols) > 0 {
		if v := strings.TrimSpace(r.values[cols[0]]); v != "" {
			return v
		}
	}
	return r.id
}

func newInput(value string) textinput.Model {
	input := textinput.New()
	input.Prompt = ""
	input.CharLimit = 256
	input.Width = 24
	input.Cursor.Style = lipgloss.NewStyle().Foreground(styles.CurrentPalette.Primary)
	input.SetValue(value)
	input.CursorEnd()
	input.Focus()
	return input
}

func (m Model) openEditor(t target, value string) (tea.Model, tea.Cmd) {
	m.input = newInput(value)
	m.editing = t
	m.state = stateEditing
	return m, textinput.Blink
}

func (m Model) openEndpointInput() (tea.Model, tea.Cmd) {
	m.input = newInput(m.snap.Endpoint)
	m.input.Width = 60
	m.input.Placeholder = "empty for offline"
	m.state = stateEndpoint
	return m, textinput.Blink
}

// handleInputKey handles keys while the cell editor or endpoint prompt is
// open. Enter commits, esc discards.
func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m.quit()
	case "esc":
		m.state = stateNormal
		m.input.Blur()
		return m, nil
	case "enter":
		value := m.input.Value()
		if m.state == stateEndpoint {
			if err := painel.ValidateEndpoint(value); err != nil {
				return m, m.setNotice(err.Error(), true)
			}
			m.state = stateNormal
			m.input.Blur()
			return m, m.setEndpoint(strings.TrimSpace(value))
		}
		m.state = stateNormal
		m.input.Blur()
		return m, m.commitEdit(m.editing, value)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m.quit()
	case "y":
		m.state = stateNormal
		return m, m.delete(m.pending)
	case "enter":
		m.state = stateNormal
		if m.modal.ConfirmSelected() {
			return m, m.delete(m.pending)
		}
		m.pending = target{}
	case "n", "esc", "q":
		m.state = stateNormal
		m.pending = target{}
	case "left", "right", "h", "l", "tab":
		m.modal.ToggleSelection()
	}
	return m, nil
}

func (m Model) commitEdit(t target, value string) tea.Cmd {
	p := panes[t.pane]
	editor := m.editor
	return func() tea.Msg {
		if p.info {
			return editDoneMsg{err: editor.SetInfo(t.id, value)}
		}
		return editDoneMsg{err: editor.Set(p.coll, t.id, t.col, value)}
	}
}

func (m Model) toggle(coll board.Collection, id, flag string) tea.Cmd {
	editor := m.editor
	return func() tea.Msg {
		_, err := editor.Toggle(coll, id, flag)
		return editDoneMsg{err: err}
	}
}

func (m Model) add(paneIdx int) tea.Cmd {
	editor := m.editor
	coll := panes[paneIdx].coll
	return func() tea.Msg {
		id, err := editor.Add(coll)
		return editDoneMsg{notice: "row added", selectID: id, pane: paneIdx, err: err}
	}
}

func (m Model) delete(t target) tea.Cmd {
	editor := m.editor
	coll := panes[t.pane].coll
	return func() tea.Msg {
		return editDoneMsg{notice: "row deleted", err: editor.Delete(coll, t.id)}
	}
}

func (m Model) refresh() tea.Cmd {
	ctx, engine := m.ctx, m.engine
	return func() tea.Msg {
		res, err := engine.Poll(ctx)
		return pollDoneMsg{result: res, err: err}
	}
}

func (m Model) setEndpoint(url string) tea.Cmd {
	ctx, engine := m.ctx, m.engine
	return func() tea.Msg {
		return endpointSetMsg{endpoint: url, err: engine.SetEndpoint(ctx, url)}
	}
}

func (m Model) handleEditDone(msg editDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.log.Warn().Err(msg.err).Msg("edit rejected")
		return m, m.setNotice(describeError(msg.err), true)
	}

	if msg.selectID != "" {
		m.selection = target{pane: msg.pane, id: msg.selectID}
		m.applySelection()
	}
	if msg.notice == "" {
		return m, nil
	}
	return m, m.setNotice(msg.notice, false)
}

func describeError(err error) string {
	switch {
	case errors.Is(err, painel.ErrNotFound):
		return "row no longer exists"
	case errors.Is(err, board.ErrInvalidValue):
		return err.Error()
	default:
		return "edit failed: " + err.Error()
	}
}

func (m Model) handlePollDone(msg pollDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.log.Warn().Err(msg.err).Msg("manual refresh failed")
		return m, m.setNotice("refresh failed: "+msg.err.Error(), true)
	}

	switch msg.result {
	case boardsync.PollAdopted:
		return m, m.setNotice("loaded remote changes", false)
	case boardsync.PollSkipped:
		if m.snap.Offline() {
			return m, m.setNotice("offline: nothing to refresh", false)
		}
		return m, m.setNotice("save in progress, try again shortly", false)
	default:
		return m, m.setNotice("up to date", false)
	}
}

func (m Model) handleEndpointSet(msg endpointSetMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.err != nil:
		m.log.Error().Err(msg.err).Msg("failed to save endpoint")
		return m, m.setNotice("endpoint not saved: "+msg.err.Error(), true)
	case msg.endpoint == "":
		return m, m.setNotice("offline mode: edits stay local", false)
	default:
		return m, m.setNotice("endpoint updated", false)
	}
}
