package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hay-kot/criterio"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/painel/internal/boardsync"
	"github.com/hay-kot/painel/internal/core/board"
	"github.com/hay-kot/painel/internal/core/config"
	"github.com/hay-kot/painel/internal/data/db"
	"github.com/hay-kot/painel/internal/painel"
)

type harness struct {
	app    *painel.App
	stdout bytes.Buffer
	stderr bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()
	cfg.Endpoint = ""

	database, err := db.Open(cfg.DataDir, cfg.OpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	app := painel.NewApp(context.Background(), &cfg, database, zerolog.Nop())
	t.Cleanup(app.Close)
	return &harness{app: app}
}

func (h *harness) run(t *testing.T, args ...string) error {
	t.Helper()
	h.stdout.Reset()
	h.stderr.Reset()

	flags := &Flags{}
	root := &cli.Command{
		Name:      "painel",
		Writer:    &h.stdout,
		ErrWriter: &h.stderr,
	}
	root = NewShowCmd(flags, h.app).Register(root)
	root = NewBoardCmd(flags, h.app).Register(root)
	root = NewEndpointCmd(flags, h.app).Register(root)
	root = NewSyncCmd(flags, h.app).Register(root)
	root = NewTransferCmd(flags, h.app).Register(root)
	root = NewResetCmd(flags, h.app).Register(root)
	root = NewConfigValidateCmd(flags, h.app).Register(root)
	root = NewDoctorCmd(flags, h.app).Register(root)

	return root.Run(context.Background(), append([]string{"painel"}, args...))
}

func TestCommands_SetAndShowJSON(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run(t, "outbound", "set", "1", "qtd", "5"))
	assert.Contains(t, h.stderr.String(), "saved locally (offline)")

	require.NoError(t, h.run(t, "show", "--json"))

	var doc board.Document
	require.NoError(t, json.Unmarshal(h.stdout.Bytes(), &doc))
	assert.Equal(t, 5, doc.Outbound[0].Qtd)
	assert.NotEmpty(t, doc.LastUpdated)
}

func TestCommands_AddPrintsID(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run(t, "alerts", "add"))
	id := strings.TrimSpace(h.stdout.String())
	require.NotEmpty(t, id)

	assert.True(t, board.Has(h.app.Engine.Document(), board.CollectionImports, id))
}

func TestCommands_Toggle(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run(t, "inbound", "toggle", "1", "rec"))
	assert.Equal(t, "rec=true\n", h.stdout.String())
	assert.True(t, h.app.Engine.Document().Inbound[0].Status.Rec)
}

func TestCommands_RemoveRequiresConfirmation(t *testing.T) {
	h := newHarness(t)

	err := h.run(t, "progress", "rm", "1")
	require.Error(t, err)
	assert.True(t, board.Has(h.app.Engine.Document(), board.CollectionProgressBars, "1"))

	require.NoError(t, h.run(t, "progress", "rm", "--yes", "1"))
	assert.False(t, board.Has(h.app.Engine.Document(), board.CollectionProgressBars, "1"))
}

func TestCommands_Errors(t *testing.T) {
	h := newHarness(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown field", []string{"weekly", "set", "1", "color", "red"}, `"label", "value"`},
		{"unknown id", []string{"outbound", "set", "99", "qtd", "1"}, "not found"},
		{"negative quantity", []string{"inbound", "set", "1", "qtd", "-2"}, "invalid value"},
		{"wrong arity", []string{"outbound", "set", "1"}, "expected"},
		{"info field", []string{"info", "set", "owner", "x"}, "totalStock"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := h.run(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestCommands_InfoSet(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run(t, "info", "set", "totalStock", "6000"))
	assert.Equal(t, 6000, h.app.Engine.Document().Info.TotalStock)
}

func TestCommands_ImportExport(t *testing.T) {
	h := newHarness(t)

	path := filepath.Join(t.TempDir(), "doc.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"outbound":[{"id":"a","praca":"R10","qtd":3}],"inbound":"broken"}`), 0o644))

	require.NoError(t, h.run(t, "import", "-f", path))
	doc := h.app.Engine.Document()
	require.Len(t, doc.Outbound, 1)
	assert.Equal(t, board.Default().Inbound, doc.Inbound)

	require.NoError(t, h.run(t, "export", "--format", "csv", "--collection", "out"))
	assert.Equal(t, "id,date,praca,qtd,horario,separando,separado,romaneio,carregado\na,,R10,3,,false,false,false,false\n", h.stdout.String())

	require.Error(t, h.run(t, "export", "--format", "xml"))
}

func TestCommands_Endpoint(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run(t, "endpoint", "get"))
	assert.Contains(t, h.stderr.String(), "offline")

	require.NoError(t, h.run(t, "endpoint", "set", "http://127.0.0.1:9/exec"))
	assert.Equal(t, "http://127.0.0.1:9/exec", h.app.Engine.Snapshot().Endpoint)

	require.Error(t, h.run(t, "endpoint", "set", "ftp://nope"))

	require.NoError(t, h.run(t, "endpoint", "set", "--offline"))
	assert.True(t, h.app.Engine.Snapshot().Offline())
}

func TestCommands_SyncOffline(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run(t, "sync"))
	assert.Equal(t, "skipped\n", h.stdout.String())
	assert.Contains(t, h.stderr.String(), "no endpoint configured")
}

func TestCommands_Reset(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	require.NoError(t, h.run(t, "info", "set", "expedicaoNote", "x"))
	require.NoError(t, h.run(t, "reset", "--yes"))

	_, ok := h.app.Store.LoadDocument(ctx)
	assert.False(t, ok)
}

func TestPrintChanges(t *testing.T) {
	updates := make(chan boardsync.Snapshot, 4)
	doc := board.Default()
	doc.LastUpdated = "10:00"

	updates <- boardsync.Snapshot{Document: doc, Status: boardsync.StatusIdle}
	updates <- boardsync.Snapshot{Document: doc, Status: boardsync.StatusIdle}
	updates <- boardsync.Snapshot{Document: doc, Status: boardsync.StatusSyncing}
	doc.LastUpdated = "10:01"
	updates <- boardsync.Snapshot{Document: doc, Status: boardsync.StatusSyncing}
	close(updates)

	var buf bytes.Buffer
	printChanges(&buf, updates)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "status: idle  updated: 10:00")
	assert.Contains(t, lines[2], "status: syncing  updated: 10:01")
}

func TestCommands_ConfigValidate(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run(t, "config", "validate"))
	assert.Contains(t, h.stdout.String(), "configuration is valid")

	require.NoError(t, h.run(t, "config", "validate", "--format", "json"))
	assert.JSONEq(t, `{"valid": true}`, h.stdout.String())
}

func TestCommands_Doctor(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run(t, "doctor"))
	out := h.stdout.String()
	assert.Contains(t, out, "Local Storage")
	assert.Contains(t, out, "offline mode, edits stay local")
	assert.Contains(t, out, "0 failed")

	require.NoError(t, h.run(t, "outbound", "set", "1", "qtd", "3"))
	require.NoError(t, h.run(t, "doctor", "--format", "json"))

	var report struct {
		Healthy bool `json:"healthy"`
		Summary struct {
			Warned int `json:"warned"`
			Failed int `json:"failed"`
		} `json:"summary"`
		Checks []struct {
			Name  string `json:"name"`
			Items []struct {
				Label  string `json:"label"`
				Status string `json:"status"`
			} `json:"items"`
		} `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(h.stdout.Bytes(), &report))
	assert.True(t, report.Healthy)
	assert.Equal(t, 1, report.Summary.Warned)
	require.Len(t, report.Checks, 3)
	assert.Equal(t, "pass", report.Checks[1].Items[1].Status)
}

func TestCollectIssues(t *testing.T) {
	issues, err := collectIssues(nil)
	require.NoError(t, err)
	assert.Empty(t, issues)

	var b criterio.FieldErrorsBuilder
	b = b.Append("endpoint", errors.New("missing host"))
	b = b.Append("serve.path", errors.New("must start with /"))

	issues, err = collectIssues(b.ToError())
	require.NoError(t, err)
	assert.Equal(t, []validationIssue{
		{Field: "endpoint", Message: "missing host"},
		{Field: "serve.path", Message: "must start with /"},
	}, issues)

	_, err = collectIssues(os.ErrPermission)
	assert.ErrorIs(t, err, os.ErrPermission)
}
