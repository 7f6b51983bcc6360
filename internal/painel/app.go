// Package painel wires the dashboard together: storage, the sync engine and
// the editing surface shared by the CLI and the TUI.
package painel

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/hay-kot/painel/internal/boardsync"
	"github.com/hay-kot/painel/internal/core/board"
	"github.com/hay-kot/painel/internal/core/config"
	"github.com/hay-kot/painel/internal/core/kv"
	"github.com/hay-kot/painel/internal/data/db"
	"github.com/hay-kot/painel/internal/data/stores"
	"github.com/hay-kot/painel/internal/localwatch"
	"github.com/hay-kot/painel/internal/remote"
	"github.com/hay-kot/painel/pkg/logutils"
)

// App is the central entry point for all painel operations.
// Commands and TUI consume App instead of cherry-picking raw dependencies.
type App struct {
	Board  *Editor
	Engine *boardsync.Engine
	Store  *stores.BoardStore
	Remote *remote.Client
	KV     kv.KV
	Config *config.Config
	DB     *db.DB

	log zerolog.Logger
}

// NewApp builds the stores and the sync engine on top of an open database.
// The engine starts from the persisted document and endpoint, falling back
// to the default document and the configured endpoint.
func NewApp(ctx context.Context, cfg *config.Config, database *db.DB, logger zerolog.Logger) *App {
	kvStore := stores.NewKVStore(database)
	boardStore := stores.NewBoardStore(kvStore, logutils.Component(logger, "store"))
	client := remote.New(&http.Client{Timeout: cfg.Sync.RequestTimeout}, logutils.Component(logger, "remote"))

	doc, endpoint := LoadState(ctx, boardStore, cfg.Endpoint)

	opts := cfg.SyncOptions()
	opts.Logger = logutils.Component(logger, "sync")
	engine := boardsync.New(boardStore, client, doc, endpoint, opts)

	return &App{
		Board:  NewEditor(engine, nil),
		Engine: engine,
		Store:  boardStore,
		Remote: client,
		KV:     kvStore,
		Config: cfg,
		DB:     database,
		log:    logger,
	}
}

// StateLoader is the part of the local store read at startup.
type StateLoader interface {
	LoadDocument(ctx context.Context) (board.Document, bool)
	LoadEndpoint(ctx context.Context) (string, bool)
}

// LoadState returns the persisted document and endpoint. A missing or
// unreadable document yields the default; a missing endpoint yields
// fallbackEndpoint. A saved empty endpoint is kept: it means offline.
func LoadState(ctx context.Context, store StateLoader, fallbackEndpoint string) (board.Document, string) {
	doc, ok := store.LoadDocument(ctx)
	if !ok {
		doc = board.Default()
	}

	endpoint, ok := store.LoadEndpoint(ctx)
	if !ok {
		endpoint = fallbackEndpoint
	}

	return doc, endpoint
}

// WatchLocal reloads the engine whenever another process writes to the
// database in the data directory. The caller closes the returned watcher.
func (a *App) WatchLocal() (*localwatch.Watcher, error) {
	return localwatch.New(
		a.Config.DataDir,
		db.FileName+"*",
		localwatch.DefaultDebounce,
		func(ctx context.Context) {
			if a.Engine.ReloadLocal(ctx) {
				a.log.Debug().Msg("reloaded document written by another process")
			}
		},
		logutils.Component(a.log, "localwatch"),
	)
}

// Reset deletes the persisted document. The next start falls back to the
// default document until a poll adopts the remote one.
func (a *App) Reset(ctx context.Context) error {
	return a.Store.ClearDocument(ctx)
}

// Close stops the engine. Pending pushes are dropped; call
// Engine.Flush first to deliver them.
func (a *App) Close() {
	a.Engine.Close()
}
