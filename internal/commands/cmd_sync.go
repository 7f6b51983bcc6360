package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/painel/internal/boardsync"
	"github.com/hay-kot/painel/internal/painel"
)

type SyncCmd struct {
	flags *Flags
	app   *painel.App
}

// NewSyncCmd creates the sync and watch commands
func NewSyncCmd(flags *Flags, app *painel.App) *SyncCmd {
	return &SyncCmd{flags: flags, app: app}
}

// Register adds the sync and watch commands to the application
func (cmd *SyncCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands,
		&cli.Command{
			Name:      "sync",
			Usage:     "Poll the remote once",
			UsageText: "painel sync",
			Description: `Fetches the remote document and adopts it when it differs from the local
one. Prints what the poll did: adopted, unchanged, no-marker, skipped or failed.`,
			Action: cmd.runSync,
		},
		&cli.Command{
			Name:      "watch",
			Usage:     "Keep the local document in sync until interrupted",
			UsageText: "painel watch",
			Description: `Runs the poll loop headless, printing a line whenever the status or the
document changes. Writes by other painel processes on this machine are
picked up as well.`,
			Action: cmd.runWatch,
		},
	)

	return app
}

func (cmd *SyncCmd) runSync(ctx context.Context, c *cli.Command) error {
	result, err := cmd.app.Engine.Poll(ctx)
	if err != nil {
		return fmt.Errorf("poll: %w", err)
	}

	_, _ = fmt.Fprintln(c.Root().Writer, result)
	if result == boardsync.PollSkipped && cmd.app.Engine.Snapshot().Offline() {
		_, _ = fmt.Fprintln(c.Root().ErrWriter, "no endpoint configured; see 'painel endpoint set'")
	}
	return nil
}

func (cmd *SyncCmd) runWatch(ctx context.Context, c *cli.Command) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	watcher, err := cmd.app.WatchLocal()
	if err != nil {
		log.Warn().Err(err).Msg("local change watcher unavailable")
	} else {
		defer func() { _ = watcher.Close() }()
	}

	updates := cmd.app.Engine.Subscribe(ctx)
	go cmd.app.Engine.Run(ctx)

	printChanges(c.Root().Writer, updates)

	flushCtx, cancel := context.WithTimeout(context.Background(), cmd.app.Config.Sync.RequestTimeout)
	defer cancel()
	return cmd.app.Engine.Flush(flushCtx)
}

// printChanges writes one line per snapshot whose status or document stamp
// differs from the previous one, until updates is closed.
func printChanges(w io.Writer, updates <-chan boardsync.Snapshot) {
	var (
		first       = true
		lastStatus  boardsync.Status
		lastUpdated string
	)

	for snap := range updates {
		if !first && snap.Status == lastStatus && snap.Document.LastUpdated == lastUpdated {
			continue
		}
		first = false
		lastStatus = snap.Status
		lastUpdated = snap.Document.LastUpdated
		_, _ = fmt.Fprintln(w, statusLine(snap))
	}
}
