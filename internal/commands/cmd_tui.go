package commands

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/painel/internal/painel"
	"github.com/hay-kot/painel/internal/tui"
	"github.com/hay-kot/painel/pkg/logutils"
)

type TuiCmd struct {
	flags *Flags
	app   *painel.App
}

// NewTuiCmd creates a new tui command
func NewTuiCmd(flags *Flags, app *painel.App) *TuiCmd {
	return &TuiCmd{
		flags: flags,
		app:   app,
	}
}

// Register adds the tui command to the application
func (cmd *TuiCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "tui",
		Usage:     "Open the interactive dashboard",
		UsageText: "painel tui",
		Description: `Opens the full-screen dashboard. Edits are saved locally at once and pushed
to the remote after a short quiet period; the remote is polled in the
background. This is also what runs when painel is called without a command.`,
		Action: cmd.Run,
	})
	return app
}

// Run executes the TUI. Exported for use as default command.
func (cmd *TuiCmd) Run(ctx context.Context, c *cli.Command) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	watcher, err := cmd.app.WatchLocal()
	if err != nil {
		log.Warn().Err(err).Msg("local change watcher unavailable")
	} else {
		defer func() { _ = watcher.Close() }()
	}

	go cmd.app.Engine.Run(ctx)

	m := tui.New(ctx, tui.Deps{
		Engine: cmd.app.Engine,
		Editor: cmd.app.Board,
		Logger: logutils.Component(log.Logger, "tui"),
	})

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w (if the saved document is damaged, 'painel reset' restores the default)", err)
	}

	cancel()
	return deliver(context.Background(), cmd.app, c.Root().ErrWriter)
}
