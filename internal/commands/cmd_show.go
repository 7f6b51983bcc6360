package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/hay-kot/painel/internal/core/styles"
	"github.com/hay-kot/painel/internal/painel"
	"github.com/hay-kot/painel/pkg/iojson"
)

type ShowCmd struct {
	flags *Flags
	app   *painel.App

	// flags
	jsonOutput bool
	mdOutput   bool
	refresh    bool
}

// NewShowCmd creates a new show command
func NewShowCmd(flags *Flags, app *painel.App) *ShowCmd {
	return &ShowCmd{flags: flags, app: app}
}

// Register adds the show command to the application
func (cmd *ShowCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "show",
		Usage:     "Print the dashboard",
		UsageText: "painel show [--json | --markdown] [--refresh]",
		Description: `Prints the locally stored document as tables.

Use --refresh to poll the remote once first, --json for the raw document
and --markdown for a rendered report.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output the document as JSON",
				Destination: &cmd.jsonOutput,
			},
			&cli.BoolFlag{
				Name:        "markdown",
				Aliases:     []string{"md"},
				Usage:       "output a markdown report",
				Destination: &cmd.mdOutput,
			},
			&cli.BoolFlag{
				Name:        "refresh",
				Aliases:     []string{"r"},
				Usage:       "poll the remote before printing",
				Destination: &cmd.refresh,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ShowCmd) run(ctx context.Context, c *cli.Command) error {
	if cmd.jsonOutput && cmd.mdOutput {
		return fmt.Errorf("--json and --markdown are mutually exclusive")
	}

	if cmd.refresh {
		if _, err := cmd.app.Engine.Poll(ctx); err != nil {
			_, _ = fmt.Fprintf(c.Root().ErrWriter, "remote unavailable: %v\n", err)
		}
	}

	snap := cmd.app.Engine.Snapshot()
	out := c.Root().Writer

	switch {
	case cmd.jsonOutput:
		return iojson.WriteWith(out, c.Root().ErrWriter, snap.Document)
	case cmd.mdOutput:
		md := markdown(snap.Document)
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			_, err := fmt.Fprint(out, md)
			return err
		}

		width, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || width <= 0 {
			width = 100
		}
		r, err := glamour.NewTermRenderer(
			glamour.WithStyles(styles.GlamourStyle()),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return fmt.Errorf("markdown renderer: %w", err)
		}
		rendered, err := r.Render(md)
		if err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		_, err = fmt.Fprint(out, rendered)
		return err
	default:
		return writeTables(out, snap)
	}
}
