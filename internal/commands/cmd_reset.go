package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/painel/internal/painel"
)

type ResetCmd struct {
	flags *Flags
	app   *painel.App

	yes bool
}

// NewResetCmd creates a new reset command
func NewResetCmd(flags *Flags, app *painel.App) *ResetCmd {
	return &ResetCmd{flags: flags, app: app}
}

// Register adds the reset command to the application
func (cmd *ResetCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "reset",
		Usage:     "Delete the locally stored document",
		UsageText: "painel reset [--yes]",
		Description: `Last-resort recovery when the local document keeps the dashboard from
working. The next start uses the default document until a poll adopts the
remote one. The endpoint setting is kept.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "yes",
				Aliases:     []string{"y"},
				Usage:       "skip the confirmation prompt",
				Destination: &cmd.yes,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ResetCmd) run(ctx context.Context, c *cli.Command) error {
	if !cmd.yes {
		ok, err := confirm("Apagar os dados locais do painel?")
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("not reset; confirm the prompt or pass --yes")
		}
	}

	if err := cmd.app.Reset(ctx); err != nil {
		return fmt.Errorf("reset: %w", err)
	}

	_, _ = fmt.Fprintln(c.Root().ErrWriter, "local document cleared")
	return nil
}
