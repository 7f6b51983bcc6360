package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/painel/internal/core/board"
	"github.com/hay-kot/painel/internal/painel"
)

type BoardCmd struct {
	flags *Flags
	app   *painel.App

	// flags
	yes bool
}

// NewBoardCmd creates the per-collection edit commands.
func NewBoardCmd(flags *Flags, app *painel.App) *BoardCmd {
	return &BoardCmd{flags: flags, app: app}
}

type collectionSpec struct {
	name  string
	coll  board.Collection
	usage string
}

var collectionSpecs = []collectionSpec{
	{"outbound", board.CollectionOutbound, "Edit outbound shipments (expedição)"},
	{"inbound", board.CollectionInbound, "Edit inbound deliveries (recebimento)"},
	{"weekly", board.CollectionWeekly, "Edit weekly throughput cells"},
	{"alerts", board.CollectionImports, "Edit free-text alerts"},
	{"progress", board.CollectionProgressBars, "Edit shipment progress bars"},
}

// Register adds one command per collection plus the info command.
func (cmd *BoardCmd) Register(app *cli.Command) *cli.Command {
	for _, spec := range collectionSpecs {
		app.Commands = append(app.Commands, cmd.collectionCmd(spec))
	}
	app.Commands = append(app.Commands, cmd.infoCmd())
	return app
}

func (cmd *BoardCmd) collectionCmd(spec collectionSpec) *cli.Command {
	fields := strings.Join(board.Fields(spec.coll), ", ")

	sub := []*cli.Command{
		{
			Name:      "add",
			Usage:     "Append a placeholder row and print its id",
			UsageText: fmt.Sprintf("painel %s add", spec.name),
			Action: func(ctx context.Context, c *cli.Command) error {
				id, err := cmd.app.Board.Add(spec.coll)
				if err != nil {
					return fmt.Errorf("add %s: %w", spec.name, err)
				}
				_, _ = fmt.Fprintln(c.Root().Writer, id)
				return deliver(ctx, cmd.app, c.Root().ErrWriter)
			},
		},
		{
			Name:        "set",
			Usage:       "Change one field of a row",
			UsageText:   fmt.Sprintf("painel %s set <id> <field> <value>", spec.name),
			Description: "Editable fields: " + fields,
			Action: func(ctx context.Context, c *cli.Command) error {
				if c.Args().Len() != 3 {
					return fmt.Errorf("expected <id> <field> <value>")
				}
				id, field, value := c.Args().Get(0), c.Args().Get(1), c.Args().Get(2)
				if err := cmd.app.Board.Set(spec.coll, id, field, value); err != nil {
					return explain(err, board.Fields(spec.coll))
				}
				return deliver(ctx, cmd.app, c.Root().ErrWriter)
			},
		},
		{
			Name:      "rm",
			Usage:     "Delete a row",
			UsageText: fmt.Sprintf("painel %s rm [--yes] <id>", spec.name),
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:        "yes",
					Aliases:     []string{"y"},
					Usage:       "skip the confirmation prompt",
					Destination: &cmd.yes,
				},
			},
			Action: func(ctx context.Context, c *cli.Command) error {
				if c.Args().Len() != 1 {
					return fmt.Errorf("expected <id>")
				}
				id := c.Args().First()

				if !cmd.yes {
					ok, err := confirm(fmt.Sprintf("Excluir %s %s?", spec.name, id))
					if err != nil {
						return err
					}
					if !ok {
						return fmt.Errorf("not deleted; confirm the prompt or pass --yes")
					}
				}

				if err := cmd.app.Board.Delete(spec.coll, id); err != nil {
					return err
				}
				return deliver(ctx, cmd.app, c.Root().ErrWriter)
			},
		},
	}

	if flags := board.StatusFlags(spec.coll); len(flags) > 0 {
		sub = append(sub, &cli.Command{
			Name:        "toggle",
			Usage:       "Flip one status flag of a row",
			UsageText:   fmt.Sprintf("painel %s toggle <id> <flag>", spec.name),
			Description: "Flags: " + strings.Join(flags, ", "),
			Action: func(ctx context.Context, c *cli.Command) error {
				if c.Args().Len() != 2 {
					return fmt.Errorf("expected <id> <flag>")
				}
				next, err := cmd.app.Board.Toggle(spec.coll, c.Args().Get(0), c.Args().Get(1))
				if err != nil {
					return explain(err, flags)
				}
				_, _ = fmt.Fprintf(c.Root().Writer, "%s=%t\n", c.Args().Get(1), next)
				return deliver(ctx, cmd.app, c.Root().ErrWriter)
			},
		})
	}

	return &cli.Command{
		Name:     spec.name,
		Usage:    spec.usage,
		Commands: sub,
	}
}

func (cmd *BoardCmd) infoCmd() *cli.Command {
	return &cli.Command{
		Name:  "info",
		Usage: "Edit stock total and notes",
		Commands: []*cli.Command{
			{
				Name:        "set",
				Usage:       "Change one info field",
				UsageText:   "painel info set <field> <value>",
				Description: "Fields: " + strings.Join(board.InfoFields(), ", "),
				Action: func(ctx context.Context, c *cli.Command) error {
					if c.Args().Len() != 2 {
						return fmt.Errorf("expected <field> <value>")
					}
					if err := cmd.app.Board.SetInfo(c.Args().Get(0), c.Args().Get(1)); err != nil {
						return explain(err, board.InfoFields())
					}
					return deliver(ctx, cmd.app, c.Root().ErrWriter)
				},
			},
		},
	}
}

// explain adds the valid names to field errors.
func explain(err error, names []string) error {
	if !errors.Is(err, board.ErrUnknownField) {
		return err
	}
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = strconv.Quote(n)
	}
	return fmt.Errorf("%w (valid: %s)", err, strings.Join(quoted, ", "))
}

