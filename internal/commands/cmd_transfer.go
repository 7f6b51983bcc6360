package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/painel/internal/core/board"
	"github.com/hay-kot/painel/internal/painel"
	"github.com/hay-kot/painel/pkg/iojson"
)

type TransferCmd struct {
	flags *Flags
	app   *painel.App

	reader iojson.FileReader

	// export flags
	format     string
	collection string
}

// NewTransferCmd creates the import and export commands
func NewTransferCmd(flags *Flags, app *painel.App) *TransferCmd {
	return &TransferCmd{flags: flags, app: app}
}

// Register adds the import and export commands to the application
func (cmd *TransferCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands,
		&cli.Command{
			Name:      "import",
			Usage:     "Replace the document with a JSON file",
			UsageText: "painel import [-f file.json] < file.json",
			Description: `Reads a document from a file or stdin. Missing or malformed collections
fall back to the defaults. The result is committed and pushed like any edit.`,
			Flags:  []cli.Flag{cmd.reader.Flag()},
			Action: cmd.runImport,
		},
		&cli.Command{
			Name:      "export",
			Usage:     "Write the document as JSON or one collection as CSV",
			UsageText: "painel export [--format json|csv] [--collection outbound]",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:        "format",
					Usage:       "json or csv",
					Value:       "json",
					Destination: &cmd.format,
				},
				&cli.StringFlag{
					Name:        "collection",
					Usage:       "collection to export as csv (outbound, inbound, weekly, alerts, progress)",
					Value:       "outbound",
					Destination: &cmd.collection,
				},
			},
			Action: cmd.runExport,
		},
	)

	return app
}

func (cmd *TransferCmd) runImport(ctx context.Context, c *cli.Command) error {
	data, err := cmd.reader.ReadBytes()
	if err != nil {
		return err
	}

	raw, err := board.DecodeRaw(data)
	if err != nil {
		return fmt.Errorf("decode document: %w", err)
	}

	doc, err := cmd.app.Board.Replace(raw)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}

	_, _ = fmt.Fprintf(c.Root().ErrWriter, "imported %d outbound, %d inbound, %d alerts\n",
		len(doc.Outbound), len(doc.Inbound), len(doc.Imports))
	return deliver(ctx, cmd.app, c.Root().ErrWriter)
}

func (cmd *TransferCmd) runExport(_ context.Context, c *cli.Command) error {
	doc := cmd.app.Engine.Document()

	switch cmd.format {
	case "json":
		return iojson.WriteWith(c.Root().Writer, c.Root().ErrWriter, doc)
	case "csv":
		coll, err := board.ParseCollection(cmd.collection)
		if err != nil {
			return err
		}
		return writeCSV(c.Root().Writer, doc, coll)
	default:
		return fmt.Errorf("unknown format %q (json, csv)", cmd.format)
	}
}
