package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/painel/internal/painel"
)

type EndpointCmd struct {
	flags *Flags
	app   *painel.App

	// flags
	offline bool
}

// NewEndpointCmd creates a new endpoint command
func NewEndpointCmd(flags *Flags, app *painel.App) *EndpointCmd {
	return &EndpointCmd{flags: flags, app: app}
}

// Register adds the endpoint command to the application
func (cmd *EndpointCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "endpoint",
		Usage: "Show or change the remote document URL",
		Description: `The endpoint is stored locally and survives restarts. An empty
endpoint disables remote sync.`,
		Commands: []*cli.Command{
			{
				Name:   "get",
				Usage:  "Print the current endpoint",
				Action: cmd.runGet,
			},
			{
				Name:      "set",
				Usage:     "Change the endpoint (prompts when no url is given)",
				UsageText: "painel endpoint set [--offline] [url]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:        "offline",
						Usage:       "clear the endpoint and stop syncing",
						Destination: &cmd.offline,
					},
				},
				Action: cmd.runSet,
			},
		},
		Action: cmd.runGet,
	})

	return app
}

func (cmd *EndpointCmd) runGet(_ context.Context, c *cli.Command) error {
	snap := cmd.app.Engine.Snapshot()
	if snap.Offline() {
		_, _ = fmt.Fprintln(c.Root().ErrWriter, "offline (no endpoint)")
		return nil
	}
	_, err := fmt.Fprintln(c.Root().Writer, snap.Endpoint)
	return err
}

func (cmd *EndpointCmd) runSet(ctx context.Context, c *cli.Command) error {
	var endpoint string

	switch {
	case cmd.offline:
		endpoint = ""
	case c.Args().Len() > 0:
		endpoint = c.Args().First()
	default:
		endpoint = cmd.app.Engine.Snapshot().Endpoint
		err := huh.NewInput().
			Title("URL do Google Apps Script").
			Description("Deixe vazio para trabalhar offline").
			Placeholder("https://script.google.com/macros/s/.../exec").
			Validate(painel.ValidateEndpoint).
			Value(&endpoint).
			Run()
		if err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return fmt.Errorf("form: %w", err)
		}
	}

	endpoint = strings.TrimSpace(endpoint)
	if err := painel.ValidateEndpoint(endpoint); err != nil {
		return err
	}

	if err := cmd.app.Engine.SetEndpoint(ctx, endpoint); err != nil {
		return err
	}

	if endpoint == "" {
		_, _ = fmt.Fprintln(c.Root().ErrWriter, "endpoint cleared; working offline")
	} else {
		_, _ = fmt.Fprintf(c.Root().ErrWriter, "endpoint set to %s\n", endpoint)
	}
	return nil
}
