package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/painel/internal/docserver"
	"github.com/hay-kot/painel/internal/painel"
	"github.com/hay-kot/painel/pkg/logutils"
)

type ServeCmd struct {
	flags *Flags
	app   *painel.App

	addr string
	path string
}

// NewServeCmd creates a new serve command
func NewServeCmd(flags *Flags, app *painel.App) *ServeCmd {
	return &ServeCmd{flags: flags, app: app}
}

// Register adds the serve command to the application
func (cmd *ServeCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "serve",
		Usage:     "Run a shared document store on this machine",
		UsageText: "painel serve [--addr 127.0.0.1:8080] [--path /exec]",
		Description: `Serves the document protocol painel syncs against: GET returns the
document, POST replaces it. Point other instances at it with
'painel endpoint set http://<host>:<port><path>'.

The document is kept in this machine's painel database, separate from the
local dashboard copy.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "listen address (defaults to serve.addr in config)",
				Destination: &cmd.addr,
			},
			&cli.StringFlag{
				Name:        "path",
				Usage:       "document path (defaults to serve.path in config)",
				Destination: &cmd.path,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ServeCmd) run(ctx context.Context, _ *cli.Command) error {
	addr := cmd.addr
	if addr == "" {
		addr = cmd.app.Config.Serve.Addr
	}
	path := cmd.path
	if path == "" {
		path = cmd.app.Config.Serve.Path
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := docserver.New(cmd.app.KV, path, logutils.Component(log.Logger, "docserver"))
	return srv.ListenAndServe(ctx, addr)
}
