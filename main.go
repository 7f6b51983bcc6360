package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/painel/internal/commands"
	"github.com/hay-kot/painel/internal/core/config"
	"github.com/hay-kot/painel/internal/core/styles"
	"github.com/hay-kot/painel/internal/data/db"
	"github.com/hay-kot/painel/internal/data/stores"
	"github.com/hay-kot/painel/internal/painel"
	"github.com/hay-kot/painel/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, build() falls back
	// to runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

// openDatabase opens the store, moving a corrupted file aside and starting
// fresh when SQLite refuses it.
func openDatabase(cfg *config.Config) (*db.DB, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	database, err := db.Open(cfg.DataDir, cfg.OpenOptions())
	if err == nil || !stores.IsCorruptionError(err) {
		return database, err
	}

	backup, recErr := stores.RecoverFromCorruption(cfg.DataDir)
	if recErr != nil {
		return nil, fmt.Errorf("%w (recovery failed: %w)", err, recErr)
	}
	log.Warn().Err(err).Str("backup", backup).Msg("database was corrupted, moved aside and starting fresh")

	return db.Open(cfg.DataDir, cfg.OpenOptions())
}

func main() {
	ctx := context.Background()

	var (
		logCloser func()
		painelApp = &painel.App{}
		database  *db.DB
	)

	flags := &commands.Flags{}

	app := &cli.Command{
		Name:      "painel",
		Usage:     "Warehouse logistics dashboard with shared remote sync",
		UsageText: "painel [global options] command [command options]",
		Description: `Painel keeps one shared dashboard document: outbound and inbound shipments,
weekly throughput, alerts and shipment progress.

Every edit is saved locally first and pushed to the configured remote after a
short quiet period. The remote is polled so edits made elsewhere show up here.

Run 'painel' with no arguments to open the interactive dashboard.
Run 'painel show' to print the current document.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("PAINEL_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to <data-dir>/painel.log)",
				Sources:     cli.EnvVars("PAINEL_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("PAINEL_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("PAINEL_DATA_DIR"),
				Value:       commands.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}

			// Always log to a file; the TUI owns the terminal.
			logFile := flags.LogFile
			if logFile == "" {
				logFile = cfg.LogFile()
			}

			logger, closer, err := logutils.New(flags.LogLevel, logFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger
			logCloser = closer

			// Validation ensures the theme name exists.
			palette, _ := styles.GetPalette(cfg.TUI.Theme)
			styles.SetTheme(palette)

			database, err = openDatabase(cfg)
			if err != nil {
				return ctx, fmt.Errorf("open database: %w", err)
			}

			// Populate the pre-allocated App struct (commands already hold a pointer to it)
			*painelApp = *painel.NewApp(ctx, cfg, database, log.Logger)

			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if painelApp.Engine != nil {
				painelApp.Close()
			}

			if database != nil {
				if err := database.Close(); err != nil {
					log.Error().Err(err).Msg("failed to close database")
					return err
				}
			}

			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	tuiCmd := commands.NewTuiCmd(flags, painelApp)

	app = commands.NewShowCmd(flags, painelApp).Register(app)
	app = commands.NewBoardCmd(flags, painelApp).Register(app)
	app = commands.NewEndpointCmd(flags, painelApp).Register(app)
	app = commands.NewSyncCmd(flags, painelApp).Register(app)
	app = commands.NewTransferCmd(flags, painelApp).Register(app)
	app = commands.NewResetCmd(flags, painelApp).Register(app)
	app = commands.NewServeCmd(flags, painelApp).Register(app)
	app = commands.NewConfigValidateCmd(flags, painelApp).Register(app)
	app = commands.NewDoctorCmd(flags, painelApp).Register(app)
	app = tuiCmd.Register(app)

	// Set TUI as default action when no subcommand is provided
	app.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 0 {
			return fmt.Errorf("unknown command %q. Run 'painel --help' for usage", c.Args().First())
		}
		return tuiCmd.Run(ctx, c)
	}

	exitCode := 0
	runErr := app.Run(ctx, os.Args)
	if runErr != nil {
		fmt.Println()
		fmt.Println(runErr.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}
