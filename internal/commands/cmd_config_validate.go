package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/hay-kot/criterio"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/painel/internal/core/styles"
	"github.com/hay-kot/painel/internal/painel"
	"github.com/hay-kot/painel/pkg/iojson"
)

type ConfigValidateCmd struct {
	flags  *Flags
	app    *painel.App
	format string
}

// NewConfigValidateCmd creates a new config validate command.
func NewConfigValidateCmd(flags *Flags, app *painel.App) *ConfigValidateCmd {
	return &ConfigValidateCmd{flags: flags, app: app}
}

// Register adds the config validate command to the application.
func (cmd *ConfigValidateCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "config",
		Usage: "Configuration management commands",
		Commands: []*cli.Command{
			{
				Name:        "validate",
				Usage:       "Validate configuration file",
				UsageText:   "painel config validate [options]",
				Description: "Validates the configuration and checks the config file and data directory on disk.",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "format",
						Usage:       "output format (text, json)",
						Value:       "text",
						Destination: &cmd.format,
					},
				},
				Action: cmd.run,
			},
		},
	})

	return app
}

type validationIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (cmd *ConfigValidateCmd) run(_ context.Context, c *cli.Command) error {
	issues, err := collectIssues(cmd.app.Config.ValidateDeep(cmd.flags.ConfigPath))
	if err != nil {
		return err
	}

	if cmd.format == "json" {
		out := struct {
			Valid  bool              `json:"valid"`
			Errors []validationIssue `json:"errors,omitempty"`
		}{
			Valid:  len(issues) == 0,
			Errors: issues,
		}
		if err := iojson.WriteWith(c.Root().Writer, c.Root().ErrWriter, out); err != nil {
			return err
		}
		if len(issues) > 0 {
			return cli.Exit("", 1)
		}
		return nil
	}

	w := c.Root().Writer
	for _, issue := range issues {
		_, _ = fmt.Fprintln(w, styles.ErrorStyle.Render("✗ "+issue.Field+": "+issue.Message))
	}
	if len(issues) == 0 {
		_, _ = fmt.Fprintln(w, styles.StatusSavedStyle.Render("✓ configuration is valid"))
		return nil
	}

	_, _ = fmt.Fprintf(w, "\n%d error(s) found\n", len(issues))
	return cli.Exit("", 1)
}

// collectIssues flattens field errors. Anything else is returned as is.
func collectIssues(err error) ([]validationIssue, error) {
	if err == nil {
		return nil, nil
	}

	var fieldErrs criterio.FieldErrors
	if !errors.As(err, &fieldErrs) {
		return nil, err
	}

	issues := make([]validationIssue, len(fieldErrs))
	for i, fe := range fieldErrs {
		issues[i] = validationIssue{Field: fe.Field, Message: fe.Err.Error()}
	}
	return issues, nil
}
