package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/hay-kot/painel/internal/boardsync"
	"github.com/hay-kot/painel/internal/painel"
)

// deliver waits for the debounced push of a one-shot command so the edit
// reaches the remote before the process exits. A failed push is reported
// but not returned: the edit is already saved locally.
func deliver(ctx context.Context, app *painel.App, errOut io.Writer) error {
	timeout := app.Config.Sync.QuietPeriod + app.Config.Sync.RequestTimeout
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := app.Engine.Flush(ctx); err != nil {
		return fmt.Errorf("push document: %w", err)
	}

	snap := app.Engine.Snapshot()
	switch {
	case snap.Offline():
		_, _ = fmt.Fprintln(errOut, "saved locally (offline)")
	case snap.Status == boardsync.StatusError:
		_, _ = fmt.Fprintln(errOut, "saved locally; remote push failed, run 'painel sync' later")
	}
	return nil
}

// confirm asks a yes/no question on the terminal. Without a terminal the
// answer is no.
func confirm(title string) (bool, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false, nil
	}

	var ok bool
	err := huh.NewConfirm().
		Title(title).
		Affirmative("Sim").
		Negative("Não").
		Value(&ok).
		Run()
	if err != nil {
		return false, err
	}
	return ok, nil
}
