package painel

import (
	"context"

	"github.com/hay-kot/painel/internal/core/doctor"
)

// RunChecks runs the health checks against the live configuration, the local
// database and the active endpoint.
func (a *App) RunChecks(ctx context.Context, configPath string, autofix bool) []doctor.Result {
	checks := []doctor.Check{
		doctor.NewConfigCheck(configPath, func() error { return a.Config.ValidateDeep(configPath) }),
		doctor.NewStorageCheck(a.DB.Conn(), a.KV, autofix),
		doctor.NewRemoteCheck(a.Remote, a.Engine.Snapshot().Endpoint, a.Config.Sync.RequestTimeout),
	}
	return doctor.RunAll(ctx, checks)
}
