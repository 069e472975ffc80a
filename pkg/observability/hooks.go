package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/menube/pkg/domain"
)

// LoggingHooks returns lifecycle hooks that write an audit trail to logger.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnPathChanged: func(ctx context.Context, p domain.Path) {
			logger.DebugContext(ctx, "path_changed", "path", p.String())
		},
		OnCommandStart: func(ctx context.Context, command string) {
			logger.InfoContext(ctx, "command_start", "command", command)
		},
		OnCommandComplete: func(ctx context.Context, r domain.CommandResult) {
			if r.Failed() {
				logger.WarnContext(ctx, "command_complete",
					"command", r.Command,
					"exit_code", r.ExitCode,
					"duration", r.Duration,
					"err", r.Err,
				)
				return
			}
			logger.InfoContext(ctx, "command_complete",
				"command", r.Command,
				"duration", r.Duration,
			)
		},
		OnFault: func(ctx context.Context, err error) {
			logger.ErrorContext(ctx, "engine_fault", "err", err)
		},
	}
}
