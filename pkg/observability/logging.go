package observability

import (
	"context"
	"log/slog"

	"github.com/irobinett3/traceTM-iansntm/pkg/domain"
)

// LoggingHooks returns hooks that write one audit record per lifecycle event.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRunStart: func(ctx context.Context, e *domain.RunEvent) {
			logger.InfoContext(ctx, "run_start",
				"machine", e.Machine,
				"input", e.Input,
				"max_depth", e.MaxDepth,
			)
		},
		OnDepth: func(ctx context.Context, e *domain.DepthEvent) {
			logger.DebugContext(ctx, "depth",
				"machine", e.Machine,
				"depth", e.Depth,
				"configurations", e.Configurations,
				"frontier", e.Frontier,
			)
		},
		OnHalt: func(ctx context.Context, e *domain.HaltEvent) {
			logger.InfoContext(ctx, "halt",
				"machine", e.Machine,
				"accepted", e.Accepted,
				"depth", e.Depth,
				"transitions", e.Transitions,
				"reason", e.Reason,
			)
		},
	}
}
