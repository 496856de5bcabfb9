package runtime

import (
	"log/slog"

	"github.com/irobinett3/traceTM-iansntm/pkg/domain"
)

// DefaultMaxDepth is the depth bound used when none is configured.
const DefaultMaxDepth = 100

// Option configures an Explorer.
type Option func(*Explorer)

// WithMaxDepth sets the number of depth rounds a run may process.
// Zero or negative values produce an empty trace.
func WithMaxDepth(n int) Option {
	return func(e *Explorer) {
		e.maxDepth = n
	}
}

// WithMaxFrontier caps the number of configurations queued for a single depth.
// A run exceeding it fails with ErrFrontierExhausted. Zero disables the cap.
func WithMaxFrontier(n int) Option {
	return func(e *Explorer) {
		e.maxFrontier = n
	}
}

// WithHooks registers lifecycle callbacks.
func WithHooks(h domain.LifecycleHooks) Option {
	return func(e *Explorer) {
		e.hooks = h
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Explorer) {
		if l != nil {
			e.logger = l
		}
	}
}
