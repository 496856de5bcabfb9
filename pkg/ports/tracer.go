package ports

import (
	"context"

	"github.com/irobinett3/traceTM-iansntm/pkg/domain"
)

// Tracer is the driving port shared by the HTTP and MCP adapters.
// tracetm.Engine is the canonical implementation.
type Tracer interface {
	Machines(ctx context.Context) ([]string, error)
	Machine(ctx context.Context, name string) (*domain.Machine, error)

	// TraceDepth runs input on the named machine. maxDepth <= 0 selects the tracer's default.
	TraceDepth(ctx context.Context, machine, input string, maxDepth int) (*domain.Result, error)

	// Result operations return domain.ErrNoStore when nothing persists results.
	Results(ctx context.Context) ([]domain.Summary, error)
	Result(ctx context.Context, id string) (*domain.Result, error)
	DeleteResult(ctx context.Context, id string) error
}
