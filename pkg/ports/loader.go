package ports

import (
	"context"

	"github.com/irobinett3/traceTM-iansntm/pkg/domain"
)

// MachineLoader defines how the engine retrieves machine definitions.
// This allows the storage layer (FS, Loam, Memory) to be decoupled.
type MachineLoader interface {
	// Load returns the parsed definition of the named machine.
	// Returns domain.ErrMachineNotFound if no such machine exists.
	Load(ctx context.Context, name string) (*domain.Machine, error)

	// List returns the names of all available machines in a stable order.
	// This is used by the CLI, HTTP and MCP surfaces for discovery.
	List(ctx context.Context) ([]string, error)
}
