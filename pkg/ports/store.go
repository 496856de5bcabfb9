package ports

import (
	"context"

	"github.com/irobinett3/traceTM-iansntm/pkg/domain"
)

// ResultStore defines the interface for persisting trace results.
type ResultStore interface {
	// Save persists the result under its ID. The ID must not be empty.
	Save(ctx context.Context, result *domain.Result) error

	// Load retrieves a result by ID.
	// Returns domain.ErrResultNotFound if the result does not exist.
	Load(ctx context.Context, id string) (*domain.Result, error)

	// Delete removes a result. Deleting an unknown ID is not an error.
	Delete(ctx context.Context, id string) error

	// List returns a summary of every stored result, newest first.
	List(ctx context.Context) ([]domain.Summary, error)
}
