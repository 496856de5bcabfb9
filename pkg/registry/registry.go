package registry

import (
	"context"
	"fmt"
	"sync"

	"github.com/irobinett3/traceTM-iansntm/internal/runtime"
	"github.com/irobinett3/traceTM-iansntm/pkg/domain"
	"github.com/irobinett3/traceTM-iansntm/pkg/ports"
)

// Registry caches one Explorer per machine name.
// Machines are fetched from the loader on first use; registered machines never are.
type Registry struct {
	mu        sync.RWMutex
	loader    ports.MachineLoader
	opts      []runtime.Option
	explorers map[string]*runtime.Explorer
}

// NewRegistry creates an empty registry. loader may be nil, in which case only
// registered machines are available. opts apply to every explorer built.
func NewRegistry(loader ports.MachineLoader, opts ...runtime.Option) *Registry {
	return &Registry{
		loader:    loader,
		opts:      opts,
		explorers: make(map[string]*runtime.Explorer),
	}
}

// Register builds an explorer for m and stores it under m.Name.
// If a machine with the same name exists, it is overwritten.
func (r *Registry) Register(m *domain.Machine) *runtime.Explorer {
	e := runtime.NewExplorer(m.Clone(), r.opts...)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.explorers[m.Name] = e
	return e
}

// Get returns the explorer for name, loading the machine on a cache miss.
func (r *Registry) Get(ctx context.Context, name string) (*runtime.Explorer, error) {
	r.mu.RLock()
	e, ok := r.explorers[name]
	r.mu.RUnlock()
	if ok {
		return e, nil
	}

	if r.loader == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrMachineNotFound, name)
	}
	m, err := r.loader.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	e = runtime.NewExplorer(m, r.opts...)

	r.mu.Lock()
	defer r.mu.Unlock()
	// another caller may have won the race; keep the first explorer
	if existing, ok := r.explorers[name]; ok {
		return existing, nil
	}
	r.explorers[name] = e
	return e, nil
}

// Invalidate drops the cached explorer so the next Get reloads the machine.
func (r *Registry) Invalidate(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.explorers, name)
}

// Len reports the number of cached explorers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.explorers)
}
