package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/irobinett3/traceTM-iansntm/pkg/domain"
)

// Loader implements ports.MachineLoader using an in-memory map.
type Loader struct {
	machines map[string]*domain.Machine
}

// NewLoader creates a Loader holding copies of the given machines, keyed by name.
func NewLoader(machines ...*domain.Machine) (*Loader, error) {
	data := make(map[string]*domain.Machine, len(machines))
	for _, m := range machines {
		if m == nil || m.Name == "" {
			return nil, fmt.Errorf("machine missing name")
		}
		if _, dup := data[m.Name]; dup {
			return nil, fmt.Errorf("duplicate machine %q", m.Name)
		}
		data[m.Name] = m.Clone()
	}
	return &Loader{machines: data}, nil
}

// Load returns a copy of the named machine.
func (l *Loader) Load(_ context.Context, name string) (*domain.Machine, error) {
	m, ok := l.machines[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrMachineNotFound, name)
	}
	return m.Clone(), nil
}

// List returns all machine names.
func (l *Loader) List(_ context.Context) ([]string, error) {
	keys := make([]string, 0, len(l.machines))
	for k := range l.machines {
		keys = append(keys, k)
	}
	sort.Strings(keys) // Deterministic order
	return keys, nil
}
