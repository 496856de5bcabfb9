package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/irobinett3/traceTM-iansntm/pkg/domain"
	"github.com/irobinett3/traceTM-iansntm/pkg/ports"
)

// MachineLoaderContractTest is a reusable test suite that verifies if an adapter complies with ports.MachineLoader.
// want maps every machine name the loader should expose to its expected definition.
func MachineLoaderContractTest(t *testing.T, loader ports.MachineLoader, want map[string]*domain.Machine) {
	t.Helper()
	ctx := context.Background()

	t.Run("Load_Success", func(t *testing.T) {
		for name, expected := range want {
			m, err := loader.Load(ctx, name)
			if err != nil {
				t.Fatalf("unexpected error loading machine %s: %v", name, err)
			}
			if m.Name != expected.Name {
				t.Errorf("name mismatch for %s. got %q, want %q", name, m.Name, expected.Name)
			}
			if m.StartState != expected.StartState || m.AcceptState != expected.AcceptState || m.RejectState != expected.RejectState {
				t.Errorf("halting states mismatch for %s. got %q/%q/%q", name, m.StartState, m.AcceptState, m.RejectState)
			}
			if len(m.Transitions) != len(expected.Transitions) {
				t.Errorf("expected %d transitions for %s, got %d", len(expected.Transitions), name, len(m.Transitions))
			}
		}
	})

	t.Run("Load_NotFound", func(t *testing.T) {
		_, err := loader.Load(ctx, "non-existent-machine")
		if err == nil {
			t.Fatal("expected error for non-existent machine, got nil")
		}
		if !errors.Is(err, domain.ErrMachineNotFound) {
			t.Errorf("expected ErrMachineNotFound, got %v", err)
		}
	})

	t.Run("List", func(t *testing.T) {
		names, err := loader.List(ctx)
		if err != nil {
			t.Fatalf("unexpected error listing machines: %v", err)
		}

		if len(names) != len(want) {
			t.Errorf("expected %d machines, got %d", len(want), len(names))
		}

		lookup := make(map[string]bool)
		for _, name := range names {
			lookup[name] = true
		}
		for name := range want {
			if !lookup[name] {
				t.Errorf("machine %s missing from list", name)
			}
		}
	})
}
