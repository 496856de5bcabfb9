package cli

import (
	"context"
	"fmt"
	"io"

	tracetm "github.com/irobinett3/traceTM-iansntm"
	"github.com/irobinett3/traceTM-iansntm/internal/presentation/graph"
	"github.com/irobinett3/traceTM-iansntm/internal/validator"
	"github.com/irobinett3/traceTM-iansntm/pkg/domain"
)

// Validate loads every named machine, or all of them when names is empty, and
// reports definition errors and unreachable states. Only errors fail the run.
func Validate(ctx context.Context, eng *tracetm.Engine, names []string, w io.Writer) error {
	if len(names) == 0 {
		all, err := eng.Machines(ctx)
		if err != nil {
			return err
		}
		names = all
	}

	failed := 0
	for _, name := range names {
		m, err := eng.Machine(ctx, name)
		if err != nil {
			failed++
			fmt.Fprintf(w, "✘ %s\n", name)
			problems := domain.ValidationErrors(err)
			if len(problems) == 0 {
				problems = []error{err}
			}
			for _, p := range problems {
				fmt.Fprintf(w, "    %v\n", p)
			}
			continue
		}

		fmt.Fprintf(w, "✔ %s (%d states, %d transitions)\n", name, len(m.States), len(m.Transitions))
		for _, warn := range validator.Warnings(m) {
			fmt.Fprintf(w, "    warning: %v\n", warn)
		}
		for _, s := range validator.Unreachable(m) {
			fmt.Fprintf(w, "    warning: state %s is unreachable from %s\n", s, m.StartState)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d machine(s) invalid", failed, len(names))
	}
	return nil
}

// Graph prints the Mermaid diagram of a machine, highlighting a stored result when resultID is set.
func Graph(ctx context.Context, eng *tracetm.Engine, name, resultID string, w io.Writer) error {
	m, err := eng.Machine(ctx, name)
	if err != nil {
		return err
	}

	var overlay *graph.GraphOverlay
	if resultID != "" {
		res, err := eng.Result(ctx, resultID)
		if err != nil {
			return err
		}
		overlay = graph.OverlayFromResult(res)
	}

	_, err = io.WriteString(w, graph.GenerateMermaid(m, overlay))
	return err
}
