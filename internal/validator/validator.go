package validator

import (
	"fmt"
	"slices"

	"github.com/irobinett3/traceTM-iansntm/pkg/domain"
)

// Validate checks the invariants a trace depends on: the halting and start
// states are declared, accept and reject differ, and every move is valid.
// All problems are reported together as a *domain.AggregateError.
func Validate(m *domain.Machine) error {
	if m == nil {
		return &domain.ValidationError{Key: "machine", Reason: "is nil"}
	}

	var errs []error
	add := func(key, reason, value string) {
		errs = append(errs, &domain.ValidationError{Key: key, Reason: reason, Value: value})
	}

	if m.Name == "" {
		add("name", "required", "")
	}
	if len(m.States) == 0 {
		add("states", "at least one state is required", "")
	}

	for _, f := range []struct{ key, value string }{
		{"start_state", m.StartState},
		{"accept_state", m.AcceptState},
		{"reject_state", m.RejectState},
	} {
		switch {
		case f.value == "":
			add(f.key, "required", "")
		case !m.HasState(f.value):
			add(f.key, "not declared in states", f.value)
		}
	}
	if m.AcceptState != "" && m.AcceptState == m.RejectState {
		add("reject_state", "must differ from accept_state", m.RejectState)
	}

	for i, t := range m.Transitions {
		if _, err := domain.ParseMove(string(t.Move)); err != nil {
			add(fmt.Sprintf("transitions[%d]", i), "invalid move", string(t.Move))
		}
	}

	if len(errs) > 0 {
		return &domain.AggregateError{Errors: errs}
	}
	return nil
}

// Warnings reports declaration gaps that do not affect tracing: symbols missing
// from the alphabets, transitions naming undeclared states, and duplicates.
// The explorer handles all of them, so loaders never reject on these.
func Warnings(m *domain.Machine) []*domain.ValidationError {
	var out []*domain.ValidationError
	add := func(key, reason, value string) {
		out = append(out, &domain.ValidationError{Key: key, Reason: reason, Value: value})
	}

	for _, s := range duplicates(m.States) {
		add("states", "duplicate state", s)
	}

	tape := symbolSet(m.TapeAlphabet)
	for _, s := range m.InputAlphabet {
		if s == domain.Blank {
			add("input_alphabet", "blank is not an input symbol", s)
			continue
		}
		if !tape[s] {
			add("input_alphabet", "symbol missing from tape_alphabet", s)
		}
	}

	for i, t := range m.Transitions {
		key := fmt.Sprintf("transitions[%d]", i)
		if !m.HasState(t.State) {
			add(key, "unknown state", t.State)
		}
		if !m.HasState(t.Next) {
			add(key, "unknown next state", t.Next)
		}
		if !tape[t.Read] {
			add(key, "read symbol missing from tape_alphabet", t.Read)
		}
		if !tape[t.Write] {
			add(key, "write symbol missing from tape_alphabet", t.Write)
		}
	}
	return out
}

// Unreachable lists declared states that no chain of transitions leads to from
// the start state. The reject state is never reported since missing rules lead there.
func Unreachable(m *domain.Machine) []string {
	edges := make(map[string][]string)
	for _, t := range m.Transitions {
		edges[t.State] = append(edges[t.State], t.Next)
	}

	visited := map[string]bool{m.RejectState: true}
	queue := []string{m.StartState}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if visited[current] {
			continue
		}
		visited[current] = true

		for _, next := range edges[current] {
			if !visited[next] {
				queue = append(queue, next)
			}
		}
	}

	var out []string
	for _, s := range m.States {
		if !visited[s] {
			out = append(out, s)
		}
	}
	return out
}

func symbolSet(alphabet []string) map[string]bool {
	set := map[string]bool{domain.Blank: true}
	for _, s := range alphabet {
		set[s] = true
	}
	return set
}

func duplicates(values []string) []string {
	seen := make(map[string]bool, len(values))
	var dup []string
	for _, v := range values {
		if seen[v] && !slices.Contains(dup, v) {
			dup = append(dup, v)
		}
		seen[v] = true
	}
	return dup
}
