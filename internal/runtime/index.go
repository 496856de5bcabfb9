package runtime

import (
	"github.com/irobinett3/traceTM-iansntm/pkg/domain"
)

type key struct {
	state, symbol int
}

// step is a transition compiled to interned IDs.
type step struct {
	next  int
	write int
	delta int
	rule  int // index into Machine.Transitions, -1 when synthesized
}

// Index is the transition table of one machine keyed by (state, symbol).
// It is read-only after NewIndex and safe for concurrent use.
type Index struct {
	machine *domain.Machine
	states  *symbolTable
	symbols *symbolTable
	table   map[key][]step

	start, accept, reject int
	blank                 int
}

// NewIndex compiles the machine's transitions. Matches for the same key keep load order.
func NewIndex(m *domain.Machine) *Index {
	idx := &Index{
		machine: m,
		states:  newSymbolTable(),
		symbols: newSymbolTable(),
		table:   make(map[key][]step, len(m.Transitions)),
	}

	for _, s := range m.States {
		idx.states.intern(s)
	}
	idx.start = idx.states.intern(m.StartState)
	idx.accept = idx.states.intern(m.AcceptState)
	idx.reject = idx.states.intern(m.RejectState)

	idx.blank = idx.symbols.intern(domain.Blank)
	for _, s := range m.TapeAlphabet {
		idx.symbols.intern(s)
	}
	for _, s := range m.InputAlphabet {
		idx.symbols.intern(s)
	}

	for i, t := range m.Transitions {
		k := key{state: idx.states.intern(t.State), symbol: idx.symbols.intern(t.Read)}
		idx.table[k] = append(idx.table[k], step{
			next:  idx.states.intern(t.Next),
			write: idx.symbols.intern(t.Write),
			delta: t.Move.Delta(),
			rule:  i,
		})
	}

	return idx
}

// Machine returns the machine the index was built from.
func (idx *Index) Machine() *domain.Machine {
	return idx.machine
}

// Lookup returns every transition matching (state, symbol) in load order.
// Unknown states or symbols simply yield nothing.
func (idx *Index) Lookup(state, symbol string) []domain.Transition {
	st, ok := idx.states.lookup(state)
	if !ok {
		return nil
	}
	sym, ok := idx.symbols.lookup(symbol)
	if !ok {
		return nil
	}

	steps := idx.table[key{state: st, symbol: sym}]
	if len(steps) == 0 {
		return nil
	}
	out := make([]domain.Transition, len(steps))
	for i, s := range steps {
		out[i] = idx.machine.Transitions[s.rule]
	}
	return out
}

// Candidates is Lookup with the implicit reject policy applied: when nothing
// matches, it returns exactly one transition to the reject state that rewrites
// the same symbol and stays.
func (idx *Index) Candidates(state, symbol string) []domain.Transition {
	if matches := idx.Lookup(state, symbol); len(matches) > 0 {
		return matches
	}
	return []domain.Transition{{
		State: state,
		Read:  symbol,
		Next:  idx.machine.RejectState,
		Write: symbol,
		Move:  domain.MoveStay,
	}}
}

// candidates is the interned form of Candidates used by the explorer.
// Symbols interned after the index was built never match a table entry.
func (idx *Index) candidates(state, symbol int) []step {
	if steps := idx.table[key{state: state, symbol: symbol}]; len(steps) > 0 {
		return steps
	}
	return []step{{next: idx.reject, write: symbol, delta: 0, rule: -1}}
}
