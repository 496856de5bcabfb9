package domain

import "slices"

// Blank is the symbol filling every unwritten tape cell.
const Blank = "_"

// Machine is a single-tape, possibly non-deterministic Turing machine.
// It is immutable once loaded: the explorer never writes to it.
type Machine struct {
	Name          string   `json:"name" yaml:"name" mapstructure:"name"`
	States        []string `json:"states" yaml:"states" mapstructure:"states"`
	InputAlphabet []string `json:"input_alphabet" yaml:"input_alphabet" mapstructure:"input_alphabet"`
	TapeAlphabet  []string `json:"tape_alphabet" yaml:"tape_alphabet" mapstructure:"tape_alphabet"`
	StartState    string   `json:"start_state" yaml:"start_state" mapstructure:"start_state"`
	AcceptState   string   `json:"accept_state" yaml:"accept_state" mapstructure:"accept_state"`
	RejectState   string   `json:"reject_state" yaml:"reject_state" mapstructure:"reject_state"`

	// Transitions keeps load order. Order only matters for trace reproducibility.
	Transitions []Transition `json:"transitions" yaml:"transitions" mapstructure:"transitions"`
}

// HasState reports whether s is declared in the machine's state list.
func (m *Machine) HasState(s string) bool {
	return slices.Contains(m.States, s)
}

// IsHalting reports whether s is the accept or the reject state.
func (m *Machine) IsHalting(s string) bool {
	return s == m.AcceptState || s == m.RejectState
}

// InitialTape converts an input string into the starting tape: one cell per
// character, followed by a blank unless the input already ends with one.
func InitialTape(input string) []string {
	tape := make([]string, 0, len(input)+1)
	for _, r := range input {
		tape = append(tape, string(r))
	}
	if len(tape) == 0 || tape[len(tape)-1] != Blank {
		tape = append(tape, Blank)
	}
	return tape
}

// Clone returns a deep copy of the machine.
func (m *Machine) Clone() *Machine {
	c := *m
	c.States = slices.Clone(m.States)
	c.InputAlphabet = slices.Clone(m.InputAlphabet)
	c.TapeAlphabet = slices.Clone(m.TapeAlphabet)
	c.Transitions = slices.Clone(m.Transitions)
	return &c
}
