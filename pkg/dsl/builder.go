package dsl

import (
	"fmt"
	"slices"

	"github.com/irobinett3/traceTM-iansntm/internal/validator"
	"github.com/irobinett3/traceTM-iansntm/pkg/adapters/memory"
	"github.com/irobinett3/traceTM-iansntm/pkg/domain"
)

// Default halting and start state names, matching the CSV fixtures.
const (
	DefaultStart  = "q0"
	DefaultAccept = "qacc"
	DefaultReject = "qrej"
)

// Builder manages the machine construction.
type Builder struct {
	name        string
	start       string
	accept      string
	reject      string
	input       []string
	tape        []string
	states      []string
	transitions []domain.Transition
}

// New creates a new machine builder.
func New(name string) *Builder {
	return &Builder{
		name:   name,
		start:  DefaultStart,
		accept: DefaultAccept,
		reject: DefaultReject,
	}
}

// Start overrides the start state.
func (b *Builder) Start(state string) *Builder {
	b.start = state
	return b
}

// Accept overrides the accept state.
func (b *Builder) Accept(state string) *Builder {
	b.accept = state
	return b
}

// Reject overrides the reject state.
func (b *Builder) Reject(state string) *Builder {
	b.reject = state
	return b
}

// Input declares the input alphabet. Without it, every non-blank symbol read
// by a rule is an input symbol.
func (b *Builder) Input(symbols ...string) *Builder {
	b.input = append(b.input, symbols...)
	return b
}

// Tape declares extra tape symbols beyond those the rules mention.
func (b *Builder) Tape(symbols ...string) *Builder {
	b.tape = append(b.tape, symbols...)
	return b
}

// States declares states the rules never mention.
func (b *Builder) States(states ...string) *Builder {
	b.states = append(b.states, states...)
	return b
}

// On starts a rule for (state, read).
func (b *Builder) On(state, read string) *RuleBuilder {
	return &RuleBuilder{builder: b, state: state, read: read}
}

// Build compiles and validates the machine.
func (b *Builder) Build() (*domain.Machine, error) {
	m := &domain.Machine{
		Name:        b.name,
		StartState:  b.start,
		AcceptState: b.accept,
		RejectState: b.reject,
		Transitions: slices.Clone(b.transitions),
	}

	var states, tape, input []string
	add := func(set *[]string, s string) {
		if s != "" && !slices.Contains(*set, s) {
			*set = append(*set, s)
		}
	}

	add(&states, b.start)
	for _, t := range b.transitions {
		add(&states, t.State)
		add(&states, t.Next)
	}
	for _, s := range b.states {
		add(&states, s)
	}
	add(&states, b.accept)
	add(&states, b.reject)

	for _, s := range b.input {
		add(&input, s)
	}
	for _, t := range b.transitions {
		if len(b.input) == 0 && t.Read != domain.Blank {
			add(&input, t.Read)
		}
	}

	for _, s := range input {
		add(&tape, s)
	}
	for _, t := range b.transitions {
		add(&tape, t.Read)
		add(&tape, t.Write)
	}
	for _, s := range b.tape {
		add(&tape, s)
	}
	add(&tape, domain.Blank)

	m.States = states
	m.InputAlphabet = input
	m.TapeAlphabet = tape

	if err := validator.Validate(m); err != nil {
		return nil, fmt.Errorf("machine %q: %w", b.name, err)
	}
	return m, nil
}

// MustBuild is Build for static definitions; it panics on error.
func (b *Builder) MustBuild() *domain.Machine {
	m, err := b.Build()
	if err != nil {
		panic(err)
	}
	return m
}

// Catalog builds every machine into a memory loader.
func Catalog(builders ...*Builder) (*memory.Loader, error) {
	machines := make([]*domain.Machine, 0, len(builders))
	for _, b := range builders {
		m, err := b.Build()
		if err != nil {
			return nil, err
		}
		machines = append(machines, m)
	}

	loader, err := memory.NewLoader(machines...)
	if err != nil {
		return nil, fmt.Errorf("failed to build memory loader: %w", err)
	}
	return loader, nil
}

// RuleBuilder completes a rule started by Builder.On.
type RuleBuilder struct {
	builder *Builder
	state   string
	read    string
}

// Go adds the rule and returns the machine builder for chaining.
func (r *RuleBuilder) Go(next, write string, move domain.Move) *Builder {
	r.builder.transitions = append(r.builder.transitions, domain.Transition{
		State: r.state,
		Read:  r.read,
		Next:  next,
		Write: write,
		Move:  move,
	})
	return r.builder
}

// Left is Go with domain.MoveLeft.
func (r *RuleBuilder) Left(next, write string) *Builder {
	return r.Go(next, write, domain.MoveLeft)
}

// Right is Go with domain.MoveRight.
func (r *RuleBuilder) Right(next, write string) *Builder {
	return r.Go(next, write, domain.MoveRight)
}

// Stay is Go with domain.MoveStay.
func (r *RuleBuilder) Stay(next, write string) *Builder {
	return r.Go(next, write, domain.MoveStay)
}
