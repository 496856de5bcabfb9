/*
Package domain contains the core domain models of the tracer.

It defines the data a Turing machine run is made of: the machine definition, its
transitions, the display form of a configuration, the per-depth trace and the final
result. This package is kept pure and free of external dependencies like I/O or
persistence, following Hexagonal Architecture principles.

# Key Entities

  - Machine: a single-tape Turing machine declared as data (states, alphabets, transitions).
  - Transition: one row of the transition table; several rows may share (state, symbol).
  - ConfigView: the left-of-head / state / right-of-head triple recorded in a trace.
  - Snapshot: every configuration reached at one depth.
  - Result: the trace, the verdict and the number of transitions considered.
*/
package domain
