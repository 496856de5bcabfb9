/*
Package dsl provides a Go DSL for programmatically constructing Turing machines.

It allows developers to define transition tables with a fluent builder instead of
writing CSV or YAML files. This is particularly useful for generated machines,
unit tests, and IDE autocompletion/type-checking.

States and tape symbols are inferred from the rules; only the input alphabet
needs declaring when it differs from the symbols the rules read.

Example usage:

	m, err := dsl.New("a_plus").
		On("q0", "a").Right("q1", "a").
		On("q1", "a").Right("q1", "a").
		On("q1", "a").Stay("qrej", "a").
		On("q1", "_").Stay("qacc", "_").
		Build()
*/
package dsl
