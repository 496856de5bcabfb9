/*
Package runtime implements the breadth-first configuration explorer.

An Index answers "which transitions apply to (state, symbol)?" in constant time.
An Explorer drives a machine over an input one depth at a time: every live
configuration of depth d is expanded before any configuration of depth d+1, so
non-deterministic branches advance in lock step. Configurations whose fingerprint
was already expanded are recorded but never expanded again, which keeps cyclic
machines finite; the depth bound keeps every run finite.
*/
package runtime
