// Package registry keeps ready-to-run explorers keyed by machine name, so the
// transition index of a machine is compiled once per process.
package registry
