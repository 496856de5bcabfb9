/*
Package tracetm traces non-deterministic Turing machines.

Given a machine definition and an input string, the tracer explores every
computation branch breadth-first, one depth at a time. It records every
configuration it sees, refuses to expand a configuration twice, and stops as
soon as any branch reaches the accept state, the frontier empties, or the depth
bound is reached.

# Concept

A machine definition is plain data (pkg/domain). Definitions come from a
MachineLoader: a directory of CSV/YAML/JSON files, a Loam document catalog, or
an in-memory set built with pkg/dsl. Results can be persisted through a
ResultStore (memory, zstd files, SQLite or Redis) and served over HTTP or MCP.

# Usage

	eng, err := tracetm.New("./machines")
	if err != nil {
		log.Fatal(err)
	}

	res, err := eng.Trace(ctx, "a_plus", "aaa_")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(res.Verdict(), res.FinalDepth(), res.Transitions)

For one-off runs on a machine already in memory, Run mirrors the core contract:

	trace, accepted, transitions := tracetm.Run(m, "aaa_", 100)
*/
package tracetm
