/*
Package ports defines the driven ports (interfaces) of the tracer.

These interfaces decouple the exploration core from external implementations, allowing
the engine to read machine definitions from, and persist results to, various backends.

# Key Interfaces

  - MachineLoader: Resolves machine definitions by name (e.g., from a directory, Loam or Memory).
  - ResultStore: Persists trace results so they can be listed, reloaded and deleted.
  - Tracer: The driving port the HTTP and MCP adapters call into.
*/
package ports
