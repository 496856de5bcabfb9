/*
Package observability provides tools for monitoring tracer runs.

It turns the explorer's lifecycle hooks into Prometheus metrics and structured
audit logs. Both are plain domain.LifecycleHooks values and compose with Merge.
*/
package observability
