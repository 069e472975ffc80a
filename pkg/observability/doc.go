/*
Package observability provides tools for monitoring the menube engine.

It includes Prometheus collectors fed from the event bus and lifecycle hooks
that audit navigation and command execution through slog.
*/
package observability
