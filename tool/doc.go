// Package tool implements the schema-validated tool subsystem: the immutable
// registry mapping tool names (and aliases) to definitions, and the executor
// that validates arguments, enforces per-call timeouts and cancellation, and
// normalizes every outcome into core.ToolResult.
package tool
