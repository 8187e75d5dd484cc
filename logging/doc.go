// Package logging provides a tiny abstraction over slog so downstream code can
// depend on a minimal interface (Logger) while allowing users to plug any
// structured logger. It also offers a richer PipelineLogger with contextual
// helpers (session, run, component) and domain specific logging helpers for
// tools, completion calls and detectors.
package logging
