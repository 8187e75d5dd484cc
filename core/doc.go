// Package core provides the foundational domain types and execution contexts
// used by kaiwa. It defines the shared abstractions for:
//
//   - Turns (immutable conversation history entries with heterogeneous parts)
//   - Disambiguation results (resolved queries, entities, references)
//   - Classifications (multi-intent analysis of a single turn)
//   - Execution plans (ordered/parallel tool-call and narrative steps)
//   - ToolResult / ErrorKind (the normalized outcome of a tool invocation)
//   - InvocationContext (scoped, cancellable per-call execution state)
//   - Pluggable stores for conversational memory and session history
//
// The package intentionally keeps implementation concerns (completion
// providers, detectors, the executor, HTTP) out of scope, exposing small
// interfaces so backends can be swapped at wiring time.
package core
