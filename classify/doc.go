// Package classify implements the query classifier chain: an ordered
// sequence of specialized detectors that each attempt to claim the canonical
// query. The chain is strictly sequential and short-circuits at the first
// claim; narrow regex detectors come first so the expensive multi-intent
// completion call only runs for queries nothing cheaper recognized.
package classify
