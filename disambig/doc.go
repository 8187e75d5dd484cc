// Package disambig resolves pronouns and implicit references in the latest
// user turn against conversation history and the optional user profile. The
// result upgrades the query downstream stages operate on; any failure
// degrades to the original query, so disambiguation is an optimization, never
// a hard dependency.
package disambig
