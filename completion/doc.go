// Package completion defines the structured completion contract: an LLM call
// constrained to return a response conforming to a given JSON schema. The
// pipeline treats providers as opaque; every call site must tolerate an error
// and degrade gracefully. Concrete providers live in the openai and anthropic
// subpackages; MockClient supports deterministic tests.
package completion
