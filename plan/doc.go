// Package plan defines the closed set of specialized plan shapes the
// classifier chain can produce, plus the completion-backed Generator that
// builds them. Every variant projects onto core.ExecutionPlan, so the
// executor only ever consumes the common step shape.
package plan
