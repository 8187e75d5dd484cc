package core

import "time"

// ErrorKind categorizes terminal tool invocation failures. The zero value
// means no error.
type ErrorKind string

const (
	// ErrorKindNone marks a successful invocation.
	ErrorKindNone ErrorKind = ""
	// ErrorKindNotFound is returned for an unknown tool name or alias.
	ErrorKindNotFound ErrorKind = "not_found"
	// ErrorKindDisabled is returned for a registered but switched-off tool.
	ErrorKindDisabled ErrorKind = "disabled"
	// ErrorKindInvalidArguments is returned on a schema violation; the result
	// always carries the structured violation list.
	ErrorKindInvalidArguments ErrorKind = "invalid_arguments"
	// ErrorKindTimeout is returned when a handler exceeds its deadline.
	ErrorKindTimeout ErrorKind = "timeout"
	// ErrorKindInternal is returned for an unhandled handler panic or an
	// unexpected upstream response shape.
	ErrorKindInternal ErrorKind = "internal"
	// ErrorKindUpstreamUnavailable is used only by non-critical paths that
	// degrade gracefully (completion / memory service failure).
	ErrorKindUpstreamUnavailable ErrorKind = "upstream_unavailable"
	// ErrorKindRateLimited is returned when a tool's rate limit or
	// per-session call budget is exhausted.
	ErrorKindRateLimited ErrorKind = "rate_limited"
)

// Violation is one structured argument-schema violation. The executor never
// rewords violations into prose so consumers can render field-specific errors.
type Violation struct {
	Path    string `json:"path"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// Status values carried by ToolResult.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// ToolResult is the terminal, normalized outcome of one tool invocation. It
// is never mutated after creation and is always returned as a value, never as
// a thrown error: every failure kind is data to the caller.
type ToolResult struct {
	Status     string         `json:"status"`
	Message    string         `json:"message"`
	Data       map[string]any `json:"data,omitempty"`
	ErrorKind  ErrorKind      `json:"errorKind,omitempty"`
	Violations []Violation    `json:"violations,omitempty"`
	Elapsed    time.Duration  `json:"-"`
}

// OK reports whether the invocation completed without error.
func (r ToolResult) OK() bool { return r.Status == StatusSuccess }
