package tool

import (
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/kaiwahq/kaiwa/core"
)

// Output is a handler's raw return shape before normalization. A handler may
// report a domain-level failure through Error while still completing
// normally; the executor surfaces that as status "error" without an error
// kind.
type Output struct {
	Result         string
	Error          string
	StructuredData map[string]any
}

// Handler executes a tool with validated arguments. The invocation context
// carries the per-call cancellation scope; handlers are expected to observe
// it. A returned error (as opposed to Output.Error) is treated as an internal
// failure.
type Handler func(inv *core.InvocationContext, args map[string]any) (*Output, error)

// Definition declares one registered tool. Definitions are registered at
// construction and immutable for the process lifetime (hot reload is out of
// scope).
type Definition struct {
	// Name is the unique tool identifier (snake_case recommended).
	Name string
	// Aliases are alternative names resolving to this tool.
	Aliases []string
	// Description is exposed to models through the catalog text block.
	Description string
	// ArgsSchema is a JSON-schema-like map validated before execution.
	ArgsSchema map[string]any
	// Handler is the implementation invoked with validated arguments.
	Handler Handler
	// Timeout bounds one invocation; zero falls back to the executor default.
	Timeout time.Duration
	// Enabled gates the tool; disabled tools reject before argument
	// validation so schema details are not leaked.
	Enabled bool
	// RateLimit optionally throttles invocations across all sessions.
	RateLimit *rate.Limiter
	// MaxCallsPerSession optionally caps invocations per session (0 = none).
	MaxCallsPerSession int
}

// ToolError represents errors raised while assembling the tool subsystem
// (duplicate registrations, invalid definitions).
type ToolError struct {
	Tool    string
	Message string
	Code    string
}

func (e *ToolError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("tool error [%s] in %s: %s", e.Code, e.Tool, e.Message)
	}
	return fmt.Sprintf("tool error in %s: %s", e.Tool, e.Message)
}

// NewToolError creates a new ToolError with the specified details.
func NewToolError(tool, message, code string) *ToolError {
	return &ToolError{Tool: tool, Message: message, Code: code}
}
