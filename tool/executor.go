package tool

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kaiwahq/kaiwa/core"
	"github.com/kaiwahq/kaiwa/internal/util"
	"github.com/kaiwahq/kaiwa/logging"
)

// DefaultTimeout bounds tool invocations whose definition does not specify
// its own timeout.
const DefaultTimeout = 10 * time.Second

// disabledMessage is the fixed user-facing message for switched-off tools.
// Intentionally generic: a disabled feature should appear unavailable, not
// misconfigured.
const disabledMessage = "This capability is currently unavailable."

// ExecutorOptions configure an Executor.
type ExecutorOptions struct {
	// DefaultTimeout is applied when a definition has no Timeout.
	DefaultTimeout time.Duration
	// Memory is handed to invocation contexts for handler-side recall.
	Memory core.MemoryStore
	// Logger receives structured execution logs.
	Logger logging.Logger
}

// Executor runs registered tools with argument validation, per-call timeouts,
// cancellation and uniform result normalization. Every failure mode is
// returned as a core.ToolResult value; Execute never panics and never
// returns a Go error to its caller.
type Executor struct {
	registry       *Registry
	defaultTimeout time.Duration
	memory         core.MemoryStore
	logger         logging.Logger

	mu           sync.Mutex
	sessionCalls map[string]map[string]int // sessionID -> tool -> count
}

// NewExecutor constructs an Executor bound to an immutable registry.
func NewExecutor(registry *Registry, optFns ...func(o *ExecutorOptions)) *Executor {
	opts := ExecutorOptions{
		DefaultTimeout: DefaultTimeout,
		Logger:         logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Executor{
		registry:       registry,
		defaultTimeout: opts.DefaultTimeout,
		memory:         opts.Memory,
		logger:         opts.Logger,
		sessionCalls:   map[string]map[string]int{},
	}
}

// Execute runs one tool call end to end: alias resolution, enablement check,
// schema validation, timed execution and normalization. The order is
// deliberate: disabled state is checked before validation so schema details
// never leak for a feature that should appear unavailable.
func (e *Executor) Execute(ctx context.Context, nameOrAlias string, rawArgs map[string]any, info core.InvocationInfo) core.ToolResult {
	start := time.Now()

	def, ok := e.registry.Resolve(nameOrAlias)
	if !ok {
		e.logger.Warn("tool.execute.unknown", "tool", nameOrAlias)
		return core.ToolResult{
			Status:    core.StatusError,
			Message:   fmt.Sprintf("Unknown tool %q.", nameOrAlias),
			ErrorKind: core.ErrorKindNotFound,
			Elapsed:   time.Since(start),
		}
	}

	if !def.Enabled {
		e.logger.Info("tool.execute.disabled", "tool", def.Name)
		return core.ToolResult{
			Status:    core.StatusError,
			Message:   disabledMessage,
			ErrorKind: core.ErrorKindDisabled,
			Elapsed:   time.Since(start),
		}
	}

	if rawArgs == nil {
		rawArgs = map[string]any{}
	}
	if violations := util.ValidateArgs(rawArgs, def.ArgsSchema); len(violations) > 0 {
		e.logger.Warn("tool.execute.invalid_args", "tool", def.Name, "violations", len(violations))
		return core.ToolResult{
			Status:     core.StatusError,
			Message:    fmt.Sprintf("Invalid arguments for %q.", def.Name),
			ErrorKind:  core.ErrorKindInvalidArguments,
			Violations: violations,
			Elapsed:    time.Since(start),
		}
	}

	// Budgets account only for calls that will actually run; a rejected
	// argument set must not consume a rate token or session credit.
	if res, limited := e.checkBudgets(def, info, start); limited {
		return res
	}

	res := e.run(ctx, def, rawArgs, info)
	res.Elapsed = time.Since(start)
	e.logger.Debug("tool.execute.done", "tool", def.Name, "status", res.Status, "duration_ms", res.Elapsed.Milliseconds())
	return res
}

// checkBudgets enforces the optional rate limiter and per-session call cap.
func (e *Executor) checkBudgets(def *Definition, info core.InvocationInfo, start time.Time) (core.ToolResult, bool) {
	if def.RateLimit != nil && !def.RateLimit.Allow() {
		e.logger.Warn("tool.execute.rate_limited", "tool", def.Name)
		return core.ToolResult{
			Status:    core.StatusError,
			Message:   fmt.Sprintf("Too many calls to %q; try again shortly.", def.Name),
			ErrorKind: core.ErrorKindRateLimited,
			Elapsed:   time.Since(start),
		}, true
	}

	if def.MaxCallsPerSession > 0 && info.SessionID != "" {
		e.mu.Lock()
		counts := e.sessionCalls[info.SessionID]
		if counts == nil {
			counts = map[string]int{}
			e.sessionCalls[info.SessionID] = counts
		}
		if counts[def.Name] >= def.MaxCallsPerSession {
			e.mu.Unlock()
			e.logger.Warn("tool.execute.session_budget", "tool", def.Name, "session_id", info.SessionID)
			return core.ToolResult{
				Status:    core.StatusError,
				Message:   fmt.Sprintf("Call budget for %q exhausted in this session.", def.Name),
				ErrorKind: core.ErrorKindRateLimited,
				Elapsed:   time.Since(start),
			}, true
		}
		counts[def.Name]++
		e.mu.Unlock()
	}

	return core.ToolResult{}, false
}

type handlerOutcome struct {
	output *Output
	err    error
}

// run executes the handler under its deadline. The invocation context owns a
// fresh cancellation scope derived from ctx; the executor's response is
// returned when the deadline fires regardless of whether the handler has
// actually stopped; a handler that ignores its context leaks a goroutine but
// never blocks the caller.
func (e *Executor) run(ctx context.Context, def *Definition, args map[string]any, info core.InvocationInfo) core.ToolResult {
	timeout := def.Timeout
	if timeout <= 0 {
		timeout = e.defaultTimeout
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	inv := core.NewInvocationContext(callCtx, info, e.memory, e.logger)
	started := time.Now()

	outcomeCh := make(chan handlerOutcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				outcomeCh <- handlerOutcome{err: fmt.Errorf("handler panic: %v", r)}
			}
		}()
		output, err := def.Handler(inv, args)
		outcomeCh <- handlerOutcome{output: output, err: err}
	}()

	select {
	case <-callCtx.Done():
		elapsed := time.Since(started)
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			e.logger.Warn("tool.execute.timeout", "tool", def.Name, "timeout_ms", timeout.Milliseconds())
			return core.ToolResult{
				Status:    core.StatusError,
				Message:   fmt.Sprintf("Tool %q timed out after %s.", def.Name, elapsed.Round(time.Millisecond)),
				ErrorKind: core.ErrorKindTimeout,
			}
		}
		// Outer request-level cancellation propagated into the call.
		return core.ToolResult{
			Status:    core.StatusError,
			Message:   fmt.Sprintf("Tool %q invocation canceled.", def.Name),
			ErrorKind: core.ErrorKindInternal,
		}
	case outcome := <-outcomeCh:
		return normalize(def.Name, outcome)
	}
}

// normalize converts the handler's heterogeneous return shape into a
// deterministic ToolResult.
func normalize(name string, outcome handlerOutcome) core.ToolResult {
	if outcome.err != nil {
		return core.ToolResult{
			Status:    core.StatusError,
			Message:   outcome.err.Error(),
			ErrorKind: core.ErrorKindInternal,
		}
	}

	output := outcome.output
	if output == nil {
		output = &Output{}
	}
	if output.Error != "" {
		// The handler completed but reported a domain failure: status is
		// error with no executor error kind.
		return core.ToolResult{
			Status:  core.StatusError,
			Message: output.Error,
			Data:    output.StructuredData,
		}
	}

	message := output.Result
	if message == "" {
		message = fmt.Sprintf("Tool %q completed.", name)
	}
	return core.ToolResult{
		Status:  core.StatusSuccess,
		Message: message,
		Data:    output.StructuredData,
	}
}

// BatchCall is one entry of a batch execution request.
type BatchCall struct {
	Tool string         `json:"toolName"`
	Args map[string]any `json:"arguments"`
}

// ExecuteBatch runs the calls concurrently. Each call's failure is caught
// independently so one tool's error never affects its siblings; the returned
// slice preserves input order with exactly one result per input.
func (e *Executor) ExecuteBatch(ctx context.Context, calls []BatchCall, info core.InvocationInfo) []core.ToolResult {
	results := make([]core.ToolResult, len(calls))
	g, gctx := errgroup.WithContext(ctx)
	for i, call := range calls {
		g.Go(func() error {
			results[i] = e.Execute(gctx, call.Tool, call.Args, info)
			return nil
		})
	}
	// Goroutines never return errors; Wait only synchronizes completion.
	_ = g.Wait()
	return results
}
