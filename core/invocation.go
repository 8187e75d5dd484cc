package core

import (
	"context"
	"time"

	"github.com/kaiwahq/kaiwa/logging"
)

// InvocationContext is the constrained execution surface handed to a tool
// handler. One context is created per tool call, owns that call's
// cancellation scope, and is discarded after completion; it is never reused.
type InvocationContext struct {
	ctx    context.Context
	logger logging.Logger
	memory MemoryStore

	UserID    string
	SessionID string
	RunID     string
	Locale    string
	IPAddress string
	Geo       string
	UserName  string
	StartedAt time.Time
}

// InvocationInfo carries the caller identity and environment attached to a
// tool call.
type InvocationInfo struct {
	UserID    string
	SessionID string
	Locale    string
	IPAddress string
	Geo       string
	UserName  string
}

// NewInvocationContext binds an invocation to its cancellation context. The
// ctx already carries the per-call deadline set by the executor; handlers are
// expected to observe it.
func NewInvocationContext(ctx context.Context, info InvocationInfo, memory MemoryStore, logger logging.Logger) *InvocationContext {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &InvocationContext{
		ctx:       ctx,
		logger:    logger,
		memory:    memory,
		UserID:    info.UserID,
		SessionID: info.SessionID,
		RunID:     NewID(),
		Locale:    info.Locale,
		IPAddress: info.IPAddress,
		Geo:       info.Geo,
		UserName:  info.UserName,
		StartedAt: time.Now().UTC(),
	}
}

// Context returns the cancellation context scoped to this invocation.
func (ic *InvocationContext) Context() context.Context { return ic.ctx }

// Done mirrors context.Context's Done for the invocation scope.
func (ic *InvocationContext) Done() <-chan struct{} { return ic.ctx.Done() }

// Err returns the cancellation error (if any) for the invocation scope.
func (ic *InvocationContext) Err() error { return ic.ctx.Err() }

// Logger returns the logger bound to this invocation.
func (ic *InvocationContext) Logger() logging.Logger { return ic.logger }

// SearchMemory performs a recall query against the configured MemoryStore.
func (ic *InvocationContext) SearchMemory(query string, opt SearchOptions) ([]SearchResult, error) {
	if ic.memory == nil {
		return []SearchResult{}, nil
	}
	return ic.memory.Search(ic.ctx, ic.UserID, query, opt)
}

// StoreMemory appends content plus metadata to the MemoryStore.
func (ic *InvocationContext) StoreMemory(content string, metadata map[string]any) error {
	if ic.memory == nil {
		return nil
	}
	return ic.memory.Store(ic.ctx, ic.UserID, content, metadata)
}
