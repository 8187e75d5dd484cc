package completion

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/kaiwahq/kaiwa/core"
)

// Request captures one structured completion call.
type Request struct {
	// SystemPrompt frames the task for the model.
	SystemPrompt string
	// Input is the user-facing payload (query plus any rendered context).
	Input string
	// Schema is a JSON-schema-like map the response must conform to.
	Schema map[string]any
	// History optionally supplies prior conversation turns.
	History []core.Turn
	// Model optionally overrides the provider's default model id.
	Model string
	// CallerID identifies the call site for logging and mock routing
	// (e.g. "disambiguator", "classifier.multi_intent", "planner.focus_mode").
	CallerID string
}

// Client is the structured completion service. Complete decodes the
// provider's schema-conformant JSON response into out (a pointer).
type Client interface {
	Complete(ctx context.Context, req Request, out any) error
}

// MockClient is an in-memory Client for tests and examples. Responses are
// raw JSON documents keyed by CallerID; unmatched calls fall back to the
// default response or fail. All calls are counted per caller so tests can
// assert that a path never reached the completion service.
type MockClient struct {
	mu        sync.Mutex
	responses map[string]string
	fallback  string
	err       error
	calls     map[string]int
}

// NewMockClient constructs an empty MockClient.
func NewMockClient() *MockClient {
	return &MockClient{
		responses: map[string]string{},
		calls:     map[string]int{},
	}
}

// AddResponse registers a canned raw-JSON completion for a caller ID.
func (m *MockClient) AddResponse(callerID, rawJSON string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[callerID] = rawJSON
}

// SetFallback registers a raw-JSON response used when no caller match exists.
func (m *MockClient) SetFallback(rawJSON string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fallback = rawJSON
}

// Fail makes every subsequent call return err.
func (m *MockClient) Fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// CallCount returns how many times the given caller invoked Complete. An
// empty callerID returns the total across all callers.
func (m *MockClient) CallCount(callerID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if callerID == "" {
		total := 0
		for _, n := range m.calls {
			total += n
		}
		return total
	}
	return m.calls[callerID]
}

// Complete implements Client.
func (m *MockClient) Complete(ctx context.Context, req Request, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	m.calls[req.CallerID]++
	raw, ok := m.responses[req.CallerID]
	if !ok {
		raw = m.fallback
	}
	err := m.err
	m.mu.Unlock()

	if err != nil {
		return err
	}
	if raw == "" {
		return fmt.Errorf("mock completion: no response registered for caller %q", req.CallerID)
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("mock completion: decode response: %w", err)
	}
	return nil
}
