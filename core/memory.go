package core

import "context"

// SearchOptions bounds a memory search.
type SearchOptions struct {
	Limit  int
	Offset int
}

// SearchResult represents a retrieved memory item with a relevance score and
// arbitrary metadata.
type SearchResult struct {
	ID         string
	Content    string
	MemoryType string
	Score      float64
	Metadata   map[string]any
}

// MemoryStore defines persistence and retrieval for long-lived user memory
// snippets. Implementations can back search with embeddings, keywords or any
// heuristic; detectors use it for topic extraction and context sufficiency
// checks.
type MemoryStore interface {
	Search(ctx context.Context, userID, query string, opt SearchOptions) ([]SearchResult, error)
	Store(ctx context.Context, userID, content string, metadata map[string]any) error
}

// ConversationStore persists per-session turn history. The HTTP surface uses
// it to supply history to the pipeline; the core itself only ever reads
// history passed in by the caller.
type ConversationStore interface {
	Append(ctx context.Context, sessionID string, turn Turn) error
	History(ctx context.Context, sessionID string, limit int) ([]Turn, error)
}
