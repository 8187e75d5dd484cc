package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/kaiwahq/kaiwa/core"
)

// storedMemory is the internal representation persisted by InMemoryStore.
type storedMemory struct {
	id         string
	content    string
	memoryType string
	metadata   map[string]any
	seq        int
}

// InMemoryStore is a process-local core.MemoryStore keyed by user. It offers
// append-only stored memories with keyword search:
//
//	score = number of distinct query tokens found in the content
//	        (case-insensitive substring match)
//
// Results are ordered by score descending, insertion order ascending, with
// offset/limit applied after ordering. Suitable for tests, demos and small
// single-process deployments; swap for a vector or full-text index for
// production retrieval.
//
// Concurrency: protected by RWMutex.
type InMemoryStore struct {
	mu      sync.RWMutex
	storage map[string][]storedMemory // userID -> memories
	seq     int
}

// NewInMemoryStore creates a new in-memory memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{storage: map[string][]storedMemory{}}
}

// Store appends content plus metadata under the user's memory. A "memoryType"
// metadata entry, when present, is surfaced on search results.
func (m *InMemoryStore) Store(_ context.Context, userID, content string, metadata map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	memType := ""
	if metadata != nil {
		if v, ok := metadata["memoryType"].(string); ok {
			memType = v
		}
	}
	m.seq++
	m.storage[userID] = append(m.storage[userID], storedMemory{
		id:         core.NewID(),
		content:    content,
		memoryType: memType,
		metadata:   metadata,
		seq:        m.seq,
	})
	return nil
}

// Search performs keyword scoring over the user's stored memories.
func (m *InMemoryStore) Search(ctx context.Context, userID, query string, opt core.SearchOptions) ([]core.SearchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	tokens := queryTokens(query)
	if len(tokens) == 0 {
		return []core.SearchResult{}, nil
	}

	type scored struct {
		mem   storedMemory
		score float64
	}
	var hits []scored
	for _, mem := range m.storage[userID] {
		lc := strings.ToLower(mem.content)
		score := 0.0
		for _, tok := range tokens {
			if strings.Contains(lc, tok) {
				score++
			}
		}
		if score > 0 {
			hits = append(hits, scored{mem: mem, score: score})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return hits[i].mem.seq < hits[j].mem.seq
	})

	if opt.Offset > 0 {
		if opt.Offset >= len(hits) {
			return []core.SearchResult{}, nil
		}
		hits = hits[opt.Offset:]
	}
	if opt.Limit > 0 && len(hits) > opt.Limit {
		hits = hits[:opt.Limit]
	}

	results := make([]core.SearchResult, 0, len(hits))
	for _, h := range hits {
		results = append(results, core.SearchResult{
			ID:         h.mem.id,
			Content:    h.mem.content,
			MemoryType: h.mem.memoryType,
			Score:      h.score,
			Metadata:   h.mem.metadata,
		})
	}
	return results, nil
}

// queryTokens lowercases and splits the query, dropping one-character noise.
func queryTokens(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) > 1 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}
