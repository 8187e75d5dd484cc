package tool

import (
	"fmt"
	"strings"
	"time"

	"github.com/kaiwahq/kaiwa/core"
	"github.com/kaiwahq/kaiwa/internal/util"
)

type memorySearchArgs struct {
	Query string `json:"query" description:"Free-text query to search stored memories for."`
	Limit int    `json:"limit,omitempty" description:"Maximum number of memories to return (default 5)."`
}

type memorySaveArgs struct {
	Content    string `json:"content" description:"The fact or note to remember."`
	MemoryType string `json:"memoryType,omitempty" description:"Optional category, e.g. preference, fact, goal."`
}

// NewMemorySearchTool returns a tool definition that searches the user's
// long-term memory through the supplied store.
func NewMemorySearchTool(store core.MemoryStore) Definition {
	return Definition{
		Name:        "memory_search",
		Aliases:     []string{"search_memory", "recall"},
		Description: "Search the user's long-term memory for relevant facts, preferences and past notes.",
		ArgsSchema:  util.CreateSchema(memorySearchArgs{}),
		Enabled:     true,
		Timeout:     5 * time.Second,
		Handler: func(inv *core.InvocationContext, args map[string]any) (*Output, error) {
			query, _ := args["query"].(string)
			limit := 5
			if v, ok := args["limit"].(float64); ok && v > 0 {
				limit = int(v)
			}

			hits, err := store.Search(inv.Context(), inv.UserID, query, core.SearchOptions{Limit: limit})
			if err != nil {
				return nil, fmt.Errorf("memory search: %w", err)
			}
			if len(hits) == 0 {
				return &Output{Result: "No matching memories found."}, nil
			}

			var sb strings.Builder
			for i, hit := range hits {
				fmt.Fprintf(&sb, "%d. %s", i+1, hit.Content)
				if hit.MemoryType != "" {
					fmt.Fprintf(&sb, " (%s)", hit.MemoryType)
				}
				sb.WriteString("\n")
			}
			return &Output{
				Result:         strings.TrimRight(sb.String(), "\n"),
				StructuredData: map[string]any{"memories": hits},
			}, nil
		},
	}
}

// NewMemorySaveTool returns a tool definition that persists a note into the
// user's long-term memory.
func NewMemorySaveTool(store core.MemoryStore) Definition {
	return Definition{
		Name:        "memory_save",
		Aliases:     []string{"remember"},
		Description: "Save a fact, preference or note to the user's long-term memory.",
		ArgsSchema:  util.CreateSchema(memorySaveArgs{}),
		Enabled:     true,
		Timeout:     5 * time.Second,
		Handler: func(inv *core.InvocationContext, args map[string]any) (*Output, error) {
			content, _ := args["content"].(string)
			metadata := map[string]any{}
			if mt, ok := args["memoryType"].(string); ok && mt != "" {
				metadata["memoryType"] = mt
			}
			if err := store.Store(inv.Context(), inv.UserID, content, metadata); err != nil {
				return nil, fmt.Errorf("memory save: %w", err)
			}
			return &Output{Result: "Saved."}, nil
		},
	}
}
