package tool

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaiwahq/kaiwa/memory"
)

func TestMemoryTools(t *testing.T) {
	store := memory.NewInMemoryStore()
	exec := NewExecutor(MustNewRegistry(
		NewMemorySearchTool(store),
		NewMemorySaveTool(store),
	), func(o *ExecutorOptions) {
		o.Memory = store
	})
	info := testInfo()

	t.Run("save then search", func(t *testing.T) {
		res := exec.Execute(context.Background(), "memory_save", map[string]any{
			"content":    "User prefers metric units for weather",
			"memoryType": "preference",
		}, info)
		require.True(t, res.OK())

		res = exec.Execute(context.Background(), "memory_search", map[string]any{
			"query": "weather units",
		}, info)
		require.True(t, res.OK())
		assert.Contains(t, res.Message, "metric units")
		assert.Contains(t, res.Message, "(preference)")
	})

	t.Run("search with no hits", func(t *testing.T) {
		res := exec.Execute(context.Background(), "memory_search", map[string]any{
			"query": "zzzunrelated",
		}, info)
		require.True(t, res.OK())
		assert.Equal(t, "No matching memories found.", res.Message)
	})

	t.Run("save requires content", func(t *testing.T) {
		res := exec.Execute(context.Background(), "remember", map[string]any{}, info)
		require.Len(t, res.Violations, 1)
		assert.Equal(t, "content", res.Violations[0].Path)
	})
}
