package tool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaiwahq/kaiwa/core"
)

func noopHandler(_ *core.InvocationContext, _ map[string]any) (*Output, error) {
	return &Output{Result: "ok"}, nil
}

func TestNewRegistry(t *testing.T) {
	t.Run("resolves by name and alias", func(t *testing.T) {
		reg, err := NewRegistry(
			Definition{Name: "get_weather", Aliases: []string{"weather"}, Enabled: true, Handler: noopHandler},
		)
		require.NoError(t, err)

		def, ok := reg.Resolve("get_weather")
		require.True(t, ok)
		assert.Equal(t, "get_weather", def.Name)

		def, ok = reg.Resolve("weather")
		require.True(t, ok)
		assert.Equal(t, "get_weather", def.Name)

		_, ok = reg.Resolve("unknown")
		assert.False(t, ok)
	})

	t.Run("rejects duplicate names", func(t *testing.T) {
		_, err := NewRegistry(
			Definition{Name: "echo", Enabled: true, Handler: noopHandler},
			Definition{Name: "echo", Enabled: true, Handler: noopHandler},
		)
		require.Error(t, err)
	})

	t.Run("rejects alias colliding with a name", func(t *testing.T) {
		_, err := NewRegistry(
			Definition{Name: "echo", Enabled: true, Handler: noopHandler},
			Definition{Name: "print", Aliases: []string{"echo"}, Enabled: true, Handler: noopHandler},
		)
		require.Error(t, err)
	})

	t.Run("rejects missing handler", func(t *testing.T) {
		_, err := NewRegistry(Definition{Name: "broken", Enabled: true})
		require.Error(t, err)
	})
}

func TestRegistryCatalog(t *testing.T) {
	reg, err := NewRegistry(
		Definition{
			Name:        "get_weather",
			Description: "Get the current weather for a city.",
			Enabled:     true,
			Handler:     noopHandler,
			ArgsSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"city":  map[string]any{"type": "string"},
					"units": map[string]any{"type": "string"},
				},
				"required": []string{"city"},
			},
		},
		Definition{Name: "hidden_tool", Description: "Should not appear.", Enabled: false, Handler: noopHandler},
	)
	require.NoError(t, err)

	catalog := reg.Catalog()
	assert.Contains(t, catalog, "get_weather")
	assert.Contains(t, catalog, "required: city")
	assert.Contains(t, catalog, "optional: units")
	assert.NotContains(t, catalog, "hidden_tool")
}

func TestRegistryRequiredArgs(t *testing.T) {
	reg := MustNewRegistry(Definition{
		Name:    "set_reminder",
		Enabled: true,
		Handler: noopHandler,
		ArgsSchema: map[string]any{
			"type":     "object",
			"required": []any{"title", "time"},
		},
	})
	assert.Equal(t, []string{"title", "time"}, reg.RequiredArgs("set_reminder"))
	assert.Nil(t, reg.RequiredArgs("missing"))
}
