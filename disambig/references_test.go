package disambig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaiwahq/kaiwa/core"
	"github.com/kaiwahq/kaiwa/internal/testutil"
)

func TestFindReferencedTurns(t *testing.T) {
	history := testutil.History(
		"set a reminder for the dentist",
		"Done, reminder set for the Dentist appointment.",
		"what's the weather tomorrow?",
		"Sunny and 21 degrees tomorrow.",
		"play some jazz",
	)

	t.Run("literal match is case-insensitive and order-preserving", func(t *testing.T) {
		matched := FindReferencedTurns([]core.Entity{{Name: "dentist", Type: "appointment"}}, history)

		require.Len(t, matched, 2)
		assert.Equal(t, "set a reminder for the dentist", matched[0].Text())
		assert.Equal(t, "Done, reminder set for the Dentist appointment.", matched[1].Text())
	})

	t.Run("date entity matches the date vocabulary", func(t *testing.T) {
		matched := FindReferencedTurns([]core.Entity{{Name: "tomorrow 3pm", Type: "date"}}, history)

		require.Len(t, matched, 2)
		assert.Equal(t, "what's the weather tomorrow?", matched[0].Text())
	})

	t.Run("each turn appears at most once", func(t *testing.T) {
		matched := FindReferencedTurns([]core.Entity{
			{Name: "dentist", Type: "appointment"},
			{Name: "reminder", Type: "task"},
		}, history)

		require.Len(t, matched, 2)
	})

	t.Run("no entities", func(t *testing.T) {
		assert.Nil(t, FindReferencedTurns(nil, history))
	})

	t.Run("no matches", func(t *testing.T) {
		assert.Empty(t, FindReferencedTurns([]core.Entity{{Name: "groceries", Type: "list"}}, history))
	})
}
