// Package testutil provides small builders shared by tests across packages.
package testutil

import (
	"time"

	"github.com/kaiwahq/kaiwa/core"
)

// UserTurn builds a user turn with the given text.
func UserTurn(text string) core.Turn {
	return core.NewTextTurn(core.RoleUser, text)
}

// AssistantTurn builds an assistant turn with the given text.
func AssistantTurn(text string) core.Turn {
	return core.NewTextTurn(core.RoleAssistant, text)
}

// History interleaves the given texts as alternating user/assistant turns,
// starting with the user, with monotonically increasing timestamps.
func History(texts ...string) []core.Turn {
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	turns := make([]core.Turn, 0, len(texts))
	for i, text := range texts {
		role := core.RoleUser
		if i%2 == 1 {
			role = core.RoleAssistant
		}
		turn := core.NewTextTurn(role, text)
		turn.Timestamp = base.Add(time.Duration(i) * time.Minute)
		turns = append(turns, turn)
	}
	return turns
}
