package disambig

import (
	"strings"

	"github.com/kaiwahq/kaiwa/core"
)

// dateTokens is the fixed vocabulary used to find date-shaped mentions when
// an entity is typed "date" but its literal name may not appear verbatim in
// history (e.g. the entity is "tomorrow 3pm" while the turn says "tomorrow").
var dateTokens = []string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
	"today", "yesterday", "tomorrow", "tonight",
	"next week", "last week", "this weekend", "next month",
}

// FindReferencedTurns returns the history turns that mention any of the given
// entities. Matching is a case-insensitive substring scan of each turn's
// text; entities typed "date" additionally match the relative/absolute date
// vocabulary. History order is preserved and each turn appears at most once.
func FindReferencedTurns(entities []core.Entity, history []core.Turn) []core.Turn {
	if len(entities) == 0 || len(history) == 0 {
		return nil
	}

	var needles []string
	wantDates := false
	for _, e := range entities {
		if name := strings.ToLower(strings.TrimSpace(e.Name)); name != "" {
			needles = append(needles, name)
		}
		if strings.EqualFold(e.Type, "date") {
			wantDates = true
		}
	}
	if wantDates {
		needles = append(needles, dateTokens...)
	}
	if len(needles) == 0 {
		return nil
	}

	var matched []core.Turn
	for _, turn := range history {
		text := strings.ToLower(turn.Text())
		for _, needle := range needles {
			if strings.Contains(text, needle) {
				matched = append(matched, turn)
				break
			}
		}
	}
	return matched
}
