package core

// CategoryMultiIntentComplex is the classifier category indicating a single
// turn bundling more than one distinct request.
const CategoryMultiIntentComplex = "multi_intent_complex"

// Classification is the multi-intent analysis of one user turn. At most one
// Classification is produced per turn; it is derived from the disambiguation
// result plus history and is not persisted by the core.
type Classification struct {
	Category         string   `json:"category"`
	IsMultiIntent    bool     `json:"isMultiIntent"`
	IntentCount      int      `json:"intentCount"`
	PrimaryIntent    string   `json:"primaryIntent"`
	SecondaryIntents []string `json:"secondaryIntents,omitempty"`
}

// MultiIntent reports whether the classification indicates a multi-part
// request, either by category or by reported intent count.
func (c *Classification) MultiIntent() bool {
	if c == nil {
		return false
	}
	return c.IsMultiIntent || c.Category == CategoryMultiIntentComplex || c.IntentCount > 1
}
