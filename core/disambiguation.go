package core

// ReferenceKind categorizes how an entity was referenced in the user query.
type ReferenceKind string

const (
	// ReferenceDirect is an explicit mention ("the 3pm reminder").
	ReferenceDirect ReferenceKind = "direct"
	// ReferencePronoun is a pronoun reference ("it", "that").
	ReferencePronoun ReferenceKind = "pronoun"
	// ReferenceDemonstrative is a demonstrative reference ("this one").
	ReferenceDemonstrative ReferenceKind = "demonstrative"
	// ReferenceImplied is an unstated reference recovered from context.
	ReferenceImplied ReferenceKind = "implied"
)

// Confidence is a coarse three-level certainty grade.
type Confidence string

const (
	// ConfidenceHigh marks a near-certain resolution.
	ConfidenceHigh Confidence = "high"
	// ConfidenceMedium marks a plausible but unverified resolution.
	ConfidenceMedium Confidence = "medium"
	// ConfidenceLow marks a speculative resolution.
	ConfidenceLow Confidence = "low"
)

// Entity is a named thing extracted from the query during disambiguation.
type Entity struct {
	Name          string        `json:"name"`
	Type          string        `json:"type"`
	ReferenceKind ReferenceKind `json:"referenceKind,omitempty"`
	LinkedTo      string        `json:"linkedTo,omitempty"`
}

// Reference records the resolution of an anaphoric expression against
// conversation history.
type Reference struct {
	Expression string     `json:"expression"`
	ResolvedTo string     `json:"resolvedTo"`
	Confidence Confidence `json:"confidence,omitempty"`
}

// DisambiguationResult is the outcome of resolving pronouns and implicit
// references in the latest user turn. Created once per turn; immutable.
type DisambiguationResult struct {
	OriginalQuery    string      `json:"originalQuery"`
	ResolvedQuery    string      `json:"resolvedQuery"`
	Entities         []Entity    `json:"entities,omitempty"`
	References       []Reference `json:"references,omitempty"`
	ImplicitNeeds    []string    `json:"implicitNeeds,omitempty"`
	TrueIntent       string      `json:"trueIntent"`
	Confidence       Confidence  `json:"confidence,omitempty"`
	LanguageDetected string      `json:"languageDetected,omitempty"`
}

// CanonicalQuery returns the query all downstream stages should operate on:
// the resolved query, falling back to the extracted intent, falling back to
// the original input.
func (r *DisambiguationResult) CanonicalQuery() string {
	if r == nil {
		return ""
	}
	if r.ResolvedQuery != "" {
		return r.ResolvedQuery
	}
	if r.TrueIntent != "" {
		return r.TrueIntent
	}
	return r.OriginalQuery
}
