package core

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role identifies the author of a conversation turn.
type Role string

const (
	// RoleUser marks a turn authored by the end user.
	RoleUser Role = "user"
	// RoleAssistant marks a turn authored by the assistant.
	RoleAssistant Role = "assistant"
	// RoleSystem marks an injected system turn.
	RoleSystem Role = "system"
)

// Part represents a polymorphic segment of turn content. Concrete part types
// implement the unexported isPart marker enabling a closed set.
type Part interface{ isPart() }

// TextPart is a plain text content segment.
type TextPart struct {
	Text     string         // Plain UTF-8 text
	Metadata map[string]any // Optional producer-provided metadata
}

// isPart implements the Part interface for TextPart.
func (TextPart) isPart() {}

// ImagePart references image content by URI. The pipeline never fetches the
// image; it only carries the reference through.
type ImagePart struct {
	URI      string
	MimeType string
	Metadata map[string]any
}

// isPart implements the Part interface for ImagePart.
func (ImagePart) isPart() {}

// Turn is a single conversation history entry. Turns are immutable once
// appended; the pipeline receives them read-only and never mutates them.
type Turn struct {
	Role      Role      `json:"role"`
	Parts     []Part    `json:"parts"`
	Timestamp time.Time `json:"timestamp"`
}

// NewTextTurn creates a single-text-part turn stamped with the current time.
func NewTextTurn(role Role, text string) Turn {
	return Turn{
		Role:      role,
		Parts:     []Part{TextPart{Text: text}},
		Timestamp: time.Now().UTC(),
	}
}

// Text joins the text parts of the turn with single spaces, skipping
// non-text parts.
func (t Turn) Text() string {
	var b strings.Builder
	for _, p := range t.Parts {
		if tp, ok := p.(TextPart); ok {
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(tp.Text)
		}
	}
	return b.String()
}

// NewID returns a random unique identifier (UUID v4 string).
func NewID() string { return uuid.NewString() }
