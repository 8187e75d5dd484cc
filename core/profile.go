package core

import (
	"fmt"
	"strings"
)

// UserProfile is optional read-only caller state consumed by disambiguation
// and prompt assembly. The core never mutates it.
type UserProfile struct {
	DisplayName   string   `json:"displayName,omitempty"`
	Locale        string   `json:"locale,omitempty"`
	Timezone      string   `json:"timezone,omitempty"`
	PersonaTraits []string `json:"personaTraits,omitempty"`
}

// Summary renders a compact single-line description suitable for inclusion in
// a bounded prompt context. Empty fields are omitted.
func (p *UserProfile) Summary() string {
	if p == nil {
		return ""
	}
	var parts []string
	if p.DisplayName != "" {
		parts = append(parts, fmt.Sprintf("name=%s", p.DisplayName))
	}
	if p.Locale != "" {
		parts = append(parts, fmt.Sprintf("locale=%s", p.Locale))
	}
	if p.Timezone != "" {
		parts = append(parts, fmt.Sprintf("timezone=%s", p.Timezone))
	}
	if len(p.PersonaTraits) > 0 {
		parts = append(parts, fmt.Sprintf("persona=%s", strings.Join(p.PersonaTraits, ",")))
	}
	return strings.Join(parts, " ")
}
