package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTurnText(t *testing.T) {
	turn := Turn{Role: RoleUser, Parts: []Part{
		TextPart{Text: "hello"},
		ImagePart{URI: "file:///photo.jpg", MimeType: "image/jpeg"},
		TextPart{Text: "world"},
	}}
	assert.Equal(t, "hello world", turn.Text())

	assert.Empty(t, Turn{}.Text())
}

func TestNewTextTurn(t *testing.T) {
	turn := NewTextTurn(RoleAssistant, "sure thing")
	assert.Equal(t, RoleAssistant, turn.Role)
	assert.Equal(t, "sure thing", turn.Text())
	assert.False(t, turn.Timestamp.IsZero())
}

func TestCanonicalQuery(t *testing.T) {
	tests := []struct {
		name   string
		result *DisambiguationResult
		want   string
	}{
		{"nil result", nil, ""},
		{"resolved query wins", &DisambiguationResult{OriginalQuery: "a", TrueIntent: "b", ResolvedQuery: "c"}, "c"},
		{"true intent fallback", &DisambiguationResult{OriginalQuery: "a", TrueIntent: "b"}, "b"},
		{"original fallback", &DisambiguationResult{OriginalQuery: "a"}, "a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.result.CanonicalQuery())
		})
	}
}

func TestClassificationMultiIntent(t *testing.T) {
	assert.False(t, (*Classification)(nil).MultiIntent())
	assert.False(t, (&Classification{Category: "single_intent", IntentCount: 1}).MultiIntent())
	assert.True(t, (&Classification{Category: CategoryMultiIntentComplex}).MultiIntent())
	assert.True(t, (&Classification{IntentCount: 2}).MultiIntent())
	assert.True(t, (&Classification{IsMultiIntent: true}).MultiIntent())
}

func TestUserProfileSummary(t *testing.T) {
	var p *UserProfile
	assert.Empty(t, p.Summary())

	p = &UserProfile{DisplayName: "Ada", Locale: "en-GB", PersonaTraits: []string{"curious", "direct"}}
	summary := p.Summary()
	assert.Contains(t, summary, "name=Ada")
	assert.Contains(t, summary, "locale=en-GB")
	assert.Contains(t, summary, "persona=curious,direct")
}

func TestToolResultOK(t *testing.T) {
	assert.True(t, ToolResult{Status: StatusSuccess}.OK())
	assert.False(t, ToolResult{Status: StatusError}.OK())
}

func TestNewID(t *testing.T) {
	a, b := NewID(), NewID()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}
