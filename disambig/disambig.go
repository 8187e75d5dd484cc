package disambig

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/kaiwahq/kaiwa/completion"
	"github.com/kaiwahq/kaiwa/core"
	"github.com/kaiwahq/kaiwa/internal/util"
	"github.com/kaiwahq/kaiwa/logging"
)

const callerID = "disambiguator"

const systemPrompt = `You resolve references in a user's message using the conversation so far.
Rewrite the message so that every pronoun, demonstrative or implicit reference
is replaced by what it actually refers to. Extract the entities mentioned, the
references you resolved, any implicit needs, and the user's true intent.
Respond only with the requested JSON object. If the message contains no
references, return it unchanged as resolvedQuery.`

// trivialAcks are one-word turns that never carry references worth resolving.
var trivialAcks = map[string]struct{}{
	"yes": {}, "no": {}, "ok": {}, "hi": {}, "hello": {},
	"thanks": {}, "thank you": {}, "bye": {}, "stop": {},
}

// Options configure a Disambiguator.
type Options struct {
	// MinQueryLen is the rune-length threshold below which disambiguation
	// is skipped.
	MinQueryLen int
	// MaxTurns bounds how many trailing history turns enter the prompt.
	MaxTurns int
	// MaxLineLen truncates each rendered history line.
	MaxLineLen int
	// MaxContextLen caps the total rendered history block.
	MaxContextLen int
	// Model optionally overrides the completion client's default model.
	Model string
	// Logger receives skip/failure logs. Defaults to NoOpLogger.
	Logger logging.Logger
}

// Disambiguator turns a raw user query into a DisambiguationResult through a
// single structured completion call.
type Disambiguator struct {
	client completion.Client
	opts   Options
}

// New creates a Disambiguator with bounded-context defaults.
func New(client completion.Client, optFns ...func(o *Options)) *Disambiguator {
	opts := Options{
		MinQueryLen:   5,
		MaxTurns:      10, // 5 user/assistant pairs
		MaxLineLen:    280,
		MaxContextLen: 4000,
		Logger:        logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Disambiguator{client: client, opts: opts}
}

// Disambiguate resolves references in query. It returns nil both when the
// query is too trivial to carry references and when the completion service
// fails; callers proceed with the original query in either case.
func (d *Disambiguator) Disambiguate(ctx context.Context, query string, history []core.Turn, profile *core.UserProfile) *core.DisambiguationResult {
	trimmed := strings.TrimSpace(query)
	if d.skip(trimmed) {
		d.opts.Logger.Debug("disambig.skip", "query_len", utf8.RuneCountInString(trimmed))
		return nil
	}

	var result core.DisambiguationResult
	err := d.client.Complete(ctx, completion.Request{
		SystemPrompt: systemPrompt,
		Input:        d.renderInput(trimmed, history, profile),
		Schema:       responseSchema(),
		Model:        d.opts.Model,
		CallerID:     callerID,
	}, &result)
	if err != nil {
		d.opts.Logger.Warn("disambig.failed", "error", err)
		return nil
	}

	if result.OriginalQuery == "" {
		result.OriginalQuery = trimmed
	}
	return &result
}

// skip reports whether the query is too short or a trivial acknowledgement.
func (d *Disambiguator) skip(trimmed string) bool {
	if utf8.RuneCountInString(trimmed) < d.opts.MinQueryLen {
		return true
	}
	normalized := strings.ToLower(strings.TrimRight(trimmed, ".!?"))
	_, ack := trivialAcks[normalized]
	return ack
}

func (d *Disambiguator) renderInput(query string, history []core.Turn, profile *core.UserProfile) string {
	var b strings.Builder
	b.WriteString("Message: ")
	b.WriteString(query)

	if block := renderHistory(history, d.opts.MaxTurns, d.opts.MaxLineLen, d.opts.MaxContextLen); block != "" {
		b.WriteString("\n\nConversation so far:\n")
		b.WriteString(block)
	}
	if summary := profile.Summary(); summary != "" {
		b.WriteString("\n\nUser profile: ")
		b.WriteString(summary)
	}
	return b.String()
}

// renderHistory formats the trailing maxTurns turns as role-tagged lines,
// newest last, each line truncated and the whole block capped. The cap drops
// the oldest lines first.
func renderHistory(history []core.Turn, maxTurns, maxLineLen, maxTotal int) string {
	if len(history) == 0 {
		return ""
	}
	start := 0
	if len(history) > maxTurns {
		start = len(history) - maxTurns
	}
	window := history[start:]

	// ClampLines keeps leading lines, so feed it newest-first and then
	// restore chronological order.
	reversed := make([]string, 0, len(window))
	for i := len(window) - 1; i >= 0; i-- {
		turn := window[i]
		reversed = append(reversed, fmt.Sprintf("%s: %s", turn.Role, util.Truncate(turn.Text(), maxLineLen)))
	}
	kept := strings.Split(util.ClampLines(reversed, maxTotal), "\n")
	for i, j := 0, len(kept)-1; i < j; i, j = i+1, j-1 {
		kept[i], kept[j] = kept[j], kept[i]
	}
	return strings.Join(kept, "\n")
}

func responseSchema() map[string]any {
	entity := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name":          map[string]any{"type": "string"},
			"type":          map[string]any{"type": "string"},
			"referenceKind": map[string]any{"type": "string", "enum": []any{"direct", "pronoun", "demonstrative", "implied"}},
			"linkedTo":      map[string]any{"type": "string"},
		},
		"required": []string{"name", "type"},
	}
	reference := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"expression": map[string]any{"type": "string"},
			"resolvedTo": map[string]any{"type": "string"},
			"confidence": map[string]any{"type": "string", "enum": []any{"high", "medium", "low"}},
		},
		"required": []string{"expression", "resolvedTo"},
	}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"originalQuery":    map[string]any{"type": "string"},
			"resolvedQuery":    map[string]any{"type": "string"},
			"trueIntent":       map[string]any{"type": "string"},
			"entities":         map[string]any{"type": "array", "items": entity},
			"references":       map[string]any{"type": "array", "items": reference},
			"implicitNeeds":    map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"confidence":       map[string]any{"type": "string", "enum": []any{"high", "medium", "low"}},
			"languageDetected": map[string]any{"type": "string"},
		},
		"required": []string{"originalQuery", "resolvedQuery", "trueIntent"},
	}
}
