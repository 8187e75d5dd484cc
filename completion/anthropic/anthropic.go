// Package anthropic provides a completion.Client implementation using the
// Anthropic Messages API. Schema conformance is obtained by forcing a single
// tool whose input schema is the requested response schema; the tool_use
// block's input is the structured completion.
package anthropic

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/shared/constant"

	"github.com/kaiwahq/kaiwa/completion"
	"github.com/kaiwahq/kaiwa/core"
)

// responseToolName is the forced tool carrying the structured response.
const responseToolName = "emit_structured_response"

// Options configure the Anthropic completion adapter.
type Options struct {
	Model       anthropic.Model
	Temperature float64
	MaxTokens   int64
	APIKey      string
}

// Client wraps the Anthropic Messages API behind completion.Client.
type Client struct {
	client *anthropic.Client
	opts   Options
}

// NewClient creates a new Anthropic completion client using the official SDK.
func NewClient(optFns ...func(o *Options)) *Client {
	opts := Options{
		Model:       anthropic.ModelClaude3_5Sonnet20241022,
		Temperature: 0.2,
		MaxTokens:   2048,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	client := anthropic.NewClient(clientOpts...)

	return &Client{client: &client, opts: opts}
}

// NewClientFromSDK creates a completion client from an existing SDK client.
func NewClientFromSDK(client *anthropic.Client, optFns ...func(o *Options)) *Client {
	opts := Options{
		Model:       anthropic.ModelClaude3_5Sonnet20241022,
		Temperature: 0.2,
		MaxTokens:   2048,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Client{client: client, opts: opts}
}

// Complete implements completion.Client.
func (c *Client) Complete(ctx context.Context, req completion.Request, out any) error {
	model := c.opts.Model
	if req.Model != "" {
		model = anthropic.Model(req.Model)
	}

	params := anthropic.MessageNewParams{
		Model:       model,
		Messages:    buildMessages(req),
		MaxTokens:   c.opts.MaxTokens,
		Temperature: anthropic.Float(c.opts.Temperature),
		Tools: []anthropic.ToolUnionParam{
			anthropic.ToolUnionParamOfTool(buildInputSchema(req.Schema), responseToolName),
		},
		ToolChoice: anthropic.ToolChoiceUnionParam{
			OfTool: &anthropic.ToolChoiceToolParam{Name: responseToolName},
		},
	}
	if req.SystemPrompt != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.SystemPrompt}}
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return fmt.Errorf("anthropic api error: %w", err)
	}

	for _, block := range resp.Content {
		if block.Type != "tool_use" {
			continue
		}
		toolBlock := block.AsToolUse()
		raw, err := json.Marshal(toolBlock.Input)
		if err != nil {
			return fmt.Errorf("anthropic: marshal tool input: %w", err)
		}
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("anthropic: decode structured response: %w", err)
		}
		return nil
	}

	return fmt.Errorf("anthropic: no structured response block in completion")
}

// buildMessages converts history turns plus the current input into Anthropic
// message params. System turns are folded into the system prompt by callers;
// unknown roles degrade to user.
func buildMessages(req completion.Request) []anthropic.MessageParam {
	var messages []anthropic.MessageParam
	for _, turn := range req.History {
		text := turn.Text()
		if text == "" || turn.Role == core.RoleSystem {
			continue
		}
		if turn.Role == core.RoleAssistant {
			messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(text)))
			continue
		}
		messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(text)))
	}
	messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(req.Input)))
	return messages
}

// buildInputSchema converts the request schema into the SDK's tool input
// schema shape, tolerating both []string and JSON-decoded []any required
// lists.
func buildInputSchema(schema map[string]any) anthropic.ToolInputSchemaParam {
	inputSchema := anthropic.ToolInputSchemaParam{
		Type: constant.Object("object"),
	}
	if schema == nil {
		return inputSchema
	}
	if properties, exists := schema["properties"]; exists {
		inputSchema.Properties = properties
	}
	switch required := schema["required"].(type) {
	case []string:
		inputSchema.Required = required
	case []any:
		var reqStrings []string
		for _, r := range required {
			if s, ok := r.(string); ok {
				reqStrings = append(reqStrings, s)
			}
		}
		inputSchema.Required = reqStrings
	}
	return inputSchema
}
