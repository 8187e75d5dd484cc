// Package openai provides a completion.Client implementation using the OpenAI
// Chat Completions API with a JSON-schema constrained response format. It
// adapts kaiwa's normalized Request into the SDK's message format and decodes
// the schema-conformant response body.
package openai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/openai/openai-go"

	"github.com/kaiwahq/kaiwa/completion"
	"github.com/kaiwahq/kaiwa/core"
)

// Options configure the OpenAI completion adapter. Fields mirror a subset of
// Chat Completion parameters intentionally kept minimal; extend via
// functional options without breaking callers.
type Options struct {
	Model               string
	Temperature         float64
	MaxCompletionTokens int64
}

// Client wraps the OpenAI Chat Completions API behind completion.Client.
type Client struct {
	client *openai.Client
	opts   Options
}

// NewClient creates a new OpenAI completion client using the official SDK
// client (API key from the environment).
func NewClient(optFns ...func(o *Options)) *Client {
	client := openai.NewClient()
	return NewClientFromSDK(&client, optFns...)
}

// NewClientFromSDK creates a completion client from an existing SDK client.
func NewClientFromSDK(client *openai.Client, optFns ...func(o *Options)) *Client {
	opts := Options{
		Model:               openai.ChatModelGPT4oMini,
		Temperature:         0.2,
		MaxCompletionTokens: 2048,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Client{client: client, opts: opts}
}

// Complete implements completion.Client. The response is forced through a
// strict json_schema response format, then decoded into out.
func (c *Client) Complete(ctx context.Context, req completion.Request, out any) error {
	messages := buildMessages(req)

	model := c.opts.Model
	if req.Model != "" {
		model = req.Model
	}

	params := openai.ChatCompletionNewParams{
		Messages:            messages,
		Model:               model,
		Temperature:         openai.Float(c.opts.Temperature),
		MaxCompletionTokens: openai.Int(c.opts.MaxCompletionTokens),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   "structured_response",
					Schema: req.Schema,
				},
			},
		},
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return fmt.Errorf("openai api error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return fmt.Errorf("openai: no choices returned")
	}

	content := resp.Choices[0].Message.Content
	if content == "" {
		return fmt.Errorf("openai: empty completion content")
	}
	if err := json.Unmarshal([]byte(content), out); err != nil {
		return fmt.Errorf("openai: decode structured response: %w", err)
	}
	return nil
}

// buildMessages converts the normalized request into OpenAI chat messages:
// system prompt, text-only history turns, then the current input.
func buildMessages(req completion.Request) []openai.ChatCompletionMessageParamUnion {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.History)+2)
	if req.SystemPrompt != "" {
		messages = append(messages, openai.SystemMessage(req.SystemPrompt))
	}
	for _, turn := range req.History {
		text := turn.Text()
		if text == "" {
			continue
		}
		switch turn.Role {
		case core.RoleAssistant:
			messages = append(messages, openai.AssistantMessage(text))
		case core.RoleSystem:
			messages = append(messages, openai.SystemMessage(text))
		default:
			messages = append(messages, openai.UserMessage(text))
		}
	}
	messages = append(messages, openai.UserMessage(req.Input))
	return messages
}
