package llm

import (
	"context"
	"encoding/json"
	"errors"

	openai "github.com/sashabaranov/go-openai"
)

const openRouterBaseURL = "https://openrouter.ai/api/v1"

// openaiBackend talks to the Chat Completions API. OpenRouter speaks the
// same protocol at another base URL.
type openaiBackend struct {
	vendor string
	client *openai.Client
}

func newOpenAI(vendor string, v Vendor) *openaiBackend {
	cfg := openai.DefaultConfig(v.APIKey)
	switch {
	case v.BaseURL != "":
		cfg.BaseURL = v.BaseURL
	case vendor == ProviderOpenRouter:
		cfg.BaseURL = openRouterBaseURL
	}
	return &openaiBackend{vendor: vendor, client: openai.NewClientWithConfig(cfg)}
}

func (b *openaiBackend) Complete(ctx context.Context, call Call) (*Reply, error) {
	def, err := json.Marshal(call.Schema.Definition)
	if err != nil {
		return nil, err
	}

	// Level schemas have optional fields, which strict mode rejects. The
	// reply is validated locally instead.
	req := openai.ChatCompletionRequest{
		Model: call.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: call.System},
			{Role: openai.ChatMessageRoleUser, Content: call.Prompt},
		},
		MaxCompletionTokens: call.MaxTokens,
		Temperature:         float32(call.Temperature),
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:        call.Schema.Name,
				Description: call.Schema.Description,
				Schema:      json.RawMessage(def),
			},
		},
	}

	resp, err := b.client.CreateChatCompletion(ctx, req)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return nil, statusError(b.vendor, apiErr.HTTPStatusCode, err)
		}
		var reqErr *openai.RequestError
		if errors.As(err, &reqErr) {
			return nil, statusError(b.vendor, reqErr.HTTPStatusCode, err)
		}
		return nil, statusError(b.vendor, 0, err)
	}

	reply := &Reply{
		Model: resp.Model,
		Usage: Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
		},
	}
	if len(resp.Choices) > 0 {
		reply.Text = resp.Choices[0].Message.Content
		reply.Truncated = resp.Choices[0].FinishReason == openai.FinishReasonLength
	}
	return reply, nil
}
