package llm

import (
	"context"
	"errors"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// anthropicBackend asks Claude for a JSON document through the
// structured-output format.
type anthropicBackend struct {
	client anthropic.Client
}

func newAnthropic(v Vendor) *anthropicBackend {
	opts := []option.RequestOption{option.WithAPIKey(v.APIKey)}
	if v.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(v.BaseURL))
	}
	// Retries belong to Client so every vendor call is recorded.
	opts = append(opts, option.WithMaxRetries(0))
	return &anthropicBackend{client: anthropic.NewClient(opts...)}
}

func (b *anthropicBackend) Complete(ctx context.Context, call Call) (*Reply, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(call.Model),
		MaxTokens: int64(call.MaxTokens),
		System:    []anthropic.TextBlockParam{{Text: call.System}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(call.Prompt)),
		},
		OutputConfig: anthropic.OutputConfigParam{
			Format: anthropic.JSONOutputFormatParam{Schema: call.Schema.Definition},
		},
	}
	if call.Temperature > 0 {
		params.Temperature = anthropic.Float(call.Temperature)
	}

	msg, err := b.client.Messages.New(ctx, params)
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			e := statusError(ProviderAnthropic, apiErr.StatusCode, err)
			if apiErr.Response != nil {
				e.RetryAfter = retryAfter(apiErr.Response.Header)
			}
			return nil, e
		}
		return nil, statusError(ProviderAnthropic, 0, err)
	}

	reply := &Reply{
		Model: string(msg.Model),
		Usage: Usage{
			InputTokens:  int(msg.Usage.InputTokens),
			OutputTokens: int(msg.Usage.OutputTokens),
		},
		Truncated: msg.StopReason == anthropic.StopReasonMaxTokens,
	}
	for _, block := range msg.Content {
		if block.Type == "text" {
			reply.Text = block.Text
			break
		}
	}
	return reply, nil
}
