package llm

import (
	"context"
	"errors"

	"google.golang.org/genai"
)

// geminiBackend uses the Gemini API's JSON response mode with a converted
// response schema.
type geminiBackend struct {
	client *genai.Client
}

func newGemini(ctx context.Context, v Vendor) (*geminiBackend, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: v.APIKey, Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, err
	}
	return &geminiBackend{client: client}, nil
}

func (b *geminiBackend) Complete(ctx context.Context, call Call) (*Reply, error) {
	temp := float32(call.Temperature)
	config := &genai.GenerateContentConfig{
		MaxOutputTokens:   int32(call.MaxTokens),
		Temperature:       &temp,
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: call.System}}},
		ResponseMIMEType:  "application/json",
		ResponseSchema:    geminiSchema(call.Schema.Definition),
	}

	prompt := []*genai.Content{{Role: "user", Parts: []*genai.Part{{Text: call.Prompt}}}}
	result, err := b.client.Models.GenerateContent(ctx, call.Model, prompt, config)
	if err != nil {
		var apiErr *genai.APIError
		if errors.As(err, &apiErr) {
			return nil, statusError(ProviderGemini, apiErr.Code, err)
		}
		return nil, statusError(ProviderGemini, 0, err)
	}

	reply := &Reply{Text: result.Text(), Model: call.Model}
	if u := result.UsageMetadata; u != nil {
		reply.Usage = Usage{InputTokens: int(u.PromptTokenCount), OutputTokens: int(u.CandidatesTokenCount)}
	}
	if len(result.Candidates) > 0 {
		reply.Truncated = result.Candidates[0].FinishReason == "MAX_TOKENS"
	}
	return reply, nil
}

// geminiSchema converts the subset of JSON Schema used by level documents.
// Bounds such as minLength and minItems are dropped and left to local
// validation.
func geminiSchema(def map[string]any) *genai.Schema {
	s := &genai.Schema{}
	if t, ok := def["type"].(string); ok {
		s.Type = geminiTypes[t]
	}
	if d, ok := def["description"].(string); ok {
		s.Description = d
	}
	if props, ok := def["properties"].(map[string]any); ok {
		s.Properties = make(map[string]*genai.Schema, len(props))
		for name, p := range props {
			if pm, ok := p.(map[string]any); ok {
				s.Properties[name] = geminiSchema(pm)
			}
		}
	}
	s.Required = stringList(def["required"])
	s.Enum = stringList(def["enum"])
	if items, ok := def["items"].(map[string]any); ok {
		s.Items = geminiSchema(items)
	}
	return s
}

var geminiTypes = map[string]genai.Type{
	"string":  genai.TypeString,
	"number":  genai.TypeNumber,
	"integer": genai.TypeInteger,
	"boolean": genai.TypeBoolean,
	"array":   genai.TypeArray,
	"object":  genai.TypeObject,
}

func stringList(v any) []string {
	var out []string
	switch list := v.(type) {
	case []string:
		out = append(out, list...)
	case []any:
		for _, x := range list {
			if s, ok := x.(string); ok {
				out = append(out, s)
			}
		}
	}
	return out
}
