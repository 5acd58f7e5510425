package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"google.golang.org/genai"
)

func serve(t *testing.T, handler http.HandlerFunc) string {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server.URL
}

func itemCall(model string) Call {
	return Call{
		Model:     model,
		System:    "You write short multiple-choice lessons.",
		Prompt:    "Write one item about active listening.",
		Schema:    itemSchema,
		MaxTokens: 256,
	}
}

func TestAnthropicBackend(t *testing.T) {
	var body map[string]any
	url := serve(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":          "msg_test",
			"type":        "message",
			"role":        "assistant",
			"content":     []map[string]any{{"type": "text", "text": validItem}},
			"model":       "claude-haiku-4-5-20251001",
			"stop_reason": "max_tokens",
			"usage":       map[string]any{"input_tokens": 50, "output_tokens": 30},
		})
	})

	b := newAnthropic(Vendor{APIKey: "test-key", BaseURL: url})
	reply, err := b.Complete(context.Background(), itemCall("claude-haiku-4-5-20251001"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply.Text != validItem || reply.Model != "claude-haiku-4-5-20251001" {
		t.Errorf("reply = %+v", reply)
	}
	if reply.Usage != (Usage{InputTokens: 50, OutputTokens: 30}) {
		t.Errorf("usage = %+v", reply.Usage)
	}
	if !reply.Truncated {
		t.Error("max_tokens stop should mark the reply truncated")
	}
	if body["model"] != "claude-haiku-4-5-20251001" {
		t.Errorf("sent model = %v", body["model"])
	}
	if _, ok := body["output_config"]; !ok {
		t.Errorf("request has no output_config: %v", body)
	}
}

func TestAnthropicBackend_RateLimit(t *testing.T) {
	url := serve(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Retry-After", "12")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"type":"error","error":{"type":"rate_limit_error","message":"slow down"}}`))
	})

	b := newAnthropic(Vendor{APIKey: "test-key", BaseURL: url})
	_, err := b.Complete(context.Background(), itemCall("claude-haiku-4-5-20251001"))
	var lerr *Error
	if !errors.As(err, &lerr) {
		t.Fatalf("expected *Error, got %T: %v", err, err)
	}
	if lerr.Kind != KindRateLimited || lerr.Status != 429 || lerr.RetryAfter.Seconds() != 12 {
		t.Errorf("error = %+v", lerr)
	}
}

func TestOpenAIBackend(t *testing.T) {
	var body map[string]any
	url := serve(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("path = %s", r.URL.Path)
		}
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"created": 1700000000,
			"model":   "gpt-4o-mini-2024-07-18",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": validItem},
				"finish_reason": "stop",
			}},
			"usage": map[string]any{"prompt_tokens": 60, "completion_tokens": 25, "total_tokens": 85},
		})
	})

	b := newOpenAI(ProviderOpenAI, Vendor{APIKey: "sk-test", BaseURL: url})
	reply, err := b.Complete(context.Background(), itemCall("gpt-4o-mini"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply.Text != validItem || reply.Model != "gpt-4o-mini-2024-07-18" || reply.Truncated {
		t.Errorf("reply = %+v", reply)
	}
	if reply.Usage != (Usage{InputTokens: 60, OutputTokens: 25}) {
		t.Errorf("usage = %+v", reply.Usage)
	}

	format, _ := body["response_format"].(map[string]any)
	schema, _ := format["json_schema"].(map[string]any)
	if format["type"] != "json_schema" || schema["name"] != "test-item" {
		t.Errorf("response_format = %v", body["response_format"])
	}
	msgs, _ := body["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("messages = %v", body["messages"])
	}
}

func TestOpenAIBackend_Errors(t *testing.T) {
	tests := []struct {
		status int
		kind   ErrorKind
	}{
		{http.StatusTooManyRequests, KindRateLimited},
		{http.StatusUnauthorized, KindRejected},
		{http.StatusBadGateway, KindUnavailable},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			url := serve(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				w.Write([]byte(`{"error":{"message":"nope","type":"test_error"}}`))
			})

			b := newOpenAI(ProviderOpenRouter, Vendor{APIKey: "sk-test", BaseURL: url})
			_, err := b.Complete(context.Background(), itemCall("google/gemini-2.0-flash-exp"))
			var lerr *Error
			if !errors.As(err, &lerr) {
				t.Fatalf("expected *Error, got %T: %v", err, err)
			}
			if lerr.Kind != tt.kind || lerr.Vendor != ProviderOpenRouter {
				t.Errorf("error = %+v", lerr)
			}
		})
	}
}

func TestGeminiSchema(t *testing.T) {
	s := geminiSchema(itemSchema.Definition)
	if s.Type != genai.TypeObject {
		t.Fatalf("type = %v", s.Type)
	}
	if len(s.Properties) != 2 || s.Properties["id"].Type != genai.TypeString {
		t.Errorf("properties = %+v", s.Properties)
	}
	if strings.Join(s.Required, ",") != "id,prompt" {
		t.Errorf("required = %v", s.Required)
	}

	arr := geminiSchema(map[string]any{
		"type":  "array",
		"items": map[string]any{"type": "string", "enum": []string{"quiz", "story"}},
	})
	if arr.Type != genai.TypeArray || arr.Items == nil || len(arr.Items.Enum) != 2 {
		t.Errorf("array schema = %+v", arr)
	}
}
