package levelgen

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/nu9ve/academy/internal/content"
	"github.com/nu9ve/academy/internal/llm"
)

func levelJSON(t *testing.T, mutate func(m map[string]any)) json.RawMessage {
	t.Helper()
	item := func(id string, correct int) map[string]any {
		opts := make([]any, 3)
		for i := range opts {
			opts[i] = map[string]any{
				"text":     "opción " + string(rune('a'+i)),
				"correct":  i == correct,
				"points":   map[bool]int{true: 15, false: 0}[i == correct],
				"feedback": "porque sí",
			}
		}
		return map[string]any{
			"id":      id,
			"prompt":  "¿Qué harías en " + id + "?",
			"options": opts,
			"hint":    "Piensa en la otra persona.",
		}
	}
	m := map[string]any{
		"id":    "preguntas-abiertas",
		"title": "Preguntas abiertas",
		"type":  "quiz",
		"items": []any{item("pa-1", 0), item("pa-2", 2), item("pa-3", 1)},
	}
	if mutate != nil {
		mutate(m)
	}
	data, err := json.Marshal(m)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

// newGenerator drives an LLMGenerator with canned replies through a real
// llm.Client, so routing and schema checks apply.
func newGenerator(cfg Config, steps ...llm.Step) (*LLMGenerator, *llm.Scripted) {
	script := llm.Script(steps...)
	return New(llm.New(script, llm.DefaultConfig(), nil), cfg), script
}

func reply(data json.RawMessage) llm.Step {
	return llm.Step{Text: string(data), Usage: llm.Usage{InputTokens: 100, OutputTokens: 400}}
}

const (
	draftModel  = "claude-haiku-4-5-20251001"
	repairModel = "claude-sonnet-4-20250514"
)

func quizInput() Input {
	return Input{Topic: "preguntas abiertas", Type: content.TypeQuiz, Items: 3, Language: "es", CourseID: "comunicacion"}
}

func TestGenerate_Valid(t *testing.T) {
	gen, _ := newGenerator(DefaultConfig(), reply(levelJSON(t, nil)))

	res, err := gen.Generate(context.Background(), quizInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	l := res.Level
	if l.ID != "preguntas-abiertas" || len(l.Items) != 3 {
		t.Fatalf("unexpected level: %+v", l)
	}
	if l.CourseID != "comunicacion" {
		t.Errorf("course = %q", l.CourseID)
	}
	if l.XPReward != 50 || l.CoinReward != 20 || l.DurationMinutes != 6 {
		t.Errorf("defaults not applied: xp=%d coins=%d duration=%d", l.XPReward, l.CoinReward, l.DurationMinutes)
	}
	if l.HasContinuity {
		t.Error("quiz should not have continuity")
	}
	if err := content.ValidateLevel(*l); err != nil {
		t.Errorf("generated level does not validate: %v", err)
	}
	if res.Attempts != 1 || res.Model != draftModel {
		t.Errorf("attempts=%d model=%q", res.Attempts, res.Model)
	}
	if res.Usage != (llm.Usage{InputTokens: 100, OutputTokens: 400}) {
		t.Errorf("usage = %+v", res.Usage)
	}
}

func TestGenerate_RequestShape(t *testing.T) {
	gen, script := newGenerator(DefaultConfig(), reply(levelJSON(t, nil)))

	in := quizInput()
	in.ExistingTitles = []string{"Primeros Encuentros", "Escucha Activa"}
	in.ExistingIDs = []string{"primeros-encuentros"}
	if _, err := gen.Generate(context.Background(), in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	call := script.Calls()[0]
	if call.Schema != LevelSchema || LevelSchema.Name != "course-level" {
		t.Error("expected the course-level schema on the call")
	}
	if call.System != systemPrompt {
		t.Error("expected system prompt")
	}
	if call.Model != draftModel {
		t.Errorf("first draft routed to %q, want %q", call.Model, draftModel)
	}
	for _, want := range []string{"Topic: preguntas abiertas", "Number of items: 3", "Language: Spanish", "2. Escucha Activa", "primeros-encuentros"} {
		if !strings.Contains(call.Prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, call.Prompt)
		}
	}
	if strings.Contains(call.Prompt, "rejected") {
		t.Error("first draft should not carry repair instructions")
	}
}

func TestGenerate_RoleplayForcesContinuity(t *testing.T) {
	gen, _ := newGenerator(DefaultConfig(), reply(levelJSON(t, func(m map[string]any) {
		m["type"] = "roleplay"
	})))

	in := quizInput()
	in.Type = content.TypeRoleplay
	res, err := gen.Generate(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Level.HasContinuity {
		t.Error("roleplay level should have continuity")
	}
}

func TestGenerate_RepairsInvalidDraft(t *testing.T) {
	twoCorrect := levelJSON(t, func(m map[string]any) {
		items := m["items"].([]any)
		opts := items[0].(map[string]any)["options"].([]any)
		opts[1].(map[string]any)["correct"] = true
	})
	gen, script := newGenerator(DefaultConfig(), reply(twoCorrect), reply(levelJSON(t, nil)))

	res, err := gen.Generate(context.Background(), quizInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	calls := script.Calls()
	if len(calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(calls))
	}
	if calls[1].Model != repairModel {
		t.Errorf("repair routed to %q, want %q", calls[1].Model, repairModel)
	}
	if !strings.Contains(calls[1].Prompt, "Your previous draft was rejected") {
		t.Errorf("repair prompt lacks the rejection:\n%s", calls[1].Prompt)
	}
	if res.Attempts != 2 || res.Model != repairModel {
		t.Errorf("attempts=%d model=%q", res.Attempts, res.Model)
	}
	if res.Usage != (llm.Usage{InputTokens: 200, OutputTokens: 800}) {
		t.Errorf("usage should cover both attempts, got %+v", res.Usage)
	}
}

func TestGenerate_RepairsSchemaViolation(t *testing.T) {
	untitled := levelJSON(t, func(m map[string]any) { delete(m, "title") })
	gen, script := newGenerator(DefaultConfig(), reply(untitled), reply(levelJSON(t, nil)))

	res, err := gen.Generate(context.Background(), quizInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := len(script.Calls()); n != 2 {
		t.Errorf("expected 2 calls, got %d", n)
	}
	if res.Usage.OutputTokens != 800 {
		t.Errorf("rejected draft tokens not counted: %+v", res.Usage)
	}
}

func TestGenerate_GivesUpAfterMaxAttempts(t *testing.T) {
	wrongCount := levelJSON(t, func(m map[string]any) {
		m["items"] = m["items"].([]any)[:2]
	})
	gen, script := newGenerator(DefaultConfig(), reply(wrongCount), reply(wrongCount), reply(wrongCount))

	_, err := gen.Generate(context.Background(), quizInput())
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Validator != "shape" {
		t.Errorf("validator = %q, want shape", verr.Validator)
	}
	if n := len(script.Calls()); n != 3 {
		t.Errorf("expected 3 calls, got %d", n)
	}
}

func TestGenerate_ContentErrorUnwraps(t *testing.T) {
	noCorrect := levelJSON(t, func(m map[string]any) {
		items := m["items"].([]any)
		for _, o := range items[1].(map[string]any)["options"].([]any) {
			o.(map[string]any)["correct"] = false
		}
	})
	cfg := DefaultConfig()
	cfg.MaxAttempts = 1
	gen, _ := newGenerator(cfg, reply(noCorrect))

	_, err := gen.Generate(context.Background(), quizInput())
	if !errors.Is(err, content.ErrInvalidContent) {
		t.Fatalf("expected ErrInvalidContent in chain, got %v", err)
	}
}

func TestGenerate_TruncatedNotRetried(t *testing.T) {
	gen, script := newGenerator(DefaultConfig(),
		llm.Step{Text: `{"id":"preguntas-abiertas","items":[`, Truncated: true},
		reply(levelJSON(t, nil)),
	)

	_, err := gen.Generate(context.Background(), quizInput())
	var lerr *llm.Error
	if !errors.As(err, &lerr) || lerr.Kind != llm.KindTruncated {
		t.Fatalf("expected truncated llm.Error, got %v", err)
	}
	if n := len(script.Calls()); n != 1 {
		t.Errorf("expected 1 call, got %d", n)
	}
}

func TestGenerate_BadInput(t *testing.T) {
	gen, script := newGenerator(DefaultConfig())
	tests := []struct {
		name string
		in   Input
	}{
		{"empty topic", Input{Topic: "  "}},
		{"unknown type", Input{Topic: "x", Type: "podcast"}},
		{"too many items", Input{Topic: "x", Items: 50}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := gen.Generate(context.Background(), tt.in)
			if !errors.Is(err, ErrBadInput) {
				t.Fatalf("expected ErrBadInput, got %v", err)
			}
		})
	}
	if len(script.Calls()) != 0 {
		t.Error("bad input reached the model")
	}
}
