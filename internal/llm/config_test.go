package llm

import (
	"math"
	"strings"
	"testing"
)

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("ACADEMY_LLM_PROVIDER", "openrouter")
	t.Setenv("ACADEMY_OPENROUTER_API_KEY", "sk-or")
	t.Setenv("ACADEMY_OPENROUTER_MODEL", "anthropic/claude-3-haiku")

	cfg := ConfigFromEnv()
	if cfg.Provider != ProviderOpenRouter {
		t.Fatalf("provider = %q", cfg.Provider)
	}
	if cfg.OpenRouter.APIKey != "sk-or" || cfg.OpenRouter.Model != "anthropic/claude-3-haiku" {
		t.Fatalf("openrouter config = %+v", cfg.OpenRouter)
	}
	if cfg.Anthropic.Model != "claude-haiku" {
		t.Fatalf("unset values should keep defaults, got %q", cfg.Anthropic.Model)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestDiscoverConfig(t *testing.T) {
	for _, k := range []string{"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY"} {
		t.Setenv(k, "")
	}
	if _, ok := DiscoverConfig(); ok {
		t.Fatal("expected no provider without keys")
	}

	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")
	t.Setenv("OPENAI_API_KEY", "sk-oai")
	cfg, ok := DiscoverConfig()
	if !ok {
		t.Fatal("expected a provider")
	}
	if cfg.Provider != ProviderOpenAI || cfg.OpenAI.APIKey != "sk-oai" {
		t.Fatalf("OpenAI should win over Anthropic, got %q", cfg.Provider)
	}
	if !cfg.HasKey() {
		t.Fatal("HasKey = false")
	}
}

func TestModelFor(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		purpose string
		want    string
	}{
		{"draft uses vendor model", nil, PurposeLevelDraft, "claude-haiku-4-5-20251001"},
		{"repair is routed", nil, PurposeLevelRepair, "claude-sonnet-4-20250514"},
		{"unknown purpose falls back", nil, "other", "claude-haiku-4-5-20251001"},
		{"full model IDs pass through", func(c *Config) {
			c.Anthropic.Routes = map[string]string{PurposeLevelDraft: "claude-opus-4-1"}
		}, PurposeLevelDraft, "claude-opus-4-1"},
		{"empty route is ignored", func(c *Config) {
			c.Anthropic.Routes = map[string]string{PurposeLevelRepair: ""}
		}, PurposeLevelRepair, "claude-haiku-4-5-20251001"},
		{"aliases are per vendor", func(c *Config) {
			c.Provider = ProviderOpenRouter
			c.OpenRouter.Routes = map[string]string{PurposeLevelRepair: "gpt"}
		}, PurposeLevelRepair, "gpt"},
		{"gemini repair", func(c *Config) { c.Provider = ProviderGemini }, PurposeLevelRepair, "gemini-2.5-pro"},
		{"unknown vendor", func(c *Config) { c.Provider = "acme" }, PurposeLevelDraft, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			if tt.mutate != nil {
				tt.mutate(&cfg)
			}
			if got := cfg.ModelFor(tt.purpose); got != tt.want {
				t.Errorf("ModelFor(%q) = %q, want %q", tt.purpose, got, tt.want)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"anthropic with key", Config{Provider: ProviderAnthropic, Anthropic: Vendor{APIKey: "k"}}, ""},
		{"gemini without key", Config{Provider: ProviderGemini}, "ACADEMY_GEMINI_API_KEY"},
		{"openrouter without key", Config{Provider: ProviderOpenRouter}, "ACADEMY_OPENROUTER_API_KEY"},
		{"unknown provider", Config{Provider: "acme"}, "unknown LLM provider"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLookupCost(t *testing.T) {
	c := LookupCost("gpt-4o-mini")
	if c == nil {
		t.Fatal("expected pricing for gpt-4o-mini")
	}
	got := c.Cost(1_000_000, 1_000_000)
	if math.Abs(got-0.75) > 1e-9 {
		t.Fatalf("cost = %v, want 0.75", got)
	}

	if LookupCost("google/gemini-2.0-flash-exp") == nil {
		t.Fatal("expected vendor-qualified ID to resolve")
	}
	if LookupCost("no-such-model") != nil {
		t.Fatal("expected nil for unknown model")
	}
	for _, provider := range []string{ProviderAnthropic, ProviderOpenAI, ProviderGemini} {
		cfg := DefaultConfig()
		cfg.Provider = provider
		for _, purpose := range []string{PurposeLevelDraft, PurposeLevelRepair} {
			if LookupCost(cfg.ModelFor(purpose)) == nil {
				t.Errorf("no pricing for %s %s model %q", provider, purpose, cfg.ModelFor(purpose))
			}
		}
	}
}
