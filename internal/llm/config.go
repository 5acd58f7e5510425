package llm

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Vendor names accepted in Config.Provider.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
)

// Config selects a vendor and its models. It sits under the "llm" key of
// the process config.
type Config struct {
	Provider string `koanf:"provider"`

	Anthropic  Vendor `koanf:"anthropic"`
	OpenAI     Vendor `koanf:"openai"`
	Gemini     Vendor `koanf:"gemini"`
	OpenRouter Vendor `koanf:"openrouter"`

	Retry RetryConfig `koanf:"retry"`

	// Timeout bounds one Generate call including vendor retries.
	Timeout time.Duration `koanf:"timeout"`
}

// Vendor holds one vendor's credentials and model routing.
type Vendor struct {
	APIKey  string `koanf:"api_key"`
	BaseURL string `koanf:"base_url"`

	// Model serves every purpose without a route.
	Model string `koanf:"model"`

	// Routes maps a request purpose to a model, e.g. a stronger model for
	// level-repair.
	Routes map[string]string `koanf:"routes"`
}

// RetryConfig is exponential backoff for transient vendor failures.
type RetryConfig struct {
	MaxAttempts int           `koanf:"max_attempts"`
	InitialWait time.Duration `koanf:"initial_wait"`
	MaxWait     time.Duration `koanf:"max_wait"`
	Multiplier  float64       `koanf:"multiplier"`
}

// aliases maps short model names to vendor model IDs. Unknown names pass
// through unchanged.
var aliases = map[string]map[string]string{
	ProviderAnthropic: {
		"claude-sonnet": "claude-sonnet-4-20250514",
		"claude-haiku":  "claude-haiku-4-5-20251001",
	},
	ProviderOpenAI: {
		"gpt-mini": "gpt-4o-mini",
		"gpt":      "gpt-4o",
	},
	ProviderGemini: {
		"gemini-flash": "gemini-2.0-flash",
		"gemini-pro":   "gemini-2.5-pro",
	},
}

// DefaultConfig drafts with each vendor's small model and repairs rejected
// drafts with its larger one. A draft is a whole level, so the timeout is
// generous.
func DefaultConfig() Config {
	return Config{
		Provider: ProviderAnthropic,
		Anthropic: Vendor{
			Model:  "claude-haiku",
			Routes: map[string]string{PurposeLevelRepair: "claude-sonnet"},
		},
		OpenAI: Vendor{
			Model:  "gpt-mini",
			Routes: map[string]string{PurposeLevelRepair: "gpt"},
		},
		Gemini: Vendor{
			Model:  "gemini-flash",
			Routes: map[string]string{PurposeLevelRepair: "gemini-pro"},
		},
		OpenRouter: Vendor{
			Model: "google/gemini-2.0-flash-exp",
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 90 * time.Second,
	}
}

// vendor returns the selected vendor's section.
func (c *Config) vendor() (*Vendor, error) {
	switch c.Provider {
	case ProviderAnthropic:
		return &c.Anthropic, nil
	case ProviderOpenAI:
		return &c.OpenAI, nil
	case ProviderGemini:
		return &c.Gemini, nil
	case ProviderOpenRouter:
		return &c.OpenRouter, nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
}

// ModelFor resolves the model the selected vendor uses for purpose.
func (c Config) ModelFor(purpose string) string {
	v, err := c.vendor()
	if err != nil {
		return ""
	}
	name := v.Model
	if routed, ok := v.Routes[purpose]; ok && routed != "" {
		name = routed
	}
	if id, ok := aliases[c.Provider][name]; ok {
		return id
	}
	return name
}

// envBindings maps flat ACADEMY_* variables onto config fields.
func (c *Config) envBindings() map[string]*string {
	return map[string]*string{
		"ACADEMY_LLM_PROVIDER":        &c.Provider,
		"ACADEMY_ANTHROPIC_API_KEY":   &c.Anthropic.APIKey,
		"ACADEMY_ANTHROPIC_MODEL":     &c.Anthropic.Model,
		"ACADEMY_OPENAI_API_KEY":      &c.OpenAI.APIKey,
		"ACADEMY_OPENAI_MODEL":        &c.OpenAI.Model,
		"ACADEMY_OPENAI_BASE_URL":     &c.OpenAI.BaseURL,
		"ACADEMY_GEMINI_API_KEY":      &c.Gemini.APIKey,
		"ACADEMY_GEMINI_MODEL":        &c.Gemini.Model,
		"ACADEMY_OPENROUTER_API_KEY":  &c.OpenRouter.APIKey,
		"ACADEMY_OPENROUTER_MODEL":    &c.OpenRouter.Model,
		"ACADEMY_OPENROUTER_BASE_URL": &c.OpenRouter.BaseURL,
	}
}

// ApplyEnv overrides fields from the flat ACADEMY_* variables. Unset
// variables leave the field alone.
func (c *Config) ApplyEnv() {
	for name, field := range c.envBindings() {
		if v := os.Getenv(name); v != "" {
			*field = v
		}
	}
}

// ConfigFromEnv returns DefaultConfig with ACADEMY_* overrides applied.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	cfg.ApplyEnv()
	return cfg
}

// DiscoverConfig checks the vendors' own API key variables and selects the
// first vendor with a key. It reports false when none is set.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()
	candidates := []struct {
		env      string
		provider string
		key      *string
	}{
		{"GEMINI_API_KEY", ProviderGemini, &cfg.Gemini.APIKey},
		{"OPENAI_API_KEY", ProviderOpenAI, &cfg.OpenAI.APIKey},
		{"ANTHROPIC_API_KEY", ProviderAnthropic, &cfg.Anthropic.APIKey},
		{"OPENROUTER_API_KEY", ProviderOpenRouter, &cfg.OpenRouter.APIKey},
	}
	for _, p := range candidates {
		if k := os.Getenv(p.env); k != "" {
			cfg.Provider = p.provider
			*p.key = k
			return cfg, true
		}
	}
	return Config{}, false
}

// HasKey reports whether the selected vendor has credentials.
func (c Config) HasKey() bool {
	return c.Validate() == nil
}

// Validate checks that the selected vendor is known and has its API key.
func (c Config) Validate() error {
	v, err := c.vendor()
	if err != nil {
		return err
	}
	if v.APIKey == "" {
		return fmt.Errorf("ACADEMY_%s_API_KEY is required for the %s provider", strings.ToUpper(c.Provider), c.Provider)
	}
	return nil
}
