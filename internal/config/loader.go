package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "ACADEMY_"

// Load builds a Config by layering defaults, an optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. YAML file: path, else ACADEMY_CONFIG, else DefaultPath() if it exists
//  3. env (prefix ACADEMY_; "__" separates sections, e.g.
//     ACADEMY_ENGINE__RETRY_POLICY=immediate)
func Load(path string) (*Config, error) {
	base := New()
	k := koanf.New(".")

	explicit := path != ""
	if path == "" {
		path = os.Getenv(EnvPrefix + "CONFIG")
		explicit = path != ""
	}
	if path == "" {
		if p, err := DefaultPath(); err == nil {
			path = p
		}
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			if explicit || !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("load config file %s: %w", path, err)
			}
		}
	}

	envProvider := env.Provider(EnvPrefix, ".", envKey)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load env config: %w", err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.LLM.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey maps ACADEMY_ENGINE__FIRST_TRY_BONUS to engine.first_try_bonus.
// Flat variables (ACADEMY_OPENAI_API_KEY, ACADEMY_DB, ACADEMY_CONFIG) map to
// top-level keys the Config struct ignores; LLM ones are applied by
// llm.Config.ApplyEnv instead.
func envKey(s string) string {
	s = strings.TrimPrefix(s, EnvPrefix)
	s = strings.ToLower(s)
	return strings.ReplaceAll(s, "__", ".")
}

// DefaultPath returns $XDG_CONFIG_HOME/academy/config.yaml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "academy", "config.yaml"), nil
}
