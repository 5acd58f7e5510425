// Package config loads academy settings by layering defaults, an optional
// YAML file and ACADEMY_* environment variables.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/nu9ve/academy/internal/llm"
	"github.com/nu9ve/academy/internal/profile"
	"github.com/nu9ve/academy/internal/session"
)

// Config contains process configuration.
type Config struct {
	// DBPath is the SQLite database file. Empty uses store.DefaultDBPath.
	DBPath string `koanf:"db_path"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFile receives JSON logs. Empty uses logging.DefaultLogPath.
	LogFile string `koanf:"log_file"`

	// ContentDir holds extra level files loaded next to the built-in course.
	ContentDir string `koanf:"content_dir"`

	Engine  EngineConfig  `koanf:"engine"`
	Profile ProfileConfig `koanf:"profile"`

	// LLM configures level generation. The flat ACADEMY_*_API_KEY variables
	// are applied on top by Load.
	LLM llm.Config `koanf:"llm"`
}

// EngineConfig holds assessment scoring constants.
type EngineConfig struct {
	FirstTryBonus    int    `koanf:"first_try_bonus"`
	IncorrectPenalty int    `koanf:"incorrect_penalty"`
	RetryPolicy      string `koanf:"retry_policy"`
}

// ProfileConfig holds the life and coin economy.
type ProfileConfig struct {
	MaxLives      int           `koanf:"max_lives"`
	LifeRegen     time.Duration `koanf:"life_regen"`
	LifePrice     int           `koanf:"life_price"`
	StartingCoins int           `koanf:"starting_coins"`
}

// New returns a Config with defaults.
func New() *Config {
	sc := session.DefaultConfig()
	pc := profile.DefaultConfig()
	return &Config{
		LogLevel: "info",
		Engine: EngineConfig{
			FirstTryBonus:    sc.FirstTryBonus,
			IncorrectPenalty: sc.IncorrectPenalty,
			RetryPolicy:      sc.RetryPolicy.String(),
		},
		Profile: ProfileConfig{
			MaxLives:      pc.MaxLives,
			LifeRegen:     pc.LifeRegen,
			LifePrice:     pc.LifePrice,
			StartingCoins: pc.StartingCoins,
		},
		LLM: llm.DefaultConfig(),
	}
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	var errs []error
	if c.Engine.FirstTryBonus < 0 {
		errs = append(errs, errors.New("engine.first_try_bonus must not be negative"))
	}
	if c.Engine.IncorrectPenalty < 0 {
		errs = append(errs, errors.New("engine.incorrect_penalty must not be negative"))
	}
	if _, err := session.ParseRetryPolicy(c.Engine.RetryPolicy); err != nil {
		errs = append(errs, fmt.Errorf("engine.retry_policy: %w", err))
	}
	if c.Profile.MaxLives < 1 {
		errs = append(errs, errors.New("profile.max_lives must be at least 1"))
	}
	if c.Profile.LifeRegen < time.Second {
		errs = append(errs, errors.New("profile.life_regen must be at least 1s"))
	}
	if c.Profile.LifePrice < 0 || c.Profile.StartingCoins < 0 {
		errs = append(errs, errors.New("profile prices and coins must not be negative"))
	}
	return errors.Join(errs...)
}

// SessionConfig returns the engine configuration.
func (c *Config) SessionConfig() session.Config {
	policy, _ := session.ParseRetryPolicy(c.Engine.RetryPolicy)
	return session.Config{
		FirstTryBonus:    c.Engine.FirstTryBonus,
		IncorrectPenalty: c.Engine.IncorrectPenalty,
		RetryPolicy:      policy,
	}
}

// ProfileServiceConfig returns the profile economy, keeping defaults for
// settings that are not exposed.
func (c *Config) ProfileServiceConfig() profile.Config {
	pc := profile.DefaultConfig()
	pc.MaxLives = c.Profile.MaxLives
	pc.LifeRegen = c.Profile.LifeRegen
	pc.LifePrice = c.Profile.LifePrice
	pc.StartingCoins = c.Profile.StartingCoins
	return pc
}
