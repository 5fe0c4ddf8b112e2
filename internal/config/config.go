// Package config provides Viper-based configuration loading for the roulette table.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/cory-johannsen/roulette/internal/game/stage"
)

// Dealer policy names.
const (
	PolicyFallback = "fallback"
	PolicyLua      = "lua"
	PolicyLLM      = "llm"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
	// File receives log output instead of stderr when non-empty, keeping
	// the table text on stdout readable.
	File string `mapstructure:"file"`
}

// RulesConfig holds the item ruleset location and the stage scaling policy.
type RulesConfig struct {
	// ItemsFile is a YAML item ruleset; empty uses the built-in ruleset.
	ItemsFile string `mapstructure:"items_file"`

	BaseHealth int `mapstructure:"base_health"`
	HealthStep int `mapstructure:"health_step"`
	MaxHealth  int `mapstructure:"max_health"`

	BaseItems int `mapstructure:"base_items"`
	ItemsStep int `mapstructure:"items_step"`
	MaxItems  int `mapstructure:"max_items"`

	MinRounds     int `mapstructure:"min_rounds"`
	BaseMaxRounds int `mapstructure:"base_max_rounds"`
	RoundsStep    int `mapstructure:"rounds_step"`
	MaxRounds     int `mapstructure:"max_rounds"`
}

// StagePolicy converts the scaling fields into a stage.Policy.
func (r RulesConfig) StagePolicy() stage.Policy {
	return stage.Policy{
		BaseHealth: r.BaseHealth, HealthStep: r.HealthStep, MaxHealth: r.MaxHealth,
		BaseItems: r.BaseItems, ItemsStep: r.ItemsStep, MaxItems: r.MaxItems,
		MinRounds: r.MinRounds, BaseMaxRounds: r.BaseMaxRounds, RoundsStep: r.RoundsStep, MaxRounds: r.MaxRounds,
	}
}

// DealerConfig selects and tunes the automated opponent.
type DealerConfig struct {
	// Name is the dealer's display name.
	Name string `mapstructure:"name"`
	// Policy is one of "fallback", "lua", or "llm".
	Policy string `mapstructure:"policy"`
	// Script is the Lua file defining decide(state); required for "lua".
	Script string `mapstructure:"script"`
	// InstructionLimit bounds Lua opcodes per decision; 0 uses the scripting default.
	InstructionLimit int `mapstructure:"instruction_limit"`
	// Model is the Anthropic model for "llm".
	Model string `mapstructure:"model"`
	// MaxTokens bounds the model reply.
	MaxTokens int64 `mapstructure:"max_tokens"`
	// APIKey overrides ANTHROPIC_API_KEY when non-empty.
	APIKey string `mapstructure:"api_key"`
	// Timeout bounds each model request.
	Timeout time.Duration `mapstructure:"timeout"`
	// MaxActions bounds policy decisions per dealer turn.
	MaxActions int `mapstructure:"max_actions"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Rules   RulesConfig   `mapstructure:"rules"`
	Dealer  DealerConfig  `mapstructure:"dealer"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := c.Rules.StagePolicy().Validate(); err != nil {
		errs = append(errs, "rules: "+err.Error())
	}
	if err := validateDealer(c.Dealer); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateDealer(d DealerConfig) error {
	var errs []string
	switch d.Policy {
	case PolicyFallback:
	case PolicyLua:
		if d.Script == "" {
			errs = append(errs, "dealer.script must not be empty when dealer.policy is lua")
		}
	case PolicyLLM:
		if d.Model == "" {
			errs = append(errs, "dealer.model must not be empty when dealer.policy is llm")
		}
	default:
		errs = append(errs, fmt.Sprintf("dealer.policy must be one of [fallback, lua, llm], got %q", d.Policy))
	}
	if d.Name == "" {
		errs = append(errs, "dealer.name must not be empty")
	}
	if d.InstructionLimit < 0 {
		errs = append(errs, fmt.Sprintf("dealer.instruction_limit must be >= 0, got %d", d.InstructionLimit))
	}
	if d.MaxTokens < 1 {
		errs = append(errs, fmt.Sprintf("dealer.max_tokens must be >= 1, got %d", d.MaxTokens))
	}
	if d.Timeout <= 0 {
		errs = append(errs, "dealer.timeout must be positive")
	}
	if d.MaxActions < 1 {
		errs = append(errs, fmt.Sprintf("dealer.max_actions must be >= 1, got %d", d.MaxActions))
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result. An empty path uses defaults and the
// environment only.
//
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()

	// Environment variable overrides with ROULETTE_ prefix
	v.SetEnvPrefix("ROULETTE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}
	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.file", "")

	d := stage.DefaultPolicy()
	v.SetDefault("rules.items_file", "")
	v.SetDefault("rules.base_health", d.BaseHealth)
	v.SetDefault("rules.health_step", d.HealthStep)
	v.SetDefault("rules.max_health", d.MaxHealth)
	v.SetDefault("rules.base_items", d.BaseItems)
	v.SetDefault("rules.items_step", d.ItemsStep)
	v.SetDefault("rules.max_items", d.MaxItems)
	v.SetDefault("rules.min_rounds", d.MinRounds)
	v.SetDefault("rules.base_max_rounds", d.BaseMaxRounds)
	v.SetDefault("rules.rounds_step", d.RoundsStep)
	v.SetDefault("rules.max_rounds", d.MaxRounds)

	v.SetDefault("dealer.name", "Dealer")
	v.SetDefault("dealer.policy", PolicyFallback)
	v.SetDefault("dealer.script", "")
	v.SetDefault("dealer.instruction_limit", 0)
	v.SetDefault("dealer.model", "claude-sonnet-4-5")
	v.SetDefault("dealer.max_tokens", 64)
	v.SetDefault("dealer.api_key", "")
	v.SetDefault("dealer.timeout", "20s")
	v.SetDefault("dealer.max_actions", 8)
}
