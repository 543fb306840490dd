package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/viper"
)

// Config carries the engine's feature flags. A Config is constructed once by
// the caller and treated as read-only for the remainder of the engine's
// operation; it travels by value through the whole pipeline and participates
// in memoization keys.
type Config struct {
	// ExpandNumericTower treats float acceptance as also accepting int, and
	// complex acceptance as also accepting float and int, per the implicit
	// numeric-tower promotion rule.
	ExpandNumericTower bool `mapstructure:"expand_numeric_tower"`

	// ColorizeOutput renders violation explanations with ANSI colors.
	ColorizeOutput bool `mapstructure:"colorize_output"`

	// Extras carries unknown/future options opaquely. The engine never
	// interprets them; they pass through untouched.
	Extras map[string]any `mapstructure:",remain"`
}

// Default returns the zero-flag configuration.
func Default() Config {
	return Config{}
}

// Load builds a Config from the viper state established by the CLI
// (config file, environment, bound flags).
func Load() (Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

// CacheKey canonicalizes the configuration for memoization. Extras are
// folded in by sorted key so two configs differing only in pass-through
// options key differently.
func (c Config) CacheKey() (string, error) {
	parts := []string{
		fmt.Sprintf("tower=%t", c.ExpandNumericTower),
		fmt.Sprintf("color=%t", c.ColorizeOutput),
	}
	if len(c.Extras) > 0 {
		names := make([]string, 0, len(c.Extras))
		for name := range c.Extras {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			parts = append(parts, fmt.Sprintf("%s=%v", name, c.Extras[name]))
		}
	}
	return "conf(" + strings.Join(parts, ",") + ")", nil
}
