package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/gachalog/gachastats/internal/synonyms"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config represents the top-level application config plus the resolved
// extra synonym dictionaries.
type Config struct {
	Log      LogConfig      `koanf:"log"`
	Stats    StatsConfig    `koanf:"stats"`
	Synonyms SynonymsConfig `koanf:"synonyms"`
	Output   OutputConfig   `koanf:"output"`

	// ExtraSynonyms is populated by Load from Synonyms.ExtraDir.
	ExtraSynonyms synonyms.Dictionary `koanf:"-"`
}

type LogConfig struct {
	Level string `koanf:"level"` // debug | info | warn | error
}

type StatsConfig struct {
	SystemOtherLabel string  `koanf:"system_other_label"`
	DefaultLocale    string  `koanf:"default_locale"`
	MarkerScope      string  `koanf:"marker_scope"` // global | by-locale
	RateCorrection   float64 `koanf:"rate_correction"`
}

type SynonymsConfig struct {
	ExtraDir string `koanf:"extra_dir"`
}

type OutputConfig struct {
	Indent bool `koanf:"indent"`
}

// SlogLevel maps Log.Level to a slog level. Validate guarantees it parses.
func (c LogConfig) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Level)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

func (c *Config) Validate() error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return fmt.Errorf("invalid log.level %q (must be debug, info, warn or error)", c.Log.Level)
	}

	if strings.TrimSpace(c.Stats.SystemOtherLabel) == "" {
		return fmt.Errorf("stats.system_other_label is required")
	}
	if strings.TrimSpace(c.Stats.DefaultLocale) == "" {
		return fmt.Errorf("stats.default_locale is required")
	}
	if c.Stats.MarkerScope != "global" && c.Stats.MarkerScope != "by-locale" {
		return fmt.Errorf("invalid stats.marker_scope %q (must be global or by-locale)", c.Stats.MarkerScope)
	}
	if c.Stats.RateCorrection < 0 {
		return fmt.Errorf("stats.rate_correction must be >= 0")
	}

	return nil
}

// Load parses config from file + env, validates it, then loads the extra
// synonym dictionaries.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]interface{}{
		"log.level":                "info",
		"stats.system_other_label": "System Other",
		"stats.default_locale":     synonyms.DefaultLocale,
		"stats.marker_scope":       "global",
		"stats.rate_correction":    0.0,
		"synonyms.extra_dir":       "./synonyms",
		"output.indent":            true,
	}
	for key, value := range defaults {
		k.Set(key, value)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := k.Load(env.Provider("GACHASTATS_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "GACHASTATS_")), "__", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	extra, err := synonyms.LoadDir(cfg.Synonyms.ExtraDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load extra synonyms: %w", err)
	}
	cfg.ExtraSynonyms = extra

	return &cfg, nil
}
