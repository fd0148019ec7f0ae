// Package config loads the .coverage-model.toml settings file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/text/language"

	"github.com/jenkinsci/coverage-model-sub002/internal/model"
)

// DefaultFile is looked up in the working directory when no --config flag
// is given.
const DefaultFile = ".coverage-model.toml"

// Output formats understood by the report package.
var outputFormats = map[string]bool{"table": true, "json": true, "yaml": true}

type Config struct {
	Locale        string       `toml:"locale"`
	SplitPackages bool         `toml:"split_packages"`
	Exclude       []string     `toml:"exclude"`
	Output        OutputConfig `toml:"output"`
	Badge         BadgeConfig  `toml:"badge"`
}

type OutputConfig struct {
	Format string `toml:"format"`
	Badge  string `toml:"badge"`
}

type BadgeConfig struct {
	Red    float64 `toml:"red"`
	Yellow float64 `toml:"yellow"`
	Metric string  `toml:"metric"`
}

// Default returns the settings used without a config file.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads and validates the file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

// LoadOptional is Load, but a missing file yields the defaults.
func LoadOptional(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.Locale) == "" {
		cfg.Locale = "en"
	}
	if strings.TrimSpace(cfg.Output.Format) == "" {
		cfg.Output.Format = "table"
	}
	if strings.TrimSpace(cfg.Output.Badge) == "" {
		cfg.Output.Badge = "coverage.svg"
	}
	if cfg.Badge.Red == 0 && cfg.Badge.Yellow == 0 {
		cfg.Badge.Red = 40
		cfg.Badge.Yellow = 70
	}
	if strings.TrimSpace(cfg.Badge.Metric) == "" {
		cfg.Badge.Metric = model.LINE.String()
	}
}

// Validate checks every setting and joins all problems into one error.
func (c *Config) Validate() error {
	var errs []error
	if _, err := language.Parse(c.Locale); err != nil {
		errs = append(errs, fmt.Errorf("locale %q is not a valid language tag", c.Locale))
	}
	if !outputFormats[strings.ToLower(c.Output.Format)] {
		errs = append(errs, fmt.Errorf("output.format must be one of: table, json, yaml, got %q", c.Output.Format))
	}
	if c.Badge.Red < 0 || c.Badge.Yellow > 100 || c.Badge.Red > c.Badge.Yellow {
		errs = append(errs, fmt.Errorf("badge thresholds must satisfy 0 <= red <= yellow <= 100, got red=%g yellow=%g",
			c.Badge.Red, c.Badge.Yellow))
	}
	if metric, ok := model.ValueOf(strings.ToUpper(c.Badge.Metric)); !ok {
		errs = append(errs, fmt.Errorf("badge.metric references unknown metric %q", c.Badge.Metric))
	} else if metric.Kind() == model.Scalar {
		errs = append(errs, fmt.Errorf("badge.metric %s has no coverage percentage", metric))
	}
	for i, pattern := range c.Exclude {
		if strings.TrimSpace(pattern) == "" {
			errs = append(errs, fmt.Errorf("exclude[%d] must not be empty", i))
		}
	}
	return errors.Join(errs...)
}

// Language returns the parsed locale, English when it cannot be parsed.
func (c *Config) Language() language.Tag {
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.English
	}
	return tag
}

// BadgeMetric returns the metric the badge reports on.
func (c *Config) BadgeMetric() model.Metric {
	if metric, ok := model.ValueOf(strings.ToUpper(c.Badge.Metric)); ok {
		return metric
	}
	return model.LINE
}
