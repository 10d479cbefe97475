// Package config loads assessment settings from a YAML file. Everything has
// a working default; a config file only overrides what it mentions.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration parses YAML values like "5s" or "20m".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config holds the assessment settings.
type Config struct {
	Strategies Strategies `yaml:"strategies"`
	Image      Image      `yaml:"image"`
	Model      Model      `yaml:"model"`
	Cache      Cache      `yaml:"cache"`
}

// Strategies controls which fetch strategies run and how.
type Strategies struct {
	EnableThirdParty bool     `yaml:"enable_third_party"`
	DisableHeadless  bool     `yaml:"disable_headless"`
	BrowserCookies   bool     `yaml:"browser_cookies"`
	HeadlessSettle   Duration `yaml:"headless_settle"`
}

// Image controls the profile picture reuse check.
type Image struct {
	CorpusDir string `yaml:"corpus_dir"`
	Threshold int    `yaml:"threshold"`
}

// Model points at the fraud model service.
type Model struct {
	URL    string `yaml:"url"`
	APIKey string `yaml:"api_key"`
}

// Cache controls the HTTP response cache.
type Cache struct {
	Disabled bool     `yaml:"disabled"`
	TTL      Duration `yaml:"ttl"`
}

// Default returns the settings used when no config file is given.
func Default() Config {
	return Config{
		Strategies: Strategies{HeadlessSettle: Duration(3 * time.Second)},
		Image:      Image{Threshold: 8},
		Cache:      Cache{TTL: Duration(20 * time.Minute)},
	}
}

// Load reads a YAML config file over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config read failed: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config parse failed: %w", err)
	}

	if cfg.Image.Threshold < 0 || cfg.Image.Threshold > 64 {
		return Config{}, fmt.Errorf("image threshold %d out of range [0, 64]", cfg.Image.Threshold)
	}
	return cfg, nil
}
