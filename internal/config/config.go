package config

import (
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the file-based application settings. Secrets (JWT, database,
// broker, API keys) stay in the environment; this file carries the data
// paths and dialogue tuning knobs.
type Config struct {
	Data     DataConfig     `yaml:"data"`
	Dialogue DialogueConfig `yaml:"dialogue"`
	Pricing  PricingConfig  `yaml:"pricing"`
}

type DataConfig struct {
	MenuPath    string `yaml:"menu"`
	IntentsPath string `yaml:"intents"`
}

type DialogueConfig struct {
	// ConfidenceThreshold is the minimum classifier confidence for a
	// non-direct intent to dispatch without asking the user to confirm.
	ConfidenceThreshold float64 `yaml:"confidence_threshold"`

	// DirectIntents dispatch immediately regardless of confidence.
	DirectIntents []string `yaml:"direct_intents"`
}

type PricingConfig struct {
	// Surcharges overrides the built-in customization surcharge table:
	// category -> option -> added price.
	Surcharges map[string]map[string]float64 `yaml:"surcharges"`
}

func defaults() *Config {
	return &Config{
		Data: DataConfig{
			MenuPath:    "data/menu.json",
			IntentsPath: "data/intents.json",
		},
		Dialogue: DialogueConfig{
			ConfidenceThreshold: 0.65,
			DirectIntents:       []string{"consultar_menu", "confirmar_orden"},
		},
	}
}

// Load reads the YAML config at path on top of the built-in defaults.
func Load(path string) (*Config, error) {
	cfg := defaults()

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if cfg.Dialogue.ConfidenceThreshold < 0 || cfg.Dialogue.ConfidenceThreshold > 1 {
		return nil, fmt.Errorf("confidence_threshold must be within [0,1], got %v", cfg.Dialogue.ConfidenceThreshold)
	}

	return cfg, nil
}

// Default returns the built-in settings, for callers running without a
// config file.
func Default() *Config {
	return defaults()
}

// FindConfig probes the usual locations for a config file.
func FindConfig() (string, error) {
	candidates := []string{"config.yaml", "deploy/config.example.yaml"}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fs.ErrNotExist
}
