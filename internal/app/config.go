package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"lingochat/internal/capability"
)

type Config struct {
	// EngineURL points at the local inference daemon. Empty means mock mode.
	EngineURL string `yaml:"engine_url"`

	SourceLanguage string `yaml:"source_language"`
	TargetLanguage string `yaml:"target_language"`

	Summary capability.SummaryOptions `yaml:"summary"`

	// Capabilities absent from this environment; the adapter fails closed on
	// them. Values: translate, detect, summarize.
	DisabledCapabilities []string `yaml:"disabled_capabilities"`

	// LogFile receives structured logs. Empty disables logging entirely; the
	// TUI owns stdout, so logs never go there.
	LogFile string `yaml:"log_file"`
}

func DefaultConfig() Config {
	return Config{
		SourceLanguage: "en",
		TargetLanguage: "fr",
		Summary:        capability.DefaultSummaryOptions(),
	}
}

func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.SourceLanguage == "" {
		cfg.SourceLanguage = "en"
	}
	if cfg.TargetLanguage == "" {
		cfg.TargetLanguage = "fr"
	}
	if cfg.Summary == (capability.SummaryOptions{}) {
		cfg.Summary = capability.DefaultSummaryOptions()
	}
	if !capability.IsSupportedLanguage(cfg.SourceLanguage) {
		return cfg, fmt.Errorf("unsupported source language %q", cfg.SourceLanguage)
	}
	if !capability.IsSupportedLanguage(cfg.TargetLanguage) {
		return cfg, fmt.Errorf("unsupported target language %q", cfg.TargetLanguage)
	}
	return cfg, nil
}

func SaveConfig(cfg Config, path string) error {
	if path == "" {
		return errors.New("no path provided for config")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func DefaultConfigPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, "lingochat", "config.yml")
}

// Disabled reports whether a capability is switched off by config.
func (c Config) Disabled(kind capability.Kind) bool {
	for _, name := range c.DisabledCapabilities {
		if name == string(kind) {
			return true
		}
	}
	return false
}
