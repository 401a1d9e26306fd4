package config

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// PromptConfig represents the structure of the prompt file.
// Multi-line prompts are easier to manage in YAML than env vars.
type PromptConfig struct {
	Prompt string `yaml:"prompt"`
	Model  string `yaml:"model,omitempty"` // Gemini model override
}

// LoadPromptConfig loads the prompt file at path.
// Returns nil without error if the file doesn't exist.
func LoadPromptConfig(path string) (*PromptConfig, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Prompt file is optional
			return nil, nil
		}
		return nil, err
	}

	var cfg PromptConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Prompt = strings.TrimSpace(cfg.Prompt)
	cfg.Model = strings.TrimSpace(cfg.Model)

	return &cfg, nil
}

// PromptOr returns the configured prompt, or fallback when unset.
func (c *PromptConfig) PromptOr(fallback string) string {
	if c == nil || c.Prompt == "" {
		return fallback
	}
	return c.Prompt
}

// ModelOr returns the configured model, or fallback when unset.
func (c *PromptConfig) ModelOr(fallback string) string {
	if c == nil || c.Model == "" {
		return fallback
	}
	return c.Model
}
