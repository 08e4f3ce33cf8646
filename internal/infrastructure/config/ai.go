// Package config loads and saves the workspace AI configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/fvaldes/matutino/pkg/ai"
	"github.com/fvaldes/matutino/pkg/storage"
)

// AIConfig stores provider defaults outside domain policy.
type AIConfig struct {
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
}

const (
	DefaultProvider = "gemini"
	DefaultModel    = "gemini-1.5-flash"
)

// ModelInfo describes one selectable model of the catalog.
type ModelInfo struct {
	ID          string
	Name        string
	Description string
}

// AvailableModels is the per-provider model catalog surfaced by the
// aiconfig command.
var AvailableModels = map[string][]ModelInfo{
	"gemini": {
		{ID: "gemini-1.5-flash", Name: "Gemini 1.5 Flash", Description: "Rápido y eficiente"},
		{ID: "gemini-2.0-flash-exp", Name: "Gemini 2.0 Flash", Description: "Versión 2.0 rápida"},
		{ID: "gemini-2.0-flash-thinking-exp", Name: "Gemini 2.0 Flash Exp", Description: "Versión 2.0 experimental"},
	},
	"openrouter": {
		{ID: "openai/gpt-oss-20b:free", Name: "GPT OSS 20B (Free)", Description: "OpenAI GPT OSS 20B - Gratis"},
		{ID: "zhipuai/glm-4.5-air:free", Name: "GLM 4.5 Air (Free)", Description: "Z.AI GLM 4.5 Air - Gratis"},
		{ID: "qwen/qwen-3-coder:free", Name: "Qwen3 Coder (Free)", Description: "Qwen Qwen3 Coder - Gratis"},
		{ID: "moonshot/kimi-k2:free", Name: "Kimi K2 (Free)", Description: "MoonshotAI Kimi K2 - Gratis"},
		{ID: "deepseek/r1-0528:free", Name: "DeepSeek R1 0528 (Free)", Description: "DeepSeek R1 0528 - Gratis"},
	},
}

// KnownModel reports whether model appears in the provider's catalog.
func KnownModel(provider, model string) bool {
	for _, m := range AvailableModels[provider] {
		if m.ID == model {
			return true
		}
	}
	return false
}

func LoadAIConfig(root string) (*AIConfig, error) {
	repo := storage.NewFilesystemRepository(root)
	path, err := repo.ResolvePath(storage.AIConfigFile)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read AI config: %w", err)
	}

	var cfg AIConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal AI config: %w", err)
	}

	return &cfg, nil
}

func SaveAIConfig(root string, cfg *AIConfig) error {
	if cfg == nil {
		return fmt.Errorf("AI config is nil")
	}

	repo := storage.NewFilesystemRepository(root)
	if err := repo.Initialize(); err != nil {
		return err
	}
	path, err := repo.ResolvePath(storage.AIConfigFile)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal AI config: %w", err)
	}

	return os.WriteFile(path, data, 0600)
}

// ResolveAIConfig produces the effective provider config: file values,
// overridden by MATUTINO_AI_PROVIDER and MATUTINO_AI_MODEL, defaulting to
// gemini. An empty model means the provider's own default.
func ResolveAIConfig(root string) (ai.Config, error) {
	cfg := ai.Config{Provider: DefaultProvider}

	stored, err := LoadAIConfig(root)
	if err != nil {
		return cfg, err
	}
	if stored != nil {
		if stored.Provider != "" {
			cfg.Provider = stored.Provider
		}
		cfg.Model = stored.Model
	}

	if v := os.Getenv("MATUTINO_AI_PROVIDER"); v != "" {
		cfg.Provider = v
		if stored == nil || stored.Provider != v {
			// Stored model belongs to the stored provider.
			cfg.Model = ""
		}
	}
	if v := os.Getenv("MATUTINO_AI_MODEL"); v != "" {
		cfg.Model = v
	}

	return cfg, nil
}
