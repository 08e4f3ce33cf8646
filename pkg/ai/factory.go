package ai

import (
	"context"
	"fmt"
	"os"

	"github.com/fvaldes/matutino/pkg/domain/ai"
)

// Config selects a backend and model. It is resolved by the configuration
// layer (file + environment overrides) before reaching the factory.
type Config struct {
	Provider string
	Model    string
}

func NewProvider(cfg Config) (ai.Provider, error) {
	switch cfg.Provider {
	case "gemini", "":
		return NewGeminiProvider(cfg.Model, os.Getenv("GEMINI_API_KEY")), nil
	case "openrouter":
		return NewOpenRouterProvider(cfg.Model, os.Getenv("OPENROUTER_API_KEY")), nil
	case "mock":
		return &MockProvider{Model: cfg.Model}, nil
	default:
		return nil, fmt.Errorf("unsupported AI provider: %s", cfg.Provider)
	}
}

// Configured reports whether an API key is present for the selected backend.
func Configured(cfg Config) bool {
	switch cfg.Provider {
	case "gemini", "":
		return os.Getenv("GEMINI_API_KEY") != ""
	case "openrouter":
		return os.Getenv("OPENROUTER_API_KEY") != ""
	case "mock":
		return true
	default:
		return false
	}
}

// MockProvider returns canned responses for tests and dry runs.
type MockProvider struct {
	Model    string
	Response string
	Err      error
	Calls    int
}

func (p *MockProvider) ID() string {
	return "mock:" + p.Model
}

func (p *MockProvider) Generate(_ context.Context, _ ai.Request) (*ai.Response, error) {
	p.Calls++
	if p.Err != nil {
		return nil, p.Err
	}
	return &ai.Response{Text: p.Response, Model: p.Model}, nil
}
