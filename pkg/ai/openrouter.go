package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/fvaldes/matutino/pkg/domain/ai"
)

const openRouterURL = "https://openrouter.ai/api/v1/chat/completions"

// OpenRouterProvider speaks the OpenAI-compatible chat-completions wire
// format against the OpenRouter gateway.
type OpenRouterProvider struct {
	Model      string
	APIKey     string
	baseURL    string       // For testing - defaults to the OpenRouter API
	httpClient *http.Client // For testing - defaults to http.DefaultClient
}

func NewOpenRouterProvider(model string, apiKey string) *OpenRouterProvider {
	if model == "" {
		model = "openai/gpt-4o-mini"
	}
	return &OpenRouterProvider{
		Model:   model,
		APIKey:  apiKey,
		baseURL: openRouterURL,
	}
}

// NewOpenRouterProviderWithClient creates a provider with custom HTTP client and base URL (for testing).
func NewOpenRouterProviderWithClient(model, apiKey, baseURL string, client *http.Client) *OpenRouterProvider {
	if model == "" {
		model = "openai/gpt-4o-mini"
	}
	if baseURL == "" {
		baseURL = openRouterURL
	}
	return &OpenRouterProvider{
		Model:      model,
		APIKey:     apiKey,
		baseURL:    baseURL,
		httpClient: client,
	}
}

func (p *OpenRouterProvider) ID() string {
	return "openrouter:" + p.Model
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float32       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

func (p *OpenRouterProvider) Generate(ctx context.Context, req ai.Request) (*ai.Response, error) {
	if p.APIKey == "" {
		return nil, fmt.Errorf("openrouter: %w (set OPENROUTER_API_KEY)", ai.ErrProviderUnavailable)
	}

	messages := []chatMessage{}
	if req.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.System})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.Prompt})

	body, err := json.Marshal(chatRequest{
		Model:       p.Model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", p.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.APIKey)

	client := p.httpClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ai.ErrGenerationFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: OpenRouter API returned status %s", ai.ErrGenerationFailed, resp.Status)
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return nil, fmt.Errorf("%w: %v", ai.ErrGenerationFailed, err)
	}

	if len(chatResp.Choices) == 0 {
		return nil, fmt.Errorf("%w: OpenRouter API returned no choices", ai.ErrGenerationFailed)
	}

	return &ai.Response{
		Text:  strings.TrimSpace(chatResp.Choices[0].Message.Content),
		Model: p.Model,
		Usage: ai.TokenUsage{
			InputTokens:  chatResp.Usage.PromptTokens,
			OutputTokens: chatResp.Usage.CompletionTokens,
		},
	}, nil
}
