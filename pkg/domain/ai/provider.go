// Package ai defines the text-generation contract the assistant depends on.
package ai

import (
	"context"
	"errors"
)

// ErrProviderUnavailable is returned when the selected backend has no API
// key configured. Callers degrade to heuristic fallbacks instead of
// surfacing this to the end user.
var ErrProviderUnavailable = errors.New("ai provider unavailable: no API key configured")

// ErrGenerationFailed wraps transport or backend errors from a generation
// call. No retry happens at this layer.
var ErrGenerationFailed = errors.New("ai generation failed")

// Request is a single generation request.
type Request struct {
	Prompt      string
	System      string
	Temperature float32
	MaxTokens   int
}

// Response is the backend's answer.
type Response struct {
	Text  string
	Model string
	Usage TokenUsage
}

// TokenUsage tracks per-call token counts for the audit log.
type TokenUsage struct {
	InputTokens  int
	OutputTokens int
}

// Provider is the interface implemented by all text-generation backends.
type Provider interface {
	ID() string
	Generate(ctx context.Context, req Request) (*Response, error)
}
