// Package fallback converts "AI unavailable or erroring" into a
// deterministic degraded result, uniformly for every AI-backed operation.
//
// The policy is single-attempt and stateless: no backoff, no circuit
// breaker. Retry does not happen here or below; the AI client performs one
// call and this layer decides what to do with its failure.
package fallback

import (
	"context"
	"log/slog"
)

// Category keys the hard-coded last-resort default for an operation. There
// is one default per broad category, supplied by the caller as a typed
// value.
type Category string

const (
	Summarization Category = "summarization"
	Ranking       Category = "ranking"
	Routing       Category = "routing"
	Generic       Category = "generic"
)

// Func is an AI-backed operation or its deterministic substitute. Primary
// and fallback share a signature; arguments are captured by closure so the
// fallback always sees exactly what the primary saw.
type Func[T any] func(ctx context.Context) (T, error)

// Execute invokes primary; on any error it logs a warning and invokes fb
// with the same arguments; if fb also fails it logs an error and returns
// safe. The returned value is always usable by the caller.
func Execute[T any](ctx context.Context, logger *slog.Logger, cat Category, op string, primary, fb Func[T], safe T) T {
	if logger == nil {
		logger = slog.Default()
	}

	result, err := primary(ctx)
	if err == nil {
		return result
	}
	logger.Warn("AI operation failed, using fallback",
		"operation", op,
		"category", string(cat),
		"error", err)

	result, fbErr := fb(ctx)
	if fbErr == nil {
		return result
	}
	logger.Error("fallback also failed, returning safe default",
		"operation", op,
		"category", string(cat),
		"error", fbErr)

	return safe
}
