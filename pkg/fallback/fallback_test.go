package fallback_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fvaldes/matutino/pkg/fallback"
)

func TestExecutePrimarySucceeds(t *testing.T) {
	fbCalled := false
	result := fallback.Execute(context.Background(), nil, fallback.Generic, "op",
		func(ctx context.Context) (string, error) { return "primary", nil },
		func(ctx context.Context) (string, error) { fbCalled = true; return "fallback", nil },
		"safe",
	)
	if result != "primary" {
		t.Errorf("expected primary result, got %q", result)
	}
	if fbCalled {
		t.Error("fallback must not run when primary succeeds")
	}
}

func TestExecutePrimaryFails(t *testing.T) {
	result := fallback.Execute(context.Background(), nil, fallback.Routing, "op",
		func(ctx context.Context) (string, error) { return "", errors.New("model down") },
		func(ctx context.Context) (string, error) { return "fallback", nil },
		"safe",
	)
	if result != "fallback" {
		t.Errorf("expected fallback result, got %q", result)
	}
}

func TestExecuteDoubleFailure(t *testing.T) {
	result := fallback.Execute(context.Background(), nil, fallback.Summarization, "op",
		func(ctx context.Context) (string, error) { return "", errors.New("model down") },
		func(ctx context.Context) (string, error) { return "", errors.New("fallback broken") },
		"safe",
	)
	if result != "safe" {
		t.Errorf("expected safe default, got %q", result)
	}
}

func TestExecuteSingleAttempt(t *testing.T) {
	calls := 0
	fallback.Execute(context.Background(), nil, fallback.Ranking, "op",
		func(ctx context.Context) (int, error) { calls++; return 0, errors.New("fail") },
		func(ctx context.Context) (int, error) { return 1, nil },
		-1,
	)
	if calls != 1 {
		t.Errorf("primary must be attempted exactly once, got %d calls", calls)
	}
}
