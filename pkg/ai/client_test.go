package ai_test

import (
	"context"
	"testing"

	matutinoai "github.com/fvaldes/matutino/pkg/ai"
	"github.com/fvaldes/matutino/pkg/domain/ai"
)

func TestClientGenerateDelegates(t *testing.T) {
	mock := &matutinoai.MockProvider{Model: "m1", Response: "ok"}
	client := matutinoai.NewClientWithProvider(mock)

	resp, err := client.Generate(context.Background(), ai.Request{Prompt: "hola"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Text != "ok" || mock.Calls != 1 {
		t.Errorf("expected delegation to mock, got %q after %d calls", resp.Text, mock.Calls)
	}
	if client.ID() != "mock:m1" {
		t.Errorf("unexpected id %s", client.ID())
	}
}

func TestClientReconfigure(t *testing.T) {
	client, err := matutinoai.NewClient(matutinoai.Config{Provider: "mock", Model: "before"})
	if err != nil {
		t.Fatal(err)
	}
	if client.ID() != "mock:before" {
		t.Fatalf("unexpected initial id %s", client.ID())
	}

	if err := client.Reconfigure(matutinoai.Config{Provider: "mock", Model: "after"}); err != nil {
		t.Fatal(err)
	}
	if client.ID() != "mock:after" {
		t.Errorf("expected swapped backend, got %s", client.ID())
	}

	// A bad provider leaves the current one active.
	if err := client.Reconfigure(matutinoai.Config{Provider: "nope"}); err == nil {
		t.Error("expected error for unknown provider")
	}
	if client.ID() != "mock:after" {
		t.Errorf("failed reconfigure must not change the backend, got %s", client.ID())
	}
}

func TestNewProviderUnknown(t *testing.T) {
	if _, err := matutinoai.NewProvider(matutinoai.Config{Provider: "cohere"}); err == nil {
		t.Error("expected error for unsupported provider")
	}
}

func TestClientInfo(t *testing.T) {
	client, err := matutinoai.NewClient(matutinoai.Config{Provider: "mock", Model: "m"})
	if err != nil {
		t.Fatal(err)
	}
	info := client.Info()
	if info.Provider != "mock" || info.Model != "m" || !info.Configured {
		t.Errorf("unexpected info %+v", info)
	}
}
