package application_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	matutinoai "github.com/fvaldes/matutino/pkg/ai"
	"github.com/fvaldes/matutino/pkg/application"
	"github.com/fvaldes/matutino/pkg/domain/news"
)

func articleBatch() []news.Article {
	return []news.Article{
		{Title: "Inflación a la baja", Source: "BBC News"},
		{Title: "OpenAI presenta modelo", Source: "CNN"},
		{Title: "Nuevo vuelo a Cancún", Source: "Reuters"},
	}
}

func TestSummarizeWithAI(t *testing.T) {
	mock := &matutinoai.MockProvider{Response: "**TL;DR:** día tranquilo"}
	audit := &auditRecorder{}
	svc := application.NewSummarizerService(mock, audit, nil)

	got := svc.Summarize(context.Background(), articleBatch())
	if got != "**TL;DR:** día tranquilo" {
		t.Errorf("unexpected digest %q", got)
	}
	if !audit.Has("summarizer.ai_digest") {
		t.Error("expected digest to be audited")
	}
}

func TestSummarizeEmpty(t *testing.T) {
	mock := &matutinoai.MockProvider{Response: "should not be called"}
	svc := application.NewSummarizerService(mock, nil, nil)

	got := svc.Summarize(context.Background(), nil)
	if got != "No hay noticias disponibles." {
		t.Errorf("unexpected result %q", got)
	}
	if mock.Calls != 0 {
		t.Error("empty input must not call the model")
	}
}

func TestSummarizeFallbackBanner(t *testing.T) {
	mock := &matutinoai.MockProvider{Err: errors.New("provider down")}
	svc := application.NewSummarizerService(mock, nil, nil)

	got := svc.Summarize(context.Background(), articleBatch())
	if !strings.HasPrefix(got, "📰 **Resumen de noticias (modo fallback):**") {
		t.Fatalf("expected fallback banner, got %q", got)
	}
	if !strings.Contains(got, "1. Inflación a la baja (BBC News)") {
		t.Errorf("expected first title with source, got %q", got)
	}
}

func TestSummarizeEmptyResponseFallsBack(t *testing.T) {
	mock := &matutinoai.MockProvider{Response: "   "}
	svc := application.NewSummarizerService(mock, nil, nil)

	got := svc.Summarize(context.Background(), articleBatch())
	if !strings.Contains(got, "modo fallback") {
		t.Errorf("blank digest must degrade, got %q", got)
	}
}

func TestFallbackNewsDigestLimit(t *testing.T) {
	var articles []news.Article
	for i := 0; i < 8; i++ {
		articles = append(articles, news.Article{Title: "Nota", Source: "BBC"})
	}
	got := application.FallbackNewsDigest(articles)
	if strings.Count(got, "Nota") != 5 {
		t.Errorf("expected 5 listed titles, got %q", got)
	}

	got = application.FallbackNewsDigest([]news.Article{{}})
	if !strings.Contains(got, "Sin título") || !strings.Contains(got, "Fuente desconocida") {
		t.Errorf("expected placeholders for empty fields, got %q", got)
	}
}
