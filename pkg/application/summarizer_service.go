package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/fvaldes/matutino/pkg/domain"
	"github.com/fvaldes/matutino/pkg/domain/ai"
	"github.com/fvaldes/matutino/pkg/domain/news"
	"github.com/fvaldes/matutino/pkg/fallback"
)

const summarySystemPrompt = `Eres un asistente que resume noticias para un brief matutino ejecutivo mexicano.

ESTRUCTURA REQUERIDA (usa exactamente estos emojis y formato):

**TL;DR:** [1-2 líneas con lo más relevante del día]

**📈 ECONOMÍA:**
México: [noticias económicas de México]
US: [noticias económicas de Estados Unidos]
Mundial: [noticias económicas internacionales]

**🌍 NOTICIAS GENERALES:**
México: [eventos importantes de México]
US: [eventos importantes de Estados Unidos]
Mundial: [eventos importantes internacionales]

**🤖 IA & TECH:**
[Innovaciones en inteligencia artificial, tecnología, startups]

**✈️ VIAJES:**
[Noticias de turismo, aerolíneas, hoteles, destinos]

REGLAS:
- Si no hay noticias de una subcategoría, escribe "Sin noticias relevantes"
- Máximo 2 bullets por subcategoría
- Tono profesional, conciso
- Enfócate en impacto económico y empresarial
- Máximo 400 palabras total`

// fallbackListLimit bounds the degraded digest to the first few titles.
const fallbackListLimit = 5

// SummarizerService turns fetched articles into a structured Spanish
// digest, via the AI with a verbatim-listing fallback.
type SummarizerService struct {
	provider ai.Provider
	audit    domain.AuditLogger
	logger   *slog.Logger
}

func NewSummarizerService(provider ai.Provider, audit domain.AuditLogger, logger *slog.Logger) *SummarizerService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SummarizerService{provider: provider, audit: audit, logger: logger}
}

// Summarize category-tags and caps the articles, then asks the AI for the
// digest. Failure degrades to listing the first titles verbatim.
func (s *SummarizerService) Summarize(ctx context.Context, articles []news.Article) string {
	if len(articles) == 0 {
		return "No hay noticias disponibles."
	}

	arranged := news.Arrange(articles)

	return fallback.Execute(ctx, s.logger, fallback.Summarization, "summarize_news",
		func(ctx context.Context) (string, error) {
			return s.summarizeWithAI(ctx, arranged)
		},
		func(ctx context.Context) (string, error) {
			return FallbackNewsDigest(articles), nil
		},
		"Resumen no disponible (error en IA y fallback)",
	)
}

func (s *SummarizerService) summarizeWithAI(ctx context.Context, articles []news.Article) (string, error) {
	var sb strings.Builder
	for _, a := range articles {
		fmt.Fprintf(&sb, "Título: %s\nFuente: %s\n", a.Title, a.Source)
		if a.Summary != "" {
			summary := a.Summary
			if len(summary) > 200 {
				summary = summary[:200] + "..."
			}
			fmt.Fprintf(&sb, "Resumen: %s\n", summary)
		}
		fmt.Fprintf(&sb, "Fecha: %s\n\n", a.Published)
	}

	resp, err := s.provider.Generate(ctx, ai.Request{
		Prompt:      "Noticias a resumir:\n" + sb.String(),
		System:      summarySystemPrompt,
		Temperature: 0.3,
		MaxTokens:   1000,
	})
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(resp.Text) == "" {
		return "", fmt.Errorf("summarization returned empty text")
	}

	if s.audit != nil {
		_ = s.audit.Log("summarizer.ai_digest", "ai", map[string]interface{}{
			"model":         resp.Model,
			"articles":      len(articles),
			"input_tokens":  resp.Usage.InputTokens,
			"output_tokens": resp.Usage.OutputTokens,
		})
	}

	return resp.Text, nil
}

// FallbackNewsDigest lists the first article titles with source, verbatim,
// under the degraded-mode banner.
func FallbackNewsDigest(articles []news.Article) string {
	if len(articles) == 0 {
		return "No hay noticias disponibles."
	}

	var sb strings.Builder
	sb.WriteString("📰 **Resumen de noticias (modo fallback):**\n\n")
	for i, a := range articles {
		if i >= fallbackListLimit {
			break
		}
		title := a.Title
		if title == "" {
			title = "Sin título"
		}
		source := a.Source
		if source == "" {
			source = "Fuente desconocida"
		}
		fmt.Fprintf(&sb, "%d. %s (%s)\n", i+1, title, source)
	}
	return sb.String()
}
