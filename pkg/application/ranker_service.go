package application

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/fvaldes/matutino/pkg/domain"
	"github.com/fvaldes/matutino/pkg/domain/ai"
	"github.com/fvaldes/matutino/pkg/domain/mail"
	"github.com/fvaldes/matutino/pkg/fallback"
)

// rankLimit caps how many filtered messages reach the model prompt.
const rankLimit = 50

// bodyPreview caps how much body text each message contributes.
const bodyPreview = 200

// RankResult is the ranked selection plus its counters: Found is the
// pre-filter count, Considered is min(filtered, 50), Selected is the length
// of the resolved list.
type RankResult struct {
	Emails     []mail.Message `json:"emails"`
	Found      int            `json:"found"`
	Considered int            `json:"considered"`
	Selected   int            `json:"selected"`
	Rationale  string         `json:"rationale"`
}

const rankSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["selected"],
  "properties": {
    "selected": {
      "type": "array",
      "items": { "type": "integer" }
    },
    "rationale": { "type": "string" }
  }
}`

var rankSchemaLoader = gojsonschema.NewStringLoader(rankSchemaJSON)

type rankResponse struct {
	Selected  []int  `json:"selected"`
	Rationale string `json:"rationale"`
}

// RankerService selects the most relevant messages from a pre-filtered
// batch, via the AI with a keyword-heuristic fallback.
type RankerService struct {
	provider ai.Provider
	repo     domain.WorkspaceRepository
	audit    domain.AuditLogger
	logger   *slog.Logger
}

func NewRankerService(provider ai.Provider, repo domain.WorkspaceRepository, audit domain.AuditLogger, logger *slog.Logger) *RankerService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RankerService{provider: provider, repo: repo, audit: audit, logger: logger}
}

// PrefilterAndRank applies the preference prefilter, then ranks the
// survivors. Found in the result is the original batch size.
func (s *RankerService) PrefilterAndRank(ctx context.Context, msgs []mail.Message, topK int) RankResult {
	p, err := s.repo.LoadPreferences()
	if err != nil {
		s.logger.Warn("could not load preferences for prefilter", "error", err)
	}

	filtered, original := mail.Prefilter(msgs, p)
	result := s.Rank(ctx, filtered, topK)
	result.Found = original
	return result
}

// Rank asks the AI to pick the topK most important messages and justify the
// selection. On failure it scores by heuristics; on double failure it
// returns the ranking safe default.
func (s *RankerService) Rank(ctx context.Context, msgs []mail.Message, topK int) RankResult {
	if len(msgs) == 0 {
		return RankResult{Emails: []mail.Message{}, Rationale: "No hay correos"}
	}
	if topK <= 0 {
		topK = 10
	}

	return fallback.Execute(ctx, s.logger, fallback.Ranking, "rank_emails",
		func(ctx context.Context) (RankResult, error) {
			return s.rankWithAI(ctx, msgs, topK)
		},
		func(ctx context.Context) (RankResult, error) {
			return s.rankWithHeuristics(msgs, topK), nil
		},
		RankResult{Emails: []mail.Message{}, Rationale: "Error en ranking"},
	)
}

func (s *RankerService) rankWithAI(ctx context.Context, msgs []mail.Message, topK int) (RankResult, error) {
	considered := msgs
	if len(considered) > rankLimit {
		considered = considered[:rankLimit]
	}

	var sb strings.Builder
	for i, m := range considered {
		body := m.Body
		if len(body) > bodyPreview {
			body = body[:bodyPreview] + "..."
		}
		fmt.Fprintf(&sb, "Email %d:\nRemitente: %s\nAsunto: %s\nPara: %s\nFecha: %s\nCuerpo (primeras líneas): %s\n\n",
			i+1, m.Sender, m.Subject, m.To, m.Date, body)
	}

	p, _ := s.repo.LoadPreferences()
	var priorityDomains, prioritySenders []string
	if p != nil {
		priorityDomains = p.PriorityDomains
		prioritySenders = p.PrioritySenders
	}

	system := fmt.Sprintf(`Eres un asistente que selecciona los correos más relevantes de AYER para un brief matutino.

Criterios de priorización:
1. Correos dirigidos directamente al usuario (To:) > Copia (Cc:)
2. Remitentes de dominios prioritarios: %v
3. Remitentes prioritarios: %v
4. Evitar newsletters, promociones, notificaciones automáticas
5. Priorizar urgencia, reuniones, decisiones pendientes

Selecciona los correos MÁS importantes y devuelve SOLO un JSON con este formato:
{"selected": [1, 3, 5], "rationale": "Breve explicación"}

Los números deben corresponder a los Email 1, Email 2, etc. de la lista.`, priorityDomains, prioritySenders)

	resp, err := s.provider.Generate(ctx, ai.Request{
		Prompt:      fmt.Sprintf("Selecciona los %d correos más importantes de esta lista:\n\n%s", topK, sb.String()),
		System:      system,
		Temperature: 0.1,
		MaxTokens:   1000,
	})
	if err != nil {
		return RankResult{}, err
	}

	clean := extractJSON(resp.Text)
	if err := validateSchema(rankSchemaLoader, clean); err != nil {
		return RankResult{}, fmt.Errorf("ranking response invalid: %w", err)
	}

	var parsed rankResponse
	if err := json.Unmarshal([]byte(clean), &parsed); err != nil {
		return RankResult{}, fmt.Errorf("parse ranking response: %w", err)
	}

	// Resolve 1-based positions; out-of-range indexes are silently dropped.
	var selected []mail.Message
	for _, idx := range parsed.Selected {
		if idx >= 1 && idx <= len(considered) {
			selected = append(selected, considered[idx-1])
		}
	}
	if len(selected) > topK {
		selected = selected[:topK]
	}

	rationale := parsed.Rationale
	if rationale == "" {
		rationale = "Selección basada en relevancia"
	}

	if s.audit != nil {
		_ = s.audit.Log("ranker.ai_rank", "ai", map[string]interface{}{
			"model":         resp.Model,
			"considered":    len(considered),
			"selected":      len(selected),
			"input_tokens":  resp.Usage.InputTokens,
			"output_tokens": resp.Usage.OutputTokens,
		})
	}

	return RankResult{
		Emails:     selected,
		Found:      len(msgs),
		Considered: len(considered),
		Selected:   len(selected),
		Rationale:  rationale,
	}, nil
}

var urgencyKeywords = []string{"urgent", "importante", "meeting", "reunión"}
var automatedKeywords = []string{"noreply", "no-reply", "automated"}

func (s *RankerService) rankWithHeuristics(msgs []mail.Message, topK int) RankResult {
	type scored struct {
		msg   mail.Message
		score int
	}

	items := make([]scored, 0, len(msgs))
	for _, m := range msgs {
		sender := strings.ToLower(m.Sender)
		subject := strings.ToLower(m.Subject)

		score := 0
		if containsAnyWord(subject, urgencyKeywords) {
			score += 5
		}
		if containsAnyWord(sender, automatedKeywords) {
			score -= 5
		}
		if len(subject) < 50 {
			score += 2
		}
		items = append(items, scored{msg: m, score: score})
	}

	// Stable insertion keeps feed order among equal scores.
	for i := 1; i < len(items); i++ {
		for j := i; j > 0 && items[j].score > items[j-1].score; j-- {
			items[j], items[j-1] = items[j-1], items[j]
		}
	}

	n := topK
	if n > len(items) {
		n = len(items)
	}
	selected := make([]mail.Message, 0, n)
	for _, it := range items[:n] {
		selected = append(selected, it.msg)
	}

	return RankResult{
		Emails:     selected,
		Found:      len(msgs),
		Considered: len(msgs),
		Selected:   len(selected),
		Rationale:  "Selección usando heurística básica (IA no disponible)",
	}
}
