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
	"github.com/fvaldes/matutino/pkg/domain/prefs"
	"github.com/fvaldes/matutino/pkg/fallback"
)

const prefsSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["action", "type", "values"],
  "properties": {
    "action": {
      "type": "string",
      "enum": ["block", "prioritize", "unblock", "modify"]
    },
    "type": {
      "type": "string",
      "enum": ["domain", "sender", "keyword"]
    },
    "values": {
      "type": "array",
      "items": { "type": "string" }
    },
    "explanation": { "type": "string" }
  }
}`

var prefsSchemaLoader = gojsonschema.NewStringLoader(prefsSchemaJSON)

// PrefsResult is the persisted preferences plus the explanation of what the
// interpreter did with the instruction.
type PrefsResult struct {
	Preferences *prefs.Preferences
	Explanation string
}

// PrefsService interprets natural-language filter instructions and persists
// the resulting preference changes synchronously. Concurrent updates are
// last-attempt-wins on the whole document.
type PrefsService struct {
	provider ai.Provider
	repo     domain.WorkspaceRepository
	audit    domain.AuditLogger
	logger   *slog.Logger
}

func NewPrefsService(provider ai.Provider, repo domain.WorkspaceRepository, audit domain.AuditLogger, logger *slog.Logger) *PrefsService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PrefsService{provider: provider, repo: repo, audit: audit, logger: logger}
}

// Get returns the current preferences, or defaults when none were saved yet.
func (s *PrefsService) Get() (*prefs.Preferences, error) {
	return s.repo.LoadPreferences()
}

// UpdateFromInstruction interprets the instruction into a preference change,
// applies it and saves. The AI interpreter degrades to keyword heuristics;
// a double failure leaves the stored preferences untouched.
func (s *PrefsService) UpdateFromInstruction(ctx context.Context, instruction string) PrefsResult {
	current, err := s.repo.LoadPreferences()
	if err != nil {
		s.logger.Warn("could not load preferences, starting from defaults", "error", err)
		current = prefs.Default()
	}

	return fallback.Execute(ctx, s.logger, fallback.Generic, "update_preferences",
		func(ctx context.Context) (PrefsResult, error) {
			return s.updateWithAI(ctx, instruction, current)
		},
		func(ctx context.Context) (PrefsResult, error) {
			return s.updateBasic(instruction, current)
		},
		PrefsResult{Preferences: current, Explanation: "No se pudieron actualizar las preferencias"},
	)
}

func (s *PrefsService) updateWithAI(ctx context.Context, instruction string, current *prefs.Preferences) (PrefsResult, error) {
	system := fmt.Sprintf(`Eres un asistente que interpreta instrucciones para filtros de email.

Preferencias actuales:
- Dominios bloqueados: %v
- Remitentes bloqueados: %v
- Palabras clave bloqueadas: %v
- Dominios prioritarios: %v
- Remitentes prioritarios: %v

Responde SOLO con un JSON válido con los cambios a aplicar:
{
  "action": "block" | "prioritize" | "unblock" | "modify",
  "type": "domain" | "sender" | "keyword",
  "values": ["valor1", "valor2"],
  "explanation": "Explicación de lo que se hizo"
}

Ejemplos:
- "no me des correos de oracle" → {"action": "block", "type": "keyword", "values": ["oracle"], "explanation": "Bloqueado emails que contengan 'oracle'"}
- "prioriza emails de mi jefe juan@empresa.com" → {"action": "prioritize", "type": "sender", "values": ["juan@empresa.com"], "explanation": "Priorizados emails de juan@empresa.com"}`,
		current.BlockedDomains, current.BlockedSenders, current.BlockedKeywords,
		current.PriorityDomains, current.PrioritySenders)

	resp, err := s.provider.Generate(ctx, ai.Request{
		Prompt:      fmt.Sprintf("Instrucción del usuario: %q", instruction),
		System:      system,
		Temperature: 0.1,
		MaxTokens:   500,
	})
	if err != nil {
		return PrefsResult{}, err
	}

	clean := extractJSON(resp.Text)
	if err := validateSchema(prefsSchemaLoader, clean); err != nil {
		return PrefsResult{}, fmt.Errorf("preference response invalid: %w", err)
	}

	var change prefs.Change
	if err := json.Unmarshal([]byte(clean), &change); err != nil {
		return PrefsResult{}, fmt.Errorf("parse preference response: %w", err)
	}

	current.Apply(change)
	if err := s.repo.SavePreferences(current); err != nil {
		return PrefsResult{}, fmt.Errorf("save preferences: %w", err)
	}

	if s.audit != nil {
		_ = s.audit.Log("prefs.ai_update", "ai", map[string]interface{}{
			"action": string(change.Action),
			"type":   string(change.Kind),
			"values": change.Values,
		})
	}

	explanation := change.Explanation
	if explanation == "" {
		explanation = "Preferencias actualizadas"
	}
	return PrefsResult{Preferences: current, Explanation: explanation}, nil
}

// prefsFillerWords are instruction words the heuristic never treats as
// blockable keywords.
var prefsFillerWords = []string{"correos", "emails", "de"}

func (s *PrefsService) updateBasic(instruction string, current *prefs.Preferences) (PrefsResult, error) {
	lower := strings.ToLower(instruction)

	if strings.Contains(lower, "no me des") || strings.Contains(lower, "bloquear") {
		for _, word := range strings.Fields(lower) {
			word = strings.Trim(word, ".,;:\"'")
			switch {
			case strings.Contains(word, "@") || strings.Contains(word, "."):
				current.Apply(prefs.Change{Action: prefs.ActionBlock, Kind: prefs.KindDomain, Values: []string{word}})
			case len(word) > 3 && !containsWord(prefsFillerWords, word):
				current.Apply(prefs.Change{Action: prefs.ActionBlock, Kind: prefs.KindKeyword, Values: []string{word}})
			}
		}
	}

	if err := s.repo.SavePreferences(current); err != nil {
		return PrefsResult{}, fmt.Errorf("save preferences: %w", err)
	}

	return PrefsResult{
		Preferences: current,
		Explanation: "Preferencias actualizadas con análisis básico",
	}, nil
}

func containsWord(list []string, w string) bool {
	for _, item := range list {
		if item == w {
			return true
		}
	}
	return false
}
