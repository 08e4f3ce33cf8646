package application

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/fvaldes/matutino/pkg/domain"
	"github.com/fvaldes/matutino/pkg/domain/ai"
	"github.com/fvaldes/matutino/pkg/fallback"
)

// Intent is the classified purpose of a free-text instruction.
type Intent string

const (
	IntentAdd         Intent = "add"
	IntentRecur       Intent = "recur"
	IntentList        Intent = "listar"
	IntentComplete    Intent = "completar"
	IntentAdjustPrefs Intent = "ajustar_prefs"
	IntentBrief       Intent = "brief"
	IntentClarify     Intent = "clarify"
)

// RoutingResult is the ephemeral classification of one instruction. Every
// result has Intent set; clarify is the sentinel for "cannot proceed
// without more input" and never carries executable args.
type RoutingResult struct {
	Intent  Intent                 `json:"intent"`
	Args    map[string]interface{} `json:"args,omitempty"`
	Message string                 `json:"message,omitempty"`
}

// Arg returns a string argument, tolerating absent keys and non-string
// values from the model.
func (r RoutingResult) Arg(key string) string {
	if r.Args == nil {
		return ""
	}
	switch v := r.Args[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strings.TrimSpace(fmt.Sprintf("%v", v))
	default:
		return ""
	}
}

const routingSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["intent"],
  "properties": {
    "intent": {
      "type": "string",
      "enum": ["add", "recur", "listar", "completar", "ajustar_prefs", "brief", "clarify"]
    },
    "args": { "type": "object" },
    "message": { "type": "string" }
  }
}`

var routingSchemaLoader = gojsonschema.NewStringLoader(routingSchemaJSON)

const routerSystemPrompt = `Eres un asistente que analiza instrucciones de usuario para un bot de gestión de tareas.

Debes clasificar la instrucción en uno de estos intents:
- "add": crear tarea simple
- "recur": crear tarea recurrente
- "listar": mostrar tareas
- "completar": marcar tarea como hecha
- "ajustar_prefs": modificar preferencias
- "brief": generar resumen matutino

Para cada intent, extrae los argumentos relevantes:

ADD/RECUR args:
- title: título de la tarea
- due: fecha en formato YYYY-MM-DD (si menciona "hoy" usa fecha actual, "mañana" usa mañana)
- time: hora en formato HH:MM (24h)
- priority: "high", "medium", o "low"
- rrule: para recurrentes, formato iCal (ej: "FREQ=DAILY", "FREQ=WEEKLY;BYDAY=MO", "FREQ=MONTHLY;BYMONTHDAY=1")

COMPLETAR args:
- id: ID de la tarea

AJUSTAR_PREFS args:
- preference_instruction: instrucción completa para modificar preferencias

Si la instrucción es ambigua o no está clara, devuelve:
{"intent": "clarify", "message": "Descripción de qué necesitas aclarar"}

Responde SOLO con JSON válido, sin explicaciones adicionales.`

// RouterService classifies free-text instructions. Routing is pure
// classification; executing the resulting intent is the caller's job.
type RouterService struct {
	provider ai.Provider
	audit    domain.AuditLogger
	logger   *slog.Logger
}

func NewRouterService(provider ai.Provider, audit domain.AuditLogger, logger *slog.Logger) *RouterService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RouterService{provider: provider, audit: audit, logger: logger}
}

// Route classifies an instruction into an intent plus structured args. It
// always returns a usable result: the AI path degrades to keyword matching,
// and a double failure yields the clarify safe default.
func (s *RouterService) Route(ctx context.Context, instruction string) RoutingResult {
	return fallback.Execute(ctx, s.logger, fallback.Routing, "route_instruction",
		func(ctx context.Context) (RoutingResult, error) {
			return s.routeWithAI(ctx, instruction)
		},
		func(ctx context.Context) (RoutingResult, error) {
			return s.routeWithKeywords(instruction), nil
		},
		RoutingResult{Intent: IntentClarify, Message: "Error en procesamiento de IA"},
	)
}

func (s *RouterService) routeWithAI(ctx context.Context, instruction string) (RoutingResult, error) {
	resp, err := s.provider.Generate(ctx, ai.Request{
		Prompt:      fmt.Sprintf("Instrucción del usuario: %q", instruction),
		System:      routerSystemPrompt,
		Temperature: 0.1,
		MaxTokens:   500,
	})
	if err != nil {
		return RoutingResult{}, err
	}

	clean := extractJSON(resp.Text)
	if err := validateSchema(routingSchemaLoader, clean); err != nil {
		return RoutingResult{}, fmt.Errorf("routing response invalid: %w", err)
	}

	var result RoutingResult
	if err := json.Unmarshal([]byte(clean), &result); err != nil {
		return RoutingResult{}, fmt.Errorf("parse routing response: %w", err)
	}
	if result.Intent == "" {
		return RoutingResult{}, fmt.Errorf("routing response missing intent")
	}
	if result.Intent == IntentClarify && result.Message == "" {
		result.Message = "Necesito más detalles para entender la instrucción"
	}

	if s.audit != nil {
		_ = s.audit.Log("router.ai_route", "ai", map[string]interface{}{
			"model":         resp.Model,
			"intent":        string(result.Intent),
			"input_tokens":  resp.Usage.InputTokens,
			"output_tokens": resp.Usage.OutputTokens,
		})
	}

	return result, nil
}

var taskIDPattern = regexp.MustCompile(`\b(t_[a-f0-9]{8}|T\d{3}(?:_today)?)\b`)

// keywordCategory pairs a fixed Spanish lexicon with the intent it maps to.
// First matching category wins; there is no scoring.
type keywordCategory struct {
	intent   Intent
	keywords []string
}

var routingLexicon = []keywordCategory{
	{IntentAdd, []string{"add", "añadir", "crear", "necesito"}},
	{IntentRecur, []string{"recur", "repetir", "cada", "diario"}},
	{IntentList, []string{"list", "mostrar", "tareas"}},
	{IntentComplete, []string{"done", "hecho", "completar"}},
	{IntentBrief, []string{"brief", "resumen", "noticias"}},
	{IntentAdjustPrefs, []string{"bloquear", "preferencias", "ajustar"}},
}

func (s *RouterService) routeWithKeywords(instruction string) RoutingResult {
	lower := strings.ToLower(instruction)

	for _, cat := range routingLexicon {
		if !containsAnyWord(lower, cat.keywords) {
			continue
		}
		switch cat.intent {
		case IntentAdd:
			return RoutingResult{Intent: IntentAdd, Args: map[string]interface{}{
				"title":    instruction,
				"priority": "medium",
			}}
		case IntentRecur:
			return RoutingResult{Intent: IntentRecur, Args: map[string]interface{}{
				"title":    instruction,
				"rrule":    "FREQ=DAILY",
				"priority": "medium",
			}}
		case IntentList:
			return RoutingResult{Intent: IntentList, Args: map[string]interface{}{}}
		case IntentComplete:
			if id := taskIDPattern.FindString(instruction); id != "" {
				return RoutingResult{Intent: IntentComplete, Args: map[string]interface{}{"id": id}}
			}
			return RoutingResult{Intent: IntentClarify, Message: "No pude identificar el ID de la tarea"}
		case IntentBrief:
			return RoutingResult{Intent: IntentBrief, Args: map[string]interface{}{}}
		case IntentAdjustPrefs:
			return RoutingResult{Intent: IntentAdjustPrefs, Args: map[string]interface{}{
				"preference_instruction": instruction,
			}}
		}
	}

	return RoutingResult{Intent: IntentClarify, Message: "No pude entender la instrucción (modo fallback)"}
}

func containsAnyWord(haystack string, words []string) bool {
	for _, w := range words {
		if strings.Contains(haystack, w) {
			return true
		}
	}
	return false
}
