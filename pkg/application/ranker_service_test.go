package application_test

import (
	"context"
	"errors"
	"testing"

	matutinoai "github.com/fvaldes/matutino/pkg/ai"
	"github.com/fvaldes/matutino/pkg/application"
	"github.com/fvaldes/matutino/pkg/domain/mail"
	"github.com/fvaldes/matutino/pkg/domain/prefs"
)

func rankerBatch() []mail.Message {
	return []mail.Message{
		{Sender: "noreply@banco.com", Subject: "Estado de cuenta automatizado con un asunto largo para evitar el bono"},
		{Sender: "juan@empresa.com", Subject: "URGENT: decisión pendiente"},
		{Sender: "maria@cliente.mx", Subject: "Notas"},
	}
}

func TestRankWithAI(t *testing.T) {
	mock := &matutinoai.MockProvider{Response: `{"selected": [2, 3, 99], "rationale": "Urgencia primero"}`}
	audit := &auditRecorder{}
	svc := application.NewRankerService(mock, &mockRepo{}, audit, nil)

	result := svc.Rank(context.Background(), rankerBatch(), 10)
	// 99 is out of range and silently dropped.
	if result.Selected != 2 {
		t.Fatalf("expected 2 selected, got %d", result.Selected)
	}
	if result.Emails[0].Sender != "juan@empresa.com" || result.Emails[1].Sender != "maria@cliente.mx" {
		t.Errorf("unexpected selection order: %+v", result.Emails)
	}
	if result.Rationale != "Urgencia primero" {
		t.Errorf("unexpected rationale %q", result.Rationale)
	}
	if result.Considered != 3 {
		t.Errorf("expected considered 3, got %d", result.Considered)
	}
	if !audit.Has("ranker.ai_rank") {
		t.Error("expected AI ranking to be audited")
	}
}

func TestRankCapsTopK(t *testing.T) {
	mock := &matutinoai.MockProvider{Response: `{"selected": [1, 2, 3]}`}
	svc := application.NewRankerService(mock, &mockRepo{}, nil, nil)

	result := svc.Rank(context.Background(), rankerBatch(), 2)
	if result.Selected != 2 {
		t.Errorf("expected topK cap at 2, got %d", result.Selected)
	}
	if result.Rationale != "Selección basada en relevancia" {
		t.Errorf("expected default rationale, got %q", result.Rationale)
	}
}

func TestRankEmptyBatch(t *testing.T) {
	mock := &matutinoai.MockProvider{Response: `{"selected": []}`}
	svc := application.NewRankerService(mock, &mockRepo{}, nil, nil)

	result := svc.Rank(context.Background(), nil, 10)
	if result.Rationale != "No hay correos" {
		t.Errorf("unexpected rationale %q", result.Rationale)
	}
	if mock.Calls != 0 {
		t.Error("empty batch must not call the model")
	}
}

func TestRankHeuristicFallback(t *testing.T) {
	mock := &matutinoai.MockProvider{Err: errors.New("provider down")}
	svc := application.NewRankerService(mock, &mockRepo{}, nil, nil)

	result := svc.Rank(context.Background(), rankerBatch(), 2)
	if result.Rationale != "Selección usando heurística básica (IA no disponible)" {
		t.Fatalf("unexpected rationale %q", result.Rationale)
	}
	// Urgency beats everything; the automated long-subject sender scores
	// lowest and is cut by topK.
	if result.Emails[0].Sender != "juan@empresa.com" {
		t.Errorf("expected urgent mail first, got %s", result.Emails[0].Sender)
	}
	if result.Emails[1].Sender != "maria@cliente.mx" {
		t.Errorf("expected short-subject mail second, got %s", result.Emails[1].Sender)
	}
}

func TestRankSchemaViolationFallsBack(t *testing.T) {
	// Missing the required selected array.
	mock := &matutinoai.MockProvider{Response: `{"rationale": "sin lista"}`}
	svc := application.NewRankerService(mock, &mockRepo{}, nil, nil)

	result := svc.Rank(context.Background(), rankerBatch(), 10)
	if result.Rationale != "Selección usando heurística básica (IA no disponible)" {
		t.Errorf("expected heuristic fallback on schema violation, got %q", result.Rationale)
	}
}

func TestPrefilterAndRank(t *testing.T) {
	p := prefs.Default()
	p.BlockedDomains = []string{"banco.com"}
	repo := &mockRepo{Prefs: p}
	mock := &matutinoai.MockProvider{Response: `{"selected": [1]}`}
	svc := application.NewRankerService(mock, repo, nil, nil)

	result := svc.PrefilterAndRank(context.Background(), rankerBatch(), 10)
	if result.Found != 3 {
		t.Errorf("Found must be the pre-filter count, got %d", result.Found)
	}
	if result.Considered != 2 {
		t.Errorf("expected 2 considered after prefilter, got %d", result.Considered)
	}
	if result.Emails[0].Sender != "juan@empresa.com" {
		t.Errorf("unexpected first selection %s", result.Emails[0].Sender)
	}
}
