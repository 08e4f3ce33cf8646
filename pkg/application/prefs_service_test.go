package application_test

import (
	"context"
	"errors"
	"testing"

	matutinoai "github.com/fvaldes/matutino/pkg/ai"
	"github.com/fvaldes/matutino/pkg/application"
)

func TestUpdatePrefsWithAI(t *testing.T) {
	mock := &matutinoai.MockProvider{
		Response: `{"action": "block", "type": "keyword", "values": ["oracle"], "explanation": "Bloqueado emails que contengan 'oracle'"}`,
	}
	repo := &mockRepo{}
	audit := &auditRecorder{}
	svc := application.NewPrefsService(mock, repo, audit, nil)

	result := svc.UpdateFromInstruction(context.Background(), "no me des correos de oracle")
	if result.Explanation != "Bloqueado emails que contengan 'oracle'" {
		t.Errorf("unexpected explanation %q", result.Explanation)
	}

	found := false
	for _, kw := range result.Preferences.BlockedKeywords {
		if kw == "oracle" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected oracle blocked, got %v", result.Preferences.BlockedKeywords)
	}
	if repo.SaveCalls != 1 {
		t.Errorf("expected one synchronous save, got %d", repo.SaveCalls)
	}
	if !audit.Has("prefs.ai_update") {
		t.Error("expected the update to be audited")
	}
}

func TestUpdatePrefsBasicFallback(t *testing.T) {
	mock := &matutinoai.MockProvider{Err: errors.New("provider down")}
	repo := &mockRepo{}
	svc := application.NewPrefsService(mock, repo, nil, nil)

	result := svc.UpdateFromInstruction(context.Background(), "bloquear notificaciones de tienda.com")
	if result.Explanation != "Preferencias actualizadas con análisis básico" {
		t.Fatalf("unexpected explanation %q", result.Explanation)
	}

	domains := result.Preferences.BlockedDomains
	if len(domains) != 1 || domains[0] != "tienda.com" {
		t.Errorf("expected tienda.com blocked as domain, got %v", domains)
	}

	// "notificaciones" is a plain word over 3 chars: blocked as keyword.
	foundKeyword := false
	for _, kw := range result.Preferences.BlockedKeywords {
		if kw == "notificaciones" {
			foundKeyword = true
		}
	}
	if !foundKeyword {
		t.Errorf("expected notificaciones blocked as keyword, got %v", result.Preferences.BlockedKeywords)
	}
	if repo.SaveCalls != 1 {
		t.Errorf("expected one save, got %d", repo.SaveCalls)
	}
}

func TestUpdatePrefsSchemaViolation(t *testing.T) {
	// Unknown action falls back to the basic parser.
	mock := &matutinoai.MockProvider{Response: `{"action": "explode", "type": "keyword", "values": ["x"]}`}
	repo := &mockRepo{}
	svc := application.NewPrefsService(mock, repo, nil, nil)

	result := svc.UpdateFromInstruction(context.Background(), "bloquear spam")
	if result.Explanation != "Preferencias actualizadas con análisis básico" {
		t.Errorf("expected basic fallback, got %q", result.Explanation)
	}
}

func TestUpdatePrefsDoubleFailure(t *testing.T) {
	mock := &matutinoai.MockProvider{Err: errors.New("provider down")}
	repo := &mockRepo{SaveError: errors.New("disk full")}
	svc := application.NewPrefsService(mock, repo, nil, nil)

	result := svc.UpdateFromInstruction(context.Background(), "bloquear spam")
	if result.Explanation != "No se pudieron actualizar las preferencias" {
		t.Errorf("expected safe default, got %q", result.Explanation)
	}
	if result.Preferences == nil {
		t.Error("safe default must still carry the current preferences")
	}
}

func TestGetPrefs(t *testing.T) {
	svc := application.NewPrefsService(&matutinoai.MockProvider{}, &mockRepo{}, nil, nil)
	p, err := svc.Get()
	if err != nil {
		t.Fatal(err)
	}
	if p.TopK != 10 {
		t.Errorf("expected defaults, got %+v", p)
	}
}
