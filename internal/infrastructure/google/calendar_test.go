package google

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCalendarFetchToday(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("singleEvents") != "true" || r.URL.Query().Get("orderBy") != "startTime" {
			t.Errorf("unexpected query %q", r.URL.RawQuery)
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"items": []map[string]interface{}{
				{
					"id":      "e1",
					"summary": "Standup",
					"start":   map[string]string{"dateTime": "2026-08-24T09:00:00-06:00"},
					"end":     map[string]string{"dateTime": "2026-08-24T09:15:00-06:00"},
				},
				{
					"id":    "e2",
					"start": map[string]string{"date": "2026-08-24"},
					"end":   map[string]string{"date": "2026-08-25"},
				},
			},
		})
	}))
	defer server.Close()

	accounts := []*Account{testAccount("a@gmail.com", "https://www.googleapis.com/auth/calendar.readonly")}
	source := NewCalendarSourceWithBaseURL(accounts, server.URL, nil)

	events, err := source.FetchToday(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Title != "Standup" || events[0].Start != "09:00" || events[0].AllDay {
		t.Errorf("unexpected timed event %+v", events[0])
	}
	if events[1].Title != "Sin título" || events[1].Start != "Todo el día" || !events[1].AllDay {
		t.Errorf("unexpected all-day event %+v", events[1])
	}
}

func TestCalendarRequiresScope(t *testing.T) {
	accounts := []*Account{testAccount("solo-gmail@gmail.com", "https://www.googleapis.com/auth/gmail.readonly")}
	source := NewCalendarSource(accounts, nil)
	if _, err := source.FetchToday(context.Background()); err == nil {
		t.Error("expected error without a calendar-scoped account")
	}
}

func TestCalendarServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	accounts := []*Account{testAccount("a@gmail.com", "calendar.readonly")}
	source := NewCalendarSourceWithBaseURL(accounts, server.URL, nil)
	if _, err := source.FetchToday(context.Background()); err == nil {
		t.Error("expected error on non-200 response")
	}
}
