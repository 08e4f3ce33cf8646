package cli

import (
	"log/slog"
	"testing"
)

func TestJoinArgs(t *testing.T) {
	if got := joinArgs([]string{"comprar"}); got != "comprar" {
		t.Errorf("expected single arg back, got %q", got)
	}
	if got := joinArgs([]string{"comprar", "leche", "deslactosada"}); got != "comprar leche deslactosada" {
		t.Errorf("unexpected join %q", got)
	}
}

func TestParseDueFlags(t *testing.T) {
	t.Setenv("MATUTINO_TZ", "America/Mexico_City")

	due, err := parseDueFlags("", "")
	if err != nil || due != nil {
		t.Errorf("empty date must yield nil due, got %v, %v", due, err)
	}

	due, err = parseDueFlags("2026-08-24", "10:30")
	if err != nil {
		t.Fatal(err)
	}
	if due.Hour() != 10 || due.Minute() != 30 {
		t.Errorf("unexpected due time %v", due)
	}

	// Date without time defaults to the morning slot.
	due, err = parseDueFlags("2026-08-24", "")
	if err != nil {
		t.Fatal(err)
	}
	if due.Hour() != 9 {
		t.Errorf("expected 09:00 default, got %v", due)
	}

	if _, err := parseDueFlags("mañana", ""); err == nil {
		t.Error("expected error for malformed date")
	}
}

func TestTimezonePrecedence(t *testing.T) {
	t.Setenv("MATUTINO_TZ", "")
	if got := timezone(""); got != defaultTimezone {
		t.Errorf("expected default timezone, got %q", got)
	}

	t.Setenv("MATUTINO_TZ", "Europe/Madrid")
	if got := timezone(""); got != "Europe/Madrid" {
		t.Errorf("expected env timezone, got %q", got)
	}
	if got := timezone("America/Bogota"); got != "America/Bogota" {
		t.Errorf("flag must win over env, got %q", got)
	}
}

func TestLogLevel(t *testing.T) {
	t.Setenv("MATUTINO_DEBUG", "")
	if got := logLevel(); got != slog.LevelWarn {
		t.Errorf("expected warn by default, got %v", got)
	}

	t.Setenv("MATUTINO_DEBUG", "1")
	if got := logLevel(); got != slog.LevelDebug {
		t.Errorf("expected debug when MATUTINO_DEBUG set, got %v", got)
	}
}
