package storage_test

import (
	"os"
	"testing"
	"time"

	"github.com/fvaldes/matutino/pkg/domain/task"
	"github.com/fvaldes/matutino/pkg/storage"
)

func newRepo(t *testing.T) *storage.FilesystemRepository {
	t.Helper()
	tempDir, err := os.MkdirTemp("", "matutino-storage-*")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	repo := storage.NewFilesystemRepository(tempDir)
	if err := repo.Initialize(); err != nil {
		t.Fatal(err)
	}
	return repo
}

func TestTasksRoundTrip(t *testing.T) {
	repo := newRepo(t)

	// Missing file is an empty store, not an error.
	tasks, err := repo.LoadTasks()
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 0 {
		t.Fatalf("expected empty store, got %d tasks", len(tasks))
	}

	due := time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC)
	saved := []task.Task{
		{ID: "T001", Title: "Comprar leche", Priority: task.PriorityMedium, Due: &due, Source: task.SourceLocal},
		{ID: "T002", Title: "Standup", Priority: task.PriorityHigh, RRule: "FREQ=DAILY", Source: task.SourceLocal},
	}
	if err := repo.SaveTasks(saved); err != nil {
		t.Fatal(err)
	}

	loaded, err := repo.LoadTasks()
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(loaded))
	}
	if loaded[0].ID != "T001" || !loaded[0].Due.Equal(due) {
		t.Errorf("task fields did not survive the round trip: %+v", loaded[0])
	}
	if loaded[1].RRule != "FREQ=DAILY" {
		t.Errorf("rrule did not survive: %+v", loaded[1])
	}
}

func TestPreferencesDefaultsWhenMissing(t *testing.T) {
	repo := newRepo(t)

	p, err := repo.LoadPreferences()
	if err != nil {
		t.Fatal(err)
	}
	if p.TopK != 10 || len(p.BlockedKeywords) != 4 {
		t.Errorf("expected defaults for missing file, got %+v", p)
	}

	p.BlockedDomains = append(p.BlockedDomains, "oracle.com")
	if err := repo.SavePreferences(p); err != nil {
		t.Fatal(err)
	}

	loaded, err := repo.LoadPreferences()
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded.BlockedDomains) != 1 || loaded.BlockedDomains[0] != "oracle.com" {
		t.Errorf("preferences did not survive the round trip: %+v", loaded)
	}
}

func TestSavePreferencesNil(t *testing.T) {
	repo := newRepo(t)
	if err := repo.SavePreferences(nil); err == nil {
		t.Error("expected error saving nil preferences")
	}
}

func TestResolvePathTraversal(t *testing.T) {
	repo := newRepo(t)

	for _, bad := range []string{"", "../escape.json", "sub/dir.json", "../../etc/passwd"} {
		if _, err := repo.ResolvePath(bad); err == nil {
			t.Errorf("expected %q to be rejected", bad)
		}
	}
	if _, err := repo.ResolvePath("tasks.json"); err != nil {
		t.Errorf("plain filename should resolve: %v", err)
	}
}

func TestAuditLogAppendAndRead(t *testing.T) {
	repo := newRepo(t)

	events, err := repo.ReadAuditLog()
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 0 {
		t.Fatalf("expected empty log, got %d events", len(events))
	}

	if err := repo.Log("task.add", "user", map[string]interface{}{"task_id": "T001"}); err != nil {
		t.Fatal(err)
	}
	if err := repo.Log("router.ai_route", "ai", nil); err != nil {
		t.Fatal(err)
	}

	events, err = repo.ReadAuditLog()
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Action != "task.add" || events[0].Actor != "user" {
		t.Errorf("unexpected first event %+v", events[0])
	}
	if events[0].ID == "" || events[0].ID == events[1].ID {
		t.Error("expected unique non-empty event ids")
	}
	if events[0].Details["task_id"] != "T001" {
		t.Errorf("details did not survive: %+v", events[0].Details)
	}
}
