package application_test

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/fvaldes/matutino/pkg/application"
	"github.com/fvaldes/matutino/pkg/domain/task"
	"github.com/fvaldes/matutino/pkg/storage"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestTaskLifecycle(t *testing.T) {
	tempDir, _ := os.MkdirTemp("", "matutino-tasks-*")
	defer os.RemoveAll(tempDir)
	repo := storage.NewFilesystemRepository(tempDir)
	repo.Initialize()

	loc, _ := time.LoadLocation("America/Mexico_City")
	now := time.Date(2026, 8, 24, 7, 0, 0, 0, loc)
	svc := application.NewTaskService(repo, repo).WithClock(fixedClock(now))

	// Add on an empty store assigns T001.
	due := time.Date(2026, 8, 24, 10, 0, 0, 0, loc)
	id, err := svc.Add("Comprar leche", "", task.PriorityMedium, &due)
	if err != nil {
		t.Fatal(err)
	}
	if id != "T001" {
		t.Fatalf("expected T001, got %s", id)
	}

	// The new task is on today's agenda.
	agenda, err := svc.ListToday("America/Mexico_City")
	if err != nil {
		t.Fatal(err)
	}
	if len(agenda) != 1 || agenda[0].ID != "T001" {
		t.Fatalf("expected T001 on agenda, got %+v", agenda)
	}

	// Complete marks it done and it disappears from the agenda.
	found, err := svc.Complete("T001")
	if err != nil {
		t.Fatal(err)
	}
	if !found {
		t.Fatal("expected T001 to be found")
	}

	agenda, _ = svc.ListToday("America/Mexico_City")
	if len(agenda) != 0 {
		t.Errorf("completed task must leave the agenda, got %+v", agenda)
	}

	// Completing again is an idempotent true.
	found, err = svc.Complete("T001")
	if err != nil {
		t.Fatal(err)
	}
	if !found {
		t.Error("re-completing must still report found")
	}

	// The record is retained, so the next id is T002.
	id, err = svc.Add("Otra", "", task.PriorityLow, nil)
	if err != nil {
		t.Fatal(err)
	}
	if id != "T002" {
		t.Errorf("expected T002, got %s", id)
	}
}

func TestCompleteUnknownID(t *testing.T) {
	repo := &mockRepo{}
	svc := application.NewTaskService(repo, nil)

	found, err := svc.Complete("T999")
	if err != nil {
		t.Fatal(err)
	}
	if found {
		t.Error("unknown id must be a normal false outcome")
	}
	if repo.SaveCalls != 0 {
		t.Error("a lookup miss must not write")
	}
}

func TestAddValidation(t *testing.T) {
	svc := application.NewTaskService(&mockRepo{}, nil)

	if _, err := svc.Add("", "", task.PriorityMedium, nil); err == nil {
		t.Error("expected error for empty title")
	}

	failing := &mockRepo{SaveError: errors.New("disk full")}
	svc = application.NewTaskService(failing, nil)
	if _, err := svc.Add("x", "", task.PriorityMedium, nil); err == nil {
		t.Error("a storage write failure must surface to the caller")
	}
}

func TestAddRecurrentValidatesRule(t *testing.T) {
	repo := &mockRepo{}
	svc := application.NewTaskService(repo, nil)

	_, err := svc.AddRecurrent("Standup", "FREQ=SOMETIMES", "", task.PriorityMedium, nil)
	if !errors.Is(err, application.ErrInvalidRecurrenceRule) {
		t.Fatalf("expected ErrInvalidRecurrenceRule, got %v", err)
	}
	if len(repo.Tasks) != 0 {
		t.Error("nothing may be persisted on a rejected rule")
	}

	id, err := svc.AddRecurrent("Standup", "FREQ=WEEKLY;BYDAY=MO", "", task.PriorityHigh, nil)
	if err != nil {
		t.Fatal(err)
	}
	if id != "T001" || repo.Tasks[0].RRule != "FREQ=WEEKLY;BYDAY=MO" {
		t.Errorf("template not persisted as expected: %+v", repo.Tasks)
	}
}

func TestListTodayExpandsAndSorts(t *testing.T) {
	loc, _ := time.LoadLocation("America/Mexico_City")
	now := time.Date(2026, 8, 24, 7, 0, 0, 0, loc)

	dueA := time.Date(2026, 8, 24, 10, 0, 0, 0, loc)
	dueB := time.Date(2026, 8, 24, 8, 0, 0, 0, loc)
	dueC := time.Date(2026, 8, 24, 9, 0, 0, 0, loc)
	repo := &mockRepo{Tasks: []task.Task{
		{ID: "A", Title: "A", Priority: task.PriorityHigh, Due: &dueA},
		{ID: "B", Title: "B", Priority: task.PriorityHigh, Due: &dueB},
		{ID: "C", Title: "C", Priority: task.PriorityMedium, Due: &dueC},
		{ID: "R", Title: "Diaria", Priority: task.PriorityLow, RRule: "FREQ=DAILY", CreatedAt: now.AddDate(0, 0, -10)},
	}}
	svc := application.NewTaskService(repo, nil).WithClock(fixedClock(now))

	agenda, err := svc.ListToday("America/Mexico_City")
	if err != nil {
		t.Fatal(err)
	}
	if len(agenda) != 4 {
		t.Fatalf("expected 4 agenda items, got %d", len(agenda))
	}

	want := []string{"B", "A", "C", "R_today"}
	for i, w := range want {
		if agenda[i].ID != w {
			t.Fatalf("expected order %v, got %s at %d", want, agenda[i].ID, i)
		}
	}

	// Listing again yields the same agenda; expansion does not write.
	again, _ := svc.ListToday("America/Mexico_City")
	if len(again) != 4 || repo.SaveCalls != 0 {
		t.Error("expansion must be read-only and repeatable")
	}
}

func TestListTodayInvalidTimezone(t *testing.T) {
	svc := application.NewTaskService(&mockRepo{}, nil)
	if _, err := svc.ListToday("Marte/Olympus"); err == nil {
		t.Error("expected error for invalid timezone")
	}
}
