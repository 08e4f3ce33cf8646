package application

import (
	"errors"
	"fmt"
	"time"

	"github.com/fvaldes/matutino/pkg/domain"
	"github.com/fvaldes/matutino/pkg/domain/task"
)

// ErrInvalidRecurrenceRule marks a rejected RRULE string. The add-recurring
// call fails and nothing is persisted.
var ErrInvalidRecurrenceRule = errors.New("invalid recurrence rule")

// TaskService implements the local task store operations over the
// whole-document JSON repository.
type TaskService struct {
	repo  domain.WorkspaceRepository
	audit domain.AuditLogger

	// now is injectable so the daily agenda can be exercised on a fixed
	// calendar day.
	now func() time.Time
}

func NewTaskService(repo domain.WorkspaceRepository, audit domain.AuditLogger) *TaskService {
	return &TaskService{repo: repo, audit: audit, now: time.Now}
}

// WithClock overrides the service clock. Used by tests and the brief
// aggregator's deterministic runs.
func (s *TaskService) WithClock(now func() time.Time) *TaskService {
	s.now = now
	return s
}

// Add persists a new one-off task and returns its id. A storage write
// failure is fatal to the call and surfaced to the caller.
func (s *TaskService) Add(title, notes string, priority task.Priority, due *time.Time) (string, error) {
	if title == "" {
		return "", fmt.Errorf("task title is required")
	}

	tasks, err := s.repo.LoadTasks()
	if err != nil {
		return "", err
	}

	id := task.NextID(tasks)
	now := s.now().UTC()
	tasks = append(tasks, task.Task{
		ID:        id,
		Title:     title,
		Notes:     notes,
		Priority:  priority,
		Due:       due,
		CreatedAt: now,
		UpdatedAt: now,
		Source:    task.SourceLocal,
	})

	if err := s.repo.SaveTasks(tasks); err != nil {
		return "", fmt.Errorf("save task: %w", err)
	}

	if s.audit != nil {
		_ = s.audit.Log("task.add", "user", map[string]interface{}{
			"task_id":  id,
			"priority": string(priority),
		})
	}
	return id, nil
}

// AddRecurrent validates rule against the RRULE grammar and persists a
// recurrence template. Only the template is persisted; daily instances are
// expanded at read time.
func (s *TaskService) AddRecurrent(title, rule, notes string, priority task.Priority, start *time.Time) (string, error) {
	if title == "" {
		return "", fmt.Errorf("task title is required")
	}
	if err := task.ValidateRRule(rule); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidRecurrenceRule, err)
	}

	tasks, err := s.repo.LoadTasks()
	if err != nil {
		return "", err
	}

	id := task.NextID(tasks)
	now := s.now().UTC()
	tasks = append(tasks, task.Task{
		ID:        id,
		Title:     title,
		Notes:     notes,
		Priority:  priority,
		Due:       start,
		CreatedAt: now,
		UpdatedAt: now,
		RRule:     rule,
		Source:    task.SourceLocal,
	})

	if err := s.repo.SaveTasks(tasks); err != nil {
		return "", fmt.Errorf("save recurring task: %w", err)
	}

	if s.audit != nil {
		_ = s.audit.Log("task.add_recurrent", "user", map[string]interface{}{
			"task_id": id,
			"rrule":   rule,
		})
	}
	return id, nil
}

// Complete marks a task done and returns whether it was found. A lookup
// miss is a normal false outcome, not an error, and completing an
// already-completed task returns true again.
func (s *TaskService) Complete(id string) (bool, error) {
	tasks, err := s.repo.LoadTasks()
	if err != nil {
		return false, err
	}

	for i := range tasks {
		if tasks[i].ID != id {
			continue
		}
		tasks[i].Completed = true
		tasks[i].UpdatedAt = s.now().UTC()
		if err := s.repo.SaveTasks(tasks); err != nil {
			return false, fmt.Errorf("save completion: %w", err)
		}
		if s.audit != nil {
			_ = s.audit.Log("task.complete", "user", map[string]interface{}{"task_id": id})
		}
		return true, nil
	}
	return false, nil
}

// ListToday returns today's agenda in tz: pending one-off tasks due today
// or earlier (or created today without a due), plus one ephemeral instance
// per recurring template matching today. Ordered by priority then due hour.
func (s *TaskService) ListToday(tz string) ([]task.Task, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", tz, err)
	}

	tasks, err := s.repo.LoadTasks()
	if err != nil {
		return nil, err
	}

	today := s.now().In(loc)
	agenda := task.SelectForDay(tasks, today, loc)
	agenda = append(agenda, task.ExpandForDay(tasks, today, loc)...)
	task.SortAgenda(agenda, loc)
	return agenda, nil
}
