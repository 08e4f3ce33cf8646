package application_test

import (
	"sync"
	"time"

	"github.com/fvaldes/matutino/pkg/domain/prefs"
	"github.com/fvaldes/matutino/pkg/domain/task"
)

// mockRepo is an in-memory workspace repository with injectable failures
// and an optional artificial load delay.
type mockRepo struct {
	mu        sync.Mutex
	Tasks     []task.Task
	Prefs     *prefs.Preferences
	LoadError error
	SaveError error
	LoadDelay time.Duration
	SaveCalls int
}

func (m *mockRepo) LoadTasks() ([]task.Task, error) {
	if m.LoadDelay > 0 {
		time.Sleep(m.LoadDelay)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadError != nil {
		return nil, m.LoadError
	}
	out := make([]task.Task, len(m.Tasks))
	copy(out, m.Tasks)
	return out, nil
}

func (m *mockRepo) SaveTasks(tasks []task.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveError != nil {
		return m.SaveError
	}
	m.SaveCalls++
	m.Tasks = make([]task.Task, len(tasks))
	copy(m.Tasks, tasks)
	return nil
}

func (m *mockRepo) LoadPreferences() (*prefs.Preferences, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadError != nil {
		return nil, m.LoadError
	}
	if m.Prefs == nil {
		return prefs.Default(), nil
	}
	clone := *m.Prefs
	return &clone, nil
}

func (m *mockRepo) SavePreferences(p *prefs.Preferences) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveError != nil {
		return m.SaveError
	}
	m.SaveCalls++
	clone := *p
	m.Prefs = &clone
	return nil
}

// auditRecorder captures audit calls in order.
type auditRecorder struct {
	mu      sync.Mutex
	Actions []string
}

func (a *auditRecorder) Log(action, actor string, details map[string]interface{}) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Actions = append(a.Actions, action)
	return nil
}

func (a *auditRecorder) Has(action string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, got := range a.Actions {
		if got == action {
			return true
		}
	}
	return false
}
