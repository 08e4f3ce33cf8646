// Package domain declares the persistence contracts the application
// services depend on.
package domain

import (
	"github.com/fvaldes/matutino/pkg/domain/prefs"
	"github.com/fvaldes/matutino/pkg/domain/task"
)

// WorkspaceRepository persists the two flat JSON documents of the
// assistant: the array-of-tasks document and the preferences object. Each
// is rewritten wholesale on every mutation.
type WorkspaceRepository interface {
	LoadTasks() ([]task.Task, error)
	SaveTasks(tasks []task.Task) error
	LoadPreferences() (*prefs.Preferences, error)
	SavePreferences(p *prefs.Preferences) error
}

// AuditLogger appends structured events (AI usage, fallback degradation) to
// the append-only audit log.
type AuditLogger interface {
	Log(action string, actor string, details map[string]interface{}) error
}
