// Package storage persists the assistant's state as flat documents under a
// .matutino directory.
//
// Every write is a full read-modify-write of one file with no locking:
// concurrent writers can race and the last writer wins. This is a deliberate
// simplification for a single interactive user, not an oversight; a locking
// or transactional store would change observable behavior under concurrency.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/felixgeelhaar/fortify/retry"
	"github.com/fvaldes/matutino/pkg/domain/prefs"
	"github.com/fvaldes/matutino/pkg/domain/task"
)

const MatutinoDir = ".matutino"
const TasksFile = "tasks.json"
const PrefsFile = "preferences.json"
const AIConfigFile = "ai.yaml"
const EventsFile = "events.jsonl"

type FilesystemRepository struct {
	root        string
	retryConfig retry.Config
}

func NewFilesystemRepository(root string) *FilesystemRepository {
	return &FilesystemRepository{
		root: root,
		retryConfig: retry.Config{
			MaxAttempts:   3,
			InitialDelay:  10 * time.Millisecond,
			BackoffPolicy: retry.BackoffExponential,
		},
	}
}

// Root returns the workspace root directory.
func (r *FilesystemRepository) Root() string {
	return r.root
}

// ResolvePath ensures the path is within the .matutino directory and prevents traversal.
func (r *FilesystemRepository) ResolvePath(filename string) (string, error) {
	if filename == "" {
		return "", fmt.Errorf("filename cannot be empty")
	}

	baseDir := filepath.Join(r.root, MatutinoDir)
	fullPath := filepath.Join(baseDir, filename)
	cleanPath := filepath.Clean(fullPath)

	if !strings.HasPrefix(cleanPath, baseDir) || filepath.Dir(cleanPath) != baseDir {
		return "", fmt.Errorf("invalid file path: %s", filename)
	}

	return cleanPath, nil
}

func (r *FilesystemRepository) Initialize() error {
	path := filepath.Join(r.root, MatutinoDir)
	if err := os.MkdirAll(path, 0700); err != nil {
		return fmt.Errorf("failed to create .matutino directory: %w", err)
	}
	return nil
}

func (r *FilesystemRepository) IsInitialized() bool {
	_, err := os.Stat(filepath.Join(r.root, MatutinoDir))
	return err == nil
}

// taskDocument matches the on-disk layout: one array-of-tasks document.
type taskDocument struct {
	Tasks []task.Task `json:"tasks"`
}

func (r *FilesystemRepository) LoadTasks() ([]task.Task, error) {
	retryer := retry.New[[]task.Task](r.retryConfig)

	return retryer.Do(context.Background(), func(ctx context.Context) ([]task.Task, error) {
		path, err := r.ResolvePath(TasksFile)
		if err != nil {
			return nil, err
		}

		// #nosec G304 -- Path is resolved and validated via ResolvePath
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return []task.Task{}, nil
			}
			return nil, fmt.Errorf("failed to read tasks file: %w", err)
		}

		var doc taskDocument
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to unmarshal tasks: %w", err)
		}

		return doc.Tasks, nil
	})
}

func (r *FilesystemRepository) SaveTasks(tasks []task.Task) error {
	if err := r.Initialize(); err != nil {
		return err
	}
	path, err := r.ResolvePath(TasksFile)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(taskDocument{Tasks: tasks}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal tasks: %w", err)
	}

	return os.WriteFile(path, data, 0600)
}

func (r *FilesystemRepository) LoadPreferences() (*prefs.Preferences, error) {
	retryer := retry.New[*prefs.Preferences](r.retryConfig)

	return retryer.Do(context.Background(), func(ctx context.Context) (*prefs.Preferences, error) {
		path, err := r.ResolvePath(PrefsFile)
		if err != nil {
			return nil, err
		}

		// #nosec G304 -- Path is resolved and validated via ResolvePath
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return prefs.Default(), nil
			}
			return nil, fmt.Errorf("failed to read preferences file: %w", err)
		}

		var p prefs.Preferences
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("failed to unmarshal preferences: %w", err)
		}

		return &p, nil
	})
}

func (r *FilesystemRepository) SavePreferences(p *prefs.Preferences) error {
	if p == nil {
		return fmt.Errorf("preferences is nil")
	}
	if err := r.Initialize(); err != nil {
		return err
	}
	path, err := r.ResolvePath(PrefsFile)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}

	return os.WriteFile(path, data, 0600)
}
