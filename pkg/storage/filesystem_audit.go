package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
)

// AuditEvent is one line of the append-only events.jsonl log.
type AuditEvent struct {
	ID        string                 `json:"id"`
	Timestamp time.Time              `json:"timestamp"`
	Action    string                 `json:"action"`
	Actor     string                 `json:"actor"`
	Details   map[string]interface{} `json:"details,omitempty"`
}

// Log appends an audit event. The log records AI usage and fallback
// degradation; it is never read on the hot path.
func (r *FilesystemRepository) Log(action string, actor string, details map[string]interface{}) error {
	if err := r.Initialize(); err != nil {
		return err
	}
	path, err := r.ResolvePath(EventsFile)
	if err != nil {
		return err
	}

	event := AuditEvent{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Action:    action,
		Actor:     actor,
		Details:   details,
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal audit event: %w", err)
	}

	// #nosec G304 -- Path is resolved and validated via ResolvePath
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close() //nolint:errcheck // best-effort close after append

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to append audit event: %w", err)
	}
	return nil
}

// ReadAuditLog returns all recorded events, oldest first.
func (r *FilesystemRepository) ReadAuditLog() ([]AuditEvent, error) {
	path, err := r.ResolvePath(EventsFile)
	if err != nil {
		return nil, err
	}

	// #nosec G304 -- Path is resolved and validated via ResolvePath
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []AuditEvent{}, nil
		}
		return nil, fmt.Errorf("failed to read audit log: %w", err)
	}

	var events []AuditEvent
	dec := json.NewDecoder(bytes.NewReader(data))
	for dec.More() {
		var e AuditEvent
		if err := dec.Decode(&e); err != nil {
			return nil, fmt.Errorf("failed to decode audit event: %w", err)
		}
		events = append(events, e)
	}
	return events, nil
}
