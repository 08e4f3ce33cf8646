// Package task holds the local task model and its recurrence expansion.
package task

import (
	"fmt"
	"time"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// SortRank orders priorities for the daily agenda: urgent items surface
// first.
func (p Priority) SortRank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityLow:
		return 2
	default:
		return 1
	}
}

// ParsePriority maps free-form input onto the enum, defaulting to medium.
func ParsePriority(s string) Priority {
	switch Priority(s) {
	case PriorityHigh:
		return PriorityHigh
	case PriorityLow:
		return PriorityLow
	default:
		return PriorityMedium
	}
}

type Source string

const (
	SourceLocal  Source = "local"
	SourceSynced Source = "synced"
)

// Task is one persisted record. Recurring templates carry an RRule and are
// expanded into ephemeral "today" instances at read time; the instances are
// never persisted.
type Task struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Notes     string     `json:"notes,omitempty"`
	Priority  Priority   `json:"priority"`
	Due       *time.Time `json:"due,omitempty"`
	Completed bool       `json:"completed"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	RRule     string     `json:"rrule,omitempty"`
	Source    Source     `json:"source"`
}

// Recurring reports whether the task is a recurrence template rather than a
// single occurrence.
func (t Task) Recurring() bool {
	return t.RRule != ""
}

// NextID returns the lowest unused sequential id (T001, T002, ...). Ids are
// never reused once assigned as long as the record remains in storage;
// completed tasks are retained, so their ids stay taken.
func NextID(existing []Task) string {
	taken := make(map[string]bool, len(existing))
	for _, t := range existing {
		taken[t.ID] = true
	}
	for n := 1; ; n++ {
		id := fmt.Sprintf("T%03d", n)
		if !taken[id] {
			return id
		}
	}
}

// ParseDue combines a YYYY-MM-DD date and an optional HH:MM time in loc.
// A date without a time is interpreted as 09:00 local.
func ParseDue(date, clock string, loc *time.Location) (*time.Time, error) {
	if date == "" {
		return nil, nil
	}
	d, err := time.ParseInLocation("2006-01-02", date, loc)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", date, err)
	}
	hour, minute := 9, 0
	if clock != "" {
		t, err := time.Parse("15:04", clock)
		if err != nil {
			return nil, fmt.Errorf("invalid time %q: %w", clock, err)
		}
		hour, minute = t.Hour(), t.Minute()
	}
	due := time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, loc)
	return &due, nil
}
