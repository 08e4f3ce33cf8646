package task

import (
	"fmt"
	"sort"
	"time"

	"github.com/teambition/rrule-go"
)

// ValidateRRule checks a recurrence rule against the iCalendar RRULE
// grammar without persisting anything.
func ValidateRRule(rule string) error {
	opt, err := rrule.StrToROption(rule)
	if err != nil {
		return fmt.Errorf("invalid RRULE %q: %w", rule, err)
	}
	if _, err := rrule.NewRRule(*opt); err != nil {
		return fmt.Errorf("invalid RRULE %q: %w", rule, err)
	}
	return nil
}

// ExpandForDay materializes one ephemeral instance per recurring template
// whose rule matches day in loc. Instance ids are the template id suffixed
// with "_today" and their due is midnight of day; re-running the expansion
// for the same calendar day yields the same instances, so it is idempotent
// by construction.
func ExpandForDay(tasks []Task, day time.Time, loc *time.Location) []Task {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
	dayEnd := dayStart.Add(24*time.Hour - time.Nanosecond)

	var expanded []Task
	for _, t := range tasks {
		if !t.Recurring() || t.Completed {
			continue
		}

		opt, err := rrule.StrToROption(t.RRule)
		if err != nil {
			continue // template validated at insert; a corrupt rule is skipped, not fatal
		}

		anchor := t.CreatedAt
		if t.Due != nil {
			anchor = *t.Due
		}
		anchor = anchor.In(loc)
		opt.Dtstart = time.Date(anchor.Year(), anchor.Month(), anchor.Day(), 0, 0, 0, 0, loc)

		rule, err := rrule.NewRRule(*opt)
		if err != nil {
			continue
		}

		matches := len(rule.Between(dayStart, dayEnd, true)) > 0
		if !matches {
			// An unbounded rule starting today always occurs today.
			matches = sameDate(opt.Dtstart, dayStart) && opt.Count == 0 && opt.Until.IsZero()
		}
		if !matches {
			continue
		}

		instance := t
		instance.ID = t.ID + "_today"
		due := dayStart
		instance.Due = &due
		expanded = append(expanded, instance)
	}
	return expanded
}

// SelectForDay picks the non-recurring tasks that belong on day's agenda:
// due on day or earlier (overdue included), or created on day when no due
// is set. Completed tasks are excluded but retained in storage.
func SelectForDay(tasks []Task, day time.Time, loc *time.Location) []Task {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)

	var selected []Task
	for _, t := range tasks {
		if t.Recurring() || t.Completed {
			continue
		}
		if t.Due != nil {
			due := t.Due.In(loc)
			dueDay := time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, loc)
			if !dueDay.After(dayStart) {
				selected = append(selected, t)
			}
			continue
		}
		if sameDate(t.CreatedAt.In(loc), dayStart) {
			selected = append(selected, t)
		}
	}
	return selected
}

// SortAgenda orders tasks by priority (high, medium, low) then due hour
// ascending. Tasks without a time sort at hour 0, first within their
// priority band.
func SortAgenda(tasks []Task, loc *time.Location) {
	sort.SliceStable(tasks, func(i, j int) bool {
		pi, pj := tasks[i].Priority.SortRank(), tasks[j].Priority.SortRank()
		if pi != pj {
			return pi < pj
		}
		return dueHour(tasks[i], loc) < dueHour(tasks[j], loc)
	})
}

func dueHour(t Task, loc *time.Location) int {
	if t.Due == nil {
		return 0
	}
	return t.Due.In(loc).Hour()
}

func sameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
