package google

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/fvaldes/matutino/pkg/domain/calendar"
)

const calendarBaseURL = "https://www.googleapis.com/calendar/v3"

const calendarEventLimit = 20

// CalendarSource fetches today's events from the primary calendar of the
// first account carrying a calendar scope.
type CalendarSource struct {
	accounts []*Account
	baseURL  string
	logger   *slog.Logger
	now      func() time.Time
}

func NewCalendarSource(accounts []*Account, logger *slog.Logger) *CalendarSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &CalendarSource{
		accounts: accounts,
		baseURL:  calendarBaseURL,
		logger:   logger,
		now:      time.Now,
	}
}

// NewCalendarSourceWithBaseURL allows pointing the source at a test server.
func NewCalendarSourceWithBaseURL(accounts []*Account, baseURL string, logger *slog.Logger) *CalendarSource {
	s := NewCalendarSource(accounts, logger)
	s.baseURL = baseURL
	return s
}

type eventTime struct {
	DateTime string `json:"dateTime"`
	Date     string `json:"date"`
}

type eventList struct {
	Items []struct {
		ID       string    `json:"id"`
		Summary  string    `json:"summary"`
		Location string    `json:"location"`
		Start    eventTime `json:"start"`
		End      eventTime `json:"end"`
	} `json:"items"`
}

// FetchToday returns today's events ordered by start time.
func (s *CalendarSource) FetchToday(ctx context.Context) ([]calendar.Event, error) {
	acct := s.calendarAccount()
	if acct == nil {
		return nil, fmt.Errorf("no account with calendar scope, set %s", TokensEnvVar)
	}

	now := s.now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	q := url.Values{}
	q.Set("timeMin", dayStart.Format(time.RFC3339))
	q.Set("timeMax", dayEnd.Format(time.RFC3339))
	q.Set("maxResults", fmt.Sprintf("%d", calendarEventLimit))
	q.Set("singleEvents", "true")
	q.Set("orderBy", "startTime")

	listURL := fmt.Sprintf("%s/calendars/primary/events?%s", s.baseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, listURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := acct.HTTPClient(ctx).Do(req)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var list eventList
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}

	events := make([]calendar.Event, 0, len(list.Items))
	for _, item := range list.Items {
		title := item.Summary
		if title == "" {
			title = "Sin título"
		}
		events = append(events, calendar.Event{
			ID:       item.ID,
			Title:    title,
			Start:    formatStart(item.Start),
			End:      formatStart(item.End),
			Location: item.Location,
			AllDay:   item.Start.DateTime == "",
		})
	}
	return events, nil
}

func (s *CalendarSource) calendarAccount() *Account {
	for _, acct := range s.accounts {
		if acct.HasScope("calendar") {
			return acct
		}
	}
	return nil
}

// formatStart renders a timed event as HH:MM and an all-day event as the
// fixed Spanish label.
func formatStart(t eventTime) string {
	if t.DateTime == "" {
		if t.Date != "" {
			return "Todo el día"
		}
		return ""
	}
	parsed, err := time.Parse(time.RFC3339, t.DateTime)
	if err != nil {
		return t.DateTime
	}
	return parsed.Format("15:04")
}
