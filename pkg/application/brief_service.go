package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/fvaldes/matutino/pkg/domain/calendar"
	"github.com/fvaldes/matutino/pkg/domain/mail"
	"github.com/fvaldes/matutino/pkg/domain/news"
	"github.com/fvaldes/matutino/pkg/domain/task"
)

// Per-branch await deadlines. A branch that misses its deadline is
// abandoned, not interrupted: its goroutine may keep running, but the brief
// ships with the placeholder.
const (
	newsDeadline     = 5 * time.Second
	mailDeadline     = 8 * time.Second
	calendarDeadline = 3 * time.Second
	tasksDeadline    = 2 * time.Second

	// briefDeadline bounds the whole assembly.
	briefDeadline = 30 * time.Second

	// briefTaskLimit caps how many agenda items reach the brief.
	briefTaskLimit = 10
)

// NewsSource fetches raw articles for the digest.
type NewsSource interface {
	Fetch(ctx context.Context) ([]news.Article, error)
}

// MailSource fetches yesterday's messages across all configured accounts.
type MailSource interface {
	FetchYesterday(ctx context.Context) ([]mail.Message, error)
}

// CalendarSource fetches today's events.
type CalendarSource interface {
	FetchToday(ctx context.Context) ([]calendar.Event, error)
}

// NewsSection is the news branch of the brief: the digest text plus how many
// articles fed it.
type NewsSection struct {
	Summary string `json:"summary"`
	Count   int    `json:"count"`
}

// Brief is the assembled morning brief. Branches that failed or missed
// their deadline carry their placeholder; the brief itself always ships.
type Brief struct {
	News     NewsSection      `json:"news"`
	Mail     RankResult       `json:"mail"`
	Events   []calendar.Event `json:"events"`
	Tasks    []task.Task      `json:"tasks"`
	Elapsed  time.Duration    `json:"elapsed"`
	Timezone string           `json:"timezone"`
}

// BriefService assembles the brief from four independently fetched
// sections. A dead branch never sinks the brief.
type BriefService struct {
	news       NewsSource
	mailSource MailSource
	calSource  CalendarSource
	summarizer *SummarizerService
	ranker     *RankerService
	tasks      *TaskService
	logger     *slog.Logger
	timezone   string
}

func NewBriefService(
	newsSource NewsSource,
	mailSource MailSource,
	calSource CalendarSource,
	summarizer *SummarizerService,
	ranker *RankerService,
	tasks *TaskService,
	timezone string,
	logger *slog.Logger,
) *BriefService {
	if logger == nil {
		logger = slog.Default()
	}
	return &BriefService{
		news:       newsSource,
		mailSource: mailSource,
		calSource:  calSource,
		summarizer: summarizer,
		ranker:     ranker,
		tasks:      tasks,
		logger:     logger,
		timezone:   timezone,
	}
}

// Generate runs the four branches concurrently and awaits each against its
// own deadline. Expired branches are replaced by placeholders, and the whole
// assembly is bounded by the overall deadline.
func (s *BriefService) Generate(ctx context.Context) Brief {
	ctx, cancel := context.WithTimeout(ctx, briefDeadline)
	defer cancel()

	start := time.Now()

	newsCh := make(chan NewsSection, 1)
	mailCh := make(chan RankResult, 1)
	calCh := make(chan []calendar.Event, 1)
	tasksCh := make(chan []task.Task, 1)

	go func() { newsCh <- s.fetchNews(ctx) }()
	go func() { mailCh <- s.fetchMail(ctx) }()
	go func() { calCh <- s.fetchCalendar(ctx) }()
	go func() { tasksCh <- s.fetchTasks() }()

	brief := Brief{
		News:     NewsSection{Summary: "📰 Noticias no disponibles"},
		Mail:     RankResult{Emails: []mail.Message{}, Rationale: "📧 Emails no disponibles"},
		Events:   []calendar.Event{},
		Tasks:    []task.Task{},
		Timezone: s.timezone,
	}

	select {
	case brief.News = <-newsCh:
	case <-time.After(newsDeadline):
		s.logger.Warn("news branch missed deadline", "deadline", newsDeadline)
	case <-ctx.Done():
	}

	select {
	case brief.Mail = <-mailCh:
	case <-time.After(mailDeadline):
		s.logger.Warn("mail branch missed deadline", "deadline", mailDeadline)
	case <-ctx.Done():
	}

	select {
	case brief.Events = <-calCh:
	case <-time.After(calendarDeadline):
		s.logger.Warn("calendar branch missed deadline", "deadline", calendarDeadline)
	case <-ctx.Done():
	}

	select {
	case brief.Tasks = <-tasksCh:
	case <-time.After(tasksDeadline):
		s.logger.Warn("tasks branch missed deadline", "deadline", tasksDeadline)
	case <-ctx.Done():
	}

	brief.Elapsed = time.Since(start)
	s.logger.Info("brief assembled",
		"elapsed", brief.Elapsed,
		"articles", brief.News.Count,
		"emails", brief.Mail.Selected,
		"events", len(brief.Events),
		"tasks", len(brief.Tasks))
	return brief
}

func (s *BriefService) fetchNews(ctx context.Context) NewsSection {
	if s.news == nil {
		return NewsSection{Summary: "📰 Noticias no disponibles"}
	}
	articles, err := s.news.Fetch(ctx)
	if err != nil {
		s.logger.Error("news fetch failed", "error", err)
		return NewsSection{Summary: "📰 **Error al obtener noticias** - Servicio temporalmente no disponible"}
	}
	if len(articles) == 0 {
		return NewsSection{Summary: "📰 **Noticias no disponibles** - Error al obtener feeds RSS"}
	}
	return NewsSection{
		Summary: s.summarizer.Summarize(ctx, articles),
		Count:   len(articles),
	}
}

func (s *BriefService) fetchMail(ctx context.Context) RankResult {
	if s.mailSource == nil {
		return RankResult{Emails: []mail.Message{}, Rationale: "📧 Emails no disponibles"}
	}
	msgs, err := s.mailSource.FetchYesterday(ctx)
	if err != nil {
		s.logger.Error("mail fetch failed", "error", err)
		return RankResult{Emails: []mail.Message{}, Rationale: "📧 **Error al procesar correos** - Servicio temporalmente no disponible"}
	}
	if len(msgs) == 0 {
		return RankResult{Emails: []mail.Message{}, Rationale: "📧 **No hay correos de ayer** - Verifica configuración de Gmail"}
	}
	return s.ranker.PrefilterAndRank(ctx, msgs, 10)
}

func (s *BriefService) fetchCalendar(ctx context.Context) []calendar.Event {
	if s.calSource == nil {
		return []calendar.Event{}
	}
	events, err := s.calSource.FetchToday(ctx)
	if err != nil {
		s.logger.Error("calendar fetch failed", "error", err)
		return []calendar.Event{}
	}
	return events
}

func (s *BriefService) fetchTasks() []task.Task {
	agenda, err := s.tasks.ListToday(s.timezone)
	if err != nil {
		s.logger.Error("tasks fetch failed", "error", err)
		return []task.Task{}
	}
	if len(agenda) > briefTaskLimit {
		agenda = agenda[:briefTaskLimit]
	}
	return agenda
}
