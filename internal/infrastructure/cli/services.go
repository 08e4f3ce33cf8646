package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/fvaldes/matutino/internal/infrastructure/config"
	"github.com/fvaldes/matutino/internal/infrastructure/feeds"
	"github.com/fvaldes/matutino/internal/infrastructure/google"
	"github.com/fvaldes/matutino/pkg/ai"
	"github.com/fvaldes/matutino/pkg/application"
	"github.com/fvaldes/matutino/pkg/storage"
)

const defaultTimezone = "America/Mexico_City"

var headerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#FAFAFA")).
	Background(lipgloss.Color("#5F87D7")).
	PaddingLeft(1).
	PaddingRight(1)

var errStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

// services is the per-invocation wiring of repository, AI client and
// application services.
type services struct {
	root       string
	repo       *storage.FilesystemRepository
	client     *ai.Client
	router     *application.RouterService
	tasks      *application.TaskService
	ranker     *application.RankerService
	summarizer *application.SummarizerService
	prefs      *application.PrefsService
	logger     *slog.Logger
}

func buildServices() (*services, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel(),
	}))

	repo := storage.NewFilesystemRepository(cwd)

	cfg, err := config.ResolveAIConfig(cwd)
	if err != nil {
		return nil, fmt.Errorf("resolve AI config: %w", err)
	}
	client, err := ai.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("create AI client: %w", err)
	}

	return &services{
		root:       cwd,
		repo:       repo,
		client:     client,
		router:     application.NewRouterService(client, repo, logger),
		tasks:      application.NewTaskService(repo, repo),
		ranker:     application.NewRankerService(client, repo, repo, logger),
		summarizer: application.NewSummarizerService(client, repo, logger),
		prefs:      application.NewPrefsService(client, repo, repo, logger),
		logger:     logger,
	}, nil
}

// brief assembles the brief service with its live sources.
func (s *services) brief(tz string) *application.BriefService {
	accounts, err := google.AccountsFromEnv()
	if err != nil {
		s.logger.Warn("could not load Google accounts", "error", err)
	}

	return application.NewBriefService(
		feeds.NewRSSSource(nil, s.logger),
		google.NewGmailSource(accounts, s.logger),
		google.NewCalendarSource(accounts, s.logger),
		s.summarizer,
		s.ranker,
		s.tasks,
		tz,
		s.logger,
	)
}

func timezone(flag string) string {
	if flag != "" {
		return flag
	}
	if v := os.Getenv("MATUTINO_TZ"); v != "" {
		return v
	}
	return defaultTimezone
}

func logLevel() slog.Level {
	if os.Getenv("MATUTINO_DEBUG") != "" {
		return slog.LevelDebug
	}
	return slog.LevelWarn
}
