package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/fvaldes/matutino/internal/infrastructure/config"
	"github.com/fvaldes/matutino/pkg/ai"
	"github.com/fvaldes/matutino/pkg/storage"
)

// ConfigWatcher watches the AI config file and reconfigures the client when
// it changes. Writes to other files in the directory are ignored.
type ConfigWatcher struct {
	root     string
	client   *ai.Client
	debounce time.Duration
	logger   *slog.Logger
}

func NewConfigWatcher(root string, client *ai.Client, logger *slog.Logger) *ConfigWatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConfigWatcher{
		root:     root,
		client:   client,
		debounce: 500 * time.Millisecond,
		logger:   logger,
	}
}

// Run starts the event loop. It blocks until the context is cancelled.
func (w *ConfigWatcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fsnotify watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory, not the file: editors replace files on save and
	// a file watch dies with the old inode.
	dir := filepath.Join(w.root, storage.MatutinoDir)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	debouncer := NewDebouncer(w.debounce, w.reload)
	defer debouncer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != storage.AIConfigFile {
				continue
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) {
				continue
			}
			debouncer.Trigger()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watcher error: %w", err)
		}
	}
}

func (w *ConfigWatcher) reload() {
	cfg, err := config.ResolveAIConfig(w.root)
	if err != nil {
		w.logger.Error("could not reload AI config", "error", err)
		return
	}
	if err := w.client.Reconfigure(cfg); err != nil {
		w.logger.Error("could not reconfigure AI client", "error", err)
		return
	}
	w.logger.Info("AI client reconfigured", "provider", cfg.Provider, "model", cfg.Model)
}
