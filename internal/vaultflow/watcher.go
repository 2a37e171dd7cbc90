package vaultflow

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/colonyops/vaultflow/internal/core/config"
	"github.com/colonyops/vaultflow/internal/core/eventbus"
	"github.com/colonyops/vaultflow/internal/core/vault"
)

const watchDebounce = 100 * time.Millisecond

// inboxCategories are the directories external producers drop new items
// into; those are the only ones worth watching.
var inboxCategories = []vault.Category{
	vault.CategoryNeedsAction,
	vault.CategorySocialDraft,
}

// Watcher observes the inbox directories and publishes an ItemDetected
// event when a new document lands. Events are debounced per path because
// producers often write files in several bursts.
type Watcher struct {
	config  *config.Config
	bus     *eventbus.Bus
	watcher *fsnotify.Watcher
	logger  zerolog.Logger

	mu       sync.Mutex
	debounce map[string]*time.Timer

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWatcher creates a watcher over the vault's inbox directories. The
// directories must exist; run InitVault first.
func NewWatcher(cfg *config.Config, bus *eventbus.Bus, logger zerolog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, cat := range inboxCategories {
		if err := fsw.Add(cat.Dir(cfg.VaultPath)); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}

	return &Watcher{
		config:   cfg,
		bus:      bus,
		watcher:  fsw,
		logger:   logger.With().Str("component", "watcher").Logger(),
		debounce: make(map[string]*time.Timer),
	}, nil
}

// Start begins processing filesystem events until ctx is cancelled or
// Close is called.
func (w *Watcher) Start(ctx context.Context) {
	ctx, w.cancel = context.WithCancel(ctx)
	w.wg.Add(1)
	go w.run(ctx)
}

// Close stops watching and waits for the event loop to exit.
func (w *Watcher) Close() error {
	if w.cancel != nil {
		w.cancel()
	}

	w.mu.Lock()
	for _, timer := range w.debounce {
		timer.Stop()
	}
	w.mu.Unlock()

	err := w.watcher.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) run(ctx context.Context) {
	defer w.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn().Err(err).Msg("watch error")
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}

	name := filepath.Base(event.Name)
	if ok, err := doublestar.Match(w.config.DocumentGlob, name); err != nil || !ok {
		return
	}

	category := w.categoryFor(filepath.Dir(event.Name))

	w.mu.Lock()
	if timer, exists := w.debounce[event.Name]; exists {
		timer.Stop()
	}
	path := event.Name
	w.debounce[path] = time.AfterFunc(watchDebounce, func() {
		w.mu.Lock()
		delete(w.debounce, path)
		w.mu.Unlock()

		w.logger.Info().Str("file", name).Str("category", string(category)).Msg("new item detected")
		w.bus.Publish(eventbus.EventItemDetected, eventbus.ItemDetectedPayload{
			Category: category,
			Path:     path,
		})
	})
	w.mu.Unlock()
}

func (w *Watcher) categoryFor(dir string) vault.Category {
	for _, cat := range inboxCategories {
		if filepath.Clean(cat.Dir(w.config.VaultPath)) == filepath.Clean(dir) {
			return cat
		}
	}
	return vault.CategoryNeedsAction
}
