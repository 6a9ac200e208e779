package watcher

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"silabo/internal/config"
	"silabo/internal/logging"
)

// SubmitFunc receives settled inbox files. Returning an error leaves the
// file in place for the operator to inspect.
type SubmitFunc func(ctx context.Context, file InboxFile) error

// Watcher monitors the inbox directory and submits settled PDFs.
type Watcher struct {
	cfg    *config.Config
	submit SubmitFunc
	logger *slog.Logger
	settle time.Duration

	fs *fsnotify.Watcher

	mu      sync.Mutex
	pending map[string]*time.Timer
	running bool
	cancel  func()
	wg      sync.WaitGroup
}

// New builds an inbox watcher that hands settled files to submit.
func New(cfg *config.Config, submit SubmitFunc, logger *slog.Logger) *Watcher {
	settle := time.Duration(cfg.Watcher.SettleSeconds) * time.Second
	if settle <= 0 {
		settle = 2 * time.Second
	}
	return &Watcher{
		cfg:     cfg,
		submit:  submit,
		logger:  logging.NewComponentLogger(logger, "watcher"),
		settle:  settle,
		pending: make(map[string]*time.Timer),
	}
}

// Start begins watching the inbox directory. Files already present at
// startup are scheduled as if they had just arrived.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := os.MkdirAll(w.cfg.Paths.InboxDir, 0o755); err != nil {
		return err
	}
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fs.Add(w.cfg.Paths.InboxDir); err != nil {
		_ = fs.Close()
		return err
	}
	w.fs = fs

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.scheduleExisting(runCtx)

	w.wg.Add(1)
	go w.run(runCtx)

	w.logger.Info("watching inbox", logging.String("dir", w.cfg.Paths.InboxDir))
	return nil
}

// Stop halts watching and cancels pending settle timers.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	cancel := w.cancel
	w.cancel = nil
	for path, timer := range w.pending {
		timer.Stop()
		delete(w.pending, path)
	}
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if w.fs != nil {
		_ = w.fs.Close()
	}
	w.wg.Wait()
}

func (w *Watcher) run(ctx context.Context) {
	defer w.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			w.scheduleSettle(ctx, event.Name)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn("inbox watch error", logging.Error(err))
		}
	}
}

func (w *Watcher) scheduleExisting(ctx context.Context) {
	entries, err := os.ReadDir(w.cfg.Paths.InboxDir)
	if err != nil {
		w.logger.Warn("failed to scan inbox at startup", logging.Error(err))
		return
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		w.scheduleSettle(ctx, filepath.Join(w.cfg.Paths.InboxDir, entry.Name()))
	}
}

// scheduleSettle (re)arms the settle timer for path. Every write pushes
// the submission out by the settle window, so partially copied files are
// never read.
func (w *Watcher) scheduleSettle(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return
	}
	if timer, ok := w.pending[path]; ok {
		timer.Stop()
	}
	w.pending[path] = time.AfterFunc(w.settle, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()
		w.handleSettled(ctx, path)
	})
}

func (w *Watcher) handleSettled(ctx context.Context, path string) {
	if ctx.Err() != nil {
		return
	}
	file, err := ParseFilename(path)
	if err != nil {
		w.logger.Warn("ignoring inbox file with unusable name", logging.Error(err))
		return
	}
	if err := w.submit(ctx, file); err != nil {
		w.logger.Error("inbox submission failed",
			logging.String("file", path), logging.Error(err))
		return
	}
	if err := os.Remove(path); err != nil {
		w.logger.Warn("failed to remove processed inbox file",
			logging.String("file", path), logging.Error(err))
	}
}
