package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"
	"github.com/robfig/cron/v3"

	"silabo/internal/catalog"
	"silabo/internal/config"
	"silabo/internal/embedding"
	"silabo/internal/extraction"
	"silabo/internal/grouping"
	"silabo/internal/intake"
	"silabo/internal/lexical"
	"silabo/internal/logging"
	"silabo/internal/queue"
	"silabo/internal/storage"
	"silabo/internal/syllabus"
	"silabo/internal/watcher"
	"silabo/internal/workflow"
)

const (
	maintenanceTimeout = 30 * time.Second
	staleItemCutoff    = time.Hour
)

// Daemon coordinates background processing and enforces single-instance
// execution.
type Daemon struct {
	cfg      *config.Config
	logger   *slog.Logger
	queue    *queue.Store
	catalog  *catalog.Store
	workflow *workflow.Manager
	intake   *intake.Service
	watcher  *watcher.Watcher
	cron     *cron.Cron

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	cancel  context.CancelFunc
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	Health       workflow.Health
	QueueDBPath  string
	LockFilePath string
}

// New opens the stores and wires every processing component. The caller
// owns the returned daemon and must Close it.
func New(cfg *config.Config, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil {
		return nil, errors.New("daemon requires configuration")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	queueStore, err := queue.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open queue store: %w", err)
	}
	catalogStore, err := catalog.Open(cfg)
	if err != nil {
		_ = queueStore.Close()
		return nil, fmt.Errorf("open catalog store: %w", err)
	}

	var remote *storage.RemoteStore
	var fetcher syllabus.Fetcher
	if cfg.Storage.Enabled {
		remote = storage.NewRemoteStore(cfg.Storage, logger)
		fetcher = remote
	}
	resolver := storage.NewResolver(cfg, fetcher)

	embedder := embedding.NewClient(cfg.Embedding, logger)
	tokenizer := lexical.NewTokenizer(lexical.NewLemmatizer(cfg.Lemmatizer), cfg.Lemmatizer.MaxInputChars)

	manager := workflow.NewManager(cfg, queueStore, logger)
	manager.RegisterStage("extraction",
		queue.StatusPending, queue.StatusExtracting, queue.StatusExtracted,
		extraction.NewHandler(cfg, catalogStore, resolver, logger))
	manager.RegisterStage("matching",
		queue.StatusExtracted, queue.StatusMatching, queue.StatusGrouped,
		grouping.NewHandler(cfg, catalogStore, embedder, tokenizer, logger))

	intakeService := intake.NewService(cfg, catalogStore, queueStore, remote, logger)

	d := &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		queue:    queueStore,
		catalog:  catalogStore,
		workflow: manager,
		intake:   intakeService,
		lockPath: filepath.Join(cfg.Paths.DataDir, "silabod.lock"),
	}
	d.lock = flock.New(d.lockPath)

	if cfg.Watcher.Enabled {
		d.watcher = watcher.New(cfg, d.submitInboxFile, logger)
	}
	d.cron = cron.New()
	if _, err := d.cron.AddFunc(cfg.Maintenance.Schedule, d.runMaintenance); err != nil {
		_ = d.Close()
		return nil, fmt.Errorf("schedule maintenance: %w", err)
	}

	return d, nil
}

// Start acquires the daemon lock and launches background processing.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another silabo daemon instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	if err := d.workflow.Start(runCtx); err != nil {
		cancel()
		d.cancel = nil
		_ = d.lock.Unlock()
		return fmt.Errorf("start workflow: %w", err)
	}
	if d.watcher != nil {
		if err := d.watcher.Start(runCtx); err != nil {
			d.workflow.Stop()
			cancel()
			d.cancel = nil
			_ = d.lock.Unlock()
			return fmt.Errorf("start inbox watcher: %w", err)
		}
	}
	d.cron.Start()

	d.running.Store(true)
	d.logger.Info("silabo daemon started", logging.String("lock", d.lockPath))
	return nil
}

// Stop stops background processing and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	cronCtx := d.cron.Stop()
	<-cronCtx.Done()
	if d.watcher != nil {
		d.watcher.Stop()
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.workflow.Stop()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("silabo daemon stopped")
}

// Close stops the daemon and releases store resources.
func (d *Daemon) Close() error {
	d.Stop()
	var errs []error
	if d.queue != nil {
		errs = append(errs, d.queue.Close())
	}
	if d.catalog != nil {
		errs = append(errs, d.catalog.Close())
	}
	return errors.Join(errs...)
}

// Intake exposes the submission service for the CLI.
func (d *Daemon) Intake() *intake.Service {
	return d.intake
}

// ListQueue returns queue items filtered by optional statuses.
func (d *Daemon) ListQueue(ctx context.Context, statuses []queue.Status) ([]*queue.Item, error) {
	return d.queue.List(ctx, statuses...)
}

// ClearTerminal removes grouped, review, and failed queue items.
func (d *Daemon) ClearTerminal(ctx context.Context) (int64, error) {
	return d.queue.ClearTerminal(ctx)
}

// ResetStuck transitions in-flight items back to their entry statuses.
func (d *Daemon) ResetStuck(ctx context.Context) (int64, error) {
	return d.queue.ResetStuckProcessing(ctx)
}

// RemoveItem deletes a queue item regardless of status.
func (d *Daemon) RemoveItem(ctx context.Context, id int64) (bool, error) {
	return d.queue.Remove(ctx, id)
}

// Requeue schedules a terminal item for another analysis pass.
func (d *Daemon) Requeue(ctx context.Context, id int64) error {
	return d.queue.Requeue(ctx, id)
}

// GroupSummaries returns the catalog's group overview for CLI display.
func (d *Daemon) GroupSummaries(ctx context.Context) ([]catalog.GroupSummary, error) {
	return d.catalog.ListGroupSummaries(ctx)
}

// Status returns current daemon health.
func (d *Daemon) Status(ctx context.Context) Status {
	health, err := d.workflow.HealthCheck(ctx)
	if err != nil {
		d.logger.Warn("health check failed", logging.Error(err))
	}
	return Status{
		Running:      d.running.Load(),
		Health:       health,
		QueueDBPath:  d.queue.Path(),
		LockFilePath: d.lockPath,
	}
}

func (d *Daemon) submitInboxFile(ctx context.Context, file watcher.InboxFile) error {
	_, err := d.intake.Submit(ctx, intake.Request{
		SchoolName: file.SchoolName,
		CourseName: file.CourseName,
		Credits:    file.Credits,
		SourcePath: file.Path,
	})
	return err
}

func (d *Daemon) runMaintenance() {
	logging.CleanupOldLogs(d.logger, d.cfg.Maintenance.LogRetentionDays, d.cfg.Paths.LogDir, "*.log", "silabo.log")

	ctx, cancel := context.WithTimeout(context.Background(), maintenanceTimeout)
	defer cancel()
	reset, err := d.queue.ResetStaleProcessing(ctx, staleItemCutoff)
	if err != nil {
		d.logger.Warn("queue maintenance failed", logging.Error(err))
		return
	}
	d.logger.Info("maintenance pass completed",
		logging.Int64("reset_items", reset),
		logging.Int("log_retention_days", d.cfg.Maintenance.LogRetentionDays))
}
