package workflow

import (
	"log/slog"
	"sync"
	"time"

	"silabo/internal/config"
	"silabo/internal/logging"
	"silabo/internal/queue"
	"silabo/internal/stage"
)

// pipelineStage binds an entry status to its handler and the statuses the
// manager moves items through.
type pipelineStage struct {
	name             string
	entryStatus      queue.Status
	processingStatus queue.Status
	doneStatus       queue.Status
	handler          stage.Handler
}

// Manager coordinates queue processing using registered stage handlers.
type Manager struct {
	cfg          *config.Config
	store        *queue.Store
	logger       *slog.Logger
	pollInterval time.Duration

	stages     map[queue.Status]pipelineStage
	stageOrder []queue.Status

	mu      sync.Mutex
	running bool
	cancel  func()
	wg      sync.WaitGroup
	lastErr error
}

// NewManager constructs a workflow manager with no stages registered.
func NewManager(cfg *config.Config, store *queue.Store, logger *slog.Logger) *Manager {
	pollInterval := time.Duration(cfg.Workflow.QueuePollInterval) * time.Second
	if pollInterval <= 0 {
		pollInterval = 5 * time.Second
	}
	return &Manager{
		cfg:          cfg,
		store:        store,
		logger:       logging.NewComponentLogger(logger, "workflow"),
		pollInterval: pollInterval,
		stages:       make(map[queue.Status]pipelineStage),
	}
}

// RegisterStage teaches the manager how to process items sitting in entry.
func (m *Manager) RegisterStage(name string, entry, processing, done queue.Status, handler stage.Handler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.stages[entry]; !exists {
		m.stageOrder = append(m.stageOrder, entry)
	}
	m.stages[entry] = pipelineStage{
		name:             name,
		entryStatus:      entry,
		processingStatus: processing,
		doneStatus:       done,
		handler:          handler,
	}
}

// LastError returns the most recent stage or queue failure observed by the
// manager, for surfacing in daemon status output.
func (m *Manager) LastError() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}

func (m *Manager) setLastError(err error) {
	m.mu.Lock()
	m.lastErr = err
	m.mu.Unlock()
}

func (m *Manager) entryStatuses() []queue.Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	statuses := make([]queue.Status, len(m.stageOrder))
	copy(statuses, m.stageOrder)
	return statuses
}

func (m *Manager) stageForStatus(status queue.Status) (pipelineStage, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.stages[status]
	return st, ok
}
