package workflow

import (
	"context"
	"errors"
	"time"

	"silabo/internal/logging"
	"silabo/internal/queue"
	"silabo/internal/services"

	"github.com/google/uuid"
)

// Start begins background processing. It first resets items stranded in a
// processing status by an earlier crash.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return errors.New("workflow already running")
	}
	if len(m.stageOrder) == 0 {
		m.mu.Unlock()
		return errors.New("workflow stages not configured")
	}
	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.running = true
	m.wg.Add(1)
	m.mu.Unlock()

	if reset, err := m.store.ResetStuckProcessing(ctx); err != nil {
		m.logger.Warn("failed to reset stranded processing items", logging.Error(err))
	} else if reset > 0 {
		m.logger.Info("reset stranded processing items", logging.Int64("count", reset))
	}

	go m.run(runCtx)
	return nil
}

// Stop terminates background processing and waits for completion.
func (m *Manager) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	cancel := m.cancel
	m.running = false
	m.cancel = nil
	m.mu.Unlock()

	cancel()
	m.wg.Wait()
}

func (m *Manager) run(ctx context.Context) {
	defer m.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		item, err := m.store.NextReady(ctx, m.entryStatuses()...)
		if err != nil {
			m.setLastError(err)
			m.logger.Error("failed to fetch next queue item", logging.Error(err))
			m.sleep(ctx, time.Duration(m.cfg.Workflow.ErrorRetryInterval)*time.Second)
			continue
		}
		if item == nil {
			m.sleep(ctx, m.pollInterval)
			continue
		}

		if err := m.processItem(ctx, item); err != nil && errors.Is(err, context.Canceled) {
			return
		}
	}
}

func (m *Manager) sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		d = time.Second
	}
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}

func (m *Manager) processItem(ctx context.Context, item *queue.Item) error {
	st, ok := m.stageForStatus(item.Status)
	if !ok {
		m.logger.Warn("no stage configured for status", logging.String("status", string(item.Status)))
		m.sleep(ctx, m.pollInterval)
		return nil
	}

	stageCtx := services.WithItemID(ctx, item.ID)
	stageCtx = services.WithCourseID(stageCtx, item.CourseID)
	stageCtx = services.WithStage(stageCtx, st.name)
	stageCtx = services.WithRequestID(stageCtx, uuid.NewString())
	logger := logging.WithContext(stageCtx, m.logger)

	item.Status = st.processingStatus
	item.ErrorMessage = ""
	item.NextRetryAt = nil
	if err := m.store.Update(stageCtx, item); err != nil {
		m.setLastError(err)
		logger.Error("failed to transition item to processing", logging.Error(err))
		return err
	}

	start := time.Now()
	logger.Info("stage started", logging.String("processing_status", string(st.processingStatus)))

	if err := st.handler.Prepare(stageCtx, item); err != nil {
		m.handleStageFailure(stageCtx, st, item, err)
		return err
	}
	if err := st.handler.Execute(stageCtx, item); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Debug("stage interrupted by shutdown")
			return err
		}
		m.handleStageFailure(stageCtx, st, item, err)
		return err
	}

	if item.Status == st.processingStatus || item.Status == "" {
		item.Status = st.doneStatus
	}
	item.Attempts = 0
	item.NextRetryAt = nil
	if err := m.store.Update(stageCtx, item); err != nil {
		m.setLastError(err)
		logger.Error("failed to persist stage result", logging.Error(err))
		return err
	}

	logger.Info("stage completed",
		logging.String("next_status", string(item.Status)),
		logging.Duration("stage_duration", time.Since(start)))
	return nil
}
