package workflow

import (
	"context"
	"errors"
	"time"

	"silabo/internal/logging"
	"silabo/internal/queue"
	"silabo/internal/services"
)

func (m *Manager) handleStageFailure(ctx context.Context, st pipelineStage, item *queue.Item, stageErr error) {
	m.setLastError(stageErr)
	logger := logging.WithContext(ctx, m.logger)
	message := services.Message(stageErr)

	maxRetries := m.cfg.Workflow.MaxRetries
	if services.Retryable(stageErr) && item.Attempts < maxRetries {
		item.Attempts++
		retryAt := time.Now().UTC().Add(m.retryDelay(item.Attempts))
		item.Status = st.entryStatus
		item.ErrorMessage = message
		item.NextRetryAt = &retryAt

		logger.Warn("stage failed, retry scheduled",
			logging.String(logging.FieldStage, st.name),
			logging.Int("attempt", item.Attempts),
			logging.Int("max_retries", maxRetries),
			logging.Duration("retry_in", time.Until(retryAt)),
			logging.Error(stageErr))
	} else {
		item.Status = services.FailureStatus(stageErr)
		item.ErrorMessage = message
		item.NextRetryAt = nil

		logger.Error("stage failed",
			logging.String(logging.FieldStage, st.name),
			logging.String("resolved_status", string(item.Status)),
			logging.Error(stageErr))
	}

	if err := m.store.Update(ctx, item); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Debug("daemon shutting down, could not persist stage failure")
		} else {
			logger.Error("failed to persist stage failure", logging.Error(err))
		}
	}
}

// retryDelay grows linearly with the attempt number.
func (m *Manager) retryDelay(attempt int) time.Duration {
	base := m.cfg.Workflow.RetryBackoffBase
	if base <= 0 {
		base = 10
	}
	return time.Duration(base*attempt) * time.Second
}
