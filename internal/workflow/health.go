package workflow

import (
	"context"

	"silabo/internal/queue"
	"silabo/internal/stage"
)

// Health aggregates queue counts and per-stage readiness.
type Health struct {
	Queue  queue.HealthSummary
	Stages []stage.Health
}

// Ready reports whether every registered stage is ready.
func (h Health) Ready() bool {
	for _, s := range h.Stages {
		if !s.Ready {
			return false
		}
	}
	return true
}

// HealthCheck gathers queue statistics and runs every stage's health check.
func (m *Manager) HealthCheck(ctx context.Context) (Health, error) {
	summary, err := m.store.Health(ctx)
	if err != nil {
		return Health{}, err
	}
	health := Health{Queue: summary}
	for _, entry := range m.entryStatuses() {
		if st, ok := m.stageForStatus(entry); ok {
			health.Stages = append(health.Stages, st.handler.HealthCheck(ctx))
		}
	}
	return health, nil
}
