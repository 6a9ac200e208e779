package workflow

import (
	"context"
	"testing"
	"time"

	"silabo/internal/queue"
	"silabo/internal/services"
	"silabo/internal/stage"
	"silabo/internal/testsupport"
)

type stubHandler struct {
	prepareErr error
	execErr    error
	execFn     func(*queue.Item)
	executions int
}

func (s *stubHandler) Prepare(context.Context, *queue.Item) error { return s.prepareErr }

func (s *stubHandler) Execute(_ context.Context, item *queue.Item) error {
	s.executions++
	if s.execErr != nil {
		return s.execErr
	}
	if s.execFn != nil {
		s.execFn(item)
	}
	return nil
}

func (s *stubHandler) HealthCheck(context.Context) stage.Health { return stage.Healthy("stub") }

func newTestManager(t *testing.T) (*Manager, *queue.Store) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenQueue(t, cfg)
	return NewManager(cfg, store, nil), store
}

func TestProcessItemAdvancesToDoneStatus(t *testing.T) {
	manager, store := newTestManager(t)
	handler := &stubHandler{}
	manager.RegisterStage("extraction", queue.StatusPending, queue.StatusExtracting, queue.StatusExtracted, handler)

	item := testsupport.Enqueue(t, store, "course-1")
	if err := manager.processItem(context.Background(), item); err != nil {
		t.Fatalf("processItem: %v", err)
	}

	stored, err := store.GetByID(context.Background(), item.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.Status != queue.StatusExtracted {
		t.Fatalf("status = %s, want %s", stored.Status, queue.StatusExtracted)
	}
	if handler.executions != 1 {
		t.Fatalf("executions = %d, want 1", handler.executions)
	}
}

func TestProcessItemKeepsHandlerStatus(t *testing.T) {
	manager, store := newTestManager(t)
	handler := &stubHandler{execFn: func(item *queue.Item) {
		item.Status = queue.StatusGrouped
		item.Outcome = "Nuevo grupo creado"
	}}
	manager.RegisterStage("matching", queue.StatusExtracted, queue.StatusMatching, queue.StatusGrouped, handler)

	item := testsupport.Enqueue(t, store, "course-2")
	item.Status = queue.StatusExtracted
	if err := store.Update(context.Background(), item); err != nil {
		t.Fatalf("Update: %v", err)
	}

	if err := manager.processItem(context.Background(), item); err != nil {
		t.Fatalf("processItem: %v", err)
	}
	stored, err := store.GetByID(context.Background(), item.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.Status != queue.StatusGrouped {
		t.Fatalf("status = %s, want %s", stored.Status, queue.StatusGrouped)
	}
	if stored.Outcome != "Nuevo grupo creado" {
		t.Fatalf("outcome = %q", stored.Outcome)
	}
}

func TestProcessItemSchedulesRetry(t *testing.T) {
	manager, store := newTestManager(t)
	handler := &stubHandler{execErr: services.Wrap(services.ErrTransient, "extracting", "read document", "endpoint caído", nil)}
	manager.RegisterStage("extraction", queue.StatusPending, queue.StatusExtracting, queue.StatusExtracted, handler)

	item := testsupport.Enqueue(t, store, "course-3")
	if err := manager.processItem(context.Background(), item); err == nil {
		t.Fatal("processItem succeeded, want failure")
	}

	stored, err := store.GetByID(context.Background(), item.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.Status != queue.StatusPending {
		t.Fatalf("status = %s, want requeue to %s", stored.Status, queue.StatusPending)
	}
	if stored.Attempts != 1 {
		t.Fatalf("attempts = %d, want 1", stored.Attempts)
	}
	if stored.NextRetryAt == nil || !stored.NextRetryAt.After(time.Now().UTC()) {
		t.Fatalf("NextRetryAt = %v, want future timestamp", stored.NextRetryAt)
	}
	if stored.ErrorMessage != "endpoint caído" {
		t.Fatalf("error message = %q", stored.ErrorMessage)
	}

	// The retry delay has not elapsed, so the item must not be offered yet.
	next, err := store.NextReady(context.Background(), queue.StatusPending)
	if err != nil {
		t.Fatalf("NextReady: %v", err)
	}
	if next != nil {
		t.Fatalf("NextReady returned item %d before retry delay elapsed", next.ID)
	}
}

func TestProcessItemExhaustsRetries(t *testing.T) {
	manager, store := newTestManager(t)
	handler := &stubHandler{execErr: services.Wrap(services.ErrTransient, "matching", "call endpoint", "sigue caído", nil)}
	manager.RegisterStage("matching", queue.StatusExtracted, queue.StatusMatching, queue.StatusGrouped, handler)

	item := testsupport.Enqueue(t, store, "course-4")
	item.Status = queue.StatusExtracted
	item.Attempts = manager.cfg.Workflow.MaxRetries
	if err := store.Update(context.Background(), item); err != nil {
		t.Fatalf("Update: %v", err)
	}

	if err := manager.processItem(context.Background(), item); err == nil {
		t.Fatal("processItem succeeded, want failure")
	}
	stored, err := store.GetByID(context.Background(), item.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.Status != queue.StatusFailed {
		t.Fatalf("status = %s, want %s after exhausted retries", stored.Status, queue.StatusFailed)
	}
	if stored.NextRetryAt != nil {
		t.Fatalf("NextRetryAt = %v, want nil", stored.NextRetryAt)
	}
}

func TestProcessItemValidationGoesToReview(t *testing.T) {
	manager, store := newTestManager(t)
	message := "El documento NO parece ser un sílabo oficial de la universidad."
	handler := &stubHandler{execErr: services.Wrap(services.ErrValidation, "extracting", "validate document", message, nil)}
	manager.RegisterStage("extraction", queue.StatusPending, queue.StatusExtracting, queue.StatusExtracted, handler)

	item := testsupport.Enqueue(t, store, "course-5")
	if err := manager.processItem(context.Background(), item); err == nil {
		t.Fatal("processItem succeeded, want failure")
	}

	stored, err := store.GetByID(context.Background(), item.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.Status != queue.StatusReview {
		t.Fatalf("status = %s, want %s", stored.Status, queue.StatusReview)
	}
	if stored.Attempts != 0 {
		t.Fatalf("attempts = %d, validation must not consume retries", stored.Attempts)
	}
	if stored.ErrorMessage != message {
		t.Fatalf("error message = %q, want the user-facing rejection", stored.ErrorMessage)
	}
}

func TestStartRequiresStages(t *testing.T) {
	manager, _ := newTestManager(t)
	if err := manager.Start(context.Background()); err == nil {
		manager.Stop()
		t.Fatal("Start succeeded without registered stages")
	}
}

func TestStartAndStop(t *testing.T) {
	manager, _ := newTestManager(t)
	manager.RegisterStage("extraction", queue.StatusPending, queue.StatusExtracting, queue.StatusExtracted, &stubHandler{})

	if err := manager.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := manager.Start(context.Background()); err == nil {
		t.Fatal("second Start succeeded, want error")
	}
	manager.Stop()
	// Stop is idempotent.
	manager.Stop()
}

func TestHealthCheckAggregatesStages(t *testing.T) {
	manager, _ := newTestManager(t)
	manager.RegisterStage("extraction", queue.StatusPending, queue.StatusExtracting, queue.StatusExtracted, &stubHandler{})
	manager.RegisterStage("matching", queue.StatusExtracted, queue.StatusMatching, queue.StatusGrouped, &stubHandler{})

	health, err := manager.HealthCheck(context.Background())
	if err != nil {
		t.Fatalf("HealthCheck: %v", err)
	}
	if len(health.Stages) != 2 {
		t.Fatalf("stages = %d, want 2", len(health.Stages))
	}
	if !health.Ready() {
		t.Fatal("Ready = false with healthy stubs")
	}
}
