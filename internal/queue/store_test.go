package queue_test

import (
	"context"
	"testing"
	"time"

	"silabo/internal/queue"
	"silabo/internal/testsupport"
)

func TestEnqueueIsIdempotentPerCourse(t *testing.T) {
	store := testsupport.MustOpenQueue(t, testsupport.NewConfig(t))
	ctx := context.Background()

	first, err := store.Enqueue(ctx, "course-1")
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if first.Status != queue.StatusPending {
		t.Fatalf("new item status = %q, want pending", first.Status)
	}

	second, err := store.Enqueue(ctx, "course-1")
	if err != nil {
		t.Fatalf("Enqueue again: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("enqueue created a duplicate: %d vs %d", second.ID, first.ID)
	}

	if _, err := store.Enqueue(ctx, "  "); err == nil {
		t.Fatal("blank course id should be rejected")
	}
}

func TestNextReadyHonorsRetryDelay(t *testing.T) {
	store := testsupport.MustOpenQueue(t, testsupport.NewConfig(t))
	ctx := context.Background()

	item, err := store.Enqueue(ctx, "course-1")
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	future := time.Now().Add(time.Hour)
	item.NextRetryAt = &future
	if err := store.Update(ctx, item); err != nil {
		t.Fatalf("Update: %v", err)
	}

	ready, err := store.NextReady(ctx, queue.StatusPending)
	if err != nil {
		t.Fatalf("NextReady: %v", err)
	}
	if ready != nil {
		t.Fatalf("item with future retry should not be ready, got %d", ready.ID)
	}

	past := time.Now().Add(-time.Minute)
	item.NextRetryAt = &past
	if err := store.Update(ctx, item); err != nil {
		t.Fatalf("Update: %v", err)
	}
	ready, err = store.NextReady(ctx, queue.StatusPending)
	if err != nil {
		t.Fatalf("NextReady: %v", err)
	}
	if ready == nil || ready.ID != item.ID {
		t.Fatalf("item with elapsed retry should be ready, got %v", ready)
	}
}

func TestNextReadyReturnsOldestFirst(t *testing.T) {
	store := testsupport.MustOpenQueue(t, testsupport.NewConfig(t))
	ctx := context.Background()

	first, _ := store.Enqueue(ctx, "course-1")
	if _, err := store.Enqueue(ctx, "course-2"); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	ready, err := store.NextReady(ctx, queue.StatusPending, queue.StatusExtracted)
	if err != nil {
		t.Fatalf("NextReady: %v", err)
	}
	if ready == nil || ready.ID != first.ID {
		t.Fatalf("expected oldest item %d, got %v", first.ID, ready)
	}
}

func TestClearTerminalKeepsActiveItems(t *testing.T) {
	store := testsupport.MustOpenQueue(t, testsupport.NewConfig(t))
	ctx := context.Background()

	active, _ := store.Enqueue(ctx, "course-1")
	done, _ := store.Enqueue(ctx, "course-2")
	done.Status = queue.StatusGrouped
	if err := store.Update(ctx, done); err != nil {
		t.Fatalf("Update: %v", err)
	}
	review, _ := store.Enqueue(ctx, "course-3")
	review.Status = queue.StatusReview
	if err := store.Update(ctx, review); err != nil {
		t.Fatalf("Update: %v", err)
	}

	removed, err := store.ClearTerminal(ctx)
	if err != nil {
		t.Fatalf("ClearTerminal: %v", err)
	}
	if removed != 2 {
		t.Fatalf("removed = %d, want 2", removed)
	}

	items, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 1 || items[0].ID != active.ID {
		t.Fatalf("unexpected survivors: %v", items)
	}
}

func TestResetStuckProcessing(t *testing.T) {
	store := testsupport.MustOpenQueue(t, testsupport.NewConfig(t))
	ctx := context.Background()

	extracting, _ := store.Enqueue(ctx, "course-1")
	extracting.Status = queue.StatusExtracting
	if err := store.Update(ctx, extracting); err != nil {
		t.Fatalf("Update: %v", err)
	}
	matching, _ := store.Enqueue(ctx, "course-2")
	matching.Status = queue.StatusMatching
	if err := store.Update(ctx, matching); err != nil {
		t.Fatalf("Update: %v", err)
	}

	reset, err := store.ResetStuckProcessing(ctx)
	if err != nil {
		t.Fatalf("ResetStuckProcessing: %v", err)
	}
	if reset != 2 {
		t.Fatalf("reset = %d, want 2", reset)
	}

	got, _ := store.GetByID(ctx, extracting.ID)
	if got.Status != queue.StatusPending {
		t.Fatalf("extracting item reset to %q, want pending", got.Status)
	}
	got, _ = store.GetByID(ctx, matching.ID)
	if got.Status != queue.StatusExtracted {
		t.Fatalf("matching item reset to %q, want extracted", got.Status)
	}
}

func TestResetStaleProcessingSkipsFreshItems(t *testing.T) {
	store := testsupport.MustOpenQueue(t, testsupport.NewConfig(t))
	ctx := context.Background()

	item, _ := store.Enqueue(ctx, "course-1")
	item.Status = queue.StatusExtracting
	if err := store.Update(ctx, item); err != nil {
		t.Fatalf("Update: %v", err)
	}

	reset, err := store.ResetStaleProcessing(ctx, time.Hour)
	if err != nil {
		t.Fatalf("ResetStaleProcessing: %v", err)
	}
	if reset != 0 {
		t.Fatalf("fresh in-flight item was reset")
	}

	reset, err = store.ResetStaleProcessing(ctx, -time.Minute)
	if err != nil {
		t.Fatalf("ResetStaleProcessing: %v", err)
	}
	if reset != 1 {
		t.Fatalf("reset = %d, want 1", reset)
	}
	got, _ := store.GetByID(ctx, item.ID)
	if got.Status != queue.StatusPending {
		t.Fatalf("stale item status = %q, want pending", got.Status)
	}
}

func TestRequeueClearsBookkeeping(t *testing.T) {
	store := testsupport.MustOpenQueue(t, testsupport.NewConfig(t))
	ctx := context.Background()

	item, _ := store.Enqueue(ctx, "course-1")
	retryAt := time.Now().Add(time.Minute)
	item.Status = queue.StatusFailed
	item.Attempts = 2
	item.NextRetryAt = &retryAt
	item.ErrorMessage = "endpoint caído"
	item.Outcome = "old outcome"
	if err := store.Update(ctx, item); err != nil {
		t.Fatalf("Update: %v", err)
	}

	if err := store.Requeue(ctx, item.ID); err != nil {
		t.Fatalf("Requeue: %v", err)
	}
	got, _ := store.GetByID(ctx, item.ID)
	if got.Status != queue.StatusPending || got.Attempts != 0 || got.NextRetryAt != nil ||
		got.ErrorMessage != "" || got.Outcome != "" {
		t.Fatalf("requeue left stale fields: %+v", got)
	}

	if err := store.Requeue(ctx, 9999); err == nil {
		t.Fatal("requeue of unknown item should fail")
	}
}

func TestHealthCountsByStatus(t *testing.T) {
	store := testsupport.MustOpenQueue(t, testsupport.NewConfig(t))
	ctx := context.Background()

	statuses := []queue.Status{
		queue.StatusPending,
		queue.StatusExtracting,
		queue.StatusMatching,
		queue.StatusGrouped,
		queue.StatusReview,
		queue.StatusFailed,
	}
	for i, status := range statuses {
		item, err := store.Enqueue(ctx, "course-"+string(rune('a'+i)))
		if err != nil {
			t.Fatalf("Enqueue: %v", err)
		}
		if status != queue.StatusPending {
			item.Status = status
			if err := store.Update(ctx, item); err != nil {
				t.Fatalf("Update: %v", err)
			}
		}
	}

	summary, err := store.Health(ctx)
	if err != nil {
		t.Fatalf("Health: %v", err)
	}
	if summary.Total != 6 || summary.Pending != 1 || summary.Processing != 2 ||
		summary.Grouped != 1 || summary.Review != 1 || summary.Failed != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}
