package queue

import (
	"context"
	"fmt"
	"time"
)

// ResetStuckProcessing resets items left in processing states (for example
// after a crash) back to the start of their current stage.
func (s *Store) ResetStuckProcessing(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(
		ctx,
		`UPDATE analysis_items
         SET status = CASE status
             WHEN ? THEN ?
             WHEN ? THEN ?
             ELSE status
         END,
             updated_at = ?
         WHERE status IN (?, ?)`,
		StatusExtracting, StatusPending,
		StatusMatching, StatusExtracted,
		time.Now().UTC().Format(time.RFC3339Nano),
		StatusExtracting,
		StatusMatching,
	)
	if err != nil {
		return 0, fmt.Errorf("reset stuck items: %w", err)
	}
	return res.RowsAffected()
}

// ResetStaleProcessing resets in-flight items whose last update is older
// than the cutoff. Scheduled maintenance uses it so a handler that died
// mid-stage does not pin its item forever, without touching items a live
// worker is still driving.
func (s *Store) ResetStaleProcessing(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan).Format(time.RFC3339Nano)
	res, err := s.execWithRetry(
		ctx,
		`UPDATE analysis_items
         SET status = CASE status
             WHEN ? THEN ?
             WHEN ? THEN ?
             ELSE status
         END,
             updated_at = ?
         WHERE status IN (?, ?) AND updated_at < ?`,
		StatusExtracting, StatusPending,
		StatusMatching, StatusExtracted,
		time.Now().UTC().Format(time.RFC3339Nano),
		StatusExtracting,
		StatusMatching,
		cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("reset stale items: %w", err)
	}
	return res.RowsAffected()
}

// Requeue returns a terminal item to pending so it can be analyzed again,
// clearing retry bookkeeping and messages.
func (s *Store) Requeue(ctx context.Context, id int64) error {
	res, err := s.execWithRetry(
		ctx,
		`UPDATE analysis_items
         SET status = ?, attempts = 0, next_retry_at = NULL,
             error_message = NULL, outcome = NULL, updated_at = ?
         WHERE id = ?`,
		StatusPending,
		time.Now().UTC().Format(time.RFC3339Nano),
		id,
	)
	if err != nil {
		return fmt.Errorf("requeue item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("item %d not found", id)
	}
	return nil
}
