package queue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

const itemColumns = `id, course_id, status, attempts, next_retry_at, error_message, outcome, created_at, updated_at`

// Enqueue inserts a new pending analysis item for a course. Exactly one item
// exists per course; enqueueing an already-queued course returns the existing
// item unchanged.
func (s *Store) Enqueue(ctx context.Context, courseID string) (*Item, error) {
	courseID = strings.TrimSpace(courseID)
	if courseID == "" {
		return nil, errors.New("course id required")
	}

	if existing, err := s.FindByCourse(ctx, courseID); err != nil {
		return nil, err
	} else if existing != nil {
		return existing, nil
	}

	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO analysis_items (
            course_id, status, attempts, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?)`,
		courseID,
		StatusPending,
		0,
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert analysis item: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

// GetByID fetches a queue item by identifier.
func (s *Store) GetByID(ctx context.Context, id int64) (*Item, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM analysis_items WHERE id = ?`, id)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// FindByCourse returns the analysis item for a course, if any.
func (s *Store) FindByCourse(ctx context.Context, courseID string) (*Item, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+itemColumns+` FROM analysis_items WHERE course_id = ? LIMIT 1`,
		courseID,
	)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find by course: %w", err)
	}
	return item, nil
}

// Update persists mutable item fields.
func (s *Store) Update(ctx context.Context, item *Item) error {
	if item == nil {
		return errors.New("item required")
	}
	if !item.Status.IsValid() {
		return fmt.Errorf("invalid status %q", item.Status)
	}
	item.UpdatedAt = time.Now().UTC()
	res, err := s.execWithRetry(
		ctx,
		`UPDATE analysis_items
         SET status = ?, attempts = ?, next_retry_at = ?, error_message = ?, outcome = ?, updated_at = ?
         WHERE id = ?`,
		item.Status,
		item.Attempts,
		nullableTime(item.NextRetryAt),
		nullableString(item.ErrorMessage),
		nullableString(item.Outcome),
		item.UpdatedAt.Format(time.RFC3339Nano),
		item.ID,
	)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("item %d not found", item.ID)
	}
	return nil
}

// NextReady returns the oldest item whose status is in statuses and whose
// retry delay, if any, has elapsed. Returns nil when nothing is ready.
func (s *Store) NextReady(ctx context.Context, statuses ...Status) (*Item, error) {
	if len(statuses) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(statuses))
	args := make([]any, 0, len(statuses)+1)
	for i, status := range statuses {
		placeholders[i] = "?"
		args = append(args, status)
	}
	args = append(args, time.Now().UTC().Format(time.RFC3339Nano))

	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+itemColumns+` FROM analysis_items
         WHERE status IN (`+strings.Join(placeholders, ", ")+`)
           AND (next_retry_at IS NULL OR next_retry_at <= ?)
         ORDER BY id LIMIT 1`,
		args...,
	)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("next ready item: %w", err)
	}
	return item, nil
}

// List returns items filtered by the provided statuses, oldest first. With no
// statuses it returns everything.
func (s *Store) List(ctx context.Context, statuses ...Status) ([]*Item, error) {
	query := `SELECT ` + itemColumns + ` FROM analysis_items`
	args := make([]any, 0, len(statuses))
	if len(statuses) > 0 {
		placeholders := make([]string, len(statuses))
		for i, status := range statuses {
			placeholders[i] = "?"
			args = append(args, status)
		}
		query += ` WHERE status IN (` + strings.Join(placeholders, ", ") + `)`
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Remove deletes an item by identifier, reporting whether a row was removed.
func (s *Store) Remove(ctx context.Context, id int64) (bool, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM analysis_items WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("remove item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// ClearTerminal deletes grouped, review, and failed items and reports how many were removed.
func (s *Store) ClearTerminal(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(
		ctx,
		`DELETE FROM analysis_items WHERE status IN (?, ?, ?)`,
		StatusGrouped, StatusReview, StatusFailed,
	)
	if err != nil {
		return 0, fmt.Errorf("clear terminal items: %w", err)
	}
	return res.RowsAffected()
}

// Health aggregates queue counts for the status surface.
func (s *Store) Health(ctx context.Context) (HealthSummary, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(1) FROM analysis_items GROUP BY status`)
	if err != nil {
		return HealthSummary{}, fmt.Errorf("queue health: %w", err)
	}
	defer rows.Close()

	var summary HealthSummary
	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return HealthSummary{}, fmt.Errorf("scan health row: %w", err)
		}
		summary.Total += count
		switch {
		case status == StatusPending:
			summary.Pending += count
		case status.IsProcessing():
			summary.Processing += count
		case status == StatusReview:
			summary.Review += count
		case status == StatusFailed:
			summary.Failed += count
		case status == StatusGrouped:
			summary.Grouped += count
		}
	}
	return summary, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*Item, error) {
	var (
		item         Item
		nextRetry    sql.NullString
		errorMessage sql.NullString
		outcome      sql.NullString
		createdAt    string
		updatedAt    string
	)
	if err := row.Scan(
		&item.ID,
		&item.CourseID,
		&item.Status,
		&item.Attempts,
		&nextRetry,
		&errorMessage,
		&outcome,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	if nextRetry.Valid {
		if ts, err := time.Parse(time.RFC3339Nano, nextRetry.String); err == nil {
			item.NextRetryAt = &ts
		}
	}
	item.ErrorMessage = errorMessage.String
	item.Outcome = outcome.String
	if ts, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		item.CreatedAt = ts
	}
	if ts, err := time.Parse(time.RFC3339Nano, updatedAt); err == nil {
		item.UpdatedAt = ts
	}
	return &item, nil
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}

func nullableTime(value *time.Time) any {
	if value == nil {
		return nil
	}
	return value.UTC().Format(time.RFC3339Nano)
}
