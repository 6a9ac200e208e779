package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// UpsertSchool returns the school with the given name, creating it if needed.
func (s *Store) UpsertSchool(ctx context.Context, name string) (*School, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("school name required")
	}
	if _, err := s.db.ExecContext(
		ctx,
		`INSERT INTO schools (name) VALUES (?) ON CONFLICT (name) DO NOTHING`,
		name,
	); err != nil {
		return nil, fmt.Errorf("upsert school: %w", err)
	}
	row := s.db.QueryRowContext(ctx, `SELECT id, name FROM schools WHERE name = ?`, name)
	var school School
	if err := row.Scan(&school.ID, &school.Name); err != nil {
		return nil, fmt.Errorf("load school: %w", err)
	}
	return &school, nil
}

// GetSchool fetches a school by identifier. Returns nil when absent.
func (s *Store) GetSchool(ctx context.Context, id int64) (*School, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, name FROM schools WHERE id = ?`, id)
	var school School
	if err := row.Scan(&school.ID, &school.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get school: %w", err)
	}
	return &school, nil
}

// CreateGroup inserts a new equivalence group.
func (s *Store) CreateGroup(ctx context.Context, name, description string) (*EquivalenceGroup, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("group name required")
	}
	now := time.Now().UTC()
	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO equivalence_groups (name, description, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		name,
		description,
		now.Format(time.RFC3339Nano),
		now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("insert group: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return &EquivalenceGroup{ID: id, Name: name, Description: description, CreatedAt: now, UpdatedAt: now}, nil
}

// GetGroup fetches a group by identifier. Returns nil when absent.
func (s *Store) GetGroup(ctx context.Context, id int64) (*EquivalenceGroup, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT id, name, description, created_at, updated_at FROM equivalence_groups WHERE id = ?`,
		id,
	)
	group, err := scanGroup(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get group: %w", err)
	}
	return group, nil
}

// GroupsWithMemberCredits returns the distinct groups having at least one
// member course with the given credit count.
func (s *Store) GroupsWithMemberCredits(ctx context.Context, credits int) ([]*EquivalenceGroup, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT DISTINCT g.id, g.name, g.description, g.created_at, g.updated_at
         FROM equivalence_groups g
         JOIN courses c ON c.group_id = g.id
         WHERE c.credits = ?
         ORDER BY g.id`,
		credits,
	)
	if err != nil {
		return nil, fmt.Errorf("groups with credits: %w", err)
	}
	defer rows.Close()

	var groups []*EquivalenceGroup
	for rows.Next() {
		group, err := scanGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("scan group: %w", err)
		}
		groups = append(groups, group)
	}
	return groups, rows.Err()
}

// AddSchoolToGroup records that a school participates in a group. Adding an
// existing membership is a no-op; the set only grows.
func (s *Store) AddSchoolToGroup(ctx context.Context, groupID, schoolID int64) error {
	if _, err := s.db.ExecContext(
		ctx,
		`INSERT INTO group_schools (group_id, school_id) VALUES (?, ?)
         ON CONFLICT (group_id, school_id) DO NOTHING`,
		groupID,
		schoolID,
	); err != nil {
		return fmt.Errorf("add school to group: %w", err)
	}
	return nil
}

// GroupSchools returns the identifiers of every school in a group.
func (s *Store) GroupSchools(ctx context.Context, groupID int64) ([]int64, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT school_id FROM group_schools WHERE group_id = ? ORDER BY school_id`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("group schools: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan school id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ListGroupSummaries returns every group with member and school counts,
// newest first.
func (s *Store) ListGroupSummaries(ctx context.Context) ([]GroupSummary, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT g.id, g.name, g.description, g.created_at, g.updated_at,
                (SELECT COUNT(1) FROM courses c WHERE c.group_id = g.id),
                (SELECT COUNT(1) FROM group_schools gs WHERE gs.group_id = g.id)
         FROM equivalence_groups g
         ORDER BY g.id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	defer rows.Close()

	var summaries []GroupSummary
	for rows.Next() {
		var (
			summary   GroupSummary
			createdAt string
			updatedAt string
		)
		if err := rows.Scan(
			&summary.Group.ID,
			&summary.Group.Name,
			&summary.Group.Description,
			&createdAt,
			&updatedAt,
			&summary.MemberCount,
			&summary.SchoolCount,
		); err != nil {
			return nil, fmt.Errorf("scan group summary: %w", err)
		}
		if ts, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			summary.Group.CreatedAt = ts
		}
		if ts, err := time.Parse(time.RFC3339Nano, updatedAt); err == nil {
			summary.Group.UpdatedAt = ts
		}
		summaries = append(summaries, summary)
	}
	return summaries, rows.Err()
}

func scanGroup(row rowScanner) (*EquivalenceGroup, error) {
	var (
		group     EquivalenceGroup
		createdAt string
		updatedAt string
	)
	if err := row.Scan(&group.ID, &group.Name, &group.Description, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	if ts, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		group.CreatedAt = ts
	}
	if ts, err := time.Parse(time.RFC3339Nano, updatedAt); err == nil {
		group.UpdatedAt = ts
	}
	return &group, nil
}
