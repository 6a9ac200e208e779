package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const courseColumns = `id, name, code, credits, school_id, syllabus_path, content_cache, embedding_json, group_id, created_at, updated_at`

// CreateCourse inserts a new course. A zero ID is replaced with a fresh UUID.
func (s *Store) CreateCourse(ctx context.Context, course *Course) error {
	if course == nil {
		return errors.New("course required")
	}
	if strings.TrimSpace(course.Name) == "" {
		return errors.New("course name required")
	}
	if course.Credits < 1 || course.Credits > 11 {
		return fmt.Errorf("course credits out of range: %d", course.Credits)
	}
	if strings.TrimSpace(course.ID) == "" {
		course.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	course.CreatedAt = now
	course.UpdatedAt = now

	embeddingJSON, err := marshalEmbedding(course.Embedding)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(
		ctx,
		`INSERT INTO courses (
            id, name, code, credits, school_id, syllabus_path,
            content_cache, embedding_json, group_id, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		course.ID,
		course.Name,
		course.Code,
		course.Credits,
		course.SchoolID,
		course.SyllabusPath,
		course.ContentCache,
		embeddingJSON,
		nullableInt64(course.GroupID),
		now.Format(time.RFC3339Nano),
		now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert course: %w", err)
	}
	return nil
}

// GetCourse fetches a course by identifier. Returns nil when absent.
func (s *Store) GetCourse(ctx context.Context, id string) (*Course, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+courseColumns+` FROM courses WHERE id = ?`, id)
	course, err := scanCourse(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get course: %w", err)
	}
	return course, nil
}

// UpdateCourse persists the mutable analysis fields of a course: credits,
// content cache, embedding, and group assignment.
func (s *Store) UpdateCourse(ctx context.Context, course *Course) error {
	if course == nil {
		return errors.New("course required")
	}
	embeddingJSON, err := marshalEmbedding(course.Embedding)
	if err != nil {
		return err
	}
	course.UpdatedAt = time.Now().UTC()

	res, err := s.db.ExecContext(
		ctx,
		`UPDATE courses
         SET credits = ?, syllabus_path = ?, content_cache = ?, embedding_json = ?, group_id = ?, updated_at = ?
         WHERE id = ?`,
		course.Credits,
		course.SyllabusPath,
		course.ContentCache,
		embeddingJSON,
		nullableInt64(course.GroupID),
		course.UpdatedAt.Format(time.RFC3339Nano),
		course.ID,
	)
	if err != nil {
		return fmt.Errorf("update course: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("course %s not found", course.ID)
	}
	return nil
}

// CoursesInGroup returns the member courses of a group, oldest first.
func (s *Store) CoursesInGroup(ctx context.Context, groupID int64) ([]*Course, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+courseColumns+` FROM courses WHERE group_id = ? ORDER BY created_at, id`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("courses in group: %w", err)
	}
	defer rows.Close()
	return collectCourses(rows)
}

// ListCourses returns every course, newest first.
func (s *Store) ListCourses(ctx context.Context) ([]*Course, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+courseColumns+` FROM courses ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	defer rows.Close()
	return collectCourses(rows)
}

func collectCourses(rows *sql.Rows) ([]*Course, error) {
	var courses []*Course
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("scan course: %w", err)
		}
		courses = append(courses, course)
	}
	return courses, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCourse(row rowScanner) (*Course, error) {
	var (
		course        Course
		embeddingJSON sql.NullString
		groupID       sql.NullInt64
		createdAt     string
		updatedAt     string
	)
	if err := row.Scan(
		&course.ID,
		&course.Name,
		&course.Code,
		&course.Credits,
		&course.SchoolID,
		&course.SyllabusPath,
		&course.ContentCache,
		&embeddingJSON,
		&groupID,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	if embeddingJSON.Valid && embeddingJSON.String != "" {
		if err := json.Unmarshal([]byte(embeddingJSON.String), &course.Embedding); err != nil {
			return nil, fmt.Errorf("decode embedding for course %s: %w", course.ID, err)
		}
	}
	if groupID.Valid {
		id := groupID.Int64
		course.GroupID = &id
	}
	if ts, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		course.CreatedAt = ts
	}
	if ts, err := time.Parse(time.RFC3339Nano, updatedAt); err == nil {
		course.UpdatedAt = ts
	}
	return &course, nil
}

func marshalEmbedding(vector []float64) (any, error) {
	if len(vector) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(vector)
	if err != nil {
		return nil, fmt.Errorf("encode embedding: %w", err)
	}
	return string(data), nil
}

func nullableInt64(value *int64) any {
	if value == nil {
		return nil
	}
	return *value
}
