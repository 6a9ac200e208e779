package testsupport

import (
	"context"
	"testing"

	"silabo/internal/catalog"
	"silabo/internal/config"
	"silabo/internal/queue"
)

// MustOpenQueue opens a queue.Store for tests and registers cleanup.
func MustOpenQueue(t testing.TB, cfg *config.Config) *queue.Store {
	t.Helper()

	store, err := queue.Open(cfg)
	if err != nil {
		t.Fatalf("queue.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// MustOpenCatalog opens a catalog.Store for tests and registers cleanup.
func MustOpenCatalog(t testing.TB, cfg *config.Config) *catalog.Store {
	t.Helper()

	store, err := catalog.Open(cfg)
	if err != nil {
		t.Fatalf("catalog.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewCourse creates a school and a course for tests using the provided store.
func NewCourse(t testing.TB, store *catalog.Store, school, name string, credits int) *catalog.Course {
	t.Helper()

	ctx := context.Background()
	sch, err := store.UpsertSchool(ctx, school)
	if err != nil {
		t.Fatalf("store.UpsertSchool: %v", err)
	}
	course := &catalog.Course{
		Name:     name,
		Credits:  credits,
		SchoolID: sch.ID,
	}
	if err := store.CreateCourse(ctx, course); err != nil {
		t.Fatalf("store.CreateCourse: %v", err)
	}
	return course
}

// Enqueue registers a queue item for the course and fails the test on error.
func Enqueue(t testing.TB, store *queue.Store, courseID string) *queue.Item {
	t.Helper()

	item, err := store.Enqueue(context.Background(), courseID)
	if err != nil {
		t.Fatalf("store.Enqueue: %v", err)
	}
	return item
}
