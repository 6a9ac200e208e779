package stage

import (
	"context"

	"silabo/internal/catalog"
	"silabo/internal/queue"
	"silabo/internal/services"
	"silabo/internal/syllabus"
)

// SourceResolver maps a course to the document source its syllabus should
// be read from, local or remote.
type SourceResolver interface {
	Resolve(course *catalog.Course) syllabus.Source
}

// LoadCourse resolves the catalog course behind a queue item. A missing
// course is a services.ErrNotFound suitable for stage Execute methods.
func LoadCourse(ctx context.Context, store *catalog.Store, item *queue.Item) (*catalog.Course, error) {
	course, err := store.GetCourse(ctx, item.CourseID)
	if err != nil {
		return nil, services.Wrap(
			services.ErrTransient, "stage", "load course",
			"failed to load course record", err)
	}
	if course == nil {
		return nil, services.Wrap(
			services.ErrNotFound, "stage", "load course",
			"queue item references a course that no longer exists", nil)
	}
	return course, nil
}
