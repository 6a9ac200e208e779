package intake

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"silabo/internal/queue"
	"silabo/internal/services"
	"silabo/internal/testsupport"
)

func newTestService(t *testing.T) (*Service, string) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	catalogStore := testsupport.MustOpenCatalog(t, cfg)
	queueStore := testsupport.MustOpenQueue(t, cfg)

	source := filepath.Join(t.TempDir(), "calculo.pdf")
	testsupport.WriteDocument(t, source, []byte("%PDF-1.4 contenido"))

	return NewService(cfg, catalogStore, queueStore, nil, nil), source
}

func TestSubmitCreatesCourseAndQueueItem(t *testing.T) {
	service, source := newTestService(t)

	result, err := service.Submit(context.Background(), Request{
		SchoolName: "Ingeniería de Sistemas",
		CourseName: "Cálculo I",
		CourseCode: "1702101",
		Credits:    4,
		SourcePath: source,
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if result.Course.ID == "" {
		t.Fatal("course ID not assigned")
	}
	if result.Item.Status != queue.StatusPending {
		t.Fatalf("item status = %s, want %s", result.Item.Status, queue.StatusPending)
	}

	stored := filepath.Join(service.cfg.Paths.SyllabiDir, result.Course.SyllabusPath)
	if _, err := os.Stat(stored); err != nil {
		t.Fatalf("stored document missing: %v", err)
	}
}

func TestSubmitValidation(t *testing.T) {
	service, source := newTestService(t)

	cases := []struct {
		name string
		req  Request
	}{
		{"missing school", Request{CourseName: "Cálculo I", Credits: 4, SourcePath: source}},
		{"missing course name", Request{SchoolName: "Escuela A", Credits: 4, SourcePath: source}},
		{"credits too low", Request{SchoolName: "Escuela A", CourseName: "Cálculo I", Credits: 0, SourcePath: source}},
		{"credits too high", Request{SchoolName: "Escuela A", CourseName: "Cálculo I", Credits: 12, SourcePath: source}},
		{"missing file", Request{SchoolName: "Escuela A", CourseName: "Cálculo I", Credits: 4, SourcePath: filepath.Join(t.TempDir(), "nope.pdf")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.Submit(context.Background(), tc.req)
			if err == nil {
				t.Fatal("Submit succeeded, want validation error")
			}
			if !errors.Is(err, services.ErrValidation) {
				t.Fatalf("error = %v, want validation", err)
			}
		})
	}
}

func TestSubmitSameCourseTwiceReusesQueueItem(t *testing.T) {
	service, source := newTestService(t)

	first, err := service.Submit(context.Background(), Request{
		SchoolName: "Escuela A", CourseName: "Física I", Credits: 3, SourcePath: source,
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	item, err := service.queue.Enqueue(context.Background(), first.Course.ID)
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if item.ID != first.Item.ID {
		t.Fatalf("enqueue created duplicate item %d, want %d", item.ID, first.Item.ID)
	}
}
