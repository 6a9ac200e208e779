package intake

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"silabo/internal/catalog"
	"silabo/internal/config"
	"silabo/internal/logging"
	"silabo/internal/queue"
	"silabo/internal/services"
	"silabo/internal/storage"
)

// Request describes one syllabus submission.
type Request struct {
	SchoolName string
	CourseName string
	CourseCode string
	Credits    int
	SourcePath string
}

// Result reports what a submission produced.
type Result struct {
	Course *catalog.Course
	Item   *queue.Item
}

// Service files syllabus documents and enqueues their courses.
type Service struct {
	cfg     *config.Config
	catalog *catalog.Store
	queue   *queue.Store
	remote  *storage.RemoteStore
	logger  *slog.Logger
}

// NewService builds an intake service. remote may be nil when remote
// storage is disabled.
func NewService(cfg *config.Config, catalogStore *catalog.Store, queueStore *queue.Store, remote *storage.RemoteStore, logger *slog.Logger) *Service {
	return &Service{
		cfg:     cfg,
		catalog: catalogStore,
		queue:   queueStore,
		remote:  remote,
		logger:  logging.NewComponentLogger(logger, "intake"),
	}
}

// Submit validates the request, stores the document, creates the catalog
// records, and enqueues the course for analysis.
func (s *Service) Submit(ctx context.Context, req Request) (*Result, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	storedPath, err := s.storeDocument(ctx, req.SourcePath)
	if err != nil {
		return nil, err
	}

	school, err := s.catalog.UpsertSchool(ctx, req.SchoolName)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "intake", "upsert school", "failed to register school", err)
	}

	course := &catalog.Course{
		Name:         req.CourseName,
		Code:         req.CourseCode,
		Credits:      req.Credits,
		SchoolID:     school.ID,
		SyllabusPath: storedPath,
	}
	if err := s.catalog.CreateCourse(ctx, course); err != nil {
		return nil, services.Wrap(services.ErrTransient, "intake", "create course", "failed to create course record", err)
	}

	item, err := s.queue.Enqueue(ctx, course.ID)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "intake", "enqueue", "failed to enqueue course for analysis", err)
	}

	s.logger.Info("syllabus submitted",
		logging.String(logging.FieldCourseID, course.ID),
		logging.Int64(logging.FieldItemID, item.ID),
		logging.String("school", school.Name),
		logging.String("document", storedPath))
	return &Result{Course: course, Item: item}, nil
}

// storeDocument copies the source file into managed storage and returns
// the path recorded on the course. A fresh name avoids collisions between
// schools submitting identically named files.
func (s *Service) storeDocument(ctx context.Context, sourcePath string) (string, error) {
	name := fmt.Sprintf("%s%s", uuid.NewString(), strings.ToLower(filepath.Ext(sourcePath)))

	if s.cfg.Storage.Enabled && s.remote != nil {
		if err := s.remote.Upload(ctx, sourcePath, name); err != nil {
			return "", services.Wrap(services.ErrTransient, "intake", "upload document", "failed to upload syllabus to remote storage", err)
		}
		return name, nil
	}

	if err := os.MkdirAll(s.cfg.Paths.SyllabiDir, 0o755); err != nil {
		return "", services.Wrap(services.ErrConfiguration, "intake", "prepare storage", "failed to create syllabi directory", err)
	}
	target := filepath.Join(s.cfg.Paths.SyllabiDir, name)
	if err := copyFile(sourcePath, target); err != nil {
		return "", services.Wrap(services.ErrTransient, "intake", "store document", "failed to copy syllabus into storage", err)
	}
	return name, nil
}

func validate(req Request) error {
	if strings.TrimSpace(req.SchoolName) == "" {
		return services.Wrap(services.ErrValidation, "intake", "validate request", "El nombre de la escuela es obligatorio.", nil)
	}
	if strings.TrimSpace(req.CourseName) == "" {
		return services.Wrap(services.ErrValidation, "intake", "validate request", "El nombre del curso es obligatorio.", nil)
	}
	if req.Credits < 1 || req.Credits > 11 {
		return services.Wrap(services.ErrValidation, "intake", "validate request", "Los créditos deben estar entre 1 y 11.", nil)
	}
	if strings.TrimSpace(req.SourcePath) == "" {
		return services.Wrap(services.ErrValidation, "intake", "validate request", "La ruta del sílabo es obligatoria.", nil)
	}
	if _, err := os.Stat(req.SourcePath); err != nil {
		return services.Wrap(services.ErrValidation, "intake", "validate request", "El archivo del sílabo no existe.", err)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
