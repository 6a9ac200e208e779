package extraction

import (
	"context"
	"fmt"
	"log/slog"

	"silabo/internal/catalog"
	"silabo/internal/config"
	"silabo/internal/logging"
	"silabo/internal/queue"
	"silabo/internal/services"
	"silabo/internal/stage"
	"silabo/internal/syllabus"
)

// Handler runs syllabus extraction for queue items in the extracting state.
type Handler struct {
	cfg      *config.Config
	catalog  *catalog.Store
	resolver stage.SourceResolver
	logger   *slog.Logger
}

// NewHandler constructs the extraction stage handler.
func NewHandler(cfg *config.Config, catalogStore *catalog.Store, resolver stage.SourceResolver, logger *slog.Logger) *Handler {
	return &Handler{
		cfg:      cfg,
		catalog:  catalogStore,
		resolver: resolver,
		logger:   logging.NewComponentLogger(logger, "extraction"),
	}
}

func (h *Handler) Prepare(ctx context.Context, item *queue.Item) error {
	item.ErrorMessage = ""
	logging.WithContext(ctx, h.logger).Info("starting syllabus extraction",
		logging.String(logging.FieldCourseID, item.CourseID))
	return nil
}

func (h *Handler) Execute(ctx context.Context, item *queue.Item) error {
	logger := logging.WithContext(ctx, h.logger)

	course, err := stage.LoadCourse(ctx, h.catalog, item)
	if err != nil {
		return err
	}

	if course.ContentCache != "" {
		logger.Info("content cache already populated, skipping document",
			logging.String(logging.FieldCourseID, course.ID))
		item.Status = queue.StatusExtracted
		item.Outcome = "Contenido temático reutilizado desde caché"
		return nil
	}

	if course.SyllabusPath == "" {
		return services.Wrap(
			services.ErrValidation, "extracting", "resolve document",
			"El curso no tiene un sílabo registrado.", nil)
	}

	result, err := syllabus.Extract(ctx, h.resolver.Resolve(course))
	if err != nil {
		return services.Wrap(
			services.ErrTransient, "extracting", "read document",
			"No se pudo leer el documento del sílabo.", err)
	}
	if !result.Readable {
		return services.Wrap(
			services.ErrValidation, "extracting", "read document",
			result.ErrorMessage, nil)
	}
	if !result.OfficialSyllabus {
		return services.Wrap(
			services.ErrValidation, "extracting", "validate document",
			result.ErrorMessage, nil)
	}

	if result.Credits > 0 {
		course.Credits = result.Credits
	}
	course.ContentCache = result.Content
	if err := h.catalog.UpdateCourse(ctx, course); err != nil {
		return services.Wrap(
			services.ErrTransient, "extracting", "persist content",
			"failed to persist extracted content", err)
	}

	logger.Info("thematic section extracted",
		logging.String(logging.FieldCourseID, course.ID),
		logging.Int("credits", course.Credits),
		logging.Int("content_chars", len(result.Content)))

	item.Status = queue.StatusExtracted
	item.Outcome = fmt.Sprintf("Contenido temático extraído (%d créditos)", course.Credits)
	return nil
}

func (h *Handler) HealthCheck(ctx context.Context) stage.Health {
	if _, err := h.catalog.ListCourses(ctx); err != nil {
		return stage.Unhealthy("extraction", fmt.Sprintf("catalog unavailable: %v", err))
	}
	return stage.Healthy("extraction")
}
