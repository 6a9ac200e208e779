package grouping

import (
	"context"
	"fmt"
	"log/slog"

	"silabo/internal/catalog"
	"silabo/internal/config"
	"silabo/internal/embedding"
	"silabo/internal/lexical"
	"silabo/internal/logging"
	"silabo/internal/queue"
	"silabo/internal/services"
	"silabo/internal/stage"
)

// Handler runs group matching for queue items in the matching state. It
// generates the course embedding when missing, then defers to the matcher.
type Handler struct {
	cfg      *config.Config
	catalog  *catalog.Store
	embedder *embedding.Client
	matcher  *Matcher
	logger   *slog.Logger
}

// NewHandler constructs the matching stage handler.
func NewHandler(cfg *config.Config, catalogStore *catalog.Store, embedder *embedding.Client, tokenizer *lexical.Tokenizer, logger *slog.Logger) *Handler {
	return &Handler{
		cfg:      cfg,
		catalog:  catalogStore,
		embedder: embedder,
		matcher:  NewMatcher(catalogStore, tokenizer, cfg.Matcher, logger),
		logger:   logging.NewComponentLogger(logger, "grouping"),
	}
}

func (h *Handler) Prepare(ctx context.Context, item *queue.Item) error {
	item.ErrorMessage = ""
	logging.WithContext(ctx, h.logger).Info("starting group matching",
		logging.String(logging.FieldCourseID, item.CourseID))
	return nil
}

func (h *Handler) Execute(ctx context.Context, item *queue.Item) error {
	logger := logging.WithContext(ctx, h.logger)

	course, err := stage.LoadCourse(ctx, h.catalog, item)
	if err != nil {
		return err
	}
	if course.ContentCache == "" {
		return services.Wrap(
			services.ErrValidation, "matching", "validate inputs",
			"El curso no tiene contenido temático extraído.", nil)
	}

	if !course.HasEmbedding() && h.embedder.Available(ctx) {
		vector, err := h.embedder.Embed(ctx, course.ContentCache)
		if err != nil {
			return err
		}
		course.Embedding = vector
		if err := h.catalog.UpdateCourse(ctx, course); err != nil {
			return services.Wrap(
				services.ErrTransient, "matching", "persist embedding",
				"failed to persist course embedding", err)
		}
	}

	semanticReady := h.embedder.Available(ctx) && course.HasEmbedding()
	decision, err := h.matcher.MatchOrCreate(ctx, course, semanticReady)
	if err != nil {
		return err
	}

	item.Status = queue.StatusGrouped
	if decision.Assigned {
		item.Outcome = fmt.Sprintf("Asignado al grupo %q (score %.2f)", decision.Group.Name, decision.HybridScore)
	} else {
		item.Outcome = fmt.Sprintf("Nuevo grupo %q creado", decision.Group.Name)
	}
	logger.Info("course placed",
		logging.String(logging.FieldCourseID, course.ID),
		logging.String(logging.FieldGroup, decision.Group.Name),
		logging.Bool("created_new", decision.CreatedNew))
	return nil
}

func (h *Handler) HealthCheck(ctx context.Context) stage.Health {
	if _, err := h.catalog.ListGroupSummaries(ctx); err != nil {
		return stage.Unhealthy("matching", fmt.Sprintf("catalog unavailable: %v", err))
	}
	if !h.embedder.Available(ctx) {
		return stage.Healthy("matching (sin embeddings)")
	}
	return stage.Healthy("matching")
}
