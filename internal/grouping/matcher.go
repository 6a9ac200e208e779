package grouping

import (
	"context"
	"fmt"
	"log/slog"

	"silabo/internal/catalog"
	"silabo/internal/config"
	"silabo/internal/lexical"
	"silabo/internal/logging"
	"silabo/internal/services"
	"silabo/internal/similarity"
)

// Decision records how a course was placed.
type Decision struct {
	Group       *catalog.EquivalenceGroup
	Assigned    bool
	CreatedNew  bool
	HybridScore float64
}

// Matcher places courses into equivalence groups.
type Matcher struct {
	store     *catalog.Store
	tokenizer *lexical.Tokenizer
	cfg       config.Matcher
	logger    *slog.Logger
}

// NewMatcher builds a matcher over the catalog store.
func NewMatcher(store *catalog.Store, tokenizer *lexical.Tokenizer, cfg config.Matcher, logger *slog.Logger) *Matcher {
	return &Matcher{
		store:     store,
		tokenizer: tokenizer,
		cfg:       cfg,
		logger:    logging.NewComponentLogger(logger, "matcher"),
	}
}

// MatchOrCreate scores course against every group sharing its credit count
// and either assigns it to the best compatible group or creates a new one.
// semanticReady reports whether the embedding backend was reachable; when
// it is false, or the course carries no embedding, matching is skipped and
// a new group is founded outright.
func (m *Matcher) MatchOrCreate(ctx context.Context, course *catalog.Course, semanticReady bool) (Decision, error) {
	log := logging.WithContext(ctx, m.logger)

	if !semanticReady || !course.HasEmbedding() {
		log.Info("semantic signal unavailable, founding new group",
			logging.String(logging.FieldCourseID, course.ID))
		return m.createGroup(ctx, course)
	}

	candidateTokens := m.tokenizer.Tokenize(course.ContentCache)

	groups, err := m.store.GroupsWithMemberCredits(ctx, course.Credits)
	if err != nil {
		return Decision{}, services.Wrap(services.ErrTransient, "matching", "list groups", "failed to load candidate groups", err)
	}
	log.Info("scoring course against candidate groups",
		logging.String(logging.FieldCourseID, course.ID),
		logging.Int("candidate_groups", len(groups)))

	var best *catalog.EquivalenceGroup
	bestScore := 0.0

	for _, group := range groups {
		members, err := m.store.CoursesInGroup(ctx, group.ID)
		if err != nil {
			return Decision{}, services.Wrap(services.ErrTransient, "matching", "load group members", "failed to load group members", err)
		}

		vectors := make([][]float64, 0, len(members))
		for _, member := range members {
			if member.HasEmbedding() {
				vectors = append(vectors, member.Embedding)
			}
		}
		centroid := similarity.Centroid(vectors)
		if centroid == nil {
			continue
		}
		semantic := similarity.Cosine(course.Embedding, centroid)

		lexicalScore := 0.0
		for _, member := range members {
			if member.ID == course.ID {
				continue
			}
			j := similarity.Jaccard(candidateTokens, m.tokenizer.Tokenize(member.ContentCache))
			if j > lexicalScore {
				lexicalScore = j
			}
		}

		if !m.compatible(semantic, lexicalScore) {
			continue
		}
		hybrid := m.cfg.SemanticWeight*semantic + m.cfg.LexicalWeight*lexicalScore
		if hybrid > bestScore {
			bestScore = hybrid
			best = group
		}
	}

	if best != nil && bestScore > m.cfg.AssignmentThreshold {
		if err := m.assign(ctx, course, best); err != nil {
			return Decision{}, err
		}
		log.Info("course joined existing group",
			logging.String(logging.FieldCourseID, course.ID),
			logging.String(logging.FieldGroup, best.Name),
			logging.Float64("hybrid_score", bestScore))
		return Decision{Group: best, Assigned: true, HybridScore: bestScore}, nil
	}

	log.Info("no group scored above the assignment threshold, founding new group",
		logging.String(logging.FieldCourseID, course.ID),
		logging.Float64("best_score", bestScore))
	return m.createGroup(ctx, course)
}

// compatible applies the two-branch gate: a looser semantic bar demands
// stronger lexical confirmation, a very high semantic bar tolerates weaker
// lexical overlap.
func (m *Matcher) compatible(semantic, lexicalScore float64) bool {
	if semantic > m.cfg.SemanticHighBar && lexicalScore > m.cfg.LexicalConfirmBar {
		return true
	}
	if semantic > m.cfg.SemanticVeryHighBar && lexicalScore > m.cfg.LexicalWeakBar {
		return true
	}
	return false
}

func (m *Matcher) assign(ctx context.Context, course *catalog.Course, group *catalog.EquivalenceGroup) error {
	course.GroupID = &group.ID
	if err := m.store.UpdateCourse(ctx, course); err != nil {
		return services.Wrap(services.ErrTransient, "matching", "assign course", "failed to persist group assignment", err)
	}
	if err := m.store.AddSchoolToGroup(ctx, group.ID, course.SchoolID); err != nil {
		return services.Wrap(services.ErrTransient, "matching", "extend group schools", "failed to add school to group", err)
	}
	return nil
}

func (m *Matcher) createGroup(ctx context.Context, course *catalog.Course) (Decision, error) {
	origin := course.Code
	if origin == "" {
		origin = "sistema"
	}
	group, err := m.store.CreateGroup(ctx, course.Name, fmt.Sprintf("Grupo base generado por %s", origin))
	if err != nil {
		return Decision{}, services.Wrap(services.ErrTransient, "matching", "create group", "failed to create equivalence group", err)
	}
	if err := m.assign(ctx, course, group); err != nil {
		return Decision{}, err
	}
	return Decision{Group: group, CreatedNew: true}, nil
}
