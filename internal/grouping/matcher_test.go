package grouping

import (
	"context"
	"math"
	"testing"

	"silabo/internal/catalog"
	"silabo/internal/config"
	"silabo/internal/lexical"
	"silabo/internal/testsupport"
)

func newTestMatcher(t *testing.T, store *catalog.Store) *Matcher {
	t.Helper()
	cfg := config.Default()
	tokenizer := lexical.NewTokenizer(lexical.NewLemmatizer(cfg.Lemmatizer), 0)
	return NewMatcher(store, tokenizer, cfg.Matcher, nil)
}

// seedGroupedCourse inserts a course with content and embedding already
// assigned to its own group, the way a first submission leaves the catalog.
func seedGroupedCourse(t *testing.T, store *catalog.Store, school, name string, credits int, content string, vector []float64) (*catalog.Course, *catalog.EquivalenceGroup) {
	t.Helper()
	ctx := context.Background()

	course := testsupport.NewCourse(t, store, school, name, credits)
	course.ContentCache = content
	course.Embedding = vector
	if err := store.UpdateCourse(ctx, course); err != nil {
		t.Fatalf("UpdateCourse: %v", err)
	}

	group, err := store.CreateGroup(ctx, name, "Grupo base generado por sistema")
	if err != nil {
		t.Fatalf("CreateGroup: %v", err)
	}
	course.GroupID = &group.ID
	if err := store.UpdateCourse(ctx, course); err != nil {
		t.Fatalf("UpdateCourse: %v", err)
	}
	if err := store.AddSchoolToGroup(ctx, group.ID, course.SchoolID); err != nil {
		t.Fatalf("AddSchoolToGroup: %v", err)
	}
	return course, group
}

func TestMatchOrCreateFoundsFirstGroup(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCatalog(t, cfg)
	matcher := newTestMatcher(t, store)

	course := testsupport.NewCourse(t, store, "Ingeniería de Sistemas", "Cálculo I", 4)
	course.ContentCache = "grafo matriz vector"
	course.Embedding = []float64{1, 0}
	if err := store.UpdateCourse(context.Background(), course); err != nil {
		t.Fatalf("UpdateCourse: %v", err)
	}

	decision, err := matcher.MatchOrCreate(context.Background(), course, true)
	if err != nil {
		t.Fatalf("MatchOrCreate: %v", err)
	}
	if !decision.CreatedNew || decision.Assigned {
		t.Fatalf("decision = %+v, want new group", decision)
	}
	if decision.Group.Name != "Cálculo I" {
		t.Fatalf("group name = %q, want course name", decision.Group.Name)
	}
	if decision.Group.Description != "Grupo base generado por sistema" {
		t.Fatalf("description = %q", decision.Group.Description)
	}
	if course.GroupID == nil || *course.GroupID != decision.Group.ID {
		t.Fatal("course not linked to the new group")
	}

	schools, err := store.GroupSchools(context.Background(), decision.Group.ID)
	if err != nil {
		t.Fatalf("GroupSchools: %v", err)
	}
	if len(schools) != 1 {
		t.Fatalf("group schools = %d, want 1", len(schools))
	}
}

func TestMatchOrCreateGroupNameUsesCourseCode(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCatalog(t, cfg)
	matcher := newTestMatcher(t, store)

	course := testsupport.NewCourse(t, store, "Ingeniería de Sistemas", "Física I", 3)
	course.Code = "1702234"
	course.ContentCache = "cinemática dinámica"
	if err := store.UpdateCourse(context.Background(), course); err != nil {
		t.Fatalf("UpdateCourse: %v", err)
	}

	decision, err := matcher.MatchOrCreate(context.Background(), course, false)
	if err != nil {
		t.Fatalf("MatchOrCreate: %v", err)
	}
	if decision.Group.Description != "Grupo base generado por 1702234" {
		t.Fatalf("description = %q", decision.Group.Description)
	}
}

func TestMatchOrCreateJoinsIdenticalCourse(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCatalog(t, cfg)
	matcher := newTestMatcher(t, store)

	content := "grafo matriz vector recorrido"
	_, group := seedGroupedCourse(t, store, "Escuela A", "Matemática Discreta", 4, content, []float64{1, 0})

	candidate := testsupport.NewCourse(t, store, "Escuela B", "Matemática Discreta", 4)
	candidate.ContentCache = content
	candidate.Embedding = []float64{1, 0}
	if err := store.UpdateCourse(context.Background(), candidate); err != nil {
		t.Fatalf("UpdateCourse: %v", err)
	}

	decision, err := matcher.MatchOrCreate(context.Background(), candidate, true)
	if err != nil {
		t.Fatalf("MatchOrCreate: %v", err)
	}
	if !decision.Assigned || decision.CreatedNew {
		t.Fatalf("decision = %+v, want assignment", decision)
	}
	if decision.Group.ID != group.ID {
		t.Fatalf("assigned to group %d, want %d", decision.Group.ID, group.ID)
	}
	if decision.HybridScore <= 0.65 {
		t.Fatalf("hybrid score = %v, want > 0.65", decision.HybridScore)
	}

	schools, err := store.GroupSchools(context.Background(), group.ID)
	if err != nil {
		t.Fatalf("GroupSchools: %v", err)
	}
	if len(schools) != 2 {
		t.Fatalf("group schools = %d, want both schools", len(schools))
	}
}

func TestMatchOrCreateHybridArithmetic(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCatalog(t, cfg)
	matcher := newTestMatcher(t, store)

	// Member tokens {grafo, matriz, vector}, candidate {grafo, matriz,
	// tensor, cadena}: Jaccard = 2/5 = 0.40. Embeddings arranged for
	// cosine 0.85 against the single-member centroid.
	_, group := seedGroupedCourse(t, store, "Escuela A", "Álgebra Lineal", 4,
		"grafo matriz vector", []float64{1, 0})

	candidate := testsupport.NewCourse(t, store, "Escuela B", "Álgebra Matricial", 4)
	candidate.ContentCache = "grafo matriz tensor cadena"
	candidate.Embedding = []float64{0.85, math.Sqrt(1 - 0.85*0.85)}
	if err := store.UpdateCourse(context.Background(), candidate); err != nil {
		t.Fatalf("UpdateCourse: %v", err)
	}

	decision, err := matcher.MatchOrCreate(context.Background(), candidate, true)
	if err != nil {
		t.Fatalf("MatchOrCreate: %v", err)
	}
	if !decision.Assigned {
		t.Fatalf("decision = %+v, want assignment", decision)
	}
	if decision.Group.ID != group.ID {
		t.Fatalf("assigned to group %d, want %d", decision.Group.ID, group.ID)
	}
	want := 0.70*0.85 + 0.30*0.40
	if math.Abs(decision.HybridScore-want) > 1e-6 {
		t.Fatalf("hybrid score = %v, want %v", decision.HybridScore, want)
	}
}

func TestMatchOrCreateGateRejectsModerateSemantic(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCatalog(t, cfg)
	matcher := newTestMatcher(t, store)

	// Cosine 0.80 with strong lexical overlap fails both gate branches.
	seedGroupedCourse(t, store, "Escuela A", "Programación I", 3,
		"grafo matriz vector tensor", []float64{1, 0})

	candidate := testsupport.NewCourse(t, store, "Escuela B", "Programación", 3)
	candidate.ContentCache = "grafo matriz"
	candidate.Embedding = []float64{0.80, 0.60}
	if err := store.UpdateCourse(context.Background(), candidate); err != nil {
		t.Fatalf("UpdateCourse: %v", err)
	}

	decision, err := matcher.MatchOrCreate(context.Background(), candidate, true)
	if err != nil {
		t.Fatalf("MatchOrCreate: %v", err)
	}
	if !decision.CreatedNew {
		t.Fatalf("decision = %+v, want new group despite lexical overlap", decision)
	}
}

func TestMatchOrCreateDifferentCreditsNeverCompared(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCatalog(t, cfg)
	matcher := newTestMatcher(t, store)

	content := "grafo matriz vector"
	seedGroupedCourse(t, store, "Escuela A", "Estadística", 4, content, []float64{1, 0})

	candidate := testsupport.NewCourse(t, store, "Escuela B", "Estadística", 3)
	candidate.ContentCache = content
	candidate.Embedding = []float64{1, 0}
	if err := store.UpdateCourse(context.Background(), candidate); err != nil {
		t.Fatalf("UpdateCourse: %v", err)
	}

	decision, err := matcher.MatchOrCreate(context.Background(), candidate, true)
	if err != nil {
		t.Fatalf("MatchOrCreate: %v", err)
	}
	if !decision.CreatedNew {
		t.Fatalf("decision = %+v, want new group across credit counts", decision)
	}
}

func TestMatchOrCreateWithoutSemanticSignal(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCatalog(t, cfg)
	matcher := newTestMatcher(t, store)

	content := "grafo matriz vector"
	seedGroupedCourse(t, store, "Escuela A", "Redes", 4, content, []float64{1, 0})

	candidate := testsupport.NewCourse(t, store, "Escuela B", "Redes", 4)
	candidate.ContentCache = content
	candidate.Embedding = []float64{1, 0}
	if err := store.UpdateCourse(context.Background(), candidate); err != nil {
		t.Fatalf("UpdateCourse: %v", err)
	}

	decision, err := matcher.MatchOrCreate(context.Background(), candidate, false)
	if err != nil {
		t.Fatalf("MatchOrCreate: %v", err)
	}
	if !decision.CreatedNew {
		t.Fatalf("decision = %+v, want new group when embeddings are down", decision)
	}
}

func TestCompatibleGate(t *testing.T) {
	matcher := &Matcher{cfg: config.Default().Matcher}
	cases := []struct {
		name     string
		semantic float64
		lexical  float64
		want     bool
	}{
		{"both bars met", 0.85, 0.40, true},
		{"very high semantic, weak lexical", 0.93, 0.25, true},
		{"semantic below both bars", 0.80, 0.50, false},
		{"high semantic, lexical too weak", 0.85, 0.30, false},
		{"very high semantic, lexical still too weak", 0.93, 0.15, false},
		{"exactly at bars is not enough", 0.82, 0.35, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := matcher.compatible(tc.semantic, tc.lexical); got != tc.want {
				t.Fatalf("compatible(%v, %v) = %v, want %v", tc.semantic, tc.lexical, got, tc.want)
			}
		})
	}
}
