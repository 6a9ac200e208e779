package syllabus

import "testing"

const officialSample = `UNIVERSIDAD NACIONAL DE SAN AGUSTÍN
SÍLABO
1. INFORMACIÓN ACADÉMICA
Asignatura: Cálculo I
Créditos: 4
Docente: Juan Pérez
Escuela Profesional de Matemáticas
Semestre: 2026-B
2. COMPETENCIAS
3. CONTENIDO TEMÁTICO
Unidad I: Límites y continuidad
4. ESTRATEGIAS DE EVALUACIÓN
5. BIBLIOGRAFÍA`

func TestKeywordScoreEmptyText(t *testing.T) {
	if got := KeywordScore(""); got != 0 {
		t.Fatalf("KeywordScore(\"\") = %d, want 0", got)
	}
}

func TestIsOfficialSyllabusAcceptsRealDocument(t *testing.T) {
	if !IsOfficialSyllabus(officialSample) {
		t.Fatalf("IsOfficialSyllabus = false for a full syllabus, score = %d", KeywordScore(officialSample))
	}
}

func TestIsOfficialSyllabusRejectsBelowThreshold(t *testing.T) {
	cases := []struct {
		name string
		text string
	}{
		{"unrelated prose", "Este es un documento cualquiera sin estructura académica relevante."},
		{"few context words only", "El docente de la asignatura indicó el semestre."}, // 3 points
		{"single heavy phrase", "universidad nacional de san agustín"},                // 2 points
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if IsOfficialSyllabus(tc.text) {
				t.Fatalf("IsOfficialSyllabus = true, want false (score = %d)", KeywordScore(tc.text))
			}
		})
	}
}

func TestKeywordScoreCaseInsensitive(t *testing.T) {
	upper := "SÍLABO ASIGNATURA DOCENTE"
	lower := "sílabo asignatura docente"
	if KeywordScore(upper) != KeywordScore(lower) {
		t.Fatalf("score differs by case: %d vs %d", KeywordScore(upper), KeywordScore(lower))
	}
}
