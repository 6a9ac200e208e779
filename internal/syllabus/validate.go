package syllabus

import "strings"

// Keyword model for official university syllabi. Structural phrases that
// rarely appear outside a syllabus score double; generic context words
// score single. A document qualifies once it accumulates six points.
var (
	highConfidencePhrases = []string{
		"universidad nacional de san agustín",
		"información académica",
		"competencias",
		"contenido tematico",
		"contenido temático",
		"estrategias de evaluación",
		"bibliografía",
		"cronograma académico",
	}
	contextKeywords = []string{
		"silabo",
		"sílabo",
		"asignatura",
		"créditos",
		"creditos",
		"docente",
		"escuela profesional",
		"semestre",
		"prerrequisitos",
	}
)

const validationThreshold = 6

// KeywordScore sums the keyword model over text, case-insensitively.
func KeywordScore(text string) int {
	if text == "" {
		return 0
	}
	lower := strings.ToLower(text)
	score := 0
	for _, phrase := range highConfidencePhrases {
		if strings.Contains(lower, phrase) {
			score += 2
		}
	}
	for _, kw := range contextKeywords {
		if strings.Contains(lower, kw) {
			score++
		}
	}
	return score
}

// IsOfficialSyllabus reports whether text reads like an official syllabus.
func IsOfficialSyllabus(text string) bool {
	return KeywordScore(text) >= validationThreshold
}
