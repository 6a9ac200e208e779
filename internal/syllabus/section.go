package syllabus

import (
	"regexp"
	"strings"
)

// Section cut points. Alternatives are tried left to right, so the more
// specific "CONTENIDO TEMÁTICO" wins over the bare "CONTENIDO" when both
// start at the same offset.
var (
	sectionStart = regexp.MustCompile(`(?i)(?:(?:CONTENIDO)\s+TEM[ÁA]TICO|CONTENIDO)`)
	sectionEnd   = regexp.MustCompile(`(?i)(?:6\.\s*PROGRAMACI[ÓO]N\s+DE\s+ACTIVIDADES\s+DE\s+INVESTIG\.\s+FORMATIVA\s+Y\s+RESPONSABILIDAD\s+SOCIAL|\d+\.\s*ESTRATEGIAS\s+DE\s+ENSEÑANZA|\d+\.\s*ESTRATEGIAS\s+DE\s+ENSEÑANZA\s+APRENDIZAJE)`)

	creditPattern = regexp.MustCompile(`(?i)crédito.*?\s*[:\.]?\s*(\d)`)
)

const (
	// Fallback window when no start header is found.
	sectionHeadFallbackRunes = 2000
	// Fallback window after the start header when no end header is found.
	sectionTailFallbackRunes = 3000
)

// ThematicSection cuts the course-content section out of raw syllabus text.
// Line endings are normalized first. Without a start header the document
// head is returned; without an end header a bounded window after the start
// header is returned.
func ThematicSection(raw string) string {
	text := strings.ReplaceAll(raw, "\r\n", "\n")

	start := sectionStart.FindStringIndex(text)
	if start == nil {
		return truncateRunes(text, sectionHeadFallbackRunes)
	}

	rest := text[start[1]:]
	end := sectionEnd.FindStringIndex(rest)
	if end != nil {
		return strings.TrimSpace(rest[:end[0]])
	}
	return strings.TrimSpace(truncateRunes(rest, sectionTailFallbackRunes))
}

// Credits pulls the single-digit credit count from raw syllabus text.
// Returns 0 when no credit marker is present.
func Credits(raw string) int {
	match := creditPattern.FindStringSubmatch(raw)
	if match == nil {
		return 0
	}
	return int(match[1][0] - '0')
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
