package syllabus

import (
	"context"
	"errors"
	"strings"
)

// User-facing messages stay in Spanish; they flow through to the people
// uploading syllabi.
const (
	msgCorruptFile   = "El archivo está dañado o no es un PDF válido."
	msgIllegibleText = "Por favor sube el archivo digital original (texto ilegible)."
	msgNotASyllabus  = "El documento NO parece ser un sílabo oficial de la universidad."

	minLegibleRunes = 100
)

// Extraction is the outcome of running a syllabus document through the
// extraction pipeline. Readable reports that text came out of the PDF at
// all; OfficialSyllabus that the keyword model accepted it. Credits and
// Content are soft fields, zero-valued when absent.
type Extraction struct {
	Readable         bool
	OfficialSyllabus bool
	Credits          int
	Content          string
	RawText          string
	ErrorMessage     string
}

// Extract runs the full extraction pipeline over src: pull plain text,
// reject unreadable or scanned documents, validate against the syllabus
// keyword model, then cut the thematic section and credit count.
//
// Parse failures become soft result fields. Fetch failures (ErrFetch) and
// context cancellation are returned as errors: the document was never read,
// so the verdict belongs to the caller's retry policy, not the result.
func Extract(ctx context.Context, src Source) (Extraction, error) {
	raw, err := ExtractText(ctx, src)
	if err != nil {
		if ctx.Err() != nil {
			return Extraction{}, ctx.Err()
		}
		if errors.Is(err, ErrFetch) {
			return Extraction{}, err
		}
		return Extraction{ErrorMessage: msgCorruptFile}, nil
	}
	return classify(raw), nil
}

// classify turns raw document text into an Extraction verdict.
func classify(raw string) Extraction {
	var result Extraction

	stripped := strings.TrimSpace(raw)
	if len([]rune(stripped)) < minLegibleRunes {
		if raw == "" {
			result.ErrorMessage = msgCorruptFile
		} else {
			result.ErrorMessage = msgIllegibleText
		}
		return result
	}

	result.RawText = raw

	if !IsOfficialSyllabus(raw) {
		result.Readable = true
		result.ErrorMessage = msgNotASyllabus
		return result
	}

	result.Readable = true
	result.OfficialSyllabus = true
	result.Credits = Credits(raw)
	result.Content = ThematicSection(raw)
	return result
}
