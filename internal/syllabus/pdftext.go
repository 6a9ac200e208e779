package syllabus

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"golang.org/x/text/unicode/norm"
)

// ExtractText reads every page of the PDF behind src and returns the
// concatenated plain text, pages joined by newlines. The parser panics on
// some malformed files, so the whole walk runs under a recover guard and
// corrupt input surfaces as ErrUnreadable.
func ExtractText(ctx context.Context, src Source) (text string, err error) {
	reader, size, release, openErr := src.open(ctx)
	defer release()
	if openErr != nil {
		return "", openErr
	}

	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("%w: %s: parser panic: %v", ErrUnreadable, src.Describe(), r)
		}
	}()

	doc, err := pdf.NewReader(reader, size)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrUnreadable, src.Describe(), err)
	}

	var pages []string
	total := doc.NumPage()
	for i := 1; i <= total; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		page := doc.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			// A single bad page should not sink the document.
			continue
		}
		pages = append(pages, content)
	}

	joined := strings.Join(pages, "\n")
	return norm.NFC.String(joined), nil
}
