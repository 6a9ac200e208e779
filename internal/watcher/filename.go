package watcher

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// InboxFile is the metadata parsed from an inbox filename.
type InboxFile struct {
	Path       string
	SchoolName string
	CourseName string
	Credits    int
}

// ParseFilename decodes school__course-name__credits.pdf. Underscores
// inside a field become spaces.
func ParseFilename(path string) (InboxFile, error) {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	if !strings.EqualFold(ext, ".pdf") {
		return InboxFile{}, fmt.Errorf("inbox file %s: not a pdf", base)
	}
	stem := strings.TrimSuffix(base, ext)

	parts := strings.Split(stem, "__")
	if len(parts) != 3 {
		return InboxFile{}, fmt.Errorf("inbox file %s: want school__course__credits.pdf", base)
	}

	school := fieldToText(parts[0])
	course := fieldToText(parts[1])
	credits, err := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err != nil {
		return InboxFile{}, fmt.Errorf("inbox file %s: credits %q is not a number", base, parts[2])
	}
	if school == "" || course == "" {
		return InboxFile{}, fmt.Errorf("inbox file %s: empty school or course field", base)
	}

	return InboxFile{
		Path:       path,
		SchoolName: school,
		CourseName: course,
		Credits:    credits,
	}, nil
}

func fieldToText(field string) string {
	return strings.TrimSpace(strings.ReplaceAll(field, "_", " "))
}
