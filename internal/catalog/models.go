package catalog

import "time"

// School is an academic unit whose students can take courses from an
// equivalence group.
type School struct {
	ID   int64
	Name string
}

// Course is one school's offering of a subject, backed by a syllabus
// document. ContentCache and Embedding are populated by the analysis
// pipeline on first extraction and reused afterwards.
type Course struct {
	ID           string
	Name         string
	Code         string
	Credits      int
	SchoolID     int64
	SyllabusPath string
	ContentCache string
	Embedding    []float64
	GroupID      *int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasEmbedding reports whether an embedding vector has been computed.
func (c *Course) HasEmbedding() bool {
	return c != nil && len(c.Embedding) > 0
}

// EquivalenceGroup is a cluster of courses considered interchangeable for
// credit-transfer purposes. Its school set only ever grows.
type EquivalenceGroup struct {
	ID          int64
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// GroupSummary is the CLI-facing view of a group with aggregate counts.
type GroupSummary struct {
	Group       EquivalenceGroup
	MemberCount int
	SchoolCount int
}
