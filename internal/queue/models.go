package queue

import "time"

// Status represents the lifecycle of an analysis item.
type Status string

const (
	StatusPending    Status = "pending"
	StatusExtracting Status = "extracting"
	StatusExtracted  Status = "extracted"
	StatusMatching   Status = "matching"
	StatusGrouped    Status = "grouped"
	StatusReview     Status = "review"
	StatusFailed     Status = "failed"
)

var allStatuses = []Status{
	StatusPending,
	StatusExtracting,
	StatusExtracted,
	StatusMatching,
	StatusGrouped,
	StatusReview,
	StatusFailed,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

var processingStatuses = map[Status]struct{}{
	StatusExtracting: {},
	StatusMatching:   {},
}

// IsValid reports whether the status is one of the known lifecycle values.
func (s Status) IsValid() bool {
	_, ok := statusSet[s]
	return ok
}

// IsProcessing reports whether the status marks an in-flight stage.
func (s Status) IsProcessing() bool {
	_, ok := processingStatuses[s]
	return ok
}

// IsTerminal reports whether the item has finished its lifecycle.
func (s Status) IsTerminal() bool {
	return s == StatusGrouped || s == StatusReview || s == StatusFailed
}

// Item represents an analysis queue item persisted in SQLite.
type Item struct {
	ID           int64
	CourseID     string
	Status       Status
	Attempts     int
	NextRetryAt  *time.Time
	ErrorMessage string
	Outcome      string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HealthSummary describes aggregated queue counts per key lifecycle states.
type HealthSummary struct {
	Total      int
	Pending    int
	Processing int
	Review     int
	Failed     int
	Grouped    int
}
