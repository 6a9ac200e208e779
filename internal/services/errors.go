package services

import (
	"errors"
	"fmt"
	"strings"

	"silabo/internal/queue"
)

var (
	ErrExternalTool  = errors.New("external tool error")
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrNotFound      = errors.New("not found")
	ErrTimeout       = errors.New("timeout")
	ErrTransient     = errors.New("transient failure")
)

// stageError carries stage context alongside the classification marker so
// the workflow manager can surface the human-readable message on its own.
type stageError struct {
	marker    error
	stage     string
	operation string
	message   string
	cause     error
}

func (e *stageError) Error() string {
	detail := buildDetail(e.stage, e.operation, e.message)
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.marker, detail, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.marker, detail)
}

func (e *stageError) Unwrap() []error {
	if e.cause != nil {
		return []error{e.marker, e.cause}
	}
	return []error{e.marker}
}

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later status classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	if marker == nil {
		marker = ErrTransient
	}
	return &stageError{marker: marker, stage: stage, operation: operation, message: message, cause: err}
}

// Message extracts the human-readable message from a wrapped stage error,
// falling back to the full error text.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var se *stageError
	if errors.As(err, &se) && strings.TrimSpace(se.message) != "" {
		return strings.TrimSpace(se.message)
	}
	return strings.TrimSpace(err.Error())
}

// FailureStatus maps a stage error to the queue status the workflow manager
// should persist after retries are exhausted or when the failure is terminal.
func FailureStatus(err error) queue.Status {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrConfiguration), errors.Is(err, ErrNotFound):
		return queue.StatusReview
	default:
		return queue.StatusFailed
	}
}

// Retryable reports whether the workflow manager should schedule another
// attempt for the failure. Validation rejections, configuration problems, and
// missing records are terminal; transient and external-tool failures are not.
func Retryable(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, ErrValidation), errors.Is(err, ErrConfiguration), errors.Is(err, ErrNotFound):
		return false
	default:
		return true
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
