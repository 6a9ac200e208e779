// Package extraction is the workflow stage that turns a queued course's
// syllabus document into cached thematic content. Courses whose content
// cache is already populated skip the document entirely. Validation
// rejections route the item to manual review with the user-facing message
// preserved; transport problems stay retryable.
package extraction
