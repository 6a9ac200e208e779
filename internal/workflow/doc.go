// Package workflow advances analysis queue items through the processing
// stages.
//
// The Manager polls the queue for items in an entry status (pending,
// extracted), transitions them to the corresponding processing status, and
// runs the registered stage handler. Retryable failures are rescheduled
// with a linear backoff up to the configured attempt limit; validation
// rejections route straight to manual review with the user-facing message
// preserved. On startup any items stranded in a processing status by a
// previous crash are reset to their entry status.
package workflow
