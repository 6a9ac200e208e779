// Package watcher monitors the inbox directory for dropped syllabus PDFs
// and submits them for analysis. Inbox files encode their metadata in the
// filename as school__course-name__credits.pdf; single underscores inside
// a field stand for spaces. A file is submitted once it has settled, that
// is, once no further writes arrive within the configured window.
package watcher
