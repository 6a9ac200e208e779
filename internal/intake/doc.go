// Package intake registers new syllabus submissions: it files the document
// under managed storage (local syllabi directory or the SFTP remote),
// creates the school and course records, and enqueues the course for
// analysis. The CLI submit command and the inbox watcher both go through
// this path.
package intake
