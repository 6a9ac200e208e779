// Package catalog persists the course catalog in SQLite: schools, courses,
// and the equivalence groups the matcher builds over them.
//
// Courses carry the cached thematic-content text and embedding vector
// produced by the analysis pipeline; groups reference their member courses
// through the courses.group_id back-reference and accumulate schools in a
// join table. The store is the single writer for all three tables; pipeline
// code mutates Course values in memory and persists them here.
package catalog
