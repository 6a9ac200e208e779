// Package queue persists analysis work items in SQLite and exposes helpers
// for driving their lifecycle.
//
// Each item tracks one course submission through the analysis pipeline:
// pending → extracting → extracted → matching → grouped, with review and
// failed as terminal side exits. Retry bookkeeping (attempt counts and
// next-retry timestamps) lives on the item so the workflow manager can apply
// bounded backoff without additional state.
//
// The database is treated as transient storage for in-flight jobs rather than
// a long-term archive. Schema changes bump the version in schema.go; users
// clear the database to adopt the new schema.
package queue
