// Package daemon wires the analysis services together: the queue and
// catalog stores, the workflow manager with its extraction and matching
// stages, the inbox watcher, and scheduled maintenance. It enforces
// single-instance execution with a file lock.
package daemon
