// Package embedding generates sentence embeddings for syllabus content
// through an Ollama-compatible HTTP endpoint. Model availability is probed
// once per process; when the endpoint is down the client degrades to empty
// embeddings so that courses still flow through the pipeline and simply
// land in new groups.
package embedding
