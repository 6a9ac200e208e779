// Package config loads, normalizes, and validates silabo configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob
// the daemon and CLI need: catalog/queue directories, matcher thresholds,
// the embedding service endpoint, the lemmatizer dictionary, the inbox
// watcher, and remote syllabus storage.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
