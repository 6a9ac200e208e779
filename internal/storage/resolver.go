package storage

import (
	"path/filepath"

	"silabo/internal/catalog"
	"silabo/internal/config"
	"silabo/internal/syllabus"
)

// Resolver maps courses to syllabus document sources. With remote storage
// enabled, syllabus paths refer to objects on the SFTP server; otherwise
// relative paths are anchored under the local syllabi directory.
type Resolver struct {
	cfg     *config.Config
	fetcher syllabus.Fetcher
}

// NewResolver constructs a resolver. fetcher may be nil when remote
// storage is disabled.
func NewResolver(cfg *config.Config, fetcher syllabus.Fetcher) *Resolver {
	return &Resolver{cfg: cfg, fetcher: fetcher}
}

// Resolve returns the source the course's syllabus should be read from.
func (r *Resolver) Resolve(course *catalog.Course) syllabus.Source {
	if r.cfg.Storage.Enabled && r.fetcher != nil {
		return syllabus.RemoteSource{Path: course.SyllabusPath, Fetcher: r.fetcher}
	}
	path := course.SyllabusPath
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.cfg.Paths.SyllabiDir, path)
	}
	return syllabus.PathSource{Path: path}
}
