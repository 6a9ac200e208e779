package storage

import (
	"context"
	"path/filepath"
	"testing"

	"silabo/internal/catalog"
	"silabo/internal/syllabus"
	"silabo/internal/testsupport"
)

type fakeFetcher struct {
	fetched []string
}

func (f *fakeFetcher) Fetch(_ context.Context, path string) ([]byte, error) {
	f.fetched = append(f.fetched, path)
	return []byte("payload"), nil
}

func TestResolveLocalRelativePath(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	resolver := NewResolver(cfg, nil)

	src := resolver.Resolve(&catalog.Course{SyllabusPath: "calculo.pdf"})
	pathSrc, ok := src.(syllabus.PathSource)
	if !ok {
		t.Fatalf("source = %T, want PathSource", src)
	}
	want := filepath.Join(cfg.Paths.SyllabiDir, "calculo.pdf")
	if pathSrc.Path != want {
		t.Fatalf("path = %q, want %q", pathSrc.Path, want)
	}
}

func TestResolveLocalAbsolutePathUnchanged(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	resolver := NewResolver(cfg, nil)

	abs := filepath.Join(t.TempDir(), "fisica.pdf")
	src := resolver.Resolve(&catalog.Course{SyllabusPath: abs})
	pathSrc, ok := src.(syllabus.PathSource)
	if !ok {
		t.Fatalf("source = %T, want PathSource", src)
	}
	if pathSrc.Path != abs {
		t.Fatalf("path = %q, want %q", pathSrc.Path, abs)
	}
}

func TestResolveRemoteWhenStorageEnabled(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Storage.Enabled = true
	fetcher := &fakeFetcher{}
	resolver := NewResolver(cfg, fetcher)

	src := resolver.Resolve(&catalog.Course{SyllabusPath: "quimica.pdf"})
	remote, ok := src.(syllabus.RemoteSource)
	if !ok {
		t.Fatalf("source = %T, want RemoteSource", src)
	}
	if remote.Path != "quimica.pdf" {
		t.Fatalf("remote path = %q", remote.Path)
	}
	if _, err := remote.Fetcher.Fetch(context.Background(), remote.Path); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(fetcher.fetched) != 1 {
		t.Fatalf("fetch count = %d, want 1", len(fetcher.fetched))
	}
}
