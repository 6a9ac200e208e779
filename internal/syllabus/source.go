package syllabus

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
)

// Enumerated extraction failure kinds. ErrFetch marks I/O failures while
// acquiring the document bytes (storage reads, missing files); the pipeline
// propagates those so the caller's retry policy can see them. The parse-level
// kinds below it are converted into soft result fields instead.
var (
	ErrFetch         = errors.New("document fetch failed")
	ErrUnreadable    = errors.New("document unreadable")
	ErrUnsupported   = errors.New("unsupported document format")
	ErrEmptyDocument = errors.New("document contains no text")
)

// Fetcher resolves remotely stored syllabus objects into bytes.
type Fetcher interface {
	Fetch(ctx context.Context, path string) ([]byte, error)
}

// Source is a readable syllabus document. The concrete variants adapt a
// filesystem path, an in-memory buffer, a seekable stream, or a stored
// object to the random-access view PDF parsing needs.
type Source interface {
	// open returns a random-access reader over the document bytes, its
	// size, and a release function. Release always runs, success or not.
	open(ctx context.Context) (io.ReaderAt, int64, func(), error)

	// Describe names the source for log lines and error messages.
	Describe() string
}

// PathSource reads a document from the local filesystem.
type PathSource struct {
	Path string
}

func (s PathSource) open(_ context.Context) (io.ReaderAt, int64, func(), error) {
	file, err := os.Open(s.Path)
	if err != nil {
		return nil, 0, func() {}, fmt.Errorf("%w: open %s: %w", ErrFetch, s.Path, err)
	}
	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, 0, func() {}, fmt.Errorf("%w: stat %s: %w", ErrFetch, s.Path, err)
	}
	return file, info.Size(), func() { _ = file.Close() }, nil
}

func (s PathSource) Describe() string { return s.Path }

// BytesSource reads a document already held in memory.
type BytesSource struct {
	Name string
	Data []byte
}

func (s BytesSource) open(_ context.Context) (io.ReaderAt, int64, func(), error) {
	return bytes.NewReader(s.Data), int64(len(s.Data)), func() {}, nil
}

func (s BytesSource) Describe() string {
	if s.Name != "" {
		return s.Name
	}
	return "(in-memory document)"
}

// StreamSource adapts a seekable stream. The stream is drained into memory
// and its read position is restored to the start afterwards, regardless of
// outcome, so callers can reuse it.
type StreamSource struct {
	Name   string
	Reader io.ReadSeeker
}

func (s StreamSource) open(_ context.Context) (io.ReaderAt, int64, func(), error) {
	release := func() {
		_, _ = s.Reader.Seek(0, io.SeekStart)
	}
	if _, err := s.Reader.Seek(0, io.SeekStart); err != nil {
		return nil, 0, release, fmt.Errorf("%w: rewind stream: %w", ErrFetch, err)
	}
	data, err := io.ReadAll(s.Reader)
	if err != nil {
		return nil, 0, release, fmt.Errorf("%w: read stream: %w", ErrFetch, err)
	}
	return bytes.NewReader(data), int64(len(data)), release, nil
}

func (s StreamSource) Describe() string {
	if s.Name != "" {
		return s.Name
	}
	return "(stream document)"
}

// RemoteSource reads a document from remote storage through a Fetcher.
type RemoteSource struct {
	Path    string
	Fetcher Fetcher
}

func (s RemoteSource) open(ctx context.Context) (io.ReaderAt, int64, func(), error) {
	if s.Fetcher == nil {
		return nil, 0, func() {}, fmt.Errorf("%w: no fetcher configured for %s", ErrFetch, s.Path)
	}
	data, err := s.Fetcher.Fetch(ctx, s.Path)
	if err != nil {
		return nil, 0, func() {}, fmt.Errorf("%w: fetch %s: %w", ErrFetch, s.Path, err)
	}
	return bytes.NewReader(data), int64(len(data)), func() {}, nil
}

func (s RemoteSource) Describe() string { return s.Path }
