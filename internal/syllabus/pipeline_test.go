package syllabus

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestExtractCorruptDocument(t *testing.T) {
	src := BytesSource{Name: "bad.pdf", Data: []byte("this is not a pdf at all")}
	result, err := Extract(context.Background(), src)
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if result.Readable {
		t.Fatal("Readable = true for corrupt document")
	}
	if result.ErrorMessage != msgCorruptFile {
		t.Fatalf("ErrorMessage = %q, want corrupt-file message", result.ErrorMessage)
	}
}

func TestClassifyEmptyText(t *testing.T) {
	result := classify("")
	if result.Readable || result.OfficialSyllabus {
		t.Fatal("empty text classified as readable")
	}
	if result.ErrorMessage != msgCorruptFile {
		t.Fatalf("ErrorMessage = %q, want corrupt-file message", result.ErrorMessage)
	}
}

func TestClassifyIllegibleText(t *testing.T) {
	result := classify("texto corto")
	if result.Readable {
		t.Fatal("short text classified as readable")
	}
	if result.ErrorMessage != msgIllegibleText {
		t.Fatalf("ErrorMessage = %q, want illegible message", result.ErrorMessage)
	}
}

func TestClassifyNonSyllabus(t *testing.T) {
	text := strings.Repeat("Este documento describe procedimientos administrativos generales. ", 5)
	result := classify(text)
	if !result.Readable {
		t.Fatal("Readable = false for legible text")
	}
	if result.OfficialSyllabus {
		t.Fatal("OfficialSyllabus = true for non-syllabus text")
	}
	if result.ErrorMessage != msgNotASyllabus {
		t.Fatalf("ErrorMessage = %q, want not-a-syllabus message", result.ErrorMessage)
	}
}

func TestClassifyOfficialSyllabus(t *testing.T) {
	result := classify(officialSample)
	if !result.Readable || !result.OfficialSyllabus {
		t.Fatalf("verdict = readable:%v official:%v, want both true", result.Readable, result.OfficialSyllabus)
	}
	if result.ErrorMessage != "" {
		t.Fatalf("ErrorMessage = %q, want empty", result.ErrorMessage)
	}
	if result.Credits != 4 {
		t.Fatalf("Credits = %d, want 4", result.Credits)
	}
	if !strings.Contains(result.Content, "Unidad I: Límites y continuidad") {
		t.Fatalf("Content = %q, missing thematic body", result.Content)
	}
	if result.RawText != officialSample {
		t.Fatal("RawText not preserved")
	}
}

func TestStreamSourceRestoresPosition(t *testing.T) {
	data := []byte("stream payload for rewinding")
	reader := bytes.NewReader(data)
	if _, err := reader.Seek(5, io.SeekStart); err != nil {
		t.Fatal(err)
	}

	src := StreamSource{Name: "stream.pdf", Reader: reader}
	ra, size, release, err := src.open(context.Background())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if size != int64(len(data)) {
		t.Fatalf("size = %d, want %d", size, len(data))
	}
	buf := make([]byte, len(data))
	if _, err := ra.ReadAt(buf, 0); err != nil {
		t.Fatalf("ReadAt: %v", err)
	}
	if !bytes.Equal(buf, data) {
		t.Fatal("stream contents altered")
	}
	release()
	if pos, _ := reader.Seek(0, io.SeekCurrent); pos != 0 {
		t.Fatalf("stream position after release = %d, want 0", pos)
	}
}

type failingFetcher struct{ err error }

func (f failingFetcher) Fetch(context.Context, string) ([]byte, error) {
	return nil, f.err
}

func TestExtractPropagatesFetchFailure(t *testing.T) {
	src := RemoteSource{
		Path:    "syllabi/curso.pdf",
		Fetcher: failingFetcher{err: errors.New("connection timed out")},
	}

	result, err := Extract(context.Background(), src)
	if err == nil {
		t.Fatal("fetch failure was absorbed into a soft result")
	}
	if !errors.Is(err, ErrFetch) {
		t.Fatalf("err = %v, want ErrFetch", err)
	}
	if result.ErrorMessage != "" || result.Readable {
		t.Fatalf("fetch failure produced a verdict: %+v", result)
	}
}

func TestRemoteSourceRequiresFetcher(t *testing.T) {
	src := RemoteSource{Path: "syllabi/curso.pdf"}
	_, _, release, err := src.open(context.Background())
	release()
	if err == nil {
		t.Fatal("open without fetcher succeeded")
	}
}
