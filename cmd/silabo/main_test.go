package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"silabo/internal/queue"
)

func TestParseStatuses(t *testing.T) {
	statuses, err := parseStatuses([]string{" Pending", "REVIEW"})
	if err != nil {
		t.Fatalf("parseStatuses: %v", err)
	}
	if len(statuses) != 2 || statuses[0] != queue.StatusPending || statuses[1] != queue.StatusReview {
		t.Fatalf("unexpected statuses: %v", statuses)
	}

	if _, err := parseStatuses([]string{"bogus"}); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestRenderQueueTablePrefersErrorMessage(t *testing.T) {
	retryAt := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	items := []*queue.Item{
		{ID: 1, CourseID: "abc", Status: queue.StatusGrouped, Outcome: "Asignado al grupo \"Cálculo I\""},
		{ID: 2, CourseID: "def", Status: queue.StatusPending, Attempts: 1, NextRetryAt: &retryAt, ErrorMessage: "endpoint caído", Outcome: "stale"},
	}

	rendered := renderQueueTable(items)
	if !strings.Contains(rendered, "Asignado al grupo") {
		t.Fatalf("outcome missing from table:\n%s", rendered)
	}
	if !strings.Contains(rendered, "endpoint caído") {
		t.Fatalf("error message should win over stale outcome:\n%s", rendered)
	}
	if strings.Contains(rendered, "stale") {
		t.Fatalf("stale outcome should not render:\n%s", rendered)
	}
	if !strings.Contains(rendered, "09:30:00") {
		t.Fatalf("retry time missing from table:\n%s", rendered)
	}
}

func TestConfigInitCommandWritesSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")

	cmd := newConfigInitCommand()
	cmd.SetArgs([]string{"--path", target})
	var out bytes.Buffer
	cmd.SetOut(&out)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("config init: %v", err)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read sample config: %v", err)
	}
	if !strings.Contains(string(data), "[embedding]") {
		t.Fatalf("sample config missing embedding section:\n%s", data)
	}

	if err := cmd.Execute(); err == nil {
		t.Fatal("second init without --overwrite should fail")
	}
}
