package file

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/crimson-sun/vmbench/internal/model"
)

func testReport(mean float64) model.Report {
	return model.Report{
		Records: []model.Record{
			{File: "resultado_python.txt", Seconds: mean, Environment: model.Docker, Method: "header", Parsed: true},
		},
		Summaries: []model.Summary{{Environment: model.Docker, Count: 1, Mean: mean}},
	}
}

func TestWriteAppendsNDJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports.jsonl")
	out, err := New(path)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := out.Write(context.Background(), testReport(float64(i))); err != nil {
			t.Fatalf("Write error: %v", err)
		}
	}
	if err := out.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	data, _ := os.ReadFile(path)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	for i, line := range lines {
		var r model.Report
		if err := json.Unmarshal([]byte(line), &r); err != nil {
			t.Fatalf("line %d: invalid JSON: %v", i, err)
		}
		if r.Summaries[0].Mean != float64(i) {
			t.Errorf("line %d: mean = %v, want %d", i, r.Summaries[0].Mean, i)
		}
	}
}

func TestReopenAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports.jsonl")
	for i := 0; i < 2; i++ {
		out, err := New(path)
		if err != nil {
			t.Fatalf("New error: %v", err)
		}
		out.Write(context.Background(), testReport(1))
		out.Close()
	}

	data, _ := os.ReadFile(path)
	if n := strings.Count(string(data), "\n"); n != 2 {
		t.Fatalf("got %d lines after reopening, want 2", n)
	}
}

func TestRotationTriggersAtMaxSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports.jsonl")
	// Each report line is well over 100 bytes, so every write after the first rotates.
	out, err := New(path, WithMaxSize(100))
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := out.Write(context.Background(), testReport(float64(i))); err != nil {
			t.Fatalf("Write error: %v", err)
		}
	}
	out.Close()

	if _, err := os.Stat(path + ".1"); err != nil {
		t.Fatalf("expected rotated file .1: %v", err)
	}
	data, _ := os.ReadFile(path)
	if n := strings.Count(string(data), "\n"); n != 1 {
		t.Fatalf("current file has %d lines, want 1", n)
	}
}

func TestRotationKeepsBackups(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports.jsonl")
	out, err := New(path, WithMaxSize(100), WithBackups(2))
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	for i := 0; i < 4; i++ {
		if err := out.Write(context.Background(), testReport(float64(i))); err != nil {
			t.Fatalf("Write error: %v", err)
		}
	}
	out.Close()

	for _, suffix := range []string{".1", ".2"} {
		if _, err := os.Stat(path + suffix); err != nil {
			t.Fatalf("expected rotated file %s: %v", suffix, err)
		}
	}
	if _, err := os.Stat(path + ".3"); err == nil {
		t.Fatal("expected at most 2 backups")
	}

	// Newest backup holds the report written just before the last rotation.
	var got model.Report
	data, _ := os.ReadFile(path + ".1")
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("backup is not a JSON report: %v", err)
	}
	if len(got.Summaries) != 1 || got.Summaries[0].Mean != 2 {
		t.Fatalf("backup .1 = %+v, want report 2", got.Summaries)
	}
}
