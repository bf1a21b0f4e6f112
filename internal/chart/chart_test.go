package chart

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/crimson-sun/vmbench/internal/model"
)

const testDPI = 30

func records(env model.Environment, file string, secs ...float64) []model.Record {
	out := make([]model.Record, len(secs))
	for i, s := range secs {
		out[i] = model.Record{File: file, Seconds: s, Environment: env, Parsed: true, Method: "header"}
	}
	return out
}

func basenames(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = filepath.Base(p)
	}
	return out
}

func TestRender_TwoRecordsOnlyBarChart(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "charts")
	recs := append(records(model.Docker, "a.txt", 1.0), records(model.VM, "a.txt", 2.0)...)

	paths, err := New(dir, WithDPI(testDPI)).Render(recs)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if diff := cmp.Diff([]string{BarChartFile}, basenames(paths)); diff != "" {
		t.Fatalf("charts mismatch (-want +got):\n%s", diff)
	}

	f, err := os.Open(paths[0])
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatalf("bar chart is not a PNG: %v", err)
	}
	if cfg.Width != 10*testDPI || cfg.Height != 6*testDPI {
		t.Fatalf("size = %dx%d, want %dx%d", cfg.Width, cfg.Height, 10*testDPI, 6*testDPI)
	}
}

func TestRender_AllCharts(t *testing.T) {
	dir := t.TempDir()
	var recs []model.Record
	for _, f := range []string{"resultado_cpp.txt", "resultado_python.txt", "resultado_javascript.txt"} {
		recs = append(recs, records(model.Docker, f, 0.10, 0.12)...)
		recs = append(recs, records(model.VM, f, 0.20, 0.26)...)
	}

	paths, err := New(dir, WithDPI(testDPI)).Render(recs)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	want := []string{BarChartFile, BoxPlotFile, HistogramFile, ErrorBarsFile, ByFileFile}
	if diff := cmp.Diff(want, basenames(paths)); diff != "" {
		t.Fatalf("charts mismatch (-want +got):\n%s", diff)
	}
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			t.Fatalf("stat %s: %v", p, err)
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", p)
		}
	}
}

func TestRender_Thresholds(t *testing.T) {
	tests := []struct {
		name string
		recs []model.Record
		want []string
	}{
		{
			name: "four records, one file",
			recs: append(records(model.Docker, "a.txt", 1, 2, 3), records(model.VM, "a.txt", 4)...),
			want: []string{BarChartFile, BoxPlotFile},
		},
		{
			name: "two per environment, one file",
			recs: append(records(model.Docker, "a.txt", 1, 2), records(model.VM, "a.txt", 3, 4)...),
			want: []string{BarChartFile, BoxPlotFile, ErrorBarsFile},
		},
		{
			name: "files not shared across environments",
			recs: append(records(model.Docker, "a.txt", 1), records(model.VM, "b.txt", 2)...),
			want: []string{BarChartFile},
		},
		{
			name: "two shared files",
			recs: append(
				append(records(model.Docker, "a.txt", 1), records(model.Docker, "b.txt", 2)...),
				append(records(model.VM, "a.txt", 3), records(model.VM, "b.txt", 4)...)...),
			want: []string{BarChartFile, BoxPlotFile, ErrorBarsFile, ByFileFile},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			paths, err := New(t.TempDir(), WithDPI(testDPI)).Render(tt.recs)
			if err != nil {
				t.Fatalf("Render error: %v", err)
			}
			if diff := cmp.Diff(tt.want, basenames(paths)); diff != "" {
				t.Fatalf("charts mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFileNames(t *testing.T) {
	recs := append(records(model.Docker, "b.txt", 1, 2), records(model.VM, "a.txt", 3)...)
	if diff := cmp.Diff([]string{"a.txt", "b.txt"}, fileNames(recs)); diff != "" {
		t.Fatalf("fileNames mismatch (-want +got):\n%s", diff)
	}
}

func TestSturges(t *testing.T) {
	tests := []struct{ n, want int }{{1, 1}, {3, 3}, {8, 4}, {9, 5}}
	for _, tt := range tests {
		if got := sturges(tt.n); got != tt.want {
			t.Errorf("sturges(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}
