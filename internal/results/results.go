// Package results loads benchmark result files from a directory and reduces
// each one to a model.Record.
package results

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/crimson-sun/vmbench/internal/extract"
	"github.com/crimson-sun/vmbench/internal/model"
)

const (
	resultExt    = ".txt"
	previewLines = 3
)

// EnsureDirs creates any missing result directory. A freshly created directory
// is empty, so a warning asks for result files to be placed there.
func EnsureDirs(dirs ...string) error {
	for _, dir := range dirs {
		_, err := os.Stat(dir)
		if err == nil {
			continue
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("results: stat %s: %w", dir, err)
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("results: create %s: %w", dir, err)
		}
		slog.Warn("result directory did not exist and was created; place result files there before running",
			"dir", dir)
	}
	return nil
}

// Load reads every *.txt file in dir and returns one record per readable file.
// Files without a detectable time are kept with Parsed=false. Unreadable files
// are logged and skipped.
func Load(dir string, env model.Environment) ([]model.Record, error) {
	paths, err := list(dir)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		slog.Info("no result files found", "dir", dir)
		return nil, nil
	}

	records := make([]model.Record, 0, len(paths))
	missing := 0
	for _, path := range paths {
		rec, err := loadFile(path, env)
		if err != nil {
			slog.Error("failed to process result file", "path", path, "error", err)
			continue
		}
		if !rec.Parsed {
			missing++
		}
		records = append(records, rec)
	}
	if missing > 0 {
		slog.Info("some files had no detectable execution time", "dir", dir, "count", missing)
	}
	return records, nil
}

// list returns the result file paths in dir in name order. Hidden files are
// ignored and a missing directory yields no paths.
func list(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("results: read dir %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || filepath.Ext(name) != resultExt {
			continue
		}
		paths = append(paths, filepath.Join(dir, name))
	}
	return paths, nil
}

func loadFile(path string, env model.Environment) (model.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.Record{}, err
	}
	defer f.Close()

	content, err := Decode(f)
	if err != nil {
		return model.Record{}, fmt.Errorf("decode: %w", err)
	}

	name := filepath.Base(path)
	slog.Info("processing result file", "file", name, "environment", env)
	lines := strings.Split(content, "\n")
	for i, line := range lines[:min(len(lines), previewLines)] {
		slog.Debug("result file preview", "file", name, "line", i+1, "text", line)
	}

	res := extract.Parse(content)
	rec := model.Record{
		File:        name,
		Environment: env,
		Method:      string(res.Method),
		Parsed:      res.Found(),
	}
	if !res.Found() {
		slog.Warn("no execution time found", "path", path)
		return rec, nil
	}
	rec.Seconds = res.Seconds
	slog.Info("execution time extracted", "file", name, "seconds", res.Seconds,
		"method", res.Method, "candidates", len(res.Candidates))
	return rec, nil
}

// Decode reads a result file leniently: a UTF-8 or UTF-16 byte order mark
// selects the encoding, invalid UTF-8 is dropped, and the text is normalized
// to NFC so composed and decomposed accents compare equal.
func Decode(r io.Reader) (string, error) {
	data, err := io.ReadAll(transform.NewReader(r, unicode.BOMOverride(transform.Nop)))
	if err != nil {
		return "", err
	}
	return norm.NFC.String(strings.ToValidUTF8(string(data), "")), nil
}
