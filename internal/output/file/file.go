package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/crimson-sun/vmbench/internal/model"
)

// Option configures a file Output.
type Option func(*Output)

// WithMaxSize sets the file size (bytes) at which the report history rotates.
// 0 (default) disables rotation.
func WithMaxSize(bytes int64) Option {
	return func(o *Output) { o.maxSize = bytes }
}

// WithBackups sets how many rotated histories ({path}.1 newest up to
// {path}.N oldest) are kept. Default: 1.
func WithBackups(n int) Option {
	return func(o *Output) { o.backups = max(n, 1) }
}

// Output appends one JSON line per analysis report to a history file,
// unbuffered.
type Output struct {
	mu      sync.Mutex
	f       *os.File
	path    string
	maxSize int64 // 0 = no rotation
	backups int
	size    int64
}

// New opens (or creates) the report history at path.
func New(path string, opts ...Option) (*Output, error) {
	o := &Output{path: path, backups: 1}
	for _, opt := range opts {
		opt(o)
	}
	if err := o.open(); err != nil {
		return nil, err
	}
	return o, nil
}

// Write appends the report as a single JSON line.
func (o *Output) Write(_ context.Context, report model.Report) error {
	line, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("file output: marshal: %w", err)
	}
	line = append(line, '\n')

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.full(len(line)) {
		if err := o.rotate(); err != nil {
			return fmt.Errorf("file output: rotate: %w", err)
		}
	}
	n, err := o.f.Write(line)
	o.size += int64(n)
	if err != nil {
		return fmt.Errorf("file output: write %s: %w", o.path, err)
	}
	return nil
}

// Close closes the history file.
func (o *Output) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.f.Close()
}

// full reports whether appending n bytes would push a non-empty history past
// maxSize. A single oversized report still lands in an empty file.
func (o *Output) full(n int) bool {
	return o.maxSize > 0 && o.size > 0 && o.size+int64(n) > o.maxSize
}

func (o *Output) open() error {
	f, err := os.OpenFile(o.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("file output: open %s: %w", o.path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return fmt.Errorf("file output: stat %s: %w", o.path, err)
	}
	o.f, o.size = f, info.Size()
	return nil
}

// rotate shifts {path}.i to {path}.i+1, dropping the oldest, moves the current
// history to {path}.1 and starts an empty file.
func (o *Output) rotate() error {
	if err := o.f.Close(); err != nil {
		return err
	}
	for i := o.backups - 1; i >= 1; i-- {
		from := fmt.Sprintf("%s.%d", o.path, i)
		if _, err := os.Stat(from); err != nil {
			continue
		}
		if err := os.Rename(from, fmt.Sprintf("%s.%d", o.path, i+1)); err != nil {
			return err
		}
	}
	if err := os.Rename(o.path, o.path+".1"); err != nil {
		return err
	}
	return o.open()
}
