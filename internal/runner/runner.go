// Package runner times the benchmark workloads and writes one result file per
// run in the format the analysis reads back.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
)

// waitDelay bounds how long a killed run may keep its output pipes open.
const waitDelay = time.Second

// Result is one timed run of a workload.
type Result struct {
	Workload string
	Run      int // 1-based
	Duration time.Duration
	Output   string
	Err      error // non-nil when the process failed or timed out
	Path     string
}

// Runner executes workloads sequentially.
type Runner struct {
	dir      string
	timeout  time.Duration
	progress io.Writer
}

// Option configures a Runner.
type Option func(*Runner)

// WithTimeout bounds each run. 0 (default) disables the limit.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) { r.timeout = d }
}

// WithProgress sets where the progress bar is drawn. Default: stderr.
func WithProgress(w io.Writer) Option {
	return func(r *Runner) { r.progress = w }
}

// New creates a Runner that writes result files into dir.
func New(dir string, opts ...Option) *Runner {
	r := &Runner{dir: dir, progress: os.Stderr}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run times every repetition of every workload. A failing workload is recorded
// in its result file and does not stop the session; write errors and
// cancellation do. A run interrupted by cancellation writes no result file.
func (r *Runner) Run(ctx context.Context, workloads []Workload) ([]Result, error) {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return nil, fmt.Errorf("runner: create %s: %w", r.dir, err)
	}

	total := 0
	for _, w := range workloads {
		total += max(w.Repeat, 1)
	}
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(r.progress),
		progressbar.OptionSetDescription("benchmarking"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	var results []Result
	for _, w := range workloads {
		args, err := w.Args()
		if err != nil {
			return results, err
		}
		repeat := max(w.Repeat, 1)
		for i := 1; i <= repeat; i++ {
			if err := ctx.Err(); err != nil {
				return results, err
			}
			bar.Describe(w.Name)
			slog.Info("running workload", "name", w.Name, "run", i, "repeat", repeat)

			res := r.measure(ctx, args, w.Input)
			if err := ctx.Err(); err != nil {
				// The run was killed by cancellation; its time is not a measurement.
				slog.Warn("workload cancelled, result discarded", "name", w.Name, "run", i)
				return results, err
			}
			res.Workload, res.Run = w.Name, i
			res.Path = filepath.Join(r.dir, resultName(w.Name, i, repeat))
			if err := WriteResult(res.Path, res); err != nil {
				return results, err
			}
			if res.Err != nil {
				slog.Warn("workload failed", "name", w.Name, "run", i, "error", res.Err)
			}
			slog.Info(fmt.Sprintf("finished %s: %.6f seconds", w.Name, res.Duration.Seconds()))
			results = append(results, res)
			bar.Add(1)
		}
	}
	if err := ctx.Err(); err != nil {
		return results, err
	}
	bar.Finish()
	return results, nil
}

// measure runs args once, timing from process start to exit.
func (r *Runner) measure(ctx context.Context, args []string, input string) Result {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Stdin = strings.NewReader(input)
	cmd.Stdout = &out
	cmd.Stderr = &out
	// Kill the whole process group so children holding the output pipe die
	// with the workload, and stop waiting on the pipe shortly after.
	killGroup(cmd)
	cmd.WaitDelay = waitDelay

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		err = fmt.Errorf("timed out after %s: %w", r.timeout, err)
	}
	return Result{Duration: elapsed, Output: out.String(), Err: err}
}

func resultName(name string, run, repeat int) string {
	if repeat > 1 {
		return fmt.Sprintf("resultado_%s_%d.txt", name, run)
	}
	return fmt.Sprintf("resultado_%s.txt", name)
}

// WriteResult stores a run as:
//
//	Tiempo de ejecución: 0.123456 segundos
//
//	Salida del programa:
//	<output>
//
//	Errores:
//	<error>
//
// The Errores section is present only for failed runs.
func WriteResult(path string, res Result) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Tiempo de ejecución: %.6f segundos\n\n", res.Duration.Seconds())
	b.WriteString("Salida del programa:\n")
	b.WriteString(res.Output)
	if res.Err != nil {
		b.WriteString("\n\nErrores:\n")
		b.WriteString(res.Err.Error())
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("runner: write %s: %w", path, err)
	}
	return nil
}
