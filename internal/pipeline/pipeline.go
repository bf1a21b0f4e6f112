// Package pipeline runs the Docker-versus-VM analysis: load result files,
// drop unusable rows, summarize, chart, and report.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/crimson-sun/vmbench/internal/model"
	"github.com/crimson-sun/vmbench/internal/output"
	"github.com/crimson-sun/vmbench/internal/results"
	"github.com/crimson-sun/vmbench/internal/stats"
)

// Insufficient-data outcomes. They end an analysis early without being failures.
var (
	ErrNoData = errors.New("no data to analyze: add .txt result files to the Docker and VM result directories, " +
		`for example a file containing "Tiempo de ejecución: 2.5 segundos"`)
	ErrTooFewRecords = errors.New("not enough data for a comparison: " +
		"at least two records are needed, one from Docker and one from VM")
	ErrMissingEnvironment = errors.New("no valid data for environment")
)

// IsInsufficientData reports whether err is one of the early-exit outcomes.
func IsInsufficientData(err error) bool {
	return errors.Is(err, ErrNoData) || errors.Is(err, ErrTooFewRecords) || errors.Is(err, ErrMissingEnvironment)
}

// Renderer draws charts for a set of valid records and returns the written paths.
type Renderer interface {
	Render(records []model.Record) ([]string, error)
}

// Source is a result directory for one environment.
type Source struct {
	Environment model.Environment
	Dir         string
}

// Pipeline connects result sources, a chart renderer, and an output.
type Pipeline struct {
	sources  []Source
	renderer Renderer
	output   output.Output
}

// New creates a Pipeline reading Docker results from dockerDir and VM results from vmDir.
func New(dockerDir, vmDir string, r Renderer, out output.Output) *Pipeline {
	return &Pipeline{
		sources: []Source{
			{Environment: model.Docker, Dir: dockerDir},
			{Environment: model.VM, Dir: vmDir},
		},
		renderer: r,
		output:   out,
	}
}

// Analyze runs the full analysis once and writes the report to the output.
// Insufficient data is reported through the sentinel errors above.
func (p *Pipeline) Analyze(ctx context.Context) (model.Report, error) {
	dirs := make([]string, len(p.sources))
	for i, s := range p.sources {
		dirs[i] = s.Dir
	}
	if err := results.EnsureDirs(dirs...); err != nil {
		return model.Report{}, fmt.Errorf("pipeline: %w", err)
	}

	var all []model.Record
	for _, s := range p.sources {
		recs, err := results.Load(s.Dir, s.Environment)
		if err != nil {
			return model.Report{}, fmt.Errorf("pipeline load %s: %w", s.Environment, err)
		}
		slog.Info("loaded records", "environment", s.Environment, "dir", s.Dir, "count", len(recs))
		if len(recs) == 0 {
			slog.Warn("no valid data found", "environment", s.Environment)
		}
		all = append(all, recs...)
	}
	if len(all) == 0 {
		return model.Report{}, ErrNoData
	}

	valid, dropped := partition(all)
	if len(dropped) > 0 {
		slog.Info("dropping rows with invalid execution times", "count", len(dropped))
	}
	if len(valid) < 2 {
		return model.Report{}, ErrTooFewRecords
	}
	for _, s := range p.sources {
		if len(stats.Times(valid, s.Environment)) == 0 {
			return model.Report{}, fmt.Errorf("%w %s: no comparison possible", ErrMissingEnvironment, s.Environment)
		}
	}

	report := model.Report{
		Records:   valid,
		Dropped:   dropped,
		Summaries: stats.Summarize(valid),
	}
	docker, _ := report.Summary(model.Docker)
	vm, _ := report.Summary(model.VM)
	if c, ok := stats.Compare(docker, vm); ok {
		report.Comparison = &c
	} else {
		slog.Warn("VM mean is not positive, skipping percentage difference", "vm_mean", vm.Mean)
	}

	if err := ctx.Err(); err != nil {
		return report, err
	}
	charts, err := p.renderer.Render(valid)
	report.Charts = charts
	if err != nil {
		return report, fmt.Errorf("pipeline render: %w", err)
	}

	if err := p.output.Write(ctx, report); err != nil {
		return report, fmt.Errorf("pipeline output: %w", err)
	}
	return report, nil
}

// Close shuts down the output.
func (p *Pipeline) Close() error {
	return p.output.Close()
}

// partition splits records into those with an execution time and those without.
func partition(records []model.Record) (valid, dropped []model.Record) {
	for _, r := range records {
		if r.Parsed {
			valid = append(valid, r)
		} else {
			dropped = append(dropped, r)
		}
	}
	return valid, dropped
}
