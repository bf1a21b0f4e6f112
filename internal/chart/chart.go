// Package chart renders the Docker-versus-VM comparison charts as PNG files.
package chart

import (
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/crimson-sun/vmbench/internal/model"
)

// Output file names.
const (
	BarChartFile   = "comparison_bar_chart.png"
	BoxPlotFile    = "comparison_boxplot.png"
	HistogramFile  = "comparison_histogram.png"
	ErrorBarsFile  = "comparison_error_bars.png"
	ByFileFile     = "comparison_by_file.png"
	defaultDPI     = 300
	minBoxRecords  = 4
	minHistRecords = 6
	minHistGroup   = 3 // per environment
	minErrorGroup  = 2 // per environment
)

var envColors = map[model.Environment]color.RGBA{
	model.Docker: {R: 0x34, G: 0x98, B: 0xdb, A: 0xff},
	model.VM:     {R: 0xe7, G: 0x4c, B: 0x3c, A: 0xff},
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithDPI sets the PNG resolution. Default: 300.
func WithDPI(dpi int) Option {
	return func(r *Renderer) { r.dpi = dpi }
}

// Renderer writes comparison charts into a directory.
type Renderer struct {
	dir string
	dpi int
}

// New creates a Renderer that writes into dir.
func New(dir string, opts ...Option) *Renderer {
	r := &Renderer{dir: dir, dpi: defaultDPI}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render draws every chart the records support and returns the written paths.
// Records must all be parsed. Charts that need more data are skipped with a log line.
func (r *Renderer) Render(records []model.Record) ([]string, error) {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return nil, fmt.Errorf("chart: create %s: %w", r.dir, err)
	}

	charts := []struct {
		file          string
		width, height vg.Length
		skip          string // non-empty when the chart is not drawn
		build         func([]model.Record) (*plot.Plot, error)
	}{
		{BarChartFile, 10 * vg.Inch, 6 * vg.Inch, "", barChart},
		{BoxPlotFile, 10 * vg.Inch, 6 * vg.Inch, boxSkip(records), boxPlot},
		{HistogramFile, 12 * vg.Inch, 7 * vg.Inch, histSkip(records), histogram},
		{ErrorBarsFile, 10 * vg.Inch, 6 * vg.Inch, errorBarsSkip(records), errorBarChart},
		{ByFileFile, 14 * vg.Inch, 8 * vg.Inch, byFileSkip(records), byFileChart},
	}

	var paths []string
	for _, c := range charts {
		if c.skip != "" {
			slog.Info("skipping chart", "chart", c.file, "reason", c.skip)
			continue
		}
		p, err := c.build(records)
		if err != nil {
			return paths, fmt.Errorf("chart: %s: %w", c.file, err)
		}
		path, err := r.save(p, c.file, c.width, c.height)
		if err != nil {
			return paths, fmt.Errorf("chart: %s: %w", c.file, err)
		}
		slog.Info("chart saved", "path", path)
		paths = append(paths, path)
	}
	return paths, nil
}

func (r *Renderer) save(p *plot.Plot, name string, w, h vg.Length) (string, error) {
	c := vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(r.dpi))
	p.Draw(draw.New(c))

	path := filepath.Join(r.dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(f); err != nil {
		f.Close()
		return "", err
	}
	return path, f.Close()
}

// newPlot returns a plot with the shared title, axis labels, and a dashed
// horizontal grid.
func newPlot(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel

	g := plotter.NewGrid()
	g.Vertical.Color = nil
	g.Horizontal.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	p.Add(g)
	return p
}

// environments returns the environments that have at least one record.
func environments(records []model.Record) []model.Environment {
	var out []model.Environment
	for _, env := range model.Environments() {
		if slices.ContainsFunc(records, func(r model.Record) bool { return r.Environment == env }) {
			out = append(out, env)
		}
	}
	return out
}

func envNames(envs []model.Environment) []string {
	names := make([]string, len(envs))
	for i, env := range envs {
		names[i] = string(env)
	}
	return names
}

func times(records []model.Record, env model.Environment) plotter.Values {
	var v plotter.Values
	for _, r := range records {
		if r.Environment == env {
			v = append(v, r.Seconds)
		}
	}
	return v
}

func boxSkip(records []model.Record) string {
	if len(records) < minBoxRecords {
		return fmt.Sprintf("need at least %d records, have %d", minBoxRecords, len(records))
	}
	return ""
}

func histSkip(records []model.Record) string {
	if len(records) < minHistRecords {
		return fmt.Sprintf("need at least %d records, have %d", minHistRecords, len(records))
	}
	return ""
}

func errorBarsSkip(records []model.Record) string {
	for _, env := range environments(records) {
		if n := len(times(records, env)); n < minErrorGroup {
			return fmt.Sprintf("%s has %d records, need at least %d", env, n, minErrorGroup)
		}
	}
	return ""
}

func byFileSkip(records []model.Record) string {
	files := fileNames(records)
	if len(files) < 2 {
		return "only one result file name"
	}
	for _, env := range environments(records) {
		for _, f := range files {
			if !slices.ContainsFunc(records, func(r model.Record) bool {
				return r.Environment == env && r.File == f
			}) {
				return fmt.Sprintf("%s missing from %s", f, env)
			}
		}
	}
	return ""
}

// fileNames returns the distinct file names in sorted order.
func fileNames(records []model.Record) []string {
	var names []string
	for _, r := range records {
		names = append(names, r.File)
	}
	slices.Sort(names)
	return slices.Compact(names)
}
