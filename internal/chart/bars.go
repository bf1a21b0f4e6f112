package chart

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"

	"github.com/crimson-sun/vmbench/internal/model"
)

const (
	barWidth      = 60 // points
	groupBarWidth = 20 // points, per environment in the by-file chart
	labelLift     = 0.05
)

const secondsLabel = "Execution time (seconds)"

// meanErrors positions mean values at the bar centers with symmetric error.
type meanErrors struct {
	means []float64
	errs  []float64
}

func (m meanErrors) Len() int                        { return len(m.means) }
func (m meanErrors) XY(i int) (float64, float64)     { return float64(i), m.means[i] }
func (m meanErrors) YError(i int) (float64, float64) { return m.errs[i], m.errs[i] }

func barChart(records []model.Record) (*plot.Plot, error) {
	envs := environments(records)
	p := newPlot("Average execution time: Docker vs VM", "Environment", secondsLabel)

	means := make([]float64, len(envs))
	for i, env := range envs {
		means[i] = stat.Mean(times(records, env), nil)
	}
	if err := addEnvBars(p, envs, means); err != nil {
		return nil, err
	}
	if err := addValueLabels(p, means, make([]float64, len(means))); err != nil {
		return nil, err
	}
	p.NominalX(envNames(envs)...)
	p.Y.Min = 0
	p.Y.Max = maxOf(means) * 1.15
	return p, nil
}

func errorBarChart(records []model.Record) (*plot.Plot, error) {
	envs := environments(records)
	p := newPlot("Average execution time with standard error: Docker vs VM", "Environment", secondsLabel)

	me := meanErrors{means: make([]float64, len(envs)), errs: make([]float64, len(envs))}
	for i, env := range envs {
		mean, std := stat.MeanStdDev(times(records, env), nil)
		me.means[i] = mean
		me.errs[i] = stat.StdErr(std, float64(len(times(records, env))))
	}
	if err := addEnvBars(p, envs, me.means); err != nil {
		return nil, err
	}

	eb, err := plotter.NewYErrorBars(me)
	if err != nil {
		return nil, err
	}
	eb.LineStyle.Width = vg.Points(2)
	eb.CapWidth = vg.Points(20)
	p.Add(eb)

	if err := addValueLabels(p, me.means, me.errs); err != nil {
		return nil, err
	}
	p.NominalX(envNames(envs)...)
	p.Y.Min = 0
	top := 0.0
	for i := range me.means {
		top = math.Max(top, me.means[i]+me.errs[i])
	}
	p.Y.Max = top * 1.15
	return p, nil
}

func byFileChart(records []model.Record) (*plot.Plot, error) {
	envs := environments(records)
	files := fileNames(records)
	p := newPlot("Execution time per file: Docker vs VM", "File", secondsLabel)

	w := vg.Points(groupBarWidth)
	for j, env := range envs {
		values := make(plotter.Values, len(files))
		for i, f := range files {
			values[i] = stat.Mean(fileTimes(records, env, f), nil)
		}
		bc, err := plotter.NewBarChart(values, w)
		if err != nil {
			return nil, err
		}
		bc.Color = envColors[env]
		bc.LineStyle.Width = 0
		bc.Offset = w * vg.Length(2*j-len(envs)+1) / 2
		p.Add(bc)
		p.Legend.Add(string(env), bc)
	}

	p.NominalX(files...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = text.XRight
	p.Legend.Top = true
	p.Y.Min = 0
	return p, nil
}

// addEnvBars adds one bar per environment so each gets its own color.
func addEnvBars(p *plot.Plot, envs []model.Environment, means []float64) error {
	for i, env := range envs {
		bc, err := plotter.NewBarChart(plotter.Values{means[i]}, vg.Points(barWidth))
		if err != nil {
			return err
		}
		bc.XMin = float64(i)
		bc.Color = envColors[env]
		bc.LineStyle.Width = 0
		p.Add(bc)
	}
	return nil
}

// addValueLabels writes "%.3fs" above each bar, lifted past its error bar.
func addValueLabels(p *plot.Plot, means, errs []float64) error {
	d := plotter.XYLabels{
		XYs:    make(plotter.XYs, len(means)),
		Labels: make([]string, len(means)),
	}
	for i, m := range means {
		d.XYs[i] = plotter.XY{X: float64(i), Y: m + errs[i] + m*labelLift}
		d.Labels[i] = fmt.Sprintf("%.3fs", m)
	}
	labels, err := plotter.NewLabels(d)
	if err != nil {
		return err
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].XAlign = text.XCenter
	}
	p.Add(labels)
	return nil
}

func fileTimes(records []model.Record, env model.Environment, file string) []float64 {
	var out []float64
	for _, r := range records {
		if r.Environment == env && r.File == file {
			out = append(out, r.Seconds)
		}
	}
	return out
}

func maxOf(values []float64) float64 {
	m := 0.0
	for _, v := range values {
		m = math.Max(m, v)
	}
	return m
}
