package chart

import (
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/crimson-sun/vmbench/internal/model"
)

const boxWidth = 60 // points

var pointColor = color.NRGBA{A: 128}

// boxPlot draws one box per environment with the individual runs on top.
func boxPlot(records []model.Record) (*plot.Plot, error) {
	envs := environments(records)
	p := newPlot("Execution time distribution: Docker vs VM", "Environment", secondsLabel)

	for i, env := range envs {
		values := times(records, env)
		b, err := plotter.NewBoxPlot(vg.Points(boxWidth), float64(i), values)
		if err != nil {
			return nil, err
		}
		b.FillColor = envColors[env]
		p.Add(b)

		pts := make(plotter.XYs, len(values))
		for j, v := range values {
			pts[j] = plotter.XY{X: float64(i), Y: v}
		}
		s, err := plotter.NewScatter(pts)
		if err != nil {
			return nil, err
		}
		s.GlyphStyle.Color = pointColor
		s.GlyphStyle.Radius = vg.Points(3)
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(s)
	}
	p.NominalX(envNames(envs)...)
	return p, nil
}

// histogram overlays one histogram per environment with enough runs.
func histogram(records []model.Record) (*plot.Plot, error) {
	p := newPlot("Execution time distribution: Docker vs VM", secondsLabel, "Frequency")
	p.Legend.Top = true

	for _, env := range environments(records) {
		values := times(records, env)
		if len(values) < minHistGroup {
			continue
		}
		h, err := plotter.NewHist(values, sturges(len(values)))
		if err != nil {
			return nil, err
		}
		c := envColors[env]
		h.FillColor = color.NRGBA{R: c.R, G: c.G, B: c.B, A: 153}
		h.LineStyle.Width = vg.Points(0.5)
		p.Add(h)
		p.Legend.Add(string(env), h)
	}
	return p, nil
}

// sturges returns the Sturges bin count for n samples.
func sturges(n int) int {
	return int(math.Ceil(math.Log2(float64(n)))) + 1
}
