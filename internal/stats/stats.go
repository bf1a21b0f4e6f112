// Package stats computes per-environment descriptive statistics and the
// Docker-versus-VM comparison.
package stats

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/crimson-sun/vmbench/internal/model"
)

// Describe summarizes values for env. Quartiles use linear interpolation
// between closest ranks at position (n-1)p.
func Describe(env model.Environment, values []float64) model.Summary {
	s := model.Summary{Environment: env, Count: len(values)}
	if len(values) == 0 {
		return s
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	s.Mean = stat.Mean(sorted, nil)
	s.Min = floats.Min(sorted)
	s.Max = floats.Max(sorted)
	s.Q25 = Percentile(sorted, 0.25)
	s.Median = Percentile(sorted, 0.5)
	s.Q75 = Percentile(sorted, 0.75)
	if len(sorted) > 1 {
		s.Std = stat.StdDev(sorted, nil)
		s.SEM = stat.StdErr(s.Std, float64(len(sorted)))
	}
	return s
}

// Percentile returns the p-th quantile (0 <= p <= 1) of sorted, interpolating
// linearly between neighbouring ranks. sorted must be in ascending order.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	pos := float64(len(sorted)-1) * p
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	return sorted[lo] + (pos-float64(lo))*(sorted[hi]-sorted[lo])
}

// Times returns the execution times of the records belonging to env.
func Times(records []model.Record, env model.Environment) []float64 {
	var out []float64
	for _, r := range records {
		if r.Environment == env {
			out = append(out, r.Seconds)
		}
	}
	return out
}

// Summarize returns one summary per environment that has records, in
// model.Environments order.
func Summarize(records []model.Record) []model.Summary {
	var out []model.Summary
	for _, env := range model.Environments() {
		values := Times(records, env)
		if len(values) == 0 {
			continue
		}
		out = append(out, Describe(env, values))
	}
	return out
}

// Compare computes the percentage difference of the Docker mean relative to
// the VM mean. ok is false when the VM mean is not positive.
func Compare(docker, vm model.Summary) (c model.Comparison, ok bool) {
	if vm.Mean <= 0 {
		return model.Comparison{}, false
	}
	c = model.Comparison{
		DockerMean:  docker.Mean,
		VMMean:      vm.Mean,
		PercentDiff: (docker.Mean - vm.Mean) / vm.Mean * 100,
		Faster:      model.VM,
	}
	if docker.Mean < vm.Mean {
		c.Faster = model.Docker
	}
	return c, true
}
