package model

// Summary holds descriptive statistics of one environment's execution times.
// Std and SEM are zero when Count < 2.
type Summary struct {
	Environment Environment `json:"environment"`
	Count       int         `json:"count"`
	Mean        float64     `json:"mean"`
	Std         float64     `json:"std"`
	Min         float64     `json:"min"`
	Q25         float64     `json:"p25"`
	Median      float64     `json:"p50"`
	Q75         float64     `json:"p75"`
	Max         float64     `json:"max"`
	SEM         float64     `json:"sem"`
}

// Comparison relates the Docker mean to the VM mean.
type Comparison struct {
	DockerMean  float64     `json:"docker_mean"`
	VMMean      float64     `json:"vm_mean"`
	PercentDiff float64     `json:"percent_diff"` // ((docker - vm) / vm) * 100
	Faster      Environment `json:"faster"`
}

// Report is the outcome of one analysis run.
type Report struct {
	Records    []Record    `json:"records"`
	Dropped    []Record    `json:"dropped,omitempty"`
	Summaries  []Summary   `json:"summaries"`
	Comparison *Comparison `json:"comparison,omitempty"`
	Charts     []string    `json:"charts,omitempty"`
}

// Summary returns the summary for env, if present.
func (r Report) Summary(env Environment) (Summary, bool) {
	for _, s := range r.Summaries {
		if s.Environment == env {
			return s, true
		}
	}
	return Summary{}, false
}
