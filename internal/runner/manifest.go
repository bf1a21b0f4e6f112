package runner

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/shlex"
	"gopkg.in/yaml.v3"
)

// Manifest lists the workloads of one benchmark session.
type Manifest struct {
	ResultsDir string     `yaml:"results_dir"`
	Workloads  []Workload `yaml:"workloads"`
}

// Workload is one program to time. Input is fed on stdin, since the
// Fibonacci programs prompt for a term count.
type Workload struct {
	Name    string `yaml:"name"`
	Command string `yaml:"command"`
	Input   string `yaml:"input"`
	Repeat  int    `yaml:"repeat"`
}

// Args splits Command using shell quoting rules.
func (w Workload) Args() ([]string, error) {
	args, err := shlex.Split(w.Command)
	if err != nil {
		return nil, fmt.Errorf("workload %s: split command: %w", w.Name, err)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("workload %s: empty command", w.Name)
	}
	return args, nil
}

// LoadManifest reads and validates a YAML manifest. Repeat defaults to 1 and
// ResultsDir to "results".
func LoadManifest(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("runner: read manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("runner: parse manifest %s: %w", path, err)
	}
	if m.ResultsDir == "" {
		m.ResultsDir = "results"
	}
	for i := range m.Workloads {
		if m.Workloads[i].Repeat == 0 {
			m.Workloads[i].Repeat = 1
		}
	}
	if err := m.Validate(); err != nil {
		return Manifest{}, fmt.Errorf("runner: manifest %s: %w", path, err)
	}
	return m, nil
}

// Validate checks every workload and returns all problems at once.
func (m Manifest) Validate() error {
	var errs []error
	if len(m.Workloads) == 0 {
		errs = append(errs, errors.New("no workloads defined"))
	}
	seen := make(map[string]bool)
	for i, w := range m.Workloads {
		if w.Name == "" {
			errs = append(errs, fmt.Errorf("workload %d: name is required", i))
		} else if seen[w.Name] {
			errs = append(errs, fmt.Errorf("workload %s: duplicate name", w.Name))
		}
		seen[w.Name] = true
		if _, err := w.Args(); err != nil {
			errs = append(errs, err)
		}
		if w.Repeat < 0 {
			errs = append(errs, fmt.Errorf("workload %s: repeat must be >= 0, got %d", w.Name, w.Repeat))
		}
	}
	return errors.Join(errs...)
}
