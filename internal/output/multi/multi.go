package multi

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/crimson-sun/vmbench/internal/model"
	"github.com/crimson-sun/vmbench/internal/output"
)

// Multi delivers each report to several outputs at once, so a slow webhook
// does not hold up the console. A failing output does not affect the others.
type Multi struct {
	outputs []output.Output
}

// New creates a Multi over outputs.
func New(outputs ...output.Output) *Multi {
	return &Multi{outputs: outputs}
}

// Write delivers the report to every output concurrently and waits for all of
// them. Errors are joined in output order, each tagged with its position.
func (m *Multi) Write(ctx context.Context, report model.Report) error {
	errs := make([]error, len(m.outputs))
	var wg sync.WaitGroup
	for i, o := range m.outputs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := o.Write(ctx, report); err != nil {
				errs[i] = fmt.Errorf("output %d: %w", i, err)
			}
		}()
	}
	wg.Wait()
	return errors.Join(errs...)
}

// Close closes the outputs in reverse order of registration.
func (m *Multi) Close() error {
	var errs []error
	for i := len(m.outputs) - 1; i >= 0; i-- {
		if err := m.outputs[i].Close(); err != nil {
			errs = append(errs, fmt.Errorf("output %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}
