package output

import (
	"context"

	"github.com/crimson-sun/vmbench/internal/model"
)

// Output defines the interface for analysis report destinations.
type Output interface {
	Write(ctx context.Context, report model.Report) error
	Close() error
}
