package stdout

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/crimson-sun/vmbench/internal/model"
	"github.com/crimson-sun/vmbench/internal/output"
)

// Output writes analysis reports to stdout as text tables or JSON.
type Output struct {
	w      io.Writer
	format output.Format
	pretty bool
}

// New creates a stdout Output. pretty indents JSON and is ignored for text.
func New(format output.Format, pretty bool) *Output {
	return NewWriter(os.Stdout, format, pretty)
}

// NewWriter is New with an explicit destination.
func NewWriter(w io.Writer, format output.Format, pretty bool) *Output {
	return &Output{w: w, format: format, pretty: pretty}
}

func (o *Output) Write(_ context.Context, report model.Report) error {
	if o.format == output.Text {
		if err := output.WriteText(o.w, report); err != nil {
			return fmt.Errorf("stdout output: %w", err)
		}
		return nil
	}

	enc := json.NewEncoder(o.w)
	if o.pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("stdout output: %w", err)
	}
	return nil
}

func (o *Output) Close() error {
	return nil
}
