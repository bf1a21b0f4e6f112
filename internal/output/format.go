package output

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"github.com/crimson-sun/vmbench/internal/model"
)

// Format selects how a report is rendered on the console.
type Format string

const (
	Text Format = "text"
	JSON Format = "json"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case Text, JSON:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text or json)", s)
	}
}

// WriteText renders the records, the per-environment statistics and the
// comparison as aligned tables.
func WriteText(w io.Writer, r model.Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "Loaded data:")
	fmt.Fprintln(tw, "FILE\tEXECUTION_TIME\tENVIRONMENT\tMETHOD")
	for _, rec := range r.Records {
		fmt.Fprintf(tw, "%s\t%.6f\t%s\t%s\n", rec.File, rec.Seconds, rec.Environment, rec.Method)
	}
	if len(r.Dropped) > 0 {
		fmt.Fprintf(tw, "\nDropped %d rows without a valid execution time:\n", len(r.Dropped))
		for _, rec := range r.Dropped {
			fmt.Fprintf(tw, "%s\t%s\n", rec.File, rec.Environment)
		}
	}

	fmt.Fprintln(tw, "\nExecution time statistics by environment:")
	fmt.Fprintln(tw, "ENVIRONMENT\tCOUNT\tMEAN\tSTD\tMIN\t25%\t50%\t75%\tMAX")
	for _, s := range r.Summaries {
		fmt.Fprintf(tw, "%s\t%d\t%.6f\t%s\t%.6f\t%.6f\t%.6f\t%.6f\t%.6f\n",
			s.Environment, s.Count, s.Mean, spread(s), s.Min, s.Q25, s.Median, s.Q75, s.Max)
	}

	if c := r.Comparison; c != nil {
		fmt.Fprintf(tw, "\nPercentage difference: %.2f%% (%s is faster)\n", math.Abs(c.PercentDiff), c.Faster)
		fmt.Fprintf(tw, "Average time in Docker: %.4f seconds\n", c.DockerMean)
		fmt.Fprintf(tw, "Average time in VM: %.4f seconds\n", c.VMMean)
	}

	if len(r.Charts) > 0 {
		fmt.Fprintln(tw, "\nCharts:")
		for _, path := range r.Charts {
			fmt.Fprintf(tw, "  %s\n", path)
		}
	}
	return tw.Flush()
}

// spread prints the sample standard deviation, which is undefined below two values.
func spread(s model.Summary) string {
	if s.Count < 2 {
		return "-"
	}
	return fmt.Sprintf("%.6f", s.Std)
}
