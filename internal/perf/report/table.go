package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/DjordjeVuckovic/story-perf/internal/perf/result"
)

// WriteTable prints the aggregates of the current run, and the per-interaction
// comparison against pinned when a baseline is given.
func WriteTable(w io.Writer, current, pinned *result.StoryResult) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	if current != nil {
		fmt.Fprintf(tw, "\n=== %s ===\n\n", current.StoryName)
		writeAggregateTable(tw, current)
	}
	if pinned != nil {
		writeComparisonTable(tw, current, pinned)
	}

	tw.Flush()
}

func writeAggregateTable(tw *tabwriter.Writer, r *result.StoryResult) {
	fmt.Fprintf(tw, "Results (%d copies × %d samples)\n\n", r.Copies, r.Samples)

	header := []string{"Interaction", "Mean", "Min", "Max", "Total", "Samples"}
	writeHeader(tw, header)

	for _, ir := range r.Interactions {
		a := ir.Aggregate
		row := []string{
			ir.Name,
			fmtMillis(a.Mean),
			fmtMillis(a.Min),
			fmtMillis(a.Max),
			fmtMillis(a.Total),
			fmt.Sprintf("%d", len(ir.Samples)),
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}

	fmt.Fprintln(tw)
}

func writeComparisonTable(tw *tabwriter.Writer, current, pinned *result.StoryResult) {
	fmt.Fprintf(tw, "Comparison with pinned %q\n\n", pinned.StoryName)

	header := []string{"Interaction", "Current", "Pinned", "Diff", "Change"}
	writeHeader(tw, header)

	for _, d := range result.Compare(current, pinned) {
		row := []string{d.Interaction, "-", "-", "-", "-"}
		if d.HasCurrent {
			row[1] = fmtMillis(d.Current)
		}
		if d.HasPinned {
			row[2] = fmtMillis(d.Pinned)
		}
		if d.HasCurrent && d.HasPinned {
			row[3] = fmt.Sprintf("%+.2fms", d.Diff)
			if d.Pinned != 0 {
				row[4] = fmt.Sprintf("%+.1f%%", d.Percent)
			}
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}

	fmt.Fprintln(tw)
}

func writeHeader(tw *tabwriter.Writer, header []string) {
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	sep := make([]string, len(header))
	for i := range sep {
		sep[i] = "---"
	}
	fmt.Fprintln(tw, strings.Join(sep, "\t"))
}

func fmtMillis(ms float64) string {
	if ms < 1 {
		return fmt.Sprintf("%.1fµs", ms*1000)
	}
	if ms < 1000 {
		return fmt.Sprintf("%.2fms", ms)
	}
	return fmt.Sprintf("%.2fs", ms/1000)
}
