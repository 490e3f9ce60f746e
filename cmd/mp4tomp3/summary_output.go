package main

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/aaronmeis/utility-mp4tomp3/internal/queue"
	"github.com/aaronmeis/utility-mp4tomp3/internal/workflow"
)

func printRunSummary(out io.Writer, summary *workflow.RunSummary) {
	if summary.Discovered == 0 {
		fmt.Fprintf(out, "No videos found in %s\n", summary.InputDir)
		return
	}

	rows := make([]table.Row, 0, len(summary.Outcomes))
	for i, outcome := range summary.Outcomes {
		rows = append(rows, table.Row{
			i + 1,
			filepath.Base(outcome.Source),
			outcomeResult(outcome),
			outcomeDetail(outcome),
		})
	}
	fmt.Fprintln(out, renderTable(table.Row{"#", "Source", "Result", "Detail"}, rows, 1))
	fmt.Fprintf(out, "Converted %d of %d (%d named, %d defaulted), skipped %d, failed %d in %s\n",
		summary.Converted, summary.Discovered, summary.Named, summary.Defaulted,
		summary.Skipped, summary.Failed, formatRunDuration(summary.Duration()))
}

func outcomeResult(outcome workflow.Outcome) string {
	switch outcome.Status {
	case queue.StatusRenamed:
		return "converted"
	case queue.StatusSkipped:
		return "skipped"
	default:
		if outcome.Stage != "" {
			return "failed: " + outcome.Stage
		}
		return "failed"
	}
}

func outcomeDetail(outcome workflow.Outcome) string {
	switch outcome.Status {
	case queue.StatusRenamed:
		detail := filepath.Base(outcome.FinalPath)
		if outcome.Bytes > 0 {
			detail += " (" + humanize.Bytes(uint64(outcome.Bytes)) + ")"
		}
		return detail
	case queue.StatusSkipped:
		if outcome.FinalPath != "" {
			return "already converted to " + filepath.Base(outcome.FinalPath)
		}
		return "already converted"
	default:
		return outcome.Err
	}
}

func formatRunDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	return d.Round(time.Second).String()
}
