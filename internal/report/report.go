// Package report renders a finished run as a plain-text log artifact under
// the configured log directory. One file is written per run, named after the
// run's start time so files sort chronologically, and old files are removed
// by the shared log retention sweep.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/aaronmeis/utility-mp4tomp3/internal/queue"
	"github.com/aaronmeis/utility-mp4tomp3/internal/workflow"
)

const timestampLayout = "20060102_150405"

// FilePattern matches run report files for retention pruning. It does not
// match the application log, which has no timestamp suffix.
const FilePattern = "mp4tomp3_*.log"

// FileName returns the report file name for a run started at the given time.
func FileName(startedAt time.Time) string {
	if startedAt.IsZero() {
		startedAt = time.Now()
	}
	return fmt.Sprintf("mp4tomp3_%s.log", startedAt.Format(timestampLayout))
}

// Write renders the summary into logDir and returns the path of the written
// file. The report is written even for runs that discovered no videos.
func Write(logDir string, summary *workflow.RunSummary) (string, error) {
	if summary == nil {
		return "", fmt.Errorf("write run report: nil summary")
	}
	dir := strings.TrimSpace(logDir)
	if dir == "" {
		return "", fmt.Errorf("write run report: log directory not configured")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("write run report: %w", err)
	}
	path := filepath.Join(dir, FileName(summary.StartedAt))
	if err := os.WriteFile(path, []byte(Render(summary)), 0o644); err != nil {
		return "", fmt.Errorf("write run report: %w", err)
	}
	return path, nil
}

// Render produces the report text: a header with run metadata, one line per
// job in processing order, and a footer with the final counters.
func Render(summary *workflow.RunSummary) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "mp4tomp3 run %s\n", summary.RunID)
	fmt.Fprintf(&sb, "input:      %s\n", summary.InputDir)
	fmt.Fprintf(&sb, "started:    %s\n", formatTime(summary.StartedAt))
	fmt.Fprintf(&sb, "finished:   %s\n", formatTime(summary.FinishedAt))
	fmt.Fprintf(&sb, "duration:   %s\n", formatDuration(summary.Duration()))
	fmt.Fprintf(&sb, "discovered: %d\n\n", summary.Discovered)

	total := len(summary.Outcomes)
	if total == 0 {
		sb.WriteString("no videos found\n")
	}
	for i, outcome := range summary.Outcomes {
		fmt.Fprintf(&sb, "[%d/%d] %s\n", i+1, total, describe(outcome))
	}

	fmt.Fprintf(&sb, "\nprocessed %d (named %d, defaulted %d), skipped %d, failed %d\n",
		summary.Converted, summary.Named, summary.Defaulted, summary.Skipped, summary.Failed)
	return sb.String()
}

func describe(outcome workflow.Outcome) string {
	source := filepath.Base(outcome.Source)
	switch outcome.Status {
	case queue.StatusRenamed:
		pattern := outcome.PatternID
		if pattern == "" {
			pattern = "default"
		}
		size := "0 B"
		if outcome.Bytes > 0 {
			size = humanize.Bytes(uint64(outcome.Bytes))
		}
		return fmt.Sprintf("%s -> %s (renamed; %s; %s)",
			source, filepath.Base(outcome.FinalPath), pattern, size)
	case queue.StatusSkipped:
		if outcome.FinalPath == "" {
			return fmt.Sprintf("%s skipped", source)
		}
		return fmt.Sprintf("%s skipped (already converted to %s)", source, outcome.FinalPath)
	default:
		if outcome.Stage != "" {
			return fmt.Sprintf("%s failed at %s: %s", source, outcome.Stage, outcome.Err)
		}
		return fmt.Sprintf("%s failed: %s", source, outcome.Err)
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04:05")
}

func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	return d.Round(time.Second).String()
}
