package workflow

import (
	"time"

	"github.com/aaronmeis/utility-mp4tomp3/internal/queue"
)

// Outcome records the result of a single conversion job.
type Outcome struct {
	JobID        int64
	Source       string
	Title        string
	Status       queue.Status
	DetectedName string
	PatternID    string
	FinalPath    string
	Bytes        int64
	Stage        string
	Err          string
	Duration     time.Duration
}

// RunSummary aggregates the results of one batch run.
type RunSummary struct {
	RunID      string
	InputDir   string
	StartedAt  time.Time
	FinishedAt time.Time
	Discovered int
	Converted  int
	Named      int
	Defaulted  int
	Skipped    int
	Failed     int
	Outcomes   []Outcome
}

func (s *RunSummary) record(outcome Outcome) {
	s.Outcomes = append(s.Outcomes, outcome)
	switch outcome.Status {
	case queue.StatusRenamed:
		s.Converted++
		if outcome.DetectedName != "" {
			s.Named++
		} else {
			s.Defaulted++
		}
	case queue.StatusSkipped:
		s.Skipped++
	default:
		s.Failed++
	}
}

// Duration returns the wall-clock duration of the run.
func (s *RunSummary) Duration() time.Duration {
	if s.StartedAt.IsZero() || s.FinishedAt.IsZero() {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}
