package queue

import (
	"strings"
	"time"
)

// Status represents the lifecycle of a conversion job.
type Status string

const (
	StatusPending      Status = "pending"
	StatusExtracting   Status = "extracting"
	StatusExtracted    Status = "extracted"
	StatusTranscribing Status = "transcribing"
	StatusTranscribed  Status = "transcribed"
	StatusNaming       Status = "naming"
	StatusNamed        Status = "named"
	StatusRenaming     Status = "renaming"
	StatusRenamed      Status = "renamed"
	StatusSkipped      Status = "skipped"
	StatusFailed       Status = "failed"
)

// AbandonedReason is the error message set on processing jobs left behind by
// an earlier run that never finished.
const AbandonedReason = "Abandoned by a previous run"

// InterruptedReason is the error message set on the in-flight job when a run
// is cancelled.
const InterruptedReason = "Run interrupted before completion"

var allStatuses = []Status{
	StatusPending,
	StatusExtracting,
	StatusExtracted,
	StatusTranscribing,
	StatusTranscribed,
	StatusNaming,
	StatusNamed,
	StatusRenaming,
	StatusRenamed,
	StatusSkipped,
	StatusFailed,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

var processingStatuses = map[Status]struct{}{
	StatusExtracting:   {},
	StatusTranscribing: {},
	StatusNaming:       {},
	StatusRenaming:     {},
}

var terminalStatuses = map[Status]struct{}{
	StatusRenamed: {},
	StatusSkipped: {},
	StatusFailed:  {},
}

// DatabaseHealth captures diagnostic information about the job database.
type DatabaseHealth struct {
	DBPath           string
	DatabaseExists   bool
	DatabaseReadable bool
	SchemaVersion    int
	TableExists      bool
	ColumnsPresent   []string
	MissingColumns   []string
	IntegrityCheck   bool
	TotalJobs        int
	Error            string
}

// HealthSummary describes aggregated job counts per key lifecycle states.
type HealthSummary struct {
	Total      int
	Pending    int
	Processing int
	Completed  int
	Skipped    int
	Failed     int
}

// Job represents a single video conversion persisted in SQLite.
type Job struct {
	ID                int64
	RunID             string
	SourcePath        string
	DisplayTitle      string
	Status            Status
	TempAudioPath     string
	TranscriptPath    string
	TranscriptPreview string
	DetectedName      string
	PatternID         string
	FinalStem         string
	FinalPath         string
	FinalBytes        int64
	ErrorMessage      string
	ProgressStage     string
	ProgressPercent   float64
	ProgressMessage   string
	CreatedAt         time.Time
	UpdatedAt         time.Time
	CompletedAt       *time.Time
}

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// IsProcessing returns true when the status reflects an in-flight stage.
func (j Job) IsProcessing() bool {
	return IsProcessingStatus(j.Status)
}

// IsProcessingStatus reports whether a status reflects an in-flight stage.
func IsProcessingStatus(status Status) bool {
	_, ok := processingStatuses[status]
	return ok
}

// Done reports whether the job reached a terminal status.
func (j Job) Done() bool {
	_, ok := terminalStatuses[j.Status]
	return ok
}

// InitProgress resets progress fields for a new stage.
// If ProgressStage is currently empty, it is set to the provided stage value;
// otherwise the existing stage is preserved. ProgressMessage is set to
// message, ProgressPercent is reset to 0, and ErrorMessage is cleared.
func (j *Job) InitProgress(stage, message string) {
	if j.ProgressStage == "" {
		j.ProgressStage = stage
	}
	j.ProgressMessage = message
	j.ProgressPercent = 0
	j.ErrorMessage = ""
}

// SetProgress updates all three progress fields atomically.
// Use this instead of setting ProgressStage, ProgressPercent, and
// ProgressMessage individually.
func (j *Job) SetProgress(stage, message string, percent float64) {
	j.ProgressStage = stage
	j.ProgressMessage = message
	j.ProgressPercent = percent
}

// SetProgressComplete sets progress to 100% with the given stage and message.
// Convenience method for stage completion.
func (j *Job) SetProgressComplete(stage, message string) {
	j.SetProgress(stage, message, 100)
}

// SetFailed marks the job as failed with the given error message and sets
// progress fields appropriately.
func (j *Job) SetFailed(message string) {
	j.Status = StatusFailed
	j.ErrorMessage = message
	j.ProgressPercent = 0
	j.ProgressMessage = message
	j.ProgressStage = "Failed"
}

// SetSkipped marks the job as intentionally not processed, with the reason
// surfaced through the progress message.
func (j *Job) SetSkipped(reason string) {
	j.Status = StatusSkipped
	j.ErrorMessage = ""
	j.ProgressStage = "Skipped"
	j.ProgressMessage = reason
	j.ProgressPercent = 100
}
