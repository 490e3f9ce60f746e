package queue_test

import (
	"path/filepath"
	"testing"

	"github.com/aaronmeis/utility-mp4tomp3/internal/queue"
)

func TestParseStatus(t *testing.T) {
	cases := []struct {
		input  string
		want   queue.Status
		wantOK bool
	}{
		{input: "pending", want: queue.StatusPending, wantOK: true},
		{input: " Renamed ", want: queue.StatusRenamed, wantOK: true},
		{input: "TRANSCRIBING", want: queue.StatusTranscribing, wantOK: true},
		{input: "", wantOK: false},
		{input: "bogus", wantOK: false},
	}
	for _, tc := range cases {
		got, ok := queue.ParseStatus(tc.input)
		if ok != tc.wantOK {
			t.Fatalf("ParseStatus(%q) ok = %v, want %v", tc.input, ok, tc.wantOK)
		}
		if ok && got != tc.want {
			t.Fatalf("ParseStatus(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestInitProgressPreservesExistingStage(t *testing.T) {
	job := &queue.Job{ProgressStage: "Extraction", ErrorMessage: "old failure"}
	job.InitProgress("Transcription", "Starting speech model")
	if job.ProgressStage != "Extraction" {
		t.Fatalf("ProgressStage = %q, want preserved Extraction", job.ProgressStage)
	}
	if job.ProgressMessage != "Starting speech model" || job.ProgressPercent != 0 {
		t.Fatalf("progress not reset: %+v", job)
	}
	if job.ErrorMessage != "" {
		t.Fatalf("ErrorMessage not cleared: %q", job.ErrorMessage)
	}

	fresh := &queue.Job{}
	fresh.InitProgress("Extraction", "Extracting audio")
	if fresh.ProgressStage != "Extraction" {
		t.Fatalf("fresh ProgressStage = %q, want Extraction", fresh.ProgressStage)
	}
}

func TestSetFailed(t *testing.T) {
	job := &queue.Job{Status: queue.StatusTranscribing, ProgressPercent: 40}
	job.SetFailed("[transcription] whisper-cli exited 1")
	if job.Status != queue.StatusFailed {
		t.Fatalf("Status = %q, want %q", job.Status, queue.StatusFailed)
	}
	if job.ErrorMessage != "[transcription] whisper-cli exited 1" {
		t.Fatalf("ErrorMessage = %q", job.ErrorMessage)
	}
	if job.ProgressStage != "Failed" || job.ProgressPercent != 0 {
		t.Fatalf("progress fields = %+v", job)
	}
	if !job.Done() {
		t.Fatal("failed job not terminal")
	}
}

func TestSetSkipped(t *testing.T) {
	job := &queue.Job{Status: queue.StatusPending, ErrorMessage: "stale"}
	job.SetSkipped("Already converted to /output/Sarah.mp3")
	if job.Status != queue.StatusSkipped {
		t.Fatalf("Status = %q, want %q", job.Status, queue.StatusSkipped)
	}
	if job.ErrorMessage != "" {
		t.Fatalf("ErrorMessage = %q, want empty", job.ErrorMessage)
	}
	if job.ProgressStage != "Skipped" || job.ProgressPercent != 100 {
		t.Fatalf("progress fields = %+v", job)
	}
	if !job.Done() {
		t.Fatal("skipped job not terminal")
	}
}

func TestProcessingAndTerminalSets(t *testing.T) {
	processing := []queue.Status{queue.StatusExtracting, queue.StatusTranscribing, queue.StatusNaming, queue.StatusRenaming}
	for _, status := range processing {
		if !queue.IsProcessingStatus(status) {
			t.Fatalf("IsProcessingStatus(%q) = false, want true", status)
		}
	}
	idle := []queue.Status{queue.StatusPending, queue.StatusExtracted, queue.StatusTranscribed, queue.StatusNamed, queue.StatusRenamed, queue.StatusSkipped, queue.StatusFailed}
	for _, status := range idle {
		if queue.IsProcessingStatus(status) {
			t.Fatalf("IsProcessingStatus(%q) = true, want false", status)
		}
	}

	if (queue.Job{Status: queue.StatusNamed}).Done() {
		t.Fatal("named job reported terminal")
	}
	if !(queue.Job{Status: queue.StatusRenamed}).Done() {
		t.Fatal("renamed job not terminal")
	}
}

func TestTempArtifactNaming(t *testing.T) {
	job := queue.Job{ID: 12, RunID: "3f8a02c1-9d24-4f31-8a77-0bd9c0ffee00"}
	base := job.TempArtifactBase()
	if base != "job-12.3f8a02c1.tmp" {
		t.Fatalf("TempArtifactBase = %q", base)
	}

	audio := job.StagingAudioPath("/staging")
	if audio != filepath.Join("/staging", "job-12.3f8a02c1.tmp.mp3") {
		t.Fatalf("StagingAudioPath = %q", audio)
	}

	for _, name := range []string{base + ".mp3", base + ".wav", base + ".txt"} {
		match, err := filepath.Match(queue.StaleArtifactPattern, name)
		if err != nil {
			t.Fatalf("Match failed: %v", err)
		}
		if !match {
			t.Fatalf("pattern %q did not match artifact %q", queue.StaleArtifactPattern, name)
		}
	}
	match, err := filepath.Match(queue.StaleArtifactPattern, "Sarah.mp3")
	if err != nil {
		t.Fatalf("Match failed: %v", err)
	}
	if match {
		t.Fatal("pattern matched a final artifact name")
	}

	noRun := queue.Job{ID: 3}
	if got := noRun.TempArtifactBase(); got != "job-3.local.tmp" {
		t.Fatalf("TempArtifactBase without run = %q", got)
	}
}
