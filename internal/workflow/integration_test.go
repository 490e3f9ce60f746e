package workflow_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aaronmeis/utility-mp4tomp3/internal/config"
	"github.com/aaronmeis/utility-mp4tomp3/internal/extraction"
	"github.com/aaronmeis/utility-mp4tomp3/internal/identification"
	"github.com/aaronmeis/utility-mp4tomp3/internal/logging"
	"github.com/aaronmeis/utility-mp4tomp3/internal/organizer"
	"github.com/aaronmeis/utility-mp4tomp3/internal/queue"
	"github.com/aaronmeis/utility-mp4tomp3/internal/testsupport"
	"github.com/aaronmeis/utility-mp4tomp3/internal/transcription"
	"github.com/aaronmeis/utility-mp4tomp3/internal/workflow"
)

func realStageSet(cfg *config.Config, store *queue.Store) workflow.StageSet {
	logger := logging.NewNop()
	return workflow.StageSet{
		Extractor:   extraction.NewExtractor(cfg, store, logger),
		Transcriber: transcription.NewTranscriber(cfg, store, logger),
		Identifier:  identification.NewIdentifier(cfg, store, logger),
		Organizer:   organizer.NewOrganizer(cfg, store, logger),
	}
}

func TestRunConvertsBatchEndToEnd(t *testing.T) {
	installPipelineStubs(t)
	cfg := testsupport.NewConfig(t, testsupport.WithModelFile())
	store := testsupport.MustOpenStore(t, cfg)

	writeVideo(t, cfg, "ambient.mp4", "Rain sounds for sleeping, eight hours.")
	writeVideo(t, cfg, "standup.mp4", "My name is Mike. Let's get started.")
	writeVideo(t, cfg, "team_call.mp4", "Hello everyone, I am Sarah and this is the quarterly review.")

	notifier := &stubNotifier{}
	runner := workflow.NewRunnerWithNotifier(cfg, store, logging.NewNop(), realStageSet(cfg, store), notifier)

	summary, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if summary.Discovered != 3 || summary.Converted != 3 || summary.Failed != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if summary.Named != 2 || summary.Defaulted != 1 {
		t.Fatalf("expected 2 named and 1 defaulted, got %+v", summary)
	}

	for _, name := range []string{"audio.mp3", "Mike.mp3", "Sarah.mp3"} {
		if _, err := os.Stat(filepath.Join(cfg.Paths.OutputDir, name)); err != nil {
			t.Errorf("missing output %s: %v", name, err)
		}
	}

	// The stub pipeline copies bytes through unchanged, so each output is
	// its source video's content.
	data, err := os.ReadFile(filepath.Join(cfg.Paths.OutputDir, "audio.mp3"))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(data), "Rain sounds") {
		t.Fatalf("audio.mp3 content mismatch: %q", data)
	}

	leftovers, err := filepath.Glob(filepath.Join(cfg.Paths.StagingDir, queue.StaleArtifactPattern))
	if err != nil {
		t.Fatalf("glob staging: %v", err)
	}
	if len(leftovers) != 0 {
		t.Fatalf("staging artifacts not cleaned up: %v", leftovers)
	}

	jobs, err := store.List(context.Background(), queue.StatusRenamed)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(jobs) != 3 {
		t.Fatalf("expected 3 renamed jobs, got %d", len(jobs))
	}
	byTitle := make(map[string]*queue.Job, len(jobs))
	for _, job := range jobs {
		byTitle[filepath.Base(job.SourcePath)] = job
		if job.TranscriptPreview == "" {
			t.Errorf("job %d has no transcript preview", job.ID)
		}
		if job.FinalBytes == 0 {
			t.Errorf("job %d has no recorded output size", job.ID)
		}
	}
	if job := byTitle["standup.mp4"]; job.DetectedName != "Mike" || job.PatternID != "my_name_is" {
		t.Fatalf("standup job mis-identified: %+v", job)
	}
	if job := byTitle["ambient.mp4"]; job.DetectedName != "" || job.FinalStem != "audio" {
		t.Fatalf("ambient job should default: %+v", job)
	}

	if notifier.runStarts != 1 || notifier.runComplete != 1 || notifier.failureCount() != 0 {
		t.Fatalf("unexpected notifications: starts=%d completes=%d failures=%d",
			notifier.runStarts, notifier.runComplete, notifier.failureCount())
	}
}

func TestRunSkipsPreviouslyConvertedSources(t *testing.T) {
	installPipelineStubs(t)
	cfg := testsupport.NewConfig(t, testsupport.WithModelFile())
	store := testsupport.MustOpenStore(t, cfg)
	writeVideo(t, cfg, "intro.mp4", "Hi, I am Sarah.")

	first := workflow.NewRunnerWithNotifier(cfg, store, logging.NewNop(), realStageSet(cfg, store), &stubNotifier{})
	summary, err := first.Run(context.Background())
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	if summary.Converted != 1 {
		t.Fatalf("unexpected first summary: %+v", summary)
	}

	second := workflow.NewRunnerWithNotifier(cfg, store, logging.NewNop(), realStageSet(cfg, store), &stubNotifier{})
	resummary, err := second.Run(context.Background())
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if resummary.Skipped != 1 || resummary.Converted != 0 {
		t.Fatalf("unexpected second summary: %+v", resummary)
	}

	entries, err := os.ReadDir(cfg.Paths.OutputDir)
	if err != nil {
		t.Fatalf("read output dir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "Sarah.mp3" {
		t.Fatalf("expected a single Sarah.mp3, got %v", entries)
	}

	skipped, err := store.List(context.Background(), queue.StatusSkipped)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(skipped) != 1 || !strings.Contains(skipped[0].ProgressMessage, "Already converted") {
		t.Fatalf("unexpected skipped jobs: %+v", skipped)
	}
}

func TestRunResolvesOutputNameCollisions(t *testing.T) {
	installPipelineStubs(t)
	cfg := testsupport.NewConfig(t, testsupport.WithModelFile())
	store := testsupport.MustOpenStore(t, cfg)

	writeVideo(t, cfg, "call_a.mp4", "I am Sarah, calling about the first issue.")
	writeVideo(t, cfg, "call_b.mp4", "I am Sarah, calling about the second issue.")

	runner := workflow.NewRunnerWithNotifier(cfg, store, logging.NewNop(), realStageSet(cfg, store), &stubNotifier{})
	summary, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if summary.Converted != 2 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	// call_a.mp4 processes first and claims the bare name.
	data, err := os.ReadFile(filepath.Join(cfg.Paths.OutputDir, "Sarah.mp3"))
	if err != nil {
		t.Fatalf("read Sarah.mp3: %v", err)
	}
	if !strings.Contains(string(data), "first issue") {
		t.Fatalf("Sarah.mp3 should come from call_a.mp4, got %q", data)
	}
	if _, err := os.Stat(filepath.Join(cfg.Paths.OutputDir, "Sarah_2.mp3")); err != nil {
		t.Fatalf("missing Sarah_2.mp3: %v", err)
	}
}
