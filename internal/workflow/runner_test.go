package workflow_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aaronmeis/utility-mp4tomp3/internal/logging"
	"github.com/aaronmeis/utility-mp4tomp3/internal/queue"
	"github.com/aaronmeis/utility-mp4tomp3/internal/services"
	"github.com/aaronmeis/utility-mp4tomp3/internal/stage"
	"github.com/aaronmeis/utility-mp4tomp3/internal/testsupport"
	"github.com/aaronmeis/utility-mp4tomp3/internal/workflow"
)

func TestRunZeroVideosSucceeds(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithModelFile())
	store := testsupport.MustOpenStore(t, cfg)

	notifier := &stubNotifier{}
	runner := workflow.NewRunnerWithNotifier(cfg, store, logging.NewNop(), newStubSet().stageSet(), notifier)

	summary, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if summary.Discovered != 0 || len(summary.Outcomes) != 0 {
		t.Fatalf("expected empty summary, got %+v", summary)
	}
	if notifier.runStarts != 0 || notifier.runComplete != 0 {
		t.Fatal("expected no notifications for an empty run")
	}
}

func TestRunContinuesAfterStageFailure(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithModelFile())
	store := testsupport.MustOpenStore(t, cfg)
	writeVideo(t, cfg, "bad.mp4", "x")
	writeVideo(t, cfg, "good.mp4", "x")

	set := newStubSet()
	set.extractor.execute = func(ctx context.Context, job *queue.Job) error {
		if strings.Contains(job.SourcePath, "bad") {
			return services.Wrap(services.ErrExtraction, "extraction", "extract audio", "Audio track unreadable", nil)
		}
		return nil
	}
	notifier := &stubNotifier{}
	runner := workflow.NewRunnerWithNotifier(cfg, store, logging.NewNop(), set.stageSet(), notifier)

	summary, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("per-job failures must not fail the run: %v", err)
	}
	if summary.Discovered != 2 || summary.Failed != 1 || summary.Converted != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	// bad.mp4 sorts before good.mp4, so it is processed first.
	first := summary.Outcomes[0]
	if first.Status != queue.StatusFailed || first.Stage != "extraction" {
		t.Fatalf("unexpected first outcome: %+v", first)
	}
	if !strings.HasPrefix(first.Err, "[extraction]") {
		t.Fatalf("failure message missing code prefix: %q", first.Err)
	}
	if summary.Outcomes[1].Status != queue.StatusRenamed {
		t.Fatalf("unexpected second outcome: %+v", summary.Outcomes[1])
	}

	if notifier.failureCount() != 1 {
		t.Fatalf("expected 1 failure notification, got %d", notifier.failureCount())
	}
	if notifier.runStarts != 1 || notifier.runComplete != 1 {
		t.Fatal("expected run start and completion notifications")
	}

	failed, err := store.List(context.Background(), queue.StatusFailed)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(failed) != 1 || !strings.HasPrefix(failed[0].ErrorMessage, "[extraction]") {
		t.Fatalf("unexpected failed jobs: %+v", failed)
	}
}

func TestRunProcessesVideosInOrder(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithModelFile())
	store := testsupport.MustOpenStore(t, cfg)
	writeVideo(t, cfg, "zebra.mp4", "x")
	writeVideo(t, cfg, "Alpha.mp4", "x")
	writeVideo(t, cfg, "middle.mp4", "x")

	var order []string
	set := newStubSet()
	set.extractor.execute = func(ctx context.Context, job *queue.Job) error {
		order = append(order, filepath.Base(job.SourcePath))
		return nil
	}
	runner := workflow.NewRunnerWithNotifier(cfg, store, logging.NewNop(), set.stageSet(), &stubNotifier{})

	if _, err := runner.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	want := []string{"Alpha.mp4", "middle.mp4", "zebra.mp4"}
	if len(order) != len(want) {
		t.Fatalf("processed %d videos, want %d", len(order), len(want))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("processing order = %v, want %v", order, want)
		}
	}
}

func TestRunSkipsConvertedSourceWithoutRunningStages(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithModelFile())
	store := testsupport.MustOpenStore(t, cfg)
	writeVideo(t, cfg, "intro.mp4", "x")

	finalPath := filepath.Join(cfg.Paths.OutputDir, "Sarah.mp3")
	if err := os.WriteFile(finalPath, []byte("mp3"), 0o644); err != nil {
		t.Fatalf("write prior output: %v", err)
	}
	prior := testsupport.NewJob(t, store, filepath.Join(cfg.Paths.InputDir, "intro.mp4"), "Intro", "run-old")
	prior.Status = queue.StatusRenamed
	prior.FinalPath = finalPath
	if err := store.Update(context.Background(), prior); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	var stageCalls int
	set := newStubSet()
	set.extractor.execute = func(ctx context.Context, job *queue.Job) error {
		stageCalls++
		return nil
	}
	set.transcriber.execute = func(ctx context.Context, job *queue.Job) error {
		stageCalls++
		return nil
	}
	runner := workflow.NewRunnerWithNotifier(cfg, store, logging.NewNop(), set.stageSet(), &stubNotifier{})

	summary, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if summary.Skipped != 1 || summary.Converted != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if stageCalls != 0 {
		t.Fatalf("expected no stage executions for a skipped job, got %d", stageCalls)
	}
	if summary.Outcomes[0].FinalPath != finalPath {
		t.Fatalf("skip outcome should carry the prior output, got %+v", summary.Outcomes[0])
	}
}

func TestRunHealthGateBlocksRun(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithModelFile())
	store := testsupport.MustOpenStore(t, cfg)
	writeVideo(t, cfg, "intro.mp4", "x")

	set := newStubSet()
	unhealthy := stage.Unhealthy("extractor", "ffmpeg not found")
	set.extractor.health = &unhealthy
	notifier := &stubNotifier{}
	runner := workflow.NewRunnerWithNotifier(cfg, store, logging.NewNop(), set.stageSet(), notifier)

	_, err := runner.Run(context.Background())
	if err == nil {
		t.Fatal("expected health gate to block the run")
	}
	if detail := services.Details(err); detail.Code != "configuration" {
		t.Fatalf("failure code = %q, want configuration", detail.Code)
	}
	if !strings.Contains(err.Error(), "ffmpeg not found") {
		t.Fatalf("gate error should carry the stage detail: %v", err)
	}

	jobs, listErr := store.List(context.Background())
	if listErr != nil {
		t.Fatalf("List failed: %v", listErr)
	}
	if len(jobs) != 0 {
		t.Fatalf("no jobs should be created on a blocked run, got %d", len(jobs))
	}
	if notifier.runStarts != 0 {
		t.Fatal("expected no start notification on a blocked run")
	}
}

func TestRunRejectsConcurrentRuns(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithModelFile())
	store := testsupport.MustOpenStore(t, cfg)
	writeVideo(t, cfg, "intro.mp4", "x")

	started := make(chan struct{})
	release := make(chan struct{})
	set := newStubSet()
	set.extractor.execute = func(ctx context.Context, job *queue.Job) error {
		close(started)
		<-release
		return nil
	}
	first := workflow.NewRunnerWithNotifier(cfg, store, logging.NewNop(), set.stageSet(), &stubNotifier{})

	done := make(chan error, 1)
	go func() {
		_, err := first.Run(context.Background())
		done <- err
	}()

	select {
	case <-started:
	case <-time.After(10 * time.Second):
		t.Fatal("first run never reached the extraction stage")
	}

	second := workflow.NewRunnerWithNotifier(cfg, store, logging.NewNop(), newStubSet().stageSet(), &stubNotifier{})
	if _, err := second.Run(context.Background()); err == nil {
		t.Fatal("expected the second run to fail while the lock is held")
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first run failed: %v", err)
	}
}

func TestRunInterruptedMarksJobFailed(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithModelFile())
	store := testsupport.MustOpenStore(t, cfg)
	writeVideo(t, cfg, "intro.mp4", "x")

	ctx, cancel := context.WithCancel(context.Background())
	set := newStubSet()
	set.transcriber.execute = func(ctx context.Context, job *queue.Job) error {
		cancel()
		<-ctx.Done()
		return ctx.Err()
	}
	runner := workflow.NewRunnerWithNotifier(cfg, store, logging.NewNop(), set.stageSet(), &stubNotifier{})

	summary, err := runner.Run(ctx)
	if err == nil {
		t.Fatal("expected Run to report the interruption")
	}
	if summary.Failed != 1 {
		t.Fatalf("expected 1 failed outcome, got %+v", summary)
	}
	if summary.Outcomes[0].Err != queue.InterruptedReason {
		t.Fatalf("outcome error = %q, want %q", summary.Outcomes[0].Err, queue.InterruptedReason)
	}

	jobs, listErr := store.List(context.Background(), queue.StatusFailed)
	if listErr != nil {
		t.Fatalf("List failed: %v", listErr)
	}
	if len(jobs) != 1 || jobs[0].ErrorMessage != queue.InterruptedReason {
		t.Fatalf("unexpected failed jobs: %+v", jobs)
	}
}

func TestRunRecoversAbandonedWork(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithModelFile())
	store := testsupport.MustOpenStore(t, cfg)

	abandoned := testsupport.NewJob(t, store, "/videos/crashed.mp4", "Crashed", "run-old")
	abandoned.Status = queue.StatusTranscribing
	if err := store.Update(context.Background(), abandoned); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	staleArtifact := filepath.Join(cfg.Paths.StagingDir, "job-99.dead.tmp.mp3")
	if err := os.WriteFile(staleArtifact, []byte("x"), 0o644); err != nil {
		t.Fatalf("write stale artifact: %v", err)
	}

	runner := workflow.NewRunnerWithNotifier(cfg, store, logging.NewNop(), newStubSet().stageSet(), &stubNotifier{})
	if _, err := runner.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	recovered, err := store.GetByID(context.Background(), abandoned.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if recovered.Status != queue.StatusFailed || recovered.ErrorMessage != queue.AbandonedReason {
		t.Fatalf("abandoned job not recovered: %+v", recovered)
	}
	if _, err := os.Stat(staleArtifact); !os.IsNotExist(err) {
		t.Fatal("stale staging artifact should have been removed")
	}
}
