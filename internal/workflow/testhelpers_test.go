package workflow_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/aaronmeis/utility-mp4tomp3/internal/config"
	"github.com/aaronmeis/utility-mp4tomp3/internal/queue"
	"github.com/aaronmeis/utility-mp4tomp3/internal/stage"
	"github.com/aaronmeis/utility-mp4tomp3/internal/testsupport"
	"github.com/aaronmeis/utility-mp4tomp3/internal/workflow"
)

type stubNotifier struct {
	mu          sync.Mutex
	runStarts   int
	runComplete int
	jobFailures []string
	testCalls   int
}

func (s *stubNotifier) NotifyRunStarted(ctx context.Context, inputDir string, count int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runStarts++
	return nil
}

func (s *stubNotifier) NotifyRunCompleted(ctx context.Context, converted, skipped, failed int, duration time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runComplete++
	return nil
}

func (s *stubNotifier) NotifyJobFailed(ctx context.Context, source, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobFailures = append(s.jobFailures, source)
	return nil
}

func (s *stubNotifier) TestNotification(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.testCalls++
	return nil
}

func (s *stubNotifier) failureCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobFailures)
}

type stubHandler struct {
	name    string
	prepare func(ctx context.Context, job *queue.Job) error
	execute func(ctx context.Context, job *queue.Job) error
	health  *stage.Health
}

func (s *stubHandler) Prepare(ctx context.Context, job *queue.Job) error {
	if s.prepare != nil {
		return s.prepare(ctx, job)
	}
	return nil
}

func (s *stubHandler) Execute(ctx context.Context, job *queue.Job) error {
	if s.execute != nil {
		return s.execute(ctx, job)
	}
	return nil
}

func (s *stubHandler) HealthCheck(ctx context.Context) stage.Health {
	if s.health != nil {
		return *s.health
	}
	return stage.Healthy(s.name)
}

type stubSet struct {
	extractor   *stubHandler
	transcriber *stubHandler
	identifier  *stubHandler
	organizer   *stubHandler
}

func newStubSet() stubSet {
	return stubSet{
		extractor:   &stubHandler{name: "extractor"},
		transcriber: &stubHandler{name: "transcriber"},
		identifier:  &stubHandler{name: "identifier"},
		organizer:   &stubHandler{name: "organizer"},
	}
}

func (s stubSet) stageSet() workflow.StageSet {
	return workflow.StageSet{
		Extractor:   s.extractor,
		Transcriber: s.transcriber,
		Identifier:  s.identifier,
		Organizer:   s.organizer,
	}
}

// installPipelineStubs places fake ffmpeg and whisper-cli binaries on PATH
// so the real stage handlers run end to end against plain text fixtures.
func installPipelineStubs(t *testing.T) {
	t.Helper()
	testsupport.InstallConversionStubs(t)
}

func writeVideo(t *testing.T, cfg *config.Config, name, transcript string) string {
	t.Helper()
	path := filepath.Join(cfg.Paths.InputDir, name)
	if err := os.WriteFile(path, []byte(transcript), 0o644); err != nil {
		t.Fatalf("write video %s: %v", name, err)
	}
	return path
}
