package organizer_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aaronmeis/utility-mp4tomp3/internal/logging"
	"github.com/aaronmeis/utility-mp4tomp3/internal/organizer"
	"github.com/aaronmeis/utility-mp4tomp3/internal/services"
	"github.com/aaronmeis/utility-mp4tomp3/internal/testsupport"
)

func TestOrganizerMovesAudioToOutput(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	job := testsupport.NewJob(t, store, "/videos/intro.mp4", "Intro", "run-1")
	job.TempAudioPath = filepath.Join(cfg.Paths.StagingDir, "job-1.run.tmp.mp3")
	job.FinalStem = "Sarah"
	testsupport.WriteFile(t, job.TempAudioPath, 4096)

	handler := organizer.NewOrganizer(cfg, store, logging.NewNop())
	ctx := context.Background()
	if err := handler.Prepare(ctx, job); err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	if err := handler.Execute(ctx, job); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	want := filepath.Join(cfg.Paths.OutputDir, "Sarah.mp3")
	if job.FinalPath != want {
		t.Fatalf("FinalPath = %q, want %q", job.FinalPath, want)
	}
	if job.FinalBytes != 4096 {
		t.Fatalf("FinalBytes = %d, want 4096", job.FinalBytes)
	}
	if job.TempAudioPath != "" {
		t.Fatalf("TempAudioPath not cleared: %q", job.TempAudioPath)
	}
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("output file missing: %v", err)
	}
	if job.ProgressStage != "Renamed" || job.ProgressPercent != 100 {
		t.Fatalf("progress after Execute = %+v", job)
	}
}

func TestOrganizerResolvesCollisions(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	testsupport.WriteFile(t, filepath.Join(cfg.Paths.OutputDir, "Mike.mp3"), 10)
	testsupport.WriteFile(t, filepath.Join(cfg.Paths.OutputDir, "Mike_2.mp3"), 10)

	job := testsupport.NewJob(t, store, "/videos/mike.mp4", "Mike", "run-1")
	job.TempAudioPath = filepath.Join(cfg.Paths.StagingDir, "job-2.run.tmp.mp3")
	job.FinalStem = "Mike"
	testsupport.WriteFile(t, job.TempAudioPath, 100)

	handler := organizer.NewOrganizer(cfg, store, logging.NewNop())
	ctx := context.Background()
	if err := handler.Prepare(ctx, job); err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	if err := handler.Execute(ctx, job); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	want := filepath.Join(cfg.Paths.OutputDir, "Mike_3.mp3")
	if job.FinalPath != want {
		t.Fatalf("FinalPath = %q, want %q", job.FinalPath, want)
	}
}

func TestOrganizerRequiresStagingAudio(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	job := testsupport.NewJob(t, store, "/videos/intro.mp4", "Intro", "run-1")
	job.FinalStem = "Sarah"

	handler := organizer.NewOrganizer(cfg, store, logging.NewNop())
	err := handler.Prepare(context.Background(), job)
	if err == nil {
		t.Fatal("expected Prepare to fail without staging audio")
	}
	if detail := services.Details(err); detail.Code != "filesystem" {
		t.Fatalf("failure code = %q, want filesystem", detail.Code)
	}
}

func TestOrganizerRequiresFinalStem(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	job := testsupport.NewJob(t, store, "/videos/intro.mp4", "Intro", "run-1")
	job.TempAudioPath = filepath.Join(cfg.Paths.StagingDir, "job-3.run.tmp.mp3")
	testsupport.WriteFile(t, job.TempAudioPath, 64)

	handler := organizer.NewOrganizer(cfg, store, logging.NewNop())
	if err := handler.Prepare(context.Background(), job); err == nil {
		t.Fatal("expected Prepare to fail without final stem")
	}
}

func TestOrganizerHealthCheck(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	handler := organizer.NewOrganizer(cfg, store, logging.NewNop())
	if health := handler.HealthCheck(context.Background()); !health.Ready {
		t.Fatalf("HealthCheck not ready: %+v", health)
	}

	bare := *cfg
	bare.Paths.OutputDir = ""
	unready := organizer.NewOrganizer(&bare, store, logging.NewNop())
	if health := unready.HealthCheck(context.Background()); health.Ready {
		t.Fatal("HealthCheck ready without output directory")
	}
}
