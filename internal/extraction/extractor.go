// Package extraction converts discovered videos into staging MP3 files.
package extraction

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"log/slog"

	"github.com/dustin/go-humanize"

	"github.com/aaronmeis/utility-mp4tomp3/internal/config"
	"github.com/aaronmeis/utility-mp4tomp3/internal/logging"
	"github.com/aaronmeis/utility-mp4tomp3/internal/queue"
	"github.com/aaronmeis/utility-mp4tomp3/internal/services"
	"github.com/aaronmeis/utility-mp4tomp3/internal/services/ffmpeg"
	"github.com/aaronmeis/utility-mp4tomp3/internal/stage"
)

// Extractor is the first pipeline stage: it strips the video stream from a
// source file and writes the audio as a run-scoped MP3 in the staging
// directory.
type Extractor struct {
	store   *queue.Store
	cfg     *config.Config
	logger  *slog.Logger
	service *ffmpeg.Service
}

// NewExtractor constructs the extraction stage handler using default dependencies.
func NewExtractor(cfg *config.Config, store *queue.Store, logger *slog.Logger) *Extractor {
	svc := ffmpeg.NewService(ffmpeg.Config{
		Binary:     cfg.FFmpegBinary(),
		Bitrate:    cfg.Extraction.AudioBitrate,
		SampleRate: cfg.Extraction.SampleRate,
	})
	return NewExtractorWithService(cfg, store, logger, svc)
}

// NewExtractorWithService allows injecting the ffmpeg service (used in tests).
func NewExtractorWithService(cfg *config.Config, store *queue.Store, logger *slog.Logger, svc *ffmpeg.Service) *Extractor {
	return &Extractor{
		store:   store,
		cfg:     cfg,
		logger:  logging.NewComponentLogger(logger, "extractor"),
		service: svc,
	}
}

// Prepare validates the source video and allocates the staging audio path.
func (e *Extractor) Prepare(ctx context.Context, job *queue.Job) error {
	logger := logging.WithContext(ctx, e.logger)
	job.InitProgress("Extraction", "Preparing audio extraction")

	source := strings.TrimSpace(job.SourcePath)
	if source == "" {
		return services.Wrap(services.ErrExtraction, "extraction", "validate inputs", "Job has no source video path", nil)
	}
	if _, err := os.Stat(source); err != nil {
		return services.Wrap(services.ErrExtraction, "extraction", "validate inputs", "Source video is not readable", err)
	}

	job.TempAudioPath = job.StagingAudioPath(e.cfg.Paths.StagingDir)
	if job.TempAudioPath == "" {
		return services.Wrap(services.ErrExtraction, "extraction", "allocate staging path", "Staging directory not configured", nil)
	}

	logger.Info("starting audio extraction",
		logging.String("source", source),
		logging.String("staging_audio", job.TempAudioPath),
	)
	return nil
}

// Execute runs ffmpeg and records the staging MP3 on the job.
func (e *Extractor) Execute(ctx context.Context, job *queue.Job) error {
	logger := logging.WithContext(ctx, e.logger)

	runCtx := ctx
	if timeout := e.cfg.Extraction.TimeoutSeconds; timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, time.Duration(timeout)*time.Second)
		defer cancel()
	}

	started := time.Now()
	if err := e.service.Extract(runCtx, job.SourcePath, job.TempAudioPath); err != nil {
		return services.Wrap(services.ErrExtraction, "extraction", "extract audio", "ffmpeg failed to extract audio", err)
	}

	info, err := os.Stat(job.TempAudioPath)
	if err != nil {
		return services.Wrap(services.ErrExtraction, "extraction", "validate output", "Extracted audio file is missing", err)
	}
	if info.Size() == 0 {
		return services.Wrap(services.ErrExtraction, "extraction", "validate output", "Extracted audio file is empty", nil)
	}

	logger.Info("audio extraction completed",
		logging.String("staging_audio", job.TempAudioPath),
		logging.String("size", humanize.Bytes(uint64(info.Size()))),
		logging.Duration("elapsed", time.Since(started)),
	)
	job.SetProgressComplete("Extracted", fmt.Sprintf("Audio extracted: %s", filepath.Base(job.TempAudioPath)))
	return nil
}

// HealthCheck verifies extraction prerequisites.
func (e *Extractor) HealthCheck(ctx context.Context) stage.Health {
	const name = "extractor"
	if e.cfg == nil {
		return stage.Unhealthy(name, "configuration unavailable")
	}
	if strings.TrimSpace(e.cfg.Paths.StagingDir) == "" {
		return stage.Unhealthy(name, "staging directory not configured")
	}
	if e.service == nil {
		return stage.Unhealthy(name, "ffmpeg service unavailable")
	}
	binary := strings.TrimSpace(e.service.Binary())
	if binary == "" {
		return stage.Unhealthy(name, "ffmpeg binary not configured")
	}
	if _, err := exec.LookPath(binary); err != nil {
		return stage.Unhealthy(name, fmt.Sprintf("ffmpeg binary %q not found", binary))
	}
	return stage.Healthy(name)
}
