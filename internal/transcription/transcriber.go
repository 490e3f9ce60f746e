// Package transcription turns staging audio into transcript text via
// whisper.cpp.
package transcription

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"log/slog"

	"github.com/aaronmeis/utility-mp4tomp3/internal/config"
	"github.com/aaronmeis/utility-mp4tomp3/internal/logging"
	"github.com/aaronmeis/utility-mp4tomp3/internal/queue"
	"github.com/aaronmeis/utility-mp4tomp3/internal/services"
	"github.com/aaronmeis/utility-mp4tomp3/internal/services/whisper"
	"github.com/aaronmeis/utility-mp4tomp3/internal/stage"
	"github.com/aaronmeis/utility-mp4tomp3/internal/textutil"
)

// transcriptPreviewRunes bounds the transcript excerpt stored on the job for
// status output and run reports.
const transcriptPreviewRunes = 200

// Transcriber is the second pipeline stage: it feeds the staging MP3 through
// whisper.cpp and records the transcript location and a short preview.
type Transcriber struct {
	store   *queue.Store
	cfg     *config.Config
	logger  *slog.Logger
	service *whisper.Service
}

// NewTranscriber constructs the transcription stage handler using default dependencies.
func NewTranscriber(cfg *config.Config, store *queue.Store, logger *slog.Logger) *Transcriber {
	svc := whisper.NewService(whisper.Config{
		Binary:       cfg.WhisperBinary(),
		FFmpegBinary: cfg.FFmpegBinary(),
		ModelPath:    whisper.ModelPath(cfg.Paths.ModelCacheDir, cfg.Transcription.ModelSize),
		Language:     cfg.Transcription.Language,
		Threads:      cfg.Transcription.Threads,
	})
	return NewTranscriberWithService(cfg, store, logger, svc)
}

// NewTranscriberWithService allows injecting the whisper service (used in tests).
func NewTranscriberWithService(cfg *config.Config, store *queue.Store, logger *slog.Logger, svc *whisper.Service) *Transcriber {
	return &Transcriber{
		store:   store,
		cfg:     cfg,
		logger:  logging.NewComponentLogger(logger, "transcriber"),
		service: svc,
	}
}

// Prepare validates that extraction left a staging audio file.
func (t *Transcriber) Prepare(ctx context.Context, job *queue.Job) error {
	logger := logging.WithContext(ctx, t.logger)
	job.InitProgress("Transcription", "Preparing speech transcription")

	audioPath := strings.TrimSpace(job.TempAudioPath)
	if audioPath == "" {
		return services.Wrap(services.ErrTranscription, "transcription", "validate inputs", "Job has no staging audio path", nil)
	}
	if _, err := os.Stat(audioPath); err != nil {
		return services.Wrap(services.ErrTranscription, "transcription", "validate inputs", "Staging audio file is missing", err)
	}

	logger.Info("starting transcription",
		logging.String("staging_audio", audioPath),
		logging.String("model", t.service.ModelPath()),
	)
	return nil
}

// Execute runs whisper.cpp and records the transcript on the job.
func (t *Transcriber) Execute(ctx context.Context, job *queue.Job) error {
	logger := logging.WithContext(ctx, t.logger)

	runCtx := ctx
	if timeout := t.cfg.Transcription.TimeoutSeconds; timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, time.Duration(timeout)*time.Second)
		defer cancel()
	}

	started := time.Now()
	result, err := t.service.Transcribe(runCtx, job.TempAudioPath, t.cfg.Paths.StagingDir)
	if err != nil {
		return services.Wrap(services.ErrTranscription, "transcription", "transcribe audio", "Speech transcription failed", err)
	}

	job.TranscriptPath = result.TextPath
	job.TranscriptPreview = textutil.Preview(result.Text, transcriptPreviewRunes)

	logger.Info("transcription completed",
		logging.String("transcript", result.TextPath),
		logging.Int("transcript_chars", len(result.Text)),
		logging.Duration("elapsed", time.Since(started)),
	)
	job.SetProgressComplete("Transcribed", fmt.Sprintf("Transcript written: %s", filepath.Base(result.TextPath)))
	return nil
}

// HealthCheck verifies transcription prerequisites, including the model file.
func (t *Transcriber) HealthCheck(ctx context.Context) stage.Health {
	const name = "transcriber"
	if t.cfg == nil {
		return stage.Unhealthy(name, "configuration unavailable")
	}
	if t.service == nil {
		return stage.Unhealthy(name, "whisper service unavailable")
	}
	binary := strings.TrimSpace(t.service.Binary())
	if binary == "" {
		return stage.Unhealthy(name, "whisper binary not configured")
	}
	if _, err := exec.LookPath(binary); err != nil {
		return stage.Unhealthy(name, fmt.Sprintf("whisper binary %q not found", binary))
	}
	modelPath := strings.TrimSpace(t.service.ModelPath())
	if modelPath == "" {
		return stage.Unhealthy(name, "model path not configured")
	}
	info, err := os.Stat(modelPath)
	if err != nil {
		return stage.Unhealthy(name, fmt.Sprintf("model file %q not found", modelPath))
	}
	if info.Size() == 0 {
		return stage.Unhealthy(name, fmt.Sprintf("model file %q is empty", modelPath))
	}
	return stage.Healthy(name)
}
