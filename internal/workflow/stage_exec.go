package workflow

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"log/slog"

	"github.com/aaronmeis/utility-mp4tomp3/internal/logging"
	"github.com/aaronmeis/utility-mp4tomp3/internal/queue"
	"github.com/aaronmeis/utility-mp4tomp3/internal/services"
	"github.com/aaronmeis/utility-mp4tomp3/internal/stage"
)

// StageSet bundles the concrete pipeline handlers the runner orchestrates.
type StageSet struct {
	Extractor   stage.Handler
	Transcriber stage.Handler
	Identifier  stage.Handler
	Organizer   stage.Handler
}

type pipelineStage struct {
	name             string
	handler          stage.Handler
	processingStatus queue.Status
	doneStatus       queue.Status
}

func (s StageSet) pipeline() []pipelineStage {
	return []pipelineStage{
		{name: "extraction", handler: s.Extractor, processingStatus: queue.StatusExtracting, doneStatus: queue.StatusExtracted},
		{name: "transcription", handler: s.Transcriber, processingStatus: queue.StatusTranscribing, doneStatus: queue.StatusTranscribed},
		{name: "naming", handler: s.Identifier, processingStatus: queue.StatusNaming, doneStatus: queue.StatusNamed},
		{name: "renaming", handler: s.Organizer, processingStatus: queue.StatusRenaming, doneStatus: queue.StatusRenamed},
	}
}

// executeStage advances the job through one pipeline stage: persist the
// processing status, Prepare, persist, Execute, then persist the done
// status. Failures are recorded on the job before the error is returned;
// interruption via the parent context is returned untouched so the caller
// can classify it.
func (r *Runner) executeStage(ctx context.Context, stg pipelineStage, job *queue.Job) error {
	stageCtx := services.WithStage(ctx, stg.name)
	stageLogger := logging.WithContext(stageCtx, r.logger)
	stageStart := time.Now()

	job.Status = stg.processingStatus
	job.ErrorMessage = ""
	if err := r.store.Update(stageCtx, job); err != nil {
		wrapped := fmt.Errorf("persist processing transition: %w", err)
		stageLogger.Error("failed to transition job to processing", logging.Error(wrapped))
		return wrapped
	}

	stageLogger.Info("stage started",
		logging.String(logging.FieldEventType, "stage_start"),
		logging.String("processing_status", string(stg.processingStatus)),
		logging.String("source_file", strings.TrimSpace(job.SourcePath)),
	)

	if stg.handler == nil {
		err := fmt.Errorf("stage %s has no handler", stg.name)
		r.handleStageFailure(stageCtx, stg, job, err)
		return err
	}

	if err := stg.handler.Prepare(stageCtx, job); err != nil {
		if stageCtx.Err() != nil {
			stageLogger.Debug("stage interrupted by shutdown")
			return err
		}
		r.handleStageFailure(stageCtx, stg, job, err)
		return err
	}
	if err := r.store.Update(stageCtx, job); err != nil {
		wrapped := fmt.Errorf("persist stage preparation: %w", err)
		stageLogger.Error("failed to persist stage preparation", logging.Error(wrapped))
		return wrapped
	}

	if err := stg.handler.Execute(stageCtx, job); err != nil {
		if stageCtx.Err() != nil {
			stageLogger.Debug("stage interrupted by shutdown")
			return err
		}
		r.handleStageFailure(stageCtx, stg, job, err)
		return err
	}

	job.Status = stg.doneStatus
	if err := r.store.Update(stageCtx, job); err != nil {
		wrapped := fmt.Errorf("persist stage result: %w", err)
		stageLogger.Error("failed to persist stage result", logging.Error(wrapped))
		return wrapped
	}

	stageLogger.Info("stage completed",
		logging.String(logging.FieldEventType, "stage_complete"),
		logging.String("next_status", string(job.Status)),
		logging.String("progress_message", strings.TrimSpace(job.ProgressMessage)),
		logging.Duration("stage_duration", time.Since(stageStart)),
	)
	return nil
}

// handleStageFailure classifies the stage error, marks the job failed with a
// concise operator-facing message, persists it, and fires the failure
// notification.
func (r *Runner) handleStageFailure(ctx context.Context, stg pipelineStage, job *queue.Job, stageErr error) {
	logger := logging.WithContext(ctx, r.logger)

	detail := services.Details(stageErr)
	message := strings.TrimSpace(detail.Message)
	if message == "" && stageErr != nil {
		message = strings.TrimSpace(stageErr.Error())
	}
	if message == "" {
		message = fmt.Sprintf("%s failed", stg.name)
	}
	if detail.Code != "" && detail.Code != "failure" {
		message = fmt.Sprintf("[%s] %s", detail.Code, message)
	}

	job.SetFailed(message)

	attrs := []logging.Attr{
		logging.String("error_message", message),
		logging.String("error_code", detail.Code),
		logging.Error(stageErr),
		logging.String(logging.FieldEventType, "stage_failure"),
	}
	if detail.Hint != "" {
		attrs = append(attrs, logging.String(logging.FieldErrorHint, detail.Hint))
	}
	logger.Error("stage failed", logging.Args(attrs...)...)

	if err := r.store.Update(ctx, job); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Debug("run interrupted, could not persist stage failure")
		} else {
			logger.Error("failed to persist stage failure", logging.Error(err))
		}
	}

	r.notifyJobFailed(ctx, logger, job)
}

func (r *Runner) notifyJobFailed(ctx context.Context, logger *slog.Logger, job *queue.Job) {
	if r.notifier == nil {
		return
	}
	if err := r.notifier.NotifyJobFailed(ctx, filepath.Base(job.SourcePath), job.ErrorMessage); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Debug("run interrupted, could not send failure notification")
		} else {
			logger.Debug("job failure notification failed", logging.Error(err))
		}
	}
}
