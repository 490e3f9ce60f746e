package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/aaronmeis/utility-mp4tomp3/internal/config"
	"github.com/aaronmeis/utility-mp4tomp3/internal/identification"
	"github.com/aaronmeis/utility-mp4tomp3/internal/logging"
	"github.com/aaronmeis/utility-mp4tomp3/internal/notifications"
	"github.com/aaronmeis/utility-mp4tomp3/internal/queue"
	"github.com/aaronmeis/utility-mp4tomp3/internal/scan"
	"github.com/aaronmeis/utility-mp4tomp3/internal/services"
	"github.com/aaronmeis/utility-mp4tomp3/internal/staging"
)

// Runner drives one batch conversion run: it discovers input videos and
// feeds each one through the pipeline stages in order, recording per-job
// outcomes along the way.
type Runner struct {
	cfg      *config.Config
	store    *queue.Store
	logger   *slog.Logger
	notifier notifications.Service
	stages   []pipelineStage

	lockPath string
	lock     *flock.Flock
}

// NewRunner constructs a batch runner with the default ntfy notifier.
func NewRunner(cfg *config.Config, store *queue.Store, logger *slog.Logger, set StageSet) *Runner {
	return NewRunnerWithNotifier(cfg, store, logger, set, notifications.NewService(cfg))
}

// NewRunnerWithNotifier constructs a batch runner with a custom notifier (used in tests).
func NewRunnerWithNotifier(cfg *config.Config, store *queue.Store, logger *slog.Logger, set StageSet, notifier notifications.Service) *Runner {
	if logger == nil {
		logger = logging.NewNop()
	}
	lockPath := filepath.Join(cfg.Paths.LogDir, "mp4tomp3.lock")
	return &Runner{
		cfg:      cfg,
		store:    store,
		logger:   logging.NewComponentLogger(logger, "workflow"),
		notifier: notifier,
		stages:   set.pipeline(),
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}
}

// Run executes one full batch: recovery, discovery, then sequential
// conversion of every video found in the input directory. A run with zero
// videos is a successful run. Per-job failures do not abort the batch; the
// returned error reports run-level problems only (lock contention, a failed
// health gate, an unreadable input directory, or interruption).
func (r *Runner) Run(ctx context.Context) (*RunSummary, error) {
	runID := uuid.NewString()
	ctx = services.WithRunID(ctx, runID)
	logger := logging.WithContext(ctx, r.logger)

	summary := &RunSummary{RunID: runID, InputDir: r.cfg.Paths.InputDir, StartedAt: time.Now()}

	ok, err := r.lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("another mp4tomp3 run is already in progress (lock %s)", r.lockPath)
	}
	defer func() {
		if err := r.lock.Unlock(); err != nil {
			logger.Warn("failed to release run lock", logging.Error(err))
		}
	}()

	if err := r.healthGate(ctx, logger); err != nil {
		return nil, err
	}

	r.recoverPreviousRun(ctx, logger)

	videos, err := scan.Discover(r.cfg.Paths.InputDir, r.cfg.Scan.VideoExtensions)
	if err != nil {
		return nil, services.Wrap(services.ErrFilesystem, "scan", "discover videos", "Failed to scan the input directory", err)
	}
	summary.Discovered = len(videos)

	logger.Info("run started",
		logging.String(logging.FieldEventType, "run_start"),
		logging.String("input_dir", r.cfg.Paths.InputDir),
		logging.Int("videos", len(videos)),
	)

	if len(videos) == 0 {
		summary.FinishedAt = time.Now()
		logger.Info("no videos found; nothing to do",
			logging.String(logging.FieldEventType, "run_complete"),
		)
		return summary, nil
	}

	r.notifyRunStarted(ctx, logger, len(videos))

	for _, source := range videos {
		if ctx.Err() != nil {
			break
		}
		summary.record(r.processVideo(ctx, logger, source, runID))
	}

	summary.FinishedAt = time.Now()

	if ctx.Err() != nil {
		logger.Warn("run interrupted",
			logging.String(logging.FieldEventType, "run_interrupted"),
			logging.Int("converted", summary.Converted),
			logging.Int("remaining", summary.Discovered-len(summary.Outcomes)),
		)
		return summary, ctx.Err()
	}

	r.notifyRunCompleted(ctx, logger, summary)
	logger.Info("run completed",
		logging.String(logging.FieldEventType, "run_complete"),
		logging.Int("discovered", summary.Discovered),
		logging.Int("converted", summary.Converted),
		logging.Int("named", summary.Named),
		logging.Int("defaulted", summary.Defaulted),
		logging.Int("skipped", summary.Skipped),
		logging.Int("failed", summary.Failed),
		logging.Duration("run_duration", summary.Duration()),
	)
	return summary, nil
}

// processVideo runs a single source file through the pipeline and returns
// its outcome. Stage failures mark the job failed and move on; they never
// propagate out of this method.
func (r *Runner) processVideo(ctx context.Context, logger *slog.Logger, source, runID string) Outcome {
	start := time.Now()
	title := identification.DisplayTitle(source)
	outcome := Outcome{Source: source, Title: title}

	job, err := r.store.NewJob(ctx, source, title, runID)
	if err != nil {
		logger.Error("failed to create queue job",
			logging.String("source_file", source),
			logging.Error(err),
			logging.String(logging.FieldEventType, "job_create_failed"),
			logging.String(logging.FieldErrorHint, "check queue database access"),
		)
		outcome.Status = queue.StatusFailed
		outcome.Err = fmt.Sprintf("create queue job: %v", err)
		outcome.Duration = time.Since(start)
		return outcome
	}
	outcome.JobID = job.ID

	jobCtx := services.WithJobID(ctx, job.ID)
	jobLogger := logging.WithContext(jobCtx, r.logger)
	defer r.cleanupArtifacts(job, jobLogger)

	if prior, converted := r.alreadyConverted(jobCtx, jobLogger, job); converted {
		job.SetSkipped(fmt.Sprintf("Already converted to %s", prior.FinalPath))
		if err := r.store.Update(jobCtx, job); err != nil {
			jobLogger.Warn("failed to persist skipped job", logging.Error(err))
		}
		jobLogger.Info("job skipped",
			logging.String(logging.FieldEventType, "job_skipped"),
			logging.String("final_path", prior.FinalPath),
		)
		outcome.Status = queue.StatusSkipped
		outcome.FinalPath = prior.FinalPath
		outcome.Duration = time.Since(start)
		return outcome
	}

	jobLogger.Info("job started",
		logging.String(logging.FieldEventType, "job_start"),
		logging.String("source_file", source),
		logging.String("title", title),
	)

	for _, stg := range r.stages {
		if err := r.executeStage(jobCtx, stg, job); err != nil {
			outcome.Stage = stg.name
			outcome.Status = queue.StatusFailed
			outcome.Duration = time.Since(start)
			if jobCtx.Err() != nil {
				r.failInterrupted(job, jobLogger)
				outcome.Err = queue.InterruptedReason
				return outcome
			}
			outcome.Err = job.ErrorMessage
			return outcome
		}
	}

	outcome.Status = queue.StatusRenamed
	outcome.DetectedName = job.DetectedName
	outcome.PatternID = job.PatternID
	outcome.FinalPath = job.FinalPath
	outcome.Bytes = job.FinalBytes
	outcome.Duration = time.Since(start)
	jobLogger.Info("job completed",
		logging.String(logging.FieldEventType, "job_complete"),
		logging.String("final_path", job.FinalPath),
		logging.Duration("job_duration", outcome.Duration),
	)
	return outcome
}

// alreadyConverted reports whether a prior run converted this source and the
// output file still exists. Lookup errors are logged and treated as not
// converted so a flaky read never skips real work.
func (r *Runner) alreadyConverted(ctx context.Context, logger *slog.Logger, job *queue.Job) (*queue.Job, bool) {
	prior, err := r.store.LastCompletedForSource(ctx, job.SourcePath)
	if err != nil {
		logger.Warn("failed to look up prior conversion",
			logging.Error(err),
			logging.String(logging.FieldEventType, "skip_check_failed"),
		)
		return nil, false
	}
	if prior == nil || strings.TrimSpace(prior.FinalPath) == "" {
		return nil, false
	}
	if _, err := os.Stat(prior.FinalPath); err != nil {
		return nil, false
	}
	return prior, true
}

// failInterrupted records an interruption on the in-flight job. The
// surrounding context is already canceled, so the persist uses a short
// detached context.
func (r *Runner) failInterrupted(job *queue.Job, logger *slog.Logger) {
	job.SetFailed(queue.InterruptedReason)
	persistCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.store.Update(persistCtx, job); err != nil {
		logger.Warn("failed to persist interrupted job", logging.Error(err))
	}
}

// recoverPreviousRun fails any jobs a crashed run left mid-pipeline and
// sweeps their staging artifacts.
func (r *Runner) recoverPreviousRun(ctx context.Context, logger *slog.Logger) {
	affected, err := r.store.FailAbandonedProcessing(ctx, queue.AbandonedReason)
	if err != nil {
		logger.Warn("failed to mark abandoned jobs",
			logging.Error(err),
			logging.String(logging.FieldEventType, "recovery_failed"),
			logging.String(logging.FieldErrorHint, "check queue database access"),
		)
	} else if affected > 0 {
		logger.Info("marked abandoned jobs as failed",
			logging.Int64("count", affected),
			logging.String(logging.FieldEventType, "recovery"),
		)
	}

	staging.CleanStale(r.cfg.Paths.StagingDir, logger)
}

// cleanupArtifacts removes every temp file the pipeline may have left for
// this job. Paths derive from the job identity, so cleanup works no matter
// which stage the job reached.
func (r *Runner) cleanupArtifacts(job *queue.Job, logger *slog.Logger) {
	base := filepath.Join(r.cfg.Paths.StagingDir, job.TempArtifactBase())
	for _, path := range []string{base + ".mp3", base + ".wav", base + ".txt"} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			logger.Warn("failed to remove temp artifact",
				logging.String("path", path),
				logging.Error(err),
				logging.String(logging.FieldEventType, "artifact_cleanup_failed"),
			)
		}
	}
}

func (r *Runner) notifyRunStarted(ctx context.Context, logger *slog.Logger, count int) {
	if r.notifier == nil {
		return
	}
	if err := r.notifier.NotifyRunStarted(ctx, r.cfg.Paths.InputDir, count); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Debug("run interrupted, could not send start notification")
		} else {
			logger.Debug("run start notification failed", logging.Error(err))
		}
	}
}

func (r *Runner) notifyRunCompleted(ctx context.Context, logger *slog.Logger, summary *RunSummary) {
	if r.notifier == nil {
		return
	}
	if err := r.notifier.NotifyRunCompleted(ctx, summary.Converted, summary.Skipped, summary.Failed, summary.Duration()); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Debug("run interrupted, could not send completion notification")
		} else {
			logger.Debug("run completion notification failed", logging.Error(err))
		}
	}
}
