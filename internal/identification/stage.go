package identification

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/aaronmeis/utility-mp4tomp3/internal/config"
	"github.com/aaronmeis/utility-mp4tomp3/internal/logging"
	"github.com/aaronmeis/utility-mp4tomp3/internal/queue"
	"github.com/aaronmeis/utility-mp4tomp3/internal/services"
	"github.com/aaronmeis/utility-mp4tomp3/internal/stage"
	"github.com/aaronmeis/utility-mp4tomp3/internal/textutil"
)

// Identifier is the naming stage: it reads the transcript produced by the
// transcription stage, extracts the speaker's first name, and records the
// sanitized output stem on the job. A transcript without an introduction is
// normal and resolves to the configured default stem.
type Identifier struct {
	store  *queue.Store
	cfg    *config.Config
	logger *slog.Logger
}

// NewIdentifier creates the naming stage handler.
func NewIdentifier(cfg *config.Config, store *queue.Store, logger *slog.Logger) *Identifier {
	return &Identifier{
		store:  store,
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "identifier"),
	}
}

// Prepare validates that the transcription stage left a readable transcript.
func (i *Identifier) Prepare(ctx context.Context, job *queue.Job) error {
	logger := logging.WithContext(ctx, i.logger)
	job.InitProgress("Naming", "Scanning transcript for speaker introduction")

	transcriptPath := strings.TrimSpace(job.TranscriptPath)
	if transcriptPath == "" {
		return services.Wrap(services.ErrFilesystem, "naming", "validate inputs", "Job has no transcript path", nil)
	}
	if _, err := os.Stat(transcriptPath); err != nil {
		return services.Wrap(services.ErrFilesystem, "naming", "validate inputs", "Transcript file is missing", err)
	}

	logger.Info("starting name detection", logging.String("transcript", transcriptPath))
	return nil
}

// Execute runs the pattern extractor over the transcript and records the
// final stem. The only failure mode is an unreadable transcript file.
func (i *Identifier) Execute(ctx context.Context, job *queue.Job) error {
	logger := logging.WithContext(ctx, i.logger)

	data, err := os.ReadFile(job.TranscriptPath)
	if err != nil {
		return services.Wrap(services.ErrFilesystem, "naming", "read transcript", "Failed to read transcript text", err)
	}

	fallback := i.cfg.Naming.DefaultStem
	candidate, ok := Extract(string(data))
	if ok {
		job.DetectedName = candidate.FirstToken
		job.PatternID = candidate.PatternID
		job.FinalStem = textutil.SanitizeStem(candidate.FirstToken, fallback)
		attrs := logging.DecisionAttrs("speaker_name", candidate.PatternID,
			fmt.Sprintf("matched %q", candidate.RawMatch))
		attrs = append(attrs,
			logging.String("detected_name", candidate.FirstToken),
			logging.String("final_stem", job.FinalStem),
		)
		logger.Info("speaker introduction detected", logging.Args(attrs...)...)
	} else {
		job.DetectedName = ""
		job.PatternID = ""
		job.FinalStem = textutil.SanitizeStem("", fallback)
		logger.Info("no speaker introduction detected",
			logging.Args(logging.DecisionAttrs("speaker_name", "default",
				"no pattern matched in transcript window")...)...)
	}

	job.SetProgressComplete("Named", fmt.Sprintf("Output stem: %s", job.FinalStem))
	return nil
}

// HealthCheck reports readiness. Name detection is pure computation, so the
// stage is ready whenever configuration is present.
func (i *Identifier) HealthCheck(ctx context.Context) stage.Health {
	const name = "identifier"
	if i.cfg == nil {
		return stage.Unhealthy(name, "configuration unavailable")
	}
	if strings.TrimSpace(i.cfg.Naming.DefaultStem) == "" {
		return stage.Unhealthy(name, "default stem not configured")
	}
	return stage.Healthy(name)
}
