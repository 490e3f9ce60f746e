package organizer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"log/slog"

	"github.com/dustin/go-humanize"

	"github.com/aaronmeis/utility-mp4tomp3/internal/config"
	"github.com/aaronmeis/utility-mp4tomp3/internal/fileutil"
	"github.com/aaronmeis/utility-mp4tomp3/internal/logging"
	"github.com/aaronmeis/utility-mp4tomp3/internal/queue"
	"github.com/aaronmeis/utility-mp4tomp3/internal/services"
	"github.com/aaronmeis/utility-mp4tomp3/internal/stage"
)

// Organizer is the final pipeline stage: it moves the staging MP3 into the
// output directory under the name the naming stage chose, resolving
// collisions with a numeric suffix.
type Organizer struct {
	store  *queue.Store
	cfg    *config.Config
	logger *slog.Logger
}

// NewOrganizer constructs the rename stage handler.
func NewOrganizer(cfg *config.Config, store *queue.Store, logger *slog.Logger) *Organizer {
	return &Organizer{
		store:  store,
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "organizer"),
	}
}

// Prepare validates that earlier stages left a staging MP3 and a final stem.
func (o *Organizer) Prepare(ctx context.Context, job *queue.Job) error {
	logger := logging.WithContext(ctx, o.logger)
	job.InitProgress("Rename", "Preparing final rename")

	audioPath := strings.TrimSpace(job.TempAudioPath)
	if audioPath == "" {
		return services.Wrap(services.ErrFilesystem, "renaming", "validate inputs", "Job has no staging audio to rename", nil)
	}
	if _, err := os.Stat(audioPath); err != nil {
		return services.Wrap(services.ErrFilesystem, "renaming", "validate inputs", "Staging audio file is missing", err)
	}
	if strings.TrimSpace(job.FinalStem) == "" {
		return services.Wrap(services.ErrFilesystem, "renaming", "validate inputs", "Job has no final stem; naming did not run", nil)
	}

	logger.Info("starting final rename",
		logging.String("staging_audio", audioPath),
		logging.String("final_stem", job.FinalStem),
	)
	return nil
}

// Execute moves the staging audio to its collision-free final path.
func (o *Organizer) Execute(ctx context.Context, job *queue.Job) error {
	logger := logging.WithContext(ctx, o.logger)

	outputDir := strings.TrimSpace(o.cfg.Paths.OutputDir)
	if outputDir == "" {
		return services.Wrap(services.ErrConfiguration, "renaming", "resolve output dir", "Output directory not configured", nil)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return services.Wrap(services.ErrFilesystem, "renaming", "ensure output dir", "Failed to create output directory", err)
	}

	target, err := allocateFinalPath(outputDir, job.FinalStem, ".mp3")
	if err != nil {
		return services.Wrap(services.ErrFilesystem, "renaming", "allocate final name", "Unable to allocate an output filename", err)
	}
	if filepath.Base(target) != job.FinalStem+".mp3" {
		logger.Info("output name collision resolved",
			logging.String("stem", job.FinalStem),
			logging.String("final_name", filepath.Base(target)),
		)
	}

	if err := fileutil.MoveFile(job.TempAudioPath, target); err != nil {
		return services.Wrap(services.ErrFilesystem, "renaming", "move into output", "Failed to move audio into the output directory", err)
	}

	info, err := os.Stat(target)
	if err != nil {
		return services.Wrap(services.ErrFilesystem, "renaming", "validate output", "Renamed file is missing after move", err)
	}

	job.FinalPath = target
	job.FinalBytes = info.Size()
	job.TempAudioPath = ""

	logger.Info("final rename completed",
		logging.String("final_path", target),
		logging.String("size", humanize.Bytes(uint64(info.Size()))),
	)
	job.SetProgressComplete("Renamed", fmt.Sprintf("Saved as %s", filepath.Base(target)))
	return nil
}

// allocateFinalPath returns the first free path for stem in dir: the bare
// "<stem><ext>" when available, otherwise "<stem>_2<ext>", "<stem>_3<ext>",
// and so on. Allocation is stat-based; the workflow's sequential processing
// keeps it race-free within a run.
func allocateFinalPath(dir, stem, ext string) (string, error) {
	const maxAttempts = 10000
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		name := stem + ext
		if attempt > 1 {
			name = fmt.Sprintf("%s_%d%s", stem, attempt, ext)
		}
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return candidate, nil
			}
			return "", err
		}
	}
	return "", fmt.Errorf("exhausted output filename slots for %q in %s", stem, dir)
}

// HealthCheck verifies rename prerequisites.
func (o *Organizer) HealthCheck(ctx context.Context) stage.Health {
	const name = "organizer"
	if o.cfg == nil {
		return stage.Unhealthy(name, "configuration unavailable")
	}
	if strings.TrimSpace(o.cfg.Paths.OutputDir) == "" {
		return stage.Unhealthy(name, "output directory not configured")
	}
	return stage.Healthy(name)
}
