package main

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aaronmeis/utility-mp4tomp3/internal/config"
	"github.com/aaronmeis/utility-mp4tomp3/internal/extraction"
	"github.com/aaronmeis/utility-mp4tomp3/internal/identification"
	"github.com/aaronmeis/utility-mp4tomp3/internal/logging"
	"github.com/aaronmeis/utility-mp4tomp3/internal/organizer"
	"github.com/aaronmeis/utility-mp4tomp3/internal/queue"
	"github.com/aaronmeis/utility-mp4tomp3/internal/report"
	"github.com/aaronmeis/utility-mp4tomp3/internal/transcription"
	"github.com/aaronmeis/utility-mp4tomp3/internal/workflow"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Convert all videos in the input directory",
		Long: "Run scans the input directory, extracts audio from each video, " +
			"transcribes it, names the MP3 after the detected speaker, and moves " +
			"it into the output directory. Failed videos are reported and skipped; " +
			"the command only returns an error when the run itself cannot execute.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *queue.Store) error {
				logger, err := newRunLogger(cfg, verbose)
				if err != nil {
					return fmt.Errorf("init logger: %w", err)
				}

				logging.CleanupOldLogs(logger, cfg.Logging.RetentionDays, logging.RetentionTarget{
					Dir:     cfg.Paths.LogDir,
					Pattern: report.FilePattern,
				})

				set := workflow.StageSet{
					Extractor:   extraction.NewExtractor(cfg, store, logger),
					Transcriber: transcription.NewTranscriber(cfg, store, logger),
					Identifier:  identification.NewIdentifier(cfg, store, logger),
					Organizer:   organizer.NewOrganizer(cfg, store, logger),
				}
				runner := workflow.NewRunner(cfg, store, logger, set)

				summary, runErr := runner.Run(cmd.Context())
				if summary != nil {
					out := cmd.OutOrStdout()
					printRunSummary(out, summary)
					if path, reportErr := report.Write(cfg.Paths.LogDir, summary); reportErr != nil {
						fmt.Fprintf(out, "Failed to write run log: %v\n", reportErr)
					} else {
						fmt.Fprintf(out, "Run log: %s\n", path)
					}
				}
				return runErr
			})
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Stream structured logs to stdout during the run")
	return cmd
}

// newRunLogger writes structured logs to the application log file, and to
// stdout as well when verbose is set. The summary table stays readable
// either way.
func newRunLogger(cfg *config.Config, verbose bool) (*slog.Logger, error) {
	outputs := []string{filepath.Join(cfg.Paths.LogDir, logging.AppLogFileName)}
	if verbose {
		outputs = append(outputs, "stdout")
	}
	return logging.New(logging.Options{
		Level:            cfg.Logging.Level,
		Format:           cfg.Logging.Format,
		OutputPaths:      outputs,
		ErrorOutputPaths: outputs,
	})
}
