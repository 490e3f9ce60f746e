package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aaronmeis/utility-mp4tomp3/internal/config"
	"github.com/aaronmeis/utility-mp4tomp3/internal/preflight"
	"github.com/aaronmeis/utility-mp4tomp3/internal/queue"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show environment and ledger health",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *queue.Store) error {
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)

				lines := renderSectionHeader("Configuration", colorize)
				lines = append(lines, renderStatusLine("Config", statusInfo, ctx.configSource(), colorize))

				lines = append(lines, "")
				lines = append(lines, renderSectionHeader("Dependencies", colorize)...)
				for _, status := range preflight.CheckSystemDeps(cmd.Context(), cfg) {
					kind := statusOK
					if !status.Available {
						kind = statusError
						if status.Optional {
							kind = statusWarn
						}
					}
					lines = append(lines, renderStatusLine(status.Name, kind, status.Detail, colorize))
				}

				lines = append(lines, "")
				lines = append(lines, renderSectionHeader("Environment", colorize)...)
				for _, result := range preflight.RunAll(cmd.Context(), cfg) {
					kind := statusOK
					if !result.Passed {
						kind = statusError
					}
					lines = append(lines, renderStatusLine(result.Name, kind, result.Detail, colorize))
				}

				lines = append(lines, "")
				lines = append(lines, renderSectionHeader("Job Ledger", colorize)...)
				lines = append(lines, ledgerStatusLine(cmd, store, colorize))

				for _, line := range lines {
					fmt.Fprintln(out, line)
				}
				return nil
			})
		},
	}
}

func ledgerStatusLine(cmd *cobra.Command, store *queue.Store, colorize bool) string {
	health, err := store.Health(cmd.Context())
	if err != nil {
		return renderStatusLine("Ledger", statusError, err.Error(), colorize)
	}
	detail := fmt.Sprintf("%d jobs (%d completed, %d skipped, %d failed)",
		health.Total, health.Completed, health.Skipped, health.Failed)
	kind := statusOK
	if health.Processing > 0 {
		kind = statusWarn
		detail += fmt.Sprintf(", %d stuck in processing", health.Processing)
	}
	return renderStatusLine("Ledger", kind, detail, colorize)
}
