package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aaronmeis/utility-mp4tomp3/internal/logging"
	"github.com/aaronmeis/utility-mp4tomp3/internal/preflight"
	"github.com/aaronmeis/utility-mp4tomp3/internal/services"
)

// healthGate validates environment readiness before any video is touched.
// It runs every stage handler's health check plus the preflight directory
// and model checks, and returns an error describing all failures at once.
func (r *Runner) healthGate(ctx context.Context, logger *slog.Logger) error {
	var failures []string

	for _, stg := range r.stages {
		if stg.handler == nil {
			failures = append(failures, fmt.Sprintf("%s: no handler configured", stg.name))
			continue
		}
		health := stg.handler.HealthCheck(ctx)
		if health.Ready {
			continue
		}
		logger.Error("stage health check failed",
			logging.String("stage", stg.name),
			logging.String("detail", health.Detail),
			logging.String(logging.FieldEventType, "health_check_failed"),
			logging.String(logging.FieldErrorHint, "fix the reported issue and run again"),
		)
		failures = append(failures, fmt.Sprintf("%s: %s", health.Name, health.Detail))
	}

	for _, result := range preflight.RunAll(ctx, r.cfg) {
		if result.Passed {
			logger.Info("preflight check passed",
				logging.String("check", result.Name),
				logging.String("detail", result.Detail),
				logging.String(logging.FieldEventType, "preflight_passed"),
			)
			continue
		}
		logger.Error("preflight check failed",
			logging.String("check", result.Name),
			logging.String("detail", result.Detail),
			logging.String(logging.FieldEventType, "preflight_failed"),
			logging.String(logging.FieldErrorHint, "fix the reported issue and run again"),
		)
		failures = append(failures, fmt.Sprintf("%s: %s", result.Name, result.Detail))
	}

	if len(failures) > 0 {
		return services.Wrap(services.ErrConfiguration, "preflight", "health gate",
			fmt.Sprintf("Environment not ready: %s", strings.Join(failures, "; ")), nil)
	}
	return nil
}
