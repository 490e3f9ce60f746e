// Package staging sweeps leftover temp artifacts out of the staging
// directory. Every intermediate file the pipeline writes carries a
// run-scoped ".tmp" infix, so anything matching that pattern at run start
// was abandoned by an earlier run and is safe to remove.
package staging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/aaronmeis/utility-mp4tomp3/internal/logging"
	"github.com/aaronmeis/utility-mp4tomp3/internal/queue"
)

// CleanStaleResult contains the outcome of a stale artifact sweep.
type CleanStaleResult struct {
	Removed []string
	Errors  []CleanupError
}

// CleanupError pairs an artifact path with its removal error.
type CleanupError struct {
	Path  string
	Error error
}

// CleanStale removes abandoned temp artifacts from the staging directory.
// It returns the list of removed files and any errors encountered. A
// missing staging directory is not an error.
func CleanStale(stagingDir string, logger *slog.Logger) CleanStaleResult {
	result := CleanStaleResult{}

	stagingDir = strings.TrimSpace(stagingDir)
	if stagingDir == "" {
		return result
	}

	entries, err := os.ReadDir(stagingDir)
	if err != nil {
		if !os.IsNotExist(err) {
			result.Errors = append(result.Errors, CleanupError{Path: stagingDir, Error: err})
		}
		return result
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		matched, err := filepath.Match(queue.StaleArtifactPattern, entry.Name())
		if err != nil || !matched {
			continue
		}

		path := filepath.Join(stagingDir, entry.Name())
		if err := os.Remove(path); err != nil {
			result.Errors = append(result.Errors, CleanupError{Path: path, Error: err})
			if logger != nil {
				logger.Warn("failed to remove stale staging artifact",
					logging.String("path", path),
					logging.Error(err),
					logging.String(logging.FieldEventType, "staging_cleanup_failed"),
					logging.String(logging.FieldErrorHint, "check staging_dir permissions"),
					logging.String(logging.FieldImpact, "disk space not reclaimed"),
				)
			}
			continue
		}

		result.Removed = append(result.Removed, path)
		if logger != nil {
			logger.Info("removed stale staging artifact",
				logging.String("path", path),
				logging.String(logging.FieldEventType, "staging_cleanup"),
			)
		}
	}

	return result
}
