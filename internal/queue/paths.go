package queue

import (
	"fmt"
	"path/filepath"
	"strings"
)

// tempInfix marks run-scoped staging artifacts. Stale-file sweeps match on
// it, so every intermediate written to the staging directory must carry it.
const tempInfix = ".tmp"

// TempArtifactBase returns the unique per-job base name for staging
// artifacts: "job-12.3f8a02c1.tmp". The job ID makes it unique across jobs,
// the run ID fragment across runs that reuse a cleared database.
func (j Job) TempArtifactBase() string {
	run := strings.TrimSpace(j.RunID)
	if idx := strings.IndexByte(run, '-'); idx > 0 {
		run = run[:idx]
	}
	if run == "" {
		run = "local"
	}
	return fmt.Sprintf("job-%d.%s%s", j.ID, run, tempInfix)
}

// StagingAudioPath returns the run-scoped temporary MP3 path for the job
// under the staging directory.
func (j Job) StagingAudioPath(stagingDir string) string {
	stagingDir = strings.TrimSpace(stagingDir)
	if stagingDir == "" {
		return ""
	}
	return filepath.Join(stagingDir, j.TempArtifactBase()+".mp3")
}

// StaleArtifactPattern is the glob that matches every staging artifact the
// workflow can leave behind: extracted audio, speech-model input, and
// transcript files all derive from TempArtifactBase.
const StaleArtifactPattern = "*" + tempInfix + ".*"
