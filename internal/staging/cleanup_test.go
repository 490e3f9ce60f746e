package staging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aaronmeis/utility-mp4tomp3/internal/logging"
)

func TestCleanStaleInvalidPaths(t *testing.T) {
	for _, dir := range []string{"", "   ", "/nonexistent/path/12345"} {
		result := CleanStale(dir, logging.NewNop())
		if len(result.Removed) != 0 || len(result.Errors) != 0 {
			t.Errorf("expected empty result for path %q", dir)
		}
	}
}

func TestCleanStaleRemovesAbandonedArtifacts(t *testing.T) {
	tmpDir := t.TempDir()

	stale := []string{
		"job-1.3f8a02c1.tmp.mp3",
		"job-1.3f8a02c1.tmp.wav",
		"job-2.local.tmp.txt",
	}
	for _, name := range stale {
		if err := os.WriteFile(filepath.Join(tmpDir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("create artifact: %v", err)
		}
	}

	keep := []string{"Sarah.mp3", "notes.txt"}
	for _, name := range keep {
		if err := os.WriteFile(filepath.Join(tmpDir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("create file: %v", err)
		}
	}

	result := CleanStale(tmpDir, logging.NewNop())

	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Removed) != len(stale) {
		t.Fatalf("removed %d artifacts, want %d: %v", len(result.Removed), len(stale), result.Removed)
	}

	for _, name := range stale {
		if _, err := os.Stat(filepath.Join(tmpDir, name)); !os.IsNotExist(err) {
			t.Errorf("artifact %s should have been removed", name)
		}
	}
	for _, name := range keep {
		if _, err := os.Stat(filepath.Join(tmpDir, name)); err != nil {
			t.Errorf("file %s should still exist: %v", name, err)
		}
	}
}

func TestCleanStaleIgnoresDirectories(t *testing.T) {
	tmpDir := t.TempDir()

	dir := filepath.Join(tmpDir, "job-9.local.tmp.d")
	if err := os.Mkdir(dir, 0o755); err != nil {
		t.Fatalf("create dir: %v", err)
	}

	result := CleanStale(tmpDir, logging.NewNop())

	if len(result.Removed) != 0 {
		t.Errorf("expected no removals for directories, got %d", len(result.Removed))
	}
	if _, err := os.Stat(dir); err != nil {
		t.Error("directory should not have been removed")
	}
}
