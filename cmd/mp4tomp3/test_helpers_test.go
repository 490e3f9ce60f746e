package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aaronmeis/utility-mp4tomp3/internal/config"
	"github.com/aaronmeis/utility-mp4tomp3/internal/testsupport"
)

type cliEnv struct {
	cfg        *config.Config
	configPath string
}

// newCLIEnv prepares a sandboxed config file, model placeholder, and stub
// conversion binaries so commands can run end to end.
func newCLIEnv(t *testing.T) cliEnv {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg := testsupport.NewConfig(t, testsupport.WithModelFile())
	testsupport.InstallConversionStubs(t)

	return cliEnv{cfg: cfg, configPath: writeTestConfig(t, cfg)}
}

func writeTestConfig(t *testing.T, cfg *config.Config) string {
	t.Helper()

	content := fmt.Sprintf(`[paths]
input_dir = %q
output_dir = %q
staging_dir = %q
log_dir = %q
model_cache_dir = %q
`,
		cfg.Paths.InputDir,
		cfg.Paths.OutputDir,
		cfg.Paths.StagingDir,
		cfg.Paths.LogDir,
		cfg.Paths.ModelCacheDir,
	)

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func writeSourceVideo(t *testing.T, cfg *config.Config, name, transcript string) {
	t.Helper()
	testsupport.WriteTranscript(t, filepath.Join(cfg.Paths.InputDir, name), transcript)
}

func runCLI(t *testing.T, configPath string, args ...string) (string, string, error) {
	t.Helper()

	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	cliArgs := args
	if configPath != "" {
		cliArgs = append([]string{"--config", configPath}, args...)
	}
	cmd.SetArgs(cliArgs)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected output to contain %q, got:\n%s", substr, output)
	}
}
