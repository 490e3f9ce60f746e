package ffmpeg

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// Service invokes ffmpeg to strip video streams and encode MP3 audio.
type Service struct {
	cfg           Config
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// NewService creates an extraction service with the given configuration.
func NewService(cfg Config) *Service {
	return &Service{cfg: cfg.withDefaults()}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	s.commandRunner = runner
}

// Binary returns the resolved ffmpeg executable for logging and preflight.
func (s *Service) Binary() string {
	return s.cfg.Binary
}

// Extract converts the source video's audio track into an MP3 at dest.
// The destination directory must already exist; a partial file left behind
// by a failed invocation is removed before returning.
func (s *Service) Extract(ctx context.Context, source, dest string) error {
	if source == "" {
		return fmt.Errorf("extract: source path required")
	}
	if dest == "" {
		return fmt.Errorf("extract: destination path required")
	}
	if _, err := os.Stat(source); err != nil {
		return fmt.Errorf("extract: source unreadable: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("extract: ensure destination dir: %w", err)
	}

	args := buildExtractArgs(source, dest, s.cfg.Bitrate, s.cfg.SampleRate)
	if err := s.run(ctx, s.cfg.Binary, args...); err != nil {
		_ = os.Remove(dest)
		return fmt.Errorf("ffmpeg extract: %w", err)
	}
	return nil
}

// buildExtractArgs constructs the ffmpeg invocation: overwrite quietly, drop
// the video stream, and encode MP3 via libmp3lame.
func buildExtractArgs(source, dest, bitrate string, sampleRate int) []string {
	return []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", source,
		"-vn",
		"-acodec", "libmp3lame",
		"-ab", bitrate,
		"-ar", strconv.Itoa(sampleRate),
		dest,
	}
}

// run executes a command, using the custom runner if set.
func (s *Service) run(ctx context.Context, name string, args ...string) error {
	if s.commandRunner != nil {
		return s.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}
