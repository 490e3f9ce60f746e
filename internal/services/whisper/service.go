package whisper

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// Service provides whisper.cpp transcription capabilities.
type Service struct {
	cfg           Config
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// NewService creates a transcription service with the given configuration.
func NewService(cfg Config) *Service {
	return &Service{cfg: cfg.withDefaults()}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	s.commandRunner = runner
}

// ModelPath returns the configured model file for logging and preflight.
func (s *Service) ModelPath() string {
	return s.cfg.ModelPath
}

// Binary returns the resolved whisper executable for preflight checks.
func (s *Service) Binary() string {
	return s.cfg.Binary
}

// Result contains the output of a transcription.
type Result struct {
	// Text is the plain transcript.
	Text string
	// TextPath is the transcript file whisper wrote; it lives in the work
	// directory and follows the source file's base name.
	TextPath string
}

// Transcribe converts the audio file at source into text. whisper.cpp only
// accepts 16 kHz mono WAV input, so the source is resampled through ffmpeg
// into workDir first; the intermediate WAV is always removed before
// returning. The transcript file is left in place for later stages.
func (s *Service) Transcribe(ctx context.Context, source, workDir string) (Result, error) {
	var result Result

	if source == "" {
		return result, fmt.Errorf("transcribe: source path required")
	}
	if s.cfg.ModelPath == "" {
		return result, fmt.Errorf("transcribe: model path required")
	}
	if workDir == "" {
		workDir = filepath.Dir(source)
	}
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return result, fmt.Errorf("transcribe: ensure work dir: %w", err)
	}

	baseName := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	wavPath := filepath.Join(workDir, baseName+".wav")
	outPrefix := filepath.Join(workDir, baseName)

	if err := s.run(ctx, s.cfg.FFmpegBinary, buildSpeechInputArgs(source, wavPath)...); err != nil {
		_ = os.Remove(wavPath)
		return result, fmt.Errorf("prepare speech input: %w", err)
	}
	defer func() { _ = os.Remove(wavPath) }()

	if err := s.run(ctx, s.cfg.Binary, s.buildArgs(wavPath, outPrefix)...); err != nil {
		return result, fmt.Errorf("whisper: %w", err)
	}

	result.TextPath = outPrefix + ".txt"
	data, err := os.ReadFile(result.TextPath)
	if err != nil {
		return result, fmt.Errorf("read transcript: %w", err)
	}
	result.Text = string(data)
	return result, nil
}

// buildSpeechInputArgs resamples arbitrary audio into the 16 kHz mono PCM
// WAV whisper.cpp requires.
func buildSpeechInputArgs(source, dest string) []string {
	return []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", source,
		"-vn",
		"-sn",
		"-dn",
		"-ac", "1",
		"-ar", "16000",
		"-c:a", "pcm_s16le",
		dest,
	}
}

// buildArgs constructs the whisper-cli invocation. -otxt/-of make whisper
// write <prefix>.txt; -np suppresses progress chatter on stderr.
func (s *Service) buildArgs(wavPath, outPrefix string) []string {
	args := []string{
		"-m", s.cfg.ModelPath,
		"-f", wavPath,
		"-otxt",
		"-of", outPrefix,
	}
	if lang := strings.TrimSpace(s.cfg.Language); lang != "" {
		args = append(args, "-l", lang)
	}
	if s.cfg.Threads > 0 {
		args = append(args, "-t", strconv.Itoa(s.cfg.Threads))
	}
	args = append(args, "-np")
	return args
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
