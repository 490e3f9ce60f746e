package config

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

var bitratePattern = regexp.MustCompile(`^[0-9]+k$`)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateExtraction(); err != nil {
		return err
	}
	if err := c.validateTranscription(); err != nil {
		return err
	}
	if err := c.validateScan(); err != nil {
		return err
	}
	if err := c.validateNaming(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return ensurePositiveMap(map[string]int{
		"extraction.timeout_seconds":    c.Extraction.TimeoutSeconds,
		"transcription.timeout_seconds": c.Transcription.TimeoutSeconds,
		"notifications.request_timeout": c.Notifications.RequestTimeout,
	})
}

func (c *Config) validatePaths() error {
	required := map[string]string{
		"paths.input_dir":   c.Paths.InputDir,
		"paths.output_dir":  c.Paths.OutputDir,
		"paths.staging_dir": c.Paths.StagingDir,
		"paths.log_dir":     c.Paths.LogDir,
	}
	for _, key := range sortedKeys(required) {
		if strings.TrimSpace(required[key]) == "" {
			return fmt.Errorf("%s must be set", key)
		}
	}
	if c.Paths.StagingDir == c.Paths.OutputDir {
		return errors.New("paths.staging_dir must differ from paths.output_dir")
	}
	if c.Paths.StagingDir == c.Paths.InputDir {
		return errors.New("paths.staging_dir must differ from paths.input_dir")
	}
	return nil
}

func (c *Config) validateExtraction() error {
	if !bitratePattern.MatchString(c.Extraction.AudioBitrate) {
		return fmt.Errorf("extraction.audio_bitrate must look like %q, got %q", "128k", c.Extraction.AudioBitrate)
	}
	if c.Extraction.SampleRate <= 0 {
		return errors.New("extraction.sample_rate must be positive")
	}
	return nil
}

func (c *Config) validateTranscription() error {
	if strings.TrimSpace(c.Transcription.ModelSize) == "" {
		return errors.New("transcription.model_size must be set")
	}
	return nil
}

func (c *Config) validateScan() error {
	if len(c.Scan.VideoExtensions) == 0 {
		return errors.New("scan.video_extensions must include at least one extension")
	}
	for _, ext := range c.Scan.VideoExtensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return fmt.Errorf("scan.video_extensions entries must start with a dot, got %q", ext)
		}
	}
	return nil
}

func (c *Config) validateNaming() error {
	if strings.ContainsAny(c.Naming.DefaultStem, `/\:*?"<>|`) {
		return fmt.Errorf("naming.default_stem must be filename-safe, got %q", c.Naming.DefaultStem)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be %q or %q, got %q", "console", "json", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error; got %q", c.Logging.Level)
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for _, key := range sortedKeys(values) {
		if values[key] <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}

func sortedKeys[V any](values map[string]V) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
