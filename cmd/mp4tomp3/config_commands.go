package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/aaronmeis/utility-mp4tomp3/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigShowCommand(ctx))

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var force bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			} else {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve config path: %w", err)
				}
				target = expanded
			}

			dir := filepath.Dir(target)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create config directory %q: %w", dir, err)
			}

			if !force {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --force to replace it)", target)
				} else if err != nil && !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Edit the file to point input_dir at your videos before running mp4tomp3.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the resolved configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
			if topic == "" {
				topic = "(not set)"
			}

			rows := []table.Row{
				{"config file", ctx.configSource()},
				{"input_dir", cfg.Paths.InputDir},
				{"output_dir", cfg.Paths.OutputDir},
				{"staging_dir", cfg.Paths.StagingDir},
				{"log_dir", cfg.Paths.LogDir},
				{"model_cache_dir", cfg.Paths.ModelCacheDir},
				{"video_extensions", strings.Join(cfg.Scan.VideoExtensions, ", ")},
				{"audio_bitrate", cfg.Extraction.AudioBitrate},
				{"sample_rate", strconv.Itoa(cfg.Extraction.SampleRate)},
				{"extraction_timeout", fmt.Sprintf("%ds", cfg.Extraction.TimeoutSeconds)},
				{"model_size", cfg.Transcription.ModelSize},
				{"language", cfg.Transcription.Language},
				{"threads", strconv.Itoa(cfg.Transcription.Threads)},
				{"transcription_timeout", fmt.Sprintf("%ds", cfg.Transcription.TimeoutSeconds)},
				{"default_stem", cfg.Naming.DefaultStem},
				{"ntfy_topic", topic},
				{"log_format", cfg.Logging.Format},
				{"log_level", cfg.Logging.Level},
				{"retention_days", strconv.Itoa(cfg.Logging.RetentionDays)},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(table.Row{"Setting", "Value"}, rows))
			return nil
		},
	}
}
