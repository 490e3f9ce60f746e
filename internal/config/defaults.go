package config

const (
	defaultInputDir             = "~/Videos/incoming"
	defaultOutputDir            = "~/Videos/audio"
	defaultStagingDir           = "~/.local/share/mp4tomp3/staging"
	defaultLogDir               = "~/.local/share/mp4tomp3/logs"
	defaultAudioBitrate         = "128k"
	defaultSampleRate           = 44100
	defaultExtractionTimeout    = 600
	defaultModelSize            = "base"
	defaultLanguage             = "en"
	defaultTranscriptionTimeout = 1800
	defaultStem                 = "audio"
	defaultNotifyTimeout        = 10
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
	defaultLogRetentionDays     = 30
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			InputDir:      defaultInputDir,
			OutputDir:     defaultOutputDir,
			StagingDir:    defaultStagingDir,
			LogDir:        defaultLogDir,
			ModelCacheDir: defaultModelCacheDir(),
		},
		Extraction: Extraction{
			AudioBitrate:   defaultAudioBitrate,
			SampleRate:     defaultSampleRate,
			TimeoutSeconds: defaultExtractionTimeout,
		},
		Transcription: Transcription{
			ModelSize:      defaultModelSize,
			Language:       defaultLanguage,
			TimeoutSeconds: defaultTranscriptionTimeout,
		},
		Scan: Scan{
			VideoExtensions: []string{".mp4"},
		},
		Naming: Naming{
			DefaultStem: defaultStem,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
