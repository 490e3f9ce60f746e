package whisper

// Config captures runtime settings for whisper.cpp transcription.
type Config struct {
	// Binary is the whisper-cli executable name or path.
	Binary string
	// FFmpegBinary prepares the 16 kHz mono WAV input whisper.cpp expects.
	FFmpegBinary string
	// ModelPath is the ggml model file passed to -m.
	ModelPath string
	// Language hints the spoken language; empty lets whisper decide.
	Language string
	// Threads caps worker threads; zero uses the tool's default.
	Threads int
}

// Command names for external tools.
const (
	DefaultCommand = "whisper-cli"
	FFmpegCommand  = "ffmpeg"
)

func (c Config) withDefaults() Config {
	if c.Binary == "" {
		c.Binary = DefaultCommand
	}
	if c.FFmpegBinary == "" {
		c.FFmpegBinary = FFmpegCommand
	}
	return c
}
