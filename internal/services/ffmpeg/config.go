package ffmpeg

// Config captures runtime settings for audio extraction.
type Config struct {
	// Binary is the ffmpeg executable name or path.
	Binary string
	// Bitrate is the MP3 bitrate passed to -ab (e.g. "128k").
	Bitrate string
	// SampleRate is the output sample rate in Hz passed to -ar.
	SampleRate int
}

// Extraction defaults.
const (
	DefaultCommand    = "ffmpeg"
	DefaultBitrate    = "128k"
	DefaultSampleRate = 44100
)

func (c Config) withDefaults() Config {
	if c.Binary == "" {
		c.Binary = DefaultCommand
	}
	if c.Bitrate == "" {
		c.Bitrate = DefaultBitrate
	}
	if c.SampleRate <= 0 {
		c.SampleRate = DefaultSampleRate
	}
	return c
}
