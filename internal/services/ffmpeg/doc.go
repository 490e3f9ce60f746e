// Package ffmpeg wraps the ffmpeg binary for MP3 audio extraction.
//
// The extraction stage uses it to turn a source video into a staging MP3;
// the transcription service prepares its own speech-model input separately.
// Commands run through an injectable runner so tests never spawn processes.
package ffmpeg
