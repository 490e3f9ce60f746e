// Package whisper wraps the whisper.cpp command line tool for speech
// transcription.
//
// This package handles:
//   - Speech input preparation (16 kHz mono WAV via ffmpeg)
//   - whisper-cli invocation with model, language, and thread settings
//   - Transcript text retrieval from the tool's output file
//
// The primary use case is detecting spoken introductions at the start of
// converted recordings, but the service is generic enough for any short
// transcription need. Model files follow the published ggml naming scheme;
// see models.go for the catalog.
package whisper
