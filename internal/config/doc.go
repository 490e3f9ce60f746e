// Package config loads, normalizes, and validates mp4tomp3 configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob a
// run needs, so input/output/staging directories, ffmpeg encoding parameters,
// and the whisper.cpp model selection are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
