// Package textutil provides text processing utilities for filename
// sanitization and log-friendly excerpts.
//
// The primary use cases are:
//   - Reducing detected speaker names to single capitalized filename stems
//   - Sanitizing arbitrary filenames and path segments for safe filesystem use
//   - Producing bounded single-line previews of transcripts for logging
//
// SanitizeStem is deterministic and idempotent; pipeline code relies on both
// properties when re-deriving output names across runs.
package textutil
