// Package services defines shared utilities consumed by the pipeline stage
// handlers and external tool gateways.
//
// Key responsibilities:
//   - Context helpers that stamp job IDs, stage names, and run identifiers
//     for logging and tracing.
//   - Structured error markers plus the Wrap helper that classify failures
//     (extraction, transcription, filesystem, configuration, timeout) for
//     persistence and run reporting.
//   - Remediation hints that travel with error chains so operators see a next
//     step alongside the failure.
//
// Use these helpers when wiring new stage logic so operational behaviour
// (error handling, observability) stays uniform across the pipeline.
package services
