// Package workflow runs the batch conversion pipeline.
//
// The Runner takes a single pass over the input directory: it acquires the
// run lock, gates on stage health and preflight checks, recovers anything a
// previous run left behind, then converts each discovered video through the
// extraction, transcription, naming, and renaming stages in order. Jobs are
// strictly sequential; a stage failure marks that job failed and the run
// moves on to the next video.
//
// Per-job results accumulate into a RunSummary, which the CLI renders and
// the report package persists as the run log. Run-level problems (lock
// contention, failed health gate, unreadable input) surface as errors from
// Run; per-job failures never do.
package workflow
