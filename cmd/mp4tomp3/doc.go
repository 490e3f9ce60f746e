// Package main hosts the mp4tomp3 CLI entrypoint and command graph.
//
// The Cobra-based command tree runs one-shot conversion batches, inspects
// the job ledger, reports environment readiness, and scaffolds
// configuration. It centralizes configuration resolution and logger setup
// so subcommands can focus on user experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
