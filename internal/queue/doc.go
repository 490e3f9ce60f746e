// Package queue persists conversion jobs in SQLite and exposes helpers for
// driving their lifecycle.
//
// The Store manages database connections, schema initialization, stats
// queries, abandoned-job recovery, and the status transitions that mirror
// the conversion pipeline: pending, extracting, transcribing, naming,
// renaming, and the terminal renamed, skipped, and failed states. Jobs
// capture progress, detected speaker names, and final artifact paths so
// stages can coordinate without additional state.
//
// The database is treated as a durable record of past conversions; the
// workflow consults it to skip videos that were already converted. Schema
// changes bump the version in schema.go; users clear the database to adopt
// the new schema.
package queue
