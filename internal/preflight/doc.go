// Package preflight provides readiness checks for the directories, model
// files, and external binaries the conversion pipeline depends on.
//
// These checks run in two contexts:
//   - The workflow runner calls RunAll before processing a batch. If any
//     check fails, the run aborts before touching a single video.
//   - The CLI "mp4tomp3 status" command uses the individual check functions
//     (CheckDirectoryAccess, CheckModelFile, CheckSystemDeps) to display
//     environment health.
package preflight
