// Package stage defines the contract between the workflow runner and the
// pipeline stages that move a job from discovered video to renamed audio.
package stage

import (
	"context"

	"github.com/aaronmeis/utility-mp4tomp3/internal/queue"
)

// Handler describes the contract the workflow runner needs from each stage.
// Prepare validates inputs and seeds progress before the job enters the
// stage's processing status; Execute performs the work; HealthCheck reports
// readiness before a run starts.
type Handler interface {
	Prepare(context.Context, *queue.Job) error
	Execute(context.Context, *queue.Job) error
	HealthCheck(context.Context) Health
}
