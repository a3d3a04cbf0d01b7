// internal/common/camunda/instrument.go
package camunda

import (
	"context"
	"time"

	"nanomatch/internal/common/metrics"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

type JobObserver interface {
	RecordJob(ctx context.Context, taskType, status string, duration time.Duration)
}

// Instrument wraps a job handler with duration metrics. obs may be nil.
func Instrument(taskType string, handler worker.JobHandler, obs JobObserver) worker.JobHandler {
	return func(client worker.JobClient, job entities.Job) {
		start := time.Now()
		handler(client, job)
		elapsed := time.Since(start)

		metrics.WorkerJobDuration.WithLabelValues(taskType).Observe(elapsed.Seconds())
		if obs != nil {
			obs.RecordJob(context.Background(), taskType, "processed", elapsed)
		}
	}
}
