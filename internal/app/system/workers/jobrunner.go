// internal/app/system/workers/jobrunner.go
package workers

import (
	"context"
	"sync"
	"time"

	"github.com/dalemusser/yieldhub/internal/app/system/tasks"
	"go.uber.org/zap"
)

// JobRunner runs interval jobs (tasks.Job) on their own tickers. It is
// the home for periodic housekeeping that is not the daily
// distribution: reconciliation sweeps and the like.
type JobRunner struct {
	jobs   []tasks.Job
	log    *zap.Logger
	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewJobRunner creates a runner for the given jobs.
func NewJobRunner(logger *zap.Logger, jobs ...tasks.Job) *JobRunner {
	return &JobRunner{
		jobs:   jobs,
		log:    logger,
		stopCh: make(chan struct{}),
	}
}

// Start launches one goroutine per job.
func (r *JobRunner) Start() {
	for _, job := range r.jobs {
		r.wg.Add(1)
		go r.runJob(job)
		r.log.Info("job started",
			zap.String("job", job.Name),
			zap.Duration("interval", job.Interval))
	}
}

// Stop signals all jobs to stop and waits for them to finish.
func (r *JobRunner) Stop() {
	close(r.stopCh)
	r.wg.Wait()
	r.log.Info("job runner stopped")
}

func (r *JobRunner) runJob(job tasks.Job) {
	defer r.wg.Done()

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopCh:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), job.Timeout)
			if err := job.Run(ctx); err != nil {
				r.log.Error("job failed",
					zap.String("job", job.Name),
					zap.Error(err))
			}
			cancel()
		}
	}
}
