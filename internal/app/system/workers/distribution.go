// internal/app/system/workers/distribution.go
package workers

import (
	"context"
	"strconv"
	"sync"
	"time"

	auditstore "github.com/dalemusser/yieldhub/internal/app/store/audit"
	"github.com/dalemusser/yieldhub/internal/app/system/auditlog"
	"github.com/dalemusser/yieldhub/internal/app/system/distribution"
	"github.com/dalemusser/yieldhub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// DistributionScheduler is a background worker that fires one
// distribution run per calendar day at a fixed local time. It takes no
// lock: overlapping runs (a manual trigger colliding with the schedule)
// are resolved by the engine's per-(investment, date) guard, not here.
type DistributionScheduler struct {
	engine *distribution.Engine
	audit  *auditlog.Logger
	log    *zap.Logger
	hour   int
	minute int
	loc    *time.Location
	stopCh chan struct{}
	wg     sync.WaitGroup

	// now is swappable for tests.
	now func() time.Time
}

// NewDistributionScheduler creates the daily scheduler.
//
// Parameters:
//   - engine: the distribution engine
//   - audit: audit logger for run events (nil disables auditing)
//   - logger: zap logger
//   - hour, minute: local fire time within loc
//   - loc: the calendar time zone for "once per day"
func NewDistributionScheduler(engine *distribution.Engine, audit *auditlog.Logger, logger *zap.Logger, hour, minute int, loc *time.Location) *DistributionScheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &DistributionScheduler{
		engine: engine,
		audit:  audit,
		log:    logger,
		hour:   hour,
		minute: minute,
		loc:    loc,
		stopCh: make(chan struct{}),
		now:    time.Now,
	}
}

// Start begins the scheduling loop.
func (w *DistributionScheduler) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("distribution scheduler started",
		zap.Int("hour", w.hour),
		zap.Int("minute", w.minute),
		zap.String("timezone", w.loc.String()))
}

// Stop signals the worker to stop and waits for it to finish. A run in
// flight finishes its current investment units before the context
// deadline cancels the rest.
func (w *DistributionScheduler) Stop() {
	close(w.stopCh)
	w.wg.Wait()
	w.log.Info("distribution scheduler stopped")
}

func (w *DistributionScheduler) run() {
	defer w.wg.Done()

	for {
		wait := time.Until(w.NextFire(w.now()))
		timer := time.NewTimer(wait)
		select {
		case <-w.stopCh:
			timer.Stop()
			return
		case <-timer.C:
			w.distribute()
		}
	}
}

// NextFire returns the next hour:minute occurrence in the scheduler's
// time zone strictly after now.
func (w *DistributionScheduler) NextFire(now time.Time) time.Time {
	local := now.In(w.loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), w.hour, w.minute, 0, 0, w.loc)
	if !next.After(local) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

func (w *DistributionScheduler) distribute() {
	ctx, cancel := context.WithTimeout(context.Background(), timeouts.Batch())
	defer cancel()

	w.audit.Log(ctx, auditstore.Event{
		Category:  auditstore.CategoryDistribution,
		EventType: auditstore.EventDistributionStarted,
		Success:   true,
	})

	res, err := w.engine.Run(ctx, distribution.ModeScheduled)
	details := map[string]string{
		"run_id": res.RunID,
		"date":   res.Date,
		"count":  strconv.Itoa(res.Count),
	}
	if err != nil {
		w.log.Error("scheduled distribution failed",
			zap.String("run_id", res.RunID),
			zap.Int("failed", res.Failed),
			zap.Error(err))
		w.audit.Log(ctx, auditstore.Event{
			Category:      auditstore.CategoryDistribution,
			EventType:     auditstore.EventDistributionFailed,
			Success:       false,
			FailureReason: err.Error(),
			Details:       details,
		})
		return
	}
	w.log.Info("scheduled distribution completed",
		zap.String("run_id", res.RunID),
		zap.Int("count", res.Count),
		zap.Float64("total_distributed", res.TotalDistributed))
	w.audit.Log(ctx, auditstore.Event{
		Category:  auditstore.CategoryDistribution,
		EventType: auditstore.EventDistributionCompleted,
		Success:   true,
		Details:   details,
	})
}
