// internal/app/system/tasks/jobs.go
package tasks

import (
	"context"
	"time"

	investmentstore "github.com/dalemusser/yieldhub/internal/app/store/investments"
	profitstore "github.com/dalemusser/yieldhub/internal/app/store/profits"
	"github.com/dalemusser/yieldhub/internal/domain/models"
	"go.uber.org/zap"
)

// Job is a named periodic task run by workers.JobRunner.
type Job struct {
	Name     string
	Interval time.Duration
	Timeout  time.Duration
	Run      func(ctx context.Context) error
}

// DistributionReconcileJob creates a job that reports eligible
// investments with no profit record for today. A crash mid-run leaves
// some investments distributed and others not; the engine's per-day
// guard makes a re-run safe, but an operator has to notice first. This
// job is that notice.
func DistributionReconcileJob(invStore *investmentstore.Store, profStore *profitstore.Store, logger *zap.Logger, loc *time.Location, interval time.Duration) Job {
	if loc == nil {
		loc = time.UTC
	}
	return Job{
		Name:     "distribution-reconcile",
		Interval: interval,
		Timeout:  time.Minute,
		Run: func(ctx context.Context) error {
			date := time.Now().In(loc).Format(models.ProfitDateLayout)

			eligible, err := invStore.EligibleForDistribution(ctx)
			if err != nil {
				return err
			}
			if len(eligible) == 0 {
				return nil
			}

			done, err := profStore.InvestmentIDsForDate(ctx, date)
			if err != nil {
				return err
			}

			missing := 0
			for _, inv := range eligible {
				if inv.Amount <= 0 {
					continue
				}
				if _, ok := done[inv.ID]; !ok {
					missing++
					logger.Warn("eligible investment missing today's profit record",
						zap.String("investment_id", inv.ID.Hex()),
						zap.String("date", date))
				}
			}
			if missing == 0 {
				logger.Debug("distribution reconcile clean",
					zap.String("date", date),
					zap.Int("eligible", len(eligible)))
			}
			return nil
		},
	}
}
