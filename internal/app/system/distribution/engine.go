// Package distribution implements the daily profit and referral
// commission engine. One run selects every eligible investment, applies
// the day's compounded profit, and propagates decaying commissions up
// each owner's referral chain.
//
// The engine is invoked two ways with the same logic: the scheduled
// worker fires once per calendar day, and admins can trigger a run from
// the console. Re-running on the same day is safe: an investment that
// already has a DailyProfitRecord for the date is skipped, and a unique
// index on (investment_id, date) backstops the check against racing
// runs.
package distribution

import (
	"context"
	"errors"
	"fmt"
	"time"

	profitstore "github.com/dalemusser/yieldhub/internal/app/store/profits"
	"github.com/dalemusser/yieldhub/internal/app/system/money"
	"github.com/dalemusser/yieldhub/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Run modes. Scheduled runs wrap each investment's writes in a
// transaction when the deployment supports one; manual runs issue the
// writes sequentially per investment. Both propagate commissions
// per investment, never batched.
const (
	ModeScheduled = "scheduled"
	ModeManual    = "manual"
)

// Store interfaces consumed by the engine. The Mongo stores satisfy
// them; tests use in-memory fakes.

// InvestmentSource selects eligible investments and compounds profit
// into them.
type InvestmentSource interface {
	EligibleForDistribution(ctx context.Context) ([]models.Investment, error)
	ApplyProfit(ctx context.Context, id primitive.ObjectID, profit float64, at time.Time) error
}

// ProfitLedger is the append-only daily profit audit trail.
type ProfitLedger interface {
	ExistsForDate(ctx context.Context, investmentID primitive.ObjectID, date string) (bool, error)
	Create(ctx context.Context, rec models.DailyProfitRecord) (models.DailyProfitRecord, error)
}

// BalanceCrediter applies additive increments to user balances.
type BalanceCrediter interface {
	CreditProfit(ctx context.Context, userID primitive.ObjectID, amount float64, at time.Time) error
	CreditCommission(ctx context.Context, userID primitive.ObjectID, amount float64, at time.Time) error
}

// ReferralChain resolves one upward step of the referral forest.
type ReferralChain interface {
	ReferrerOf(ctx context.Context, referredID primitive.ObjectID) (*models.ReferralEdge, error)
}

// CommissionLedger is the append-only commission audit trail.
type CommissionLedger interface {
	Create(ctx context.Context, rec models.ReferralCommissionRecord) (models.ReferralCommissionRecord, error)
}

// SettingsMarker stamps the last successful run for the admin console.
type SettingsMarker interface {
	MarkDistribution(ctx context.Context, runID string, at time.Time) error
}

// TxnRunner runs fn atomically when the store supports it. A nil runner
// means sequential writes (the manual-path consistency boundary).
type TxnRunner func(ctx context.Context, fn func(ctx context.Context) error) error

// Engine executes distribution runs. Construct one per process and pass
// it to the invocation wrappers; it holds no run state of its own.
type Engine struct {
	investments InvestmentSource
	profits     ProfitLedger
	balances    BalanceCrediter
	referrals   ReferralChain
	commissions CommissionLedger
	settings    SettingsMarker
	txn         TxnRunner
	loc         *time.Location
	log         *zap.Logger

	// now is swappable for tests.
	now func() time.Time
}

// Deps bundles the engine's collaborators.
type Deps struct {
	Investments InvestmentSource
	Profits     ProfitLedger
	Balances    BalanceCrediter
	Referrals   ReferralChain
	Commissions CommissionLedger
	Settings    SettingsMarker

	// Txn, when set, wraps each investment's profit writes on scheduled
	// runs. Manual runs never use it.
	Txn TxnRunner

	// Location is the calendar-day time zone. Defaults to UTC.
	Location *time.Location
}

// NewEngine constructs a distribution engine.
func NewEngine(deps Deps, logger *zap.Logger) *Engine {
	loc := deps.Location
	if loc == nil {
		loc = time.UTC
	}
	return &Engine{
		investments: deps.Investments,
		profits:     deps.Profits,
		balances:    deps.Balances,
		referrals:   deps.Referrals,
		commissions: deps.Commissions,
		settings:    deps.Settings,
		txn:         deps.Txn,
		loc:         loc,
		log:         logger,
		now:         time.Now,
	}
}

// Result summarizes one distribution run.
type Result struct {
	RunID            string  `json:"run_id"`
	Date             string  `json:"date"`
	Mode             string  `json:"mode"`
	Count            int     `json:"count"`             // investments credited
	Skipped          int     `json:"skipped"`           // already distributed or non-positive profit
	Failed           int     `json:"failed"`            // investments whose writes errored
	TotalDistributed float64 `json:"total_distributed"` // sum of applied profits
	TotalCommission  float64 `json:"total_commission"`  // sum of commissions credited
}

// Today returns the current business day in the engine's location,
// formatted as a profit-record date key.
func (e *Engine) Today() string {
	return e.now().In(e.loc).Format(models.ProfitDateLayout)
}

// ErrPartialRun reports that some investments' writes failed while the
// rest of the run completed. The failed investments carry no profit
// record for the date, so the next run picks them up.
var ErrPartialRun = errors.New("distribution run completed with failures")

// Run executes one distribution: selection, profit application, and
// commission propagation, in that order. A selection failure aborts
// before any write. An empty eligible set is success with zero side
// effects beyond the settings stamp.
func (e *Engine) Run(ctx context.Context, mode string) (Result, error) {
	now := e.now()
	res := Result{
		RunID: uuid.NewString(),
		Date:  now.In(e.loc).Format(models.ProfitDateLayout),
		Mode:  mode,
	}
	log := e.log.With(
		zap.String("run_id", res.RunID),
		zap.String("date", res.Date),
		zap.String("mode", mode),
	)

	eligible, err := e.investments.EligibleForDistribution(ctx)
	if err != nil {
		log.Error("investment selection failed, aborting run", zap.Error(err))
		return res, fmt.Errorf("select eligible investments: %w", err)
	}
	log.Info("distribution run started", zap.Int("eligible", len(eligible)))

	for i := range eligible {
		inv := &eligible[i]
		profit, outcome, err := e.applyProfit(ctx, inv, res.Date, now, mode)
		switch outcome {
		case outcomeApplied:
			res.Count++
			res.TotalDistributed += profit
			// Commissions only flow from committed profit; losses here
			// never roll back the principal credit.
			res.TotalCommission += e.propagateCommissions(ctx, log, inv.UserID, profit, res.Date, now)
		case outcomeSkipped:
			res.Skipped++
		case outcomeFailed:
			res.Failed++
			log.Error("profit application failed",
				zap.String("investment_id", inv.ID.Hex()),
				zap.Error(err))
		}
	}

	if err := e.settings.MarkDistribution(ctx, res.RunID, now); err != nil {
		// Informational stamp only; the run's money already moved.
		log.Warn("failed to stamp last distribution", zap.Error(err))
	}

	log.Info("distribution run finished",
		zap.Int("count", res.Count),
		zap.Int("skipped", res.Skipped),
		zap.Int("failed", res.Failed),
		zap.Float64("total_distributed", res.TotalDistributed),
		zap.Float64("total_commission", res.TotalCommission),
	)

	if res.Failed > 0 {
		return res, fmt.Errorf("%w: %d of %d investments failed", ErrPartialRun, res.Failed, len(eligible))
	}
	return res, nil
}

type unitOutcome int

const (
	outcomeApplied unitOutcome = iota
	outcomeSkipped
	outcomeFailed
)

// applyProfit runs one investment's distribution unit: the duplicate-day
// check, the profit record, the principal compound, and the owner's
// balance credit. Scheduled mode wraps the three writes in a
// transaction when one is available; otherwise they run in
// audit-record-first order so a partial failure leaves a trail for
// reconciliation.
func (e *Engine) applyProfit(ctx context.Context, inv *models.Investment, date string, now time.Time, mode string) (float64, unitOutcome, error) {
	if inv.Amount <= 0 {
		return 0, outcomeSkipped, nil
	}

	profitDec := money.DailyProfit(inv.Amount, inv.DailyRate)
	if !money.Positive(profitDec) {
		return 0, outcomeSkipped, nil
	}
	profit := money.Persist(profitDec)

	exists, err := e.profits.ExistsForDate(ctx, inv.ID, date)
	if err != nil {
		return 0, outcomeFailed, err
	}
	if exists {
		return 0, outcomeSkipped, nil
	}

	unit := func(ctx context.Context) error {
		rec := models.DailyProfitRecord{
			UserID:           inv.UserID,
			InvestmentID:     inv.ID,
			Date:             date,
			Amount:           profit,
			InvestmentAmount: inv.Amount,
			DailyRate:        inv.DailyRate,
			IsProcessed:      true,
			ProcessedAt:      &now,
		}
		if _, err := e.profits.Create(ctx, rec); err != nil {
			return err
		}
		if err := e.investments.ApplyProfit(ctx, inv.ID, profit, now); err != nil {
			return err
		}
		return e.balances.CreditProfit(ctx, inv.UserID, profit, now)
	}

	if mode == ModeScheduled && e.txn != nil {
		err = e.txn(ctx, unit)
	} else {
		err = unit(ctx)
	}
	if err != nil {
		// A concurrent run won the unique-index race; the profit was
		// paid exactly once, just not by us.
		if errors.Is(err, profitstore.ErrDuplicateDay) {
			return 0, outcomeSkipped, nil
		}
		return 0, outcomeFailed, err
	}
	return profit, outcomeApplied, nil
}
