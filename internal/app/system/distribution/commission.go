// internal/app/system/distribution/commission.go
package distribution

import (
	"context"
	"time"

	"github.com/dalemusser/yieldhub/internal/app/system/money"
	"github.com/dalemusser/yieldhub/internal/domain/models"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// MaxCommissionLevels caps the upward chain walk. The decaying table
// below makes deeper levels worthless anyway; the cap bounds the
// walk's cost and payout regardless of chain depth.
const MaxCommissionLevels = 5

// commissionRates maps chain level (distance from the profit source) to
// the fraction of the day's profit paid to that ancestor. Direct
// referrers earn the most.
var commissionRates = map[int]float64{
	1: 0.02,
	2: 0.01,
	3: 0.005,
	4: 0.002,
	5: 0.001,
}

// CommissionRate returns the rate for a chain level, or 0 beyond the cap.
func CommissionRate(level int) float64 {
	return commissionRates[level]
}

// propagateCommissions walks the referral chain upward from the
// investment owner and credits each ancestor's commission. Failures are
// logged and isolated per level: the principal profit is already
// committed, and a lost commission never fails the run. Returns the sum
// credited.
func (e *Engine) propagateCommissions(ctx context.Context, log *zap.Logger, ownerID primitive.ObjectID, dailyProfit float64, date string, now time.Time) float64 {
	profitDec := decimal.NewFromFloat(dailyProfit)
	total := decimal.Zero

	// The level cap already bounds the walk, but a corrupt edge set
	// could form a cycle shorter than the cap; the visited set makes
	// the walk terminate on the first repeat.
	visited := map[primitive.ObjectID]struct{}{ownerID: {}}

	current := ownerID
	for level := 1; level <= MaxCommissionLevels; level++ {
		edge, err := e.referrals.ReferrerOf(ctx, current)
		if err != nil {
			log.Warn("referral lookup failed, stopping chain walk",
				zap.String("user_id", current.Hex()),
				zap.Int("level", level),
				zap.Error(err))
			break
		}
		if edge == nil {
			// Top of the chain; a user with no referrer is normal.
			break
		}
		referrer := edge.ReferrerID
		if _, seen := visited[referrer]; seen {
			log.Warn("referral cycle detected, stopping chain walk",
				zap.String("user_id", referrer.Hex()),
				zap.Int("level", level))
			break
		}
		visited[referrer] = struct{}{}

		rate := commissionRates[level]
		commissionDec := money.Commission(profitDec, rate)
		if money.Positive(commissionDec) {
			commission := money.Persist(commissionDec)
			rec := models.ReferralCommissionRecord{
				ReferrerID:       referrer,
				ReferredID:       ownerID,
				Level:            level,
				SourceProfit:     dailyProfit,
				CommissionAmount: commission,
				CommissionRate:   rate,
				Date:             date,
			}
			if _, err := e.commissions.Create(ctx, rec); err != nil {
				log.Warn("commission record write failed, skipping level",
					zap.String("referrer_id", referrer.Hex()),
					zap.Int("level", level),
					zap.Error(err))
			} else if err := e.balances.CreditCommission(ctx, referrer, commission, now); err != nil {
				log.Warn("commission balance credit failed",
					zap.String("referrer_id", referrer.Hex()),
					zap.Int("level", level),
					zap.Error(err))
			} else {
				total = total.Add(decimal.NewFromFloat(commission))
			}
		}

		current = referrer
	}

	return money.Persist(total)
}
