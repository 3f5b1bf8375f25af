// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.

The unique index on daily_profits(investment_id, date) is load-bearing:
it is what makes overlapping distribution runs unable to pay the same
investment twice for one day.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureUsers(ctx, db); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := ensureInvestments(ctx, db); err != nil {
		problems = append(problems, "investments: "+err.Error())
	}
	if err := ensureDailyProfits(ctx, db); err != nil {
		problems = append(problems, "daily_profits: "+err.Error())
	}
	if err := ensureReferrals(ctx, db); err != nil {
		problems = append(problems, "referrals: "+err.Error())
	}
	if err := ensureReferralCommissions(ctx, db); err != nil {
		problems = append(problems, "referral_commissions: "+err.Error())
	}
	if err := ensureDeposits(ctx, db); err != nil {
		problems = append(problems, "deposits: "+err.Error())
	}
	if err := ensureWithdrawals(ctx, db); err != nil {
		problems = append(problems, "withdrawals: "+err.Error())
	}
	if err := ensureSystemSettings(ctx, db); err != nil {
		problems = append(problems, "system_settings: "+err.Error())
	}
	if err := ensureAuditEvents(ctx, db); err != nil {
		problems = append(problems, "audit_events: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	for _, m := range models {
		name := ""
		if m.Options != nil && m.Options.Name != nil {
			name = *m.Options.Name
		}
		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			// Same keys under a different name or options already exist;
			// surface it rather than dropping data-bearing indexes.
			return fmt.Errorf("create %s: %w", name, err)
		}
		zap.L().Debug("ensured index",
			zap.String("collection", coll.Name()),
			zap.String("name", name))
	}
	return nil
}

func str(s string) *string { return &s }
func yes() *bool           { b := true; return &b }

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("users"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: &options.IndexOptions{Name: str("uniq_email"), Unique: yes()},
		},
		{
			Keys:    bson.D{{Key: "referral_code", Value: 1}},
			Options: &options.IndexOptions{Name: str("uniq_referral_code"), Unique: yes()},
		},
	})
}

func ensureInvestments(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("investments"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "is_active", Value: 1}, {Key: "status", Value: 1}},
			Options: &options.IndexOptions{Name: str("eligibility")},
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: &options.IndexOptions{Name: str("by_user")},
		},
	})
}

func ensureDailyProfits(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("daily_profits"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "investment_id", Value: 1}, {Key: "date", Value: 1}},
			Options: &options.IndexOptions{Name: str("uniq_investment_date"), Unique: yes()},
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: &options.IndexOptions{Name: str("by_user")},
		},
		{
			Keys:    bson.D{{Key: "date", Value: 1}},
			Options: &options.IndexOptions{Name: str("by_date")},
		},
	})
}

func ensureReferrals(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("referrals"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "referred_id", Value: 1}},
			Options: &options.IndexOptions{Name: str("uniq_referred"), Unique: yes()},
		},
		{
			Keys:    bson.D{{Key: "referrer_id", Value: 1}},
			Options: &options.IndexOptions{Name: str("by_referrer")},
		},
	})
}

func ensureReferralCommissions(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("referral_commissions"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "referrer_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: &options.IndexOptions{Name: str("by_referrer")},
		},
		{
			Keys:    bson.D{{Key: "date", Value: 1}},
			Options: &options.IndexOptions{Name: str("by_date")},
		},
	})
}

func ensureDeposits(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("deposits"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: &options.IndexOptions{Name: str("by_user")},
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: 1}},
			Options: &options.IndexOptions{Name: str("pending_queue")},
		},
	})
}

func ensureWithdrawals(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("withdrawals"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: &options.IndexOptions{Name: str("by_user")},
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: 1}},
			Options: &options.IndexOptions{Name: str("pending_queue")},
		},
	})
}

func ensureSystemSettings(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("system_settings"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "key", Value: 1}},
			Options: &options.IndexOptions{Name: str("uniq_key"), Unique: yes()},
		},
	})
}

func ensureAuditEvents(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("audit_events"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "timestamp", Value: -1}},
			Options: &options.IndexOptions{Name: str("by_time")},
		},
		{
			Keys:    bson.D{{Key: "category", Value: 1}, {Key: "timestamp", Value: -1}},
			Options: &options.IndexOptions{Name: str("by_category_time")},
		},
	})
}
