// internal/testutil/fixtures.go
package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/dalemusser/yieldhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T

	codeSeq int
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates an active test user with the given role.
func (f *Fixtures) CreateUser(ctx context.Context, fullName, email, role string) models.User {
	f.t.Helper()

	f.codeSeq++
	now := time.Now().UTC()
	user := models.User{
		ID:           primitive.NewObjectID(),
		FullName:     fullName,
		FullNameCI:   text.Fold(fullName),
		Email:        email,
		Role:         role,
		Status:       "active",
		ReferralCode: fmt.Sprintf("TESTCD%02d", f.codeSeq),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateAdmin creates a test admin user.
func (f *Fixtures) CreateAdmin(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, email, models.RoleAdmin)
}

// CreateInvestor creates a regular test user.
func (f *Fixtures) CreateInvestor(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, email, models.RoleUser)
}

// CreateInvestment creates a confirmed, active investment for the user.
func (f *Fixtures) CreateInvestment(ctx context.Context, userID primitive.ObjectID, amount, dailyRate float64) models.Investment {
	f.t.Helper()

	now := time.Now().UTC()
	inv := models.Investment{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		PlanID:    "growth",
		Amount:    amount,
		DailyRate: dailyRate,
		IsActive:  true,
		Status:    models.InvestmentConfirmed,
		Reference: fmt.Sprintf("INV-%s", primitive.NewObjectID().Hex()[:12]),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("investments").InsertOne(ctx, inv); err != nil {
		f.t.Fatalf("failed to create test investment: %v", err)
	}
	return inv
}

// CreateDeposit creates a pending deposit request.
func (f *Fixtures) CreateDeposit(ctx context.Context, userID primitive.ObjectID, planID string, amount float64) models.Deposit {
	f.t.Helper()

	now := time.Now().UTC()
	dep := models.Deposit{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		PlanID:    planID,
		Amount:    amount,
		Method:    "bank",
		Status:    models.ReviewPending,
		Reference: fmt.Sprintf("DEP-%s", primitive.NewObjectID().Hex()[:12]),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("deposits").InsertOne(ctx, dep); err != nil {
		f.t.Fatalf("failed to create test deposit: %v", err)
	}
	return dep
}

// CreateWithdrawal creates a pending withdrawal request. It does not
// reserve any balance; tests that exercise the reserve path go through
// the store.
func (f *Fixtures) CreateWithdrawal(ctx context.Context, userID primitive.ObjectID, amount float64) models.Withdrawal {
	f.t.Helper()

	now := time.Now().UTC()
	wd := models.Withdrawal{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Amount:    amount,
		Address:   "test-payout-address",
		Status:    models.ReviewPending,
		Reference: fmt.Sprintf("WDL-%s", primitive.NewObjectID().Hex()[:12]),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("withdrawals").InsertOne(ctx, wd); err != nil {
		f.t.Fatalf("failed to create test withdrawal: %v", err)
	}
	return wd
}

// CreateReferral links referrer -> referred with a level 1 edge.
func (f *Fixtures) CreateReferral(ctx context.Context, referrerID, referredID primitive.ObjectID) models.ReferralEdge {
	f.t.Helper()

	edge := models.ReferralEdge{
		ID:         primitive.NewObjectID(),
		ReferrerID: referrerID,
		ReferredID: referredID,
		Level:      1,
		CreatedAt:  time.Now().UTC(),
	}

	if _, err := f.db.Collection("referrals").InsertOne(ctx, edge); err != nil {
		f.t.Fatalf("failed to create test referral: %v", err)
	}
	return edge
}
