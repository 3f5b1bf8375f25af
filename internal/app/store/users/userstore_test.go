package userstore_test

import (
	"errors"
	"testing"
	"time"

	userstore "github.com/dalemusser/yieldhub/internal/app/store/users"
	"github.com/dalemusser/yieldhub/internal/app/system/indexes"
	"github.com/dalemusser/yieldhub/internal/domain/models"
	"github.com/dalemusser/yieldhub/internal/testutil"
)

func TestCreate_NormalizesAndDefaults(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := userstore.New(db)

	created, err := store.Create(ctx, models.User{
		FullName:     "  Ada Lovelace  ",
		Email:        "  Ada@Example.COM ",
		Role:         models.RoleUser,
		ReferralCode: "ADACODE1",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.Email != "ada@example.com" {
		t.Errorf("expected normalized email, got %q", created.Email)
	}
	if created.FullName != "Ada Lovelace" {
		t.Errorf("expected trimmed name, got %q", created.FullName)
	}
	if created.Status != "active" {
		t.Errorf("expected default status active, got %q", created.Status)
	}
	if created.FullNameCI == "" {
		t.Error("expected folded name to be set")
	}
}

func TestCreate_RejectsBadRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := userstore.New(db)

	_, err := store.Create(ctx, models.User{
		FullName:     "Bad Role",
		Email:        "bad@example.com",
		Role:         "superuser",
		ReferralCode: "BADROLE1",
	})
	if err == nil {
		t.Fatal("expected error for invalid role")
	}
}

func TestCreate_DuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	store := userstore.New(db)

	_, err := store.Create(ctx, models.User{
		FullName: "First", Email: "dup@example.com",
		Role: models.RoleUser, ReferralCode: "DUPCODE1",
	})
	if err != nil {
		t.Fatalf("first Create failed: %v", err)
	}

	_, err = store.Create(ctx, models.User{
		FullName: "Second", Email: "DUP@example.com",
		Role: models.RoleUser, ReferralCode: "DUPCODE2",
	})
	if !errors.Is(err, userstore.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestCreate_DuplicateReferralCode(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	store := userstore.New(db)

	_, err := store.Create(ctx, models.User{
		FullName: "First", Email: "one@example.com",
		Role: models.RoleUser, ReferralCode: "SAMECODE",
	})
	if err != nil {
		t.Fatalf("first Create failed: %v", err)
	}

	_, err = store.Create(ctx, models.User{
		FullName: "Second", Email: "two@example.com",
		Role: models.RoleUser, ReferralCode: "SAMECODE",
	})
	if !errors.Is(err, userstore.ErrDuplicateCode) {
		t.Fatalf("expected ErrDuplicateCode, got %v", err)
	}
}

func TestCreditProfit_IncrementsBalanceAndStampsDate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	user := fx.CreateInvestor(ctx, "Earner", "earner@example.com")
	store := userstore.New(db)

	at := time.Now().UTC()
	if err := store.CreditProfit(ctx, user.ID, 1.25, at); err != nil {
		t.Fatalf("CreditProfit failed: %v", err)
	}
	if err := store.CreditProfit(ctx, user.ID, 0.75, at); err != nil {
		t.Fatalf("second CreditProfit failed: %v", err)
	}

	got, err := store.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Balance.Total != 2.0 {
		t.Errorf("total: got %v, want 2.0", got.Balance.Total)
	}
	if got.Balance.Available != 2.0 {
		t.Errorf("available: got %v, want 2.0", got.Balance.Available)
	}
	if got.Balance.TotalProfit != 2.0 {
		t.Errorf("total_profit: got %v, want 2.0", got.Balance.TotalProfit)
	}
	if got.Balance.LastProfitDate == nil {
		t.Error("expected last_profit_date to be stamped")
	}
	if got.Balance.ReferralEarnings != 0 {
		t.Errorf("referral_earnings should be untouched, got %v", got.Balance.ReferralEarnings)
	}
}

func TestCreditCommission_TracksReferralEarnings(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	user := fx.CreateInvestor(ctx, "Referrer", "ref@example.com")
	store := userstore.New(db)

	if err := store.CreditCommission(ctx, user.ID, 0.017, time.Now().UTC()); err != nil {
		t.Fatalf("CreditCommission failed: %v", err)
	}

	got, err := store.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Balance.ReferralEarnings != 0.017 {
		t.Errorf("referral_earnings: got %v, want 0.017", got.Balance.ReferralEarnings)
	}
	if got.Balance.Total != 0.017 {
		t.Errorf("total: got %v, want 0.017", got.Balance.Total)
	}
	if got.Balance.TotalProfit != 0 {
		t.Errorf("total_profit should be untouched, got %v", got.Balance.TotalProfit)
	}
}

func TestReserveWithdrawal_InsufficientFunds(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	user := fx.CreateInvestor(ctx, "Poor", "poor@example.com")
	store := userstore.New(db)

	if err := store.CreditProfit(ctx, user.ID, 5, time.Now().UTC()); err != nil {
		t.Fatalf("CreditProfit failed: %v", err)
	}

	err := store.ReserveWithdrawal(ctx, user.ID, 10)
	if !errors.Is(err, userstore.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	// A failed reservation must not change the balance.
	got, _ := store.GetByID(ctx, user.ID)
	if got.Balance.Available != 5 {
		t.Errorf("available after failed reserve: got %v, want 5", got.Balance.Available)
	}
}

func TestReserveReleaseSettle_Lifecycle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	user := fx.CreateInvestor(ctx, "Saver", "saver@example.com")
	store := userstore.New(db)

	if err := store.CreditProfit(ctx, user.ID, 100, time.Now().UTC()); err != nil {
		t.Fatalf("CreditProfit failed: %v", err)
	}

	// Reserve 40: available drops, total holds.
	if err := store.ReserveWithdrawal(ctx, user.ID, 40); err != nil {
		t.Fatalf("ReserveWithdrawal failed: %v", err)
	}
	got, _ := store.GetByID(ctx, user.ID)
	if got.Balance.Available != 60 || got.Balance.Total != 100 {
		t.Fatalf("after reserve: available=%v total=%v, want 60/100", got.Balance.Available, got.Balance.Total)
	}

	// Release: funds come back.
	if err := store.ReleaseWithdrawal(ctx, user.ID, 40); err != nil {
		t.Fatalf("ReleaseWithdrawal failed: %v", err)
	}
	got, _ = store.GetByID(ctx, user.ID)
	if got.Balance.Available != 100 {
		t.Fatalf("after release: available=%v, want 100", got.Balance.Available)
	}

	// Reserve and settle: total drops, available stays reduced.
	if err := store.ReserveWithdrawal(ctx, user.ID, 30); err != nil {
		t.Fatalf("second ReserveWithdrawal failed: %v", err)
	}
	if err := store.SettleWithdrawal(ctx, user.ID, 30); err != nil {
		t.Fatalf("SettleWithdrawal failed: %v", err)
	}
	got, _ = store.GetByID(ctx, user.ID)
	if got.Balance.Total != 70 || got.Balance.Available != 70 {
		t.Fatalf("after settle: available=%v total=%v, want 70/70", got.Balance.Available, got.Balance.Total)
	}
}

func TestGetByReferralCode(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	user := fx.CreateInvestor(ctx, "Coded", "coded@example.com")
	store := userstore.New(db)

	got, err := store.GetByReferralCode(ctx, user.ReferralCode)
	if err != nil {
		t.Fatalf("GetByReferralCode failed: %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("got user %s, want %s", got.ID.Hex(), user.ID.Hex())
	}
}
