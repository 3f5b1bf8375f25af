package withdrawals_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	withdrawalsfeature "github.com/dalemusser/yieldhub/internal/app/features/withdrawals"
	userstore "github.com/dalemusser/yieldhub/internal/app/store/users"
	"github.com/dalemusser/yieldhub/internal/domain/models"
	"github.com/dalemusser/yieldhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

func TestCreate_ReservesBalance(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	owner := fx.CreateInvestor(ctx, "Saver", "saver@example.com")

	users := userstore.New(db)
	if err := users.CreditProfit(ctx, owner.ID, 100, owner.CreatedAt); err != nil {
		t.Fatalf("seed balance: %v", err)
	}

	h := withdrawalsfeature.NewHandler(db, db.Client(), nil, zap.NewNop())

	req := testutil.NewJSONRequest(t, "POST", "/", map[string]any{
		"amount":  40.0,
		"address": "payout-wallet-1",
	})
	req = testutil.WithUser(req, testutil.TestUser{ID: owner.ID.Hex(), Role: "user"})
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("got %d, want 201: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Data models.Withdrawal `json:"data"`
	}
	testutil.DecodeJSON(t, rec, &resp)
	if resp.Data.Status != models.ReviewPending {
		t.Errorf("status: got %q, want pending", resp.Data.Status)
	}
	if resp.Data.Reference == "" {
		t.Error("expected a reference to be assigned")
	}

	after, err := users.GetByID(ctx, owner.ID)
	if err != nil {
		t.Fatalf("reload owner: %v", err)
	}
	if after.Balance.Available != 60 {
		t.Errorf("available: got %v, want 60", after.Balance.Available)
	}
	if after.Balance.Total != 100 {
		t.Errorf("total: got %v, want 100 until the withdrawal is approved", after.Balance.Total)
	}
}

func TestCreate_InsufficientFunds(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	owner := fx.CreateInvestor(ctx, "Broke", "broke@example.com")

	if err := userstore.New(db).CreditProfit(ctx, owner.ID, 15, owner.CreatedAt); err != nil {
		t.Fatalf("seed balance: %v", err)
	}

	h := withdrawalsfeature.NewHandler(db, db.Client(), nil, zap.NewNop())

	req := testutil.NewJSONRequest(t, "POST", "/", map[string]any{
		"amount":  50.0,
		"address": "payout-wallet-1",
	})
	req = testutil.WithUser(req, testutil.TestUser{ID: owner.ID.Hex(), Role: "user"})
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("got %d, want 422: %s", rec.Code, rec.Body.String())
	}

	// Nothing should have been written on the failed path.
	n, err := db.Collection("withdrawals").CountDocuments(ctx, bson.M{"user_id": owner.ID})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Errorf("withdrawal documents: got %d, want 0", n)
	}
}

func TestCreate_BelowMinimumRejected(t *testing.T) {
	db := testutil.SetupTestDB(t)

	h := withdrawalsfeature.NewHandler(db, db.Client(), nil, zap.NewNop())

	req := testutil.NewJSONRequest(t, "POST", "/", map[string]any{
		"amount":  withdrawalsfeature.MinWithdrawal - 1,
		"address": "payout-wallet-1",
	})
	req = testutil.WithUser(req, testutil.InvestorUser())
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("got %d, want 400", rec.Code)
	}
}
