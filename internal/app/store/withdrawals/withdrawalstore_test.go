package withdrawalstore_test

import (
	"errors"
	"testing"

	withdrawalstore "github.com/dalemusser/yieldhub/internal/app/store/withdrawals"
	"github.com/dalemusser/yieldhub/internal/domain/models"
	"github.com/dalemusser/yieldhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMarkReviewed_ApproveThenRejectLoses(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	user := fx.CreateInvestor(ctx, "Cashout", "cash@example.com")
	wd := fx.CreateWithdrawal(ctx, user.ID, 50)

	store := withdrawalstore.New(db)
	admin := primitive.NewObjectID()

	if err := store.MarkReviewed(ctx, wd.ID, models.ReviewApproved, admin); err != nil {
		t.Fatalf("approve failed: %v", err)
	}

	err := store.MarkReviewed(ctx, wd.ID, models.ReviewRejected, admin)
	if !errors.Is(err, withdrawalstore.ErrAlreadyReviewed) {
		t.Fatalf("expected ErrAlreadyReviewed, got %v", err)
	}

	got, err := store.GetByID(ctx, wd.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Status != models.ReviewApproved {
		t.Errorf("status: got %q, want approved", got.Status)
	}
}

func TestListByUser_OnlyOwnRequests(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	alice := fx.CreateInvestor(ctx, "Alice", "alice@example.com")
	bob := fx.CreateInvestor(ctx, "Bob", "bob@example.com")

	fx.CreateWithdrawal(ctx, alice.ID, 25)
	fx.CreateWithdrawal(ctx, alice.ID, 75)
	fx.CreateWithdrawal(ctx, bob.ID, 10)

	store := withdrawalstore.New(db)

	ws, err := store.ListByUser(ctx, alice.ID)
	if err != nil {
		t.Fatalf("ListByUser failed: %v", err)
	}
	if len(ws) != 2 {
		t.Fatalf("expected 2 withdrawals, got %d", len(ws))
	}
	for _, w := range ws {
		if w.UserID != alice.ID {
			t.Errorf("leaked another user's withdrawal: %s", w.ID.Hex())
		}
	}
}
