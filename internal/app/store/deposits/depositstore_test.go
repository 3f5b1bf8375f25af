package depositstore_test

import (
	"errors"
	"testing"
	"time"

	depositstore "github.com/dalemusser/yieldhub/internal/app/store/deposits"
	"github.com/dalemusser/yieldhub/internal/domain/models"
	"github.com/dalemusser/yieldhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreate_ForcesPendingStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := depositstore.New(db)

	// Callers cannot smuggle in a pre-approved request.
	created, err := store.Create(ctx, models.Deposit{
		UserID: primitive.NewObjectID(),
		PlanID: "growth",
		Amount: 1500,
		Method: "bank",
		Status: models.ReviewApproved,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.Status != models.ReviewPending {
		t.Errorf("status: got %q, want pending", created.Status)
	}
}

func TestMarkReviewed_SecondDecisionLoses(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	user := fx.CreateInvestor(ctx, "Depositor", "dep@example.com")
	dep := fx.CreateDeposit(ctx, user.ID, "growth", 1500)

	store := depositstore.New(db)
	admin := primitive.NewObjectID()

	if err := store.MarkReviewed(ctx, dep.ID, models.ReviewApproved, admin); err != nil {
		t.Fatalf("first review failed: %v", err)
	}

	// A racing second decision must not flip the outcome.
	err := store.MarkReviewed(ctx, dep.ID, models.ReviewRejected, primitive.NewObjectID())
	if !errors.Is(err, depositstore.ErrAlreadyReviewed) {
		t.Fatalf("expected ErrAlreadyReviewed, got %v", err)
	}

	got, err := store.GetByID(ctx, dep.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Status != models.ReviewApproved {
		t.Errorf("status: got %q, want approved", got.Status)
	}
	if got.ReviewedBy == nil || *got.ReviewedBy != admin {
		t.Error("reviewed_by should record the winning admin")
	}
}

func TestListPending_OldestFirst(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	user := fx.CreateInvestor(ctx, "Queue", "queue@example.com")

	first := fx.CreateDeposit(ctx, user.ID, "starter", 100)
	// BSON timestamps are millisecond precision; keep arrival order
	// unambiguous.
	time.Sleep(5 * time.Millisecond)
	second := fx.CreateDeposit(ctx, user.ID, "growth", 2000)
	time.Sleep(5 * time.Millisecond)

	store := depositstore.New(db)
	admin := primitive.NewObjectID()

	// A reviewed deposit leaves the queue.
	reviewed := fx.CreateDeposit(ctx, user.ID, "starter", 200)
	if err := store.MarkReviewed(ctx, reviewed.ID, models.ReviewRejected, admin); err != nil {
		t.Fatalf("MarkReviewed failed: %v", err)
	}

	pending, err := store.ListPending(ctx)
	if err != nil {
		t.Fatalf("ListPending failed: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("expected 2 pending, got %d", len(pending))
	}
	if pending[0].ID != first.ID || pending[1].ID != second.ID {
		t.Error("expected queue in arrival order")
	}
}
