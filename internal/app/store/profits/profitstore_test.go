package profitstore_test

import (
	"errors"
	"testing"
	"time"

	profitstore "github.com/dalemusser/yieldhub/internal/app/store/profits"
	"github.com/dalemusser/yieldhub/internal/app/system/indexes"
	"github.com/dalemusser/yieldhub/internal/domain/models"
	"github.com/dalemusser/yieldhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func record(invID, userID primitive.ObjectID, date string, amount float64) models.DailyProfitRecord {
	return models.DailyProfitRecord{
		InvestmentID:     invID,
		UserID:           userID,
		Date:             date,
		Amount:           amount,
		DailyRate:        0.85,
		InvestmentAmount: 100,
	}
}

func TestCreate_DuplicateDayRejected(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	store := profitstore.New(db)
	invID := primitive.NewObjectID()
	userID := primitive.NewObjectID()

	if _, err := store.Create(ctx, record(invID, userID, "2026-08-29", 0.85)); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}

	// Same investment, same day: the unique index is the guard that
	// stops a second run from paying twice.
	_, err := store.Create(ctx, record(invID, userID, "2026-08-29", 0.85))
	if !errors.Is(err, profitstore.ErrDuplicateDay) {
		t.Fatalf("expected ErrDuplicateDay, got %v", err)
	}

	// Same investment, next day: fine.
	if _, err := store.Create(ctx, record(invID, userID, "2026-08-30", 0.86)); err != nil {
		t.Fatalf("next-day Create failed: %v", err)
	}

	// Different investment, same day: fine.
	if _, err := store.Create(ctx, record(primitive.NewObjectID(), userID, "2026-08-29", 0.5)); err != nil {
		t.Fatalf("other-investment Create failed: %v", err)
	}
}

func TestExistsForDate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := profitstore.New(db)
	invID := primitive.NewObjectID()

	exists, err := store.ExistsForDate(ctx, invID, "2026-08-29")
	if err != nil {
		t.Fatalf("ExistsForDate failed: %v", err)
	}
	if exists {
		t.Error("expected no record yet")
	}

	if _, err := store.Create(ctx, record(invID, primitive.NewObjectID(), "2026-08-29", 1)); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	exists, err = store.ExistsForDate(ctx, invID, "2026-08-29")
	if err != nil {
		t.Fatalf("ExistsForDate failed: %v", err)
	}
	if !exists {
		t.Error("expected record to exist")
	}
}

func TestInvestmentIDsForDate_AndCount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := profitstore.New(db)
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()
	userID := primitive.NewObjectID()

	for _, id := range []primitive.ObjectID{a, b} {
		if _, err := store.Create(ctx, record(id, userID, "2026-08-29", 1)); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}
	if _, err := store.Create(ctx, record(a, userID, "2026-08-30", 1)); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	ids, err := store.InvestmentIDsForDate(ctx, "2026-08-29")
	if err != nil {
		t.Fatalf("InvestmentIDsForDate failed: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("expected 2 ids, got %d", len(ids))
	}
	if _, ok := ids[a]; !ok {
		t.Error("missing investment a")
	}
	if _, ok := ids[b]; !ok {
		t.Error("missing investment b")
	}

	count, err := store.CountForDate(ctx, "2026-08-30")
	if err != nil {
		t.Fatalf("CountForDate failed: %v", err)
	}
	if count != 1 {
		t.Errorf("count: got %d, want 1", count)
	}
}

func TestListByInvestment_NewestFirst(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := profitstore.New(db)
	invID := primitive.NewObjectID()
	userID := primitive.NewObjectID()

	if _, err := store.Create(ctx, record(invID, userID, "2026-08-28", 1)); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	// Store stamps created_at at insert time, so insertion order is
	// recency order.
	time.Sleep(5 * time.Millisecond)
	if _, err := store.Create(ctx, record(invID, userID, "2026-08-29", 2)); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	recs, err := store.ListByInvestment(ctx, invID, 10)
	if err != nil {
		t.Fatalf("ListByInvestment failed: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if recs[0].Date != "2026-08-29" {
		t.Errorf("expected newest first, got %s", recs[0].Date)
	}
}
