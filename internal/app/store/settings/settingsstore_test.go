package settingsstore_test

import (
	"testing"
	"time"

	settingsstore "github.com/dalemusser/yieldhub/internal/app/store/settings"
	"github.com/dalemusser/yieldhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
)

func TestGet_MissingDocumentReturnsDefaults(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := settingsstore.New(db)

	settings, err := store.Get(ctx)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if settings.LastProfitDistribution != nil {
		t.Error("expected no distribution stamp on a fresh deployment")
	}
}

func TestMarkDistribution_UpsertsSingleton(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := settingsstore.New(db)

	first := time.Date(2026, 8, 28, 0, 5, 0, 0, time.UTC)
	if err := store.MarkDistribution(ctx, "run-1", first); err != nil {
		t.Fatalf("first MarkDistribution failed: %v", err)
	}

	second := first.Add(24 * time.Hour)
	if err := store.MarkDistribution(ctx, "run-2", second); err != nil {
		t.Fatalf("second MarkDistribution failed: %v", err)
	}

	settings, err := store.Get(ctx)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if settings.LastDistributionRunID != "run-2" {
		t.Errorf("run id: got %q, want run-2", settings.LastDistributionRunID)
	}
	if settings.LastProfitDistribution == nil || !settings.LastProfitDistribution.Equal(second) {
		t.Errorf("stamp: got %v, want %v", settings.LastProfitDistribution, second)
	}

	// Still one document after two marks.
	count, err := db.Collection("system_settings").CountDocuments(ctx, bson.M{})
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected singleton document, got %d", count)
	}
}
