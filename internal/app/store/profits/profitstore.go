// internal/app/store/profits/profitstore.go
package profitstore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/yieldhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store provides access to the daily_profits collection: one append-only
// record per (investment, date). The unique index on that pair is the
// double-distribution guard.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("daily_profits")}
}

// ErrDuplicateDay is returned when a profit record already exists for
// the (investment, date) pair. Callers treat it as "already distributed
// today", not as a failure.
var ErrDuplicateDay = errors.New("profit already recorded for this investment and date")

// Create appends a profit record. The record is immutable once written.
func (s *Store) Create(ctx context.Context, rec models.DailyProfitRecord) (models.DailyProfitRecord, error) {
	rec.ID = primitive.NewObjectID()
	rec.CreatedAt = time.Now()
	if _, err := s.c.InsertOne(ctx, rec); err != nil {
		if wafflemongo.IsDup(err) {
			return models.DailyProfitRecord{}, ErrDuplicateDay
		}
		return models.DailyProfitRecord{}, err
	}
	return rec, nil
}

// ExistsForDate reports whether a record exists for the investment on
// the given calendar day.
func (s *Store) ExistsForDate(ctx context.Context, investmentID primitive.ObjectID, date string) (bool, error) {
	count, err := s.c.CountDocuments(ctx, bson.M{"investment_id": investmentID, "date": date})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListByUser returns a user's profit history, newest first.
func (s *Store) ListByUser(ctx context.Context, userID primitive.ObjectID, limit int64) ([]models.DailyProfitRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cur, err := s.c.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.DailyProfitRecord
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByInvestment returns one investment's profit history, newest first.
func (s *Store) ListByInvestment(ctx context.Context, investmentID primitive.ObjectID, limit int64) ([]models.DailyProfitRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cur, err := s.c.Find(ctx, bson.M{"investment_id": investmentID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.DailyProfitRecord
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// InvestmentIDsForDate returns the set of investments that already have
// a record for the given day. The reconciliation job diffs this against
// the eligible set to find investments a crashed run skipped.
func (s *Store) InvestmentIDsForDate(ctx context.Context, date string) (map[primitive.ObjectID]struct{}, error) {
	opts := options.Find().SetProjection(bson.M{"investment_id": 1})
	cur, err := s.c.Find(ctx, bson.M{"date": date}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	ids := make(map[primitive.ObjectID]struct{})
	for cur.Next(ctx) {
		var row struct {
			InvestmentID primitive.ObjectID `bson:"investment_id"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		ids[row.InvestmentID] = struct{}{}
	}
	return ids, cur.Err()
}

// CountForDate returns how many profit records exist for a calendar day.
func (s *Store) CountForDate(ctx context.Context, date string) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"date": date})
}
