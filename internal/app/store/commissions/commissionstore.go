// internal/app/store/commissions/commissionstore.go
package commissionstore

import (
	"context"
	"time"

	"github.com/dalemusser/yieldhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store provides access to the referral_commissions collection:
// append-only audit entries, one per (chain level, profit event).
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("referral_commissions")}
}

// Create appends a commission record.
func (s *Store) Create(ctx context.Context, rec models.ReferralCommissionRecord) (models.ReferralCommissionRecord, error) {
	rec.ID = primitive.NewObjectID()
	rec.CreatedAt = time.Now()
	if _, err := s.c.InsertOne(ctx, rec); err != nil {
		return models.ReferralCommissionRecord{}, err
	}
	return rec, nil
}

// ListByReferrer returns commissions earned by a user, newest first.
func (s *Store) ListByReferrer(ctx context.Context, referrerID primitive.ObjectID, limit int64) ([]models.ReferralCommissionRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cur, err := s.c.Find(ctx, bson.M{"referrer_id": referrerID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.ReferralCommissionRecord
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
