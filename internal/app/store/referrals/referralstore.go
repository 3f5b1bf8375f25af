// internal/app/store/referrals/referralstore.go
package referralstore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/yieldhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Store provides access to the referrals collection. Each user has at
// most one incoming edge (unique index on referred_id), so the edges
// form a forest walked upward by repeated ReferrerOf lookups.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("referrals")}
}

// ErrAlreadyReferred is returned when the referred user already has a
// referrer edge.
var ErrAlreadyReferred = errors.New("user already has a referrer")

// Create records that referrer referred referred. Level is always 1;
// deeper levels are derived by walking, never stored.
func (s *Store) Create(ctx context.Context, referrerID, referredID primitive.ObjectID) (models.ReferralEdge, error) {
	edge := models.ReferralEdge{
		ID:         primitive.NewObjectID(),
		ReferrerID: referrerID,
		ReferredID: referredID,
		Level:      1,
		CreatedAt:  time.Now(),
	}
	if _, err := s.c.InsertOne(ctx, edge); err != nil {
		if wafflemongo.IsDup(err) {
			return models.ReferralEdge{}, ErrAlreadyReferred
		}
		return models.ReferralEdge{}, err
	}
	return edge, nil
}

// ReferrerOf returns the edge pointing at referredID, or (nil, nil) when
// the user has no referrer. A missing referrer is a normal outcome, not
// an error.
func (s *Store) ReferrerOf(ctx context.Context, referredID primitive.ObjectID) (*models.ReferralEdge, error) {
	var edge models.ReferralEdge
	err := s.c.FindOne(ctx, bson.M{"referred_id": referredID}).Decode(&edge)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &edge, nil
}

// ListByReferrer returns the direct referrals made by a user.
func (s *Store) ListByReferrer(ctx context.Context, referrerID primitive.ObjectID) ([]models.ReferralEdge, error) {
	cur, err := s.c.Find(ctx, bson.M{"referrer_id": referrerID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.ReferralEdge
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
