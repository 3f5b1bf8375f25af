// internal/app/store/withdrawals/withdrawalstore.go
package withdrawalstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/yieldhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("withdrawals")}
}

// ErrAlreadyReviewed is returned when a review decision targets a
// withdrawal that is no longer pending.
var ErrAlreadyReviewed = errors.New("withdrawal has already been reviewed")

// Create inserts a pending withdrawal request. The caller must reserve
// the amount on the user's balance first.
func (s *Store) Create(ctx context.Context, w models.Withdrawal) (models.Withdrawal, error) {
	w.ID = primitive.NewObjectID()
	w.Status = models.ReviewPending
	now := time.Now()
	w.CreatedAt = now
	w.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, w); err != nil {
		return models.Withdrawal{}, err
	}
	return w, nil
}

// GetByID loads a withdrawal by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Withdrawal, error) {
	var w models.Withdrawal
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&w); err != nil {
		return nil, err
	}
	return &w, nil
}

// ListByUser returns a user's withdrawals, newest first.
func (s *Store) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Withdrawal, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Withdrawal
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListPending returns withdrawals awaiting review, oldest first.
func (s *Store) ListPending(ctx context.Context) ([]models.Withdrawal, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"status": models.ReviewPending}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Withdrawal
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MarkReviewed records the review decision. Only pending withdrawals
// can be reviewed; a second decision returns ErrAlreadyReviewed.
func (s *Store) MarkReviewed(ctx context.Context, id primitive.ObjectID, status string, reviewerID primitive.ObjectID) error {
	now := time.Now()
	filter := bson.M{"_id": id, "status": models.ReviewPending}
	update := bson.M{"$set": bson.M{
		"status":      status,
		"reviewed_by": reviewerID,
		"reviewed_at": now,
		"updated_at":  now,
	}}
	res, err := s.c.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrAlreadyReviewed
	}
	return nil
}
