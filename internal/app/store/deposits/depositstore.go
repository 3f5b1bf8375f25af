// internal/app/store/deposits/depositstore.go
package depositstore

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
	return &Store{c: db.Collection("deposits")}
}

// ErrAlreadyReviewed is returned when a review decision targets a
// deposit that is no longer pending. The status filter on the update
// makes two admins racing on the same deposit resolve to one winner.
var ErrAlreadyReviewed = errors.New("deposit has already been reviewed")

// Create inserts a pending deposit request.
func (s *Store) Create(ctx context.Context, d models.Deposit) (models.Deposit, error) {
	d.ID = primitive.NewObjectID()
	d.Status = models.ReviewPending
	now := time.Now()
	d.CreatedAt = now
	d.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, d); err != nil {
		return models.Deposit{}, err
	}
	return d, nil
}

// GetByID loads a deposit by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Deposit, error) {
	var d models.Deposit
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		return nil, err
	}
	return &d, nil
}

// ListByUser returns a user's deposits, newest first.
func (s *Store) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Deposit, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Deposit
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListPending returns deposits awaiting review, oldest first.
func (s *Store) ListPending(ctx context.Context) ([]models.Deposit, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"status": models.ReviewPending}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Deposit
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MarkReviewed records the review decision. Only pending deposits can
// be reviewed; a second decision returns ErrAlreadyReviewed.
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
