// internal/app/store/investments/investmentstore.go
package investmentstore

import (
	"context"
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
	return &Store{c: db.Collection("investments")}
}

// Create inserts a new investment.
func (s *Store) Create(ctx context.Context, inv models.Investment) (models.Investment, error) {
	inv.ID = primitive.NewObjectID()
	now := time.Now()
	inv.CreatedAt = now
	inv.UpdatedAt = now
	if inv.Status == "" {
		inv.Status = models.InvestmentPending
	}
	if _, err := s.c.InsertOne(ctx, inv); err != nil {
		return models.Investment{}, err
	}
	return inv, nil
}

// GetByID loads an investment by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Investment, error) {
	var inv models.Investment
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

// ListByUser returns a user's investments, newest first.
func (s *Store) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Investment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Investment
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// List returns investments newest first, optionally filtered by status.
func (s *Store) List(ctx context.Context, status string, limit int64) ([]models.Investment, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Investment
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// EligibleForDistribution returns every investment that receives profit
// on a run: is_active and status confirmed. Ordered by _id so runs
// process investments in a stable order. No pagination; the active set
// is assumed to fit one query result.
func (s *Store) EligibleForDistribution(ctx context.Context) ([]models.Investment, error) {
	filter := bson.M{
		"is_active": true,
		"status":    models.InvestmentConfirmed,
	}
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Investment
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ApplyProfit compounds a day's profit into the principal. Amount and
// the cumulative counter are incremented, never overwritten.
func (s *Store) ApplyProfit(ctx context.Context, id primitive.ObjectID, profit float64, at time.Time) error {
	update := bson.M{
		"$inc": bson.M{
			"amount":                 profit,
			"total_profit_generated": profit,
		},
		"$set": bson.M{"updated_at": at},
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// SetStatus moves an investment through its review lifecycle. Confirming
// also activates it; rejecting deactivates it. Investments are never
// deleted.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	set := bson.M{
		"status":     status,
		"updated_at": time.Now(),
	}
	switch status {
	case models.InvestmentConfirmed:
		set["is_active"] = true
	case models.InvestmentRejected:
		set["is_active"] = false
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Deactivate stops an investment from earning without touching its
// status history.
func (s *Store) Deactivate(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"is_active": false, "updated_at": time.Now()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
