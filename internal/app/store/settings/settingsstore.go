// internal/app/store/settings/settingsstore.go
package settingsstore

import (
	"context"
	"time"

	"github.com/dalemusser/yieldhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store provides access to the system_settings singleton document.
type Store struct {
	c *mongo.Collection
}

// New creates a new settings store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("system_settings")}
}

// Get returns the settings document. If none exists yet, returns an
// empty settings value (valid default) rather than an error.
func (s *Store) Get(ctx context.Context) (models.SystemSettings, error) {
	var settings models.SystemSettings
	err := s.c.FindOne(ctx, bson.M{"key": models.SettingsKey}).Decode(&settings)
	if err == mongo.ErrNoDocuments {
		return models.SystemSettings{Key: models.SettingsKey}, nil
	}
	if err != nil {
		return models.SystemSettings{}, err
	}
	return settings, nil
}

// MarkDistribution stamps the last successful distribution run. The
// timestamp is informational for the admin console, not a concurrency
// guard. Uses upsert so it works whether the document exists or not.
func (s *Store) MarkDistribution(ctx context.Context, runID string, at time.Time) error {
	filter := bson.M{"key": models.SettingsKey}
	update := bson.M{
		"$set": bson.M{
			"last_profit_distribution": at,
			"last_distribution_run_id": runID,
			"updated_at":               time.Now().UTC(),
		},
		"$setOnInsert": bson.M{
			"_id": primitive.NewObjectID(),
			"key": models.SettingsKey,
		},
	}
	opts := options.Update().SetUpsert(true)
	_, err := s.c.UpdateOne(ctx, filter, update, opts)
	return err
}
