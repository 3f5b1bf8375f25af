// internal/domain/models/systemsettings.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SystemSettings is the singleton operational-state document. The
// distribution timestamp is informational (shown to admins); it is not a
// concurrency guard. The per-(investment, date) unique index on
// daily_profits is what prevents double distribution.
type SystemSettings struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`

	// Key is always SettingsKey; the store upserts on it.
	Key string `bson:"key" json:"key"`

	LastProfitDistribution *time.Time `bson:"last_profit_distribution,omitempty" json:"last_profit_distribution,omitempty"`
	LastDistributionRunID  string     `bson:"last_distribution_run_id,omitempty" json:"last_distribution_run_id,omitempty"`

	UpdatedAt *time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// SettingsKey identifies the singleton settings document.
const SettingsKey = "global"
