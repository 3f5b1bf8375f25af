// internal/domain/models/referral.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReferralEdge records that ReferrerID referred ReferredID. Each user has
// at most one incoming edge (unique index on referred_id), so the edges
// form a forest; multi-level chains are discovered by repeated upward
// lookups, not stored flat. Immutable once created.
type ReferralEdge struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ReferrerID primitive.ObjectID `bson:"referrer_id" json:"referrer_id"`
	ReferredID primitive.ObjectID `bson:"referred_id" json:"referred_id"`
	Level      int                `bson:"level" json:"level"` // always 1 at creation
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}
