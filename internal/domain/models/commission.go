// internal/domain/models/commission.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReferralCommissionRecord is an append-only audit entry for one
// commission credited to one ancestor referrer for one profit event.
// Immutable once created.
type ReferralCommissionRecord struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ReferrerID primitive.ObjectID `bson:"referrer_id" json:"referrer_id"`
	ReferredID primitive.ObjectID `bson:"referred_id" json:"referred_id"`

	Level            int     `bson:"level" json:"level"` // 1..5, distance from the profit source
	SourceProfit     float64 `bson:"source_profit" json:"source_profit"`
	CommissionAmount float64 `bson:"commission_amount" json:"commission_amount"`
	CommissionRate   float64 `bson:"commission_rate" json:"commission_rate"`

	Date      string    `bson:"date" json:"date"` // "YYYY-MM-DD"
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
