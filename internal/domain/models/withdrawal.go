// internal/domain/models/withdrawal.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Withdrawal is a user's request to take money out of their available
// balance. The requested amount is reserved (available decremented by
// $inc) when the request is created; rejection restores it.
type Withdrawal struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID primitive.ObjectID `bson:"user_id" json:"user_id"`

	Amount  float64 `bson:"amount" json:"amount"`
	Address string  `bson:"address" json:"address"` // payout destination
	Note    string  `bson:"note,omitempty" json:"note,omitempty"`

	Status    string `bson:"status" json:"status"` // pending | approved | rejected
	Reference string `bson:"reference" json:"reference"`

	ReviewedBy *primitive.ObjectID `bson:"reviewed_by,omitempty" json:"reviewed_by,omitempty"`
	ReviewedAt *time.Time          `bson:"reviewed_at,omitempty" json:"reviewed_at,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
