// internal/domain/models/deposit.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review statuses shared by deposits and withdrawals.
const (
	ReviewPending  = "pending"
	ReviewApproved = "approved"
	ReviewRejected = "rejected"
)

// Deposit is a user's request to fund a new investment. Admin approval
// creates the confirmed Investment; rejection leaves no investment.
type Deposit struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID primitive.ObjectID `bson:"user_id" json:"user_id"`
	PlanID string             `bson:"plan_id" json:"plan_id"`

	Amount float64 `bson:"amount" json:"amount"`
	Method string  `bson:"method" json:"method"` // e.g. "bank", "crypto"
	Note   string  `bson:"note,omitempty" json:"note,omitempty"`

	Status    string `bson:"status" json:"status"` // pending | approved | rejected
	Reference string `bson:"reference" json:"reference"`

	ReviewedBy *primitive.ObjectID `bson:"reviewed_by,omitempty" json:"reviewed_by,omitempty"`
	ReviewedAt *time.Time          `bson:"reviewed_at,omitempty" json:"reviewed_at,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
