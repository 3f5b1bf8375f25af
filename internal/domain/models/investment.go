// internal/domain/models/investment.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Investment statuses. Investments are never deleted, only deactivated.
const (
	InvestmentPending   = "pending"
	InvestmentConfirmed = "confirmed"
	InvestmentRejected  = "rejected"
)

// Investment is a user's principal earning a fixed daily percentage.
//
// Amount compounds: each distribution run increments Amount by the day's
// profit, so the next run computes profit off the larger principal.
// Only the distribution engine and admin review flows mutate it.
type Investment struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID primitive.ObjectID `bson:"user_id" json:"user_id"`
	PlanID string             `bson:"plan_id" json:"plan_id"`

	Amount    float64 `bson:"amount" json:"amount"`
	DailyRate float64 `bson:"daily_rate" json:"daily_rate"` // percent per distribution event

	IsActive bool   `bson:"is_active" json:"is_active"`
	Status   string `bson:"status" json:"status"` // pending | confirmed | rejected

	TotalProfitGenerated float64 `bson:"total_profit_generated" json:"total_profit_generated"`

	// Reference is an opaque order number shown to the user.
	Reference string `bson:"reference" json:"reference"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Eligible reports whether this investment receives profit on a
// distribution run.
func (i *Investment) Eligible() bool {
	return i.IsActive && i.Status == InvestmentConfirmed
}
