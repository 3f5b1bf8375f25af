// internal/domain/models/profitrecord.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DailyProfitRecord is an append-only audit entry for one profit event
// on one investment. Exactly one record exists per (investment, date);
// a unique index enforces this so overlapping runs cannot double-pay.
// Immutable once created.
type DailyProfitRecord struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID       primitive.ObjectID `bson:"user_id" json:"user_id"`
	InvestmentID primitive.ObjectID `bson:"investment_id" json:"investment_id"`

	// Date is the calendar day of the distribution, "YYYY-MM-DD" in the
	// distribution time zone.
	Date string `bson:"date" json:"date"`

	Amount           float64 `bson:"amount" json:"amount"`
	InvestmentAmount float64 `bson:"investment_amount" json:"investment_amount"` // principal before this event
	DailyRate        float64 `bson:"daily_rate" json:"daily_rate"`               // rate snapshot

	IsProcessed bool       `bson:"is_processed" json:"is_processed"`
	ProcessedAt *time.Time `bson:"processed_at,omitempty" json:"processed_at,omitempty"`
	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
}

// ProfitDateLayout is the calendar-day format used on profit and
// commission records.
const ProfitDateLayout = "2006-01-02"
