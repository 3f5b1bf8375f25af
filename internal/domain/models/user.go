// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents platform accounts: regular investors and admins.
//
// NOTE:
//   - Referral relationships are not embedded on User.
//     Use the referrals collection to discover who referred whom.
//   - Balance fields are only ever mutated with additive increments
//     ($inc); whole-document balance overwrites lose concurrent updates
//     from deposit approval, withdrawal processing, and distribution.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName     string             `bson:"full_name" json:"full_name"`
	FullNameCI   string             `bson:"full_name_ci" json:"full_name_ci"` // lowercase, diacritics-stripped
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password_hash,omitempty" json:"-"`
	Role         string             `bson:"role" json:"role"`                     // admin | user
	Status       string             `bson:"status,omitempty" json:"status,omitempty"` // active | disabled
	ReferralCode string             `bson:"referral_code" json:"referral_code"`

	Balance Balance `bson:"balance" json:"balance"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Balance is the embedded money summary on a User document.
type Balance struct {
	Total            float64    `bson:"total" json:"total"`
	Available        float64    `bson:"available" json:"available"`
	TotalProfit      float64    `bson:"total_profit" json:"total_profit"`
	ReferralEarnings float64    `bson:"referral_earnings" json:"referral_earnings"`
	LastProfitDate   *time.Time `bson:"last_profit_date,omitempty" json:"last_profit_date,omitempty"`
}

// Role values for User.Role.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
