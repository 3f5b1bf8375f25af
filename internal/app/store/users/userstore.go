package userstore

import (
	"context"
	"errors"
	"strings"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/dalemusser/yieldhub/internal/app/system/normalize"
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
	return &Store{c: db.Collection("users")}
}

var (
	// ErrDuplicateEmail is returned when attempting to create a user with an email that already exists.
	ErrDuplicateEmail = errors.New("a user with this email already exists")
	// ErrDuplicateCode is returned when a generated referral code collides with an existing one.
	ErrDuplicateCode = errors.New("referral code already in use")
	// ErrInsufficientFunds is returned when a balance reservation exceeds the available balance.
	ErrInsufficientFunds = errors.New("insufficient available balance")
	errBadRole           = errors.New(`role must be "admin"|"user"`)
	errBadStatus         = errors.New(`status must be "active"|"disabled"`)
)

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail looks up a user by case-insensitive email. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByReferralCode looks up the owner of a referral code.
func (s *Store) GetByReferralCode(ctx context.Context, code string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"referral_code": code}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user after normalizing & validating fields.
// PasswordHash and ReferralCode must be set by the caller.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = primitive.NewObjectID()
	u.FullName = normalize.Name(u.FullName)
	u.FullNameCI = text.Fold(u.FullName)
	u.Email = normalize.Email(u.Email)
	if u.Status == "" {
		u.Status = "active"
	}

	switch u.Role {
	case models.RoleAdmin, models.RoleUser:
		// ok
	default:
		return models.User{}, errBadRole
	}

	switch u.Status {
	case "active", "disabled":
		// ok
	default:
		return models.User{}, errBadStatus
	}

	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			// Two unique indexes can trip here; the driver names the
			// offending index in the error text.
			if strings.Contains(err.Error(), "referral_code") {
				return models.User{}, ErrDuplicateCode
			}
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// CreditProfit additively credits a daily profit to the user's balance.
// Balance fields are only ever $inc'd; deposit approval, withdrawal
// processing, and commission propagation write the same fields
// concurrently, and increments cannot lose each other's updates.
func (s *Store) CreditProfit(ctx context.Context, userID primitive.ObjectID, amount float64, at time.Time) error {
	update := bson.M{
		"$inc": bson.M{
			"balance.total":        amount,
			"balance.available":    amount,
			"balance.total_profit": amount,
		},
		"$set": bson.M{
			"balance.last_profit_date": at,
			"updated_at":               at,
		},
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": userID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// CreditCommission additively credits a referral commission.
func (s *Store) CreditCommission(ctx context.Context, userID primitive.ObjectID, amount float64, at time.Time) error {
	update := bson.M{
		"$inc": bson.M{
			"balance.total":             amount,
			"balance.available":         amount,
			"balance.referral_earnings": amount,
		},
		"$set": bson.M{"updated_at": at},
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": userID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// ReserveWithdrawal decrements available by amount, failing with
// ErrInsufficientFunds when the available balance is smaller. The
// condition and the decrement are one document update, so two
// simultaneous requests cannot both reserve the last funds.
func (s *Store) ReserveWithdrawal(ctx context.Context, userID primitive.ObjectID, amount float64) error {
	filter := bson.M{
		"_id":               userID,
		"balance.available": bson.M{"$gte": amount},
	}
	update := bson.M{
		"$inc": bson.M{"balance.available": -amount},
		"$set": bson.M{"updated_at": time.Now()},
	}
	res, err := s.c.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrInsufficientFunds
	}
	return nil
}

// ReleaseWithdrawal restores a previously reserved amount after a
// withdrawal is rejected.
func (s *Store) ReleaseWithdrawal(ctx context.Context, userID primitive.ObjectID, amount float64) error {
	update := bson.M{
		"$inc": bson.M{"balance.available": amount},
		"$set": bson.M{"updated_at": time.Now()},
	}
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": userID}, update)
	return err
}

// SettleWithdrawal removes an approved withdrawal's amount from total.
// The available balance was already decremented at reservation time.
func (s *Store) SettleWithdrawal(ctx context.Context, userID primitive.ObjectID, amount float64) error {
	update := bson.M{
		"$inc": bson.M{"balance.total": -amount},
		"$set": bson.M{"updated_at": time.Now()},
	}
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": userID}, update)
	return err
}

// List returns users newest first, for the admin console.
func (s *Store) List(ctx context.Context, limit int64) ([]models.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.User
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SetRole changes an account's role.
func (s *Store) SetRole(ctx context.Context, id primitive.ObjectID, role string) error {
	switch role {
	case models.RoleAdmin, models.RoleUser:
	default:
		return errBadRole
	}
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"role": role, "updated_at": time.Now()}})
	return err
}

// SetStatus enables or disables an account.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	switch status {
	case "active", "disabled":
	default:
		return errBadStatus
	}
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now()}})
	return err
}
