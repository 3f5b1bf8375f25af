package userstore

import (
	"context"

	"github.com/dalemusser/yieldhub/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fetcher adapts the user store to auth.UserFetcher so session
// middleware loads fresh user data on every request. Disabled accounts
// are treated as signed out.
type Fetcher struct {
	store *Store
}

// NewFetcher creates a session-user fetcher backed by the users collection.
func NewFetcher(db *mongo.Database) *Fetcher {
	return &Fetcher{store: New(db)}
}

// FetchSessionUser implements auth.UserFetcher.
func (f *Fetcher) FetchSessionUser(ctx context.Context, userID string) (*auth.SessionUser, bool) {
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, false
	}
	u, err := f.store.GetByID(ctx, id)
	if err != nil {
		return nil, false
	}
	if u.Status == "disabled" {
		return nil, false
	}
	return &auth.SessionUser{
		ID:    u.ID.Hex(),
		Name:  u.FullName,
		Email: u.Email,
		Role:  u.Role,
	}, true
}
