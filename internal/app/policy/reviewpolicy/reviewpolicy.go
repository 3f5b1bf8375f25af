// Package reviewpolicy provides authorization policies for money
// movement and account data.
//
// Authorization rules:
//   - Admins review deposits and withdrawals and manage accounts
//   - Users see only their own investments, profits, and requests
//   - Visitors (no session) see nothing
package reviewpolicy

import (
	"net/http"

	"github.com/dalemusser/yieldhub/internal/app/system/authz"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CanReview reports whether the current user may approve or reject
// deposits and withdrawals.
func CanReview(r *http.Request) bool {
	return authz.IsAdmin(r)
}

// CanViewAccount reports whether the current user may read data owned
// by ownerID. Owners see their own data; admins see everyone's.
func CanViewAccount(r *http.Request, ownerID primitive.ObjectID) bool {
	if authz.IsAdmin(r) {
		return true
	}
	id, ok := authz.CurrentUserID(r)
	return ok && id == ownerID
}

// CanTriggerDistribution reports whether the current user may start a
// manual distribution run.
func CanTriggerDistribution(r *http.Request) bool {
	return authz.IsAdmin(r)
}
