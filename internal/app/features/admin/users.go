// internal/app/features/admin/users.go
package admin

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	auditstore "github.com/dalemusser/yieldhub/internal/app/store/audit"
	"github.com/dalemusser/yieldhub/internal/app/system/auditlog"
	"github.com/dalemusser/yieldhub/internal/app/system/authz"
	"github.com/dalemusser/yieldhub/internal/app/system/respond"
	"github.com/dalemusser/yieldhub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const userListLimit = 500

// ListUsers handles GET /admin/users.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	users, err := h.Users.List(ctx, userListLimit)
	if err != nil {
		h.Log.Error("admin: user list failed", zap.Error(err))
		respond.Internal(w)
		return
	}
	respond.JSON(w, http.StatusOK, users)
}

type statusRequest struct {
	Status string `json:"status"` // active | disabled
}

// SetUserStatus handles POST /admin/users/{userID}/status.
//
// Disabling takes effect on the user's next request because the
// session middleware reloads the account per request.
func (h *Handler) SetUserStatus(w http.ResponseWriter, r *http.Request) {
	actorID, ok := authz.CurrentUserID(r)
	if !ok {
		respond.Unauthorized(w)
		return
	}
	userID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "userID"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Status != "active" && req.Status != "disabled" {
		respond.Error(w, http.StatusBadRequest, `status must be "active" or "disabled"`)
		return
	}

	if userID == actorID {
		respond.Error(w, http.StatusUnprocessableEntity, "admins cannot change their own status")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if _, err := h.Users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			respond.Error(w, http.StatusNotFound, "user not found")
			return
		}
		h.Log.Error("admin: user load failed", zap.Error(err))
		respond.Internal(w)
		return
	}

	if err := h.Users.SetStatus(ctx, userID, req.Status); err != nil {
		h.Log.Error("admin: status update failed", zap.Error(err))
		respond.Internal(w)
		return
	}

	eventType := auditstore.EventUserDisabled
	if req.Status == "active" {
		eventType = auditstore.EventUserEnabled
	}
	h.AuditLog.Log(ctx, auditstore.Event{
		Category:  auditstore.CategoryAdmin,
		EventType: eventType,
		UserID:    &userID,
		ActorID:   &actorID,
		IP:        auditlog.ClientIP(r),
		Success:   true,
	})

	respond.JSON(w, http.StatusOK, map[string]string{"status": req.Status})
}
