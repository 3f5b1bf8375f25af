// internal/app/features/login/handler.go
package login

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	auditstore "github.com/dalemusser/yieldhub/internal/app/store/audit"
	userstore "github.com/dalemusser/yieldhub/internal/app/store/users"
	"github.com/dalemusser/yieldhub/internal/app/system/auditlog"
	"github.com/dalemusser/yieldhub/internal/app/system/auth"
	"github.com/dalemusser/yieldhub/internal/app/system/normalize"
	"github.com/dalemusser/yieldhub/internal/app/system/respond"
	"github.com/dalemusser/yieldhub/internal/app/system/timeouts"
	"github.com/dalemusser/yieldhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type Handler struct {
	Users      *userstore.Store
	SessionMgr *auth.SessionManager
	AuditLog   *auditlog.Logger
	Log        *zap.Logger
}

func NewHandler(db *mongo.Database, sessionMgr *auth.SessionManager, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Users:      userstore.New(db),
		SessionMgr: sessionMgr,
		AuditLog:   audit,
		Log:        logger,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	User models.User `json:"user"`
}

// HandleLogin handles POST /login.
//
// Failed attempts get the same 401 message regardless of whether the
// account exists, so the endpoint cannot be used to probe for emails.
// The audit trail records the real reason.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	req.Email = normalize.Email(req.Email)
	if req.Email == "" || req.Password == "" {
		respond.Error(w, http.StatusBadRequest, "email and password are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	user, err := h.Users.GetByEmail(ctx, req.Email)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// Burn a hash compare anyway so the response time does not
		// reveal whether the account exists.
		_ = bcrypt.CompareHashAndPassword([]byte("$2a$10$000000000000000000000uGyyy1ZMnT2nOXrYhwdeLKYSj0uBjyy"), []byte(req.Password))
		h.auditFailure(ctx, r, nil, auditstore.EventLoginFailedUserNotFound, req.Email)
		respond.Error(w, http.StatusUnauthorized, "invalid email or password")
		return
	}
	if err != nil {
		h.Log.Error("login: user lookup failed", zap.Error(err))
		respond.Internal(w)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		h.auditFailure(ctx, r, &user.ID, auditstore.EventLoginFailedWrongPassword, req.Email)
		respond.Error(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	if user.Status == "disabled" {
		h.auditFailure(ctx, r, &user.ID, auditstore.EventLoginFailedUserDisabled, req.Email)
		respond.Error(w, http.StatusForbidden, "this account has been disabled")
		return
	}

	if err := h.SessionMgr.SignIn(w, r, user.ID.Hex()); err != nil {
		h.Log.Error("login: session create failed", zap.Error(err))
		respond.Internal(w)
		return
	}

	h.AuditLog.Log(ctx, auditstore.Event{
		Timestamp: time.Now().UTC(),
		Category:  auditstore.CategoryAuth,
		EventType: auditstore.EventLoginSuccess,
		UserID:    &user.ID,
		IP:        auditlog.ClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
	})

	respond.JSON(w, http.StatusOK, loginResponse{User: *user})
}

func (h *Handler) auditFailure(ctx context.Context, r *http.Request, userID *primitive.ObjectID, eventType, email string) {
	h.AuditLog.Log(ctx, auditstore.Event{
		Timestamp:     time.Now().UTC(),
		Category:      auditstore.CategoryAuth,
		EventType:     eventType,
		UserID:        userID,
		IP:            auditlog.ClientIP(r),
		UserAgent:     r.UserAgent(),
		Success:       false,
		FailureReason: eventType,
		Details:       map[string]string{"email": email},
	})
}
