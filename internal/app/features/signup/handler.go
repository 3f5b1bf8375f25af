// internal/app/features/signup/handler.go
package signup

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	auditstore "github.com/dalemusser/yieldhub/internal/app/store/audit"
	referralstore "github.com/dalemusser/yieldhub/internal/app/store/referrals"
	userstore "github.com/dalemusser/yieldhub/internal/app/store/users"
	"github.com/dalemusser/yieldhub/internal/app/system/auditlog"
	"github.com/dalemusser/yieldhub/internal/app/system/auth"
	"github.com/dalemusser/yieldhub/internal/app/system/normalize"
	"github.com/dalemusser/yieldhub/internal/app/system/respond"
	"github.com/dalemusser/yieldhub/internal/app/system/timeouts"
	"github.com/dalemusser/yieldhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type Handler struct {
	Users      *userstore.Store
	Referrals  *referralstore.Store
	SessionMgr *auth.SessionManager
	AuditLog   *auditlog.Logger
	Log        *zap.Logger
}

func NewHandler(db *mongo.Database, sessionMgr *auth.SessionManager, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Users:      userstore.New(db),
		Referrals:  referralstore.New(db),
		SessionMgr: sessionMgr,
		AuditLog:   audit,
		Log:        logger,
	}
}

type signupRequest struct {
	FullName     string `json:"full_name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	ReferralCode string `json:"referral_code,omitempty"`
}

type signupResponse struct {
	User models.User `json:"user"`
}

const minPasswordLength = 8

// HandleSignup handles POST /signup.
//
// A valid referral code links the new account under its owner; an
// unknown code is rejected so typos do not silently drop the referral.
// The account is created either way only after the code resolves.
func (h *Handler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	req.FullName = normalize.Name(req.FullName)
	req.Email = normalize.Email(req.Email)
	req.ReferralCode = strings.ToUpper(strings.TrimSpace(req.ReferralCode))

	if req.FullName == "" || req.Email == "" {
		respond.Error(w, http.StatusBadRequest, "full_name and email are required")
		return
	}
	if len(req.Password) < minPasswordLength {
		respond.Error(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	// Resolve the referrer before creating the account.
	var referrer *models.User
	if req.ReferralCode != "" {
		var err error
		referrer, err = h.Users.GetByReferralCode(ctx, req.ReferralCode)
		if errors.Is(err, mongo.ErrNoDocuments) {
			respond.Error(w, http.StatusBadRequest, "unknown referral code")
			return
		}
		if err != nil {
			h.Log.Error("signup: referral code lookup failed", zap.Error(err))
			respond.Internal(w)
			return
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.Log.Error("signup: password hash failed", zap.Error(err))
		respond.Internal(w)
		return
	}

	now := time.Now().UTC()
	user := models.User{
		FullName:     req.FullName,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         models.RoleUser,
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// Retry on referral code collision; the unique index is the
	// arbiter of uniqueness, not the generator.
	var created models.User
	for attempt := 0; attempt < 3; attempt++ {
		user.ReferralCode = userstore.NewReferralCode()
		created, err = h.Users.Create(ctx, user)
		if err == nil || !errors.Is(err, userstore.ErrDuplicateCode) {
			break
		}
	}
	if errors.Is(err, userstore.ErrDuplicateEmail) {
		respond.Error(w, http.StatusConflict, "an account with this email already exists")
		return
	}
	if err != nil {
		h.Log.Error("signup: user create failed", zap.Error(err))
		respond.Internal(w)
		return
	}

	if referrer != nil {
		if _, err := h.Referrals.Create(ctx, referrer.ID, created.ID); err != nil {
			// The account exists; losing the edge is recoverable by
			// support, so log loudly instead of failing the signup.
			h.Log.Error("signup: referral edge create failed",
				zap.String("referrer_id", referrer.ID.Hex()),
				zap.String("referred_id", created.ID.Hex()),
				zap.Error(err))
		}
	}

	if err := h.SessionMgr.SignIn(w, r, created.ID.Hex()); err != nil {
		h.Log.Error("signup: session create failed", zap.Error(err))
		respond.Internal(w)
		return
	}

	h.AuditLog.Log(ctx, auditstore.Event{
		Category:  auditstore.CategoryAuth,
		EventType: auditstore.EventAccountRegistered,
		UserID:    &created.ID,
		IP:        auditlog.ClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
	})

	respond.JSON(w, http.StatusCreated, signupResponse{User: created})
}
