// internal/app/features/earnings/handler.go
package earnings

import (
	"context"
	"net/http"
	"strings"

	commissionstore "github.com/dalemusser/yieldhub/internal/app/store/commissions"
	profitstore "github.com/dalemusser/yieldhub/internal/app/store/profits"
	referralstore "github.com/dalemusser/yieldhub/internal/app/store/referrals"
	userstore "github.com/dalemusser/yieldhub/internal/app/store/users"
	"github.com/dalemusser/yieldhub/internal/app/system/authz"
	"github.com/dalemusser/yieldhub/internal/app/system/respond"
	"github.com/dalemusser/yieldhub/internal/app/system/timeouts"
	"github.com/dalemusser/yieldhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const historyLimit = 90

type Handler struct {
	Users           *userstore.Store
	Profits         *profitstore.Store
	ReferralStore   *referralstore.Store
	CommissionStore *commissionstore.Store
	BaseURL         string
	Log             *zap.Logger
}

func NewHandler(db *mongo.Database, baseURL string, logger *zap.Logger) *Handler {
	return &Handler{
		Users:           userstore.New(db),
		Profits:         profitstore.New(db),
		ReferralStore:   referralstore.New(db),
		CommissionStore: commissionstore.New(db),
		BaseURL:         strings.TrimRight(baseURL, "/"),
		Log:             logger,
	}
}

type summaryResponse struct {
	Balance       models.Balance             `json:"balance"`
	RecentProfits []models.DailyProfitRecord `json:"recent_profits"`
}

// Summary handles GET /earnings: the caller's balance plus recent
// daily profit records.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	userID, ok := authz.CurrentUserID(r)
	if !ok {
		respond.Unauthorized(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	user, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		h.Log.Error("earnings: user load failed", zap.Error(err))
		respond.Internal(w)
		return
	}

	profits, err := h.Profits.ListByUser(ctx, userID, historyLimit)
	if err != nil {
		h.Log.Error("earnings: profit history failed", zap.Error(err))
		respond.Internal(w)
		return
	}

	respond.JSON(w, http.StatusOK, summaryResponse{
		Balance:       user.Balance,
		RecentProfits: profits,
	})
}

// Commissions handles GET /earnings/commissions: referral commissions
// credited to the caller, newest first.
func (h *Handler) Commissions(w http.ResponseWriter, r *http.Request) {
	userID, ok := authz.CurrentUserID(r)
	if !ok {
		respond.Unauthorized(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	recs, err := h.CommissionStore.ListByReferrer(ctx, userID, historyLimit)
	if err != nil {
		h.Log.Error("earnings: commission history failed", zap.Error(err))
		respond.Internal(w)
		return
	}
	respond.JSON(w, http.StatusOK, recs)
}

type referralEntry struct {
	UserID   primitive.ObjectID `json:"user_id"`
	FullName string             `json:"full_name"`
	JoinedAt string             `json:"joined_at"`
}

type referralsResponse struct {
	ReferralCode string          `json:"referral_code"`
	ReferralLink string          `json:"referral_link,omitempty"`
	Referred     []referralEntry `json:"referred"`
}

// Referrals handles GET /earnings/referrals: the caller's referral code
// and share link, plus the users they have directly referred.
func (h *Handler) Referrals(w http.ResponseWriter, r *http.Request) {
	userID, ok := authz.CurrentUserID(r)
	if !ok {
		respond.Unauthorized(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	user, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		h.Log.Error("earnings: user load failed", zap.Error(err))
		respond.Internal(w)
		return
	}

	edges, err := h.ReferralStore.ListByReferrer(ctx, userID)
	if err != nil {
		h.Log.Error("earnings: referral list failed", zap.Error(err))
		respond.Internal(w)
		return
	}

	out := make([]referralEntry, 0, len(edges))
	for _, edge := range edges {
		entry := referralEntry{
			UserID:   edge.ReferredID,
			JoinedAt: edge.CreatedAt.UTC().Format("2006-01-02"),
		}
		// Name lookups are best effort; a deleted account still counts
		// as a referral.
		if u, err := h.Users.GetByID(ctx, edge.ReferredID); err == nil {
			entry.FullName = u.FullName
		}
		out = append(out, entry)
	}

	resp := referralsResponse{
		ReferralCode: user.ReferralCode,
		Referred:     out,
	}
	if h.BaseURL != "" {
		resp.ReferralLink = h.BaseURL + "/signup?ref=" + user.ReferralCode
	}
	respond.JSON(w, http.StatusOK, resp)
}
