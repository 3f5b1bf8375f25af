// internal/app/features/admin/withdrawals.go
package admin

import (
	"context"
	"errors"
	"net/http"

	auditstore "github.com/dalemusser/yieldhub/internal/app/store/audit"
	withdrawalstore "github.com/dalemusser/yieldhub/internal/app/store/withdrawals"
	"github.com/dalemusser/yieldhub/internal/app/system/auditlog"
	"github.com/dalemusser/yieldhub/internal/app/system/authz"
	"github.com/dalemusser/yieldhub/internal/app/system/respond"
	"github.com/dalemusser/yieldhub/internal/app/system/timeouts"
	"github.com/dalemusser/yieldhub/internal/app/system/txn"
	"github.com/dalemusser/yieldhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// PendingWithdrawals handles GET /admin/withdrawals, oldest first.
func (h *Handler) PendingWithdrawals(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	ws, err := h.Withdrawals.ListPending(ctx)
	if err != nil {
		h.Log.Error("admin: pending withdrawals failed", zap.Error(err))
		respond.Internal(w)
		return
	}
	respond.JSON(w, http.StatusOK, ws)
}

// ApproveWithdrawal handles POST /admin/withdrawals/{withdrawalID}/approve.
//
// The amount was reserved out of available at request time, so approval
// only settles the total. Rejection is the path that restores funds.
func (h *Handler) ApproveWithdrawal(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, models.ReviewApproved, auditstore.EventWithdrawalApproved,
		func(ctx context.Context, wd *models.Withdrawal) error {
			return h.Users.SettleWithdrawal(ctx, wd.UserID, wd.Amount)
		})
}

// RejectWithdrawal handles POST /admin/withdrawals/{withdrawalID}/reject,
// returning the reserved amount to the user's available balance.
func (h *Handler) RejectWithdrawal(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, models.ReviewRejected, auditstore.EventWithdrawalRejected,
		func(ctx context.Context, wd *models.Withdrawal) error {
			return h.Users.ReleaseWithdrawal(ctx, wd.UserID, wd.Amount)
		})
}

// review runs one withdrawal decision: the status flip and the balance
// adjustment ride one transaction where supported, and the
// status-filtered update resolves racing admins to a single winner.
func (h *Handler) review(w http.ResponseWriter, r *http.Request, status, eventType string,
	applyBalance func(ctx context.Context, wd *models.Withdrawal) error) {

	actorID, ok := authz.CurrentUserID(r)
	if !ok {
		respond.Unauthorized(w)
		return
	}
	wdID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "withdrawalID"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid withdrawal id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	wd, err := h.Withdrawals.GetByID(ctx, wdID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		respond.Error(w, http.StatusNotFound, "withdrawal not found")
		return
	}
	if err != nil {
		h.Log.Error("admin: withdrawal load failed", zap.Error(err))
		respond.Internal(w)
		return
	}

	err = txn.WithTransaction(ctx, h.Client, h.Log, func(ctx context.Context) error {
		if err := h.Withdrawals.MarkReviewed(ctx, wdID, status, actorID); err != nil {
			return err
		}
		return applyBalance(ctx, wd)
	})
	if errors.Is(err, withdrawalstore.ErrAlreadyReviewed) {
		respond.Error(w, http.StatusConflict, "withdrawal has already been reviewed")
		return
	}
	if err != nil {
		h.Log.Error("admin: withdrawal review failed",
			zap.String("status", status), zap.Error(err))
		respond.Internal(w)
		return
	}

	h.AuditLog.Log(ctx, auditstore.Event{
		Category:  auditstore.CategoryAdmin,
		EventType: eventType,
		UserID:    &wd.UserID,
		ActorID:   &actorID,
		IP:        auditlog.ClientIP(r),
		Success:   true,
		Details:   map[string]string{"withdrawal_id": wdID.Hex()},
	})

	respond.JSON(w, http.StatusOK, map[string]string{"status": status})
}
