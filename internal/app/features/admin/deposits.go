// internal/app/features/admin/deposits.go
package admin

import (
	"context"
	"errors"
	"net/http"
	"time"

	auditstore "github.com/dalemusser/yieldhub/internal/app/store/audit"
	depositstore "github.com/dalemusser/yieldhub/internal/app/store/deposits"
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

// PendingDeposits handles GET /admin/deposits, oldest first so the
// queue drains in arrival order.
func (h *Handler) PendingDeposits(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	deps, err := h.Deposits.ListPending(ctx)
	if err != nil {
		h.Log.Error("admin: pending deposits failed", zap.Error(err))
		respond.Internal(w)
		return
	}
	respond.JSON(w, http.StatusOK, deps)
}

// ApproveDeposit handles POST /admin/deposits/{depositID}/approve.
//
// Approval wins the review race through the status-filtered update,
// then creates the confirmed investment carrying the plan's daily rate
// at approval time. Both writes ride one transaction where supported.
func (h *Handler) ApproveDeposit(w http.ResponseWriter, r *http.Request) {
	actorID, ok := authz.CurrentUserID(r)
	if !ok {
		respond.Unauthorized(w)
		return
	}
	depID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "depositID"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid deposit id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	dep, err := h.Deposits.GetByID(ctx, depID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		respond.Error(w, http.StatusNotFound, "deposit not found")
		return
	}
	if err != nil {
		h.Log.Error("admin: deposit load failed", zap.Error(err))
		respond.Internal(w)
		return
	}

	plan, ok := models.PlanByID(dep.PlanID)
	if !ok {
		// Plan table changed since the request was filed.
		respond.Error(w, http.StatusUnprocessableEntity, "deposit references an unknown plan")
		return
	}

	now := time.Now().UTC()
	var created models.Investment
	err = txn.WithTransaction(ctx, h.Client, h.Log, func(ctx context.Context) error {
		if err := h.Deposits.MarkReviewed(ctx, depID, models.ReviewApproved, actorID); err != nil {
			return err
		}
		var err error
		created, err = h.Investments.Create(ctx, models.Investment{
			UserID:    dep.UserID,
			PlanID:    plan.ID,
			Amount:    dep.Amount,
			DailyRate: plan.DailyRate,
			IsActive:  true,
			Status:    models.InvestmentConfirmed,
			Reference: dep.Reference,
			CreatedAt: now,
			UpdatedAt: now,
		})
		return err
	})
	if errors.Is(err, depositstore.ErrAlreadyReviewed) {
		respond.Error(w, http.StatusConflict, "deposit has already been reviewed")
		return
	}
	if err != nil {
		h.Log.Error("admin: deposit approval failed", zap.Error(err))
		respond.Internal(w)
		return
	}

	h.AuditLog.Log(ctx, auditstore.Event{
		Category:  auditstore.CategoryAdmin,
		EventType: auditstore.EventDepositApproved,
		UserID:    &dep.UserID,
		ActorID:   &actorID,
		IP:        auditlog.ClientIP(r),
		Success:   true,
		Details:   map[string]string{"deposit_id": depID.Hex(), "investment_id": created.ID.Hex()},
	})

	respond.JSON(w, http.StatusOK, created)
}

// RejectDeposit handles POST /admin/deposits/{depositID}/reject.
// Rejection leaves no investment and never touches balances.
func (h *Handler) RejectDeposit(w http.ResponseWriter, r *http.Request) {
	actorID, ok := authz.CurrentUserID(r)
	if !ok {
		respond.Unauthorized(w)
		return
	}
	depID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "depositID"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid deposit id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	dep, err := h.Deposits.GetByID(ctx, depID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		respond.Error(w, http.StatusNotFound, "deposit not found")
		return
	}
	if err != nil {
		h.Log.Error("admin: deposit load failed", zap.Error(err))
		respond.Internal(w)
		return
	}

	if err := h.Deposits.MarkReviewed(ctx, depID, models.ReviewRejected, actorID); err != nil {
		if errors.Is(err, depositstore.ErrAlreadyReviewed) {
			respond.Error(w, http.StatusConflict, "deposit has already been reviewed")
			return
		}
		h.Log.Error("admin: deposit rejection failed", zap.Error(err))
		respond.Internal(w)
		return
	}

	h.AuditLog.Log(ctx, auditstore.Event{
		Category:  auditstore.CategoryAdmin,
		EventType: auditstore.EventDepositRejected,
		UserID:    &dep.UserID,
		ActorID:   &actorID,
		IP:        auditlog.ClientIP(r),
		Success:   true,
		Details:   map[string]string{"deposit_id": depID.Hex()},
	})

	respond.JSON(w, http.StatusOK, map[string]string{"status": models.ReviewRejected})
}
