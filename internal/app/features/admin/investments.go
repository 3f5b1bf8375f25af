// internal/app/features/admin/investments.go
package admin

import (
	"context"
	"errors"
	"net/http"

	auditstore "github.com/dalemusser/yieldhub/internal/app/store/audit"
	"github.com/dalemusser/yieldhub/internal/app/system/auditlog"
	"github.com/dalemusser/yieldhub/internal/app/system/authz"
	"github.com/dalemusser/yieldhub/internal/app/system/respond"
	"github.com/dalemusser/yieldhub/internal/app/system/timeouts"
	"github.com/dalemusser/yieldhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const investmentListLimit = 500

// ListInvestments handles GET /admin/investments, optionally filtered
// by ?status=.
func (h *Handler) ListInvestments(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	switch status {
	case "", models.InvestmentPending, models.InvestmentConfirmed, models.InvestmentRejected:
	default:
		respond.Error(w, http.StatusBadRequest, "unknown status filter")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	invs, err := h.Investments.List(ctx, status, investmentListLimit)
	if err != nil {
		h.Log.Error("admin: investment list failed", zap.Error(err))
		respond.Internal(w)
		return
	}
	respond.JSON(w, http.StatusOK, invs)
}

// ConfirmInvestment handles POST /admin/investments/{investmentID}/confirm.
// Confirming activates the investment; it starts earning on the next
// distribution run.
func (h *Handler) ConfirmInvestment(w http.ResponseWriter, r *http.Request) {
	h.reviewInvestment(w, r, models.InvestmentConfirmed, auditstore.EventInvestmentConfirmed)
}

// RejectInvestment handles POST /admin/investments/{investmentID}/reject.
func (h *Handler) RejectInvestment(w http.ResponseWriter, r *http.Request) {
	h.reviewInvestment(w, r, models.InvestmentRejected, auditstore.EventInvestmentRejected)
}

func (h *Handler) reviewInvestment(w http.ResponseWriter, r *http.Request, status, eventType string) {
	actorID, ok := authz.CurrentUserID(r)
	if !ok {
		respond.Unauthorized(w)
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "investmentID"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid investment id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	inv, err := h.Investments.GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		respond.Error(w, http.StatusNotFound, "investment not found")
		return
	}
	if err != nil {
		h.Log.Error("admin: investment load failed", zap.Error(err))
		respond.Internal(w)
		return
	}
	if inv.Status != models.InvestmentPending {
		respond.Error(w, http.StatusConflict, "investment has already been reviewed")
		return
	}

	if err := h.Investments.SetStatus(ctx, id, status); err != nil {
		h.Log.Error("admin: investment status update failed", zap.Error(err))
		respond.Internal(w)
		return
	}

	h.AuditLog.Log(ctx, auditstore.Event{
		Category:  auditstore.CategoryAdmin,
		EventType: eventType,
		UserID:    &inv.UserID,
		ActorID:   &actorID,
		IP:        auditlog.ClientIP(r),
		Success:   true,
		Details:   map[string]string{"investment_id": id.Hex()},
	})

	respond.JSON(w, http.StatusOK, map[string]string{"status": status})
}

// DeactivateInvestment handles POST /admin/investments/{investmentID}/deactivate.
// The investment stops earning but keeps its status history; nothing is
// deleted.
func (h *Handler) DeactivateInvestment(w http.ResponseWriter, r *http.Request) {
	actorID, ok := authz.CurrentUserID(r)
	if !ok {
		respond.Unauthorized(w)
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "investmentID"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid investment id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	inv, err := h.Investments.GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		respond.Error(w, http.StatusNotFound, "investment not found")
		return
	}
	if err != nil {
		h.Log.Error("admin: investment load failed", zap.Error(err))
		respond.Internal(w)
		return
	}

	if err := h.Investments.Deactivate(ctx, id); err != nil {
		h.Log.Error("admin: investment deactivate failed", zap.Error(err))
		respond.Internal(w)
		return
	}

	h.AuditLog.Log(ctx, auditstore.Event{
		Category:  auditstore.CategoryAdmin,
		EventType: auditstore.EventInvestmentDeactivated,
		UserID:    &inv.UserID,
		ActorID:   &actorID,
		IP:        auditlog.ClientIP(r),
		Success:   true,
		Details:   map[string]string{"investment_id": id.Hex()},
	})

	respond.JSON(w, http.StatusOK, map[string]string{"status": "deactivated"})
}
