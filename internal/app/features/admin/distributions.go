// internal/app/features/admin/distributions.go
package admin

import (
	"context"
	"errors"
	"net/http"
	"time"

	auditstore "github.com/dalemusser/yieldhub/internal/app/store/audit"
	"github.com/dalemusser/yieldhub/internal/app/system/auditlog"
	"github.com/dalemusser/yieldhub/internal/app/system/authz"
	"github.com/dalemusser/yieldhub/internal/app/system/distribution"
	"github.com/dalemusser/yieldhub/internal/app/system/respond"
	"github.com/dalemusser/yieldhub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// TriggerDistribution handles POST /admin/distributions.
//
// The run executes synchronously so the admin sees the summary in the
// response. Per-investment idempotency makes a manual run safe even
// when the scheduler already ran today; already-credited investments
// count as skipped.
func (h *Handler) TriggerDistribution(w http.ResponseWriter, r *http.Request) {
	actorID, ok := authz.CurrentUserID(r)
	if !ok {
		respond.Unauthorized(w)
		return
	}

	h.AuditLog.Log(r.Context(), auditstore.Event{
		Category:  auditstore.CategoryDistribution,
		EventType: auditstore.EventManualDistribution,
		ActorID:   &actorID,
		IP:        auditlog.ClientIP(r),
		Success:   true,
	})

	// Detached from the request context: an admin closing the browser
	// tab must not abort a half-finished run.
	ctx, cancel := context.WithTimeout(context.Background(), timeouts.Batch())
	defer cancel()

	result, err := h.Engine.Run(ctx, distribution.ModeManual)
	switch {
	case err == nil:
		respond.JSON(w, http.StatusOK, result)
	case errors.Is(err, distribution.ErrPartialRun):
		// Credited what it could; the result carries the failure count.
		h.Log.Warn("manual distribution finished with failures",
			zap.Int("failed", result.Failed))
		respond.JSON(w, http.StatusOK, result)
	default:
		h.Log.Error("manual distribution failed", zap.Error(err))
		respond.Internal(w)
	}
}

type distributionStatus struct {
	LastRunID       string     `json:"last_run_id,omitempty"`
	LastDistributed *time.Time `json:"last_distributed,omitempty"`
	RecordsToday    int64      `json:"records_today"`
	Date            string     `json:"date"`
}

// DistributionStatus handles GET /admin/distributions/status.
func (h *Handler) DistributionStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	settings, err := h.Settings.Get(ctx)
	if err != nil {
		h.Log.Error("admin: settings load failed", zap.Error(err))
		respond.Internal(w)
		return
	}

	today := h.Engine.Today()
	count, err := h.Profits.CountForDate(ctx, today)
	if err != nil {
		h.Log.Error("admin: profit count failed", zap.Error(err))
		respond.Internal(w)
		return
	}

	respond.JSON(w, http.StatusOK, distributionStatus{
		LastRunID:       settings.LastDistributionRunID,
		LastDistributed: settings.LastProfitDistribution,
		RecordsToday:    count,
		Date:            today,
	})
}
