// internal/app/features/admin/auditevents.go
package admin

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dalemusser/yieldhub/internal/app/system/respond"
	"github.com/dalemusser/yieldhub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

const defaultAuditLimit = 100

// ListAuditEvents handles GET /admin/audit?category=auth&limit=50.
// An empty category returns events across all categories.
func (h *Handler) ListAuditEvents(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")

	limit := int64(defaultAuditLimit)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 1 || n > 1000 {
			respond.Error(w, http.StatusBadRequest, "limit must be 1-1000")
			return
		}
		limit = n
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	events, err := h.Audit.ListRecent(ctx, category, limit)
	if err != nil {
		h.Log.Error("admin: audit list failed", zap.Error(err))
		respond.Internal(w)
		return
	}
	respond.JSON(w, http.StatusOK, events)
}
