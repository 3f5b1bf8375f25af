// internal/app/features/logout/handler.go
package logout

import (
	"net/http"

	auditstore "github.com/dalemusser/yieldhub/internal/app/store/audit"
	"github.com/dalemusser/yieldhub/internal/app/system/auditlog"
	"github.com/dalemusser/yieldhub/internal/app/system/auth"
	"github.com/dalemusser/yieldhub/internal/app/system/authz"
	"github.com/dalemusser/yieldhub/internal/app/system/respond"
	"go.uber.org/zap"
)

type Handler struct {
	SessionMgr *auth.SessionManager
	AuditLog   *auditlog.Logger
	Log        *zap.Logger
}

func NewHandler(sessionMgr *auth.SessionManager, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		SessionMgr: sessionMgr,
		AuditLog:   audit,
		Log:        logger,
	}
}

// HandleLogout handles POST /logout. Logging out while not signed in
// is a no-op, not an error.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	userID, signedIn := authz.CurrentUserID(r)

	if err := h.SessionMgr.SignOut(w, r); err != nil {
		h.Log.Error("logout: session clear failed", zap.Error(err))
		respond.Internal(w)
		return
	}

	if signedIn {
		h.AuditLog.Log(r.Context(), auditstore.Event{
			Category:  auditstore.CategoryAuth,
			EventType: auditstore.EventLogout,
			UserID:    &userID,
			IP:        auditlog.ClientIP(r),
			UserAgent: r.UserAgent(),
			Success:   true,
		})
	}

	respond.JSON(w, http.StatusOK, map[string]string{"status": "signed_out"})
}
