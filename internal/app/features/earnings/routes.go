// internal/app/features/earnings/routes.go
package earnings

import (
	"github.com/dalemusser/yieldhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sessionMgr *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sessionMgr.RequireSignedIn)
	r.Get("/", h.Summary)
	r.Get("/commissions", h.Commissions)
	r.Get("/referrals", h.Referrals)
	return r
}
