// internal/app/features/investments/routes.go
package investments

import (
	"github.com/dalemusser/yieldhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sessionMgr *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sessionMgr.RequireSignedIn)
	r.Get("/", h.List)
	r.Get("/{investmentID}", h.Get)
	r.Get("/{investmentID}/profits", h.ProfitHistory)
	return r
}
