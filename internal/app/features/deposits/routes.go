// internal/app/features/deposits/routes.go
package deposits

import (
	"github.com/dalemusser/yieldhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sessionMgr *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sessionMgr.RequireSignedIn)
	r.Post("/", h.Create)
	r.Get("/", h.List)
	return r
}
