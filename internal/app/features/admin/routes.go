// internal/app/features/admin/routes.go
package admin

import (
	"github.com/dalemusser/yieldhub/internal/app/system/auth"
	"github.com/dalemusser/yieldhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sessionMgr *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sessionMgr.RequireSignedIn)
	r.Use(sessionMgr.RequireRole(models.RoleAdmin))

	r.Post("/distributions", h.TriggerDistribution)
	r.Get("/distributions/status", h.DistributionStatus)

	r.Get("/deposits", h.PendingDeposits)
	r.Post("/deposits/{depositID}/approve", h.ApproveDeposit)
	r.Post("/deposits/{depositID}/reject", h.RejectDeposit)

	r.Get("/investments", h.ListInvestments)
	r.Post("/investments/{investmentID}/confirm", h.ConfirmInvestment)
	r.Post("/investments/{investmentID}/reject", h.RejectInvestment)
	r.Post("/investments/{investmentID}/deactivate", h.DeactivateInvestment)

	r.Get("/withdrawals", h.PendingWithdrawals)
	r.Post("/withdrawals/{withdrawalID}/approve", h.ApproveWithdrawal)
	r.Post("/withdrawals/{withdrawalID}/reject", h.RejectWithdrawal)

	r.Get("/users", h.ListUsers)
	r.Post("/users/{userID}/status", h.SetUserStatus)

	r.Get("/audit", h.ListAuditEvents)

	return r
}
