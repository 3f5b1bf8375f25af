// internal/app/features/plans/handler.go
package plans

import (
	"net/http"

	"github.com/dalemusser/yieldhub/internal/app/system/respond"
	"github.com/dalemusser/yieldhub/internal/domain/models"
	"go.uber.org/zap"
)

// Handler serves the investment plan catalog. Plans live in code, so
// this surface has no store dependency.
type Handler struct {
	Log *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{Log: logger}
}

// List handles GET /plans.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, models.Plans())
}
