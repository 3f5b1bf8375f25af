// internal/app/features/deposits/handler.go
package deposits

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	depositstore "github.com/dalemusser/yieldhub/internal/app/store/deposits"
	"github.com/dalemusser/yieldhub/internal/app/system/auditlog"
	"github.com/dalemusser/yieldhub/internal/app/system/authz"
	"github.com/dalemusser/yieldhub/internal/app/system/normalize"
	"github.com/dalemusser/yieldhub/internal/app/system/respond"
	"github.com/dalemusser/yieldhub/internal/app/system/timeouts"
	"github.com/dalemusser/yieldhub/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Deposits *depositstore.Store
	AuditLog *auditlog.Logger
	Log      *zap.Logger
}

func NewHandler(db *mongo.Database, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Deposits: depositstore.New(db),
		AuditLog: audit,
		Log:      logger,
	}
}

type createRequest struct {
	PlanID string  `json:"plan_id"`
	Amount float64 `json:"amount"`
	Method string  `json:"method"`
	Note   string  `json:"note,omitempty"`
}

// NewReference returns an opaque order number for a funding request.
func NewReference(prefix string) string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + "-" + strings.ToUpper(raw[:12])
}

// Create handles POST /deposits. The request enters the admin review
// queue; no investment exists until approval.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := authz.CurrentUserID(r)
	if !ok {
		respond.Unauthorized(w)
		return
	}

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	plan, ok := models.PlanByID(req.PlanID)
	if !ok {
		respond.Error(w, http.StatusBadRequest, "unknown plan")
		return
	}
	if !plan.Accepts(req.Amount) {
		respond.Error(w, http.StatusBadRequest,
			fmt.Sprintf("amount outside the %s plan's limits", plan.Name))
		return
	}
	method := strings.TrimSpace(req.Method)
	if method == "" {
		respond.Error(w, http.StatusBadRequest, "method is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	now := time.Now().UTC()
	dep, err := h.Deposits.Create(ctx, models.Deposit{
		UserID:    userID,
		PlanID:    plan.ID,
		Amount:    req.Amount,
		Method:    method,
		Note:      normalize.Text(req.Note),
		Reference: NewReference("DEP"),
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		h.Log.Error("deposits: create failed", zap.Error(err))
		respond.Internal(w)
		return
	}

	respond.JSON(w, http.StatusCreated, dep)
}

// List handles GET /deposits: the caller's own requests, newest first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := authz.CurrentUserID(r)
	if !ok {
		respond.Unauthorized(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	deps, err := h.Deposits.ListByUser(ctx, userID)
	if err != nil {
		h.Log.Error("deposits: list failed", zap.Error(err))
		respond.Internal(w)
		return
	}
	respond.JSON(w, http.StatusOK, deps)
}
